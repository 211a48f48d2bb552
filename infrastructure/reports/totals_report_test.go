package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/scrutineer/internal/domain"
)

func testRidings() []domain.Riding {
	return []domain.Riding{
		{
			Name: "Avalon",
			Candidates: map[domain.Party]domain.Candidate{
				domain.PartyLiberal:      {LastName: "McDonald", Votes: 48},
				domain.PartyConservative: {LastName: "Chapman", Votes: 45},
				domain.PartyGreen:        {LastName: "Reid", Votes: 7},
			},
		},
		{
			Name: "Burnaby South",
			Candidates: map[domain.Party]domain.Candidate{
				domain.PartyNDP:          {LastName: "Singh", Votes: 51},
				domain.PartyLiberal:      {LastName: "Wang", Votes: 30},
				domain.PartyConservative: {LastName: "Shin", Votes: 19},
			},
		},
	}
}

func TestNewTotalsReport(t *testing.T) {
	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewTotalsReport("", DefaultTotalsConfig())
		assert.ErrorIs(t, err, ErrEmptyReportName)
	})

	t.Run("rejects negative min votes", func(t *testing.T) {
		_, err := NewTotalsReport("totals", TotalsConfig{MinVotes: -1})
		assert.ErrorContains(t, err, "validation failed")
	})

	t.Run("creates with defaults", func(t *testing.T) {
		unit, err := NewTotalsReport("totals", DefaultTotalsConfig())
		require.NoError(t, err)
		assert.Equal(t, "totals", unit.Name())
		assert.NoError(t, unit.Validate())
	})
}

func TestTotalsReportCompute(t *testing.T) {
	unit, err := NewTotalsReport("totals", DefaultTotalsConfig())
	require.NoError(t, err)

	records := unit.Compute(testRidings())

	// Liberal, Conservative, NDP, Green received votes; emitted in
	// enumeration order.
	require.Len(t, records, 4)
	assert.Equal(t, domain.PartyLiberal, records[0].Party)
	assert.Equal(t, domain.PartyConservative, records[1].Party)
	assert.Equal(t, domain.PartyNDP, records[2].Party)
	assert.Equal(t, domain.PartyGreen, records[3].Party)

	assert.Equal(t, 78, records[0].Votes) // 48 + 30
	assert.Equal(t, 64, records[1].Votes) // 45 + 19
	assert.Equal(t, 51, records[2].Votes)
	assert.Equal(t, 7, records[3].Votes)

	// One seat each: Liberal took Avalon, NDP took Burnaby South.
	assert.Equal(t, 1, records[0].Seats)
	assert.Equal(t, 0, records[1].Seats)
	assert.Equal(t, 1, records[2].Seats)
	assert.Equal(t, 0, records[3].Seats)
}

// TestTotalsReportRatioSum verifies the ratio invariant: the emitted
// ratios sum to 1.0 within floating-point tolerance.
func TestTotalsReportRatioSum(t *testing.T) {
	unit, err := NewTotalsReport("totals", DefaultTotalsConfig())
	require.NoError(t, err)

	records := unit.Compute(testRidings())

	sum := 0.0
	for _, rec := range records {
		assert.GreaterOrEqual(t, rec.Ratio, 0.0)
		assert.LessOrEqual(t, rec.Ratio, 1.0)
		sum += rec.Ratio
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestTotalsReportEmptyInput(t *testing.T) {
	unit, err := NewTotalsReport("totals", DefaultTotalsConfig())
	require.NoError(t, err)

	assert.Empty(t, unit.Compute(nil))
}

// TestTotalsReportSkipsEmptyRidings verifies an empty riding awards no
// seat and contributes no votes instead of failing the report.
func TestTotalsReportSkipsEmptyRidings(t *testing.T) {
	ridings := append(testRidings(), domain.Riding{
		Name:       "Ghost Riding",
		Candidates: map[domain.Party]domain.Candidate{},
	})

	unit, err := NewTotalsReport("totals", DefaultTotalsConfig())
	require.NoError(t, err)

	records := unit.Compute(ridings)

	seats := 0
	for _, rec := range records {
		seats += rec.Seats
	}
	assert.Equal(t, 2, seats)
}

func TestTotalsReportMinVotes(t *testing.T) {
	unit, err := NewTotalsReport("totals", TotalsConfig{MinVotes: 50})
	require.NoError(t, err)

	records := unit.Compute(testRidings())

	require.Len(t, records, 3)
	for _, rec := range records {
		assert.GreaterOrEqual(t, rec.Votes, 50)
	}
}

func TestTotalsReportGenerate(t *testing.T) {
	unit, err := NewTotalsReport("totals", DefaultTotalsConfig())
	require.NoError(t, err)

	out, err := unit.Generate(context.Background(), testRidings())
	require.NoError(t, err)

	records, ok := out.([]domain.VoteCount)
	require.True(t, ok)
	assert.Len(t, records, 4)
}

func TestTotalsReportUnmarshalParameters(t *testing.T) {
	unit, err := NewTotalsReport("totals", DefaultTotalsConfig())
	require.NoError(t, err)

	var params yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("min_votes: 100"), &params))

	require.NoError(t, unit.UnmarshalParameters(*params.Content[0]))
	assert.Equal(t, 100, unit.config.MinVotes)

	var bad yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("min_votes: -5"), &bad))
	assert.Error(t, unit.UnmarshalParameters(*bad.Content[0]))
	assert.Equal(t, 100, unit.config.MinVotes)
}

func TestCreateTotalsReport(t *testing.T) {
	unit, err := CreateTotalsReport("totals", map[string]any{"min_votes": 10})
	require.NoError(t, err)
	assert.Equal(t, "totals", unit.Name())

	_, err = CreateTotalsReport("totals", map[string]any{"min_votes": -1})
	assert.Error(t, err)
}
