package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/scrutineer/internal/domain"
)

func performanceRidings() []domain.Riding {
	return []domain.Riding{
		{
			// Liberal share 48/100 = 0.48, a win.
			Name: "Avalon",
			Candidates: map[domain.Party]domain.Candidate{
				domain.PartyLiberal:      {Votes: 48},
				domain.PartyConservative: {Votes: 45},
				domain.PartyGreen:        {Votes: 7},
			},
		},
		{
			// Liberal share 30/100 = 0.30, a loss.
			Name: "Burnaby South",
			Candidates: map[domain.Party]domain.Candidate{
				domain.PartyNDP:          {Votes: 51},
				domain.PartyLiberal:      {Votes: 30},
				domain.PartyConservative: {Votes: 19},
			},
		},
		{
			// No Liberal candidate: excluded from the report.
			Name: "Uncontested",
			Candidates: map[domain.Party]domain.Candidate{
				domain.PartyConservative: {Votes: 10},
				domain.PartyNDP:          {Votes: 5},
			},
		},
	}
}

func TestNewPerformanceReport(t *testing.T) {
	tests := []struct {
		name    string
		unit    string
		config  PerformanceConfig
		wantErr error
	}{
		{name: "valid configuration", unit: "performance", config: PerformanceConfig{Party: "Liberal"}},
		{name: "alias resolves", unit: "performance", config: PerformanceConfig{Party: "libéral"}},
		{name: "empty name rejected", unit: "", config: PerformanceConfig{Party: "Liberal"}, wantErr: ErrEmptyReportName},
		{name: "unknown party rejected", unit: "performance", config: PerformanceConfig{Party: "Pirate Party"}, wantErr: ErrUnknownParty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, err := NewPerformanceReport(tt.unit, tt.config)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, unit.Validate())
		})
	}
}

// TestPerformanceReportCompute verifies per-riding share and win flags,
// sorted ascending by share, with uncontested ridings excluded.
func TestPerformanceReportCompute(t *testing.T) {
	unit, err := NewPerformanceReport("performance", PerformanceConfig{Party: "Liberal"})
	require.NoError(t, err)

	records := unit.Compute(performanceRidings())

	require.Len(t, records, 2)
	assert.Equal(t, domain.PartyResult{
		Riding: "Burnaby South",
		Votes:  30,
		Share:  0.30,
		Won:    false,
	}, records[0])
	assert.Equal(t, domain.PartyResult{
		Riding: "Avalon",
		Votes:  48,
		Share:  0.48,
		Won:    true,
	}, records[1])
}

func TestPerformanceReportZeroVoteRiding(t *testing.T) {
	ridings := []domain.Riding{
		{
			Name: "Nobody Voted",
			Candidates: map[domain.Party]domain.Candidate{
				domain.PartyLiberal:      {Votes: 0},
				domain.PartyConservative: {Votes: 0},
			},
		},
	}

	unit, err := NewPerformanceReport("performance", PerformanceConfig{Party: "Liberal"})
	require.NoError(t, err)

	records := unit.Compute(ridings)

	require.Len(t, records, 1)
	assert.Zero(t, records[0].Share)
	// Zero-zero tie resolves to the earlier enumeration variant.
	assert.True(t, records[0].Won)
}

func TestPerformanceReportEmptyInput(t *testing.T) {
	unit, err := NewPerformanceReport("performance", PerformanceConfig{Party: "Liberal"})
	require.NoError(t, err)

	assert.Empty(t, unit.Compute(nil))
}

func TestPerformanceReportGenerate(t *testing.T) {
	unit, err := NewPerformanceReport("performance", PerformanceConfig{Party: "Liberal"})
	require.NoError(t, err)

	out, err := unit.Generate(context.Background(), performanceRidings())
	require.NoError(t, err)

	records, ok := out.([]domain.PartyResult)
	require.True(t, ok)
	assert.Len(t, records, 2)
}

func TestPerformanceReportUnmarshalParameters(t *testing.T) {
	unit, err := NewPerformanceReport("performance", PerformanceConfig{Party: "Liberal"})
	require.NoError(t, err)

	var params yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("party: NDP"), &params))
	require.NoError(t, unit.UnmarshalParameters(*params.Content[0]))
	assert.Equal(t, domain.PartyNDP, unit.target)

	var bad yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("party: Pirate Party"), &bad))
	assert.ErrorIs(t, unit.UnmarshalParameters(*bad.Content[0]), ErrUnknownParty)
	assert.Equal(t, domain.PartyNDP, unit.target)
}

func TestCreatePerformanceReport(t *testing.T) {
	unit, err := CreatePerformanceReport("performance", map[string]any{"party": "Green Party"})
	require.NoError(t, err)
	assert.Equal(t, "performance", unit.Name())

	_, err = CreatePerformanceReport("performance", map[string]any{})
	assert.Error(t, err)
}
