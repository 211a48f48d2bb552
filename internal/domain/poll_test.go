package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollFuse(t *testing.T) {
	a := Poll{Riding: "Avalon", Party: PartyConservative, LastName: "Smith", FirstName: "Jo", Votes: 10}
	b := Poll{Riding: "Avalon", Party: PartyConservative, LastName: "Smith", FirstName: "Joanne", Votes: 15}

	fused := a.Fuse(b)

	assert.Equal(t, 25, fused.Votes)
	// The receiver's identity fields win.
	assert.Equal(t, "Jo", fused.FirstName)
	assert.Equal(t, "Avalon", fused.Riding)
	// Inputs are values; neither original changes.
	assert.Equal(t, 10, a.Votes)
	assert.Equal(t, 15, b.Votes)
}

// TestPollLess verifies the riding → party → last name total order that
// makes fusion groups contiguous after sorting.
func TestPollLess(t *testing.T) {
	tests := []struct {
		name string
		a, b Poll
		less bool
	}{
		{
			name: "riding dominates",
			a:    Poll{Riding: "Avalon", Party: PartyNDP, LastName: "Zed"},
			b:    Poll{Riding: "Burnaby South", Party: PartyLiberal, LastName: "Abbott"},
			less: true,
		},
		{
			name: "party breaks riding tie",
			a:    Poll{Riding: "Avalon", Party: PartyLiberal, LastName: "Zed"},
			b:    Poll{Riding: "Avalon", Party: PartyConservative, LastName: "Abbott"},
			less: true,
		},
		{
			name: "last name breaks party tie",
			a:    Poll{Riding: "Avalon", Party: PartyLiberal, LastName: "Abbott"},
			b:    Poll{Riding: "Avalon", Party: PartyLiberal, LastName: "Baker"},
			less: true,
		},
		{
			name: "equal keys are not less",
			a:    Poll{Riding: "Avalon", Party: PartyLiberal, LastName: "Abbott"},
			b:    Poll{Riding: "Avalon", Party: PartyLiberal, LastName: "Abbott"},
			less: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.less, tt.a.Less(tt.b))
			if tt.less {
				assert.False(t, tt.b.Less(tt.a))
			}
		})
	}
}

// TestFusePolls covers the core consolidation contract: split records for
// the same candidate fuse into one summed record, distinct entries stay
// separate, and output order follows the total order.
func TestFusePolls(t *testing.T) {
	tests := []struct {
		name     string
		input    []Poll
		expected []Poll
	}{
		{
			name:     "empty input yields empty output",
			input:    nil,
			expected: nil,
		},
		{
			name: "singleton fuses to itself",
			input: []Poll{
				{Riding: "Avalon", Party: PartyConservative, LastName: "Chapman", FirstName: "Matthew", Votes: 33},
			},
			expected: []Poll{
				{Riding: "Avalon", Party: PartyConservative, LastName: "Chapman", FirstName: "Matthew", Votes: 33},
			},
		},
		{
			name: "split records for one candidate sum",
			input: []Poll{
				{Riding: "R1", Party: PartyConservative, LastName: "Smith", Votes: 10},
				{Riding: "R1", Party: PartyConservative, LastName: "Smith", Votes: 15},
			},
			expected: []Poll{
				{Riding: "R1", Party: PartyConservative, LastName: "Smith", Votes: 25},
			},
		},
		{
			name: "distinct last names under one party stay separate",
			input: []Poll{
				{Riding: "R1", Party: PartyIndependent, LastName: "Young", Votes: 5},
				{Riding: "R1", Party: PartyIndependent, LastName: "Oldman", Votes: 7},
			},
			expected: []Poll{
				{Riding: "R1", Party: PartyIndependent, LastName: "Oldman", Votes: 7},
				{Riding: "R1", Party: PartyIndependent, LastName: "Young", Votes: 5},
			},
		},
		{
			name: "same candidate name in different ridings stays separate",
			input: []Poll{
				{Riding: "R2", Party: PartyLiberal, LastName: "Smith", Votes: 8},
				{Riding: "R1", Party: PartyLiberal, LastName: "Smith", Votes: 3},
			},
			expected: []Poll{
				{Riding: "R1", Party: PartyLiberal, LastName: "Smith", Votes: 3},
				{Riding: "R2", Party: PartyLiberal, LastName: "Smith", Votes: 8},
			},
		},
		{
			name: "first-seen first name survives fusion",
			input: []Poll{
				{Riding: "R1", Party: PartyGreen, LastName: "May", FirstName: "E.", Votes: 4},
				{Riding: "R1", Party: PartyGreen, LastName: "May", FirstName: "Elizabeth", Votes: 6},
			},
			expected: []Poll{
				{Riding: "R1", Party: PartyGreen, LastName: "May", FirstName: "E.", Votes: 10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FusePolls(tt.input))
		})
	}
}

// TestFusePollsConservation verifies that fusion never drops or duplicates
// votes: input and output totals are equal regardless of grouping.
func TestFusePollsConservation(t *testing.T) {
	input := []Poll{
		{Riding: "Avalon", Party: PartyConservative, LastName: "Chapman", Votes: 33},
		{Riding: "Avalon", Party: PartyConservative, LastName: "Chapman", Votes: 12},
		{Riding: "Avalon", Party: PartyLiberal, LastName: "McDonald", Votes: 48},
		{Riding: "Burnaby South", Party: PartyNDP, LastName: "Singh", Votes: 51},
		{Riding: "Burnaby South", Party: PartyNDP, LastName: "Singh", Votes: 0},
		{Riding: "Burnaby South", Party: PartyPeoples, LastName: "Tan", Votes: 9},
	}

	sum := func(polls []Poll) int {
		total := 0
		for _, p := range polls {
			total += p.Votes
		}
		return total
	}

	fused := FusePolls(input)
	assert.Equal(t, sum(input), sum(fused))
	assert.Len(t, fused, 4)
}

// TestFusePollsIdempotence verifies that fusing an already-fused list
// returns it unchanged: every record is its own singleton group.
func TestFusePollsIdempotence(t *testing.T) {
	input := []Poll{
		{Riding: "Avalon", Party: PartyLiberal, LastName: "McDonald", Votes: 48},
		{Riding: "Avalon", Party: PartyConservative, LastName: "Chapman", Votes: 45},
		{Riding: "Burnaby South", Party: PartyNDP, LastName: "Singh", Votes: 51},
	}

	once := FusePolls(input)
	twice := FusePolls(once)

	assert.Equal(t, once, twice)
}

// TestFusePollsDoesNotMutateInput verifies callers keep their raw rows.
func TestFusePollsDoesNotMutateInput(t *testing.T) {
	input := []Poll{
		{Riding: "R1", Party: PartyConservative, LastName: "Smith", Votes: 10},
		{Riding: "R1", Party: PartyConservative, LastName: "Smith", Votes: 15},
	}
	original := make([]Poll, len(input))
	copy(original, input)

	FusePolls(input)

	assert.Equal(t, original, input)
}

// TestFusePollsSorted verifies output follows the Poll total order, which
// downstream riding construction relies on for contiguous grouping.
func TestFusePollsSorted(t *testing.T) {
	input := []Poll{
		{Riding: "Burnaby South", Party: PartyNDP, LastName: "Singh", Votes: 51},
		{Riding: "Avalon", Party: PartyLiberal, LastName: "McDonald", Votes: 48},
		{Riding: "Avalon", Party: PartyConservative, LastName: "Chapman", Votes: 45},
	}

	fused := FusePolls(input)

	require.Len(t, fused, 3)
	sorted := sort.SliceIsSorted(fused, func(i, j int) bool { return fused[i].Less(fused[j]) })
	assert.True(t, sorted)
}
