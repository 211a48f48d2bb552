package domain

// VoteCount is one party's line in the national totals report.
type VoteCount struct {
	// Party is the affiliation this line aggregates.
	Party Party `json:"party"`

	// Votes is the party's vote total across every riding.
	Votes int `json:"votes"`

	// Ratio is the party's share of all votes cast, in [0, 1].
	Ratio float64 `json:"ratio"`

	// Seats is the number of ridings the party won.
	Seats int `json:"seats"`
}

// ComboVictory records a riding whose outcome would flip if an allied
// party's votes merged into the primary party's count.
type ComboVictory struct {
	// Riding is the district where the combination would win.
	Riding string `json:"riding"`

	// Winner is the party that actually won the riding.
	Winner Party `json:"winner"`

	// WinnerVotes is the actual winner's vote count.
	WinnerVotes int `json:"winner_votes"`

	// CombinedVotes is the primary plus ally vote count.
	CombinedVotes int `json:"combined_votes"`

	// Difference is CombinedVotes minus WinnerVotes, always positive.
	Difference int `json:"difference"`
}

// VictoryMargin records how close the race was in one riding.
type VictoryMargin struct {
	// Riding is the district name.
	Riding string `json:"riding"`

	// Winner is the party that took the seat.
	Winner Party `json:"winner"`

	// Margin is the normalized gap between the top two finishers, in [0, 1].
	Margin float64 `json:"margin"`
}

// PartyResult records one riding's outcome for a single target party.
type PartyResult struct {
	// Riding is the district name.
	Riding string `json:"riding"`

	// Votes is the target party's vote count in the riding.
	Votes int `json:"votes"`

	// Share is the target party's fraction of the riding's total votes.
	Share float64 `json:"share"`

	// Won reports whether the target party took the seat.
	Won bool `json:"won"`
}
