package domain

import "sort"

// Poll is one vote record for a single candidate, either raw from a poll
// station row or the result of fusing several such rows. Polls are value
// objects; Fuse is the only operation that derives a changed copy, and it
// only ever accumulates votes.
type Poll struct {
	// Riding is the electoral district name, an exact-match grouping key.
	Riding string `json:"riding"`

	// Party is the candidate's canonical affiliation.
	Party Party `json:"party"`

	// LastName is the candidate's family name, part of the fusion key.
	LastName string `json:"last_name"`

	// FirstName is informational only and never part of the fusion key;
	// split records for the same candidate keep the first-seen spelling.
	FirstName string `json:"first_name"`

	// Votes is the non-negative vote count for this record.
	Votes int `json:"votes"`
}

// Fuse combines another poll's votes into this one and returns the result.
// The receiver's identity fields win; only the vote counts accumulate.
// Callers are expected to fuse only polls sharing the same fusion key.
func (p Poll) Fuse(other Poll) Poll {
	p.Votes += other.Votes
	return p
}

// Less defines the total order used before fusion: riding, then party,
// then candidate last name. Sorting by this order makes every fusion
// group a contiguous run.
func (p Poll) Less(other Poll) bool {
	if p.Riding != other.Riding {
		return p.Riding < other.Riding
	}
	if p.Party != other.Party {
		return p.Party < other.Party
	}
	return p.LastName < other.LastName
}

// sameEntry reports whether two polls describe the same logical candidate
// entry: same riding, same party, same last name. First name and riding
// spelling variations are deliberately excluded.
func (p Poll) sameEntry(other Poll) bool {
	return p.Riding == other.Riding && p.Party == other.Party && p.LastName == other.LastName
}

// FusePolls consolidates raw polls into one record per candidate entry.
// It sorts a copy of the input by the Poll total order so fusion groups
// become contiguous runs, then folds each run pairwise. The sum of votes
// across the output always equals the sum across the input, and fusing an
// already-fused list returns it unchanged.
func FusePolls(polls []Poll) []Poll {
	if len(polls) == 0 {
		return nil
	}

	sorted := make([]Poll, len(polls))
	copy(sorted, polls)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	fused := make([]Poll, 0, len(sorted))
	current := sorted[0]
	for _, poll := range sorted[1:] {
		if current.sameEntry(poll) {
			current = current.Fuse(poll)
			continue
		}
		fused = append(fused, current)
		current = poll
	}
	fused = append(fused, current)

	return fused
}
