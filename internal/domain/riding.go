package domain

import (
	"fmt"
	"sort"
)

// Candidate is one candidate's consolidated result inside a riding.
type Candidate struct {
	// LastName is the candidate's family name.
	LastName string `json:"last_name"`

	// FirstName is the candidate's given name.
	FirstName string `json:"first_name"`

	// Votes is the candidate's total vote count across all polls.
	Votes int `json:"votes"`
}

// Riding is an electoral district: a name plus at most one candidate per
// party. Ridings are built once from the fused poll list and never mutated
// afterwards; each owns its candidates exclusively.
type Riding struct {
	// Name is the district name, unique within a dataset.
	Name string `json:"name"`

	// Candidates maps each fielded party to its single candidate.
	Candidates map[Party]Candidate `json:"candidates"`
}

// BuildRidings groups fused polls into ridings keyed by riding name.
// Every fused poll becomes exactly one candidate entry under its party.
// Output order follows first appearance, which after FusePolls is sorted
// riding-name order; non-contiguous repeats of a name merge into the
// riding created on first sight, so callers cannot double-create districts.
func BuildRidings(fused []Poll) []Riding {
	var ridings []Riding
	index := make(map[string]int)

	for _, poll := range fused {
		i, ok := index[poll.Riding]
		if !ok {
			i = len(ridings)
			index[poll.Riding] = i
			ridings = append(ridings, Riding{
				Name:       poll.Riding,
				Candidates: make(map[Party]Candidate),
			})
		}

		ridings[i].Candidates[poll.Party] = Candidate{
			LastName:  poll.LastName,
			FirstName: poll.FirstName,
			Votes:     poll.Votes,
		}
	}

	return ridings
}

// PartiesInOrder returns the parties that fielded a candidate in this
// riding, in Party enumeration order. Iterating this slice instead of the
// Candidates map keeps every derived computation deterministic.
func (r Riding) PartiesInOrder() []Party {
	var parties []Party
	for _, p := range Parties() {
		if _, ok := r.Candidates[p]; ok {
			parties = append(parties, p)
		}
	}
	return parties
}

// Winner returns the party whose candidate holds the strictly greatest
// vote count. An exact tie between top candidates is broken by Party
// enumeration order: the first maximal entry wins. This is a deliberate
// determinism choice; requirements leave the tie-break unspecified.
// Returns ErrNoCandidates for an empty riding.
func (r Riding) Winner() (Party, error) {
	if len(r.Candidates) == 0 {
		return PartyOther, fmt.Errorf("riding %q: %w", r.Name, ErrNoCandidates)
	}

	winner := PartyOther
	best := -1
	for _, p := range r.PartiesInOrder() {
		if votes := r.Candidates[p].Votes; votes > best {
			best = votes
			winner = p
		}
	}
	return winner, nil
}

// WasWinner reports whether the given party won this riding.
// An empty riding has no winner.
func (r Riding) WasWinner(p Party) bool {
	winner, err := r.Winner()
	return err == nil && winner == p
}

// VictoryMargin returns the normalized gap between the top two finishers:
// (first - second) / total votes, a value in [0, 1] where 0 means an exact
// tie. Ridings with fewer than two candidates have no margin and yield
// ErrInsufficientCandidates; callers exclude them from margin reports
// rather than treating this as a failure.
func (r Riding) VictoryMargin() (float64, error) {
	if len(r.Candidates) < 2 {
		return 0, fmt.Errorf("riding %q: %w", r.Name, ErrInsufficientCandidates)
	}

	votes := make([]int, 0, len(r.Candidates))
	total := 0
	for _, c := range r.Candidates {
		votes = append(votes, c.Votes)
		total += c.Votes
	}
	sort.Sort(sort.Reverse(sort.IntSlice(votes)))

	if total == 0 {
		// Every candidate at zero is an exact tie.
		return 0, nil
	}
	return float64(votes[0]-votes[1]) / float64(total), nil
}

// TotalVotes returns the sum of all candidate vote counts in the riding.
func (r Riding) TotalVotes() int {
	total := 0
	for _, c := range r.Candidates {
		total += c.Votes
	}
	return total
}
