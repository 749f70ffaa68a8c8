package balancer

import "github.com/mcoot/pelada/internal/model"

// Alternating is the deterministic split. Players are grouped by position
// and rating in the order the groups appear in the input, and each group is
// halved between the teams. No randomness is involved, so the same input
// always gives the same teams.
type Alternating struct{}

var _ Strategy = Alternating{}

func (Alternating) Assign(players []model.Player) *model.TeamAssignment {
	alt := newAlternator()

	entries := make([]model.Assignment, 0, len(players))
	for _, g := range groupByPositionRating(players) {
		entries = append(entries, alt.split(g.members)...)
	}

	sortForDisplay(entries, false)
	return &model.TeamAssignment{Entries: entries}
}
