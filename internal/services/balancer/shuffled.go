package balancer

import (
	"github.com/mcoot/pelada/internal/dependencies/random"
	"github.com/mcoot/pelada/internal/model"
)

// Shuffled is the randomized split. Goalkeepers are dealt first, then
// Defense and Attack rating groups are visited in shuffled order. One
// alternation preference is carried across every group so the spare player
// of odd groups does not keep landing on the same team.
type Shuffled struct {
	Random random.Random
}

var _ Strategy = Shuffled{}

func (s Shuffled) Assign(players []model.Player) *model.TeamAssignment {
	entries := make([]model.Assignment, 0, len(players))

	var goalkeepers []model.Player
	for _, p := range players {
		if p.Position == model.PositionGoalkeeper {
			goalkeepers = append(goalkeepers, p)
		}
	}
	s.shuffle(goalkeepers)

	diff := 0
	for i, p := range goalkeepers {
		team := model.TeamA
		if i%2 == 1 {
			team = model.TeamB
		}
		if team == model.TeamA {
			diff++
		} else {
			diff--
		}
		entries = append(entries, model.Assignment{Player: p, Team: team})
	}

	// The team short of a goalkeeper gets the first spare outfield player
	alt := newAlternator()
	if diff > 0 {
		alt.preferred = model.TeamB
	}

	for _, pos := range []model.Position{model.PositionDefense, model.PositionAttack} {
		var atPosition []model.Player
		for _, p := range players {
			if p.Position == pos {
				atPosition = append(atPosition, p)
			}
		}

		groups := groupByPositionRating(atPosition)
		s.Random.Shuffle(len(groups), func(i, j int) {
			groups[i], groups[j] = groups[j], groups[i]
		})

		for _, g := range groups {
			s.shuffle(g.members)
			entries = append(entries, alt.split(g.members)...)
		}
	}

	sortForDisplay(entries, true)
	return &model.TeamAssignment{Entries: entries}
}

func (s Shuffled) shuffle(players []model.Player) {
	s.Random.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})
}
