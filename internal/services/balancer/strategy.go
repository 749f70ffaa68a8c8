package balancer

import (
	"sort"

	"github.com/mcoot/pelada/internal/model"
)

// Strategy splits a set of players into two teams
type Strategy interface {
	// Assign places every player on exactly one team
	Assign(players []model.Player) *model.TeamAssignment
}

// alternator hands the larger half of odd-sized groups to each team in turn
type alternator struct {
	preferred model.Team
}

func newAlternator() *alternator {
	return &alternator{preferred: model.TeamA}
}

// split divides one rating group. Even groups send the first half to Team A.
// Odd groups send the larger first half to the preferred team, and the
// preference then passes to the other team.
func (a *alternator) split(members []model.Player) []model.Assignment {
	n := len(members)
	cut := n / 2
	first, second := model.TeamA, model.TeamB
	if n%2 == 1 {
		cut = (n + 1) / 2
		first, second = a.preferred, a.preferred.Other()
		a.preferred = a.preferred.Other()
	}

	out := make([]model.Assignment, 0, n)
	for i, p := range members {
		team := second
		if i < cut {
			team = first
		}
		out = append(out, model.Assignment{Player: p, Team: team})
	}
	return out
}

// group collects players sharing a rating within one position
type group struct {
	position model.Position
	rating   float64
	members  []model.Player
}

// groupByPositionRating buckets players by (position, rating), keeping the
// order in which each bucket is first seen and the input order inside it
func groupByPositionRating(players []model.Player) []*group {
	type key struct {
		position model.Position
		rating   float64
	}

	var groups []*group
	index := map[key]*group{}
	for _, p := range players {
		k := key{p.Position, p.Rating}
		g, ok := index[k]
		if !ok {
			g = &group{position: p.Position, rating: p.Rating}
			index[k] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, p)
	}
	return groups
}

func teamRank(t model.Team) int {
	if t == model.TeamA {
		return 0
	}
	return 1
}

// sortForDisplay orders entries by team, position and rating descending.
// With byName set, ties are broken by name; otherwise they keep their order.
func sortForDisplay(entries []model.Assignment, byName bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if ta, tb := teamRank(a.Team), teamRank(b.Team); ta != tb {
			return ta < tb
		}
		if ra, rb := a.Player.Position.Rank(), b.Player.Position.Rank(); ra != rb {
			return ra < rb
		}
		if a.Player.Rating != b.Player.Rating {
			return a.Player.Rating > b.Player.Rating
		}
		if byName {
			return a.Player.Name < b.Player.Name
		}
		return false
	})
}
