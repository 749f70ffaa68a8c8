package balancer

import (
	"math"

	"github.com/mcoot/pelada/internal/model"
)

const epsilon = 1e-9

// Verdicts give a quick reading of a balance score
const (
	VerdictBalanced        = "balanced"
	VerdictSlightAdvantage = "slight_advantage"
	VerdictImbalanced      = "imbalanced"
)

// BalanceScore rates how close the two teams' rating sums are on a 0-100
// scale, rounded to one decimal. 100 means equal sums. An empty or
// all-zero assignment scores 0. The sums themselves are never exposed.
func BalanceScore(a *model.TeamAssignment) float64 {
	var sumA, sumB float64
	for _, e := range a.Entries {
		if e.Team == model.TeamA {
			sumA += e.Player.Rating
		} else {
			sumB += e.Player.Rating
		}
	}

	total := sumA + sumB
	if total <= epsilon {
		return 0
	}
	score := 100 * (1 - math.Abs(sumA-sumB)/(total+epsilon))
	return math.Round(score*10) / 10
}

// Verdict classifies a balance score
func Verdict(score float64) string {
	switch {
	case score >= 80:
		return VerdictBalanced
	case score >= 60:
		return VerdictSlightAdvantage
	default:
		return VerdictImbalanced
	}
}

// PositionCounts counts players per position on each team. Both teams are
// always present, with zeroes for missing positions.
func PositionCounts(a *model.TeamAssignment) map[model.Team]model.PositionCount {
	counts := make(map[model.Team]model.PositionCount, len(model.Teams))
	for _, t := range model.Teams {
		counts[t] = model.PositionCount{}
	}
	for _, e := range a.Entries {
		c := counts[e.Team]
		c.Add(e.Player.Position)
		counts[e.Team] = c
	}
	return counts
}
