package model

import "strings"

// Position is the field position a player signs up for
type Position string

const (
	PositionGoalkeeper Position = "Goalkeeper"
	PositionDefense    Position = "Defense"
	PositionAttack     Position = "Attack"
)

// Positions lists every position in display order
var Positions = []Position{PositionGoalkeeper, PositionDefense, PositionAttack}

// Rank orders positions for display: Goalkeeper < Defense < Attack
func (p Position) Rank() int {
	switch p {
	case PositionGoalkeeper:
		return 0
	case PositionDefense:
		return 1
	default:
		return 2
	}
}

// IsOutfield reports whether the position counts against the outfield limit
func (p Position) IsOutfield() bool {
	return p != PositionGoalkeeper
}

// NormalizePosition maps free text from the player base onto a Position.
// Matching is by substring after trimming and lower-casing. Text that matches
// nothing is treated as Attack.
func NormalizePosition(text string) Position {
	v := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(v, "gol"):
		return PositionGoalkeeper
	case strings.Contains(v, "def"):
		return PositionDefense
	case strings.Contains(v, "ata"),
		strings.Contains(v, "atq"),
		strings.Contains(v, "for"),
		strings.Contains(v, "frente"):
		return PositionAttack
	default:
		return PositionAttack
	}
}

// Player is an entry of the player base.
// Rating is internal to team balancing and must never leave the service.
type Player struct {
	Name     string
	Position Position
	Rating   float64
}
