package model

import "time"

// Registration records that a player has checked in for the next match
type Registration struct {
	Name         string
	RegisteredAt time.Time
}

// Limits caps how many players can be registered at once
type Limits struct {
	MaxOutfield    int // Defense + Attack
	MaxGoalkeepers int
}

// DefaultLimits returns the limits of a standard match
func DefaultLimits() Limits {
	return Limits{
		MaxOutfield:    18,
		MaxGoalkeepers: 2,
	}
}

// Allows reports whether one more player at the given position fits
// alongside the current outfield and goalkeeper counts
func (l Limits) Allows(pos Position, outfield, goalkeepers int) bool {
	if pos == PositionGoalkeeper {
		return goalkeepers < l.MaxGoalkeepers
	}
	return outfield < l.MaxOutfield
}
