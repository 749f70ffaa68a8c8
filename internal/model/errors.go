package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Player base errors
	ErrUnknownPlayer       = errors.New("player not in player base")
	ErrPlayerBaseNotLoaded = errors.New("player base not loaded")
	ErrSchemaInvalid       = errors.New("player base schema invalid")
	ErrSourceUnavailable   = errors.New("source unavailable")

	// Admission errors
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrRegistrationClosed  = errors.New("registration is closed")
	ErrConcurrencyConflict = errors.New("concurrent registration change")
)

// CapacityError is returned when a player cannot be admitted because the
// limit for their position has been reached
type CapacityError struct {
	Position Position
}

func (e *CapacityError) Error() string {
	if e.Position == PositionGoalkeeper {
		return "goalkeeper limit reached"
	}
	return fmt.Sprintf("outfield limit reached (%s)", e.Position)
}

// Unwrap lets errors.Is match ErrCapacityExceeded
func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}
