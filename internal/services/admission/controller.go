package admission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mcoot/pelada/internal/dependencies/clock"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/playerbase"
	"github.com/mcoot/pelada/internal/storage"
)

// Controller admits and removes players from the roster while keeping the
// outfield and goalkeeper counts within limits
type Controller struct {
	storage storage.Storage
	base    *playerbase.Service
	clock   clock.Clock
	limits  model.Limits
	logger  *slog.Logger

	closed atomic.Bool
}

// NewController creates a new admission Controller
func NewController(
	storage storage.Storage,
	base *playerbase.Service,
	clock clock.Clock,
	limits model.Limits,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		base:    base,
		clock:   clock,
		limits:  limits,
		logger:  logger.With(slog.String("component", "admission")),
	}
}

// Limits returns the configured capacity limits
func (c *Controller) Limits() model.Limits {
	return c.limits
}

// SetClosed switches view-only mode on or off. While closed no presence
// change is accepted.
func (c *Controller) SetClosed(closed bool) {
	c.closed.Store(closed)
	c.logger.Info("registration mode changed", slog.Bool("closed", closed))
}

// IsClosed reports whether registration is in view-only mode
func (c *Controller) IsClosed() bool {
	return c.closed.Load()
}

// SetPresence registers or unregisters a player. It is a no-op when the
// roster already matches. A concurrent change to the roster is retried once
// before ErrConcurrencyConflict is returned.
func (c *Controller) SetPresence(ctx context.Context, name string, wantPresent bool) error {
	if !c.base.IsLoaded() {
		return model.ErrPlayerBaseNotLoaded
	}
	player, ok := c.base.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrUnknownPlayer, name)
	}

	err := c.transact(ctx, player, wantPresent)
	if errors.Is(err, model.ErrConcurrencyConflict) {
		c.logger.Warn("roster changed during admission, retrying",
			slog.String("player", name),
		)
		err = c.transact(ctx, player, wantPresent)
	}

	switch {
	case err == nil:
		return nil
	case isExpected(err), errors.Is(err, model.ErrConcurrencyConflict):
		return err
	default:
		c.logger.Error("roster store failed",
			slog.String("player", name),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}
}

func (c *Controller) transact(ctx context.Context, player model.Player, wantPresent bool) error {
	var committed *storage.Mutation

	err := c.storage.Transact(ctx, func(current []model.Registration) (*storage.Mutation, error) {
		committed = nil
		registered := false
		for _, r := range current {
			if r.Name == player.Name {
				registered = true
				break
			}
		}

		if registered == wantPresent {
			return nil, nil
		}
		if c.IsClosed() {
			return nil, model.ErrRegistrationClosed
		}

		if wantPresent {
			counts := c.countRegistered(current)
			if !c.limits.Allows(player.Position, counts.Defense+counts.Attack, counts.Goalkeeper) {
				return nil, &model.CapacityError{Position: player.Position}
			}
		}

		committed = &storage.Mutation{Name: player.Name, Present: wantPresent, At: c.clock.Now()}
		return committed, nil
	})
	if err != nil {
		return err
	}

	if committed != nil {
		c.logger.Info("presence changed",
			slog.String("player", player.Name),
			slog.String("position", string(player.Position)),
			slog.Bool("present", wantPresent),
		)
	}
	return nil
}

// countRegistered counts the registered players per position. Registrations
// for names no longer in the base are not counted.
func (c *Controller) countRegistered(current []model.Registration) model.PositionCount {
	var counts model.PositionCount
	for _, r := range current {
		if p, ok := c.base.Lookup(r.Name); ok {
			counts.Add(p.Position)
		}
	}
	return counts
}

// Clear removes every registration. It is an organizer action and works in
// view-only mode too.
func (c *Controller) Clear(ctx context.Context) error {
	if err := c.storage.ClearRegistrations(ctx); err != nil {
		return fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}
	c.logger.Info("registrations cleared")
	return nil
}

// RosterEntry is one registered player as shown on the roster
type RosterEntry struct {
	Name         string
	Position     model.Position
	RegisteredAt time.Time
}

// Status summarises the roster
type Status struct {
	Entries     []RosterEntry // sorted by name
	Outfield    int
	Goalkeepers int
	Limits      model.Limits
	Remaining   int
	Closed      bool
}

// Status reads the current roster. Registrations for names missing from the
// base are left out.
func (c *Controller) Status(ctx context.Context) (*Status, error) {
	regs, err := c.listRegistrations(ctx)
	if err != nil {
		return nil, err
	}

	status := &Status{
		Entries: []RosterEntry{},
		Limits:  c.limits,
		Closed:  c.IsClosed(),
	}
	for _, r := range regs {
		p, ok := c.base.Lookup(r.Name)
		if !ok {
			continue
		}
		status.Entries = append(status.Entries, RosterEntry{
			Name:         r.Name,
			Position:     p.Position,
			RegisteredAt: r.RegisteredAt,
		})
		if p.Position.IsOutfield() {
			status.Outfield++
		} else {
			status.Goalkeepers++
		}
	}
	status.Remaining = max(0, c.limits.MaxOutfield-status.Outfield) +
		max(0, c.limits.MaxGoalkeepers-status.Goalkeepers)

	return status, nil
}

// Registered returns the registered players in player base order
func (c *Controller) Registered(ctx context.Context) ([]model.Player, error) {
	names, err := c.registeredNames(ctx)
	if err != nil {
		return nil, err
	}
	return c.base.Select(names), nil
}

// registeredNames lists registered names that are still in the base.
// Stale registrations are left for Clear.
func (c *Controller) registeredNames(ctx context.Context) ([]string, error) {
	regs, err := c.listRegistrations(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(regs))
	for _, r := range regs {
		if _, ok := c.base.Lookup(r.Name); ok {
			names = append(names, r.Name)
		}
	}
	return names, nil
}

func (c *Controller) listRegistrations(ctx context.Context) ([]model.Registration, error) {
	regs, err := c.storage.ListRegistrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}
	return regs, nil
}
