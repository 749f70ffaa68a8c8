package admission

import (
	"context"
	"errors"
	"sort"

	"github.com/mcoot/pelada/internal/model"
)

// Change is one presence change produced by Reconcile
type Change struct {
	Name    string
	Present bool
}

// Rejection records why a change was not applied
type Rejection struct {
	Name   string
	Reason error
}

// BatchResult collects the outcome of applying a list of changes
type BatchResult struct {
	Accepted []string
	Rejected []Rejection
}

// Reconcile returns the changes that turn current into desired: names only in
// desired become registrations, names only in current are removed. Changes
// are ordered by name.
func Reconcile(desired, current []string) []Change {
	want := toSet(desired)
	have := toSet(current)

	changes := []Change{}
	for name := range want {
		if _, ok := have[name]; !ok {
			changes = append(changes, Change{Name: name, Present: true})
		}
	}
	for name := range have {
		if _, ok := want[name]; !ok {
			changes = append(changes, Change{Name: name, Present: false})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Name < changes[j].Name
	})
	return changes
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Apply runs SetPresence for each change in order. Per-player failures are
// collected as rejections and the batch carries on. Source, schema and
// missing-base errors stop the batch and are returned with the partial result.
func (c *Controller) Apply(ctx context.Context, changes []Change) (*BatchResult, error) {
	result := &BatchResult{
		Accepted: []string{},
		Rejected: []Rejection{},
	}

	for _, ch := range changes {
		err := c.SetPresence(ctx, ch.Name, ch.Present)
		switch {
		case err == nil:
			result.Accepted = append(result.Accepted, ch.Name)
		case isFatal(err):
			return result, err
		default:
			result.Rejected = append(result.Rejected, Rejection{Name: ch.Name, Reason: err})
		}
	}
	return result, nil
}

// Sync reconciles the roster against the desired set of names
func (c *Controller) Sync(ctx context.Context, desired []string) (*BatchResult, error) {
	current, err := c.registeredNames(ctx)
	if err != nil {
		return nil, err
	}
	return c.Apply(ctx, Reconcile(desired, current))
}

// isExpected reports whether err is a user-facing rejection rather than an
// infrastructure failure
func isExpected(err error) bool {
	return errors.Is(err, model.ErrUnknownPlayer) ||
		errors.Is(err, model.ErrCapacityExceeded) ||
		errors.Is(err, model.ErrRegistrationClosed) ||
		errors.Is(err, model.ErrPlayerBaseNotLoaded) ||
		errors.Is(err, model.ErrSchemaInvalid)
}

func isFatal(err error) bool {
	return errors.Is(err, model.ErrSourceUnavailable) ||
		errors.Is(err, model.ErrSchemaInvalid) ||
		errors.Is(err, model.ErrPlayerBaseNotLoaded)
}
