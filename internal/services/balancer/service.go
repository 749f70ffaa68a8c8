package balancer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mcoot/pelada/internal/dependencies/random"
	"github.com/mcoot/pelada/internal/model"
)

// Variant selects the splitting algorithm
type Variant string

const (
	VariantAlternating Variant = "alternating"
	VariantShuffled    Variant = "shuffled"
)

// ErrUnknownVariant is returned for a variant name that is not recognised
var ErrUnknownVariant = errors.New("unknown balancer variant")

// ParseVariant accepts a variant name or its number ("1" or "2")
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alternating", "1":
		return VariantAlternating, nil
	case "shuffled", "2":
		return VariantShuffled, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// Options tune a single AssignTeams call
type Options struct {
	// Variant overrides the service default when set
	Variant Variant
	// Seed makes the shuffled variant reproducible. Without it the
	// service's random source is used.
	Seed *uint64
}

// Summary is everything shown about a split. It carries the players'
// ratings internally; callers must not expose them.
type Summary struct {
	Variant    Variant
	Assignment *model.TeamAssignment
	Score      float64
	Verdict    string
	Counts     map[model.Team]model.PositionCount
}

// Service builds team assignments
type Service struct {
	defaultVariant Variant
	random         random.Random
}

// New creates a balancer Service
func New(defaultVariant Variant, random random.Random) *Service {
	if defaultVariant == "" {
		defaultVariant = VariantAlternating
	}
	return &Service{
		defaultVariant: defaultVariant,
		random:         random,
	}
}

// DefaultVariant returns the variant used when Options.Variant is empty
func (s *Service) DefaultVariant() Variant {
	return s.defaultVariant
}

func (s *Service) strategy(opts Options) (Variant, Strategy, error) {
	variant := opts.Variant
	if variant == "" {
		variant = s.defaultVariant
	}

	switch variant {
	case VariantAlternating:
		return variant, Alternating{}, nil
	case VariantShuffled:
		var rng random.Random = s.random
		if opts.Seed != nil {
			rng = random.NewSeeded(*opts.Seed)
		}
		return variant, Shuffled{Random: rng}, nil
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
}

// AssignTeams splits players into Team A and Team B
func (s *Service) AssignTeams(players []model.Player, opts Options) (*model.TeamAssignment, error) {
	_, strategy, err := s.strategy(opts)
	if err != nil {
		return nil, err
	}
	return strategy.Assign(players), nil
}

// Summarize splits players and derives the score, verdict and position counts
func (s *Service) Summarize(players []model.Player, opts Options) (*Summary, error) {
	variant, strategy, err := s.strategy(opts)
	if err != nil {
		return nil, err
	}

	assignment := strategy.Assign(players)
	score := BalanceScore(assignment)
	return &Summary{
		Variant:    variant,
		Assignment: assignment,
		Score:      score,
		Verdict:    Verdict(score),
		Counts:     PositionCounts(assignment),
	}, nil
}
