package playerbase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/mcoot/pelada/internal/model"
)

// Service holds the loaded player base. The base is read-only between
// reloads; Load replaces it wholesale.
type Service struct {
	provider Provider
	logger   *slog.Logger

	mu      sync.RWMutex
	players []model.Player
	index   map[string]int
	loaded  bool
}

// New creates a player base service reading from provider.
// provider may be nil when players are supplied with LoadPlayers.
func New(provider Provider, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		logger:   logger.With(slog.String("component", "player-base")),
		index:    make(map[string]int),
	}
}

// Load reads the base from the provider. On failure the previous base stays
// in place and the error is returned.
func (s *Service) Load(ctx context.Context) error {
	if s.provider == nil {
		return fmt.Errorf("%w: no player base provider configured", model.ErrSourceUnavailable)
	}

	players, err := s.provider.LoadPlayers(ctx)
	if err != nil {
		s.logger.Error("failed to load player base", slog.String("error", err.Error()))
		return err
	}

	s.LoadPlayers(players)
	s.logger.Info("player base loaded", slog.Int("players", len(players)))
	return nil
}

// LoadPlayers replaces the base with the given players (useful for testing).
// Later duplicates of a name are ignored.
func (s *Service) LoadPlayers(players []model.Player) {
	base := make([]model.Player, 0, len(players))
	index := make(map[string]int, len(players))
	for _, p := range players {
		if _, dup := index[p.Name]; dup {
			continue
		}
		index[p.Name] = len(base)
		base = append(base, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = base
	s.index = index
	s.loaded = true
}

// IsLoaded returns whether a base has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Count returns the number of players in the base
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

// Lookup finds a player by exact name
func (s *Service) Lookup(name string) (model.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[name]
	if !ok {
		return model.Player{}, false
	}
	return s.players[i], true
}

// Players returns a copy of the base sorted by name
func (s *Service) Players() []model.Player {
	s.mu.RLock()
	players := make([]model.Player, len(s.players))
	copy(players, s.players)
	s.mu.RUnlock()

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Name < players[j].Name
	})
	return players
}

// Select returns the players of the base whose names are in names, in base
// order. Names missing from the base are dropped.
func (s *Service) Select(names []string) []model.Player {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	selected := make([]model.Player, 0, len(wanted))
	for _, p := range s.players {
		if _, ok := wanted[p.Name]; ok {
			selected = append(selected, p)
		}
	}
	return selected
}
