package factory

import (
	"time"

	"github.com/mcoot/pelada/internal/dependencies/mocks"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/balancer"
	"github.com/mcoot/pelada/internal/storage/memory"
	"github.com/mcoot/pelada/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithLimits(model.DefaultLimits())
}

// NewTestAppWithLimits is NewTestApp with custom roster limits
func NewTestAppWithLimits(limits model.Limits) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	app := newWithDependencies(store, mockClock, mockRandom, nil, limits, balancer.VariantAlternating, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// TestPlayers is a small player base covering every position
func TestPlayers() []model.Player {
	return []model.Player{
		{Name: "Ana", Position: model.PositionDefense, Rating: 5},
		{Name: "Bea", Position: model.PositionDefense, Rating: 5},
		{Name: "Caio", Position: model.PositionAttack, Rating: 3},
		{Name: "Duda", Position: model.PositionGoalkeeper, Rating: 0},
		{Name: "Edu", Position: model.PositionAttack, Rating: 4},
		{Name: "Fabi", Position: model.PositionDefense, Rating: 2},
		{Name: "Gil", Position: model.PositionGoalkeeper, Rating: 3},
		{Name: "Hugo", Position: model.PositionGoalkeeper, Rating: 2},
	}
}

// LoadTestPlayers loads TestPlayers into the player base
func (t *TestApp) LoadTestPlayers() {
	t.PlayerBase.LoadPlayers(TestPlayers())
}
