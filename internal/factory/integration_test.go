package factory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pelada/internal/config"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/admission"
	"github.com/mcoot/pelada/internal/services/balancer"
	"github.com/mcoot/pelada/internal/services/export"
	redisstorage "github.com/mcoot/pelada/internal/storage/redis"
	"github.com/mcoot/pelada/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestAppWithLimits(model.Limits{MaxOutfield: 4, MaxGoalkeepers: 2})
	s.app.LoadTestPlayers()
	s.ctx = context.Background()
}

// Test: check-in, split and export from an empty roster
func (s *IntegrationSuite) TestCheckInSplitExport() {
	// Step 1: Players sync their presence
	result, err := s.app.Admission.Sync(s.ctx, []string{"Ana", "Bea", "Caio", "Duda", "Gil", "Hugo", "Edu", "Fabi"})
	s.Require().NoError(err)

	// Alphabetical: Ana, Bea, Caio, Duda, Edu, Fabi, Gil, Hugo.
	// Outfield fills at Ana, Bea, Caio, Edu; goalkeepers at Duda, Gil.
	s.Equal([]string{"Ana", "Bea", "Caio", "Duda", "Edu", "Gil"}, result.Accepted)
	s.Require().Len(result.Rejected, 2)
	s.Equal("Fabi", result.Rejected[0].Name)
	s.ErrorIs(result.Rejected[0].Reason, model.ErrCapacityExceeded)
	s.Equal("Hugo", result.Rejected[1].Name)

	// Step 2: Status reflects the limits
	status, err := s.app.Admission.Status(s.ctx)
	s.Require().NoError(err)
	s.Equal(4, status.Outfield)
	s.Equal(2, status.Goalkeepers)
	s.Equal(0, status.Remaining)

	// Step 3: Split the registered players, goalkeepers dealt first
	players, err := s.app.Admission.Registered(s.ctx)
	s.Require().NoError(err)
	summary, err := s.app.Balancer.Summarize(players, balancer.Options{Variant: balancer.VariantShuffled})
	s.Require().NoError(err)
	s.Len(summary.Assignment.Entries, 6)
	for _, team := range model.Teams {
		s.Equal(1, summary.Counts[team].Goalkeeper)
	}

	// Step 4: Export
	rows := export.Rows(summary.Assignment)
	s.Len(rows, 6)
}

// Test: a player leaving frees the slot for someone else
func (s *IntegrationSuite) TestCheckOutFreesSlot() {
	_, err := s.app.Admission.Sync(s.ctx, []string{"Duda", "Gil"})
	s.Require().NoError(err)

	err = s.app.Admission.SetPresence(s.ctx, "Hugo", true)
	s.ErrorIs(err, model.ErrCapacityExceeded)

	s.Require().NoError(s.app.Admission.SetPresence(s.ctx, "Gil", false))
	s.Require().NoError(s.app.Admission.SetPresence(s.ctx, "Hugo", true))

	players, err := s.app.Admission.Registered(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 2)
}

// Test: view-only mode blocks the batch but keeps reads working
func (s *IntegrationSuite) TestClosedRosterRejectsBatch() {
	s.app.Admission.SetClosed(true)

	result, err := s.app.Admission.Apply(s.ctx, []admission.Change{{Name: "Ana", Present: true}})
	s.Require().NoError(err)
	s.Empty(result.Accepted)
	s.Require().Len(result.Rejected, 1)
	s.ErrorIs(result.Rejected[0].Reason, model.ErrRegistrationClosed)

	status, err := s.app.Admission.Status(s.ctx)
	s.Require().NoError(err)
	s.True(status.Closed)
}

func (s *IntegrationSuite) TestNewWithRedisStorage() {
	mini := miniredis.RunT(s.T())
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mini.Addr()

	app, err := New(s.ctx, Config{StorageType: StorageTypeRedis, RedisConfig: &redisCfg})
	s.Require().NoError(err)
	defer func() { _ = app.Close() }()

	app.PlayerBase.LoadPlayers(TestPlayers())
	s.Require().NoError(app.Admission.SetPresence(s.ctx, "Ana", true))
	s.Equal(model.DefaultLimits(), app.Admission.Limits())
	s.True(mini.Exists("pelada:registrations"))
}

func (s *IntegrationSuite) TestNewWithLevelDBStorage() {
	app, err := New(s.ctx, Config{StorageType: StorageTypeLevelDB, LevelDBDir: s.T().TempDir()})
	s.Require().NoError(err)
	defer func() { _ = app.Close() }()

	app.PlayerBase.LoadPlayers(TestPlayers())
	s.NoError(app.Admission.SetPresence(s.ctx, "Ana", true))
}

func (s *IntegrationSuite) TestNewRejectsBadStorage() {
	_, err := New(s.ctx, Config{StorageType: "sqlite"})
	s.Error(err)

	_, err = New(s.ctx, Config{StorageType: StorageTypeRedis})
	s.Error(err)

	_, err = New(s.ctx, Config{StorageType: StorageTypePostgres})
	s.Error(err)
}

func (s *IntegrationSuite) TestConfigFromEnvLoadsPlayerBaseFile() {
	path := filepath.Join(s.T().TempDir(), "players.csv")
	s.Require().NoError(os.WriteFile(path, []byte("Nome,Posição,Nota\nAna,Defesa,5\n"), 0o600))

	fc, err := ConfigFromEnv(&config.Config{
		StorageType:     StorageTypeMemory,
		PlayerBasePath:  path,
		MaxOutfield:     10,
		MaxGoalkeepers:  1,
		BalancerVariant: "shuffled",
	}, testutil.NopLogger())
	s.Require().NoError(err)
	s.Equal(balancer.VariantShuffled, fc.BalancerVariant)

	app, err := New(s.ctx, fc)
	s.Require().NoError(err)
	s.Require().NoError(app.PlayerBase.Load(s.ctx))
	s.Equal(1, app.PlayerBase.Count())
	s.Equal(model.Limits{MaxOutfield: 10, MaxGoalkeepers: 1}, app.Admission.Limits())
	s.Equal(balancer.VariantShuffled, app.Balancer.DefaultVariant())
}

func (s *IntegrationSuite) TestConfigFromEnvRejectsUnknownVariant() {
	_, err := ConfigFromEnv(&config.Config{BalancerVariant: "greedy"}, testutil.NopLogger())
	s.ErrorIs(err, balancer.ErrUnknownVariant)
}
