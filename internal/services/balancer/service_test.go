package balancer

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pelada/internal/dependencies/mocks"
	"github.com/mcoot/pelada/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	service *Service
	players []model.Player
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.service = New(VariantAlternating, s.random)
	s.players = []model.Player{
		player("Ana", model.PositionDefense, 5),
		player("Bea", model.PositionDefense, 5),
		player("Caio", model.PositionAttack, 3),
		player("Duda", model.PositionGoalkeeper, 0),
	}
}

func (s *ServiceSuite) TestParseVariant() {
	for input, want := range map[string]Variant{
		"alternating": VariantAlternating,
		" 1 ":         VariantAlternating,
		"Shuffled":    VariantShuffled,
		"2":           VariantShuffled,
	} {
		got, err := ParseVariant(input)
		s.Require().NoError(err, input)
		s.Equal(want, got)
	}

	_, err := ParseVariant("greedy")
	s.ErrorIs(err, ErrUnknownVariant)
}

func (s *ServiceSuite) TestDefaultsToAlternating() {
	s.Equal(VariantAlternating, New("", s.random).DefaultVariant())
}

func (s *ServiceSuite) TestAssignTeamsUsesDefaultVariant() {
	a, err := s.service.AssignTeams(s.players, Options{})
	s.Require().NoError(err)
	s.Equal(Alternating{}.Assign(s.players), a)
	s.Empty(s.random.ShuffleCalls)
}

func (s *ServiceSuite) TestAssignTeamsShuffledUsesInjectedRandom() {
	_, err := s.service.AssignTeams(s.players, Options{Variant: VariantShuffled})
	s.Require().NoError(err)
	s.NotEmpty(s.random.ShuffleCalls)
}

func (s *ServiceSuite) TestSeedIsReproducibleAndSkipsInjectedRandom() {
	seed := uint64(2024)
	players := randomRoster(11, 18)

	first, err := s.service.AssignTeams(players, Options{Variant: VariantShuffled, Seed: &seed})
	s.Require().NoError(err)
	second, err := s.service.AssignTeams(players, Options{Variant: VariantShuffled, Seed: &seed})
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Empty(s.random.ShuffleCalls)
}

func (s *ServiceSuite) TestUnknownVariant() {
	_, err := s.service.AssignTeams(s.players, Options{Variant: "greedy"})
	s.ErrorIs(err, ErrUnknownVariant)

	_, err = s.service.Summarize(s.players, Options{Variant: "greedy"})
	s.ErrorIs(err, ErrUnknownVariant)
}

func (s *ServiceSuite) TestSummarize() {
	summary, err := s.service.Summarize(s.players, Options{})
	s.Require().NoError(err)

	s.Equal(VariantAlternating, summary.Variant)
	s.Len(summary.Assignment.Entries, 4)
	// Team A: Ana 5 + Caio 3, Team B: Bea 5 + Duda 0
	s.Equal(76.9, summary.Score)
	s.Equal(VerdictSlightAdvantage, summary.Verdict)
	s.Equal(model.PositionCount{Defense: 1, Attack: 1}, summary.Counts[model.TeamA])
	s.Equal(model.PositionCount{Goalkeeper: 1, Defense: 1}, summary.Counts[model.TeamB])
}

func (s *ServiceSuite) TestSummarizeEmptyRoster() {
	summary, err := s.service.Summarize(nil, Options{})
	s.Require().NoError(err)

	s.Empty(summary.Assignment.Entries)
	s.Equal(0.0, summary.Score)
	s.Equal(VerdictImbalanced, summary.Verdict)
	s.Len(summary.Counts, 2)
}
