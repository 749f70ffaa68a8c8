// Package storagetest holds the behaviour every storage backend must share.
// Backend test suites embed Suite and set Storage in their SetupTest.
package storagetest

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/storage"
)

type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

// baseTime has whole-second precision so every backend round-trips it
var baseTime = time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)

func (s *Suite) names(regs []model.Registration) []string {
	names := make([]string, len(regs))
	for i, r := range regs {
		names[i] = r.Name
	}
	return names
}

func (s *Suite) TestListEmpty() {
	regs, err := s.Storage.ListRegistrations(s.Ctx)
	s.Require().NoError(err)
	s.Empty(regs)
}

func (s *Suite) TestAddAndListSortedByName() {
	s.Require().NoError(s.Storage.AddRegistration(s.Ctx, "Caio", baseTime))
	s.Require().NoError(s.Storage.AddRegistration(s.Ctx, "Ana", baseTime.Add(time.Minute)))
	s.Require().NoError(s.Storage.AddRegistration(s.Ctx, "Bea", baseTime.Add(2*time.Minute)))

	regs, err := s.Storage.ListRegistrations(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Ana", "Bea", "Caio"}, s.names(regs))
	s.True(regs[0].RegisteredAt.Equal(baseTime.Add(time.Minute)), "got %v", regs[0].RegisteredAt)
}

func (s *Suite) TestAddExistingUpdatesTimestamp() {
	s.Require().NoError(s.Storage.AddRegistration(s.Ctx, "Ana", baseTime))
	s.Require().NoError(s.Storage.AddRegistration(s.Ctx, "Ana", baseTime.Add(time.Hour)))

	regs, err := s.Storage.ListRegistrations(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(regs, 1)
	s.True(regs[0].RegisteredAt.Equal(baseTime.Add(time.Hour)))
}

func (s *Suite) TestRemoveRegistration() {
	s.Require().NoError(s.Storage.AddRegistration(s.Ctx, "Ana", baseTime))
	s.Require().NoError(s.Storage.AddRegistration(s.Ctx, "Bea", baseTime))

	s.Require().NoError(s.Storage.RemoveRegistration(s.Ctx, "Ana"))

	regs, err := s.Storage.ListRegistrations(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Bea"}, s.names(regs))
}

func (s *Suite) TestRemoveMissingIsNoop() {
	s.NoError(s.Storage.RemoveRegistration(s.Ctx, "nobody"))
}

func (s *Suite) TestClearRegistrations() {
	s.Require().NoError(s.Storage.AddRegistration(s.Ctx, "Ana", baseTime))
	s.Require().NoError(s.Storage.AddRegistration(s.Ctx, "Bea", baseTime))

	s.Require().NoError(s.Storage.ClearRegistrations(s.Ctx))

	regs, err := s.Storage.ListRegistrations(s.Ctx)
	s.Require().NoError(err)
	s.Empty(regs)
}

func (s *Suite) TestTransactSeesCurrentSet() {
	s.Require().NoError(s.Storage.AddRegistration(s.Ctx, "Ana", baseTime))

	var seen []string
	err := s.Storage.Transact(s.Ctx, func(current []model.Registration) (*storage.Mutation, error) {
		seen = s.names(current)
		return nil, nil
	})
	s.Require().NoError(err)
	s.Equal([]string{"Ana"}, seen)
}

func (s *Suite) TestTransactAdds() {
	err := s.Storage.Transact(s.Ctx, func(current []model.Registration) (*storage.Mutation, error) {
		return &storage.Mutation{Name: "Duda", Present: true, At: baseTime}, nil
	})
	s.Require().NoError(err)

	regs, err := s.Storage.ListRegistrations(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Duda"}, s.names(regs))
}

func (s *Suite) TestTransactRemoves() {
	s.Require().NoError(s.Storage.AddRegistration(s.Ctx, "Duda", baseTime))

	err := s.Storage.Transact(s.Ctx, func(current []model.Registration) (*storage.Mutation, error) {
		return &storage.Mutation{Name: "Duda", Present: false}, nil
	})
	s.Require().NoError(err)

	regs, err := s.Storage.ListRegistrations(s.Ctx)
	s.Require().NoError(err)
	s.Empty(regs)
}

func (s *Suite) TestTransactDecideErrorWritesNothing() {
	rejected := errors.New("rejected")

	err := s.Storage.Transact(s.Ctx, func(current []model.Registration) (*storage.Mutation, error) {
		return &storage.Mutation{Name: "Duda", Present: true, At: baseTime}, rejected
	})
	s.ErrorIs(err, rejected)

	regs, err := s.Storage.ListRegistrations(s.Ctx)
	s.Require().NoError(err)
	s.Empty(regs)
}
