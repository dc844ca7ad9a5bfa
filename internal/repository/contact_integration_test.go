//go:build integration

package repository_test

import (
	"testing"
	"time"

	"volunteer-rota-backend/internal/repository"
	"volunteer-rota-backend/internal/testutils"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ContactRepositoryTestSuite struct {
	*testutils.BaseTestSuite
	repo      *repository.ContactRepository
	leaveRepo *repository.LeavePeriodRepository
}

func (s *ContactRepositoryTestSuite) SetupSuite() {
	s.repo = repository.NewContactRepository(s.DB)
	s.leaveRepo = repository.NewLeavePeriodRepository(s.DB)
}

func (s *ContactRepositoryTestSuite) TestEmailIsCaseInsensitive() {
	contact := testutils.NewContactFactory().CreateNamed("Priya", "Shah", "Priya.Shah@Example.org")
	s.Require().NoError(s.repo.Create(contact))

	loaded, err := s.repo.GetByEmail("PRIYA.SHAH@example.ORG")
	s.Require().NoError(err)
	s.Equal(contact.ID, loaded.ID)
	s.Equal("priya.shah@example.org", loaded.Email)
}

func (s *ContactRepositoryTestSuite) TestGetByEmailNotFound() {
	_, err := s.repo.GetByEmail("nobody@example.org")
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *ContactRepositoryTestSuite) TestSpouseLinkSurvivesReload() {
	a, b := testutils.NewContactFactory().CreateCouple()
	s.Require().NoError(s.repo.Create(b))
	s.Require().NoError(s.repo.Create(a))

	loaded, err := s.repo.GetByID(a.ID)
	s.Require().NoError(err)
	s.Require().NotNil(loaded.SpouseID)
	s.Equal(b.ID, *loaded.SpouseID)
}

func (s *ContactRepositoryTestSuite) TestLeavePeriodOverlapQuery() {
	contact := testutils.NewContactFactory().Create()
	s.Require().NoError(s.repo.Create(contact))

	leave := testutils.NewLeavePeriodFactory().Create(
		contact.ID,
		time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2030, time.June, 14, 0, 0, 0, 0, time.UTC),
	)
	s.Require().NoError(s.leaveRepo.Create(leave))

	overlapping, err := s.leaveRepo.GetOverlapping(contact.ID, time.Date(2030, time.June, 14, 10, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Len(overlapping, 1)

	outside, err := s.leaveRepo.GetOverlapping(contact.ID, time.Date(2030, time.June, 15, 10, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Empty(outside)
}

func TestContactRepositoryTestSuite(t *testing.T) {
	base := testutils.SetupTestSuite(t)
	suite.Run(t, &ContactRepositoryTestSuite{BaseTestSuite: base})
}
