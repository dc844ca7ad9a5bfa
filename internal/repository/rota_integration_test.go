//go:build integration

package repository_test

import (
	"testing"
	"time"

	"volunteer-rota-backend/internal/database/models"
	"volunteer-rota-backend/internal/repository"
	"volunteer-rota-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// RotaRepositoryTestSuite runs the rota repository against a real Postgres,
// mostly for the jsonb assignee round-trip that the fakes cannot cover.
type RotaRepositoryTestSuite struct {
	*testutils.BaseTestSuite
	repo      *repository.RotaRepository
	eventRepo *repository.EventRepository
	occRepo   *repository.OccurrenceRepository
}

func (s *RotaRepositoryTestSuite) SetupSuite() {
	s.repo = repository.NewRotaRepository(s.DB)
	s.eventRepo = repository.NewEventRepository(s.DB)
	s.occRepo = repository.NewOccurrenceRepository(s.DB)
}

func (s *RotaRepositoryTestSuite) seedEvent() (*models.Event, *models.Occurrence) {
	event := testutils.NewEventFactory().Create()
	s.Require().NoError(s.eventRepo.Create(event))
	occ := testutils.NewOccurrenceFactory().Create(event.ID, time.Date(2030, time.June, 2, 10, 0, 0, 0, time.UTC))
	s.Require().NoError(s.occRepo.Create(occ))
	return event, occ
}

func (s *RotaRepositoryTestSuite) TestAssigneesRoundTrip() {
	event, occ := s.seedEvent()
	contactID := uuid.New()

	rota := testutils.NewRotaFactory().Create(event.ID)
	rota.Assignees = models.AssigneeList{
		{ContactID: &contactID, OccurrenceID: &occ.ID},
		{Guest: &models.Guest{Name: "Walk In", Email: "walkin@example.org"}, OccurrenceID: &occ.ID},
	}
	s.Require().NoError(s.repo.Create(rota))

	loaded, err := s.repo.GetByID(rota.ID)
	s.Require().NoError(err)
	s.Require().Len(loaded.Assignees, 2)
	s.Require().NotNil(loaded.Assignees[0].ContactID)
	s.Equal(contactID, *loaded.Assignees[0].ContactID)
	s.Require().NotNil(loaded.Assignees[1].Guest)
	s.Equal("walkin@example.org", loaded.Assignees[1].Guest.Email)
	s.Require().NotNil(loaded.Assignees[1].OccurrenceID)
	s.Equal(occ.ID, *loaded.Assignees[1].OccurrenceID)
}

func (s *RotaRepositoryTestSuite) TestUpdateAssigneesReplacesArray() {
	event, occ := s.seedEvent()
	rota := testutils.NewRotaFactory().Create(event.ID)
	s.Require().NoError(s.repo.Create(rota))

	contactID := uuid.New()
	s.Require().NoError(s.repo.UpdateAssignees(rota.ID, models.AssigneeList{
		{ContactID: &contactID, OccurrenceID: &occ.ID},
	}))

	loaded, err := s.repo.GetByID(rota.ID)
	s.Require().NoError(err)
	s.Require().Len(loaded.Assignees, 1)

	s.Require().NoError(s.repo.UpdateAssignees(rota.ID, models.AssigneeList{}))
	loaded, err = s.repo.GetByID(rota.ID)
	s.Require().NoError(err)
	s.Empty(loaded.Assignees)
}

func (s *RotaRepositoryTestSuite) TestGetByShareToken() {
	event, _ := s.seedEvent()
	rota := testutils.NewRotaFactory().Create(event.ID)
	s.Require().NoError(s.repo.Create(rota))

	loaded, err := s.repo.GetByShareToken(rota.ShareToken)
	s.Require().NoError(err)
	s.Equal(rota.ID, loaded.ID)

	_, err = s.repo.GetByShareToken("nope")
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *RotaRepositoryTestSuite) TestGetByEventIDOrdersByRole() {
	event, _ := s.seedEvent()
	kitchen := testutils.NewRotaFactory().Create(event.ID)
	kitchen.Role = "Kitchen"
	welcome := testutils.NewRotaFactory().Create(event.ID)
	welcome.Role = "Welcome Team"
	s.Require().NoError(s.repo.Create(welcome))
	s.Require().NoError(s.repo.Create(kitchen))

	rotas, err := s.repo.GetByEventID(event.ID)
	s.Require().NoError(err)
	s.Require().Len(rotas, 2)
	s.Equal("Kitchen", rotas[0].Role)
	s.Equal("Welcome Team", rotas[1].Role)
}

func TestRotaRepositoryTestSuite(t *testing.T) {
	base := testutils.SetupTestSuite(t)
	suite.Run(t, &RotaRepositoryTestSuite{BaseTestSuite: base})
}
