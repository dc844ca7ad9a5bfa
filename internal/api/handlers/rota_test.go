package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"volunteer-rota-backend/internal/api/handlers"
	"volunteer-rota-backend/internal/database/models"
	"volunteer-rota-backend/internal/service"
	"volunteer-rota-backend/internal/testutils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RotaHandlerTestSuite exercises the rota endpoints over in-memory fakes
type RotaHandlerTestSuite struct {
	suite.Suite
	http        *testutils.HTTPTestSuite
	rotaRepo    *testutils.FakeRotaRepo
	eventRepo   *testutils.FakeEventRepo
	occRepo     *testutils.FakeOccurrenceRepo
	contactRepo *testutils.FakeContactRepo

	event      *models.Event
	occurrence *models.Occurrence
}

func (s *RotaHandlerTestSuite) SetupTest() {
	s.http = testutils.SetupHTTPTest()
	s.rotaRepo = testutils.NewFakeRotaRepo()
	s.eventRepo = testutils.NewFakeEventRepo()
	s.occRepo = testutils.NewFakeOccurrenceRepo()
	s.contactRepo = testutils.NewFakeContactRepo()

	v := validator.New()
	rotaService := service.NewRotaService(s.rotaRepo, s.eventRepo, s.occRepo, v)
	assignmentService := service.NewAssignmentService(s.rotaRepo, s.occRepo, s.contactRepo, v)
	handler := handlers.NewRotaHandler(rotaService, assignmentService)

	s.http.Router.POST("/rotas", handler.CreateRota)
	s.http.Router.POST("/rotas/from-template", handler.CreateFromTemplate)
	s.http.Router.GET("/rotas/:id", handler.GetRota)
	s.http.Router.DELETE("/rotas/:id", handler.DeleteRota)
	s.http.Router.POST("/rotas/:id/assignees", handler.AddAssignees)
	s.http.Router.DELETE("/rotas/:id/assignees/:index", handler.RemoveAssignee)
	s.http.Router.GET("/events/:id/rotas", handler.ListByEvent)

	s.event = testutils.NewEventFactory().Create()
	require.NoError(s.T(), s.eventRepo.Create(s.event))
	s.occurrence = testutils.NewOccurrenceFactory().Create(s.event.ID, time.Date(2030, time.June, 2, 10, 0, 0, 0, time.UTC))
	require.NoError(s.T(), s.occRepo.Create(s.occurrence))
}

func (s *RotaHandlerTestSuite) createRota(capacity int) service.RotaResponse {
	rec := s.http.MakeRequest(http.MethodPost, "/rotas", map[string]interface{}{
		"event_id": s.event.ID,
		"role":     "Welcome Team",
		"capacity": capacity,
	})
	require.Equal(s.T(), http.StatusCreated, rec.Code)

	var rota service.RotaResponse
	testutils.ParseJSONResponse(s.T(), rec, &rota)
	return rota
}

func (s *RotaHandlerTestSuite) TestCreateRota() {
	rota := s.createRota(3)

	assert.Equal(s.T(), s.event.ID, rota.EventID)
	assert.Equal(s.T(), "Welcome Team", rota.Role)
	assert.Equal(s.T(), 3, rota.Capacity)
	assert.Len(s.T(), rota.ShareToken, 32)
}

func (s *RotaHandlerTestSuite) TestCreateRotaUnknownEvent() {
	rec := s.http.MakeRequest(http.MethodPost, "/rotas", map[string]interface{}{
		"event_id": uuid.New(),
		"role":     "Welcome Team",
		"capacity": 3,
	})
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func (s *RotaHandlerTestSuite) TestCreateRotaInvalidBody() {
	rec := s.http.MakeRequest(http.MethodPost, "/rotas", map[string]interface{}{
		"event_id": s.event.ID,
		"role":     "Welcome Team",
		"capacity": 0,
	})
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *RotaHandlerTestSuite) TestCreateFromTemplate() {
	rec := s.http.MakeRequest(http.MethodPost, "/rotas/from-template", map[string]interface{}{
		"event_id": s.event.ID,
		"templates": []map[string]interface{}{
			{"role": "Kitchen", "capacity": 4},
			{"role": "Sound Desk", "capacity": 1},
		},
	})
	require.Equal(s.T(), http.StatusCreated, rec.Code)

	var rotas []service.RotaResponse
	testutils.ParseJSONResponse(s.T(), rec, &rotas)
	require.Len(s.T(), rotas, 2)
	assert.Equal(s.T(), "Kitchen", rotas[0].Role)
	assert.Equal(s.T(), "Sound Desk", rotas[1].Role)
}

func (s *RotaHandlerTestSuite) TestGetRota() {
	created := s.createRota(2)

	rec := s.http.MakeRequest(http.MethodGet, "/rotas/"+created.ID.String(), nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var rota service.RotaResponse
	testutils.ParseJSONResponse(s.T(), rec, &rota)
	assert.Equal(s.T(), created.ID, rota.ID)
}

func (s *RotaHandlerTestSuite) TestGetRotaInvalidID() {
	rec := s.http.MakeRequest(http.MethodGet, "/rotas/not-a-uuid", nil)
	testutils.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid rota ID")
}

func (s *RotaHandlerTestSuite) TestGetRotaNotFound() {
	rec := s.http.MakeRequest(http.MethodGet, "/rotas/"+uuid.New().String(), nil)
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func (s *RotaHandlerTestSuite) TestListByEvent() {
	s.createRota(2)

	rec := s.http.MakeRequest(http.MethodGet, "/events/"+s.event.ID.String()+"/rotas", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var rotas []service.RotaResponse
	testutils.ParseJSONResponse(s.T(), rec, &rotas)
	assert.Len(s.T(), rotas, 1)
}

func (s *RotaHandlerTestSuite) TestAddAssignees() {
	rota := s.createRota(2)
	contact := testutils.NewContactFactory().Create()
	require.NoError(s.T(), s.contactRepo.Create(contact))

	rec := s.http.MakeRequest(http.MethodPost, "/rotas/"+rota.ID.String()+"/assignees", map[string]interface{}{
		"occurrence_id": s.occurrence.ID,
		"candidates": []map[string]interface{}{
			{"contact_id": contact.ID},
			{"name": "Guest One", "email": "guest@example.org"},
		},
	})
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var result service.AddResult
	testutils.ParseJSONResponse(s.T(), rec, &result)
	assert.Equal(s.T(), 2, result.Added)
	assert.Equal(s.T(), 0, result.SkippedDuplicate)
	assert.Equal(s.T(), 0, result.SkippedFull)
}

func (s *RotaHandlerTestSuite) TestAddAssigneesCountsFullSlots() {
	rota := s.createRota(1)

	rec := s.http.MakeRequest(http.MethodPost, "/rotas/"+rota.ID.String()+"/assignees", map[string]interface{}{
		"occurrence_id": s.occurrence.ID,
		"candidates": []map[string]interface{}{
			{"name": "Guest One", "email": "one@example.org"},
			{"name": "Guest Two", "email": "two@example.org"},
		},
	})
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var result service.AddResult
	testutils.ParseJSONResponse(s.T(), rec, &result)
	assert.Equal(s.T(), 1, result.Added)
	assert.Equal(s.T(), 1, result.SkippedFull)
}

func (s *RotaHandlerTestSuite) TestRemoveAssignee() {
	rota := s.createRota(2)

	rec := s.http.MakeRequest(http.MethodPost, "/rotas/"+rota.ID.String()+"/assignees", map[string]interface{}{
		"occurrence_id": s.occurrence.ID,
		"candidates": []map[string]interface{}{
			{"name": "Guest One", "email": "one@example.org"},
		},
	})
	require.Equal(s.T(), http.StatusOK, rec.Code)

	rec = s.http.MakeRequest(http.MethodDelete, fmt.Sprintf("/rotas/%s/assignees/0", rota.ID), nil)
	assert.Equal(s.T(), http.StatusNoContent, rec.Code)

	stored, err := s.rotaRepo.GetByID(rota.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), stored.Assignees)
}

func (s *RotaHandlerTestSuite) TestRemoveAssigneeOutOfRange() {
	rota := s.createRota(2)

	rec := s.http.MakeRequest(http.MethodDelete, fmt.Sprintf("/rotas/%s/assignees/5", rota.ID), nil)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *RotaHandlerTestSuite) TestDeleteRota() {
	rota := s.createRota(2)

	rec := s.http.MakeRequest(http.MethodDelete, "/rotas/"+rota.ID.String(), nil)
	assert.Equal(s.T(), http.StatusNoContent, rec.Code)

	rec = s.http.MakeRequest(http.MethodGet, "/rotas/"+rota.ID.String(), nil)
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func TestRotaHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RotaHandlerTestSuite))
}
