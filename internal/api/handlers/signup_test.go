package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"volunteer-rota-backend/internal/api/handlers"
	"volunteer-rota-backend/internal/database/models"
	"volunteer-rota-backend/internal/ratelimit"
	"volunteer-rota-backend/internal/service"
	"volunteer-rota-backend/internal/testutils"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// SignupHandlerTestSuite exercises the token-gated public signup endpoints
type SignupHandlerTestSuite struct {
	suite.Suite
	http        *testutils.HTTPTestSuite
	rotaRepo    *testutils.FakeRotaRepo
	contactRepo *testutils.FakeContactRepo

	event      *models.Event
	rota       *models.Rota
	occurrence *models.Occurrence
	contact    *models.Contact
}

func (s *SignupHandlerTestSuite) SetupTest() {
	s.http = testutils.SetupHTTPTest()
	s.rotaRepo = testutils.NewFakeRotaRepo()
	s.contactRepo = testutils.NewFakeContactRepo()
	eventRepo := testutils.NewFakeEventRepo()
	occRepo := testutils.NewFakeOccurrenceRepo()
	leaveRepo := testutils.NewFakeLeaveRepo()

	v := validator.New()
	rotaService := service.NewRotaService(s.rotaRepo, eventRepo, occRepo, v)
	assignmentService := service.NewAssignmentService(s.rotaRepo, occRepo, s.contactRepo, v)
	limiter := ratelimit.NewLocalLimiter(100, time.Minute)
	signupService := service.NewSignupService(s.contactRepo, s.rotaRepo, occRepo, leaveRepo, assignmentService, limiter, v)
	handler := handlers.NewSignupHandler(rotaService, signupService)

	s.http.Router.GET("/public/signup/:token", handler.GetSignupPage)
	s.http.Router.POST("/public/signup/:token", handler.PublicRotaSignup)
	s.http.Router.POST("/public/signup/:token/attend", handler.PublicGuestSignup)

	s.event = testutils.NewEventFactory().Create()
	require.NoError(s.T(), eventRepo.Create(s.event))
	s.occurrence = testutils.NewOccurrenceFactory().Create(s.event.ID, time.Date(2030, time.June, 2, 10, 0, 0, 0, time.UTC))
	require.NoError(s.T(), occRepo.Create(s.occurrence))
	s.rota = testutils.NewRotaFactory().Create(s.event.ID)
	require.NoError(s.T(), s.rotaRepo.Create(s.rota))
	s.contact = testutils.NewContactFactory().CreateNamed("Priya", "Shah", "priya.shah@example.org")
	require.NoError(s.T(), s.contactRepo.Create(s.contact))
}

func (s *SignupHandlerTestSuite) TestGetSignupPage() {
	rec := s.http.MakeRequest(http.MethodGet, "/public/signup/"+s.rota.ShareToken, nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var page service.PublicRotaResponse
	testutils.ParseJSONResponse(s.T(), rec, &page)
	assert.Equal(s.T(), s.rota.Role, page.Role)
	assert.Equal(s.T(), s.event.Title, page.EventTitle)
	require.Len(s.T(), page.Occurrences, 1)
	assert.Equal(s.T(), s.occurrence.ID, page.Occurrences[0].ID)
}

func (s *SignupHandlerTestSuite) TestGetSignupPageUnknownToken() {
	rec := s.http.MakeRequest(http.MethodGet, "/public/signup/nope", nil)
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func (s *SignupHandlerTestSuite) TestRotaSignup() {
	rec := s.http.MakeRequest(http.MethodPost, "/public/signup/"+s.rota.ShareToken, map[string]interface{}{
		"email":          "priya.shah@example.org",
		"first_name":     "Priya",
		"last_name":      "Shah",
		"occurrence_ids": []string{s.occurrence.ID.String()},
	})
	require.Equal(s.T(), http.StatusCreated, rec.Code)

	var result service.SignupResponse
	testutils.ParseJSONResponse(s.T(), rec, &result)
	assert.Equal(s.T(), s.rota.ID, result.RotaID)
	assert.Equal(s.T(), []string{"Priya Shah"}, result.People)

	stored, err := s.rotaRepo.GetByID(s.rota.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), stored.Assignees, 1)
	assert.Equal(s.T(), s.contact.ID, *stored.Assignees[0].ContactID)
}

func (s *SignupHandlerTestSuite) TestRotaSignupNoAccount() {
	rec := s.http.MakeRequest(http.MethodPost, "/public/signup/"+s.rota.ShareToken, map[string]interface{}{
		"email":          "stranger@example.org",
		"first_name":     "Total",
		"last_name":      "Stranger",
		"occurrence_ids": []string{s.occurrence.ID.String()},
	})
	assert.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)
}

func (s *SignupHandlerTestSuite) TestRotaSignupNameMismatch() {
	rec := s.http.MakeRequest(http.MethodPost, "/public/signup/"+s.rota.ShareToken, map[string]interface{}{
		"email":          "priya.shah@example.org",
		"first_name":     "Someone",
		"last_name":      "Else",
		"occurrence_ids": []string{s.occurrence.ID.String()},
	})
	assert.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)
}

func (s *SignupHandlerTestSuite) TestRotaSignupUnknownToken() {
	rec := s.http.MakeRequest(http.MethodPost, "/public/signup/nope", map[string]interface{}{
		"email":          "priya.shah@example.org",
		"first_name":     "Priya",
		"last_name":      "Shah",
		"occurrence_ids": []string{s.occurrence.ID.String()},
	})
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func (s *SignupHandlerTestSuite) TestRotaSignupConflictWhenFull() {
	// Fill every slot first.
	assignees := make(models.AssigneeList, 0, s.rota.Capacity)
	for i := 0; i < s.rota.Capacity; i++ {
		filler := testutils.NewContactFactory().Create()
		require.NoError(s.T(), s.contactRepo.Create(filler))
		assignees = append(assignees, models.Assignee{ContactID: &filler.ID, OccurrenceID: &s.occurrence.ID})
	}
	require.NoError(s.T(), s.rotaRepo.UpdateAssignees(s.rota.ID, assignees))

	rec := s.http.MakeRequest(http.MethodPost, "/public/signup/"+s.rota.ShareToken, map[string]interface{}{
		"email":          "priya.shah@example.org",
		"first_name":     "Priya",
		"last_name":      "Shah",
		"occurrence_ids": []string{s.occurrence.ID.String()},
	})
	assert.Equal(s.T(), http.StatusConflict, rec.Code)
}

func (s *SignupHandlerTestSuite) TestGuestAttendance() {
	rec := s.http.MakeRequest(http.MethodPost, "/public/signup/"+s.rota.ShareToken+"/attend", map[string]interface{}{
		"name":          "Walk In",
		"email":         "walkin@example.org",
		"occurrence_id": s.occurrence.ID.String(),
	})
	require.Equal(s.T(), http.StatusCreated, rec.Code)

	stored, err := s.rotaRepo.GetByID(s.rota.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), stored.Assignees, 1)
	require.NotNil(s.T(), stored.Assignees[0].Guest)
	assert.Equal(s.T(), "walkin@example.org", stored.Assignees[0].Guest.Email)
}

func (s *SignupHandlerTestSuite) TestGuestAttendanceDuplicate() {
	body := map[string]interface{}{
		"name":          "Walk In",
		"email":         "walkin@example.org",
		"occurrence_id": s.occurrence.ID.String(),
	}
	rec := s.http.MakeRequest(http.MethodPost, "/public/signup/"+s.rota.ShareToken+"/attend", body)
	require.Equal(s.T(), http.StatusCreated, rec.Code)

	rec = s.http.MakeRequest(http.MethodPost, "/public/signup/"+s.rota.ShareToken+"/attend", body)
	assert.Equal(s.T(), http.StatusConflict, rec.Code)
}

func (s *SignupHandlerTestSuite) TestGuestAttendanceInvalidBody() {
	rec := s.http.MakeRequest(http.MethodPost, "/public/signup/"+s.rota.ShareToken+"/attend", map[string]interface{}{
		"name": "No Email",
	})
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func TestSignupHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(SignupHandlerTestSuite))
}
