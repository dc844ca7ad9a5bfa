package service

import (
	"testing"
	"time"

	"volunteer-rota-backend/internal/database/models"
	apperrors "volunteer-rota-backend/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRotaService(f *assignmentFixture) *RotaService {
	return NewRotaService(f.rotaRepo, f.eventRepo, f.occRepo, validator.New())
}

func TestRotaCreate(t *testing.T) {
	t.Run("issues a share token", func(t *testing.T) {
		f := newAssignmentFixture(t, 5, date(2026, time.June, 7))
		svc := newRotaService(f)

		resp, err := svc.Create(&CreateRotaRequest{
			EventID:  f.event.ID,
			Role:     "Sound Desk",
			Capacity: 2,
		})
		require.NoError(t, err)
		assert.Len(t, resp.ShareToken, 32)
		assert.Equal(t, models.VisibilityPrivate, resp.Visibility)
		assert.Empty(t, resp.Assignees)

		other, err := svc.Create(&CreateRotaRequest{
			EventID:  f.event.ID,
			Role:     "Projection",
			Capacity: 1,
		})
		require.NoError(t, err)
		assert.NotEqual(t, resp.ShareToken, other.ShareToken)
	})

	t.Run("rejects an unknown event", func(t *testing.T) {
		f := newAssignmentFixture(t, 5, date(2026, time.June, 7))
		svc := newRotaService(f)

		_, err := svc.Create(&CreateRotaRequest{
			EventID:  uuid.New(),
			Role:     "Sound Desk",
			Capacity: 2,
		})
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})

	t.Run("rejects a pin to another event's occurrence", func(t *testing.T) {
		f := newAssignmentFixture(t, 5, date(2026, time.June, 7))
		svc := newRotaService(f)

		other := &models.Event{Title: "Midweek Group"}
		require.NoError(t, f.eventRepo.Create(other))
		foreign := occurrenceOn(other.ID, date(2026, time.June, 10))
		require.NoError(t, f.occRepo.Create(&foreign))

		_, err := svc.Create(&CreateRotaRequest{
			EventID:      f.event.ID,
			OccurrenceID: &foreign.ID,
			Role:         "Sound Desk",
			Capacity:     2,
		})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("rejects zero capacity", func(t *testing.T) {
		f := newAssignmentFixture(t, 5, date(2026, time.June, 7))
		svc := newRotaService(f)

		_, err := svc.Create(&CreateRotaRequest{
			EventID:  f.event.ID,
			Role:     "Sound Desk",
			Capacity: 0,
		})
		assert.Error(t, err)
	})
}

func TestRotaCreateFromTemplate(t *testing.T) {
	f := newAssignmentFixture(t, 5, date(2026, time.June, 7))
	svc := newRotaService(f)

	rotas, err := svc.CreateFromTemplate(&CreateFromTemplateRequest{
		EventID: f.event.ID,
		Templates: []TeamTemplate{
			{Role: "Welcome", Capacity: 3},
			{Role: "Coffee", Capacity: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, rotas, 2)
	assert.Equal(t, "Welcome", rotas[0].Role)
	assert.Equal(t, "Coffee", rotas[1].Role)
	for _, r := range rotas {
		assert.Nil(t, r.OccurrenceID)
		assert.NotEmpty(t, r.ShareToken)
	}
}

func TestRotaResolveShareToken(t *testing.T) {
	now := date(2026, time.June, 1)

	t.Run("template rota lists every future occurrence", func(t *testing.T) {
		f := newAssignmentFixture(t, 5, date(2026, time.June, 7), date(2026, time.June, 14))
		svc := newRotaService(f)

		page, err := svc.resolveShareToken(f.rota.ShareToken, now)
		require.NoError(t, err)
		assert.Equal(t, "Welcome Team", page.Role)
		assert.Equal(t, "Sunday Service", page.EventTitle)
		assert.Len(t, page.Occurrences, 2)
	})

	t.Run("past occurrences are not offered", func(t *testing.T) {
		f := newAssignmentFixture(t, 5, date(2026, time.May, 3), date(2026, time.June, 7))
		svc := newRotaService(f)

		page, err := svc.resolveShareToken(f.rota.ShareToken, now)
		require.NoError(t, err)
		require.Len(t, page.Occurrences, 1)
		assert.Equal(t, f.occurrences[1].ID, page.Occurrences[0].ID)
	})

	t.Run("an occurrence on today stays open", func(t *testing.T) {
		f := newAssignmentFixture(t, 5, date(2026, time.June, 1))
		svc := newRotaService(f)

		// The occurrence starts at 10:00; resolving later the same day must
		// still offer it, the cutoff is date-only.
		page, err := svc.resolveShareToken(f.rota.ShareToken,
			time.Date(2026, time.June, 1, 23, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Len(t, page.Occurrences, 1)
	})

	t.Run("pinned rota lists only its own date", func(t *testing.T) {
		f := newAssignmentFixture(t, 5, date(2026, time.June, 7), date(2026, time.June, 14))
		svc := newRotaService(f)

		pinned, err := svc.Create(&CreateRotaRequest{
			EventID:      f.event.ID,
			OccurrenceID: &f.occurrences[1].ID,
			Role:         "Setup",
			Capacity:     3,
		})
		require.NoError(t, err)

		page, err := svc.resolveShareToken(pinned.ShareToken, now)
		require.NoError(t, err)
		require.Len(t, page.Occurrences, 1)
		assert.Equal(t, f.occurrences[1].ID, page.Occurrences[0].ID)
	})

	t.Run("a pinned rota whose date has passed offers nothing", func(t *testing.T) {
		f := newAssignmentFixture(t, 5, date(2026, time.May, 3))
		svc := newRotaService(f)

		pinned, err := svc.Create(&CreateRotaRequest{
			EventID:      f.event.ID,
			OccurrenceID: &f.occurrences[0].ID,
			Role:         "Setup",
			Capacity:     3,
		})
		require.NoError(t, err)

		page, err := svc.resolveShareToken(pinned.ShareToken, now)
		require.NoError(t, err)
		assert.Empty(t, page.Occurrences)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newAssignmentFixture(t, 5, date(2026, time.June, 7))
		svc := newRotaService(f)

		_, err := svc.resolveShareToken("no-such-token", now)
		assert.ErrorIs(t, err, apperrors.ErrShareTokenNotFound)
	})
}
