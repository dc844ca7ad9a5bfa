package service

import (
	"testing"
	"time"

	"volunteer-rota-backend/internal/database/models"
	apperrors "volunteer-rota-backend/internal/errors"
	"volunteer-rota-backend/internal/testutils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type occurrenceFixture struct {
	service   *OccurrenceService
	eventRepo *testutils.FakeEventRepo
	occRepo   *testutils.FakeOccurrenceRepo
}

func newOccurrenceFixture(t *testing.T, horizonMonths int) *occurrenceFixture {
	t.Helper()

	f := &occurrenceFixture{
		eventRepo: testutils.NewFakeEventRepo(),
		occRepo:   testutils.NewFakeOccurrenceRepo(),
	}
	f.service = NewOccurrenceService(f.occRepo, f.eventRepo, validator.New(), horizonMonths)
	return f
}

func (f *occurrenceFixture) newWeeklyEvent(t *testing.T) *models.Event {
	t.Helper()
	event := &models.Event{
		Title:          "Sunday Service",
		Location:       "Main Hall",
		RecurrenceRule: "FREQ=WEEKLY;BYDAY=SU",
	}
	require.NoError(t, f.eventRepo.Create(event))
	return event
}

func TestGenerateFromRule(t *testing.T) {
	// June 2030 Sundays: 2, 9, 16, 23, 30
	from := time.Date(2030, time.June, 2, 9, 0, 0, 0, time.UTC)
	until := time.Date(2030, time.June, 30, 12, 0, 0, 0, time.UTC)

	t.Run("expands a weekly rule across the window", func(t *testing.T) {
		f := newOccurrenceFixture(t, 6)
		event := f.newWeeklyEvent(t)

		generated, err := f.service.GenerateFromRule(event.ID, from, until, 90*time.Minute)
		require.NoError(t, err)
		require.Len(t, generated, 5)

		assert.Equal(t, from, generated[0].StartsAt)
		assert.Equal(t, from.Add(90*time.Minute), generated[0].EndsAt)
		assert.Equal(t, "Main Hall", generated[0].Location)
		for i := 1; i < len(generated); i++ {
			assert.Equal(t, generated[i-1].StartsAt.AddDate(0, 0, 7), generated[i].StartsAt)
		}

		stored, err := f.occRepo.GetByEventID(event.ID)
		require.NoError(t, err)
		assert.Len(t, stored, 5)
	})

	t.Run("skips dates that already have an occurrence", func(t *testing.T) {
		f := newOccurrenceFixture(t, 6)
		event := f.newWeeklyEvent(t)

		existing := occurrenceOn(event.ID, from.AddDate(0, 0, 7))
		require.NoError(t, f.occRepo.Create(&existing))

		generated, err := f.service.GenerateFromRule(event.ID, from, until, time.Hour)
		require.NoError(t, err)
		assert.Len(t, generated, 4)
		for _, occ := range generated {
			assert.NotEqual(t, existing.StartsAt, occ.StartsAt)
		}
	})

	t.Run("zero window end falls back to the horizon", func(t *testing.T) {
		f := newOccurrenceFixture(t, 1)
		event := f.newWeeklyEvent(t)

		generated, err := f.service.GenerateFromRule(event.ID, from, time.Time{}, time.Hour)
		require.NoError(t, err)
		// one month ahead of June 2 covers exactly June's five Sundays
		assert.Len(t, generated, 5)
	})

	t.Run("rejects an event without a rule", func(t *testing.T) {
		f := newOccurrenceFixture(t, 6)
		event := &models.Event{Title: "One-off Concert"}
		require.NoError(t, f.eventRepo.Create(event))

		_, err := f.service.GenerateFromRule(event.ID, from, until, time.Hour)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("rejects a malformed rule", func(t *testing.T) {
		f := newOccurrenceFixture(t, 6)
		event := &models.Event{Title: "Broken", RecurrenceRule: "FREQ=SOMETIMES"}
		require.NoError(t, f.eventRepo.Create(event))

		_, err := f.service.GenerateFromRule(event.ID, from, until, time.Hour)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("rejects a window ending before it starts", func(t *testing.T) {
		f := newOccurrenceFixture(t, 6)
		event := f.newWeeklyEvent(t)

		_, err := f.service.GenerateFromRule(event.ID, from, from.AddDate(0, 0, -1), time.Hour)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("unknown event", func(t *testing.T) {
		f := newOccurrenceFixture(t, 6)

		_, err := f.service.GenerateFromRule(uuid.New(), from, until, time.Hour)
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestCreateOccurrence(t *testing.T) {
	t.Run("creates a manual occurrence", func(t *testing.T) {
		f := newOccurrenceFixture(t, 6)
		event := f.newWeeklyEvent(t)
		starts := time.Date(2030, time.July, 4, 18, 0, 0, 0, time.UTC)

		occ, err := f.service.Create(&CreateOccurrenceRequest{
			EventID:  event.ID,
			StartsAt: starts,
			EndsAt:   starts.Add(2 * time.Hour),
			Location: "Garden",
		})
		require.NoError(t, err)
		assert.Equal(t, event.ID, occ.EventID)
		assert.Equal(t, "Garden", occ.Location)
	})

	t.Run("rejects an inverted time range", func(t *testing.T) {
		f := newOccurrenceFixture(t, 6)
		event := f.newWeeklyEvent(t)
		starts := time.Date(2030, time.July, 4, 18, 0, 0, 0, time.UTC)

		_, err := f.service.Create(&CreateOccurrenceRequest{
			EventID:  event.ID,
			StartsAt: starts,
			EndsAt:   starts.Add(-time.Hour),
		})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("rejects an unknown event", func(t *testing.T) {
		f := newOccurrenceFixture(t, 6)
		starts := time.Date(2030, time.July, 4, 18, 0, 0, 0, time.UTC)

		_, err := f.service.Create(&CreateOccurrenceRequest{
			EventID:  uuid.New(),
			StartsAt: starts,
			EndsAt:   starts.Add(time.Hour),
		})
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}
