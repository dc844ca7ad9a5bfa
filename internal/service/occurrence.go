package service

import (
	"errors"
	"fmt"
	"time"

	"volunteer-rota-backend/internal/database/models"
	apperrors "volunteer-rota-backend/internal/errors"
	"volunteer-rota-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"
	"gorm.io/gorm"
)

// maxGeneratedOccurrences caps one expansion run so a malformed rule cannot
// flood the table
const maxGeneratedOccurrences = 500

// OccurrenceService handles business logic for occurrences, including
// expansion of an event's recurrence rule into concrete dated instances
type OccurrenceService struct {
	occurrenceRepo repository.OccurrenceRepositoryInterface
	eventRepo      repository.EventRepositoryInterface
	validator      *validator.Validate
	horizonMonths  int
}

// NewOccurrenceService creates a new occurrence service. horizonMonths bounds
// rule expansion when the caller gives no window end.
func NewOccurrenceService(
	occurrenceRepo repository.OccurrenceRepositoryInterface,
	eventRepo repository.EventRepositoryInterface,
	validator *validator.Validate,
	horizonMonths int,
) *OccurrenceService {
	if horizonMonths < 1 {
		horizonMonths = 6
	}
	return &OccurrenceService{
		occurrenceRepo: occurrenceRepo,
		eventRepo:      eventRepo,
		validator:      validator,
		horizonMonths:  horizonMonths,
	}
}

// CreateOccurrenceRequest represents the request to create an occurrence
// manually
type CreateOccurrenceRequest struct {
	EventID   uuid.UUID `json:"event_id" validate:"required"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
	EndsAt    time.Time `json:"ends_at" validate:"required"`
	Location  string    `json:"location" validate:"max=200"`
	MaxSpaces *int      `json:"max_spaces,omitempty" validate:"omitempty,min=1"`
}

// GenerateRequest represents the request to expand an event's recurrence
// rule over a date window. A zero Until falls back to the configured horizon.
type GenerateRequest struct {
	From            time.Time `json:"from" validate:"required"`
	Until           time.Time `json:"until"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,min=1"`
}

// Duration returns the per-occurrence duration, defaulting to one hour
func (r *GenerateRequest) Duration() time.Duration {
	if r.DurationMinutes > 0 {
		return time.Duration(r.DurationMinutes) * time.Minute
	}
	return time.Hour
}

// Create creates a single occurrence by manual entry
func (s *OccurrenceService) Create(req *CreateOccurrenceRequest) (*models.Occurrence, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, apperrors.NewValidationError("ends_at", "must be after starts_at")
	}

	if _, err := s.eventRepo.GetByID(req.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("verify event: %w", err)
	}

	occurrence := &models.Occurrence{
		EventID:   req.EventID,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Location:  req.Location,
		MaxSpaces: req.MaxSpaces,
	}
	if err := s.occurrenceRepo.Create(occurrence); err != nil {
		return nil, fmt.Errorf("create occurrence: %w", err)
	}
	return occurrence, nil
}

// GetByID retrieves an occurrence
func (s *OccurrenceService) GetByID(id uuid.UUID) (*models.Occurrence, error) {
	occurrence, err := s.occurrenceRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOccurrenceNotFound
		}
		return nil, fmt.Errorf("load occurrence: %w", err)
	}
	return occurrence, nil
}

// GetByEvent retrieves an event's occurrences in date order
func (s *OccurrenceService) GetByEvent(eventID uuid.UUID) ([]models.Occurrence, error) {
	if _, err := s.eventRepo.GetByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("verify event: %w", err)
	}
	return s.occurrenceRepo.GetByEventID(eventID)
}

// Delete removes an occurrence. Rotas and assignees referencing it are left
// dangling for the integrity audit to report.
func (s *OccurrenceService) Delete(id uuid.UUID) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.occurrenceRepo.Delete(id)
}

// GenerateFromRule expands the event's RRULE into occurrences between From
// and Until, skipping dates that already have an occurrence. The event's
// first occurrence (or From) anchors the start time, and each generated
// instance preserves the duration of the rule's DTSTART window.
func (s *OccurrenceService) GenerateFromRule(eventID uuid.UUID, from, until time.Time, duration time.Duration) ([]models.Occurrence, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}
	if event.RecurrenceRule == "" {
		return nil, apperrors.NewValidationError("recurrence_rule", "event has no recurrence rule")
	}
	if until.IsZero() {
		until = from.AddDate(0, s.horizonMonths, 0)
	}
	if until.Before(from) {
		return nil, apperrors.NewValidationError("until", "window end is before its start")
	}
	if duration <= 0 {
		duration = time.Hour
	}

	rule, err := rrule.StrToRRule(event.RecurrenceRule)
	if err != nil {
		return nil, apperrors.NewValidationError("recurrence_rule", fmt.Sprintf("invalid rule: %v", err))
	}
	rule.DTStart(from)

	times := rule.Between(from, until, true)
	if len(times) > maxGeneratedOccurrences {
		logrus.WithFields(logrus.Fields{
			"event_id": eventID,
			"cap":      maxGeneratedOccurrences,
		}).Warn("recurrence expansion truncated")
		times = times[:maxGeneratedOccurrences]
	}

	existing, err := s.occurrenceRepo.GetByEventID(eventID)
	if err != nil {
		return nil, fmt.Errorf("load existing occurrences: %w", err)
	}
	taken := make(map[time.Time]bool, len(existing))
	for _, occ := range existing {
		taken[occ.StartsAt.UTC()] = true
	}

	var generated []models.Occurrence
	for _, start := range times {
		if taken[start.UTC()] {
			continue
		}
		generated = append(generated, models.Occurrence{
			EventID:  eventID,
			StartsAt: start,
			EndsAt:   start.Add(duration),
			Location: event.Location,
		})
	}

	if err := s.occurrenceRepo.CreateBatch(generated); err != nil {
		return nil, fmt.Errorf("store generated occurrences: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event_id":  eventID,
		"generated": len(generated),
	}).Info("occurrences generated from recurrence rule")

	return generated, nil
}
