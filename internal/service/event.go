package service

import (
	"errors"
	"fmt"

	"volunteer-rota-backend/internal/database/models"
	apperrors "volunteer-rota-backend/internal/errors"
	"volunteer-rota-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventService handles business logic for events
type EventService struct {
	eventRepo repository.EventRepositoryInterface
	validator *validator.Validate
}

// NewEventService creates a new event service
func NewEventService(eventRepo repository.EventRepositoryInterface, validator *validator.Validate) *EventService {
	return &EventService{eventRepo: eventRepo, validator: validator}
}

// CreateEventRequest represents the request to create an event
type CreateEventRequest struct {
	Title          string            `json:"title" validate:"required,max=200"`
	Description    string            `json:"description" validate:"max=2000"`
	Location       string            `json:"location" validate:"max=200"`
	RecurrenceRule string            `json:"recurrence_rule" validate:"max=500"`
	Visibility     models.Visibility `json:"visibility" validate:"omitempty,oneof=public private"`
}

// UpdateEventRequest represents the request to update an event
type UpdateEventRequest struct {
	Title          *string            `json:"title,omitempty" validate:"omitempty,max=200"`
	Description    *string            `json:"description,omitempty" validate:"omitempty,max=2000"`
	Location       *string            `json:"location,omitempty" validate:"omitempty,max=200"`
	RecurrenceRule *string            `json:"recurrence_rule,omitempty" validate:"omitempty,max=500"`
	Visibility     *models.Visibility `json:"visibility,omitempty" validate:"omitempty,oneof=public private"`
}

// Create creates a new event
func (s *EventService) Create(req *CreateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}

	event := &models.Event{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		RecurrenceRule: req.RecurrenceRule,
		Visibility:     visibility,
	}
	if err := s.eventRepo.Create(event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// GetByID retrieves an event
func (s *EventService) GetByID(id uuid.UUID) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}
	return event, nil
}

// GetWithOccurrences retrieves an event with its occurrences in date order
func (s *EventService) GetWithOccurrences(id uuid.UUID) (*models.Event, error) {
	event, err := s.eventRepo.GetWithOccurrences(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}
	return event, nil
}

// GetAll retrieves events with pagination
func (s *EventService) GetAll(limit, offset int) ([]models.Event, int64, error) {
	return s.eventRepo.GetAll(limit, offset)
}

// Update applies the non-nil fields of the request
func (s *EventService) Update(id uuid.UUID, req *UpdateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	event, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.RecurrenceRule != nil {
		event.RecurrenceRule = *req.RecurrenceRule
	}
	if req.Visibility != nil {
		event.Visibility = *req.Visibility
	}

	if err := s.eventRepo.Update(event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// Delete removes an event; its occurrences cascade, and any rotas left
// behind surface in the integrity audit
func (s *EventService) Delete(id uuid.UUID) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.eventRepo.Delete(id)
}
