package repository

import (
	"time"

	"volunteer-rota-backend/internal/database/models"

	"github.com/google/uuid"
)

// ContactRepositoryInterface defines the interface for contact repository operations
type ContactRepositoryInterface interface {
	Create(contact *models.Contact) error
	GetByID(id uuid.UUID) (*models.Contact, error)
	GetByEmail(email string) (*models.Contact, error)
	GetAll(limit, offset int) ([]models.Contact, int64, error)
	GetExistingIDs(ids []uuid.UUID) ([]uuid.UUID, error)
	Update(contact *models.Contact) error
	Delete(id uuid.UUID) error
}

// EventRepositoryInterface defines the interface for event repository operations
type EventRepositoryInterface interface {
	Create(event *models.Event) error
	GetByID(id uuid.UUID) (*models.Event, error)
	GetAll(limit, offset int) ([]models.Event, int64, error)
	GetWithOccurrences(id uuid.UUID) (*models.Event, error)
	GetExistingIDs(ids []uuid.UUID) ([]uuid.UUID, error)
	Update(event *models.Event) error
	Delete(id uuid.UUID) error
}

// OccurrenceRepositoryInterface defines the interface for occurrence repository operations
type OccurrenceRepositoryInterface interface {
	Create(occurrence *models.Occurrence) error
	CreateBatch(occurrences []models.Occurrence) error
	GetByID(id uuid.UUID) (*models.Occurrence, error)
	GetByEventID(eventID uuid.UUID) ([]models.Occurrence, error)
	GetByEventIDFrom(eventID uuid.UUID, from time.Time) ([]models.Occurrence, error)
	GetAll() ([]models.Occurrence, error)
	Update(occurrence *models.Occurrence) error
	Delete(id uuid.UUID) error
}

// RotaRepositoryInterface defines the interface for rota repository operations
type RotaRepositoryInterface interface {
	Create(rota *models.Rota) error
	GetByID(id uuid.UUID) (*models.Rota, error)
	GetByEventID(eventID uuid.UUID) ([]models.Rota, error)
	GetByShareToken(token string) (*models.Rota, error)
	GetAll() ([]models.Rota, error)
	Update(rota *models.Rota) error
	UpdateAssignees(id uuid.UUID, assignees models.AssigneeList) error
	Delete(id uuid.UUID) error
}

// LeavePeriodRepositoryInterface defines the interface for leave period repository operations
type LeavePeriodRepositoryInterface interface {
	Create(leave *models.LeavePeriod) error
	GetByContactID(contactID uuid.UUID) ([]models.LeavePeriod, error)
	GetOverlapping(contactID uuid.UUID, date time.Time) ([]models.LeavePeriod, error)
	Delete(id uuid.UUID) error
}
