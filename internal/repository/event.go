package repository

import (
	"volunteer-rota-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventRepository handles database operations for events
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates a new event
func (r *EventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.db.First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetAll retrieves all events with pagination; a non-positive limit returns
// everything
func (r *EventRepository) GetAll(limit, offset int) ([]models.Event, int64, error) {
	var events []models.Event
	var total int64

	if err := r.db.Model(&models.Event{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Order("title")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&events).Error
	return events, total, err
}

// GetWithOccurrences retrieves an event with its occurrences preloaded in
// date order
func (r *EventRepository) GetWithOccurrences(id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.db.Preload("Occurrences", func(db *gorm.DB) *gorm.DB {
		return db.Order("starts_at")
	}).First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetExistingIDs returns the subset of the given event ids that exist
func (r *EventRepository) GetExistingIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var existing []uuid.UUID
	err := r.db.Model(&models.Event{}).Where("id IN ?", ids).Pluck("id", &existing).Error
	return existing, err
}

// Update updates an event
func (r *EventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

// Delete deletes an event
func (r *EventRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Event{}, "id = ?", id).Error
}
