package repository

import (
	"time"

	"volunteer-rota-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OccurrenceRepository handles database operations for occurrences
type OccurrenceRepository struct {
	db *gorm.DB
}

// NewOccurrenceRepository creates a new occurrence repository
func NewOccurrenceRepository(db *gorm.DB) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

// Create creates a new occurrence
func (r *OccurrenceRepository) Create(occurrence *models.Occurrence) error {
	return r.db.Create(occurrence).Error
}

// CreateBatch inserts a set of occurrences in one statement
func (r *OccurrenceRepository) CreateBatch(occurrences []models.Occurrence) error {
	if len(occurrences) == 0 {
		return nil
	}
	return r.db.Create(&occurrences).Error
}

// GetByID retrieves an occurrence by ID
func (r *OccurrenceRepository) GetByID(id uuid.UUID) (*models.Occurrence, error) {
	var occurrence models.Occurrence
	err := r.db.First(&occurrence, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &occurrence, nil
}

// GetByEventID retrieves all occurrences of an event in date order
func (r *OccurrenceRepository) GetByEventID(eventID uuid.UUID) ([]models.Occurrence, error) {
	var occurrences []models.Occurrence
	err := r.db.Where("event_id = ?", eventID).Order("starts_at").Find(&occurrences).Error
	return occurrences, err
}

// GetByEventIDFrom retrieves the occurrences of an event starting at or after
// the given time, in date order
func (r *OccurrenceRepository) GetByEventIDFrom(eventID uuid.UUID, from time.Time) ([]models.Occurrence, error) {
	var occurrences []models.Occurrence
	err := r.db.Where("event_id = ? AND starts_at >= ?", eventID, from).Order("starts_at").Find(&occurrences).Error
	return occurrences, err
}

// GetAll retrieves every occurrence; used by the integrity audit snapshot
func (r *OccurrenceRepository) GetAll() ([]models.Occurrence, error) {
	var occurrences []models.Occurrence
	err := r.db.Find(&occurrences).Error
	return occurrences, err
}

// Update updates an occurrence
func (r *OccurrenceRepository) Update(occurrence *models.Occurrence) error {
	return r.db.Save(occurrence).Error
}

// Delete deletes an occurrence. Rotas and assignees pointing at it are left
// in place for the integrity audit to report.
func (r *OccurrenceRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Occurrence{}, "id = ?", id).Error
}
