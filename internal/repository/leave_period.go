package repository

import (
	"time"

	"volunteer-rota-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeavePeriodRepository handles database operations for leave periods
type LeavePeriodRepository struct {
	db *gorm.DB
}

// NewLeavePeriodRepository creates a new leave period repository
func NewLeavePeriodRepository(db *gorm.DB) *LeavePeriodRepository {
	return &LeavePeriodRepository{db: db}
}

// Create creates a new leave period
func (r *LeavePeriodRepository) Create(leave *models.LeavePeriod) error {
	return r.db.Create(leave).Error
}

// GetByContactID retrieves all leave periods for a contact
func (r *LeavePeriodRepository) GetByContactID(contactID uuid.UUID) ([]models.LeavePeriod, error) {
	var periods []models.LeavePeriod
	err := r.db.Where("contact_id = ?", contactID).Order("start_date").Find(&periods).Error
	return periods, err
}

// GetOverlapping retrieves the contact's leave periods covering the given
// date (date-only comparison)
func (r *LeavePeriodRepository) GetOverlapping(contactID uuid.UUID, date time.Time) ([]models.LeavePeriod, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	var periods []models.LeavePeriod
	err := r.db.Where("contact_id = ? AND start_date <= ? AND end_date >= ?", contactID, day, day).
		Find(&periods).Error
	return periods, err
}

// Delete deletes a leave period
func (r *LeavePeriodRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.LeavePeriod{}, "id = ?", id).Error
}
