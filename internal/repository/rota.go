package repository

import (
	"volunteer-rota-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RotaRepository handles database operations for rotas
type RotaRepository struct {
	db *gorm.DB
}

// NewRotaRepository creates a new rota repository
func NewRotaRepository(db *gorm.DB) *RotaRepository {
	return &RotaRepository{db: db}
}

// Create creates a new rota
func (r *RotaRepository) Create(rota *models.Rota) error {
	return r.db.Create(rota).Error
}

// GetByID retrieves a rota by ID
func (r *RotaRepository) GetByID(id uuid.UUID) (*models.Rota, error) {
	var rota models.Rota
	err := r.db.First(&rota, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rota, nil
}

// GetByEventID retrieves all rotas of an event
func (r *RotaRepository) GetByEventID(eventID uuid.UUID) ([]models.Rota, error) {
	var rotas []models.Rota
	err := r.db.Where("event_id = ?", eventID).Order("role").Find(&rotas).Error
	return rotas, err
}

// GetByShareToken retrieves a rota by its opaque public signup token
func (r *RotaRepository) GetByShareToken(token string) (*models.Rota, error) {
	var rota models.Rota
	err := r.db.First(&rota, "share_token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &rota, nil
}

// GetAll retrieves every rota; used by the integrity audit snapshot
func (r *RotaRepository) GetAll() ([]models.Rota, error) {
	var rotas []models.Rota
	err := r.db.Find(&rotas).Error
	return rotas, err
}

// Update updates a rota
func (r *RotaRepository) Update(rota *models.Rota) error {
	return r.db.Save(rota).Error
}

// UpdateAssignees replaces the whole assignee array of a rota
func (r *RotaRepository) UpdateAssignees(id uuid.UUID, assignees models.AssigneeList) error {
	return r.db.Model(&models.Rota{}).Where("id = ?", id).Update("assignees", assignees).Error
}

// Delete deletes a rota
func (r *RotaRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Rota{}, "id = ?", id).Error
}
