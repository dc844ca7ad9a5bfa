package repository

import (
	"strings"

	"volunteer-rota-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactRepository handles database operations for contacts
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create creates a new contact
func (r *ContactRepository) Create(contact *models.Contact) error {
	contact.Email = strings.ToLower(contact.Email)
	return r.db.Create(contact).Error
}

// GetByID retrieves a contact by ID
func (r *ContactRepository) GetByID(id uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.First(&contact, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// GetByEmail retrieves a contact by email, case-insensitively
func (r *ContactRepository) GetByEmail(email string) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.First(&contact, "LOWER(email) = ?", strings.ToLower(email)).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// GetAll retrieves all contacts with pagination; a non-positive limit
// returns everything
func (r *ContactRepository) GetAll(limit, offset int) ([]models.Contact, int64, error) {
	var contacts []models.Contact
	var total int64

	if err := r.db.Model(&models.Contact{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Order("last_name, first_name")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&contacts).Error
	return contacts, total, err
}

// GetExistingIDs returns the subset of the given contact ids that exist
func (r *ContactRepository) GetExistingIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var existing []uuid.UUID
	err := r.db.Model(&models.Contact{}).Where("id IN ?", ids).Pluck("id", &existing).Error
	return existing, err
}

// Update updates a contact
func (r *ContactRepository) Update(contact *models.Contact) error {
	contact.Email = strings.ToLower(contact.Email)
	return r.db.Save(contact).Error
}

// Delete deletes a contact
func (r *ContactRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Contact{}, "id = ?", id).Error
}
