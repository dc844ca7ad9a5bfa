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
	"gorm.io/gorm"
)

// ContactService handles business logic for the contact directory
type ContactService struct {
	contactRepo repository.ContactRepositoryInterface
	leaveRepo   repository.LeavePeriodRepositoryInterface
	validator   *validator.Validate
}

// NewContactService creates a new contact service
func NewContactService(
	contactRepo repository.ContactRepositoryInterface,
	leaveRepo repository.LeavePeriodRepositoryInterface,
	validator *validator.Validate,
) *ContactService {
	return &ContactService{contactRepo: contactRepo, leaveRepo: leaveRepo, validator: validator}
}

// CreateContactRequest represents the request to create a contact
type CreateContactRequest struct {
	FirstName   string     `json:"first_name" validate:"required,max=100"`
	LastName    string     `json:"last_name" validate:"required,max=100"`
	Email       string     `json:"email" validate:"required,email,max=255"`
	PhoneNumber string     `json:"phone_number" validate:"max=20"`
	SpouseID    *uuid.UUID `json:"spouse_id,omitempty"`
}

// Create creates a new contact; when a spouse is given, the link is written
// in both directions
func (s *ContactService) Create(req *CreateContactRequest) (*models.Contact, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.SpouseID != nil {
		if _, err := s.GetByID(*req.SpouseID); err != nil {
			return nil, err
		}
	}

	contact := &models.Contact{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		SpouseID:    req.SpouseID,
		IsActive:    true,
	}
	if err := s.contactRepo.Create(contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	if req.SpouseID != nil {
		spouse, err := s.GetByID(*req.SpouseID)
		if err != nil {
			return nil, err
		}
		spouse.SpouseID = &contact.ID
		if err := s.contactRepo.Update(spouse); err != nil {
			return nil, fmt.Errorf("link spouse: %w", err)
		}
	}

	return contact, nil
}

// GetByID retrieves a contact
func (s *ContactService) GetByID(id uuid.UUID) (*models.Contact, error) {
	contact, err := s.contactRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, fmt.Errorf("load contact: %w", err)
	}
	return contact, nil
}

// GetByEmail retrieves a contact by email, case-insensitively
func (s *ContactService) GetByEmail(email string) (*models.Contact, error) {
	contact, err := s.contactRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, fmt.Errorf("load contact: %w", err)
	}
	return contact, nil
}

// GetAll retrieves contacts with pagination
func (s *ContactService) GetAll(limit, offset int) ([]models.Contact, int64, error) {
	return s.contactRepo.GetAll(limit, offset)
}

// CreateLeavePeriodRequest represents the request to record a leave period
type CreateLeavePeriodRequest struct {
	ContactID uuid.UUID `json:"contact_id" validate:"required"`
	StartDate string    `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string    `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string    `json:"reason" validate:"max=200"`
}

// AddLeavePeriod records a leave period for a contact
func (s *ContactService) AddLeavePeriod(req *CreateLeavePeriodRequest) (*models.LeavePeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.GetByID(req.ContactID); err != nil {
		return nil, err
	}

	start, _ := parseDate(req.StartDate)
	end, _ := parseDate(req.EndDate)
	if end.Before(start) {
		return nil, apperrors.NewValidationError("end_date", "is before start_date")
	}

	leave := &models.LeavePeriod{
		ContactID: req.ContactID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	}
	if err := s.leaveRepo.Create(leave); err != nil {
		return nil, fmt.Errorf("create leave period: %w", err)
	}
	return leave, nil
}

// GetLeavePeriods retrieves a contact's recorded leave periods
func (s *ContactService) GetLeavePeriods(contactID uuid.UUID) ([]models.LeavePeriod, error) {
	if _, err := s.GetByID(contactID); err != nil {
		return nil, err
	}
	return s.leaveRepo.GetByContactID(contactID)
}

// RemoveLeavePeriod deletes a leave period
func (s *ContactService) RemoveLeavePeriod(id uuid.UUID) error {
	return s.leaveRepo.Delete(id)
}

// Delete removes a contact
func (s *ContactService) Delete(id uuid.UUID) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.contactRepo.Delete(id)
}

// parseDate parses a date-only value; callers validate the format first
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
