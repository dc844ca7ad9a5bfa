package service

import (
	"crypto/rand"
	"encoding/hex"
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

// RotaService handles rota lifecycle: creation by admins or from team
// templates, lookup for admin screens, and resolution of the opaque share
// tokens public signup pages are keyed by
type RotaService struct {
	rotaRepo       repository.RotaRepositoryInterface
	eventRepo      repository.EventRepositoryInterface
	occurrenceRepo repository.OccurrenceRepositoryInterface
	validator      *validator.Validate
}

// NewRotaService creates a new rota service
func NewRotaService(
	rotaRepo repository.RotaRepositoryInterface,
	eventRepo repository.EventRepositoryInterface,
	occurrenceRepo repository.OccurrenceRepositoryInterface,
	validator *validator.Validate,
) *RotaService {
	return &RotaService{
		rotaRepo:       rotaRepo,
		eventRepo:      eventRepo,
		occurrenceRepo: occurrenceRepo,
		validator:      validator,
	}
}

// CreateRotaRequest represents the request to create a rota
type CreateRotaRequest struct {
	EventID        uuid.UUID         `json:"event_id" validate:"required"`
	OccurrenceID   *uuid.UUID        `json:"occurrence_id,omitempty"`
	Role           string            `json:"role" validate:"required,max=100"`
	Capacity       int               `json:"capacity" validate:"required,min=1"`
	Visibility     models.Visibility `json:"visibility" validate:"omitempty,oneof=public private"`
	OwnerContactID *uuid.UUID        `json:"owner_contact_id,omitempty"`
}

// TeamTemplate names one role of a team scheduler template
type TeamTemplate struct {
	Role     string `json:"role" validate:"required,max=100"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

// CreateFromTemplateRequest generates one rota per template role for an event
type CreateFromTemplateRequest struct {
	EventID   uuid.UUID      `json:"event_id" validate:"required"`
	Templates []TeamTemplate `json:"templates" validate:"required,min=1,dive"`
}

// RotaResponse is the admin-facing view of a rota, including its share token
type RotaResponse struct {
	ID             uuid.UUID           `json:"id"`
	EventID        uuid.UUID           `json:"event_id"`
	OccurrenceID   *uuid.UUID          `json:"occurrence_id,omitempty"`
	Role           string              `json:"role"`
	Capacity       int                 `json:"capacity"`
	Assignees      models.AssigneeList `json:"assignees"`
	Visibility     models.Visibility   `json:"visibility"`
	ShareToken     string              `json:"share_token"`
	OwnerContactID *uuid.UUID          `json:"owner_contact_id,omitempty"`
}

// PublicRotaResponse is the view served on token-gated signup pages. Real
// entity ids stay server-side except the occurrence choices the visitor
// picks from.
type PublicRotaResponse struct {
	Role        string              `json:"role"`
	EventTitle  string              `json:"event_title"`
	Occurrences []models.Occurrence `json:"occurrences"`
}

// Create creates a rota and issues its share token
func (s *RotaService) Create(req *CreateRotaRequest) (*RotaResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.eventRepo.GetByID(req.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("verify event: %w", err)
	}

	if req.OccurrenceID != nil {
		occurrence, err := s.occurrenceRepo.GetByID(*req.OccurrenceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrOccurrenceNotFound
			}
			return nil, fmt.Errorf("verify occurrence: %w", err)
		}
		if occurrence.EventID != req.EventID {
			return nil, apperrors.NewValidationError("occurrence_id", "occurrence belongs to a different event")
		}
	}

	token, err := newShareToken()
	if err != nil {
		return nil, err
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}

	rota := &models.Rota{
		EventID:        req.EventID,
		OccurrenceID:   req.OccurrenceID,
		Role:           req.Role,
		Capacity:       req.Capacity,
		Assignees:      models.AssigneeList{},
		Visibility:     visibility,
		ShareToken:     token,
		OwnerContactID: req.OwnerContactID,
	}
	if err := s.rotaRepo.Create(rota); err != nil {
		return nil, fmt.Errorf("create rota: %w", err)
	}

	return toRotaResponse(rota), nil
}

// CreateFromTemplate generates one template rota per team role
func (s *RotaService) CreateFromTemplate(req *CreateFromTemplateRequest) ([]RotaResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	responses := make([]RotaResponse, 0, len(req.Templates))
	for _, tpl := range req.Templates {
		resp, err := s.Create(&CreateRotaRequest{
			EventID:  req.EventID,
			Role:     tpl.Role,
			Capacity: tpl.Capacity,
		})
		if err != nil {
			return nil, fmt.Errorf("template role %q: %w", tpl.Role, err)
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// GetByID retrieves a rota
func (s *RotaService) GetByID(id uuid.UUID) (*RotaResponse, error) {
	rota, err := s.rotaRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRotaNotFound
		}
		return nil, fmt.Errorf("load rota: %w", err)
	}
	return toRotaResponse(rota), nil
}

// GetByEvent retrieves all rotas of an event
func (s *RotaService) GetByEvent(eventID uuid.UUID) ([]RotaResponse, error) {
	rotas, err := s.rotaRepo.GetByEventID(eventID)
	if err != nil {
		return nil, fmt.Errorf("load rotas: %w", err)
	}
	responses := make([]RotaResponse, 0, len(rotas))
	for i := range rotas {
		responses = append(responses, *toRotaResponse(&rotas[i]))
	}
	return responses, nil
}

// ResolveShareToken builds the public signup page view for a token: the role,
// event title, and the future occurrences open for signup. Past dates are
// never offered, matching the signup service's own date guard.
func (s *RotaService) ResolveShareToken(token string) (*PublicRotaResponse, error) {
	return s.resolveShareToken(token, time.Now())
}

func (s *RotaService) resolveShareToken(token string, now time.Time) (*PublicRotaResponse, error) {
	rota, err := s.rotaRepo.GetByShareToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrShareTokenNotFound
		}
		return nil, fmt.Errorf("resolve share token: %w", err)
	}

	event, err := s.eventRepo.GetByID(rota.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}

	today := dateOnly(now)
	var occurrences []models.Occurrence
	if rota.OccurrenceID != nil {
		occ, err := s.occurrenceRepo.GetByID(*rota.OccurrenceID)
		if err == nil && !dateOnly(occ.StartsAt).Before(today) {
			occurrences = []models.Occurrence{*occ}
		}
	} else {
		occurrences, err = s.occurrenceRepo.GetByEventIDFrom(rota.EventID, today)
		if err != nil {
			return nil, fmt.Errorf("load occurrences: %w", err)
		}
	}

	return &PublicRotaResponse{
		Role:        rota.Role,
		EventTitle:  event.Title,
		Occurrences: occurrences,
	}, nil
}

// Delete removes a rota
func (s *RotaService) Delete(id uuid.UUID) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.rotaRepo.Delete(id)
}

// newShareToken returns an opaque 32-hex-char token
func newShareToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func toRotaResponse(rota *models.Rota) *RotaResponse {
	return &RotaResponse{
		ID:             rota.ID,
		EventID:        rota.EventID,
		OccurrenceID:   rota.OccurrenceID,
		Role:           rota.Role,
		Capacity:       rota.Capacity,
		Assignees:      rota.Assignees,
		Visibility:     rota.Visibility,
		ShareToken:     rota.ShareToken,
		OwnerContactID: rota.OwnerContactID,
	}
}
