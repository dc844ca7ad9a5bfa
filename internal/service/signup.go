package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"volunteer-rota-backend/internal/database/models"
	apperrors "volunteer-rota-backend/internal/errors"
	"volunteer-rota-backend/internal/logger"
	"volunteer-rota-backend/internal/ratelimit"
	"volunteer-rota-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SignupService layers identity resolution, household co-signup, rate
// limiting and all-or-nothing semantics over the assignment engine, for
// untrusted and semi-trusted callers. Unlike the bulk tool, a signup is one
// person's single intent: every item is checked before any write, and the
// first failure aborts the whole request.
type SignupService struct {
	contactRepo    repository.ContactRepositoryInterface
	rotaRepo       repository.RotaRepositoryInterface
	occurrenceRepo repository.OccurrenceRepositoryInterface
	leaveRepo      repository.LeavePeriodRepositoryInterface
	assignments    *AssignmentService
	limiter        ratelimit.Limiter
	validator      *validator.Validate
}

// NewSignupService creates a new signup service
func NewSignupService(
	contactRepo repository.ContactRepositoryInterface,
	rotaRepo repository.RotaRepositoryInterface,
	occurrenceRepo repository.OccurrenceRepositoryInterface,
	leaveRepo repository.LeavePeriodRepositoryInterface,
	assignments *AssignmentService,
	limiter ratelimit.Limiter,
	validator *validator.Validate,
) *SignupService {
	return &SignupService{
		contactRepo:    contactRepo,
		rotaRepo:       rotaRepo,
		occurrenceRepo: occurrenceRepo,
		leaveRepo:      leaveRepo,
		assignments:    assignments,
		limiter:        limiter,
		validator:      validator,
	}
}

// RotaSignupRequest represents a self-service rota signup. SourceKey is set
// for anonymous token-gated callers only and triggers rate limiting; the
// authenticated member route leaves it empty.
type RotaSignupRequest struct {
	Email         string      `json:"email" validate:"required,email"`
	FirstName     string      `json:"first_name" validate:"required,max=100"`
	LastName      string      `json:"last_name" validate:"required,max=100"`
	OccurrenceIDs []uuid.UUID `json:"occurrence_ids" validate:"required,min=1"`
	IncludeSpouse bool        `json:"include_spouse"`
	SourceKey     string      `json:"-"`
}

// GuestSignupRequest represents an open attendance signup by someone who may
// not have an account; a lightweight guest entry is recorded.
type GuestSignupRequest struct {
	Name         string    `json:"name" validate:"required,max=200"`
	Email        string    `json:"email" validate:"required,email,max=255"`
	OccurrenceID uuid.UUID `json:"occurrence_id" validate:"required"`
	SourceKey    string    `json:"-"`
}

// SignupResponse reports the slots taken by a successful signup
type SignupResponse struct {
	RotaID        uuid.UUID   `json:"rota_id"`
	Role          string      `json:"role"`
	OccurrenceIDs []uuid.UUID `json:"occurrence_ids"`
	People        []string    `json:"people"`
}

// RotaSignup signs an existing contact (and optionally their spouse) up for
// one or more occurrences of the rota behind the share token. Requires a
// pre-existing contact; open attendance signup is the only path that creates
// guest records.
func (s *SignupService) RotaSignup(ctx context.Context, shareToken string, req *RotaSignupRequest) (*SignupResponse, error) {
	return s.rotaSignup(ctx, shareToken, req, time.Now())
}

func (s *SignupService) rotaSignup(ctx context.Context, shareToken string, req *RotaSignupRequest, now time.Time) (*SignupResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.checkRateLimit(ctx, req.SourceKey); err != nil {
		return nil, err
	}

	rota, err := s.resolveRota(shareToken)
	if err != nil {
		return nil, err
	}

	contact, err := s.contactRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoAccount
		}
		return nil, fmt.Errorf("look up contact: %w", err)
	}

	if !nameMatches(req.FirstName, contact.FirstName) || !nameMatches(req.LastName, contact.LastName) {
		return nil, apperrors.ErrNameMismatch
	}

	people := []*models.Contact{contact}
	if req.IncludeSpouse {
		if contact.SpouseID == nil {
			return nil, apperrors.NewValidationError("include_spouse", "no linked spouse on this account")
		}
		spouse, err := s.contactRepo.GetByID(*contact.SpouseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrContactNotFound
			}
			return nil, fmt.Errorf("look up spouse: %w", err)
		}
		people = append(people, spouse)
	}

	occurrences, err := s.loadOccurrences(rota, req.OccurrenceIDs, now)
	if err != nil {
		return nil, err
	}

	// Check phase: every (person, occurrence) pair is validated against a
	// working copy that accumulates in-request admissions, so a household
	// signup cannot overfill the last slot. Nothing is written until every
	// check has passed.
	working := *rota
	assignees := rota.Assignees
	for _, occ := range occurrences {
		working.Capacity = effectiveCapacity(rota, occ)
		for _, person := range people {
			if err := s.checkLeave(person.ID, occ.StartsAt); err != nil {
				return nil, err
			}
			candidate := Candidate{ContactID: &person.ID}
			working.Assignees = assignees
			if err := s.assignments.canAssign(&working, occ.ID, candidate, true); err != nil {
				return nil, err
			}
			assignees = append(assignees, candidate.toAssignee(occ.ID))
		}
	}

	// Write phase.
	for _, occ := range occurrences {
		candidates := make([]Candidate, 0, len(people))
		for _, person := range people {
			id := person.ID
			candidates = append(candidates, Candidate{ContactID: &id})
		}
		result, err := s.assignments.AddAssignees(rota.ID, &AddAssigneesRequest{
			OccurrenceID: occ.ID,
			Candidates:   candidates,
		})
		if err != nil {
			return nil, err
		}
		if err := requireAllAdmitted(result, rota.Role); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(people))
	for _, p := range people {
		names = append(names, p.FullName())
	}

	logger.WithComponent("signup").WithRota(rota.ID, rota.Role).WithFields(map[string]interface{}{
		"occurrences": len(occurrences),
		"people":      len(people),
	}).Info("rota signup completed")

	return &SignupResponse{
		RotaID:        rota.ID,
		Role:          rota.Role,
		OccurrenceIDs: req.OccurrenceIDs,
		People:        names,
	}, nil
}

// GuestSignup records an open attendance signup. No account is required: a
// contact matching the email is referenced when one exists, otherwise a
// lightweight guest entry is stored. When the occurrence carries a MaxSpaces
// override it caps the date instead of the rota's own capacity.
func (s *SignupService) GuestSignup(ctx context.Context, shareToken string, req *GuestSignupRequest) (*SignupResponse, error) {
	return s.guestSignup(ctx, shareToken, req, time.Now())
}

func (s *SignupService) guestSignup(ctx context.Context, shareToken string, req *GuestSignupRequest, now time.Time) (*SignupResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.checkRateLimit(ctx, req.SourceKey); err != nil {
		return nil, err
	}

	rota, err := s.resolveRota(shareToken)
	if err != nil {
		return nil, err
	}

	occurrences, err := s.loadOccurrences(rota, []uuid.UUID{req.OccurrenceID}, now)
	if err != nil {
		return nil, err
	}
	occ := occurrences[0]

	candidate := Candidate{Name: req.Name, Email: req.Email}
	if contact, err := s.contactRepo.GetByEmail(req.Email); err == nil {
		candidate = Candidate{ContactID: &contact.ID}
	}

	working := *rota
	working.Capacity = effectiveCapacity(rota, occ)
	if err := s.assignments.canAssign(&working, occ.ID, candidate, true); err != nil {
		return nil, err
	}

	result, err := s.assignments.AddAssignees(rota.ID, &AddAssigneesRequest{
		OccurrenceID: occ.ID,
		Candidates:   []Candidate{candidate},
	})
	if err != nil {
		return nil, err
	}
	if err := requireAllAdmitted(result, rota.Role); err != nil {
		return nil, err
	}

	logger.WithComponent("signup").WithShareToken(shareToken).Info("attendance signup recorded")

	return &SignupResponse{
		RotaID:        rota.ID,
		Role:          rota.Role,
		OccurrenceIDs: []uuid.UUID{occ.ID},
		People:        []string{req.Name},
	}, nil
}

// requireAllAdmitted turns a skipped candidate into the error the check phase
// would have raised. The engine re-checks under its own lock, so a skip here
// means a concurrent write landed after our check phase.
func requireAllAdmitted(result *AddResult, role string) error {
	if result.SkippedFull > 0 {
		return &apperrors.CapacityError{Role: role}
	}
	if result.SkippedDuplicate > 0 {
		return apperrors.ErrDuplicate
	}
	return nil
}

// checkRateLimit throttles anonymous callers per source identity
func (s *SignupService) checkRateLimit(ctx context.Context, sourceKey string) error {
	if sourceKey == "" || s.limiter == nil {
		return nil
	}
	ok, err := s.limiter.Allow(ctx, sourceKey)
	if err != nil {
		return fmt.Errorf("rate limit check: %w", err)
	}
	if !ok {
		return apperrors.ErrRateLimited
	}
	return nil
}

// resolveRota maps the opaque share token back to its rota
func (s *SignupService) resolveRota(shareToken string) (*models.Rota, error) {
	rota, err := s.rotaRepo.GetByShareToken(shareToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrShareTokenNotFound
		}
		return nil, fmt.Errorf("resolve share token: %w", err)
	}
	return rota, nil
}

// loadOccurrences resolves and validates the requested occurrences: each must
// exist, belong to the rota's event, match a pinned rota's date, and lie in
// the future (date-only comparison against now)
func (s *SignupService) loadOccurrences(rota *models.Rota, ids []uuid.UUID, now time.Time) ([]*models.Occurrence, error) {
	today := dateOnly(now)
	out := make([]*models.Occurrence, 0, len(ids))
	for _, id := range ids {
		occ, err := s.occurrenceRepo.GetByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrOccurrenceNotFound
			}
			return nil, fmt.Errorf("load occurrence: %w", err)
		}
		if occ.EventID != rota.EventID {
			return nil, apperrors.NewValidationError("occurrence_ids", "occurrence belongs to a different event")
		}
		if rota.OccurrenceID != nil && *rota.OccurrenceID != occ.ID {
			return nil, apperrors.NewValidationError("occurrence_ids", "rota is pinned to a different occurrence")
		}
		if dateOnly(occ.StartsAt).Before(today) {
			return nil, apperrors.ErrPastOccurrence
		}
		out = append(out, occ)
	}
	return out, nil
}

// checkLeave rejects a signup when the person is away on the target date
func (s *SignupService) checkLeave(contactID uuid.UUID, date time.Time) error {
	periods, err := s.leaveRepo.GetOverlapping(contactID, date)
	if err != nil {
		return fmt.Errorf("check leave: %w", err)
	}
	if len(periods) > 0 {
		return apperrors.ErrLeaveOverlap
	}
	return nil
}

// nameMatches applies the fuzzy name guard: a supplied name matches when
// either string contains the other, case-insensitively
func nameMatches(supplied, actual string) bool {
	a := strings.ToLower(strings.TrimSpace(supplied))
	b := strings.ToLower(strings.TrimSpace(actual))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
