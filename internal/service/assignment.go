package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"volunteer-rota-backend/internal/database/models"
	apperrors "volunteer-rota-backend/internal/errors"
	"volunteer-rota-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AssignmentService owns the add/remove primitives every assignment surface
// converges on. All writes to a rota's assignee array pass through a per-rota
// mutex, so two requests against the same rota serialize and the capacity
// check holds.
type AssignmentService struct {
	rotaRepo       repository.RotaRepositoryInterface
	occurrenceRepo repository.OccurrenceRepositoryInterface
	contactRepo    repository.ContactRepositoryInterface
	validator      *validator.Validate

	locks sync.Map // rota id -> *sync.Mutex
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(
	rotaRepo repository.RotaRepositoryInterface,
	occurrenceRepo repository.OccurrenceRepositoryInterface,
	contactRepo repository.ContactRepositoryInterface,
	validator *validator.Validate,
) *AssignmentService {
	return &AssignmentService{
		rotaRepo:       rotaRepo,
		occurrenceRepo: occurrenceRepo,
		contactRepo:    contactRepo,
		validator:      validator,
	}
}

// lockRota returns the mutex serializing writes for one rota
func (s *AssignmentService) lockRota(rotaID uuid.UUID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(rotaID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Candidate identifies one person to assign: a contact id, or a guest
// name+email pair for people without an account.
type Candidate struct {
	ContactID *uuid.UUID `json:"contact_id,omitempty"`
	Name      string     `json:"name,omitempty" validate:"max=200"`
	Email     string     `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

// IdentityKey returns the deduplication key: contact id, or lowercased email
func (c Candidate) IdentityKey() string {
	if c.ContactID != nil {
		return c.ContactID.String()
	}
	return strings.ToLower(c.Email)
}

// toAssignee converts the candidate into a stored entry pinned to the given
// occurrence
func (c Candidate) toAssignee(occurrenceID uuid.UUID) models.Assignee {
	a := models.Assignee{OccurrenceID: &occurrenceID}
	if c.ContactID != nil {
		a.ContactID = c.ContactID
	} else {
		a.Guest = &models.Guest{Name: c.Name, Email: strings.ToLower(c.Email)}
	}
	return a
}

// AddAssigneesRequest represents the request to add candidates to a rota for
// one occurrence
type AddAssigneesRequest struct {
	OccurrenceID uuid.UUID   `json:"occurrence_id" validate:"required"`
	Candidates   []Candidate `json:"candidates" validate:"required,min=1,dive"`
}

// AddResult reports the outcome of one add call. Skipped candidates are
// counted, never silently dropped.
type AddResult struct {
	Added            int `json:"added"`
	SkippedDuplicate int `json:"skipped_duplicate"`
	SkippedFull      int `json:"skipped_full"`
}

// BulkAssignRequest represents an admin bulk assignment of a fixed candidate
// list to every occurrence matching a recurring date pattern
type BulkAssignRequest struct {
	Pattern    DatePattern `json:"pattern" validate:"required"`
	Frequency  int         `json:"frequency" validate:"required"`
	EndDate    time.Time   `json:"end_date" validate:"required"`
	Candidates []Candidate `json:"candidates" validate:"required,min=1,dive"`
}

// BulkAssignResult aggregates the per-occurrence outcomes of one bulk call
type BulkAssignResult struct {
	AssignmentsMade    int `json:"assignments_made"`
	OccurrencesMatched int `json:"occurrences_matched"`
	SkippedDuplicate   int `json:"skipped_duplicate"`
	SkippedFull        int `json:"skipped_full"`
}

// CanAssign decides whether a candidate may occupy a slot on the rota for the
// given occurrence. Returns nil when allowed, or a CapacityError/ClashError.
// The cross-rota scan rejects a person already holding another role of the
// same event on the same date; it runs on the signup and team paths only.
// The plain admin add skips it so an organizer can override.
func (s *AssignmentService) CanAssign(rotaID, occurrenceID uuid.UUID, candidate Candidate, checkCrossRota bool) error {
	rota, occurrence, err := s.getRotaAndOccurrence(rotaID, occurrenceID)
	if err != nil {
		return err
	}
	working := *rota
	working.Capacity = effectiveCapacity(rota, occurrence)
	return s.canAssign(&working, occurrenceID, candidate, checkCrossRota)
}

func (s *AssignmentService) canAssign(rota *models.Rota, occurrenceID uuid.UUID, candidate Candidate, checkCrossRota bool) error {
	existing := rota.AssigneesAt(occurrenceID)
	if len(existing) >= rota.Capacity {
		return &apperrors.CapacityError{Role: rota.Role}
	}

	key := candidate.IdentityKey()
	for _, a := range existing {
		if a.IdentityKey() == key {
			return apperrors.ErrDuplicate
		}
	}

	if checkCrossRota {
		siblings, err := s.rotaRepo.GetByEventID(rota.EventID)
		if err != nil {
			return fmt.Errorf("scan event rotas: %w", err)
		}
		for i := range siblings {
			if siblings[i].ID == rota.ID {
				continue
			}
			for _, a := range siblings[i].AssigneesAt(occurrenceID) {
				if a.IdentityKey() == key {
					return apperrors.ErrCrossRotaClash
				}
			}
		}
	}

	return nil
}

// AddAssignees appends candidates to the rota for one occurrence, in input
// order, admitting at most the remaining free slots. The slot limit honors
// the occurrence's MaxSpaces override. The call is idempotent
// per candidate: a duplicate for the target occurrence is counted and
// skipped, never a batch failure.
func (s *AssignmentService) AddAssignees(rotaID uuid.UUID, req *AddAssigneesRequest) (*AddResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := s.validateCandidates(req.Candidates); err != nil {
		return nil, err
	}

	mu := s.lockRota(rotaID)
	mu.Lock()
	defer mu.Unlock()

	rota, occurrence, err := s.getRotaAndOccurrence(rotaID, req.OccurrenceID)
	if err != nil {
		return nil, err
	}

	result := &AddResult{}
	assignees := rota.Assignees
	working := *rota
	working.Capacity = effectiveCapacity(rota, occurrence)

	for _, candidate := range req.Candidates {
		// The working copy sees earlier admissions from this same batch, so
		// in-batch duplicates and capacity are accounted for.
		working.Assignees = assignees
		err := s.canAssign(&working, req.OccurrenceID, candidate, false)
		switch {
		case err == nil:
			assignees = append(assignees, candidate.toAssignee(req.OccurrenceID))
			result.Added++
		case apperrors.IsCapacity(err):
			result.SkippedFull++
		case apperrors.IsClash(err):
			result.SkippedDuplicate++
		default:
			return nil, err
		}
	}

	if result.Added > 0 {
		if err := s.rotaRepo.UpdateAssignees(rotaID, assignees); err != nil {
			return nil, fmt.Errorf("write assignees: %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"rota_id":           rotaID,
		"occurrence_id":     req.OccurrenceID,
		"added":             result.Added,
		"skipped_duplicate": result.SkippedDuplicate,
		"skipped_full":      result.SkippedFull,
	}).Info("assignees added")

	return result, nil
}

// RemoveAssignee removes the entry at the given position. Removal is
// positional because guest entries have no identity beyond name and email.
func (s *AssignmentService) RemoveAssignee(rotaID uuid.UUID, index int) error {
	mu := s.lockRota(rotaID)
	mu.Lock()
	defer mu.Unlock()

	rota, err := s.getRota(rotaID)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(rota.Assignees) {
		return apperrors.NewValidationError("index", "assignee position out of range")
	}

	assignees := append(rota.Assignees[:index:index], rota.Assignees[index+1:]...)
	if err := s.rotaRepo.UpdateAssignees(rotaID, assignees); err != nil {
		return fmt.Errorf("write assignees: %w", err)
	}
	return nil
}

// BulkAssignByPattern assigns the candidate list to every future occurrence
// of the rota's event matching the date pattern. Occurrences are processed
// sequentially in ascending date order, re-reading the rota each time, so
// later dates in the batch observe earlier writes. Capacity and duplicate
// conditions are counted per occurrence; only structural failures abort.
func (s *AssignmentService) BulkAssignByPattern(rotaID uuid.UUID, req *BulkAssignRequest) (*BulkAssignResult, error) {
	return s.bulkAssignByPattern(rotaID, req, time.Now())
}

// bulkAssignByPattern takes an explicit now for deterministic tests
func (s *AssignmentService) bulkAssignByPattern(rotaID uuid.UUID, req *BulkAssignRequest, now time.Time) (*BulkAssignResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := s.validateCandidates(req.Candidates); err != nil {
		return nil, err
	}

	rota, err := s.getRota(rotaID)
	if err != nil {
		return nil, err
	}

	occurrences, err := s.occurrenceRepo.GetByEventID(rota.EventID)
	if err != nil {
		return nil, fmt.Errorf("load occurrences: %w", err)
	}

	matched, err := MatchOccurrences(occurrences, req.Pattern, req.Frequency, now, req.EndDate)
	if err != nil {
		return nil, err
	}

	result := &BulkAssignResult{OccurrencesMatched: len(matched)}
	for _, occ := range matched {
		addResult, err := s.AddAssignees(rotaID, &AddAssigneesRequest{
			OccurrenceID: occ.ID,
			Candidates:   req.Candidates,
		})
		if err != nil {
			return nil, fmt.Errorf("assign occurrence %s: %w", occ.ID, err)
		}
		result.AssignmentsMade += addResult.Added
		result.SkippedDuplicate += addResult.SkippedDuplicate
		result.SkippedFull += addResult.SkippedFull
	}

	logrus.WithFields(logrus.Fields{
		"rota_id":             rotaID,
		"occurrences_matched": result.OccurrencesMatched,
		"assignments_made":    result.AssignmentsMade,
	}).Info("bulk assignment completed")

	return result, nil
}

// validateCandidates checks that each candidate carries an identity and that
// every referenced contact exists
func (s *AssignmentService) validateCandidates(candidates []Candidate) error {
	var contactIDs []uuid.UUID
	for _, c := range candidates {
		if c.ContactID == nil && c.Email == "" {
			return apperrors.NewValidationError("candidates", "candidate needs a contact id or a name and email")
		}
		if c.ContactID != nil {
			contactIDs = append(contactIDs, *c.ContactID)
		}
	}

	if len(contactIDs) > 0 {
		existing, err := s.contactRepo.GetExistingIDs(contactIDs)
		if err != nil {
			return fmt.Errorf("verify contacts: %w", err)
		}
		known := make(map[uuid.UUID]bool, len(existing))
		for _, id := range existing {
			known[id] = true
		}
		for _, id := range contactIDs {
			if !known[id] {
				return apperrors.ErrContactNotFound
			}
		}
	}
	return nil
}

// effectiveCapacity returns the slot limit for one occurrence: the
// occurrence's MaxSpaces override when set, the rota's own capacity otherwise
func effectiveCapacity(rota *models.Rota, occ *models.Occurrence) int {
	if occ.MaxSpaces != nil {
		return *occ.MaxSpaces
	}
	return rota.Capacity
}

// getRota loads a rota, translating gorm's not-found
func (s *AssignmentService) getRota(rotaID uuid.UUID) (*models.Rota, error) {
	rota, err := s.rotaRepo.GetByID(rotaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRotaNotFound
		}
		return nil, fmt.Errorf("load rota: %w", err)
	}
	return rota, nil
}

// getRotaAndOccurrence loads both and enforces that the occurrence belongs to
// the rota's event and, for a pinned rota, matches its pin
func (s *AssignmentService) getRotaAndOccurrence(rotaID, occurrenceID uuid.UUID) (*models.Rota, *models.Occurrence, error) {
	rota, err := s.getRota(rotaID)
	if err != nil {
		return nil, nil, err
	}

	occurrence, err := s.occurrenceRepo.GetByID(occurrenceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrOccurrenceNotFound
		}
		return nil, nil, fmt.Errorf("load occurrence: %w", err)
	}

	if occurrence.EventID != rota.EventID {
		return nil, nil, apperrors.NewValidationError("occurrence_id", "occurrence belongs to a different event")
	}
	if rota.OccurrenceID != nil && *rota.OccurrenceID != occurrenceID {
		return nil, nil, apperrors.NewValidationError("occurrence_id", "rota is pinned to a different occurrence")
	}

	return rota, occurrence, nil
}
