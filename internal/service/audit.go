package service

import (
	"fmt"

	"volunteer-rota-backend/internal/database/models"
	"volunteer-rota-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ViolationKind classifies one integrity violation found by the audit
type ViolationKind string

const (
	ViolationInvalidEventID         ViolationKind = "invalid_eventId"
	ViolationInvalidOccurrenceID    ViolationKind = "invalid_occurrenceId"
	ViolationMismatchedOccurrenceID ViolationKind = "mismatched_occurrenceId"
	ViolationInvalidAssignee        ViolationKind = "invalid_assignee"
	ViolationInvalidOwnerID         ViolationKind = "invalid_ownerId"
)

// Violation is one finding against one rota. AssigneeIndex is set for
// assignee-level findings only.
type Violation struct {
	RotaID        uuid.UUID     `json:"rota_id"`
	Kind          ViolationKind `json:"kind"`
	Detail        string        `json:"detail"`
	AssigneeIndex *int          `json:"assignee_index,omitempty"`
}

// AuditReport summarises one scan
type AuditReport struct {
	RotasScanned int         `json:"rotas_scanned"`
	Violations   []Violation `json:"violations"`
	Repaired     int         `json:"repaired"`
}

// AuditService re-validates the cross-entity references of every rota
// against a snapshot of events, occurrences and contacts. It is report-first:
// data violations are classified, never raised as errors; only unreadable
// storage fails the scan. Repair is deliberately narrow: invalid assignees
// are filtered out and invalid owner contacts nulled; a dangling event id may
// indicate a deeper bug and is reported only. Not intended to run alongside
// heavy write traffic, since the snapshot is not transactional.
type AuditService struct {
	rotaRepo       repository.RotaRepositoryInterface
	eventRepo      repository.EventRepositoryInterface
	occurrenceRepo repository.OccurrenceRepositoryInterface
	contactRepo    repository.ContactRepositoryInterface
}

// NewAuditService creates a new audit service
func NewAuditService(
	rotaRepo repository.RotaRepositoryInterface,
	eventRepo repository.EventRepositoryInterface,
	occurrenceRepo repository.OccurrenceRepositoryInterface,
	contactRepo repository.ContactRepositoryInterface,
) *AuditService {
	return &AuditService{
		rotaRepo:       rotaRepo,
		eventRepo:      eventRepo,
		occurrenceRepo: occurrenceRepo,
		contactRepo:    contactRepo,
	}
}

// snapshot holds the reference sets one scan validates against
type snapshot struct {
	events      map[uuid.UUID]bool
	occurrences map[uuid.UUID]uuid.UUID // occurrence id -> owning event id
	contacts    map[uuid.UUID]bool
}

// Scan checks every rota and reports violations without modifying anything
func (s *AuditService) Scan() (*AuditReport, error) {
	return s.run(false)
}

// Repair re-runs the scan and applies the two safe fixes: invalid assignees
// are filtered out of the array and invalid owner contacts are nulled.
// Everything else stays reported-only.
func (s *AuditService) Repair() (*AuditReport, error) {
	return s.run(true)
}

func (s *AuditService) run(repair bool) (*AuditReport, error) {
	snap, err := s.loadSnapshot()
	if err != nil {
		return nil, err
	}

	rotas, err := s.rotaRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("load rotas: %w", err)
	}

	report := &AuditReport{RotasScanned: len(rotas)}
	for i := range rotas {
		rota := &rotas[i]
		violations, keep, owner := s.checkRota(rota, snap)
		report.Violations = append(report.Violations, violations...)

		if !repair {
			continue
		}

		changed := false
		if len(keep) != len(rota.Assignees) {
			rota.Assignees = keep
			changed = true
		}
		if owner {
			rota.OwnerContactID = nil
			changed = true
		}
		if changed {
			if err := s.rotaRepo.Update(rota); err != nil {
				return nil, fmt.Errorf("repair rota %s: %w", rota.ID, err)
			}
			report.Repaired++
		}
	}

	logrus.WithFields(logrus.Fields{
		"rotas_scanned": report.RotasScanned,
		"violations":    len(report.Violations),
		"repaired":      report.Repaired,
	}).Info("integrity audit completed")

	return report, nil
}

// checkRota validates one rota against the snapshot. It returns the
// violations, the assignees that survive a repair, and whether the owner
// contact reference is invalid.
func (s *AuditService) checkRota(rota *models.Rota, snap *snapshot) ([]Violation, models.AssigneeList, bool) {
	var violations []Violation

	if !snap.events[rota.EventID] {
		violations = append(violations, Violation{
			RotaID: rota.ID,
			Kind:   ViolationInvalidEventID,
			Detail: fmt.Sprintf("event %s does not exist", rota.EventID),
		})
	}

	if rota.OccurrenceID != nil {
		owningEvent, exists := snap.occurrences[*rota.OccurrenceID]
		switch {
		case !exists:
			violations = append(violations, Violation{
				RotaID: rota.ID,
				Kind:   ViolationInvalidOccurrenceID,
				Detail: fmt.Sprintf("occurrence %s does not exist", *rota.OccurrenceID),
			})
		case owningEvent != rota.EventID:
			violations = append(violations, Violation{
				RotaID: rota.ID,
				Kind:   ViolationMismatchedOccurrenceID,
				Detail: fmt.Sprintf("occurrence %s belongs to event %s, not %s", *rota.OccurrenceID, owningEvent, rota.EventID),
			})
		}
	}

	ownerInvalid := false
	if rota.OwnerContactID != nil && !snap.contacts[*rota.OwnerContactID] {
		ownerInvalid = true
		violations = append(violations, Violation{
			RotaID: rota.ID,
			Kind:   ViolationInvalidOwnerID,
			Detail: fmt.Sprintf("owner contact %s does not exist", *rota.OwnerContactID),
		})
	}

	keep := make(models.AssigneeList, 0, len(rota.Assignees))
	for i, a := range rota.Assignees {
		idx := i
		if reason := s.checkAssignee(rota, a, snap); reason != "" {
			violations = append(violations, Violation{
				RotaID:        rota.ID,
				Kind:          ViolationInvalidAssignee,
				Detail:        reason,
				AssigneeIndex: &idx,
			})
			continue
		}
		keep = append(keep, a)
	}

	return violations, keep, ownerInvalid
}

// checkAssignee returns a non-empty reason when the entry's references are
// broken
func (s *AuditService) checkAssignee(rota *models.Rota, a models.Assignee, snap *snapshot) string {
	if a.ContactID != nil && !snap.contacts[*a.ContactID] {
		return fmt.Sprintf("contact %s does not exist", *a.ContactID)
	}

	resolved := a.Resolve(rota)
	if resolved == nil {
		// Template entry on a template rota: applies to every occurrence.
		return ""
	}
	owningEvent, exists := snap.occurrences[*resolved]
	if !exists {
		return fmt.Sprintf("occurrence %s does not exist", *resolved)
	}
	if owningEvent != rota.EventID {
		return fmt.Sprintf("occurrence %s belongs to event %s, not %s", *resolved, owningEvent, rota.EventID)
	}
	return ""
}

func (s *AuditService) loadSnapshot() (*snapshot, error) {
	events, _, err := s.eventRepo.GetAll(0, 0)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	occurrences, err := s.occurrenceRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("load occurrences: %w", err)
	}
	contacts, _, err := s.contactRepo.GetAll(0, 0)
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}

	snap := &snapshot{
		events:      make(map[uuid.UUID]bool, len(events)),
		occurrences: make(map[uuid.UUID]uuid.UUID, len(occurrences)),
		contacts:    make(map[uuid.UUID]bool, len(contacts)),
	}
	for _, e := range events {
		snap.events[e.ID] = true
	}
	for _, o := range occurrences {
		snap.occurrences[o.ID] = o.EventID
	}
	for _, c := range contacts {
		snap.contacts[c.ID] = true
	}
	return snap, nil
}
