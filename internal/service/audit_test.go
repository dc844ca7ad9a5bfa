package service

import (
	"testing"
	"time"

	"volunteer-rota-backend/internal/database/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// auditFixture reuses the assignment fakes and adds the audit service
type auditFixture struct {
	*assignmentFixture
	audit *AuditService
}

func newAuditFixture(t *testing.T) *auditFixture {
	f := &auditFixture{
		assignmentFixture: newAssignmentFixture(t, 5, date(2026, time.June, 7), date(2026, time.June, 14)),
	}
	f.audit = NewAuditService(f.rotaRepo, f.eventRepo, f.occRepo, f.contactRepo)
	return f
}

func violationKinds(report *AuditReport) []ViolationKind {
	out := make([]ViolationKind, 0, len(report.Violations))
	for _, v := range report.Violations {
		out = append(out, v.Kind)
	}
	return out
}

func TestAuditScan(t *testing.T) {
	t.Run("clean data reports nothing", func(t *testing.T) {
		f := newAuditFixture(t)
		alice := f.newContact(t, "Alice", "Archer", "alice@example.com")
		_, err := f.service.AddAssignees(f.rota.ID, &AddAssigneesRequest{
			OccurrenceID: f.occurrences[0].ID,
			Candidates:   []Candidate{{ContactID: &alice.ID}},
		})
		require.NoError(t, err)

		report, err := f.audit.Scan()
		require.NoError(t, err)
		assert.Equal(t, 1, report.RotasScanned)
		assert.Empty(t, report.Violations)
		assert.Zero(t, report.Repaired)
	})

	t.Run("dangling event reference", func(t *testing.T) {
		f := newAuditFixture(t)
		orphan := &models.Rota{
			EventID:    uuid.New(),
			Role:       "Orphan",
			Capacity:   2,
			Assignees:  models.AssigneeList{},
			ShareToken: "token-orphan",
		}
		require.NoError(t, f.rotaRepo.Create(orphan))

		report, err := f.audit.Scan()
		require.NoError(t, err)
		assert.Contains(t, violationKinds(report), ViolationInvalidEventID)
	})

	t.Run("dangling occurrence pin", func(t *testing.T) {
		f := newAuditFixture(t)
		missing := uuid.New()
		pinned := &models.Rota{
			EventID:      f.event.ID,
			OccurrenceID: &missing,
			Role:         "Pinned",
			Capacity:     2,
			Assignees:    models.AssigneeList{},
			ShareToken:   "token-pinned",
		}
		require.NoError(t, f.rotaRepo.Create(pinned))

		report, err := f.audit.Scan()
		require.NoError(t, err)
		assert.Contains(t, violationKinds(report), ViolationInvalidOccurrenceID)
	})

	t.Run("occurrence pinned to another event", func(t *testing.T) {
		f := newAuditFixture(t)
		other := &models.Event{Title: "Midweek Group"}
		require.NoError(t, f.eventRepo.Create(other))
		foreign := occurrenceOn(other.ID, date(2026, time.June, 10))
		require.NoError(t, f.occRepo.Create(&foreign))

		pinned := &models.Rota{
			EventID:      f.event.ID,
			OccurrenceID: &foreign.ID,
			Role:         "Crossed",
			Capacity:     2,
			Assignees:    models.AssigneeList{},
			ShareToken:   "token-crossed",
		}
		require.NoError(t, f.rotaRepo.Create(pinned))

		report, err := f.audit.Scan()
		require.NoError(t, err)
		assert.Contains(t, violationKinds(report), ViolationMismatchedOccurrenceID)
	})

	t.Run("assignee referencing a deleted contact", func(t *testing.T) {
		f := newAuditFixture(t)
		alice := f.newContact(t, "Alice", "Archer", "alice@example.com")
		_, err := f.service.AddAssignees(f.rota.ID, &AddAssigneesRequest{
			OccurrenceID: f.occurrences[0].ID,
			Candidates:   []Candidate{{ContactID: &alice.ID}},
		})
		require.NoError(t, err)
		require.NoError(t, f.contactRepo.Delete(alice.ID))

		report, err := f.audit.Scan()
		require.NoError(t, err)
		require.Len(t, report.Violations, 1)
		assert.Equal(t, ViolationInvalidAssignee, report.Violations[0].Kind)
		require.NotNil(t, report.Violations[0].AssigneeIndex)
		assert.Equal(t, 0, *report.Violations[0].AssigneeIndex)
	})

	t.Run("assignee pinned to a deleted occurrence", func(t *testing.T) {
		f := newAuditFixture(t)
		alice := f.newContact(t, "Alice", "Archer", "alice@example.com")
		_, err := f.service.AddAssignees(f.rota.ID, &AddAssigneesRequest{
			OccurrenceID: f.occurrences[0].ID,
			Candidates:   []Candidate{{ContactID: &alice.ID}},
		})
		require.NoError(t, err)
		require.NoError(t, f.occRepo.Delete(f.occurrences[0].ID))

		report, err := f.audit.Scan()
		require.NoError(t, err)
		assert.Contains(t, violationKinds(report), ViolationInvalidAssignee)
	})

	t.Run("template assignee without a pin is valid", func(t *testing.T) {
		f := newAuditFixture(t)
		alice := f.newContact(t, "Alice", "Archer", "alice@example.com")
		rota, err := f.rotaRepo.GetByID(f.rota.ID)
		require.NoError(t, err)
		// An unpinned entry on a template rota applies to every date.
		rota.Assignees = models.AssigneeList{{ContactID: &alice.ID}}
		require.NoError(t, f.rotaRepo.Update(rota))

		report, err := f.audit.Scan()
		require.NoError(t, err)
		assert.Empty(t, report.Violations)
	})

	t.Run("dangling owner contact", func(t *testing.T) {
		f := newAuditFixture(t)
		missing := uuid.New()
		rota, err := f.rotaRepo.GetByID(f.rota.ID)
		require.NoError(t, err)
		rota.OwnerContactID = &missing
		require.NoError(t, f.rotaRepo.Update(rota))

		report, err := f.audit.Scan()
		require.NoError(t, err)
		assert.Contains(t, violationKinds(report), ViolationInvalidOwnerID)
	})

	t.Run("scan never modifies", func(t *testing.T) {
		f := newAuditFixture(t)
		alice := f.newContact(t, "Alice", "Archer", "alice@example.com")
		_, err := f.service.AddAssignees(f.rota.ID, &AddAssigneesRequest{
			OccurrenceID: f.occurrences[0].ID,
			Candidates:   []Candidate{{ContactID: &alice.ID}},
		})
		require.NoError(t, err)
		require.NoError(t, f.contactRepo.Delete(alice.ID))

		_, err = f.audit.Scan()
		require.NoError(t, err)
		assert.Len(t, f.storedAssignees(t), 1)
	})
}

func TestAuditRepair(t *testing.T) {
	t.Run("filters invalid assignees and keeps the rest", func(t *testing.T) {
		f := newAuditFixture(t)
		alice := f.newContact(t, "Alice", "Archer", "alice@example.com")
		bob := f.newContact(t, "Bob", "Baker", "bob@example.com")
		_, err := f.service.AddAssignees(f.rota.ID, &AddAssigneesRequest{
			OccurrenceID: f.occurrences[0].ID,
			Candidates: []Candidate{
				{ContactID: &alice.ID},
				{ContactID: &bob.ID},
			},
		})
		require.NoError(t, err)
		require.NoError(t, f.contactRepo.Delete(alice.ID))

		report, err := f.audit.Repair()
		require.NoError(t, err)
		assert.Equal(t, 1, report.Repaired)

		stored := f.storedAssignees(t)
		require.Len(t, stored, 1)
		assert.Equal(t, bob.ID, *stored[0].ContactID)
	})

	t.Run("nulls a dangling owner contact", func(t *testing.T) {
		f := newAuditFixture(t)
		missing := uuid.New()
		rota, err := f.rotaRepo.GetByID(f.rota.ID)
		require.NoError(t, err)
		rota.OwnerContactID = &missing
		require.NoError(t, f.rotaRepo.Update(rota))

		report, err := f.audit.Repair()
		require.NoError(t, err)
		assert.Equal(t, 1, report.Repaired)

		repaired, err := f.rotaRepo.GetByID(f.rota.ID)
		require.NoError(t, err)
		assert.Nil(t, repaired.OwnerContactID)
	})

	t.Run("never repairs a mismatched occurrence pin", func(t *testing.T) {
		f := newAuditFixture(t)
		other := &models.Event{Title: "Midweek Group"}
		require.NoError(t, f.eventRepo.Create(other))
		foreign := occurrenceOn(other.ID, date(2026, time.June, 10))
		require.NoError(t, f.occRepo.Create(&foreign))

		pinned := &models.Rota{
			EventID:      f.event.ID,
			OccurrenceID: &foreign.ID,
			Role:         "Crossed",
			Capacity:     2,
			Assignees:    models.AssigneeList{},
			ShareToken:   "token-crossed",
		}
		require.NoError(t, f.rotaRepo.Create(pinned))

		report, err := f.audit.Repair()
		require.NoError(t, err)
		assert.Contains(t, violationKinds(report), ViolationMismatchedOccurrenceID)
		assert.Zero(t, report.Repaired)

		kept, err := f.rotaRepo.GetByID(pinned.ID)
		require.NoError(t, err)
		require.NotNil(t, kept.OccurrenceID)
		assert.Equal(t, foreign.ID, *kept.OccurrenceID)
	})

	t.Run("never repairs a dangling event reference", func(t *testing.T) {
		f := newAuditFixture(t)
		orphan := &models.Rota{
			EventID:    uuid.New(),
			Role:       "Orphan",
			Capacity:   2,
			Assignees:  models.AssigneeList{},
			ShareToken: "token-orphan",
		}
		require.NoError(t, f.rotaRepo.Create(orphan))

		report, err := f.audit.Repair()
		require.NoError(t, err)
		assert.Contains(t, violationKinds(report), ViolationInvalidEventID)
		assert.Zero(t, report.Repaired)
	})
}
