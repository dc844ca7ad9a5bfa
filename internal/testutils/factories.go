package testutils

import (
	"fmt"
	"time"

	"volunteer-rota-backend/internal/database/models"

	"github.com/google/uuid"
)

// ContactFactory provides methods to create test Contact data
type ContactFactory struct{}

// NewContactFactory creates a new ContactFactory
func NewContactFactory() *ContactFactory {
	return &ContactFactory{}
}

// Create creates a test Contact with default values
func (f *ContactFactory) Create() *models.Contact {
	id := uuid.New()
	return &models.Contact{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		FirstName:   "Test",
		LastName:    "Contact",
		Email:       fmt.Sprintf("contact-%s@example.org", id.String()[:8]),
		PhoneNumber: "+44 7700 900000",
		IsActive:    true,
	}
}

// CreateNamed creates a test Contact with the given name and email
func (f *ContactFactory) CreateNamed(firstName, lastName, email string) *models.Contact {
	c := f.Create()
	c.FirstName = firstName
	c.LastName = lastName
	c.Email = email
	return c
}

// CreateCouple creates two contacts linked as spouses
func (f *ContactFactory) CreateCouple() (*models.Contact, *models.Contact) {
	a := f.CreateNamed("Alex", "Rivera", fmt.Sprintf("alex-%s@example.org", uuid.New().String()[:8]))
	b := f.CreateNamed("Sam", "Rivera", fmt.Sprintf("sam-%s@example.org", uuid.New().String()[:8]))
	a.SpouseID = &b.ID
	b.SpouseID = &a.ID
	return a, b
}

// EventFactory provides methods to create test Event data
type EventFactory struct{}

// NewEventFactory creates a new EventFactory
func NewEventFactory() *EventFactory {
	return &EventFactory{}
}

// Create creates a test Event with default values
func (f *EventFactory) Create() *models.Event {
	return &models.Event{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Title:       "Sunday Service",
		Description: "Weekly gathering",
		Location:    "Main Hall",
		Visibility:  models.VisibilityPublic,
	}
}

// CreateRecurring creates a test Event with a weekly recurrence rule
func (f *EventFactory) CreateRecurring(rrule string) *models.Event {
	e := f.Create()
	e.RecurrenceRule = rrule
	return e
}

// OccurrenceFactory provides methods to create test Occurrence data
type OccurrenceFactory struct{}

// NewOccurrenceFactory creates a new OccurrenceFactory
func NewOccurrenceFactory() *OccurrenceFactory {
	return &OccurrenceFactory{}
}

// Create creates a test Occurrence for the given event starting at the given time
func (f *OccurrenceFactory) Create(eventID uuid.UUID, startsAt time.Time) *models.Occurrence {
	return &models.Occurrence{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		EventID:  eventID,
		StartsAt: startsAt,
		EndsAt:   startsAt.Add(time.Hour),
	}
}

// CreateWeekly creates count weekly occurrences starting at the given time
func (f *OccurrenceFactory) CreateWeekly(eventID uuid.UUID, first time.Time, count int) []*models.Occurrence {
	out := make([]*models.Occurrence, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, f.Create(eventID, first.AddDate(0, 0, 7*i)))
	}
	return out
}

// RotaFactory provides methods to create test Rota data
type RotaFactory struct{}

// NewRotaFactory creates a new RotaFactory
func NewRotaFactory() *RotaFactory {
	return &RotaFactory{}
}

// Create creates a template test Rota on the given event
func (f *RotaFactory) Create(eventID uuid.UUID) *models.Rota {
	id := uuid.New()
	return &models.Rota{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		EventID:    eventID,
		Role:       "Welcome Team",
		Capacity:   3,
		Assignees:  models.AssigneeList{},
		Visibility: models.VisibilityPrivate,
		ShareToken: fmt.Sprintf("token-%s", id.String()[:13]),
	}
}

// CreatePinned creates a test Rota pinned to a single occurrence
func (f *RotaFactory) CreatePinned(eventID, occurrenceID uuid.UUID) *models.Rota {
	r := f.Create(eventID)
	r.OccurrenceID = &occurrenceID
	return r
}

// LeavePeriodFactory provides methods to create test LeavePeriod data
type LeavePeriodFactory struct{}

// NewLeavePeriodFactory creates a new LeavePeriodFactory
func NewLeavePeriodFactory() *LeavePeriodFactory {
	return &LeavePeriodFactory{}
}

// Create creates a test LeavePeriod covering the given inclusive date range
func (f *LeavePeriodFactory) Create(contactID uuid.UUID, start, end time.Time) *models.LeavePeriod {
	return &models.LeavePeriod{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		ContactID: contactID,
		StartDate: start,
		EndDate:   end,
		Reason:    "Away",
	}
}
