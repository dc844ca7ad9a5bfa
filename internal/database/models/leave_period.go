package models

import (
	"time"

	"github.com/google/uuid"
)

// LeavePeriod records a date range during which a contact is away and must
// not be signed up for any rota. Dates are inclusive and date-only.
type LeavePeriod struct {
	BaseModel
	ContactID uuid.UUID `json:"contact_id" gorm:"type:uuid;not null;index" validate:"required"`
	StartDate time.Time `json:"start_date" gorm:"type:date;not null" validate:"required"`
	EndDate   time.Time `json:"end_date" gorm:"type:date;not null" validate:"required"`
	Reason    string    `json:"reason" gorm:"size:200" validate:"max=200"`

	// Relationships
	Contact Contact `json:"contact,omitempty" gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE"`
}

// Covers reports whether the given date falls inside the leave period,
// comparing date parts only.
func (l *LeavePeriod) Covers(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(l.StartDate.Year(), l.StartDate.Month(), l.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(l.EndDate.Year(), l.EndDate.Month(), l.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}

// TableName returns the table name for LeavePeriod
func (LeavePeriod) TableName() string {
	return "leave_periods"
}
