package models

import (
	"time"

	"github.com/google/uuid"
)

// Occurrence is one concrete dated instance of an event, produced by
// recurrence expansion or manual entry. MaxSpaces, when set, overrides the
// attendance capacity for open attendance signup on this date only.
type Occurrence struct {
	BaseModel
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index" validate:"required"`
	StartsAt  time.Time `json:"starts_at" gorm:"not null;index" validate:"required"`
	EndsAt    time.Time `json:"ends_at" gorm:"not null" validate:"required"`
	Location  string    `json:"location" gorm:"size:200" validate:"max=200"`
	MaxSpaces *int      `json:"max_spaces,omitempty" gorm:"default:null"`

	// Relationships
	Event Event `json:"event,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Occurrence
func (Occurrence) TableName() string {
	return "occurrences"
}
