package models

import (
	"github.com/google/uuid"
)

// Contact represents a person who may be assigned to a rota. SpouseID links
// two contacts of the same household for co-signup.
type Contact struct {
	BaseModel
	FirstName   string     `json:"first_name" gorm:"not null;size:100" validate:"required,max=100"`
	LastName    string     `json:"last_name" gorm:"not null;size:100" validate:"required,max=100"`
	Email       string     `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email,max=255"`
	PhoneNumber string     `json:"phone_number" gorm:"size:20"`
	SpouseID    *uuid.UUID `json:"spouse_id,omitempty" gorm:"type:uuid;index"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`

	// Relationships
	Spouse       *Contact      `json:"spouse,omitempty" gorm:"foreignKey:SpouseID;constraint:OnDelete:SET NULL"`
	LeavePeriods []LeavePeriod `json:"leave_periods,omitempty" gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE"`
}

// FullName returns the contact's display name
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// TableName returns the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}
