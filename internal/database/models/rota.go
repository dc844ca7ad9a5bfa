package models

import (
	"github.com/google/uuid"
)

// Rota is a named, capacity-limited role on an event. A nil OccurrenceID
// marks a template rota that applies to every occurrence of the event; a set
// OccurrenceID pins the rota to a single date. ShareToken is the opaque key
// used by public signup pages so the real entity ids never leave the server.
type Rota struct {
	BaseModel
	EventID        uuid.UUID    `json:"event_id" gorm:"type:uuid;not null;index" validate:"required"`
	OccurrenceID   *uuid.UUID   `json:"occurrence_id,omitempty" gorm:"type:uuid;index"`
	Role           string       `json:"role" gorm:"not null;size:100" validate:"required,max=100"`
	Capacity       int          `json:"capacity" gorm:"not null;default:1" validate:"required,min=1"`
	Assignees      AssigneeList `json:"assignees" gorm:"type:jsonb"`
	Visibility     Visibility   `json:"visibility" gorm:"type:varchar(20);not null;default:'private'"`
	ShareToken     string       `json:"-" gorm:"uniqueIndex;size:64"`
	OwnerContactID *uuid.UUID   `json:"owner_contact_id,omitempty" gorm:"type:uuid"`
}

// AssigneesAt returns the entries whose resolved occurrence matches the given
// occurrence id, in stored order.
func (r *Rota) AssigneesAt(occurrenceID uuid.UUID) []Assignee {
	var out []Assignee
	for _, a := range r.Assignees {
		resolved := a.Resolve(r)
		if resolved != nil && *resolved == occurrenceID {
			out = append(out, a)
		}
	}
	return out
}

// TableName returns the table name for Rota
func (Rota) TableName() string {
	return "rotas"
}
