package models

// Event represents a one-off or recurring event that rotas are attached to.
// RecurrenceRule holds an RFC 5545 RRULE string; the occurrence generator
// expands it into concrete Occurrence rows.
type Event struct {
	BaseModel
	Title          string     `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Description    string     `json:"description" gorm:"size:2000" validate:"max=2000"`
	Location       string     `json:"location" gorm:"size:200" validate:"max=200"`
	RecurrenceRule string     `json:"recurrence_rule" gorm:"size:500" validate:"max=500"`
	Visibility     Visibility `json:"visibility" gorm:"type:varchar(20);not null;default:'private'"`

	// Relationships. Rotas are intentionally not modelled as a constrained
	// association: a deleted event or occurrence may leave rotas dangling,
	// which the integrity audit reports rather than the database masking it.
	Occurrences []Occurrence `json:"occurrences,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Event
func (Event) TableName() string {
	return "events"
}
