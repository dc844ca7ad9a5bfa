package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Guest holds the identity of a no-account signup. Guests have no contact
// record; their identity is the case-insensitive email address.
type Guest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Assignee is one slot entry on a rota. Exactly one of ContactID and Guest is
// set. OccurrenceID pins the entry to a single occurrence; when nil the entry
// inherits the owning rota's occurrence.
//
// Three historical wire shapes are readable: a bare contact-id string, an
// object with a contact reference, and an inline guest object. All three
// decode into this one form; marshalling always writes the object forms.
type Assignee struct {
	ContactID    *uuid.UUID
	Guest        *Guest
	OccurrenceID *uuid.UUID
}

// rawAssignee covers every field any historical object shape may carry.
type rawAssignee struct {
	ContactID    json.RawMessage `json:"contactId"`
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	OccurrenceID *uuid.UUID      `json:"occurrenceId"`
}

// UnmarshalJSON decodes any of the historical assignee shapes. An
// unrecognised shape leaves the Assignee zero-valued; callers detect that via
// IsZero and drop the entry rather than failing the whole array.
func (a *Assignee) UnmarshalJSON(data []byte) error {
	// Legacy shape: bare contact-id string.
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		id, err := uuid.Parse(plain)
		if err != nil {
			return nil
		}
		a.ContactID = &id
		return nil
	}

	var raw rawAssignee
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	a.OccurrenceID = raw.OccurrenceID

	// contactId takes precedence; it is either a contact-id string or an
	// inline guest object.
	if len(raw.ContactID) > 0 {
		var idStr string
		if err := json.Unmarshal(raw.ContactID, &idStr); err == nil {
			if id, err := uuid.Parse(idStr); err == nil {
				a.ContactID = &id
				return nil
			}
			return nil
		}
		var g Guest
		if err := json.Unmarshal(raw.ContactID, &g); err == nil && g.Email != "" {
			a.Guest = &g
			return nil
		}
		return nil
	}

	if raw.ID != "" {
		if id, err := uuid.Parse(raw.ID); err == nil {
			a.ContactID = &id
		}
		return nil
	}

	if raw.Email != "" {
		a.Guest = &Guest{Name: raw.Name, Email: raw.Email}
	}
	return nil
}

// MarshalJSON writes the canonical object form for the variant.
func (a Assignee) MarshalJSON() ([]byte, error) {
	if a.ContactID != nil {
		return json.Marshal(struct {
			ContactID    uuid.UUID  `json:"contactId"`
			OccurrenceID *uuid.UUID `json:"occurrenceId,omitempty"`
		}{ContactID: *a.ContactID, OccurrenceID: a.OccurrenceID})
	}
	if a.Guest != nil {
		return json.Marshal(struct {
			Name         string     `json:"name"`
			Email        string     `json:"email"`
			OccurrenceID *uuid.UUID `json:"occurrenceId,omitempty"`
		}{Name: a.Guest.Name, Email: a.Guest.Email, OccurrenceID: a.OccurrenceID})
	}
	return nil, fmt.Errorf("assignee has neither contact nor guest identity")
}

// IsZero reports whether the entry carries no identity, i.e. it decoded from
// an unrecognised shape.
func (a Assignee) IsZero() bool {
	return a.ContactID == nil && a.Guest == nil
}

// Resolve returns the occurrence the entry occupies: its own pin, or the
// owning rota's, or nil for a template entry on a template rota.
func (a Assignee) Resolve(rota *Rota) *uuid.UUID {
	if a.OccurrenceID != nil {
		return a.OccurrenceID
	}
	return rota.OccurrenceID
}

// IdentityKey returns the deduplication key for the entry: the contact id, or
// the lowercased guest email.
func (a Assignee) IdentityKey() string {
	if a.ContactID != nil {
		return a.ContactID.String()
	}
	if a.Guest != nil {
		return strings.ToLower(a.Guest.Email)
	}
	return ""
}

// AssigneeList is the ordered jsonb array persisted on a rota.
type AssigneeList []Assignee

// UnmarshalJSON decodes the array, silently dropping entries with
// unrecognised shapes.
func (l *AssigneeList) UnmarshalJSON(data []byte) error {
	var raw []Assignee
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(AssigneeList, 0, len(raw))
	for _, a := range raw {
		if a.IsZero() {
			continue
		}
		out = append(out, a)
	}
	*l = out
	return nil
}

// Value implements driver.Valuer for the jsonb column.
func (l AssigneeList) Value() (driver.Value, error) {
	if l == nil {
		l = AssigneeList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for the jsonb column.
func (l *AssigneeList) Scan(value interface{}) error {
	if value == nil {
		*l = AssigneeList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported assignee list column type %T", value)
	}
	if len(data) == 0 {
		*l = AssigneeList{}
		return nil
	}
	return l.UnmarshalJSON(data)
}
