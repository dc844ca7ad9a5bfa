package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// CapacityError is returned when a rota has no free slot for the target
// occurrence
type CapacityError struct {
	Role string
}

func (e *CapacityError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("rota %q is full for this date", e.Role)
	}
	return "rota is full for this date"
}

// Is enables errors.Is() comparison for CapacityError regardless of role
func (e *CapacityError) Is(target error) bool {
	_, ok := target.(*CapacityError)
	return ok
}

// ClashKind distinguishes the two assignment-conflict conditions
type ClashKind string

const (
	ClashDuplicate ClashKind = "duplicate"
	ClashCrossRota ClashKind = "cross_rota"
)

// ClashError is returned when a candidate already occupies a slot: either the
// same rota (duplicate) or another rota of the same event on the same date
// (cross-rota clash)
type ClashError struct {
	Kind ClashKind
}

func (e *ClashError) Error() string {
	if e.Kind == ClashCrossRota {
		return "person already holds another role on this date"
	}
	return "person is already assigned to this rota for this date"
}

// Is enables errors.Is() comparison for ClashError by kind
func (e *ClashError) Is(target error) bool {
	t, ok := target.(*ClashError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// SignupError represents a user-facing signup rejection; Retryable marks
// transient conditions like rate limiting
type SignupError struct {
	Code      string
	Message   string
	Retryable bool
}

func (e *SignupError) Error() string {
	return e.Message
}

// Is enables errors.Is() comparison for SignupError by code
func (e *SignupError) Is(target error) bool {
	t, ok := target.(*SignupError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrEventNotFound       = &NotFoundError{Entity: "event"}
	ErrOccurrenceNotFound  = &NotFoundError{Entity: "occurrence"}
	ErrRotaNotFound        = &NotFoundError{Entity: "rota"}
	ErrContactNotFound     = &NotFoundError{Entity: "contact"}
	ErrAssigneeNotFound    = &NotFoundError{Entity: "assignee"}
	ErrShareTokenNotFound  = &NotFoundError{Entity: "signup page"}
	ErrLeavePeriodNotFound = &NotFoundError{Entity: "leave period"}
)

// Assignment Errors
var (
	ErrCapacityFull   = &CapacityError{}
	ErrDuplicate      = &ClashError{Kind: ClashDuplicate}
	ErrCrossRotaClash = &ClashError{Kind: ClashCrossRota}
)

// Signup Errors
var (
	ErrNoAccount = &SignupError{
		Code:    "NO_ACCOUNT",
		Message: "no account exists for this email address",
	}
	ErrNameMismatch = &SignupError{
		Code:    "NAME_MISMATCH",
		Message: "the name supplied does not match the account for this email address",
	}
	ErrPastOccurrence = &SignupError{
		Code:    "PAST_OCCURRENCE",
		Message: "this date has already passed",
	}
	ErrRateLimited = &SignupError{
		Code:      "RATE_LIMITED",
		Message:   "too many signup attempts, please try again later",
		Retryable: true,
	}
	ErrLeaveOverlap = &SignupError{
		Code:    "LEAVE_OVERLAP",
		Message: "this person is away on the selected date",
	}
)

// Bulk Assignment Errors
var (
	ErrNoMatchingOccurrences = errors.New("no occurrences match the given pattern")
	ErrInvalidFrequency      = &ValidationError{Field: "frequency", Message: "must be at least 1"}
	ErrInvalidPattern        = &ValidationError{Field: "pattern", Message: "unknown pattern type"}
)

// Authentication Errors
var (
	ErrInvalidSessionToken = &AuthenticationError{Message: "invalid session token"}
	ErrInvalidCSRFToken    = &AuthenticationError{Message: "invalid CSRF token"}
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsCapacity checks if an error is a CapacityError
func IsCapacity(err error) bool {
	var capacityErr *CapacityError
	return errors.As(err, &capacityErr)
}

// IsClash checks if an error is a ClashError
func IsClash(err error) bool {
	var clashErr *ClashError
	return errors.As(err, &clashErr)
}

// IsSignup checks if an error is a SignupError
func IsSignup(err error) bool {
	var signupErr *SignupError
	return errors.As(err, &signupErr)
}

// IsRetryable reports whether a signup rejection is transient
func IsRetryable(err error) bool {
	var signupErr *SignupError
	if errors.As(err, &signupErr) {
		return signupErr.Retryable
	}
	return false
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
