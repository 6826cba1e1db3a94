package domain

import (
	"context"
	"time"
)

// RegistrationStatus is the state of an attendee's registration for an event.
//
// confirmed is the initial state. checked-in registrations become attended;
// confirmed registrations may be cancelled or marked no_show. attended and
// no_show are terminal; cancelled registrations stay cancelled but the
// attendee may register again.
type RegistrationStatus string

const (
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
	RegistrationAttended  RegistrationStatus = "attended"
	RegistrationNoShow    RegistrationStatus = "no_show"
)

// ParseRegistrationStatus validates a registration status string.
func ParseRegistrationStatus(s string) (RegistrationStatus, bool) {
	switch RegistrationStatus(s) {
	case RegistrationConfirmed, RegistrationCancelled, RegistrationAttended, RegistrationNoShow:
		return RegistrationStatus(s), true
	}
	return "", false
}

// Registration links one attendee to one event. At most one registration in
// an active state (confirmed or attended) may exist per (event, attendee)
// pair. The attendance code is a short unique string usable for check-in
// without knowing the registration ID.
// swagger:model Registration
type Registration struct {
	ID             string             `json:"id"`
	EventID        string             `json:"event_id"`
	AttendeeID     string             `json:"attendee_id"`
	Status         RegistrationStatus `json:"status"`
	AmountPaid     float64            `json:"amount_paid"`
	AttendanceCode string             `json:"attendance_code"`
	RegisteredAt   time.Time          `json:"registered_at"`
	CheckedInAt    *time.Time         `json:"checked_in_at,omitempty"`
	CancelledAt    *time.Time         `json:"cancelled_at,omitempty"`
}

// NewRegistration returns a confirmed Registration. ID is set by the
// repository on create.
func NewRegistration(eventID, attendeeID string, amountPaid float64, attendanceCode string, registeredAt time.Time) *Registration {
	return &Registration{
		EventID:        eventID,
		AttendeeID:     attendeeID,
		Status:         RegistrationConfirmed,
		AmountPaid:     amountPaid,
		AttendanceCode: attendanceCode,
		RegisteredAt:   registeredAt,
	}
}

// RegistrationRepository defines storage operations for registrations.
// Create must return ErrConflict when the active (event, attendee) pair or
// the attendance code is already taken, so uniqueness holds without relying
// on the caller's pre-checks.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByCode(ctx context.Context, code string) (*Registration, error)
	List(ctx context.Context) ([]*Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Registration, error)
	ListByAttendee(ctx context.Context, attendeeID string) ([]*Registration, error)
	ListByStatus(ctx context.Context, status RegistrationStatus) ([]*Registration, error)
	ListByEventAndStatus(ctx context.Context, eventID string, status RegistrationStatus) ([]*Registration, error)
	ListByAttendeeAndStatus(ctx context.Context, attendeeID string, status RegistrationStatus) ([]*Registration, error)
	// ListActiveByEvent returns confirmed and attended registrations.
	ListActiveByEvent(ctx context.Context, eventID string) ([]*Registration, error)
	CountByEventAndStatus(ctx context.Context, eventID string, status RegistrationStatus) (int64, error)
	// CountActiveByEvent counts confirmed plus attended registrations; the
	// capacity gate compares this against the event capacity.
	CountActiveByEvent(ctx context.Context, eventID string) (int64, error)
	// HasActiveByEventAndAttendee reports whether the pair holds a confirmed
	// or attended registration.
	HasActiveByEventAndAttendee(ctx context.Context, eventID, attendeeID string) (bool, error)
	// HasAttended reports whether the pair holds an attended registration.
	HasAttended(ctx context.Context, eventID, attendeeID string) (bool, error)
	Update(ctx context.Context, reg *Registration) error
	Delete(ctx context.Context, id string) error
}

// RegistrationService defines the registration state machine and queries.
type RegistrationService interface {
	// Register creates a confirmed registration for the attendee on the
	// event. amountPaid defaults to the event price when nil.
	Register(ctx context.Context, eventID, attendeeID string, amountPaid *float64) (*Registration, error)
	CheckIn(ctx context.Context, id string) (*Registration, error)
	CheckInByCode(ctx context.Context, code string) (*Registration, error)
	Cancel(ctx context.Context, id string) (*Registration, error)
	MarkNoShow(ctx context.Context, id string) (*Registration, error)
	Delete(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByCode(ctx context.Context, code string) (*Registration, error)
	List(ctx context.Context) ([]*Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Registration, error)
	ListByAttendee(ctx context.Context, attendeeID string) ([]*Registration, error)
	ListByStatus(ctx context.Context, status RegistrationStatus) ([]*Registration, error)
	ListByEventAndStatus(ctx context.Context, eventID string, status RegistrationStatus) ([]*Registration, error)
	ListByAttendeeAndStatus(ctx context.Context, attendeeID string, status RegistrationStatus) ([]*Registration, error)
	ListActiveByEvent(ctx context.Context, eventID string) ([]*Registration, error)
	CountConfirmedByEvent(ctx context.Context, eventID string) (int64, error)
}
