package domain

import (
	"context"
	"time"
)

// Attendee is a person who can register for events. Email and identity
// document are globally unique.
// swagger:model Attendee
type Attendee struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	IdentityDocument string    `json:"identity_document"`
	Phone            *string   `json:"phone,omitempty"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewAttendee returns a new active Attendee. ID is set by the repository on create.
func NewAttendee(firstName, lastName, email, identityDocument string, createdAt time.Time) *Attendee {
	return &Attendee{
		FirstName:        firstName,
		LastName:         lastName,
		Email:            email,
		IdentityDocument: identityDocument,
		Active:           true,
		CreatedAt:        createdAt,
	}
}

// FullName returns the attendee's display name.
func (a *Attendee) FullName() string {
	return a.FirstName + " " + a.LastName
}

// AttendeeRepository defines storage operations for attendees.
type AttendeeRepository interface {
	Create(ctx context.Context, attendee *Attendee) error
	GetByID(ctx context.Context, id string) (*Attendee, error)
	GetByEmail(ctx context.Context, email string) (*Attendee, error)
	List(ctx context.Context) ([]*Attendee, error)
	ListActive(ctx context.Context) ([]*Attendee, error)
	SetActive(ctx context.Context, id string, active bool) (*Attendee, error)
	Delete(ctx context.Context, id string) error
}

// AttendeeService defines business logic for attendee identity records.
type AttendeeService interface {
	Create(ctx context.Context, attendee *Attendee) error
	GetByID(ctx context.Context, id string) (*Attendee, error)
	GetByEmail(ctx context.Context, email string) (*Attendee, error)
	List(ctx context.Context) ([]*Attendee, error)
	ListActive(ctx context.Context) ([]*Attendee, error)
	Deactivate(ctx context.Context, id string) (*Attendee, error)
	Delete(ctx context.Context, id string) error
}
