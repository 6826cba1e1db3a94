package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle status of an event.
type EventStatus string

const (
	EventActive    EventStatus = "active"
	EventCancelled EventStatus = "cancelled"
	EventFinished  EventStatus = "finished"
)

// ParseEventStatus validates and normalizes an event status string.
func ParseEventStatus(s string) (EventStatus, bool) {
	switch EventStatus(s) {
	case EventActive, EventCancelled, EventFinished:
		return EventStatus(s), true
	}
	return "", false
}

// Event is a schedulable event with a registration capacity.
// swagger:model Event
type Event struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Description     *string     `json:"description,omitempty"`
	StartsAt        time.Time   `json:"starts_at"`
	DurationMinutes *int        `json:"duration_minutes,omitempty"`
	Capacity        int         `json:"capacity"`
	Price           float64     `json:"price"`
	Status          EventStatus `json:"status"`
	OrganizerID     string      `json:"organizer_id"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// NewEvent returns a new active Event. ID is set by the repository on create.
func NewEvent(name string, startsAt time.Time, capacity int, price float64, organizerID string, createdAt time.Time) *Event {
	return &Event{
		Name:        name,
		StartsAt:    startsAt,
		Capacity:    capacity,
		Price:       price,
		Status:      EventActive,
		OrganizerID: organizerID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// EventRepository defines storage operations for events.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*Event, error)
	ListByStatus(ctx context.Context, status EventStatus) ([]*Event, error)
	ListUpcoming(ctx context.Context, after time.Time) ([]*Event, error)
	UpdateStatus(ctx context.Context, id string, status EventStatus) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventAvailability reports remaining seats for an event.
type EventAvailability struct {
	EventID    string `json:"event_id"`
	Capacity   int    `json:"capacity"`
	Registered int64  `json:"registered"`
	Available  int64  `json:"available"`
}

// EventService defines business logic for event lifecycle and reporting.
type EventService interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	ListByStatus(ctx context.Context, status EventStatus) ([]*Event, error)
	ListUpcoming(ctx context.Context) ([]*Event, error)
	ChangeStatus(ctx context.Context, id string, status EventStatus) (*Event, error)
	Availability(ctx context.Context, id string) (*EventAvailability, error)
	Delete(ctx context.Context, id string) error
}
