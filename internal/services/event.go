package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventdesk/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	regRepo        domain.RegistrationRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(
	eventRepo domain.EventRepository,
	regRepo domain.RegistrationRepository,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		regRepo:        regRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.OrganizerID == "" {
		return fmt.Errorf("%w: organizer is required", domain.ErrInvalidInput)
	}
	if event.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	if event.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Status == "" {
		event.Status = domain.EventActive
	}
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) List(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.List(ctx)
}

func (s *eventService) ListByStatus(ctx context.Context, status domain.EventStatus) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.ListByStatus(ctx, status)
}

func (s *eventService) ListUpcoming(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.ListUpcoming(ctx, time.Now())
}

func (s *eventService) ChangeStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("update event status: %w", err)
	}
	return event, nil
}

// Availability reports capacity minus active (confirmed or attended)
// registrations.
func (s *eventService) Availability(ctx context.Context, id string) (*domain.EventAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	registered, err := s.regRepo.CountActiveByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}

	available := int64(event.Capacity) - registered
	if available < 0 {
		available = 0
	}
	return &domain.EventAvailability{
		EventID:    event.ID,
		Capacity:   event.Capacity,
		Registered: registered,
		Available:  available,
	}, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: event %s", domain.ErrNotFound, id)
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
