package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventdesk/internal/domain"
)

type attendeeService struct {
	attendeeRepo   domain.AttendeeRepository
	contextTimeout time.Duration
}

// NewAttendeeService creates an AttendeeService with the given repository.
func NewAttendeeService(attendeeRepo domain.AttendeeRepository, timeout time.Duration) domain.AttendeeService {
	return &attendeeService{
		attendeeRepo:   attendeeRepo,
		contextTimeout: timeout,
	}
}

func (s *attendeeService) Create(ctx context.Context, attendee *domain.Attendee) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	attendee.Email = strings.ToLower(strings.TrimSpace(attendee.Email))
	if attendee.FirstName == "" || attendee.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", domain.ErrInvalidInput)
	}
	if attendee.Email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if attendee.IdentityDocument == "" {
		return fmt.Errorf("%w: identity document is required", domain.ErrInvalidInput)
	}

	attendee.Active = true
	attendee.CreatedAt = time.Now()
	if err := s.attendeeRepo.Create(ctx, attendee); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("%w: email or identity document already registered", domain.ErrConflict)
		}
		return fmt.Errorf("create attendee: %w", err)
	}
	return nil
}

func (s *attendeeService) GetByID(ctx context.Context, id string) (*domain.Attendee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.attendeeRepo.GetByID(ctx, id)
}

func (s *attendeeService) GetByEmail(ctx context.Context, email string) (*domain.Attendee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.attendeeRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *attendeeService) List(ctx context.Context) ([]*domain.Attendee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.attendeeRepo.List(ctx)
}

func (s *attendeeService) ListActive(ctx context.Context) ([]*domain.Attendee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.attendeeRepo.ListActive(ctx)
}

func (s *attendeeService) Deactivate(ctx context.Context, id string) (*domain.Attendee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	attendee, err := s.attendeeRepo.SetActive(ctx, id, false)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: attendee %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("deactivate attendee: %w", err)
	}
	return attendee, nil
}

func (s *attendeeService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.attendeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: attendee %s", domain.ErrNotFound, id)
		}
		return fmt.Errorf("delete attendee: %w", err)
	}
	return nil
}
