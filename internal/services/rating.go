package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventdesk/internal/domain"
)

type ratingService struct {
	ratingRepo     domain.RatingRepository
	eventRepo      domain.EventRepository
	attendeeRepo   domain.AttendeeRepository
	regRepo        domain.RegistrationRepository
	contextTimeout time.Duration
}

// NewRatingService creates a RatingService with the given repositories.
func NewRatingService(
	ratingRepo domain.RatingRepository,
	eventRepo domain.EventRepository,
	attendeeRepo domain.AttendeeRepository,
	regRepo domain.RegistrationRepository,
	timeout time.Duration,
) domain.RatingService {
	return &ratingService{
		ratingRepo:     ratingRepo,
		eventRepo:      eventRepo,
		attendeeRepo:   attendeeRepo,
		regRepo:        regRepo,
		contextTimeout: timeout,
	}
}

func (s *ratingService) Submit(ctx context.Context, eventID, attendeeID string, score int, comment *string) (*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if score < domain.MinRatingScore || score > domain.MaxRatingScore {
		return nil, fmt.Errorf("%w: score must be between %d and %d", domain.ErrInvalidInput, domain.MinRatingScore, domain.MaxRatingScore)
	}

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, eventID)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if _, err := s.attendeeRepo.GetByID(ctx, attendeeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: attendee %s", domain.ErrNotFound, attendeeID)
		}
		return nil, fmt.Errorf("get attendee: %w", err)
	}

	attended, err := s.regRepo.HasAttended(ctx, eventID, attendeeID)
	if err != nil {
		return nil, fmt.Errorf("check attendance: %w", err)
	}
	if !attended {
		return nil, fmt.Errorf("%w: attendee must have attended the event to rate it", domain.ErrInvalidState)
	}

	// Friendly pre-check; the unique (event, attendee) constraint backs it.
	if _, err := s.ratingRepo.GetByEventAndAttendee(ctx, eventID, attendeeID); err == nil {
		return nil, fmt.Errorf("%w: attendee has already rated this event", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get rating by pair: %w", err)
	}

	rating := domain.NewRating(eventID, attendeeID, score, comment, time.Now())
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: attendee has already rated this event", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create rating: %w", err)
	}
	return rating, nil
}

// Update overwrites score and comment. Attendance is deliberately not
// re-checked; only Submit guards the precondition.
func (s *ratingService) Update(ctx context.Context, id string, score int, comment *string) (*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if score < domain.MinRatingScore || score > domain.MaxRatingScore {
		return nil, fmt.Errorf("%w: score must be between %d and %d", domain.ErrInvalidInput, domain.MinRatingScore, domain.MaxRatingScore)
	}

	rating, err := s.ratingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: rating %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}

	rating.Score = score
	rating.Comment = comment
	if err := s.ratingRepo.Update(ctx, rating); err != nil {
		return nil, fmt.Errorf("update rating: %w", err)
	}
	return rating, nil
}

func (s *ratingService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.ratingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: rating %s", domain.ErrNotFound, id)
		}
		return fmt.Errorf("delete rating: %w", err)
	}
	return nil
}

func (s *ratingService) GetByID(ctx context.Context, id string) (*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.ratingRepo.GetByID(ctx, id)
}

func (s *ratingService) GetByEventAndAttendee(ctx context.Context, eventID, attendeeID string) (*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.ratingRepo.GetByEventAndAttendee(ctx, eventID, attendeeID)
}

func (s *ratingService) List(ctx context.Context) ([]*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.ratingRepo.List(ctx)
}

func (s *ratingService) ListByEvent(ctx context.Context, eventID string) ([]*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.ratingRepo.ListByEvent(ctx, eventID)
}

func (s *ratingService) ListByAttendee(ctx context.Context, attendeeID string) ([]*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.ratingRepo.ListByAttendee(ctx, attendeeID)
}

func (s *ratingService) ListByScore(ctx context.Context, score int) ([]*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.ratingRepo.ListByScore(ctx, score)
}

func (s *ratingService) ListByMinScore(ctx context.Context, score int) ([]*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.ratingRepo.ListByMinScore(ctx, score)
}

func (s *ratingService) ListCommentedByEvent(ctx context.Context, eventID string) ([]*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.ratingRepo.ListCommentedByEvent(ctx, eventID)
}

// AverageByEvent returns the mean score for the event, 0.0 when the event
// has no ratings yet.
func (s *ratingService) AverageByEvent(ctx context.Context, eventID string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	exists, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: event %s", domain.ErrNotFound, eventID)
	}
	return s.ratingRepo.AverageByEvent(ctx, eventID)
}

func (s *ratingService) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	exists, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: event %s", domain.ErrNotFound, eventID)
	}
	return s.ratingRepo.CountByEvent(ctx, eventID)
}
