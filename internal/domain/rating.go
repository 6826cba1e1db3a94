package domain

import (
	"context"
	"time"
)

// Rating score bounds.
const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// Rating is post-event feedback from an attendee. At most one rating per
// (event, attendee) pair, and only after the attendee has attended.
// swagger:model Rating
type Rating struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	AttendeeID string    `json:"attendee_id"`
	Score      int       `json:"score"`
	Comment    *string   `json:"comment,omitempty"`
	RatedAt    time.Time `json:"rated_at"`
}

// NewRating returns a Rating. ID is set by the repository on create.
func NewRating(eventID, attendeeID string, score int, comment *string, ratedAt time.Time) *Rating {
	return &Rating{
		EventID:    eventID,
		AttendeeID: attendeeID,
		Score:      score,
		Comment:    comment,
		RatedAt:    ratedAt,
	}
}

// RatingRepository defines storage operations for ratings. Create must
// return ErrConflict when the (event, attendee) pair is already rated.
type RatingRepository interface {
	Create(ctx context.Context, rating *Rating) error
	GetByID(ctx context.Context, id string) (*Rating, error)
	GetByEventAndAttendee(ctx context.Context, eventID, attendeeID string) (*Rating, error)
	List(ctx context.Context) ([]*Rating, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Rating, error)
	ListByAttendee(ctx context.Context, attendeeID string) ([]*Rating, error)
	ListByScore(ctx context.Context, score int) ([]*Rating, error)
	ListByMinScore(ctx context.Context, score int) ([]*Rating, error)
	// ListCommentedByEvent returns the event's ratings that carry a comment.
	ListCommentedByEvent(ctx context.Context, eventID string) ([]*Rating, error)
	// AverageByEvent returns the mean score for the event, 0 when the event
	// has no ratings.
	AverageByEvent(ctx context.Context, eventID string) (float64, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
	Update(ctx context.Context, rating *Rating) error
	Delete(ctx context.Context, id string) error
}

// RatingService defines business logic for collecting post-event feedback.
type RatingService interface {
	// Submit records a rating; the attendee must hold an attended
	// registration for the event.
	Submit(ctx context.Context, eventID, attendeeID string, score int, comment *string) (*Rating, error)
	// Update overwrites score and comment. Attendance is not re-checked.
	Update(ctx context.Context, id string, score int, comment *string) (*Rating, error)
	Delete(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string) (*Rating, error)
	GetByEventAndAttendee(ctx context.Context, eventID, attendeeID string) (*Rating, error)
	List(ctx context.Context) ([]*Rating, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Rating, error)
	ListByAttendee(ctx context.Context, attendeeID string) ([]*Rating, error)
	ListByScore(ctx context.Context, score int) ([]*Rating, error)
	ListByMinScore(ctx context.Context, score int) ([]*Rating, error)
	ListCommentedByEvent(ctx context.Context, eventID string) ([]*Rating, error)
	AverageByEvent(ctx context.Context, eventID string) (float64, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
}
