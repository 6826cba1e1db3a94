package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventdesk/internal/domain"
)

const ratingColumns = `id, event_id, attendee_id, score, comment, rated_at`

type ratingRepository struct {
	DB *sql.DB
}

func NewRatingRepository(db *sql.DB) domain.RatingRepository {
	return &ratingRepository{
		DB: db,
	}
}

func (r *ratingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO ratings (event_id, attendee_id, score, comment, rated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		rating.EventID, rating.AttendeeID, rating.Score, rating.Comment, rating.RatedAt).
		Scan(&rating.ID)
	return translateError(err)
}

func (r *ratingRepository) GetByID(ctx context.Context, id string) (*domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *ratingRepository) GetByEventAndAttendee(ctx context.Context, eventID, attendeeID string) (*domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE event_id = $1 AND attendee_id = $2`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, eventID, attendeeID))
}

func (r *ratingRepository) List(ctx context.Context) ([]*domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings ORDER BY rated_at DESC`
	return r.queryMany(ctx, query)
}

func (r *ratingRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE event_id = $1 ORDER BY rated_at DESC`
	return r.queryMany(ctx, query, eventID)
}

func (r *ratingRepository) ListByAttendee(ctx context.Context, attendeeID string) ([]*domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE attendee_id = $1 ORDER BY rated_at DESC`
	return r.queryMany(ctx, query, attendeeID)
}

func (r *ratingRepository) ListByScore(ctx context.Context, score int) ([]*domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE score = $1 ORDER BY rated_at DESC`
	return r.queryMany(ctx, query, score)
}

func (r *ratingRepository) ListByMinScore(ctx context.Context, score int) ([]*domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE score >= $1 ORDER BY score DESC, rated_at DESC`
	return r.queryMany(ctx, query, score)
}

func (r *ratingRepository) ListCommentedByEvent(ctx context.Context, eventID string) ([]*domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE event_id = $1 AND comment IS NOT NULL ORDER BY rated_at DESC`
	return r.queryMany(ctx, query, eventID)
}

func (r *ratingRepository) AverageByEvent(ctx context.Context, eventID string) (float64, error) {
	query := `SELECT COALESCE(AVG(score), 0) FROM ratings WHERE event_id = $1`
	var avg float64
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&avg); err != nil {
		return 0, err
	}
	return avg, nil
}

func (r *ratingRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	query := `SELECT COUNT(*) FROM ratings WHERE event_id = $1`
	var count int64
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ratingRepository) Update(ctx context.Context, rating *domain.Rating) error {
	query := `UPDATE ratings SET score = $1, comment = $2 WHERE id = $3`
	result, err := r.DB.ExecContext(ctx, query, rating.Score, rating.Comment, rating.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ratingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ratingRepository) scanOne(row *sql.Row) (*domain.Rating, error) {
	rating := &domain.Rating{}
	var comment sql.NullString
	err := row.Scan(&rating.ID, &rating.EventID, &rating.AttendeeID, &rating.Score, &comment, &rating.RatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if comment.Valid {
		rating.Comment = &comment.String
	}
	return rating, nil
}

func (r *ratingRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.Rating, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]*domain.Rating, 0)
	for rows.Next() {
		rating := &domain.Rating{}
		var comment sql.NullString
		if err := rows.Scan(&rating.ID, &rating.EventID, &rating.AttendeeID, &rating.Score, &comment, &rating.RatedAt); err != nil {
			return nil, err
		}
		if comment.Valid {
			rating.Comment = &comment.String
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}
