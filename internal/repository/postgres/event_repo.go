package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventdesk/internal/domain"
)

const eventColumns = `id, name, description, starts_at, duration_minutes, capacity, price, status, organizer_id, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, starts_at, duration_minutes, capacity, price, status, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description, e.StartsAt, e.DurationMinutes, e.Capacity, e.Price,
		e.Status, e.OrganizerID, e.CreatedAt, e.UpdatedAt).
		Scan(&e.ID)
	return translateError(err)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY starts_at`
	return r.queryMany(ctx, query)
}

func (r *eventRepository) ListByStatus(ctx context.Context, status domain.EventStatus) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = $1 ORDER BY starts_at`
	return r.queryMany(ctx, query, status)
}

func (r *eventRepository) ListUpcoming(ctx context.Context, after time.Time) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = 'active' AND starts_at > $1 ORDER BY starts_at`
	return r.queryMany(ctx, query, after)
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	query := `
		UPDATE events SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + eventColumns
	return r.scanOne(r.DB.QueryRowContext(ctx, query, status, id))
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) scanOne(row *sql.Row) (*domain.Event, error) {
	e := &domain.Event{}
	var description sql.NullString
	var duration sql.NullInt64
	err := row.Scan(&e.ID, &e.Name, &description, &e.StartsAt, &duration, &e.Capacity,
		&e.Price, &e.Status, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if description.Valid {
		e.Description = &description.String
	}
	if duration.Valid {
		d := int(duration.Int64)
		e.DurationMinutes = &d
	}
	return e, nil
}

func (r *eventRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		var description sql.NullString
		var duration sql.NullInt64
		if err := rows.Scan(&e.ID, &e.Name, &description, &e.StartsAt, &duration, &e.Capacity,
			&e.Price, &e.Status, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		if description.Valid {
			e.Description = &description.String
		}
		if duration.Valid {
			d := int(duration.Int64)
			e.DurationMinutes = &d
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
