package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventdesk/internal/domain"
)

const attendeeColumns = `id, first_name, last_name, email, identity_document, phone, active, created_at`

type attendeeRepository struct {
	DB *sql.DB
}

func NewAttendeeRepository(db *sql.DB) domain.AttendeeRepository {
	return &attendeeRepository{
		DB: db,
	}
}

func (r *attendeeRepository) Create(ctx context.Context, a *domain.Attendee) error {
	query := `
		INSERT INTO attendees (first_name, last_name, email, identity_document, phone, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.FirstName, a.LastName, a.Email, a.IdentityDocument, a.Phone, a.Active, a.CreatedAt).
		Scan(&a.ID)
	return translateError(err)
}

func (r *attendeeRepository) GetByID(ctx context.Context, id string) (*domain.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *attendeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE email = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *attendeeRepository) List(ctx context.Context) ([]*domain.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees ORDER BY created_at DESC`
	return r.queryMany(ctx, query)
}

func (r *attendeeRepository) ListActive(ctx context.Context) ([]*domain.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE active ORDER BY created_at DESC`
	return r.queryMany(ctx, query)
}

func (r *attendeeRepository) SetActive(ctx context.Context, id string, active bool) (*domain.Attendee, error) {
	query := `UPDATE attendees SET active = $1 WHERE id = $2 RETURNING ` + attendeeColumns
	return r.scanOne(r.DB.QueryRowContext(ctx, query, active, id))
}

func (r *attendeeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM attendees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *attendeeRepository) scanOne(row *sql.Row) (*domain.Attendee, error) {
	a := &domain.Attendee{}
	var phone sql.NullString
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.IdentityDocument,
		&phone, &a.Active, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if phone.Valid {
		a.Phone = &phone.String
	}
	return a, nil
}

func (r *attendeeRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.Attendee, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendees := make([]*domain.Attendee, 0)
	for rows.Next() {
		a := &domain.Attendee{}
		var phone sql.NullString
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.IdentityDocument,
			&phone, &a.Active, &a.CreatedAt); err != nil {
			return nil, err
		}
		if phone.Valid {
			a.Phone = &phone.String
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}
