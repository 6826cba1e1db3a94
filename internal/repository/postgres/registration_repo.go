package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventdesk/internal/domain"
)

const registrationColumns = `id, event_id, attendee_id, status, amount_paid, attendance_code, registered_at, checked_in_at, cancelled_at`

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (event_id, attendee_id, status, amount_paid, attendance_code, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		reg.EventID, reg.AttendeeID, reg.Status, reg.AmountPaid, reg.AttendanceCode, reg.RegisteredAt).
		Scan(&reg.ID)
	return translateError(err)
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *registrationRepository) GetByCode(ctx context.Context, code string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE attendance_code = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, code))
}

func (r *registrationRepository) List(ctx context.Context) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations ORDER BY registered_at DESC`
	return r.queryMany(ctx, query)
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 ORDER BY registered_at DESC`
	return r.queryMany(ctx, query, eventID)
}

func (r *registrationRepository) ListByAttendee(ctx context.Context, attendeeID string) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE attendee_id = $1 ORDER BY registered_at DESC`
	return r.queryMany(ctx, query, attendeeID)
}

func (r *registrationRepository) ListByStatus(ctx context.Context, status domain.RegistrationStatus) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE status = $1 ORDER BY registered_at DESC`
	return r.queryMany(ctx, query, status)
}

func (r *registrationRepository) ListByEventAndStatus(ctx context.Context, eventID string, status domain.RegistrationStatus) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND status = $2 ORDER BY registered_at DESC`
	return r.queryMany(ctx, query, eventID, status)
}

func (r *registrationRepository) ListByAttendeeAndStatus(ctx context.Context, attendeeID string, status domain.RegistrationStatus) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE attendee_id = $1 AND status = $2 ORDER BY registered_at DESC`
	return r.queryMany(ctx, query, attendeeID, status)
}

func (r *registrationRepository) ListActiveByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1 AND status IN ('confirmed', 'attended')
		ORDER BY registered_at DESC
	`
	return r.queryMany(ctx, query, eventID)
}

func (r *registrationRepository) CountByEventAndStatus(ctx context.Context, eventID string, status domain.RegistrationStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = $2`
	var count int64
	if err := r.DB.QueryRowContext(ctx, query, eventID, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *registrationRepository) CountActiveByEvent(ctx context.Context, eventID string) (int64, error) {
	query := `SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status IN ('confirmed', 'attended')`
	var count int64
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *registrationRepository) HasActiveByEventAndAttendee(ctx context.Context, eventID, attendeeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE event_id = $1 AND attendee_id = $2 AND status IN ('confirmed', 'attended')
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, attendeeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *registrationRepository) HasAttended(ctx context.Context, eventID, attendeeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE event_id = $1 AND attendee_id = $2 AND status = 'attended'
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, attendeeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *registrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	query := `
		UPDATE registrations
		SET status = $1, amount_paid = $2, checked_in_at = $3, cancelled_at = $4
		WHERE id = $5
	`
	result, err := r.DB.ExecContext(ctx, query,
		reg.Status, reg.AmountPaid, reg.CheckedInAt, reg.CancelledAt, reg.ID)
	if err != nil {
		return translateError(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) scanOne(row *sql.Row) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var checkedInAt, cancelledAt sql.NullTime
	err := row.Scan(&reg.ID, &reg.EventID, &reg.AttendeeID, &reg.Status, &reg.AmountPaid,
		&reg.AttendanceCode, &reg.RegisteredAt, &checkedInAt, &cancelledAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if checkedInAt.Valid {
		reg.CheckedInAt = &checkedInAt.Time
	}
	if cancelledAt.Valid {
		reg.CancelledAt = &cancelledAt.Time
	}
	return reg, nil
}

func (r *registrationRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.Registration, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		var checkedInAt, cancelledAt sql.NullTime
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.AttendeeID, &reg.Status, &reg.AmountPaid,
			&reg.AttendanceCode, &reg.RegisteredAt, &checkedInAt, &cancelledAt); err != nil {
			return nil, err
		}
		if checkedInAt.Valid {
			reg.CheckedInAt = &checkedInAt.Time
		}
		if cancelledAt.Valid {
			reg.CancelledAt = &cancelledAt.Time
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}
