package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventdesk/internal/domain"
)

const paymentColumns = `id, registration_id, amount, method, status, transaction_ref, receipt_url, paid_at`

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) domain.PaymentRepository {
	return &paymentRepository{
		DB: db,
	}
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (registration_id, amount, method, status, transaction_ref, receipt_url, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		p.RegistrationID, p.Amount, p.Method, p.Status, p.TransactionRef, p.ReceiptURL, p.PaidAt).
		Scan(&p.ID)
	return translateError(err)
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *paymentRepository) GetByRegistration(ctx context.Context, registrationID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE registration_id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, registrationID))
}

func (r *paymentRepository) GetByTransactionRef(ctx context.Context, ref string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_ref = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, ref))
}

func (r *paymentRepository) List(ctx context.Context) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY paid_at DESC`
	return r.queryMany(ctx, query)
}

func (r *paymentRepository) ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE status = $1 ORDER BY paid_at DESC`
	return r.queryMany(ctx, query, status)
}

func (r *paymentRepository) ListByMethod(ctx context.Context, method domain.PaymentMethod) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE method = $1 ORDER BY paid_at DESC`
	return r.queryMany(ctx, query, method)
}

func (r *paymentRepository) ListByStatusAndMethod(ctx context.Context, status domain.PaymentStatus, method domain.PaymentMethod) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE status = $1 AND method = $2 ORDER BY paid_at DESC`
	return r.queryMany(ctx, query, status, method)
}

func (r *paymentRepository) ListByPaidBetween(ctx context.Context, from, to time.Time) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE paid_at BETWEEN $1 AND $2 ORDER BY paid_at DESC`
	return r.queryMany(ctx, query, from, to)
}

func (r *paymentRepository) ListByAmountGreaterThan(ctx context.Context, amount float64) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE amount > $1 ORDER BY amount DESC`
	return r.queryMany(ctx, query, amount)
}

func (r *paymentRepository) SumCompleted(ctx context.Context) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'completed'`
	var total float64
	if err := r.DB.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *paymentRepository) CountByStatus(ctx context.Context, status domain.PaymentStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM payments WHERE status = $1`
	var count int64
	if err := r.DB.QueryRowContext(ctx, query, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	query := `
		UPDATE payments
		SET amount = $1, method = $2, status = $3, receipt_url = $4
		WHERE id = $5
	`
	result, err := r.DB.ExecContext(ctx, query, p.Amount, p.Method, p.Status, p.ReceiptURL, p.ID)
	if err != nil {
		return translateError(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) scanOne(row *sql.Row) (*domain.Payment, error) {
	p := &domain.Payment{}
	var receiptURL sql.NullString
	err := row.Scan(&p.ID, &p.RegistrationID, &p.Amount, &p.Method, &p.Status,
		&p.TransactionRef, &receiptURL, &p.PaidAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if receiptURL.Valid {
		p.ReceiptURL = &receiptURL.String
	}
	return p, nil
}

func (r *paymentRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.Payment, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		p := &domain.Payment{}
		var receiptURL sql.NullString
		if err := rows.Scan(&p.ID, &p.RegistrationID, &p.Amount, &p.Method, &p.Status,
			&p.TransactionRef, &receiptURL, &p.PaidAt); err != nil {
			return nil, err
		}
		if receiptURL.Valid {
			p.ReceiptURL = &receiptURL.String
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
