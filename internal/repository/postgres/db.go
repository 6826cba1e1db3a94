package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"eventdesk/internal/domain"
)

// Open connects to Postgres with the lib/pq driver and verifies the
// connection.
func Open(dbURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// translateError maps driver errors to domain errors. Unique-constraint
// violations become ErrConflict so pair, code, and reference uniqueness is
// enforced by the database rather than by the caller's pre-checks.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrConflict
	}
	return err
}
