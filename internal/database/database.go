package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"

	appconfig "github.com/GTDGit/vendor_console/internal/config"
)

// ErrNotConfigured is returned when no audit database host is set.
var ErrNotConfigured = errors.New("audit database not configured")

const pingTimeout = 5 * time.Second

// Retry bounds how long Connect waits for the database to answer.
type Retry struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration
}

// DefaultRetry covers a database container that starts next to the console.
var DefaultRetry = Retry{Attempts: 5, Base: 500 * time.Millisecond, Max: 5 * time.Second}

// backoff is the wait after the given failed attempt: Base doubled per
// attempt, capped at Max.
func (r Retry) backoff(attempt int) time.Duration {
	d := r.Base
	for i := 1; i < attempt && (r.Max <= 0 || d < r.Max); i++ {
		d *= 2
	}
	if r.Max > 0 && d > r.Max {
		d = r.Max
	}
	return d
}

// Connect opens the audit database and blocks until it answers a ping, the
// retry budget is spent or ctx ends.
func Connect(ctx context.Context, cfg appconfig.DatabaseConfig, retry Retry) (*sqlx.DB, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	setPool(db.DB)

	if err := waitReady(ctx, db.PingContext, retry); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// waitReady calls ping until it succeeds. Sleeps between attempts are cut
// short by ctx.
func waitReady(ctx context.Context, ping func(context.Context) error, retry Retry) error {
	attempts := retry.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = ping(pctx)
		cancel()
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		wait := retry.backoff(attempt)
		log.Warn().Err(lastErr).Int("attempt", attempt).Dur("retry_in", wait).Msg("audit database not ready")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("gave up waiting for audit database: %w", ctx.Err())
		case <-timer.C:
		}
	}

	return fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, lastErr)
}

// setPool sizes the pool for a low-volume audit writer.
func setPool(db *sql.DB) {
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
}
