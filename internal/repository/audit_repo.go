package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/vendor_console/internal/console"
	"github.com/GTDGit/vendor_console/internal/models"
)

// AuditRepository provides access to the audit_logs table.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append inserts one console action. It implements console.AuditSink.
func (r *AuditRepository) Append(ctx context.Context, e console.AuditEntry) error {
	const q = `
		INSERT INTO audit_logs (id, operator, action, record_id, success, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, q,
		uuid.New().String(),
		e.Operator,
		string(e.Action),
		e.RecordID,
		e.Success,
		e.Detail,
		e.At,
	)
	return err
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// clampLimit replaces out-of-range limits with the default page size.
func clampLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return defaultListLimit
	}
	return limit
}

// ListRecent returns the newest audit entries first.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	limit = clampLimit(limit)
	const q = `
		SELECT id, operator, action, record_id, success, detail, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1`
	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, q, limit); err != nil {
		return nil, err
	}
	return logs, nil
}

// ListByRecord returns every audit entry for one record, oldest first.
func (r *AuditRepository) ListByRecord(ctx context.Context, recordID string) ([]models.AuditLog, error) {
	const q = `
		SELECT id, operator, action, record_id, success, detail, created_at
		FROM audit_logs
		WHERE record_id = $1
		ORDER BY created_at ASC`
	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, q, recordID); err != nil {
		return nil, err
	}
	return logs, nil
}
