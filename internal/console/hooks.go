package console

import (
	"context"
	"time"

	"github.com/GTDGit/vendor_console/pkg/vendoractivo"
)

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, message string) bool { return f(ctx, message) }

// Notifier receives working-set changes, e.g. to push them to live views.
type Notifier interface {
	RecordUpdated(rec vendoractivo.Record)
	RecordDeleted(id string)
	PageLoaded(page Pagination)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) RecordUpdated(vendoractivo.Record) {}
func (NopNotifier) RecordDeleted(string)              {}
func (NopNotifier) PageLoaded(Pagination)             {}

// AuditEntry describes one settled operator mutation.
type AuditEntry struct {
	Operator string
	Action   Action
	RecordID string
	Success  bool
	Detail   string
	At       time.Time
}

// AuditSink persists audit entries. Failures are logged, never surfaced.
type AuditSink interface {
	Append(ctx context.Context, entry AuditEntry) error
}

type nopAuditSink struct{}

func (nopAuditSink) Append(context.Context, AuditEntry) error { return nil }
