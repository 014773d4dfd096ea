package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/vendor_console/internal/session"
)

// Refresher re-fetches the console's current page.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// SessionSource reports the live operator session.
type SessionSource interface {
	Current(ctx context.Context) (*session.Session, error)
}

// RefreshWorker keeps the console page fresh on a fixed interval. Ticks are
// skipped while nobody is logged in.
type RefreshWorker struct {
	console  Refresher
	sessions SessionSource
	interval time.Duration
}

// NewRefreshWorker constructs a RefreshWorker.
func NewRefreshWorker(console Refresher, sessions SessionSource, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		console:  console,
		sessions: sessions,
		interval: interval,
	}
}

// Start begins the refresh loop and listens for context cancellation.
func (w *RefreshWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting refresh worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Refresh worker stopped")
			return
		}
	}
}

func (w *RefreshWorker) run(ctx context.Context) {
	if _, err := w.sessions.Current(ctx); err != nil {
		log.Debug().Err(err).Msg("Skipping vendor refresh without a live session")
		return
	}
	if err := w.console.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("Scheduled vendor refresh failed")
	}
}
