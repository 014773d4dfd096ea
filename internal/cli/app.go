package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/vendor_console/internal/cache"
	"github.com/GTDGit/vendor_console/internal/console"
	"github.com/GTDGit/vendor_console/internal/session"
	"github.com/GTDGit/vendor_console/pkg/vendoractivo"
)

// app is the per-invocation wiring shared by the commands.
type app struct {
	store   session.Store
	creds   *session.Credentials
	client  *vendoractivo.Client
	console *console.Console
	closer  func() error
}

func newApp() (*app, error) {
	a := &app{closer: func() error { return nil }}

	switch cfg.Session.Store {
	case "redis":
		rc, err := cache.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		a.store = cache.NewSessionCache(rc, cfg.Console.Operator)
		a.closer = rc.Close
	default:
		path := sessionFile
		if path == "" {
			path = session.DefaultSessionPath()
		}
		a.store = session.NewFileStore(path)
	}

	a.creds = session.NewCredentials(a.store)
	a.client = vendoractivo.NewClient(vendoractivo.Config{
		BaseURL:  cfg.VendorAPI.BaseURL,
		Resource: cfg.VendorAPI.Resource,
		Timeout:  cfg.VendorAPI.Timeout,
		Debug:    cfg.VendorAPI.Debug,
	}, a.creds)
	a.console = console.New(a.client, console.WithOperator(cfg.Console.Operator))
	return a, nil
}

func (a *app) Close() {
	if err := a.closer(); err != nil {
		log.Warn().Err(err).Msg("failed to close session store")
	}
}

// loadPage mounts the console and moves to page. Pages past the end leave
// the console on page 1.
func (a *app) loadPage(ctx context.Context, page int) error {
	if err := a.console.Load(ctx); err != nil {
		return err
	}
	if page <= 1 {
		return nil
	}
	moved, err := a.console.GoToPage(ctx, page)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("page %d is out of range (1-%d)", page, a.console.Snapshot().Pagination.Pages)
	}
	return nil
}
