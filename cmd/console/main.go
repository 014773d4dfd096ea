package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/vendor_console/internal/cache"
	"github.com/GTDGit/vendor_console/internal/config"
	"github.com/GTDGit/vendor_console/internal/console"
	"github.com/GTDGit/vendor_console/internal/database"
	"github.com/GTDGit/vendor_console/internal/handler"
	"github.com/GTDGit/vendor_console/internal/metrics"
	"github.com/GTDGit/vendor_console/internal/middleware"
	"github.com/GTDGit/vendor_console/internal/repository"
	"github.com/GTDGit/vendor_console/internal/session"
	"github.com/GTDGit/vendor_console/internal/sse"
	"github.com/GTDGit/vendor_console/internal/worker"
	"github.com/GTDGit/vendor_console/pkg/vendoractivo"
)

var version = "dev"

// main is the entrypoint for the vendor management console server.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger and metrics
	setupLogger(cfg.Env)
	metrics.Register()
	log.Info().Str("env", cfg.Env).Str("version", version).Msg("starting vendor console")

	checks := map[string]handler.Check{}

	// 3. Connect audit database (optional)
	var auditRepo *repository.AuditRepository
	if cfg.DB.Enabled() {
		var db *sqlx.DB
		connectCtx, cancelConnect := context.WithTimeout(context.Background(), time.Minute)
		db, err = database.Connect(connectCtx, cfg.DB, database.DefaultRetry)
		cancelConnect()
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		// 3a. Run migrations
		if err := runMigrations(db.DB); err != nil {
			log.Error().Err(err).Msg("migration failed")
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
		log.Info().Msg("migrations completed successfully")

		auditRepo = repository.NewAuditRepository(db)
		checks["database"] = db.PingContext
	} else {
		log.Warn().Msg("DB_HOST not set - audit trail will not be persisted")
	}

	// 4. Session store
	var store session.Store = session.NewMemoryStore()
	if cfg.Session.Store == "redis" {
		redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected successfully")

		store = cache.NewSessionCache(redisClient, cfg.Console.Operator)
		checks["redis"] = redisClient.Ping
	}
	creds := session.NewCredentials(store)

	// 5. Vendor API client
	client := vendoractivo.NewClient(vendoractivo.Config{
		BaseURL:  cfg.VendorAPI.BaseURL,
		Resource: cfg.VendorAPI.Resource,
		Timeout:  cfg.VendorAPI.Timeout,
		Debug:    cfg.VendorAPI.Debug,
	}, creds)

	// 6. Console and live updates
	hub := sse.NewHub()
	opts := []console.Option{
		console.WithNotifier(sse.NewHubNotifier(hub)),
		console.WithOperator(cfg.Console.Operator),
	}
	if auditRepo != nil {
		opts = append(opts, console.WithAuditSink(auditRepo))
	}
	vendors := console.New(client, opts...)

	// 6a. Mount: load the first page if a session survived a restart
	if _, err := creds.Current(context.Background()); err == nil {
		if err := vendors.Load(context.Background()); err != nil {
			log.Warn().Err(err).Msg("initial vendor page load failed")
		}
	}

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(version, checks),
		Auth:    handler.NewAuthHandler(session.NewLoginService(client, store), vendors),
		Console: handler.NewConsoleHandler(vendors),
		SSE:     handler.NewSSEHandler(hub),
	}
	if auditRepo != nil {
		handlers.Audit = handler.NewAuditHandler(auditRepo)
	}

	// 8. Initialize middleware
	operatorAuth := middleware.NewOperatorAuth(cfg.Console.Operator, cfg.Console.PasswordHash)
	if !operatorAuth.Enabled() {
		log.Warn().Msg("CONSOLE_PASSWORD_HASH not set - console routes are not protected")
	}

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Console.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, operatorAuth, creds, cfg.RateLimit)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	if cfg.Console.RefreshInterval > 0 {
		go worker.NewRefreshWorker(vendors, creds, cfg.Console.RefreshInterval).Start(ctx)
	}

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
