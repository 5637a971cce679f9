package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/taskmail/internal/notify/http"
	"github.com/aussiebroadwan/taskmail/internal/notify/mailer"
	"github.com/aussiebroadwan/taskmail/internal/notify/render"
	"github.com/aussiebroadwan/taskmail/internal/notify/service"
	"github.com/aussiebroadwan/taskmail/internal/notify/store"
	"github.com/aussiebroadwan/taskmail/pkg/httpx"
	"github.com/aussiebroadwan/taskmail/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the notification service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db          store.Store
	closeLedger func() error

	// Services
	dispatcher *service.Dispatcher
	scheduler  *service.ReminderScheduler // nil when reminders are disabled

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "notify-service",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{cfg: cfg, logger: NewLogger(cfg)}
	ctx := context.Background()

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initServices(ctx); err != nil {
		if app.closeLedger != nil {
			_ = app.closeLedger()
		}
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if app.scheduler != nil {
		app.scheduler.Start()
	}

	app.logger.Info("notify service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down notify service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Waits for an in-flight reminder run.
	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.closeLedger != nil {
		if err := app.closeLedger(); err != nil {
			app.logger.Error("error closing ledger", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("notify service stopped")
	return nil
}

// Dispatcher exposes the wired dispatcher for one-shot commands.
func (app *Application) Dispatcher() *service.Dispatcher { return app.dispatcher }

func (app *Application) initDatabase(ctx context.Context) error {
	db, err := OpenStore(ctx, app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

func (app *Application) initServices(ctx context.Context) error {
	d, closeLedger, err := NewDispatcher(ctx, app.cfg, app.db, NewMailer(app.cfg, app.logger), app.logger)
	if err != nil {
		return err
	}
	app.dispatcher = d
	app.closeLedger = closeLedger

	if !app.cfg.RemindersEnabled {
		app.logger.Info("reminder scheduler disabled")
		return nil
	}
	app.scheduler, err = service.NewReminderScheduler(d, app.logger, app.cfg.ReminderSchedule, app.cfg.Location())
	return err
}

// NewDispatcher wires a dispatcher over st and m.
func NewDispatcher(
	ctx context.Context,
	cfg Config,
	st store.Store,
	m mailer.Sender,
	logger *slog.Logger,
) (*service.Dispatcher, func() error, error) {
	loc := cfg.Location()

	renderer, err := render.New(cfg.AppURL, loc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load templates: %w", err)
	}

	l, closeLedger, err := NewLedger(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	return &service.Dispatcher{
		Store:     st,
		Mailer:    m,
		Renderer:  renderer,
		Tracker:   service.NewTracker(st.Invites(), nil),
		Ledger:    l,
		LedgerTTL: cfg.IdempotencyTTL,
		From:      cfg.MailFrom,
		Location:  loc,
	}, closeLedger, nil
}

func (app *Application) initHTTP() {
	verifier := &httpx.HMACVerifier{
		Secret: EventsSigningSecret,
		Issuer: app.cfg.EventsIssuer,
		Leeway: 30 * time.Second,
	}
	if EventsSigningSecret() == "" {
		app.logger.Warn("EVENTS_SIGNING_SECRET is not set, event ingestion will reject every request")
	}

	router := httpapi.NewRouter(verifier, BuildVersion, app.db, app.dispatcher, app.logger)
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
