package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/taskmail/pkg/idx"
	"github.com/aussiebroadwan/taskmail/pkg/slogx"
	"github.com/robfig/cron/v3"
)

// DefaultReminderSchedule fires once a day at 09:00.
const DefaultReminderSchedule = "0 9 * * *"

// NewReminderRunID mints the event id of one reminder run, whether scheduled
// or triggered by hand.
func NewReminderRunID() string { return idx.Prefixed("reminders") }

// ReminderRunner is satisfied by *Dispatcher.
type ReminderRunner interface {
	DueReminders(ctx context.Context, eventID string) (Result, error)
}

// ReminderScheduler triggers the due reminder run on a cron schedule
// evaluated in a named timezone.
type ReminderScheduler struct {
	Runner   ReminderRunner
	Logger   *slog.Logger
	Schedule string
	Location *time.Location

	cron *cron.Cron
}

// NewReminderScheduler validates schedule and prepares the background worker.
// A run that is still in progress when the next one is due is skipped.
func NewReminderScheduler(
	runner ReminderRunner,
	logger *slog.Logger,
	schedule string,
	loc *time.Location,
) (*ReminderScheduler, error) {
	if schedule == "" {
		schedule = DefaultReminderSchedule
	}
	if loc == nil {
		loc = time.UTC
	}

	s := &ReminderScheduler{
		Runner:   runner,
		Logger:   logger,
		Schedule: schedule,
		Location: loc,
	}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := s.cron.AddFunc(schedule, s.fire); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins the background worker. This is non-blocking.
func (s *ReminderScheduler) Start() {
	s.cron.Start()
	s.Logger.Info("reminder scheduler started",
		slog.String("schedule", s.Schedule),
		slog.String("timezone", s.Location.String()),
	)
}

// Stop prevents further runs and blocks until an in-progress run finishes.
func (s *ReminderScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.Logger.Info("reminder scheduler stopped")
}

// fire runs one scheduled reminder pass.
func (s *ReminderScheduler) fire() {
	eventID := NewReminderRunID()
	ctx := slogx.WithContext(context.Background(), s.Logger)

	res, err := s.Runner.DueReminders(ctx, eventID)
	if err != nil {
		s.Logger.Error("scheduled reminder run failed",
			slog.String("event_id", eventID),
			slog.Any("error", err),
		)
		return
	}
	s.Logger.Info("scheduled reminder run completed",
		slog.String("event_id", eventID),
		slog.Int("sent", res.Sent),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed),
	)
}
