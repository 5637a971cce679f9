package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/aussiebroadwan/taskmail/internal/notify/ledger"
	"github.com/aussiebroadwan/taskmail/internal/notify/mailer"
	"github.com/aussiebroadwan/taskmail/internal/notify/render"
	"github.com/aussiebroadwan/taskmail/internal/notify/store"
	"github.com/aussiebroadwan/taskmail/pkg/slogx"
)

var (
	ErrDelivery = errors.New("email delivery failed")
	ErrInternal = errors.New("internal dispatch error")
)

const DefaultLedgerTTL = 24 * time.Hour

// Kind identifies the notification an event produces.
type Kind string

const (
	KindInvite       Kind = "invite"
	KindTaskAssigned Kind = "task_assigned"
	KindComment      Kind = "comment"
	KindDueReminders Kind = "due_reminders"
)

// Result summarises one dispatched event.
type Result struct {
	Kind    Kind   `json:"kind"`
	State   State  `json:"state"`
	Sent    int    `json:"sent"`
	Skipped int    `json:"skipped"` // Recipients dropped by a missing user or a preference
	Failed  int    `json:"failed"`  // Recipients whose render or delivery failed
	Reason  string `json:"reason,omitempty"`
}

// Renderer builds the email for each notification kind.
type Renderer interface {
	Invite(render.InviteData) (render.Email, error)
	Assignment(render.AssignmentData) (render.Email, error)
	Comment(render.CommentData) (render.Email, error)
	Digest(render.DigestData) (render.Email, error)
}

// Dispatcher turns store events into emails. Each call handles one event
// sequentially and is independent of concurrent calls.
type Dispatcher struct {
	Store    store.Store
	Mailer   mailer.Sender
	Renderer Renderer
	Tracker  *Tracker

	// Ledger is optional. When set, invite deliveries are claimed by event
	// id before sending.
	Ledger    ledger.Ledger
	LedgerTTL time.Duration

	From     string
	Location *time.Location
	Now      func() time.Time
}

// dispatch is the boundary every event passes through. It scopes the logger,
// converts panics into ErrInternal and records the outcome.
func (d *Dispatcher) dispatch(
	ctx context.Context,
	kind Kind,
	eventID string,
	attrs []any,
	fn func(ctx context.Context, r *run, res *Result) error,
) (res Result, err error) {
	ctx = slogx.With(ctx, append([]any{
		slog.String("kind", string(kind)),
		slog.String("event_id", eventID),
	}, attrs...)...)
	log := slogx.FromContext(ctx)

	r := newRun(log)
	res = Result{Kind: kind}

	defer func() {
		if p := recover(); p != nil {
			err = panicError(p)
			log.Error("dispatch panicked",
				slog.Any("panic", p),
				slog.String("stack", string(debug.Stack())),
			)
		}
		if err != nil {
			r.fail()
			if res.Reason == "" {
				res.Reason = err.Error()
			}
			log.Error("dispatch failed", slog.Any("error", err))
		}

		res.State = r.state
		observeResult(res)
		log.Info("dispatch finished",
			slog.String("state", string(res.State)),
			slog.Int("sent", res.Sent),
			slog.Int("skipped", res.Skipped),
			slog.Int("failed", res.Failed),
		)
	}()

	err = fn(ctx, r, &res)
	return res, err
}

func panicError(p any) error {
	if e, ok := p.(error); ok {
		return fmt.Errorf("%w: %w", ErrInternal, e)
	}
	return fmt.Errorf("%w: %v", ErrInternal, p)
}

// safely runs fn, turning a panic into an error.
func safely[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicError(p)
		}
	}()
	return fn()
}

func (d *Dispatcher) send(ctx context.Context, to string, email render.Email) (string, error) {
	id, err := safely(func() (string, error) {
		return d.Mailer.Send(ctx, mailer.Message{
			From:    d.From,
			To:      to,
			Subject: email.Subject,
			HTML:    email.HTML,
			Text:    email.Text,
		})
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	return id, nil
}

// recipient loads a user who may receive email. A missing user, or one
// without an address, is reported as not found rather than as an error.
func (d *Dispatcher) recipient(ctx context.Context, userID string) (domain.User, bool, error) {
	user, err := d.Store.Users().GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return user, user.Email != "", nil
}

// The display lookups below never fail an event: a missing or unreadable
// document falls back to a placeholder.

func (d *Dispatcher) tenantName(ctx context.Context, tenantID string) string {
	tenant, err := d.Store.Tenants().GetTenant(ctx, tenantID)
	if err != nil {
		logLookupMiss(ctx, "tenant", tenantID, err)
		return domain.UnknownTenantName
	}
	if tenant.Name == "" {
		return domain.UnknownTenantName
	}
	return tenant.Name
}

func (d *Dispatcher) projectTitle(ctx context.Context, tenantID, projectID string) string {
	project, err := d.Store.Projects().GetProject(ctx, tenantID, projectID)
	if err != nil {
		logLookupMiss(ctx, "project", projectID, err)
		return domain.UnknownProjectTitle
	}
	if project.Title == "" {
		return domain.UnknownProjectTitle
	}
	return project.Title
}

func (d *Dispatcher) userName(ctx context.Context, userID string) string {
	if userID == "" {
		return domain.UnknownUserName
	}
	user, err := d.Store.Users().GetUser(ctx, userID)
	if err != nil {
		logLookupMiss(ctx, "user", userID, err)
		return domain.UnknownUserName
	}
	return user.DisplayName()
}

func logLookupMiss(ctx context.Context, kind, id string, err error) {
	log := slogx.FromContext(ctx)
	if errors.Is(err, store.ErrNotFound) {
		log.Debug("lookup miss, using placeholder", slog.String("document", kind), slog.String("id", id))
		return
	}
	log.Warn("lookup failed, using placeholder",
		slog.String("document", kind),
		slog.String("id", id),
		slog.Any("error", err),
	)
}

func (d *Dispatcher) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d *Dispatcher) location() *time.Location {
	if d.Location == nil {
		return time.UTC
	}
	return d.Location
}

func (d *Dispatcher) ledgerTTL() time.Duration {
	if d.LedgerTTL <= 0 {
		return DefaultLedgerTTL
	}
	return d.LedgerTTL
}
