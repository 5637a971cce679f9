package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/aussiebroadwan/taskmail/internal/notify/store"
	"github.com/aussiebroadwan/taskmail/pkg/slogx"
)

// Tracker records delivery outcomes on invite documents. Writes are best
// effort: a failed write is logged and swallowed, since by then the email has
// either gone out or the failure is already being reported.
type Tracker struct {
	Invites store.Invites
	Now     func() time.Time
}

func NewTracker(invites store.Invites, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{Invites: invites, Now: now}
}

func (t *Tracker) MarkSent(ctx context.Context, ref domain.InviteRef, deliveryID string) {
	err := t.Invites.MarkInviteEmailSent(ctx, ref, deliveryID, t.Now().UTC())
	if err != nil {
		slogx.FromContext(ctx).Error("failed to record invite delivery",
			slog.String("tenant_id", ref.TenantID),
			slog.String("invite_id", ref.InviteID),
			slog.String("delivery_id", deliveryID),
			slog.Any("error", err),
		)
	}
}

func (t *Tracker) MarkFailed(ctx context.Context, ref domain.InviteRef, message string) {
	err := t.Invites.MarkInviteEmailFailed(ctx, ref, message, t.Now().UTC())
	if err != nil {
		slogx.FromContext(ctx).Error("failed to record invite delivery failure",
			slog.String("tenant_id", ref.TenantID),
			slog.String("invite_id", ref.InviteID),
			slog.Any("error", err),
		)
	}
}
