package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/aussiebroadwan/taskmail/internal/notify/render"
	"github.com/aussiebroadwan/taskmail/internal/notify/store"
	"github.com/aussiebroadwan/taskmail/pkg/slogx"
)

// InviteCreated mails a new invite to its target address and records the
// outcome on the invite.
func (d *Dispatcher) InviteCreated(ctx context.Context, eventID string, inv domain.Invite) (Result, error) {
	attrs := []any{
		slog.String("tenant_id", inv.TenantID),
		slog.String("invite_id", inv.ID),
	}
	return d.dispatch(ctx, KindInvite, eventID, attrs, func(ctx context.Context, r *run, res *Result) (err error) {
		log := slogx.FromContext(ctx)

		// 1. Guard: only pending invites that were never sent. The stored
		// document wins over the event payload for the guard fields.
		inv, err = d.currentInvite(ctx, inv)
		r.to(StateGuardChecked)
		if err != nil {
			return err
		}
		to, ok := ResolveInvite(inv)
		if !ok {
			res.Reason = "invite is not pending or was already sent"
			log.Info("invite skipped",
				slog.String("status", string(inv.Status)),
				slog.Bool("email_sent", inv.EmailSent),
			)
			r.to(StateSkipped)
			return nil
		}

		// Failures after the claim leave an error trail on the invite.
		key := inviteClaimKey(eventID, inv.Ref())
		claimed, attempted := false, false
		defer func() {
			if err == nil {
				return
			}
			if attempted {
				d.Tracker.MarkFailed(ctx, inv.Ref(), err.Error())
			}
			if claimed {
				d.release(ctx, key)
			}
		}()

		// 2. Claim the event when a ledger is configured. A ledger outage
		// fails the event without touching the invite.
		if d.Ledger != nil {
			claimed, err = d.Ledger.Claim(ctx, key, d.ledgerTTL())
			if err != nil {
				return fmt.Errorf("claim invite: %w", err)
			}
			if !claimed {
				res.Reason = "invite delivery already claimed"
				log.Info("invite skipped", slog.String("claim_key", key))
				r.to(StateSkipped)
				return nil
			}
		}

		// 3. Resolve display context
		attempted = true
		r.to(StateResolved)
		tenantName := inv.TenantName
		if tenantName == "" {
			tenantName = d.tenantName(ctx, inv.TenantID)
		}
		inviter := d.userName(ctx, inv.InvitedBy)

		// 4. The recipient is an address, not a user, so no preferences apply
		r.to(StateFiltered)

		// 5. Render
		email, err := safely(func() (render.Email, error) {
			return d.Renderer.Invite(render.InviteData{
				InviteID:    inv.ID,
				TenantID:    inv.TenantID,
				TenantName:  tenantName,
				InviterName: inviter,
				Role:        inv.Role,
				Email:       to,
			})
		})
		if err != nil {
			return fmt.Errorf("render invite: %w", err)
		}
		r.to(StateRendered)

		// 6. Send
		deliveryID, err := d.send(ctx, to, email)
		if err != nil {
			res.Failed++
			return err
		}
		res.Sent++
		r.to(StateSent)

		// 7. Record
		d.Tracker.MarkSent(ctx, inv.Ref(), deliveryID)
		r.to(StateRecorded)

		log.Info("invite sent", slog.String("delivery_id", deliveryID))
		return nil
	})
}

// currentInvite overlays the stored status and send flag on inv. An invite
// that is not stored yet is taken as given.
func (d *Dispatcher) currentInvite(ctx context.Context, inv domain.Invite) (domain.Invite, error) {
	stored, err := d.Store.Invites().GetInvite(ctx, inv.Ref())
	if errors.Is(err, store.ErrNotFound) {
		return inv, nil
	}
	if err != nil {
		return inv, fmt.Errorf("load invite: %w", err)
	}
	inv.Status = stored.Status
	inv.EmailSent = stored.EmailSent
	inv.EmailID = stored.EmailID
	return inv, nil
}

// inviteClaimKey prefers the event id so that a redelivered event is caught
// even when the invite document has not been updated yet.
func inviteClaimKey(eventID string, ref domain.InviteRef) string {
	if eventID != "" {
		return "event:" + eventID
	}
	return "invite:" + ref.TenantID + ":" + ref.InviteID
}

func (d *Dispatcher) release(ctx context.Context, key string) {
	if err := d.Ledger.Release(ctx, key); err != nil {
		slogx.FromContext(ctx).Error("failed to release invite claim",
			slog.String("claim_key", key),
			slog.Any("error", err),
		)
	}
}
