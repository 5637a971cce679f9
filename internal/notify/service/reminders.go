package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/aussiebroadwan/taskmail/internal/notify/render"
	"github.com/aussiebroadwan/taskmail/pkg/slogx"
)

// DueReminders sends one digest per assignee per tenant listing their tasks
// due today or tomorrow.
func (d *Dispatcher) DueReminders(ctx context.Context, eventID string) (Result, error) {
	return d.dispatch(ctx, KindDueReminders, eventID, nil, func(ctx context.Context, r *run, res *Result) error {
		// Timer events carry no guard.
		r.to(StateGuardChecked)

		builder := &DigestBuilder{Store: d.Store, Location: d.location()}
		for dg, err := range builder.Build(ctx, d.now()) {
			if err != nil {
				return err
			}
			r.reach(StateResolved)
			d.deliverDigest(ctx, r, res, dg)
		}

		r.reach(StateFiltered)
		r.to(StateRecorded)
		return nil
	})
}

func (d *Dispatcher) deliverDigest(ctx context.Context, r *run, res *Result, dg Digest) {
	log := slogx.FromContext(ctx).With(
		slog.String("tenant_id", dg.TenantID),
		slog.String("user_id", dg.UserID),
	)

	user, found, err := d.recipient(ctx, dg.UserID)
	if err != nil {
		res.Failed++
		log.Error("failed to look up digest recipient", slog.Any("error", err))
		return
	}
	r.reach(StateFiltered)
	if !found {
		res.Skipped++
		log.Info("digest recipient has no deliverable account")
		return
	}
	if !Allows(user, domain.CategoryDueReminders) {
		res.Skipped++
		log.Info("digest recipient opted out")
		return
	}

	items := make([]render.DigestItem, 0, len(dg.Items))
	for _, it := range dg.Items {
		items = append(items, render.DigestItem{
			TaskID:       it.TaskID,
			Title:        it.Title,
			ProjectID:    it.ProjectID,
			ProjectTitle: it.ProjectTitle,
			DueDate:      it.DueDate,
			Day:          it.Day,
		})
	}
	email, err := safely(func() (render.Email, error) {
		return d.Renderer.Digest(render.DigestData{
			TenantID:      dg.TenantID,
			TenantName:    dg.TenantName,
			RecipientName: user.DisplayName(),
			Items:         items,
		})
	})
	if err != nil {
		res.Failed++
		log.Error("failed to render digest", slog.Any("error", err))
		return
	}
	r.reach(StateRendered)

	deliveryID, err := d.send(ctx, user.Email, email)
	if err != nil {
		res.Failed++
		log.Error("digest email failed", slog.Any("error", err))
		return
	}
	res.Sent++
	r.reach(StateSent)
	log.Info("digest sent",
		slog.String("delivery_id", deliveryID),
		slog.Int("tasks", len(dg.Items)),
	)
}
