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

// CommentCreated notifies the task assignee and every mentioned user. A
// failure for one recipient is logged and counted and does not stop the
// others.
func (d *Dispatcher) CommentCreated(ctx context.Context, eventID string, comment domain.Comment) (Result, error) {
	attrs := []any{
		slog.String("tenant_id", comment.TenantID),
		slog.String("project_id", comment.ProjectID),
		slog.String("task_id", comment.TaskID),
		slog.String("comment_id", comment.ID),
	}
	return d.dispatch(ctx, KindComment, eventID, attrs, func(ctx context.Context, r *run, res *Result) error {
		log := slogx.FromContext(ctx)

		// Every new comment is considered.
		r.to(StateGuardChecked)

		// 1. Resolve
		task, err := d.Store.Tasks().GetTask(ctx, comment.TenantID, comment.ProjectID, comment.TaskID)
		if errors.Is(err, store.ErrNotFound) {
			res.Reason = "task not found"
			log.Info("comment task not found, nothing to notify")
			r.reach(StateFiltered)
			r.to(StateRecorded)
			return nil
		}
		if err != nil {
			return fmt.Errorf("lookup task: %w", err)
		}
		recipients := ResolveComment(task, comment)
		r.to(StateResolved)

		data := render.CommentData{
			TenantID:     comment.TenantID,
			TenantName:   d.tenantName(ctx, comment.TenantID),
			ProjectID:    comment.ProjectID,
			ProjectTitle: d.projectTitle(ctx, comment.TenantID, comment.ProjectID),
			TaskID:       task.ID,
			TaskTitle:    task.Title,
			AuthorName:   d.userName(ctx, comment.CreatedBy),
			Text:         recipients.Text,
		}

		// 2. Deliver to each recipient in turn
		for _, userID := range recipients.UserIDs {
			data.Mentioned = recipients.Mentioned(userID)
			d.deliverComment(ctx, r, res, userID, data)
		}

		r.reach(StateFiltered)
		r.to(StateRecorded)
		return nil
	})
}

func (d *Dispatcher) deliverComment(ctx context.Context, r *run, res *Result, userID string, data render.CommentData) {
	log := slogx.FromContext(ctx).With(slog.String("user_id", userID))

	user, found, err := d.recipient(ctx, userID)
	if err != nil {
		res.Failed++
		log.Error("failed to look up comment recipient", slog.Any("error", err))
		return
	}
	r.reach(StateFiltered)
	if !found {
		res.Skipped++
		log.Info("comment recipient has no deliverable account")
		return
	}
	if !Allows(user, domain.CategoryComments) {
		res.Skipped++
		log.Info("comment recipient opted out")
		return
	}

	data.RecipientName = user.DisplayName()
	email, err := safely(func() (render.Email, error) { return d.Renderer.Comment(data) })
	if err != nil {
		res.Failed++
		log.Error("failed to render comment email", slog.Any("error", err))
		return
	}
	r.reach(StateRendered)

	deliveryID, err := d.send(ctx, user.Email, email)
	if err != nil {
		res.Failed++
		log.Error("comment email failed", slog.Any("error", err))
		return
	}
	res.Sent++
	r.reach(StateSent)
	log.Info("comment email sent",
		slog.String("delivery_id", deliveryID),
		slog.Bool("mentioned", data.Mentioned),
	)
}
