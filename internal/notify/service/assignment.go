package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/aussiebroadwan/taskmail/internal/notify/render"
	"github.com/aussiebroadwan/taskmail/pkg/slogx"
)

// TaskUpdated notifies a task's new assignee.
func (d *Dispatcher) TaskUpdated(ctx context.Context, eventID string, before, after domain.Task) (Result, error) {
	attrs := []any{
		slog.String("tenant_id", after.TenantID),
		slog.String("project_id", after.ProjectID),
		slog.String("task_id", after.ID),
	}
	return d.dispatch(ctx, KindTaskAssigned, eventID, attrs, func(ctx context.Context, r *run, res *Result) error {
		log := slogx.FromContext(ctx)

		// 1. Guard: the assignee changed to someone other than the updater
		userID, ok := ResolveAssignment(before, after)
		r.to(StateGuardChecked)
		if !ok {
			res.Reason = "assignee unchanged, removed or self-assigned"
			log.Info("assignment skipped",
				slog.String("before", before.AssignedTo),
				slog.String("after", after.AssignedTo),
			)
			r.to(StateSkipped)
			return nil
		}
		r.to(StateResolved)
		log = log.With(slog.String("user_id", userID))

		// 2. Filter: the user must exist and accept assignment emails
		user, found, err := d.recipient(ctx, userID)
		if err != nil {
			return fmt.Errorf("lookup assignee: %w", err)
		}
		r.to(StateFiltered)
		if !found {
			res.Skipped++
			res.Reason = "assignee not found"
			log.Info("assignee has no deliverable account")
			r.to(StateRecorded)
			return nil
		}
		if !Allows(user, domain.CategoryTaskAssigned) {
			res.Skipped++
			res.Reason = "assignee opted out"
			log.Info("assignee opted out of assignment emails")
			r.to(StateRecorded)
			return nil
		}

		// 3. Render
		priority := after.Priority
		if priority == "" {
			priority = domain.PriorityMedium
		}
		email, err := safely(func() (render.Email, error) {
			return d.Renderer.Assignment(render.AssignmentData{
				TenantID:     after.TenantID,
				TenantName:   d.tenantName(ctx, after.TenantID),
				ProjectID:    after.ProjectID,
				ProjectTitle: d.projectTitle(ctx, after.TenantID, after.ProjectID),
				TaskID:       after.ID,
				TaskTitle:    after.Title,
				Description:  after.Description,
				Priority:     string(priority),
				DueDate:      after.DueDate,
				AssigneeName: user.DisplayName(),
				AssignerName: d.userName(ctx, after.UpdatedBy),
			})
		})
		if err != nil {
			return fmt.Errorf("render assignment: %w", err)
		}
		r.to(StateRendered)

		// 4. Send
		deliveryID, err := d.send(ctx, user.Email, email)
		if err != nil {
			res.Failed++
			return err
		}
		res.Sent++
		r.to(StateSent)
		r.to(StateRecorded)

		log.Info("assignment sent", slog.String("delivery_id", deliveryID))
		return nil
	})
}
