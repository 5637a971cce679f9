package service

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/aussiebroadwan/taskmail/internal/notify/render"
	"github.com/aussiebroadwan/taskmail/internal/notify/store"
	"github.com/aussiebroadwan/taskmail/pkg/slogx"
)

const (
	DayToday    = render.DayToday
	DayTomorrow = render.DayTomorrow
)

type DigestItem struct {
	TaskID       string
	Title        string
	ProjectID    string
	ProjectTitle string
	DueDate      time.Time
	Status       domain.TaskStatus
	Day          string
}

// Digest is every due-soon task of one assignee within one tenant.
type Digest struct {
	TenantID   string
	TenantName string
	UserID     string
	Items      []DigestItem
}

// DigestBuilder walks tenants, their projects and each project's due tasks.
type DigestBuilder struct {
	Store    store.Store
	Location *time.Location
}

// Build yields the digests of one run. Grouping is scoped to a tenant: an
// assignee with due tasks in two tenants gets two digests. Digests of a
// tenant are yielded once all its projects have been read, in the order
// their assignees first appeared. A failing project is logged and skipped; a
// failing tenant listing is yielded as an error and ends the sequence.
func (b *DigestBuilder) Build(ctx context.Context, now time.Time) iter.Seq2[Digest, error] {
	return func(yield func(Digest, error) bool) {
		loc := b.location()
		from, to := DueWindow(now, loc)

		tenants, err := b.Store.Tenants().ListTenants(ctx)
		if err != nil {
			yield(Digest{}, fmt.Errorf("list tenants: %w", err))
			return
		}

		for _, tenant := range tenants {
			if err := ctx.Err(); err != nil {
				yield(Digest{}, err)
				return
			}
			for _, dg := range b.tenantDigests(ctx, tenant, from, to, now) {
				if !yield(dg, nil) {
					return
				}
			}
		}
	}
}

func (b *DigestBuilder) tenantDigests(
	ctx context.Context,
	tenant domain.Tenant,
	from, to, now time.Time,
) []Digest {
	log := slogx.FromContext(ctx).With(slog.String("tenant_id", tenant.ID))
	loc := b.location()

	projects, err := b.Store.Projects().ListProjects(ctx, tenant.ID)
	if err != nil {
		log.Error("failed to list projects", slog.Any("error", err))
		return nil
	}

	tenantName := tenant.Name
	if tenantName == "" {
		tenantName = domain.UnknownTenantName
	}

	var (
		order   []string
		byOwner = make(map[string]*Digest)
	)
	for _, project := range projects {
		tasks, err := b.Store.Tasks().ListDueTasks(ctx, tenant.ID, project.ID, from, to)
		if err != nil {
			log.Error("failed to list due tasks",
				slog.String("project_id", project.ID),
				slog.Any("error", err),
			)
			continue
		}

		projectTitle := project.Title
		if projectTitle == "" {
			projectTitle = domain.UnknownProjectTitle
		}

		for _, task := range tasks {
			if task.AssignedTo == "" || task.Done() || task.DueDate == nil {
				continue
			}

			dg, ok := byOwner[task.AssignedTo]
			if !ok {
				dg = &Digest{TenantID: tenant.ID, TenantName: tenantName, UserID: task.AssignedTo}
				byOwner[task.AssignedTo] = dg
				order = append(order, task.AssignedTo)
			}
			dg.Items = append(dg.Items, DigestItem{
				TaskID:       task.ID,
				Title:        task.Title,
				ProjectID:    project.ID,
				ProjectTitle: projectTitle,
				DueDate:      *task.DueDate,
				Status:       task.Status,
				Day:          DayLabel(*task.DueDate, now, loc),
			})
		}
	}

	out := make([]Digest, 0, len(order))
	for _, userID := range order {
		out = append(out, *byOwner[userID])
	}
	return out
}

func (b *DigestBuilder) location() *time.Location {
	if b.Location == nil {
		return time.UTC
	}
	return b.Location
}
