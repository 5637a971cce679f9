package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/app"
	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/aussiebroadwan/taskmail/internal/notify/store"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.json>",
	Short: "Load tenants, projects, users, tasks, comments and invites from a JSON fixture",
	Long: `Seed loads a development fixture into the configured store. Documents that
already exist are left untouched.

Example fixture:
  {
    "tenants":  [{"id": "t1", "name": "Acme", "slug": "acme"}],
    "users":    [{"id": "u1", "name": "Ann", "email": "ann@example.com"}],
    "projects": [{"id": "p1", "tenantId": "t1", "title": "Launch"}],
    "tasks":    [{"id": "k1", "tenantId": "t1", "projectId": "p1", "title": "Write copy",
                  "assignedTo": "u1", "dueDate": "2026-01-02T15:00:00Z"}]
  }`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		fx, err := parseFixture(f)
		if err != nil {
			return err
		}

		cfg := app.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}

		st, err := app.OpenStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ApplyMigrations(); err != nil {
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}

		n, err := fx.load(cmd.Context(), st)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d documents\n", n)
		return nil
	},
}

type fixture struct {
	Tenants  []fixtureTenant  `json:"tenants"`
	Users    []fixtureUser    `json:"users"`
	Projects []fixtureProject `json:"projects"`
	Tasks    []fixtureTask    `json:"tasks"`
	Comments []fixtureComment `json:"comments"`
	Invites  []fixtureInvite  `json:"invites"`
}

type fixtureTenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type fixtureUser struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	EmailPreferences json.RawMessage `json:"emailPreferences"`
}

type fixtureProject struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	Title    string `json:"title"`
}

type fixtureTask struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenantId"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  string     `json:"assignedTo"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	Status      string     `json:"status"`
	UpdatedBy   string     `json:"updatedBy"`
}

type fixtureComment struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenantId"`
	ProjectID string `json:"projectId"`
	TaskID    string `json:"taskId"`
	Text      string `json:"text"`
	CreatedBy string `json:"createdBy"`
}

type fixtureInvite struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenantId"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	TenantName string `json:"tenantName"`
	InvitedBy  string `json:"invitedBy"`
	Status     string `json:"status"`
}

func parseFixture(r io.Reader) (fixture, error) {
	var fx fixture
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fx); err != nil {
		return fixture{}, fmt.Errorf("invalid fixture: %w", err)
	}
	return fx, nil
}

// load writes the fixture in dependency order and returns how many documents
// were created. Conflicts are skipped.
func (fx fixture) load(ctx context.Context, st store.Store) (int, error) {
	created := 0
	create := func(kind, id string, err error) error {
		switch {
		case err == nil:
			created++
			return nil
		case errors.Is(err, store.ErrAlreadyExists):
			return nil
		default:
			return fmt.Errorf("seed %s %s: %w", kind, id, err)
		}
	}

	for _, t := range fx.Tenants {
		err := st.Tenants().CreateTenant(ctx, domain.Tenant{ID: t.ID, Name: t.Name, Slug: t.Slug})
		if err := create("tenant", t.ID, err); err != nil {
			return created, err
		}
	}

	for _, u := range fx.Users {
		prefs, err := domain.ParseEmailPreferences(u.EmailPreferences)
		if err != nil {
			return created, fmt.Errorf("seed user %s: invalid emailPreferences: %w", u.ID, err)
		}
		err = st.Users().CreateUser(ctx, domain.User{ID: u.ID, Name: u.Name, Email: u.Email, EmailPreferences: prefs})
		if err := create("user", u.ID, err); err != nil {
			return created, err
		}
	}

	for _, p := range fx.Projects {
		err := st.Projects().CreateProject(ctx, domain.Project{ID: p.ID, TenantID: p.TenantID, Title: p.Title})
		if err := create("project", p.ID, err); err != nil {
			return created, err
		}
	}

	for _, t := range fx.Tasks {
		status := domain.TaskStatus(t.Status)
		if status == "" {
			status = domain.TaskStatusTodo
		}
		priority := domain.Priority(t.Priority)
		if priority == "" {
			priority = domain.PriorityMedium
		}
		err := st.Tasks().CreateTask(ctx, domain.Task{
			ID:          t.ID,
			TenantID:    t.TenantID,
			ProjectID:   t.ProjectID,
			Title:       t.Title,
			Description: t.Description,
			AssignedTo:  t.AssignedTo,
			Priority:    priority,
			DueDate:     t.DueDate,
			Status:      status,
			UpdatedBy:   t.UpdatedBy,
		})
		if err := create("task", t.ID, err); err != nil {
			return created, err
		}
	}

	for _, c := range fx.Comments {
		err := st.Comments().CreateComment(ctx, domain.Comment{
			ID:        c.ID,
			TenantID:  c.TenantID,
			ProjectID: c.ProjectID,
			TaskID:    c.TaskID,
			Text:      c.Text,
			CreatedBy: c.CreatedBy,
		})
		if err := create("comment", c.ID, err); err != nil {
			return created, err
		}
	}

	for _, inv := range fx.Invites {
		status := domain.InviteStatus(inv.Status)
		if status == "" {
			status = domain.InviteStatusPending
		}
		err := st.Invites().CreateInvite(ctx, domain.Invite{
			ID:         inv.ID,
			TenantID:   inv.TenantID,
			Email:      inv.Email,
			Role:       inv.Role,
			TenantName: inv.TenantName,
			InvitedBy:  inv.InvitedBy,
			Status:     status,
		})
		if err := create("invite", inv.ID, err); err != nil {
			return created, err
		}
	}

	return created, nil
}
