package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface over the project-management
// documents. Concrete drivers (sqlite, postgres) implement this. The notifier
// only reads, apart from the delivery-state fields on invites; the Create
// methods exist for seeding and tests.
type Store interface {
	Tenants() Tenants
	Projects() Projects
	Tasks() Tasks
	Comments() Comments
	Invites() Invites
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Tenants interface {
	GetTenant(ctx context.Context, id string) (domain.Tenant, error)

	// ListTenants returns every tenant. Callers must not rely on ordering.
	ListTenants(ctx context.Context) ([]domain.Tenant, error)

	CreateTenant(ctx context.Context, t domain.Tenant) error
}

type Projects interface {
	GetProject(ctx context.Context, tenantID, projectID string) (domain.Project, error)

	// ListProjects returns the projects of one tenant.
	ListProjects(ctx context.Context, tenantID string) ([]domain.Project, error)

	CreateProject(ctx context.Context, p domain.Project) error
}

type Tasks interface {
	GetTask(ctx context.Context, tenantID, projectID, taskID string) (domain.Task, error)

	// ListDueTasks returns tasks of one project with from <= due_date < to and
	// a status other than done.
	ListDueTasks(ctx context.Context, tenantID, projectID string, from, to time.Time) ([]domain.Task, error)

	CreateTask(ctx context.Context, t domain.Task) error
}

type Comments interface {
	GetComment(ctx context.Context, tenantID, projectID, taskID, commentID string) (domain.Comment, error)

	CreateComment(ctx context.Context, c domain.Comment) error
}

type Invites interface {
	GetInvite(ctx context.Context, ref domain.InviteRef) (domain.Invite, error)

	CreateInvite(ctx context.Context, inv domain.Invite) error

	// MarkInviteEmailSent sets email_sent, email_sent_at and email_id and
	// clears email_error. Returns ErrNotFound when no invite matched.
	MarkInviteEmailSent(ctx context.Context, ref domain.InviteRef, emailID string, at time.Time) error

	// MarkInviteEmailFailed records email_error and email_attempted_at.
	// Returns ErrNotFound when no invite matched.
	MarkInviteEmailFailed(ctx context.Context, ref domain.InviteRef, message string, at time.Time) error
}

type Users interface {
	GetUser(ctx context.Context, id string) (domain.User, error)

	CreateUser(ctx context.Context, u domain.User) error
}
