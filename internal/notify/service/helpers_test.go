package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/aussiebroadwan/taskmail/internal/notify/mailer"
	"github.com/aussiebroadwan/taskmail/internal/notify/render"
	"github.com/aussiebroadwan/taskmail/internal/notify/store"
	"github.com/aussiebroadwan/taskmail/internal/notify/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

// testNow is 10:00 in New York on Tuesday 10 March 2026.
var testNow = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// recordingMailer captures every message. failFor makes sends to the listed
// addresses fail.
type recordingMailer struct {
	mu      sync.Mutex
	sent    []mailer.Message
	failFor map[string]error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failFor[msg.To]; ok {
		return "", err
	}
	m.sent = append(m.sent, msg)
	return "em_" + msg.To, nil
}

func (m *recordingMailer) Messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

func (m *recordingMailer) To() []string {
	var out []string
	for _, msg := range m.Messages() {
		out = append(out, msg.To)
	}
	return out
}

// panicRenderer wraps a real renderer and panics for comment emails.
type panicRenderer struct {
	Renderer
}

func (panicRenderer) Comment(render.CommentData) (render.Email, error) {
	panic("template exploded")
}

func (panicRenderer) Invite(render.InviteData) (render.Email, error) {
	panic(errors.New("template exploded"))
}

func newDispatcher(t *testing.T, st store.Store, m mailer.Sender) *Dispatcher {
	t.Helper()
	loc := newYork(t)

	r, err := render.New("https://app.test", loc)
	require.NoError(t, err)

	now := func() time.Time { return testNow }
	return &Dispatcher{
		Store:    st,
		Mailer:   m,
		Renderer: r,
		Tracker:  NewTracker(st.Invites(), now),
		From:     "Tasks <noreply@example.com>",
		Location: loc,
		Now:      now,
	}
}

// seed helpers

func seedTenant(t *testing.T, st store.Store, id, name string, projects ...domain.Project) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.Tenants().CreateTenant(ctx, domain.Tenant{ID: id, Name: name}))
	for _, p := range projects {
		p.TenantID = id
		require.NoError(t, st.Projects().CreateProject(ctx, p))
	}
}

func seedUser(t *testing.T, st store.Store, u domain.User) {
	t.Helper()
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
}

func seedTask(t *testing.T, st store.Store, task domain.Task) {
	t.Helper()
	require.NoError(t, st.Tasks().CreateTask(context.Background(), task))
}

func opt(p domain.Preference) *domain.EmailPreferences {
	return &domain.EmailPreferences{TaskAssigned: p, DueReminders: p, Comments: p}
}

func ptr[T any](v T) *T { return &v }

// faultyStore fails selected queries and passes the rest through.
type faultyStore struct {
	store.Store
	listTenantsErr error
	dueTasksErr    map[string]error // project id -> error
	userErr        map[string]error // user id -> error
}

func (f *faultyStore) Tenants() store.Tenants {
	return faultyTenants{Tenants: f.Store.Tenants(), err: f.listTenantsErr}
}

func (f *faultyStore) Tasks() store.Tasks {
	return faultyTasks{Tasks: f.Store.Tasks(), errs: f.dueTasksErr}
}

func (f *faultyStore) Users() store.Users {
	return faultyUsers{Users: f.Store.Users(), errs: f.userErr}
}

type faultyTenants struct {
	store.Tenants
	err error
}

func (f faultyTenants) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.Tenants.ListTenants(ctx)
}

type faultyTasks struct {
	store.Tasks
	errs map[string]error
}

func (f faultyTasks) ListDueTasks(ctx context.Context, tenantID, projectID string, from, to time.Time) ([]domain.Task, error) {
	if err, ok := f.errs[projectID]; ok {
		return nil, err
	}
	return f.Tasks.ListDueTasks(ctx, tenantID, projectID, from, to)
}

type faultyUsers struct {
	store.Users
	errs map[string]error
}

func (f faultyUsers) GetUser(ctx context.Context, id string) (domain.User, error) {
	if err, ok := f.errs[id]; ok {
		return domain.User{}, err
	}
	return f.Users.GetUser(ctx, id)
}
