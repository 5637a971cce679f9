package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/aussiebroadwan/taskmail/internal/notify/store"
	"github.com/aussiebroadwan/taskmail/internal/notify/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedProject(t *testing.T, st store.Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, st.Tenants().CreateTenant(ctx, domain.Tenant{ID: "t1", Name: "Acme", Slug: "acme"}))
	require.NoError(t, st.Projects().CreateProject(ctx, domain.Project{ID: "p1", TenantID: "t1", Title: "Launch"}))
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(context.Background()))
}

func TestTenantsAndProjects(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedProject(t, st)

	tenant, err := st.Tenants().GetTenant(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "Acme", tenant.Name)

	_, err = st.Tenants().GetTenant(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = st.Tenants().CreateTenant(ctx, domain.Tenant{ID: "t1"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	project, err := st.Projects().GetProject(ctx, "t1", "p1")
	require.NoError(t, err)
	require.Equal(t, "Launch", project.Title)

	_, err = st.Projects().GetProject(ctx, "other", "p1")
	require.ErrorIs(t, err, store.ErrNotFound)

	projects, err := st.Projects().ListProjects(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, projects, 1)
}

func TestListDueTasksWindow(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedProject(t, st)

	from := time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)
	at := func(d time.Duration) *time.Time {
		v := from.Add(d)
		return &v
	}

	tasks := []domain.Task{
		{ID: "start", DueDate: at(0)},
		{ID: "inside", DueDate: at(30 * time.Hour), AssignedTo: "u1"},
		{ID: "end", DueDate: at(48 * time.Hour)},
		{ID: "before", DueDate: at(-time.Millisecond)},
		{ID: "done", DueDate: at(time.Hour), Status: domain.TaskStatusDone},
		{ID: "undated"},
	}
	for _, task := range tasks {
		task.TenantID, task.ProjectID, task.Title = "t1", "p1", task.ID
		require.NoError(t, st.Tasks().CreateTask(ctx, task))
	}

	due, err := st.Tasks().ListDueTasks(ctx, "t1", "p1", from, to)
	require.NoError(t, err)

	var ids []string
	for _, task := range due {
		ids = append(ids, task.ID)
	}
	require.Equal(t, []string{"start", "inside"}, ids)
	require.Equal(t, "u1", due[1].AssignedTo)
	require.True(t, due[1].DueDate.Equal(*at(30 * time.Hour)))
	require.Equal(t, domain.PriorityMedium, due[0].Priority)
}

func TestCommentsRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedProject(t, st)

	require.NoError(t, st.Tasks().CreateTask(ctx, domain.Task{ID: "k1", TenantID: "t1", ProjectID: "p1", Title: "Ship"}))
	require.NoError(t, st.Comments().CreateComment(ctx, domain.Comment{
		ID: "c1", TenantID: "t1", ProjectID: "p1", TaskID: "k1", Text: "hi @[Bob](u2)", CreatedBy: "u1",
	}))

	c, err := st.Comments().GetComment(ctx, "t1", "p1", "k1", "c1")
	require.NoError(t, err)
	require.Equal(t, "hi @[Bob](u2)", c.Text)

	_, err = st.Comments().GetComment(ctx, "t1", "p1", "k1", "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestInviteDeliveryState(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedProject(t, st)

	inv := domain.Invite{ID: "i1", TenantID: "t1", Email: "new@example.com", Role: "member", TenantName: "Acme"}
	require.NoError(t, st.Invites().CreateInvite(ctx, inv))

	got, err := st.Invites().GetInvite(ctx, inv.Ref())
	require.NoError(t, err)
	require.Equal(t, domain.InviteStatusPending, got.Status)
	require.False(t, got.EmailSent)

	failedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, st.Invites().MarkInviteEmailFailed(ctx, inv.Ref(), "smtp down", failedAt))

	got, err = st.Invites().GetInvite(ctx, inv.Ref())
	require.NoError(t, err)
	require.False(t, got.EmailSent)
	require.Equal(t, "smtp down", got.EmailError)
	require.True(t, got.EmailAttemptedAt.Equal(failedAt))

	sentAt := failedAt.Add(time.Minute)
	require.NoError(t, st.Invites().MarkInviteEmailSent(ctx, inv.Ref(), "msg_1", sentAt))

	got, err = st.Invites().GetInvite(ctx, inv.Ref())
	require.NoError(t, err)
	require.True(t, got.EmailSent)
	require.Equal(t, "msg_1", got.EmailID)
	require.Empty(t, got.EmailError)
	require.True(t, got.EmailSentAt.Equal(sentAt))

	missing := domain.InviteRef{TenantID: "t1", InviteID: "nope"}
	require.ErrorIs(t, st.Invites().MarkInviteEmailSent(ctx, missing, "x", sentAt), store.ErrNotFound)
	require.ErrorIs(t, st.Invites().MarkInviteEmailFailed(ctx, missing, "x", sentAt), store.ErrNotFound)
}

func TestUserPreferencesPersist(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.Users().CreateUser(ctx, domain.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}))
	require.NoError(t, st.Users().CreateUser(ctx, domain.User{
		ID: "u2", Email: "bob@example.com",
		EmailPreferences: &domain.EmailPreferences{Comments: domain.PreferenceOff},
	}))

	u1, err := st.Users().GetUser(ctx, "u1")
	require.NoError(t, err)
	require.Nil(t, u1.EmailPreferences)

	u2, err := st.Users().GetUser(ctx, "u2")
	require.NoError(t, err)
	require.NotNil(t, u2.EmailPreferences)
	require.Equal(t, domain.PreferenceOff, u2.EmailPreferences.Comments)
	require.Equal(t, domain.PreferenceUnset, u2.EmailPreferences.TaskAssigned)

	_, err = st.Users().GetUser(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}
