package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/aussiebroadwan/taskmail/internal/notify/store"
	"github.com/aussiebroadwan/taskmail/internal/notify/store/drivers/postgres"
	"github.com/aussiebroadwan/taskmail/pkg/idx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway postgres container and returns its URL.
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "notify",
				"POSTGRES_PASSWORD": "notify",
				"POSTGRES_DB":       "notify",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://notify:notify@%s:%s/notify?sslmode=disable", host, port.Port())
}

func newTestStore(t *testing.T) *postgres.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	url := os.Getenv("NOTIFY_TEST_DATABASE_URL")
	if url == "" {
		url = startPostgres(t)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := postgres.NewStore(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestPostgresStore(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Unique ids keep reruns against the same database independent.
	tenantID := idx.Prefixed("tenant")
	require.NoError(t, st.Tenants().CreateTenant(ctx, domain.Tenant{ID: tenantID, Name: "Acme"}))
	require.ErrorIs(t, st.Tenants().CreateTenant(ctx, domain.Tenant{ID: tenantID}), store.ErrAlreadyExists)
	require.NoError(t, st.Projects().CreateProject(ctx, domain.Project{ID: "p1", TenantID: tenantID, Title: "Launch"}))

	from := time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)
	inside := from.Add(2 * time.Hour)
	outside := from.Add(48 * time.Hour)
	require.NoError(t, st.Tasks().CreateTask(ctx, domain.Task{ID: "in", TenantID: tenantID, ProjectID: "p1", DueDate: &inside, AssignedTo: "u1"}))
	require.NoError(t, st.Tasks().CreateTask(ctx, domain.Task{ID: "out", TenantID: tenantID, ProjectID: "p1", DueDate: &outside}))

	due, err := st.Tasks().ListDueTasks(ctx, tenantID, "p1", from, from.Add(48*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, "in", due[0].ID)
	require.True(t, due[0].DueDate.Equal(inside))

	_, err = st.Tasks().GetTask(ctx, tenantID, "p1", "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	userID := idx.Prefixed("user")
	require.NoError(t, st.Users().CreateUser(ctx, domain.User{
		ID: userID, Email: "ann@example.com",
		EmailPreferences: &domain.EmailPreferences{DueReminders: domain.PreferenceOff},
	}))
	u, err := st.Users().GetUser(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, domain.PreferenceOff, u.EmailPreferences.DueReminders)

	inv := domain.Invite{ID: "i1", TenantID: tenantID, Email: "new@example.com"}
	require.NoError(t, st.Invites().CreateInvite(ctx, inv))
	require.NoError(t, st.Invites().MarkInviteEmailSent(ctx, inv.Ref(), "msg_1", time.Now()))

	got, err := st.Invites().GetInvite(ctx, inv.Ref())
	require.NoError(t, err)
	require.True(t, got.EmailSent)
	require.Equal(t, "msg_1", got.EmailID)
	require.NotNil(t, got.EmailSentAt)

	missing := domain.InviteRef{TenantID: tenantID, InviteID: "nope"}
	require.ErrorIs(t, st.Invites().MarkInviteEmailFailed(ctx, missing, "x", time.Now()), store.ErrNotFound)
}
