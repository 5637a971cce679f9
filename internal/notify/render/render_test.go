package render_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/render"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	r, err := render.New("https://app.example.com/", loc)
	require.NoError(t, err)
	return r
}

func TestInvite(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)

	e, err := r.Invite(render.InviteData{
		InviteID: "i1", TenantID: "t1", TenantName: "Acme", InviterName: "Ann", Role: "member", Email: "new@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "You've been invited to join Acme", e.Subject)
	require.Contains(t, e.Text, "Ann invited you to join Acme as member.")
	require.Contains(t, e.Text, "https://app.example.com/invites/i1?tenant=t1")
	require.Contains(t, e.HTML, `href="https://app.example.com/invites/i1?tenant=t1"`)
}

func TestAssignment(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	due := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	e, err := r.Assignment(render.AssignmentData{
		TenantID: "t1", TenantName: "Acme", ProjectID: "p1", ProjectTitle: "Launch",
		TaskID: "k1", TaskTitle: "Write copy", Priority: "high", DueDate: &due,
		AssigneeName: "Bob", AssignerName: "Ann",
	})
	require.NoError(t, err)
	require.Equal(t, "Ann assigned you: Write copy", e.Subject)
	require.Contains(t, e.Text, "Due: Tue, Mar 10")
	require.Contains(t, e.Text, "https://app.example.com/tenants/t1/projects/p1/tasks/k1")

	e, err = r.Assignment(render.AssignmentData{TaskTitle: "No date", AssignerName: "Ann"})
	require.NoError(t, err)
	require.NotContains(t, e.Text, "Due:")
}

func TestCommentSubjectIsMentionAware(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	d := render.CommentData{TaskTitle: "Ship it", AuthorName: "Ann", RecipientName: "Bob", Text: "ping Bob"}

	e, err := r.Comment(d)
	require.NoError(t, err)
	require.Equal(t, "New comment on Ship it", e.Subject)
	require.Contains(t, e.Text, "Ann commented on Ship it")

	d.Mentioned = true
	e, err = r.Comment(d)
	require.NoError(t, err)
	require.Equal(t, "Ann mentioned you on Ship it", e.Subject)
	require.Contains(t, e.Text, "> ping Bob")
}

func TestCommentEscapesHTML(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)

	e, err := r.Comment(render.CommentData{Text: "<script>alert(1)</script>"})
	require.NoError(t, err)
	require.NotContains(t, e.HTML, "<script>")
	require.Contains(t, e.Text, "<script>alert(1)</script>")
}

func TestDigest(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)

	e, err := r.Digest(render.DigestData{
		TenantID: "t1", TenantName: "Acme", RecipientName: "Bob",
		Items: []render.DigestItem{
			{TaskID: "k1", Title: "First", ProjectID: "p1", ProjectTitle: "Launch", Day: render.DayToday, DueDate: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)},
			{TaskID: "k2", Title: "Second", ProjectID: "p1", ProjectTitle: "Launch", Day: render.DayTomorrow, DueDate: time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "You have 2 tasks due soon in Acme", e.Subject)
	require.Contains(t, e.Text, "[Today] First (Launch)")
	require.Contains(t, e.Text, "[Tomorrow] Second (Launch)")
	require.Contains(t, e.HTML, "https://app.example.com/tenants/t1/projects/p1/tasks/k2")

	e, err = r.Digest(render.DigestData{TenantName: "Acme", Items: []render.DigestItem{{Title: "Only", Day: render.DayToday}}})
	require.NoError(t, err)
	require.Equal(t, "You have 1 task due soon in Acme", e.Subject)
}
