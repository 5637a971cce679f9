package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, b *DigestBuilder) ([]Digest, error) {
	t.Helper()
	var out []Digest
	for dg, err := range b.Build(context.Background(), testNow) {
		if err != nil {
			return out, err
		}
		out = append(out, dg)
	}
	return out, nil
}

func TestDigestGrouping(t *testing.T) {
	st := newTestStore(t)
	loc := newYork(t)
	seedTenant(t, st, "t1", "Acme", domain.Project{ID: "p1", Title: "Launch"})

	today := time.Date(2026, 3, 10, 17, 0, 0, 0, loc)
	tomorrow := time.Date(2026, 3, 11, 9, 0, 0, 0, loc)
	seedTask(t, st, domain.Task{ID: "k1", TenantID: "t1", ProjectID: "p1", Title: "A today", AssignedTo: "A", DueDate: &today})
	seedTask(t, st, domain.Task{ID: "k2", TenantID: "t1", ProjectID: "p1", Title: "A tomorrow", AssignedTo: "A", DueDate: &tomorrow})
	seedTask(t, st, domain.Task{ID: "k3", TenantID: "t1", ProjectID: "p1", Title: "B today", AssignedTo: "B", DueDate: &today})

	digests, err := collect(t, &DigestBuilder{Store: st, Location: loc})
	require.NoError(t, err)
	require.Len(t, digests, 2)

	byUser := map[string]Digest{}
	for _, dg := range digests {
		byUser[dg.UserID] = dg
	}
	require.Len(t, byUser["A"].Items, 2)
	require.Len(t, byUser["B"].Items, 1)
	require.Equal(t, "Acme", byUser["A"].TenantName)

	days := map[string]string{}
	for _, it := range byUser["A"].Items {
		days[it.TaskID] = it.Day
		require.Equal(t, "Launch", it.ProjectTitle)
	}
	require.Equal(t, map[string]string{"k1": DayToday, "k2": DayTomorrow}, days)
}

func TestDigestScopedPerTenant(t *testing.T) {
	st := newTestStore(t)
	loc := newYork(t)
	due := time.Date(2026, 3, 10, 17, 0, 0, 0, loc)

	seedTenant(t, st, "t1", "Acme", domain.Project{ID: "p1"}, domain.Project{ID: "p2"})
	seedTenant(t, st, "t2", "Globex", domain.Project{ID: "p1"})
	seedTask(t, st, domain.Task{ID: "k1", TenantID: "t1", ProjectID: "p1", AssignedTo: "A", DueDate: &due})
	seedTask(t, st, domain.Task{ID: "k2", TenantID: "t1", ProjectID: "p2", AssignedTo: "A", DueDate: &due})
	seedTask(t, st, domain.Task{ID: "k3", TenantID: "t2", ProjectID: "p1", AssignedTo: "A", DueDate: &due})

	digests, err := collect(t, &DigestBuilder{Store: st, Location: loc})
	require.NoError(t, err)
	require.Len(t, digests, 2, "one digest per tenant for the same assignee")

	counts := map[string]int{}
	for _, dg := range digests {
		require.Equal(t, "A", dg.UserID)
		counts[dg.TenantID] = len(dg.Items)
	}
	require.Equal(t, map[string]int{"t1": 2, "t2": 1}, counts)

	// Projects without titles fall back to the placeholder.
	require.Equal(t, domain.UnknownProjectTitle, digests[0].Items[0].ProjectTitle)
}

func TestDigestSelection(t *testing.T) {
	st := newTestStore(t)
	loc := newYork(t)
	seedTenant(t, st, "t1", "", domain.Project{ID: "p1", Title: "Launch"})

	inside := time.Date(2026, 3, 11, 20, 0, 0, 0, loc)
	yesterday := time.Date(2026, 3, 9, 23, 59, 0, 0, loc)
	dayAfter := time.Date(2026, 3, 12, 0, 0, 0, 0, loc)

	seedTask(t, st, domain.Task{ID: "ok", TenantID: "t1", ProjectID: "p1", AssignedTo: "A", DueDate: &inside})
	seedTask(t, st, domain.Task{ID: "unassigned", TenantID: "t1", ProjectID: "p1", DueDate: &inside})
	seedTask(t, st, domain.Task{ID: "done", TenantID: "t1", ProjectID: "p1", AssignedTo: "A", DueDate: &inside, Status: domain.TaskStatusDone})
	seedTask(t, st, domain.Task{ID: "past", TenantID: "t1", ProjectID: "p1", AssignedTo: "A", DueDate: &yesterday})
	seedTask(t, st, domain.Task{ID: "later", TenantID: "t1", ProjectID: "p1", AssignedTo: "A", DueDate: &dayAfter})
	seedTask(t, st, domain.Task{ID: "undated", TenantID: "t1", ProjectID: "p1", AssignedTo: "A"})

	digests, err := collect(t, &DigestBuilder{Store: st, Location: loc})
	require.NoError(t, err)
	require.Len(t, digests, 1)
	require.Len(t, digests[0].Items, 1)
	require.Equal(t, "ok", digests[0].Items[0].TaskID)
	require.Equal(t, DayTomorrow, digests[0].Items[0].Day)
	require.Equal(t, domain.UnknownTenantName, digests[0].TenantName)
}

func TestDigestAssigneeOrder(t *testing.T) {
	st := newTestStore(t)
	loc := newYork(t)
	seedTenant(t, st, "t1", "Acme", domain.Project{ID: "p1"})

	first := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
	second := first.Add(time.Hour)
	third := second.Add(time.Hour)
	seedTask(t, st, domain.Task{ID: "k1", TenantID: "t1", ProjectID: "p1", AssignedTo: "Z", DueDate: &first})
	seedTask(t, st, domain.Task{ID: "k2", TenantID: "t1", ProjectID: "p1", AssignedTo: "A", DueDate: &second})
	seedTask(t, st, domain.Task{ID: "k3", TenantID: "t1", ProjectID: "p1", AssignedTo: "Z", DueDate: &third})

	digests, err := collect(t, &DigestBuilder{Store: st, Location: loc})
	require.NoError(t, err)
	require.Equal(t, "Z", digests[0].UserID)
	require.Equal(t, "A", digests[1].UserID)
}

func TestDigestFailedProjectIsSkipped(t *testing.T) {
	st := newTestStore(t)
	loc := newYork(t)
	due := time.Date(2026, 3, 10, 17, 0, 0, 0, loc)
	seedTenant(t, st, "t1", "Acme", domain.Project{ID: "bad"}, domain.Project{ID: "good"})
	seedTask(t, st, domain.Task{ID: "k1", TenantID: "t1", ProjectID: "bad", AssignedTo: "A", DueDate: &due})
	seedTask(t, st, domain.Task{ID: "k2", TenantID: "t1", ProjectID: "good", AssignedTo: "A", DueDate: &due})

	fs := &faultyStore{Store: st, dueTasksErr: map[string]error{"bad": errors.New("index missing")}}
	digests, err := collect(t, &DigestBuilder{Store: fs, Location: loc})
	require.NoError(t, err)
	require.Len(t, digests, 1)
	require.Len(t, digests[0].Items, 1)
	require.Equal(t, "k2", digests[0].Items[0].TaskID)
}

func TestDigestTenantListingFailureEndsRun(t *testing.T) {
	st := newTestStore(t)
	boom := errors.New("store offline")

	_, err := collect(t, &DigestBuilder{Store: &faultyStore{Store: st, listTenantsErr: boom}})
	require.ErrorIs(t, err, boom)
}

func TestDigestStopsWhenConsumerStops(t *testing.T) {
	st := newTestStore(t)
	loc := newYork(t)
	due := time.Date(2026, 3, 10, 17, 0, 0, 0, loc)
	seedTenant(t, st, "t1", "Acme", domain.Project{ID: "p1"})
	seedTask(t, st, domain.Task{ID: "k1", TenantID: "t1", ProjectID: "p1", AssignedTo: "A", DueDate: &due})
	seedTask(t, st, domain.Task{ID: "k2", TenantID: "t1", ProjectID: "p1", AssignedTo: "B", DueDate: &due})

	n := 0
	for range (&DigestBuilder{Store: st, Location: loc}).Build(context.Background(), testNow) {
		n++
		break
	}
	require.Equal(t, 1, n)
}
