package idx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/taskmail/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAtEncodesTime(t *testing.T) {
	at := time.Date(2026, 3, 4, 9, 0, 0, 123_000_000, time.UTC)
	id := idx.NewAt(at)
	require.Len(t, id.String(), 26)

	got, err := id.Time()
	require.NoError(t, err)
	require.True(t, got.Equal(at), "got %s", got)
}

func TestIDsSortByCreation(t *testing.T) {
	a := idx.NewAt(time.Unix(1, 0))
	b := idx.NewAt(time.Unix(2, 0))
	require.Less(t, a.String(), b.String())

	same := time.Unix(1700000000, 0)
	first, second := idx.NewAt(same), idx.NewAt(same)
	require.NotEqual(t, first, second)
	require.Less(t, first.String(), second.String())
}

func TestPrefixedRoundTrip(t *testing.T) {
	s := idx.Prefixed("reminders")

	kind, id := idx.Split(s)
	require.Equal(t, "reminders", kind)
	_, err := id.Time()
	require.NoError(t, err)

	kind, id = idx.Split("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.Empty(t, kind)
	require.Equal(t, idx.ID("01ARZ3NDEKTSV4RRFFQ69G5FAV"), id)

	_, err = idx.ID("not-an-id").Time()
	require.Error(t, err)
}
