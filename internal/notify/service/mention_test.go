package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractMentions(t *testing.T) {
	t.Parallel()

	t.Run("repeated mention counts once", func(t *testing.T) {
		m := ExtractMentions("ping @[Bob](u2) and @[Bob](u2) again", "u1")
		require.Equal(t, []string{"u2"}, m.UserIDs)
		require.Equal(t, "ping Bob and Bob again", m.Text)
	})

	t.Run("no mentions", func(t *testing.T) {
		m := ExtractMentions("just a note", "u1")
		require.Empty(t, m.UserIDs)
		require.Equal(t, "just a note", m.Text)
	})

	t.Run("author is excluded but label still rendered", func(t *testing.T) {
		m := ExtractMentions("@[Me](u1) and @[Ann](u3)", "u1")
		require.Equal(t, []string{"u3"}, m.UserIDs)
		require.Equal(t, "Me and Ann", m.Text)
	})

	t.Run("first appearance order", func(t *testing.T) {
		m := ExtractMentions("@[C](u3) @[A](u1) @[B](u2) @[C](u3)", "")
		require.Equal(t, []string{"u3", "u1", "u2"}, m.UserIDs)
	})

	t.Run("incomplete markup is left alone", func(t *testing.T) {
		m := ExtractMentions("mail me @ home, [x](y) or @[Bob](", "")
		require.Empty(t, m.UserIDs)
		require.Equal(t, "mail me @ home, [x](y) or @[Bob](", m.Text)
	})

	t.Run("adjacent mentions", func(t *testing.T) {
		m := ExtractMentions("@[A](a)@[B](b)", "")
		require.Equal(t, []string{"a", "b"}, m.UserIDs)
		require.Equal(t, "AB", m.Text)
	})
}
