package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSMTPSendBuildsMultipartMessage(t *testing.T) {
	s := NewSMTP(SMTPConfig{Host: "mail.example.com", Port: 2525, Username: "u", Password: "p"})

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
		gotAuth smtp.Auth
	)
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg, gotAuth = addr, to, string(msg), a
		return nil
	}

	id, err := s.Send(context.Background(), Message{
		From:    "noreply@example.com",
		To:      "ann@example.com",
		Subject: "Due soon",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, "mail.example.com:2525", gotAddr)
	require.Equal(t, []string{"ann@example.com"}, gotTo)
	require.NotNil(t, gotAuth)
	require.Contains(t, gotMsg, "Subject: Due soon\r\n")
	require.Contains(t, gotMsg, "Message-ID: <"+id+"@mail.example.com>")
	require.Contains(t, gotMsg, "multipart/alternative")
	require.Contains(t, gotMsg, "text/plain; charset=utf-8")
	require.Contains(t, gotMsg, "text/html; charset=utf-8")
	require.True(t, strings.Index(gotMsg, "text/plain") < strings.Index(gotMsg, "text/html"))
}

func TestSMTPSendErrors(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{}).Send(context.Background(), Message{To: "a@example.com"})
	require.ErrorIs(t, err, ErrNotConfigured)

	s := NewSMTP(SMTPConfig{Host: "mail.example.com", Port: 25})
	boom := errors.New("connection refused")
	s.send = func(string, smtp.Auth, string, []string, []byte) error { return boom }

	_, err = s.Send(context.Background(), Message{To: "a@example.com"})
	require.ErrorIs(t, err, boom)

	_, err = s.Send(context.Background(), Message{})
	require.ErrorIs(t, err, ErrNoRecipient)
}

func TestLogSender(t *testing.T) {
	id, err := Log{}.Send(context.Background(), Message{To: "a@example.com", Subject: "s"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(id, "log_"))
}
