package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"time"

	"github.com/aussiebroadwan/taskmail/pkg/idx"
)

// Ensure SMTP implements Sender
var _ Sender = (*SMTP)(nil)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTP relays messages through a mail server. The delivery id is generated
// locally and set as the Message-ID.
type SMTP struct {
	cfg SMTPConfig

	// send is smtp.SendMail, swappable in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	return &SMTP{cfg: cfg, send: smtp.SendMail}
}

func (s *SMTP) Send(ctx context.Context, msg Message) (id string, err error) {
	start := time.Now()
	defer func() { observe("smtp", start, err) }()

	if err := validate(msg); err != nil {
		return "", err
	}
	if s.cfg.Host == "" {
		return "", fmt.Errorf("%w: smtp host is empty", ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id = idx.New().String()
	raw, err := buildMIME(msg, id, s.cfg.Host)
	if err != nil {
		return "", err
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, auth, msg.From, []string{msg.To}, raw); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return id, nil
}

// buildMIME renders msg as multipart/alternative with a text and an HTML part.
func buildMIME(msg Message, id, host string) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.HTML},
	}
	for _, p := range parts {
		if p.content == "" {
			continue
		}
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "From: %s\r\n", msg.From)
	fmt.Fprintf(&out, "To: %s\r\n", msg.To)
	fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&out, "Message-ID: <%s@%s>\r\n", id, host)
	fmt.Fprintf(&out, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&out, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())
	out.Write(body.Bytes())
	return out.Bytes(), nil
}
