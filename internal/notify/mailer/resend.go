package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const DefaultResendBaseURL = "https://api.resend.com"

// Ensure Resend implements Sender
var _ Sender = (*Resend)(nil)

type ResendConfig struct {
	// APIKey is read on every send so a rotated secret takes effect without
	// a restart.
	APIKey func() string

	BaseURL string

	// RatePerSec paces outbound calls. Zero or less disables pacing.
	RatePerSec float64

	HTTPClient *http.Client
}

// Resend sends email through the Resend HTTP API.
type Resend struct {
	apiKey  func() string
	baseURL string
	limiter *rate.Limiter
	http    *http.Client
}

func NewResend(cfg ResendConfig) *Resend {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultResendBaseURL
	}

	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	apiKey := cfg.APIKey
	if apiKey == nil {
		apiKey = func() string { return "" }
	}

	return &Resend{
		apiKey:  apiKey,
		baseURL: baseURL,
		limiter: rate.NewLimiter(limit, 1),
		http:    client,
	}
}

type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

func (r *Resend) Send(ctx context.Context, msg Message) (id string, err error) {
	start := time.Now()
	defer func() { observe("resend", start, err) }()

	if err := validate(msg); err != nil {
		return "", err
	}

	apiKey := r.apiKey()
	if apiKey == "" {
		return "", fmt.Errorf("%w: resend api key is empty", ErrNotConfigured)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}

	buf, err := json.Marshal(resendEmail{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/emails", bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("resend request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("resend read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{}
		if json.Unmarshal(body, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		apiErr.StatusCode = resp.StatusCode
		return "", apiErr
	}

	var out resendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("resend decode response: %w", err)
	}
	return out.ID, nil
}
