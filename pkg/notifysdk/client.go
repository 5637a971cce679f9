package notifysdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskmail/pkg/httpx"
	"github.com/golang-jwt/jwt/v5"
)

// TokenSource returns the bearer token for the next request.
type TokenSource func() (string, error)

// StaticToken always returns token.
func StaticToken(token string) TokenSource {
	return func() (string, error) { return token, nil }
}

// SigningToken mints a short-lived HS256 token per request, the way the
// event platform authenticates.
func SigningToken(secret, issuer, subject string, scopes ...string) TokenSource {
	return func() (string, error) {
		now := time.Now()
		return httpx.SignHS256(secret, &httpx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				Subject:   subject,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			},
			Scope: strings.Join(scopes, " "),
		})
	}
}

// Client talks to the notification service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      TokenSource // nil for unauthenticated calls only
}

func NewClient(baseURL string, token TokenSource) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Token:      token,
	}
}

// SendEvent delivers one document event. Skipped events are successes.
func (c *Client) SendEvent(ctx context.Context, ev Event) (*DispatchResponse, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}

	var out DispatchResponse
	if err := c.do(ctx, http.MethodPost, "/v1/events", body, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RunDueReminders triggers one reminder run and waits for it to finish.
func (c *Client) RunDueReminders(ctx context.Context) (*DispatchResponse, error) {
	var out DispatchResponse
	if err := c.do(ctx, http.MethodPost, "/v1/jobs/due-reminders", nil, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", nil, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", nil, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, auth bool, target any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && c.Token != nil {
		token, err := c.Token()
		if err != nil {
			return fmt.Errorf("failed to obtain token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseErrorResponse(resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
