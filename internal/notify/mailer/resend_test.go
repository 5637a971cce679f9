package mailer_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/taskmail/internal/notify/mailer"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://resend.test"

func newResend(t *testing.T, key *string) *mailer.Resend {
	t.Helper()

	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)

	return mailer.NewResend(mailer.ResendConfig{
		APIKey:     func() string { return *key },
		BaseURL:    testBaseURL,
		HTTPClient: client,
	})
}

func TestResendSend(t *testing.T) {
	key := "re_test"
	r := newResend(t, &key)

	var got map[string]any
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/emails",
		func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "Bearer re_test", req.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
			return httpmock.NewStringResponse(http.StatusOK, `{"id":"em_123"}`), nil
		},
	)

	id, err := r.Send(context.Background(), mailer.Message{
		From:    "Tasks <noreply@example.com>",
		To:      "ann@example.com",
		Subject: "Hello",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	})
	require.NoError(t, err)
	require.Equal(t, "em_123", id)
	require.Equal(t, []any{"ann@example.com"}, got["to"])
	require.Equal(t, "Hello", got["subject"])
	require.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestResendReadsKeyAtCallTime(t *testing.T) {
	key := ""
	r := newResend(t, &key)
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/emails",
		func(req *http.Request) (*http.Response, error) {
			return httpmock.NewStringResponse(http.StatusOK, `{"id":"em_`+req.Header.Get("Authorization")[len("Bearer "):]+`"}`), nil
		},
	)

	msg := mailer.Message{From: "a@example.com", To: "b@example.com", Subject: "s", Text: "t"}

	_, err := r.Send(context.Background(), msg)
	require.ErrorIs(t, err, mailer.ErrNotConfigured)
	require.Zero(t, httpmock.GetTotalCallCount())

	key = "rotated"
	id, err := r.Send(context.Background(), msg)
	require.NoError(t, err)
	require.Equal(t, "em_rotated", id)
}

func TestResendAPIError(t *testing.T) {
	key := "re_test"
	r := newResend(t, &key)
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/emails",
		httpmock.NewStringResponder(http.StatusUnprocessableEntity,
			`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`),
	)

	_, err := r.Send(context.Background(), mailer.Message{From: "a@example.com", To: "nope", Subject: "s"})
	require.Error(t, err)

	var apiErr *mailer.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.Equal(t, "validation_error", apiErr.Name)
	require.Equal(t, "Invalid to field", apiErr.Message)
}

func TestResendNonJSONError(t *testing.T) {
	key := "re_test"
	r := newResend(t, &key)
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/emails",
		httpmock.NewStringResponder(http.StatusBadGateway, "upstream down"),
	)

	_, err := r.Send(context.Background(), mailer.Message{From: "a@example.com", To: "b@example.com"})

	var apiErr *mailer.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, "upstream down", apiErr.Message)
}

func TestResendRejectsEmptyRecipient(t *testing.T) {
	key := "re_test"
	r := newResend(t, &key)

	_, err := r.Send(context.Background(), mailer.Message{From: "a@example.com"})
	require.ErrorIs(t, err, mailer.ErrNoRecipient)
	require.Zero(t, httpmock.GetTotalCallCount())
}
