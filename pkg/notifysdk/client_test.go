package notifysdk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/aussiebroadwan/taskmail/pkg/httpx"
	"github.com/aussiebroadwan/taskmail/pkg/notifysdk"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
)

const baseURL = "http://notifier.test"

func newMockedClient(t *testing.T, token notifysdk.TokenSource) *notifysdk.Client {
	t.Helper()
	c := notifysdk.NewClient(baseURL+"/", token)
	httpmock.ActivateNonDefault(c.HTTPClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestSendEvent(t *testing.T) {
	c := newMockedClient(t, notifysdk.SigningToken("s3cret", "tasks-platform", "platform", notifysdk.ScopeEventsWrite))

	httpmock.RegisterResponder(http.MethodPost, baseURL+"/v1/events",
		func(req *http.Request) (*http.Response, error) {
			// The minted token must verify with the shared secret.
			raw := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
			v := &httpx.HMACVerifier{Secret: func() string { return "s3cret" }, Issuer: "tasks-platform"}
			claims, err := v.Verify(raw)
			if err != nil {
				return httpmock.NewStringResponse(http.StatusUnauthorized, `{"error":"invalid_token"}`), nil
			}

			var ev notifysdk.Event
			if err := json.NewDecoder(req.Body).Decode(&ev); err != nil {
				return httpmock.NewStringResponse(http.StatusBadRequest, `{"error":"invalid_request"}`), nil
			}
			return httpmock.NewJsonResponse(http.StatusOK, notifysdk.DispatchResponse{
				EventID: ev.ID,
				Kind:    "comment",
				State:   "RECORDED",
				Sent:    len(claims.Scopes()),
			})
		})

	res, err := c.SendEvent(context.Background(), notifysdk.Event{
		ID:     "evt_1",
		Type:   notifysdk.EventCommentCreated,
		Params: notifysdk.EventParams{TenantID: "t1", ProjectID: "p1", TaskID: "k1", CommentID: "c1"},
	})
	require.NoError(t, err)
	require.Equal(t, "evt_1", res.EventID)
	require.Equal(t, "RECORDED", res.State)
	require.Equal(t, 1, res.Sent)
}

func TestErrorResponses(t *testing.T) {
	c := newMockedClient(t, notifysdk.StaticToken("token"))

	httpmock.RegisterResponder(http.MethodPost, baseURL+"/v1/jobs/due-reminders",
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"error":"dispatch_failed","error_description":"store offline"}`))
	httpmock.RegisterResponder(http.MethodPost, baseURL+"/v1/events",
		httpmock.NewStringResponder(http.StatusBadRequest, `not json`))

	_, err := c.RunDueReminders(context.Background())
	var apiErr *notifysdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, notifysdk.ErrorCodeDispatchFailed, apiErr.Code)
	require.Equal(t, "store offline", apiErr.Description)
	require.True(t, notifysdk.IsRetryable(err))

	_, err = c.SendEvent(context.Background(), notifysdk.Event{ID: "evt"})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, notifysdk.ErrorCodeServerError, apiErr.Code)
	require.False(t, notifysdk.IsRetryable(err))
}

func TestHealthIsUnauthenticated(t *testing.T) {
	c := newMockedClient(t, nil)

	httpmock.RegisterResponder(http.MethodGet, baseURL+"/livez",
		func(req *http.Request) (*http.Response, error) {
			require.Empty(t, req.Header.Get("Authorization"))
			return httpmock.NewJsonResponse(http.StatusOK, notifysdk.HealthResponse{Status: "ok", Version: "dev"})
		})

	health, err := c.GetLiveness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
}
