// Package notifysdk is a client for the notification service.
//
// The event platform, operators and the end-to-end suite use it to deliver
// document events and to trigger reminder runs:
//
//	client := notifysdk.NewClient("http://localhost:8080",
//		notifysdk.SigningToken(secret, "tasks-platform", "platform", notifysdk.ScopeEventsWrite))
//
//	res, err := client.SendEvent(ctx, notifysdk.Event{
//		ID:     "evt_123",
//		Type:   notifysdk.EventCommentCreated,
//		Params: notifysdk.EventParams{TenantID: "t1", ProjectID: "p1", TaskID: "k1", CommentID: "c1"},
//	})
//
// Every non-2xx response is returned as an *APIError.
package notifysdk
