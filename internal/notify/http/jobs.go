package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskmail/internal/notify/service"
	"github.com/aussiebroadwan/taskmail/pkg/httpx"
	"github.com/aussiebroadwan/taskmail/pkg/notifysdk"
)

type RemindersJobHandler struct {
	Dispatcher *service.Dispatcher
}

// ServeHTTP godoc
//
//	@Summary		Run Due Reminders
//	@Description	Runs one due-reminder pass synchronously, outside the cron schedule.
//	@Tags			Jobs
//	@Produce		json
//	@Success		200	{object}	notifysdk.DispatchResponse	"run result"
//	@Failure		401	{object}	notifysdk.ErrorResponse		"invalid token"
//	@Failure		403	{object}	notifysdk.ErrorResponse		"insufficient scope"
//	@Failure		500	{object}	notifysdk.ErrorResponse		"run failed"
//	@Security		BearerAuth
//	@Router			/v1/jobs/due-reminders [post].
func (h *RemindersJobHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	eventID := service.NewReminderRunID()

	res, err := h.Dispatcher.DueReminders(r.Context(), eventID)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, notifysdk.ErrorCodeDispatchFailed, err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dispatchResponse(eventID, res))
}
