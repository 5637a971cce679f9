package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/taskmail/pkg/httpx"
	"github.com/aussiebroadwan/taskmail/pkg/notifysdk"
)

// Pinger is the slice of store.Store the readiness probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// readyTimeout bounds the store ping so a wedged database fails the probe
// instead of hanging it.
const readyTimeout = 2 * time.Second

type HealthHandler struct {
	Store   Pinger
	Version string
	Started time.Time
}

// Livez godoc
//
//	@Summary		Liveness Probe
//	@Description	Returns status, uptime and version. Always 200 while the process runs.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	notifysdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func (h *HealthHandler) Livez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.response("ok", nil))
}

// Readyz godoc
//
//	@Summary		Readiness Probe
//	@Description	Pings the document store. 503 while it is unreachable.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	notifysdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	notifysdk.HealthResponse	"store unreachable"
//	@Router			/readyz [get].
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		httpx.WriteJSON(w, http.StatusServiceUnavailable,
			h.response("degraded", &notifysdk.HealthChecks{Database: "error: " + err.Error()}))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.response("ok", &notifysdk.HealthChecks{Database: "ok"}))
}

func (h *HealthHandler) response(status string, checks *notifysdk.HealthChecks) notifysdk.HealthResponse {
	return notifysdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(h.Started).Round(time.Second).String(),
		Version: h.Version,
		Checks:  checks,
	}
}
