package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/service"
	"github.com/aussiebroadwan/taskmail/internal/notify/store"
	"github.com/aussiebroadwan/taskmail/pkg/httpx"
	"github.com/aussiebroadwan/taskmail/pkg/notifysdk"
	"github.com/aussiebroadwan/taskmail/pkg/slogx"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/taskmail/api/notify" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     httpx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	validate     *validator.Validate

	store      store.Store
	Dispatcher *service.Dispatcher
}

func NewRouter(
	verifier httpx.Verifier,
	buildVersion string,
	st store.Store,
	dispatcher *service.Dispatcher,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		store:        st,
		Dispatcher:   dispatcher,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerEvents()
	r.registerJobs()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Task Notification Service API
//	@version		0.1.0
//	@description	Turns project-management document events into transactional emails.
//	@description
//	@description				Event and job endpoints require an HS256 bearer token signed with the shared events secret.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/taskmail
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				HS256 token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerEvents() {
	h := &EventsHandler{
		Dispatcher: r.Dispatcher,
		Store:      r.store,
		Validate:   r.validate,
	}

	// Platform deliveries arrive in bursts after writes, so the limit is per
	// caller rather than per IP.
	r.Mux.Handle("POST /v1/events",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(notifysdk.ScopeEventsWrite),
			httpx.RateLimitBySubject(httpx.IngestLimit),
		),
	)
}

func (r *Router) registerJobs() {
	h := &RemindersJobHandler{Dispatcher: r.Dispatcher}

	r.Mux.Handle("POST /v1/jobs/due-reminders",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(notifysdk.ScopeJobsRun),
			httpx.RateLimitBySubject(httpx.JobLimit),
		),
	)
}

func (r *Router) registerSystem() {
	h := &HealthHandler{Store: r.store, Version: r.buildVersion, Started: r.startTime}
	probe := httpx.RateLimitByIP(httpx.ProbeLimit)

	r.Mux.Handle("GET /livez", probe(http.HandlerFunc(h.Livez)))
	r.Mux.Handle("GET /readyz", probe(http.HandlerFunc(h.Readyz)))
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
