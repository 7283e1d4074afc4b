// Package httpapi assembles the public HTTP surface: decode endpoints
// behind auth, rate limiting and usage accounting, plus client
// management and operational routes.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	clientshandler "nidegypt/internal/clients/handler"
	nidhandler "nidegypt/internal/nid/handler"
	platformmw "nidegypt/internal/platform/middleware"
	rlmw "nidegypt/internal/ratelimit/middleware"
	"nidegypt/internal/usage"
	"nidegypt/pkg/platform/httputil"
)

// Deps carries everything the router wires together.
type Deps struct {
	Logger    *slog.Logger
	NID       *nidhandler.Handler
	Clients   *clientshandler.Handler
	RateLimit *rlmw.Middleware
	Usage     *usage.Recorder
	Validator platformmw.TokenValidator

	// Health probes backing stores. Nil checks are skipped.
	HealthChecks map[string]func(context.Context) error
}

// NewRouter wires all endpoints. Decode routes require a service token
// and are rate limited per client; client management and the token
// exchange sit outside the guarded group.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(platformmw.Recovery(deps.Logger))
	r.Use(platformmw.RequestID)
	r.Use(platformmw.Logger(deps.Logger))
	r.Use(platformmw.ContentTypeJSON)

	r.Get("/healthz", healthHandler(deps.HealthChecks))
	r.Handle("/metrics", promhttp.Handler())

	deps.Clients.AuthRoutes(r)
	deps.Clients.Routes(r)

	r.Group(func(gr chi.Router) {
		gr.Use(platformmw.RequireServiceToken(deps.Validator, deps.Logger))
		gr.Use(deps.RateLimit.RateLimit)
		gr.Use(usage.Middleware(deps.Usage))
		deps.NID.Routes(gr)
	})

	return r
}

func healthHandler(checks map[string]func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			} else {
				body[name] = "ok"
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}
