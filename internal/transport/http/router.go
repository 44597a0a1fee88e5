// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// domain services, and translate domain errors; business logic stays out.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/0xronaldo/backend-zkp-lastproyect/internal/platform/health"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/platform/middleware"
)

const requestTimeout = 60 * time.Second

// NewRouter wires all public endpoints with the middleware stack.
func NewRouter(h *Handler, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(requestTimeout))

	healthHandler.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Post("/auth/register", h.handleRegister)
		r.Post("/auth/login", h.handleLogin)
		r.Post("/proof-query", h.handleProofQuery)
	})

	return r
}
