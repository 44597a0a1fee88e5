// Package health serves the liveness and readiness probes.
package health

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/0xronaldo/backend-zkp-lastproyect/pkg/platform/httputil"
)

// CheckFunc probes one dependency. A nil return means healthy.
type CheckFunc func() error

// Handler answers the health endpoints. Checks registered at wiring time feed
// the readiness probe only; liveness never depends on downstream state, and
// the issuer node is deliberately not a check so a node outage does not drain
// the service.
type Handler struct {
	startTime   time.Time
	environment string

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// New creates a health handler for the given environment label.
func New(environment string) *Handler {
	return &Handler{
		startTime:   time.Now(),
		environment: environment,
		checks:      make(map[string]CheckFunc),
	}
}

// RegisterCheck adds a named dependency check to the readiness probe.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Register mounts the probe routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.handleStatus)
	r.Get("/health/live", h.handleLiveness)
	r.Get("/health/ready", h.handleReadiness)
}

func (h *Handler) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// handleReadiness runs every registered check and answers 503 when any fails.
// Checks run outside the lock so a slow dependency cannot block registration.
func (h *Handler) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	checks := make(map[string]CheckFunc, len(h.checks))
	for name, check := range h.checks {
		checks[name] = check
	}
	h.mu.RUnlock()

	resp := readinessResponse{
		Status: "ready",
		Checks: make(map[string]string, len(checks)),
	}
	for name, check := range checks {
		if err := check(); err != nil {
			resp.Status = "not_ready"
			resp.Checks[name] = "down: " + err.Error()
			continue
		}
		resp.Checks[name] = "up"
	}

	if resp.Status != "ready" {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

type statusResponse struct {
	Status        string `json:"status"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, statusResponse{
		Status:        "healthy",
		Environment:   h.environment,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}
