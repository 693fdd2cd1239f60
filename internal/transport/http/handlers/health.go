package http_handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/baechuer/credential-service/internal/logger"
	"github.com/baechuer/credential-service/internal/transport/http/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// ReadyCheck is one named dependency probed by /readyz.
type ReadyCheck struct {
	Name   string
	Pinger Pinger
}

const readyTimeout = 2 * time.Second

type HealthHandler struct {
	checks []ReadyCheck
}

func NewHealthHandler(checks ...ReadyCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	for _, c := range h.checks {
		if c.Pinger == nil {
			continue
		}
		if err := c.Pinger.Ping(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn().Err(err).Str("dependency", c.Name).Msg("readiness check failed")
			response.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  c.Name + " unavailable",
			})
			return
		}
	}

	response.OK(w, map[string]string{"status": "ready"})
}
