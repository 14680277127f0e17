package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// SessionCounter reports how many sessions are live.
type SessionCounter interface {
	Count() int
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	sessions SessionCounter
	model    string
}

// NewHealthHandler creates a health handler. model names the configured backend.
func NewHealthHandler(sessions SessionCounter, model string) *HealthHandler {
	return &HealthHandler{sessions: sessions, model: model}
}

// Health returns the status of the API. The model backend is not probed.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	checks := map[string]string{"api": "ok"}
	if h.model != "" {
		checks["model"] = h.model
	}
	if h.sessions != nil {
		checks["sessions"] = strconv.Itoa(h.sessions.Count())
	}
	JSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"checks": checks,
	})
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/health", h.Health)
}
