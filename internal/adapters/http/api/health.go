package api

import "net/http"

// HealthHandler handles liveness and readiness checks.
type HealthHandler struct {
	deps Dependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleHealth handles GET /healthz.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// HandleReady handles GET /readyz; ready means the store answers a ping.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ready"})
}
