package api

import (
	"net/http"
	"strings"
)

// MetricsHandler handles productivity metrics requests.
type MetricsHandler struct {
	deps Dependencies
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(deps Dependencies) *MetricsHandler {
	return &MetricsHandler{deps: deps}
}

// HandleFactory handles GET /metrics/factory.
func (h *MetricsHandler) HandleFactory(w http.ResponseWriter, r *http.Request) {
	const op = "api.factory_metrics"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	m, err := h.deps.FactoryMetrics(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleAllWorkers handles GET /metrics/workers.
func (h *MetricsHandler) HandleAllWorkers(w http.ResponseWriter, r *http.Request) {
	const op = "api.worker_metrics"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	ms, err := h.deps.AllWorkerMetrics(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

// HandleWorker handles GET /metrics/workers/{worker_id}.
func (h *MetricsHandler) HandleWorker(w http.ResponseWriter, r *http.Request) {
	const op = "api.worker_metrics"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/metrics/workers/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	m, err := h.deps.WorkerMetrics(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleAllStations handles GET /metrics/workstations.
func (h *MetricsHandler) HandleAllStations(w http.ResponseWriter, r *http.Request) {
	const op = "api.station_metrics"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	ms, err := h.deps.AllStationMetrics(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

// HandleStation handles GET /metrics/workstations/{station_id}.
func (h *MetricsHandler) HandleStation(w http.ResponseWriter, r *http.Request) {
	const op = "api.station_metrics"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/metrics/workstations/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	m, err := h.deps.StationMetrics(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
