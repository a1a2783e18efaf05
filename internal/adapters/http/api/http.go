// Package api declares HTTP contracts and route registration helpers.
// The HTTP layer is a thin translation over the service facade: decode,
// delegate, map errors to status codes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/farhadf/linepulse/internal/domain/model"
	"github.com/farhadf/linepulse/internal/domain/productivity"
	"github.com/farhadf/linepulse/internal/domain/types"
	"github.com/farhadf/linepulse/internal/domain/validate"
)

// Dependencies bundles the service operations the handlers delegate to.
// An interface keeps the handler layer loosely coupled to the app package.
type Dependencies interface {
	IngestEvent(ctx context.Context, rec validate.Record) (int64, error)
	IngestBatch(ctx context.Context, recs []validate.Record) (types.BatchResult, error)

	WorkerMetrics(ctx context.Context, workerID string) (productivity.WorkerMetrics, error)
	AllWorkerMetrics(ctx context.Context) ([]productivity.WorkerMetrics, error)
	StationMetrics(ctx context.Context, stationID string) (productivity.StationMetrics, error)
	AllStationMetrics(ctx context.Context) ([]productivity.StationMetrics, error)
	FactoryMetrics(ctx context.Context) (productivity.FactoryMetrics, error)

	ListWorkers(ctx context.Context) ([]model.Worker, error)
	ListWorkstations(ctx context.Context) ([]model.Workstation, error)

	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	eventsHandler    *EventsHandler
	metricsHandler   *MetricsHandler
	referenceHandler *ReferenceHandler
	adminHandler     *AdminHandler
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(deps),
		eventsHandler:    NewEventsHandler(deps),
		metricsHandler:   NewMetricsHandler(deps),
		referenceHandler: NewReferenceHandler(deps),
		adminHandler:     NewAdminHandler(deps),
	}
}

// Register attaches all HTTP routes to mux. Most specific paths first.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", instrument(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/readyz", instrument(s.healthHandler.HandleReady, "readyz"))
	mux.HandleFunc("/events/batch", instrument(s.eventsHandler.HandlePostBatch, "events_batch"))
	mux.HandleFunc("/events", instrument(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("/workers", instrument(s.referenceHandler.HandleListWorkers, "workers"))
	mux.HandleFunc("/workstations", instrument(s.referenceHandler.HandleListWorkstations, "workstations"))
	mux.HandleFunc("/metrics/factory", instrument(s.metricsHandler.HandleFactory, "metrics_factory"))
	mux.HandleFunc("/metrics/workers", instrument(s.metricsHandler.HandleAllWorkers, "metrics_workers"))
	mux.HandleFunc("/metrics/workers/", instrument(s.metricsHandler.HandleWorker, "metrics_worker"))
	mux.HandleFunc("/metrics/workstations", instrument(s.metricsHandler.HandleAllStations, "metrics_stations"))
	mux.HandleFunc("/metrics/workstations/", instrument(s.metricsHandler.HandleStation, "metrics_station"))
	mux.HandleFunc("/admin/seed", instrument(s.adminHandler.HandleSeed, "admin_seed"))
}

func instrument(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(next, endpoint))
}

// eventRequest mirrors the wire schema for POST /events.
type eventRequest struct {
	Timestamp  string  `json:"timestamp"`
	WorkerID   string  `json:"worker_id"`
	StationID  string  `json:"workstation_id"`
	EventType  string  `json:"event_type"`
	Confidence float64 `json:"confidence"`
	Count      int     `json:"count"`
}

func (e eventRequest) record() validate.Record {
	return validate.Record{
		Timestamp:  e.Timestamp,
		WorkerID:   e.WorkerID,
		StationID:  e.StationID,
		EventType:  e.EventType,
		Confidence: e.Confidence,
		Count:      e.Count,
	}
}

type ackResponse struct {
	Accepted bool  `json:"accepted"`
	ID       int64 `json:"id,omitempty"`
}

type batchItemResponse struct {
	Index int    `json:"index"`
	ID    int64  `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

type batchResponse struct {
	BatchID      string              `json:"batch_id"`
	SuccessCount int                 `json:"success_count"`
	TotalCount   int                 `json:"total_count"`
	Items        []batchItemResponse `json:"items"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps service errors onto the HTTP taxonomy:
// validation -> 400, unknown entity -> 404, anything else -> 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, validate.ErrInvalid), errors.Is(err, types.ErrBatchTooLarge):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, model.ErrWorkerNotFound), errors.Is(err, model.ErrStationNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
