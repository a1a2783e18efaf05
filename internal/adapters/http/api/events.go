package api

import (
	"encoding/json"
	"net/http"

	"github.com/farhadf/linepulse/internal/domain/validate"
)

// EventsHandler handles event ingestion requests.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandlePostEvent handles POST /events. Single ingestion fails fast and
// reports the specific error.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	id, err := h.deps.IngestEvent(r.Context(), req.record())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ackResponse{Accepted: true, ID: id})
}

// HandlePostBatch handles POST /events/batch. Per-item failures are
// enumerated; one bad record does not abort the batch.
func (h *EventsHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_batch"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}

	var reqs []eventRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	recs := make([]validate.Record, len(reqs))
	for i, req := range reqs {
		recs[i] = req.record()
	}

	result, err := h.deps.IngestBatch(r.Context(), recs)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]batchItemResponse, len(result.Items))
	for i, item := range result.Items {
		items[i] = batchItemResponse{Index: item.Index, ID: item.ID}
		if item.Err != nil {
			items[i].Error = item.Err.Error()
		}
	}
	writeJSON(w, http.StatusCreated, batchResponse{
		BatchID:      result.BatchID,
		SuccessCount: result.SuccessCount,
		TotalCount:   result.TotalCount,
		Items:        items,
	})
}
