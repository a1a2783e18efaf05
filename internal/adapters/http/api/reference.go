package api

import "net/http"

// ReferenceHandler serves the immutable reference data.
type ReferenceHandler struct {
	deps Dependencies
}

// NewReferenceHandler creates a new reference data handler.
func NewReferenceHandler(deps Dependencies) *ReferenceHandler {
	return &ReferenceHandler{deps: deps}
}

// HandleListWorkers handles GET /workers.
func (h *ReferenceHandler) HandleListWorkers(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_workers"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	workers, err := h.deps.ListWorkers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workers)
}

// HandleListWorkstations handles GET /workstations.
func (h *ReferenceHandler) HandleListWorkstations(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_workstations"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	stations, err := h.deps.ListWorkstations(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stations)
}
