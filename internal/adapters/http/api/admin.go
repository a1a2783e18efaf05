package api

import "net/http"

// AdminHandler handles administrative operations. Reset is not expected
// under live load; concurrent readers may observe either the pre- or
// post-reset state, never a partial one.
type AdminHandler struct {
	deps Dependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps Dependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

// HandleSeed handles POST /admin/seed: wipe and reload the deterministic
// reference and sample data.
func (h *AdminHandler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	const op = "api.seed"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	if err := h.deps.Reset(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "seeded"})
}
