package handler

import (
	"net/http"

	"github.com/msomdec/bump-journal/internal/service"
)

// ProgressHandler serves the caller's pregnancy progress.
type ProgressHandler struct {
	progress *service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progress *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// HandleGet computes progress for today.
// GET /progress
func (h *ProgressHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.progress.Get(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgressDTO(p))
}
