package handler

import (
	"net/http"

	"github.com/msomdec/bump-journal/internal/metrics"
	"github.com/msomdec/bump-journal/internal/service"
)

// TipHandler serves the tips attached to a milestone.
type TipHandler struct {
	tips    *service.TipService
	metrics *metrics.Metrics
}

// NewTipHandler creates a new TipHandler.
func NewTipHandler(tips *service.TipService, m *metrics.Metrics) *TipHandler {
	return &TipHandler{tips: tips, metrics: m}
}

// HandleList returns the tips of any milestone. No authentication needed.
// GET /milestones/{id}/tips
func (h *TipHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	tips, err := h.tips.List(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTipDTOs(tips))
}

// HandleAdd attaches a tip from the caller to any milestone.
// POST /milestones/{id}/tips
// Request: {"content":"..."}
func (h *TipHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	tip, err := h.tips.Add(r.Context(), PrincipalFromContext(r.Context()), id, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.metrics.IncrementTipsAdded()
	writeJSON(w, http.StatusCreated, toTipDTO(tip))
}
