package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/msomdec/bump-journal/internal/domain"
	"github.com/msomdec/bump-journal/internal/metrics"
	"github.com/msomdec/bump-journal/internal/service"
)

// MilestoneHandler serves the owner-scoped milestone endpoints.
type MilestoneHandler struct {
	milestones *service.MilestoneService
	metrics    *metrics.Metrics
}

// NewMilestoneHandler creates a new MilestoneHandler.
func NewMilestoneHandler(milestones *service.MilestoneService, m *metrics.Metrics) *MilestoneHandler {
	return &MilestoneHandler{milestones: milestones, metrics: m}
}

type milestoneRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

// input converts the request body; an empty date is left zero so the
// service reports it as missing.
func (req milestoneRequest) input() (domain.MilestoneInput, error) {
	in := domain.MilestoneInput{Title: req.Title, Notes: req.Notes}
	if strings.TrimSpace(req.Date) != "" {
		d, err := domain.ParseDate(req.Date)
		if err != nil {
			return in, domain.Invalid("date", "date must be a calendar date formatted as YYYY-MM-DD")
		}
		in.Date = d
	}
	return in, nil
}

// HandleList returns the caller's milestones, oldest first.
// GET /milestones
func (h *MilestoneHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.milestones.List(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMilestoneDTOs(milestones))
}

// HandleCreate creates a milestone owned by the caller.
// POST /milestones
// Request: {"title":"...","date":"YYYY-MM-DD","notes":"..."}
func (h *MilestoneHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req milestoneRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	in, err := req.input()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	m, err := h.milestones.Create(r.Context(), PrincipalFromContext(r.Context()), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.metrics.IncrementMilestonesCreated()
	writeJSON(w, http.StatusCreated, toMilestoneDTO(m))
}

// HandleGet returns one of the caller's milestones.
// GET /milestones/{id}
func (h *MilestoneHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	m, err := h.milestones.Get(r.Context(), PrincipalFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMilestoneDTO(m))
}

// HandleUpdate replaces the title, date and notes of one of the caller's
// milestones.
// PUT /milestones/{id}
func (h *MilestoneHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req milestoneRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	in, err := req.input()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	m, err := h.milestones.Update(r.Context(), PrincipalFromContext(r.Context()), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMilestoneDTO(m))
}

// HandleDelete removes one of the caller's milestones and its tips.
// DELETE /milestones/{id}
func (h *MilestoneHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.milestones.Delete(r.Context(), PrincipalFromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.metrics.IncrementMilestonesDeleted()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Milestone deleted."})
}

// pathID parses the {id} URL parameter. An id that is not a positive integer
// cannot name any milestone, so it is answered with 404.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "Not found.")
		return 0, false
	}
	return id, true
}
