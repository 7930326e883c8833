package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/journal"
	"github.com/starford/raido/internal/models"
)

const maxBodyBytes = 1 << 20 // 1 MB for JSON bodies

// Handler holds API route handlers.
type Handler struct {
	repo *journal.Repository
}

// NewHandler creates a new Handler.
func NewHandler(repo *journal.Repository) *Handler {
	return &Handler{repo: repo}
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// writeErr maps repository errors onto HTTP statuses.
func writeErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrConstraint):
		writeJSON(w, http.StatusConflict, errorBody("constraint violation"))
	case errors.Is(err, apperr.ErrStoreClosed):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("store closed"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListHikes handles GET /hikes with optional filter query parameters
// (name, location, min_length, max_length, start_date, end_date).
func (h *Handler) ListHikes(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r.URL.Query().Get)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	hikes, err := h.repo.SearchHikes(f)
	if err != nil {
		writeErr(w, "list hikes", err)
		return
	}
	if hikes == nil {
		hikes = []models.Hike{}
	}
	writeJSON(w, http.StatusOK, HikeListResponse{Hikes: hikes, Total: len(hikes)})
}

// GetHike handles GET /hikes/{id}.
func (h *Handler) GetHike(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	hike, err := h.repo.Hike(id)
	if err != nil {
		writeErr(w, "get hike", err)
		return
	}
	writeJSON(w, http.StatusOK, hike)
}

// CreateHike handles POST /hikes.
func (h *Handler) CreateHike(w http.ResponseWriter, r *http.Request) {
	h.saveHike(w, r, 0)
}

// UpdateHike handles PUT /hikes/{id} as a full-record upsert.
func (h *Handler) UpdateHike(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	h.saveHike(w, r, id)
}

func (h *Handler) saveHike(w http.ResponseWriter, r *http.Request, id int64) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req HikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	hike, err := req.toHike(id)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	// Validation gates persistence; its message is user-facing.
	if verr := models.ValidateHike(hike); verr != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(verr.Message))
		return
	}

	saved, err := h.repo.SaveHike(*hike)
	if err != nil {
		writeErr(w, "save hike", err)
		return
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

// DeleteHike handles DELETE /hikes/{id}; observations and media go with it.
func (h *Handler) DeleteHike(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if err := h.repo.DeleteHike(id); err != nil {
		writeErr(w, "delete hike", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetJournal handles DELETE /hikes: wipes every hike, observation, and
// media row. Irreversible.
func (h *Handler) ResetJournal(w http.ResponseWriter, _ *http.Request) {
	if err := h.repo.Reset(); err != nil {
		writeErr(w, "reset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
