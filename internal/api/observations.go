package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/starford/raido/internal/models"
)

// ListObservations handles GET /hikes/{id}/observations.
func (h *Handler) ListObservations(w http.ResponseWriter, r *http.Request) {
	hikeID, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	obs, err := h.repo.Observations(hikeID)
	if err != nil {
		writeErr(w, "list observations", err)
		return
	}
	if obs == nil {
		obs = []models.Observation{}
	}
	writeJSON(w, http.StatusOK, obs)
}

// CreateObservation handles POST /hikes/{id}/observations.
func (h *Handler) CreateObservation(w http.ResponseWriter, r *http.Request) {
	hikeID, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req ObservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	obs, err := req.toObservation(0, hikeID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if verr := models.ValidateObservation(obs); verr != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(verr.Message))
		return
	}
	saved, err := h.repo.AddObservation(*obs)
	if err != nil {
		writeErr(w, "create observation", err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// UpdateObservation handles PUT /observations/{id} as a full replace.
func (h *Handler) UpdateObservation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	existing, err := h.repo.Observation(id)
	if err != nil {
		writeErr(w, "update observation", err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req ObservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	obs, err := req.toObservation(id, existing.HikeID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if obs.At.IsZero() {
		obs.At = existing.At
	}
	if verr := models.ValidateObservation(obs); verr != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(verr.Message))
		return
	}
	if err := h.repo.UpdateObservation(*obs); err != nil {
		writeErr(w, "update observation", err)
		return
	}
	writeJSON(w, http.StatusOK, obs)
}

// DeleteObservation handles DELETE /observations/{id}.
func (h *Handler) DeleteObservation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if err := h.repo.DeleteObservation(id); err != nil {
		writeErr(w, "delete observation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteObservations handles DELETE /hikes/{id}/observations.
func (h *Handler) DeleteObservations(w http.ResponseWriter, r *http.Request) {
	hikeID, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if err := h.repo.DeleteObservationsForHike(hikeID); err != nil {
		writeErr(w, "delete observations", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchObservations handles GET /search/observations?q=...&limit=...
func (h *Handler) SearchObservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q is required"))
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	obs, err := h.repo.SearchObservations(q, limit)
	if err != nil {
		writeErr(w, "search observations", err)
		return
	}
	if obs == nil {
		obs = []models.Observation{}
	}
	writeJSON(w, http.StatusOK, obs)
}
