package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pkarag/opsboard/internal/domain/model"
	"github.com/pkarag/opsboard/internal/domain/port/driven"
)

// ListIncidents returns all incidents, most recent first.
func (h *Handler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.incidents.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list incidents", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]IncidentResponse, 0, len(incidents))
	for _, i := range incidents {
		resp = append(resp, toIncidentResponse(i))
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateIncident inserts a new incident.
func (h *Handler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	var req IncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IncidentType == "" {
		writeError(w, http.StatusBadRequest, "incident_type must not be empty")
		return
	}

	incident, err := h.incidents.Create(r.Context(), model.Incident{
		IncidentType: req.IncidentType,
		Severity:     req.Severity,
		Description:  req.Description,
		Status:       req.Status,
		Analyst:      req.Analyst,
	})
	if err != nil {
		h.logger.Error("failed to create incident", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toIncidentResponse(*incident))
}

// GetIncident returns a single incident by id.
func (h *Handler) GetIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	incident, err := h.incidents.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get incident", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if incident == nil {
		writeError(w, http.StatusNotFound, "incident not found")
		return
	}

	writeJSON(w, http.StatusOK, toIncidentResponse(*incident))
}

// UpdateIncident rewrites an incident's editable fields. The store derives
// resolved_at from the status transition.
func (h *Handler) UpdateIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req IncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.incidents.Update(r.Context(), id, model.Incident{
		IncidentType: req.IncidentType,
		Severity:     req.Severity,
		Description:  req.Description,
		Status:       req.Status,
		Analyst:      req.Analyst,
	})
	if err != nil {
		if errors.Is(err, driven.ErrIncidentNotFound) {
			writeError(w, http.StatusNotFound, "incident not found")
			return
		}
		h.logger.Error("failed to update incident", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	incident, err := h.incidents.Get(r.Context(), id)
	if err != nil || incident == nil {
		h.logger.Error("failed to reload incident", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toIncidentResponse(*incident))
}

// DeleteIncident removes an incident. Deleting an absent id succeeds.
func (h *Handler) DeleteIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.incidents.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete incident", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// IncidentMetrics returns the incident dashboard aggregates.
func (h *Handler) IncidentMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.insights.IncidentMetrics(r.Context())
	if err != nil {
		h.logger.Error("failed to compute incident metrics", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// ImportIncidents loads the incident seed CSV into an empty store.
func (h *Handler) ImportIncidents(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("csv import requested", "store", "incidents", "user", usernameFrom(r.Context()))

	inserted, err := h.loader.ImportIncidents(r.Context())
	if err != nil {
		h.logger.Error("failed to import incidents", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, ImportResponse{Inserted: inserted})
}
