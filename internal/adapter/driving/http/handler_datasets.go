package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pkarag/opsboard/internal/domain/model"
	"github.com/pkarag/opsboard/internal/domain/port/driven"
)

// ListDatasets returns all datasets, most recent first.
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.datasets.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list datasets", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]DatasetResponse, 0, len(datasets))
	for _, d := range datasets {
		resp = append(resp, toDatasetResponse(d))
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateDataset inserts a new dataset metadata record.
func (h *Handler) CreateDataset(w http.ResponseWriter, r *http.Request) {
	var req DatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DatasetName == "" {
		writeError(w, http.StatusBadRequest, "dataset_name must not be empty")
		return
	}

	dataset, err := h.datasets.Create(r.Context(), model.Dataset{
		DatasetName: req.DatasetName,
		Source:      req.Source,
		Owner:       req.Owner,
		Rows:        req.Rows,
		SizeMB:      req.SizeMB,
		Sensitivity: req.Sensitivity,
		Status:      req.Status,
	})
	if err != nil {
		h.logger.Error("failed to create dataset", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toDatasetResponse(*dataset))
}

// GetDataset returns a single dataset by id.
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	dataset, err := h.datasets.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get dataset", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if dataset == nil {
		writeError(w, http.StatusNotFound, "dataset not found")
		return
	}

	writeJSON(w, http.StatusOK, toDatasetResponse(*dataset))
}

// UpdateDataset rewrites a dataset's fields and bumps its last_updated.
func (h *Handler) UpdateDataset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req DatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.datasets.Update(r.Context(), id, model.Dataset{
		DatasetName: req.DatasetName,
		Source:      req.Source,
		Owner:       req.Owner,
		Rows:        req.Rows,
		SizeMB:      req.SizeMB,
		Sensitivity: req.Sensitivity,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, driven.ErrDatasetNotFound) {
			writeError(w, http.StatusNotFound, "dataset not found")
			return
		}
		h.logger.Error("failed to update dataset", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	dataset, err := h.datasets.Get(r.Context(), id)
	if err != nil || dataset == nil {
		h.logger.Error("failed to reload dataset", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toDatasetResponse(*dataset))
}

// DeleteDataset removes a dataset. Deleting an absent id succeeds.
func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.datasets.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete dataset", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DatasetMetrics returns the dataset dashboard aggregates.
func (h *Handler) DatasetMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.insights.DatasetMetrics(r.Context())
	if err != nil {
		h.logger.Error("failed to compute dataset metrics", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// ImportDatasets loads the dataset seed CSV into an empty store.
func (h *Handler) ImportDatasets(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("csv import requested", "store", "datasets", "user", usernameFrom(r.Context()))

	inserted, err := h.loader.ImportDatasets(r.Context())
	if err != nil {
		h.logger.Error("failed to import datasets", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, ImportResponse{Inserted: inserted})
}
