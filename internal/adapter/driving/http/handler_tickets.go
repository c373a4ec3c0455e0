package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/pkarag/opsboard/internal/domain/model"
	"github.com/pkarag/opsboard/internal/domain/port/driven"
)

// ListTickets returns all tickets.
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.tickets.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list tickets", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, toTicketResponse(t))
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateTicket inserts a new ticket.
func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title must not be empty")
		return
	}

	ticket, err := h.tickets.Create(r.Context(), model.Ticket{
		Title:    req.Title,
		Priority: req.Priority,
		Status:   req.Status,
	})
	if err != nil {
		h.logger.Error("failed to create ticket", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toTicketResponse(*ticket))
}

// GetTicket returns a single ticket by id.
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ticket, err := h.tickets.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get ticket", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if ticket == nil {
		writeError(w, http.StatusNotFound, "ticket not found")
		return
	}

	writeJSON(w, http.StatusOK, toTicketResponse(*ticket))
}

// UpdateTicket changes a ticket's priority and status.
func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.tickets.Update(r.Context(), id, req.Priority, req.Status); err != nil {
		if errors.Is(err, driven.ErrTicketNotFound) {
			writeError(w, http.StatusNotFound, "ticket not found")
			return
		}
		h.logger.Error("failed to update ticket", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	ticket, err := h.tickets.Get(r.Context(), id)
	if err != nil || ticket == nil {
		h.logger.Error("failed to reload ticket", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toTicketResponse(*ticket))
}

// DeleteTicket removes a ticket. Deleting an absent id succeeds.
func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.tickets.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete ticket", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TicketMetrics returns the ticket dashboard aggregates.
func (h *Handler) TicketMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.insights.TicketMetrics(r.Context())
	if err != nil {
		h.logger.Error("failed to compute ticket metrics", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// ImportTickets loads the ticket seed CSV into an empty store.
func (h *Handler) ImportTickets(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("csv import requested", "store", "tickets", "user", usernameFrom(r.Context()))

	inserted, err := h.loader.ImportTickets(r.Context())
	if err != nil {
		h.logger.Error("failed to import tickets", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, ImportResponse{Inserted: inserted})
}

// pathID parses the {id} path segment, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
