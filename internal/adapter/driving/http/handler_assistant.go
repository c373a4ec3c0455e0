package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pkarag/opsboard/internal/application"
	"github.com/pkarag/opsboard/internal/domain/port/driven"
)

// Ask forwards a question about the ticket data to the assistant.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := h.advisor.Ask(r.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrEmptyQuestion):
			writeError(w, http.StatusBadRequest, "question must not be empty")
		case errors.Is(err, driven.ErrAdvisorNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "assistant is not configured")
		default:
			h.logger.Error("assistant request failed", "error", err)
			writeError(w, http.StatusBadGateway, "assistant request failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{Answer: answer})
}
