// Package httphandler is the HTTP driving adapter: routing, auth middleware
// and JSON encoding over the application services.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkarag/opsboard/internal/adapter/driven/seed"
	"github.com/pkarag/opsboard/internal/application"
	"github.com/pkarag/opsboard/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	auth      *application.AuthService
	tickets   driven.TicketStore
	incidents driven.IncidentStore
	datasets  driven.DatasetStore
	insights  *application.InsightsService
	advisor   *application.AdvisorService
	loader    *seed.Loader
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	auth *application.AuthService,
	tickets driven.TicketStore,
	incidents driven.IncidentStore,
	datasets driven.DatasetStore,
	insights *application.InsightsService,
	advisor *application.AdvisorService,
	loader *seed.Loader,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:      auth,
		tickets:   tickets,
		incidents: incidents,
		datasets:  datasets,
		insights:  insights,
		advisor:   advisor,
		loader:    loader,
		logger:    logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware. Everything except health and the two
// auth endpoints requires a bearer token.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("POST /api/v1/auth/register", h.Register)
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)

	mux.HandleFunc("GET /api/v1/tickets", h.requireAuth(h.ListTickets))
	mux.HandleFunc("POST /api/v1/tickets", h.requireAuth(h.CreateTicket))
	mux.HandleFunc("GET /api/v1/tickets/metrics", h.requireAuth(h.TicketMetrics))
	mux.HandleFunc("POST /api/v1/tickets/import", h.requireAuth(h.ImportTickets))
	mux.HandleFunc("GET /api/v1/tickets/{id}", h.requireAuth(h.GetTicket))
	mux.HandleFunc("PUT /api/v1/tickets/{id}", h.requireAuth(h.UpdateTicket))
	mux.HandleFunc("DELETE /api/v1/tickets/{id}", h.requireAuth(h.DeleteTicket))

	mux.HandleFunc("GET /api/v1/incidents", h.requireAuth(h.ListIncidents))
	mux.HandleFunc("POST /api/v1/incidents", h.requireAuth(h.CreateIncident))
	mux.HandleFunc("GET /api/v1/incidents/metrics", h.requireAuth(h.IncidentMetrics))
	mux.HandleFunc("POST /api/v1/incidents/import", h.requireAuth(h.ImportIncidents))
	mux.HandleFunc("GET /api/v1/incidents/{id}", h.requireAuth(h.GetIncident))
	mux.HandleFunc("PUT /api/v1/incidents/{id}", h.requireAuth(h.UpdateIncident))
	mux.HandleFunc("DELETE /api/v1/incidents/{id}", h.requireAuth(h.DeleteIncident))

	mux.HandleFunc("GET /api/v1/datasets", h.requireAuth(h.ListDatasets))
	mux.HandleFunc("POST /api/v1/datasets", h.requireAuth(h.CreateDataset))
	mux.HandleFunc("GET /api/v1/datasets/metrics", h.requireAuth(h.DatasetMetrics))
	mux.HandleFunc("POST /api/v1/datasets/import", h.requireAuth(h.ImportDatasets))
	mux.HandleFunc("GET /api/v1/datasets/{id}", h.requireAuth(h.GetDataset))
	mux.HandleFunc("PUT /api/v1/datasets/{id}", h.requireAuth(h.UpdateDataset))
	mux.HandleFunc("DELETE /api/v1/datasets/{id}", h.requireAuth(h.DeleteDataset))

	mux.HandleFunc("POST /api/v1/assistant/ask", h.requireAuth(h.Ask))

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// Register creates a new user account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		var verr *application.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Error())
		case errors.Is(err, driven.ErrDuplicateUsername):
			writeError(w, http.StatusConflict, "username already taken")
		default:
			h.logger.Error("failed to register user", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{ID: user.ID, Username: user.Username})
}

// Login verifies credentials and issues a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, expiry, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		h.logger.Error("failed to log in user", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiry.UTC().Format(time.RFC3339),
	})
}
