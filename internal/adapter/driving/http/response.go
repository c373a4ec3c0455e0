package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkarag/opsboard/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// CredentialsRequest is the JSON body for register and login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse is the JSON representation of a newly registered user.
type RegisterResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// LoginResponse carries the session token issued on successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// TicketRequest is the JSON body for ticket create and update. Update uses
// only priority and status.
type TicketRequest struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
}

// TicketResponse is the JSON representation of a ticket.
type TicketResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	CreatedDate string `json:"created_date"`
}

// IncidentRequest is the JSON body for incident create and update.
type IncidentRequest struct {
	IncidentType string `json:"incident_type"`
	Severity     string `json:"severity"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	Analyst      string `json:"analyst"`
}

// IncidentResponse is the JSON representation of an incident.
type IncidentResponse struct {
	ID           int64   `json:"id"`
	IncidentType string  `json:"incident_type"`
	Severity     string  `json:"severity"`
	Description  string  `json:"description"`
	Status       string  `json:"status"`
	DetectedAt   string  `json:"detected_at"`
	ResolvedAt   *string `json:"resolved_at"`
	Analyst      string  `json:"analyst"`
}

// DatasetRequest is the JSON body for dataset create and update.
type DatasetRequest struct {
	DatasetName string  `json:"dataset_name"`
	Source      string  `json:"source"`
	Owner       string  `json:"owner"`
	Rows        int64   `json:"rows"`
	SizeMB      float64 `json:"size_mb"`
	Sensitivity string  `json:"sensitivity"`
	Status      string  `json:"status"`
}

// DatasetResponse is the JSON representation of a dataset.
type DatasetResponse struct {
	ID          int64   `json:"id"`
	DatasetName string  `json:"dataset_name"`
	Source      string  `json:"source"`
	Owner       string  `json:"owner"`
	Rows        int64   `json:"rows"`
	SizeMB      float64 `json:"size_mb"`
	Sensitivity string  `json:"sensitivity"`
	LastUpdated string  `json:"last_updated"`
	Status      string  `json:"status"`
}

// ImportResponse reports the outcome of a CSV import.
type ImportResponse struct {
	Inserted int `json:"inserted"`
}

// AskRequest is the JSON body for the assistant endpoint.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse carries the assistant's answer.
type AskResponse struct {
	Answer string `json:"answer"`
}

// toTicketResponse converts a domain Ticket to its JSON representation.
func toTicketResponse(t model.Ticket) TicketResponse {
	return TicketResponse{
		ID:          t.ID,
		Title:       t.Title,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatedDate: t.CreatedDate.UTC().Format(time.RFC3339),
	}
}

// toIncidentResponse converts a domain Incident to its JSON representation.
func toIncidentResponse(i model.Incident) IncidentResponse {
	resp := IncidentResponse{
		ID:           i.ID,
		IncidentType: i.IncidentType,
		Severity:     i.Severity,
		Description:  i.Description,
		Status:       i.Status,
		DetectedAt:   i.DetectedAt.UTC().Format(time.RFC3339),
		Analyst:      i.Analyst,
	}
	if i.ResolvedAt != nil {
		resolved := i.ResolvedAt.UTC().Format(time.RFC3339)
		resp.ResolvedAt = &resolved
	}
	return resp
}

// toDatasetResponse converts a domain Dataset to its JSON representation.
func toDatasetResponse(d model.Dataset) DatasetResponse {
	return DatasetResponse{
		ID:          d.ID,
		DatasetName: d.DatasetName,
		Source:      d.Source,
		Owner:       d.Owner,
		Rows:        d.Rows,
		SizeMB:      d.SizeMB,
		Sensitivity: d.Sensitivity,
		LastUpdated: d.LastUpdated.UTC().Format(time.RFC3339),
		Status:      d.Status,
	}
}
