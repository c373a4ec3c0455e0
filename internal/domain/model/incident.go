package model

import "time"

// Incident represents a cybersecurity incident.
//
// ResolvedAt is non-nil exactly when Status is IncidentStatusResolved: the
// store sets it on the transition to Resolved and clears it on any transition
// away. Analyst is empty when no analyst is assigned.
type Incident struct {
	ID           int64
	IncidentType string
	Severity     string
	Description  string
	Status       string
	DetectedAt   time.Time
	ResolvedAt   *time.Time
	Analyst      string
}

// IsResolved reports whether the incident is in the Resolved state.
func (i Incident) IsResolved() bool {
	return i.Status == IncidentStatusResolved
}
