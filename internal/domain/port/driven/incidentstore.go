package driven

import (
	"context"
	"errors"

	"github.com/pkarag/opsboard/internal/domain/model"
)

// ErrIncidentNotFound indicates the requested incident does not exist.
var ErrIncidentNotFound = errors.New("incident not found")

// IncidentStore defines the driven port for cybersecurity incident
// persistence.
//
// The store owns the resolved_at invariant: resolved_at is non-null exactly
// when status is Resolved. Update sets resolved_at on the transition to
// Resolved (preserving an existing timestamp when the incident was already
// resolved) and clears it on any transition away. ListAll returns incidents
// in descending id order (most recent first). Delete is a silent no-op when
// the id does not exist.
type IncidentStore interface {
	// Create inserts a new incident and returns it with the store-assigned
	// id. A zero DetectedAt is replaced with the current UTC time. ResolvedAt
	// is forced consistent with Status: nil unless Status is Resolved.
	Create(ctx context.Context, incident model.Incident) (*model.Incident, error)

	ListAll(ctx context.Context) ([]model.Incident, error)

	// Get returns the incident with the given id, or nil, nil when absent.
	Get(ctx context.Context, id int64) (*model.Incident, error)

	// Update rewrites incident_type, severity, description, status and
	// analyst from the given incident, deriving resolved_at from the status
	// transition. Returns ErrIncidentNotFound when the id does not exist.
	Update(ctx context.Context, id int64, incident model.Incident) error

	Delete(ctx context.Context, id int64) error

	// Count returns the number of incidents. Used as the load-once import guard.
	Count(ctx context.Context) (int64, error)
}
