package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pkarag/opsboard/internal/domain/model"
	"github.com/pkarag/opsboard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IncidentStore = (*IncidentRepo)(nil)

// IncidentRepo is the SQLite implementation of the IncidentStore port
// interface. It owns the resolved_at invariant: resolved_at is non-null
// exactly when status is Resolved.
type IncidentRepo struct {
	db *DB
}

// NewIncidentRepo creates a new IncidentRepo backed by the given DB.
func NewIncidentRepo(db *DB) *IncidentRepo {
	return &IncidentRepo{db: db}
}

// Create inserts a new incident. A zero DetectedAt is replaced with the
// current UTC time. ResolvedAt is forced consistent with Status: cleared
// unless the incident is created already Resolved (bulk import), in which
// case a missing timestamp defaults to DetectedAt.
func (r *IncidentRepo) Create(ctx context.Context, incident model.Incident) (*model.Incident, error) {
	const query = `INSERT INTO incidents
		(incident_type, severity, description, status, detected_at, resolved_at, analyst)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	detected := incident.DetectedAt
	if detected.IsZero() {
		detected = time.Now().UTC()
	}

	var resolved *time.Time
	if incident.Status == model.IncidentStatusResolved {
		resolved = incident.ResolvedAt
		if resolved == nil {
			resolved = &detected
		}
	}

	result, err := r.db.Writer.ExecContext(ctx, query,
		incident.IncidentType, incident.Severity, incident.Description, incident.Status,
		detected.Format(time.RFC3339Nano), formatNullableTime(resolved), nullableString(incident.Analyst))
	if err != nil {
		return nil, fmt.Errorf("create incident: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create incident: last insert id: %w", err)
	}

	incident.ID = id
	incident.DetectedAt = detected
	incident.ResolvedAt = resolved
	return &incident, nil
}

// ListAll returns all incidents in descending id order (most recent first).
func (r *IncidentRepo) ListAll(ctx context.Context) ([]model.Incident, error) {
	const query = `SELECT id, incident_type, severity, description, status, detected_at, resolved_at, analyst
		FROM incidents ORDER BY id DESC`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	var incidents []model.Incident
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		incidents = append(incidents, *incident)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incidents: %w", err)
	}

	return incidents, nil
}

// Get retrieves an incident by id. Returns nil, nil when the id does not exist.
func (r *IncidentRepo) Get(ctx context.Context, id int64) (*model.Incident, error) {
	const query = `SELECT id, incident_type, severity, description, status, detected_at, resolved_at, analyst
		FROM incidents WHERE id = ?`

	incident, err := scanIncident(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get incident %d: %w", id, err)
	}

	return incident, nil
}

// Update rewrites the incident's editable fields, deriving resolved_at from
// the status transition: set on the transition to Resolved (preserving an
// existing timestamp), cleared on any transition away. Returns
// driven.ErrIncidentNotFound when the id does not exist.
func (r *IncidentRepo) Update(ctx context.Context, id int64, incident model.Incident) error {
	const current = `SELECT status, resolved_at FROM incidents WHERE id = ?`

	var (
		oldStatus   sql.NullString
		oldResolved sql.NullString
	)
	err := r.db.Writer.QueryRowContext(ctx, current, id).Scan(&oldStatus, &oldResolved)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update incident %d: %w", id, driven.ErrIncidentNotFound)
	}
	if err != nil {
		return fmt.Errorf("update incident %d: read current status: %w", id, err)
	}

	var resolved any
	if incident.Status == model.IncidentStatusResolved {
		if oldResolved.Valid && oldResolved.String != "" {
			resolved = oldResolved.String
		} else {
			resolved = time.Now().UTC().Format(time.RFC3339Nano)
		}
	}

	const query = `UPDATE incidents
		SET incident_type = ?, severity = ?, description = ?, status = ?, resolved_at = ?, analyst = ?
		WHERE id = ?`

	if _, err := r.db.Writer.ExecContext(ctx, query,
		incident.IncidentType, incident.Severity, incident.Description, incident.Status,
		resolved, nullableString(incident.Analyst), id); err != nil {
		return fmt.Errorf("update incident %d: %w", id, err)
	}

	return nil
}

// Delete removes the incident with the given id. No-op when the id is absent.
func (r *IncidentRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM incidents WHERE id = ?`

	if _, err := r.db.Writer.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete incident %d: %w", id, err)
	}

	return nil
}

// Count returns the number of incidents.
func (r *IncidentRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM incidents`

	var n int64
	if err := r.db.Reader.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count incidents: %w", err)
	}

	return n, nil
}

// scanIncident maps a row to an Incident, substituting defaults for NULL
// columns: incident_type "Other", severity "Low", status "Open", and the
// current time for detected_at.
func scanIncident(s scanner) (*model.Incident, error) {
	var (
		incident     model.Incident
		incidentType sql.NullString
		severity     sql.NullString
		description  sql.NullString
		status       sql.NullString
		detected     sql.NullString
		resolved     sql.NullString
		analyst      sql.NullString
	)

	if err := s.Scan(&incident.ID, &incidentType, &severity, &description, &status, &detected, &resolved, &analyst); err != nil {
		return nil, err
	}

	incident.IncidentType = stringOr(incidentType, model.IncidentTypeOther)
	incident.Severity = stringOr(severity, model.SeverityLow)
	incident.Description = stringOr(description, "")
	incident.Status = stringOr(status, model.IncidentStatusOpen)
	incident.DetectedAt = timeOr(detected, time.Now().UTC())
	incident.Analyst = stringOr(analyst, "")

	if resolved.Valid && resolved.String != "" {
		if t, err := parseTime(resolved.String); err == nil {
			incident.ResolvedAt = &t
		}
	}

	return &incident, nil
}

// formatNullableTime renders a timestamp for storage, or nil for SQL NULL.
func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// nullableString stores empty strings as SQL NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
