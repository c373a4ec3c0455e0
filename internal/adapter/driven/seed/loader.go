// Package seed imports the bootstrap CSV files and the legacy users file
// into the stores. Every importer is guarded: it does nothing when the
// target store already holds rows, so re-running an import cannot duplicate
// data.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkarag/opsboard/internal/domain/model"
	"github.com/pkarag/opsboard/internal/domain/port/driven"
)

// Loader reads seed files from a data directory and inserts them through the
// store ports. Each CSV row inserts independently; a bad row is logged and
// skipped rather than aborting the import.
type Loader struct {
	users     driven.UserStore
	tickets   driven.TicketStore
	incidents driven.IncidentStore
	datasets  driven.DatasetStore
	dataDir   string
	logger    *slog.Logger
}

// NewLoader creates a Loader over the given stores and data directory.
func NewLoader(users driven.UserStore, tickets driven.TicketStore, incidents driven.IncidentStore, datasets driven.DatasetStore, dataDir string, logger *slog.Logger) *Loader {
	return &Loader{
		users:     users,
		tickets:   tickets,
		incidents: incidents,
		datasets:  datasets,
		dataDir:   dataDir,
		logger:    logger,
	}
}

// ImportTickets loads it_tickets.csv. Columns used: description (title),
// priority, status, created_at (created_date). Returns the number of rows
// inserted; 0 when the store already has tickets or the file is absent.
func (l *Loader) ImportTickets(ctx context.Context) (int, error) {
	n, err := l.tickets.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("import tickets: count: %w", err)
	}
	if n > 0 {
		l.logger.Info("ticket import skipped, store not empty", "existing", n)
		return 0, nil
	}

	return l.importCSV(ctx, "it_tickets.csv", func(ctx context.Context, get func(string) string) error {
		ticket := model.Ticket{
			Title:       get("description"),
			Priority:    get("priority"),
			Status:      get("status"),
			CreatedDate: parseTimestamp(get("created_at")),
		}
		_, err := l.tickets.Create(ctx, ticket)
		return err
	})
}

// ImportIncidents loads cyber_incidents.csv. Columns used: category
// (incident_type), severity, status, description, timestamp (detected_at).
func (l *Loader) ImportIncidents(ctx context.Context) (int, error) {
	n, err := l.incidents.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("import incidents: count: %w", err)
	}
	if n > 0 {
		l.logger.Info("incident import skipped, store not empty", "existing", n)
		return 0, nil
	}

	return l.importCSV(ctx, "cyber_incidents.csv", func(ctx context.Context, get func(string) string) error {
		incident := model.Incident{
			IncidentType: get("category"),
			Severity:     get("severity"),
			Description:  get("description"),
			Status:       get("status"),
			DetectedAt:   parseTimestamp(get("timestamp")),
		}
		_, err := l.incidents.Create(ctx, incident)
		return err
	})
}

// ImportDatasets loads datasets_metadata.csv. Columns used: name
// (dataset_name), rows, uploaded_by (owner), upload_date (last_updated).
// The CSV carries no source, size or sensitivity; those fall back to empty
// source, 0 MB, Low sensitivity, Active status.
func (l *Loader) ImportDatasets(ctx context.Context) (int, error) {
	n, err := l.datasets.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("import datasets: count: %w", err)
	}
	if n > 0 {
		l.logger.Info("dataset import skipped, store not empty", "existing", n)
		return 0, nil
	}

	return l.importCSV(ctx, "datasets_metadata.csv", func(ctx context.Context, get func(string) string) error {
		dataset := model.Dataset{
			DatasetName: get("name"),
			Owner:       get("uploaded_by"),
			Rows:        parseInt(get("rows")),
			SizeMB:      parseFloat(get("size_mb")),
			Sensitivity: model.SensitivityLow,
			LastUpdated: parseTimestamp(get("upload_date")),
			Status:      model.DatasetStatusActive,
		}
		_, err := l.datasets.Create(ctx, dataset)
		return err
	})
}

// ImportUsers loads users.txt, one "username,bcrypt-hash" pair per line.
// Runs only when the users table is empty. Blank lines and lines without a
// comma are skipped with a warning.
func (l *Loader) ImportUsers(ctx context.Context) (int, error) {
	n, err := l.users.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("import users: count: %w", err)
	}
	if n > 0 {
		l.logger.Info("user import skipped, store not empty", "existing", n)
		return 0, nil
	}

	path := filepath.Join(l.dataDir, "users.txt")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("seed file not found, skipping", "path", path)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("import users: %w", err)
	}

	inserted := 0
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		username, hash, ok := strings.Cut(line, ",")
		username = strings.TrimSpace(username)
		hash = strings.TrimSpace(hash)
		if !ok || username == "" || hash == "" {
			l.logger.Warn("skipping malformed users line", "line", i+1)
			continue
		}

		if _, err := l.users.Register(ctx, username, hash); err != nil {
			if errors.Is(err, driven.ErrDuplicateUsername) {
				l.logger.Warn("skipping duplicate seed user", "username", username)
				continue
			}
			return inserted, fmt.Errorf("import users: %w", err)
		}
		inserted++
	}

	l.logger.Info("user import finished", "inserted", inserted)
	return inserted, nil
}

// importCSV streams a CSV file from the data directory, resolving columns by
// exact header name and calling insert once per data row. A missing file is
// a warning, not an error.
func (l *Loader) importCSV(ctx context.Context, filename string, insert func(ctx context.Context, get func(string) string) error) (int, error) {
	path := filepath.Join(l.dataDir, filename)

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("seed file not found, skipping", "path", path)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		l.logger.Warn("seed file empty, skipping", "path", path)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s header: %w", filename, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	inserted := 0
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			l.logger.Warn("skipping unreadable csv row", "file", filename, "row", row, "error", err)
			row++
			continue
		}
		row++

		get := func(column string) string {
			i, ok := index[column]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		if err := insert(ctx, get); err != nil {
			l.logger.Warn("skipping csv row", "file", filename, "row", row, "error", err)
			continue
		}
		inserted++
	}

	l.logger.Info("csv import finished", "file", filename, "inserted", inserted)
	return inserted, nil
}

// timestampLayouts are the formats seen across the seed CSVs and exports
// from the previous system.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp parses a seed timestamp, returning the zero time when the
// cell is empty or unparseable so the store assigns its own default.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseInt coerces a numeric cell, returning 0 for anything malformed.
func parseInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// parseFloat coerces a numeric cell, returning 0 for anything malformed.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
