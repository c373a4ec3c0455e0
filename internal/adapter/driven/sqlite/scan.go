package sqlite

import (
	"database/sql"
	"fmt"
	"time"
)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		"2006-01-02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}

// Row-mapping contract: collaborators may leave optional columns NULL, and
// bulk imports may carry malformed values. Scanning substitutes documented
// defaults instead of failing.

// stringOr returns the column value, or def when the column is NULL or empty.
func stringOr(ns sql.NullString, def string) string {
	if ns.Valid && ns.String != "" {
		return ns.String
	}
	return def
}

// timeOr parses the column value as a timestamp, falling back to def when the
// column is NULL, empty, or not in a recognized format.
func timeOr(ns sql.NullString, def time.Time) time.Time {
	if !ns.Valid || ns.String == "" {
		return def
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return def
	}
	return t
}
