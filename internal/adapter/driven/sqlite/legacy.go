package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// ReconcileLegacyTickets upgrades a tickets table left behind by an older
// release, which stored the ticket text in a "description" column and the
// creation timestamp in "created_at". Missing current columns are added and
// backfilled from their legacy counterparts; legacy columns and their data
// are left in place. Safe to run on every startup: each step is additive and
// skips rows that already carry a value.
func ReconcileLegacyTickets(ctx context.Context, db *sql.DB) error {
	cols, err := tableColumns(ctx, db, "tickets")
	if err != nil {
		return fmt.Errorf("inspect tickets schema: %w", err)
	}

	if !cols["title"] {
		if _, err := db.ExecContext(ctx, `ALTER TABLE tickets ADD COLUMN title TEXT`); err != nil {
			return fmt.Errorf("add title column: %w", err)
		}
		cols["title"] = true
	}

	if !cols["created_date"] {
		if _, err := db.ExecContext(ctx, `ALTER TABLE tickets ADD COLUMN created_date TEXT`); err != nil {
			return fmt.Errorf("add created_date column: %w", err)
		}
		cols["created_date"] = true
	}

	if cols["description"] {
		const backfill = `UPDATE tickets
			SET title = description
			WHERE (title IS NULL OR title = '') AND description IS NOT NULL`
		if _, err := db.ExecContext(ctx, backfill); err != nil {
			return fmt.Errorf("backfill title from description: %w", err)
		}
	}

	if cols["created_at"] {
		const backfill = `UPDATE tickets
			SET created_date = created_at
			WHERE (created_date IS NULL OR created_date = '') AND created_at IS NOT NULL`
		if _, err := db.ExecContext(ctx, backfill); err != nil {
			return fmt.Errorf("backfill created_date from created_at: %w", err)
		}
	}

	return nil
}

// tableColumns returns the set of column names of the given table via
// PRAGMA table_info. An empty set means the table does not exist.
func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name       string
			typ        string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("scan table_info row: %w", err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cols, nil
}
