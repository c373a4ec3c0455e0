package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileLegacyTickets_BackfillsFromLegacyColumns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	// Schema shape produced by the previous release.
	_, err := db.Writer.ExecContext(ctx, `CREATE TABLE tickets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		priority TEXT,
		status TEXT,
		description TEXT,
		created_at TEXT
	)`)
	require.NoError(t, err)

	_, err = db.Writer.ExecContext(ctx,
		`INSERT INTO tickets (priority, status, description, created_at) VALUES (?, ?, ?, ?)`,
		"High", "Open", "email server unreachable", "2024-01-15 10:30:00")
	require.NoError(t, err)

	// Startup sequence of the real binary on a legacy database file.
	require.NoError(t, RunMigrations(db.Writer))
	require.NoError(t, ReconcileLegacyTickets(ctx, db.Writer))

	repo := NewTicketRepo(db)
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	got := all[0]
	assert.Equal(t, "email server unreachable", got.Title)
	assert.Equal(t, "High", got.Priority)
	assert.Equal(t, "Open", got.Status)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), got.CreatedDate.UTC())
}

func TestReconcileLegacyTickets_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	repo := NewTicketRepo(db)
	created, err := repo.Create(ctx, makeTicket("Keyboard broken", "Low", "Open"))
	require.NoError(t, err)

	// A second run must not disturb rows written by the current schema.
	require.NoError(t, ReconcileLegacyTickets(ctx, db.Writer))
	require.NoError(t, ReconcileLegacyTickets(ctx, db.Writer))

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Keyboard broken", got.Title)
	assert.True(t, got.CreatedDate.Equal(created.CreatedDate))
}

func TestReconcileLegacyTickets_DoesNotOverwriteExistingValues(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.Writer.ExecContext(ctx, `CREATE TABLE tickets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT,
		priority TEXT,
		status TEXT,
		created_date TEXT,
		description TEXT,
		created_at TEXT
	)`)
	require.NoError(t, err)

	_, err = db.Writer.ExecContext(ctx,
		`INSERT INTO tickets (title, priority, status, created_date, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		"current title", "Medium", "Open", "2024-06-01T00:00:00Z", "legacy description", "2024-01-01 00:00:00")
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db.Writer))
	require.NoError(t, ReconcileLegacyTickets(ctx, db.Writer))

	repo := NewTicketRepo(db)
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	assert.Equal(t, "current title", all[0].Title)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), all[0].CreatedDate.UTC())
}
