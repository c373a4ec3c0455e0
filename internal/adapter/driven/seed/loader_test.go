package seed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkarag/opsboard/internal/adapter/driven/sqlite"
	"github.com/pkarag/opsboard/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLoader(t *testing.T) (*Loader, *sqlite.DB, string) {
	t.Helper()

	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "seed_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.RunMigrations(db.Writer))

	dataDir := t.TempDir()

	loader := NewLoader(
		sqlite.NewUserRepo(db),
		sqlite.NewTicketRepo(db),
		sqlite.NewIncidentRepo(db),
		sqlite.NewDatasetRepo(db),
		dataDir,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return loader, db, dataDir
}

func writeSeedFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoader_ImportTickets(t *testing.T) {
	loader, db, dataDir := setupLoader(t)
	ctx := context.Background()

	writeSeedFile(t, dataDir, "it_tickets.csv",
		"ticket_id,priority,description,status,assigned_to,created_at,resolution_time_hours\n"+
			"1,High,Email server down,Open,dave,2024-01-15 10:30:00,\n"+
			"2,Low,Monitor flickers,Closed,erin,2024-02-01 09:00:00,4.5\n")

	inserted, err := loader.ImportTickets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	tickets, err := sqlite.NewTicketRepo(db).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	assert.Equal(t, "Email server down", tickets[0].Title)
	assert.Equal(t, "High", tickets[0].Priority)
	assert.Equal(t, "Open", tickets[0].Status)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), tickets[0].CreatedDate.UTC())
}

func TestLoader_ImportTickets_LoadOnceGuard(t *testing.T) {
	loader, db, dataDir := setupLoader(t)
	ctx := context.Background()

	_, err := sqlite.NewTicketRepo(db).Create(ctx, model.Ticket{
		Title: "pre-existing", Priority: "Low", Status: "Open",
	})
	require.NoError(t, err)

	writeSeedFile(t, dataDir, "it_tickets.csv",
		"ticket_id,priority,description,status,assigned_to,created_at,resolution_time_hours\n"+
			"1,High,should not load,Open,dave,2024-01-15 10:30:00,\n")

	inserted, err := loader.ImportTickets(ctx)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	n, err := sqlite.NewTicketRepo(db).Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestLoader_ImportTickets_MissingFile(t *testing.T) {
	loader, _, _ := setupLoader(t)

	inserted, err := loader.ImportTickets(context.Background())
	require.NoError(t, err, "missing seed file is a warning, not an error")
	assert.Zero(t, inserted)
}

func TestLoader_ImportIncidents(t *testing.T) {
	loader, db, dataDir := setupLoader(t)
	ctx := context.Background()

	writeSeedFile(t, dataDir, "cyber_incidents.csv",
		"incident_id,timestamp,severity,category,status,description\n"+
			"1,2024-03-10 02:15:00,High,Phishing,Open,credential harvesting email\n"+
			"2,2024-03-11 14:00:00,Critical,Malware,Resolved,ransomware on file server\n")

	inserted, err := loader.ImportIncidents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	incidents, err := sqlite.NewIncidentRepo(db).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, incidents, 2)

	// Descending id order: the resolved malware incident comes first.
	assert.Equal(t, "Malware", incidents[0].IncidentType)
	assert.Equal(t, model.IncidentStatusResolved, incidents[0].Status)
	require.NotNil(t, incidents[0].ResolvedAt)

	assert.Equal(t, "Phishing", incidents[1].IncidentType)
	assert.Equal(t, "credential harvesting email", incidents[1].Description)
	assert.Equal(t, time.Date(2024, 3, 10, 2, 15, 0, 0, time.UTC), incidents[1].DetectedAt.UTC())
	assert.Nil(t, incidents[1].ResolvedAt)
}

func TestLoader_ImportDatasets(t *testing.T) {
	loader, db, dataDir := setupLoader(t)
	ctx := context.Background()

	writeSeedFile(t, dataDir, "datasets_metadata.csv",
		"dataset_id,name,rows,columns,uploaded_by,upload_date\n"+
			"1,Sales2023,10000,12,alice,2023-11-02\n"+
			"2,Churn,not-a-number,5,bob,2023-12-01\n")

	inserted, err := loader.ImportDatasets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	datasets, err := sqlite.NewDatasetRepo(db).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, datasets, 2)

	sales := datasets[1]
	assert.Equal(t, "Sales2023", sales.DatasetName)
	assert.Equal(t, "alice", sales.Owner)
	assert.EqualValues(t, 10000, sales.Rows)
	assert.Equal(t, model.SensitivityLow, sales.Sensitivity)
	assert.Equal(t, model.DatasetStatusActive, sales.Status)
	assert.Equal(t, time.Date(2023, 11, 2, 0, 0, 0, 0, time.UTC), sales.LastUpdated.UTC())

	// Malformed numeric cell coerces to 0.
	assert.Zero(t, datasets[0].Rows)
}

func TestLoader_ImportUsers(t *testing.T) {
	loader, db, dataDir := setupLoader(t)
	ctx := context.Background()

	writeSeedFile(t, dataDir, "users.txt",
		"alice,$2a$10$aaaaaaaaaaaaaaaaaaaaaa\n"+
			"\n"+
			"malformed-line-without-comma\n"+
			"bob,$2a$10$bbbbbbbbbbbbbbbbbbbbbb\n")

	inserted, err := loader.ImportUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	users := sqlite.NewUserRepo(db)
	got, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "$2a$10$aaaaaaaaaaaaaaaaaaaaaa", got.PasswordHash)

	exists, err := users.Exists(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLoader_ImportUsers_SkipsWhenNotEmpty(t *testing.T) {
	loader, db, dataDir := setupLoader(t)
	ctx := context.Background()

	_, err := sqlite.NewUserRepo(db).Register(ctx, "existing", "$2a$10$cccccccccccccccccccccc")
	require.NoError(t, err)

	writeSeedFile(t, dataDir, "users.txt", "alice,$2a$10$aaaaaaaaaaaaaaaaaaaaaa\n")

	inserted, err := loader.ImportUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}
