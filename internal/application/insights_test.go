package application

import (
	"context"
	"testing"
	"time"

	"github.com/pkarag/opsboard/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsightsService_TicketMetrics(t *testing.T) {
	tickets := &fakeTicketStore{tickets: []model.Ticket{
		{ID: 1, Title: "a", Priority: model.TicketPriorityHigh, Status: model.TicketStatusOpen},
		{ID: 2, Title: "b", Priority: model.TicketPriorityHigh, Status: model.TicketStatusClosed},
		{ID: 3, Title: "c", Priority: model.TicketPriorityLow, Status: model.TicketStatusOpen},
		{ID: 4, Title: "d", Priority: model.TicketPriorityMedium, Status: model.TicketStatusInProgress},
	}}
	svc := NewInsightsService(tickets, &fakeIncidentStore{}, &fakeDatasetStore{})

	m, err := svc.TicketMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, m.Total)
	assert.Equal(t, 2, m.Open)
	assert.Equal(t, 2, m.HighPriority)
	assert.Equal(t, map[string]int{"Open": 2, "Closed": 1, "In Progress": 1}, m.ByStatus)
	assert.Equal(t, map[string]int{"High": 2, "Low": 1, "Medium": 1}, m.ByPriority)
}

func TestInsightsService_TicketMetrics_Empty(t *testing.T) {
	svc := NewInsightsService(&fakeTicketStore{}, &fakeIncidentStore{}, &fakeDatasetStore{})

	m, err := svc.TicketMetrics(context.Background())
	require.NoError(t, err)

	assert.Zero(t, m.Total)
	assert.Empty(t, m.ByStatus)
}

func TestInsightsService_IncidentMetrics(t *testing.T) {
	day1 := time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	resolved := day1.Add(90 * time.Minute)

	incidents := &fakeIncidentStore{incidents: []model.Incident{
		{ID: 1, IncidentType: "Phishing", Severity: model.SeverityHigh, Status: model.IncidentStatusResolved, DetectedAt: day1, ResolvedAt: &resolved},
		{ID: 2, IncidentType: "Phishing", Severity: model.SeverityLow, Status: model.IncidentStatusOpen, DetectedAt: day1.Add(time.Hour)},
		{ID: 3, IncidentType: "Phishing", Severity: model.SeverityMedium, Status: model.IncidentStatusOpen, DetectedAt: day2},
		{ID: 4, IncidentType: "Malware", Severity: model.SeverityCritical, Status: model.IncidentStatusOpen, DetectedAt: day2},
	}}
	svc := NewInsightsService(&fakeTicketStore{}, incidents, &fakeDatasetStore{})

	m, err := svc.IncidentMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, m.Total)
	assert.Equal(t, 3, m.Open)
	assert.Equal(t, 1, m.Resolved)
	assert.Equal(t, 3, m.Phishing)
	assert.Equal(t, map[string]int{"Phishing": 3, "Malware": 1}, m.ByType)
	assert.Equal(t, map[string]int{"High": 1, "Low": 1, "Medium": 1, "Critical": 1}, m.BySeverity)

	require.Len(t, m.PhishingDaily, 2)
	assert.Equal(t, DailyCount{Day: "2024-03-10", Count: 2}, m.PhishingDaily[0])
	assert.Equal(t, DailyCount{Day: "2024-03-11", Count: 1}, m.PhishingDaily[1])

	require.Contains(t, m.AvgResolutionMinutes, "Phishing")
	assert.InDelta(t, 90.0, m.AvgResolutionMinutes["Phishing"], 0.001)
	assert.NotContains(t, m.AvgResolutionMinutes, "Malware", "unresolved incidents carry no resolution time")
}

func TestInsightsService_DatasetMetrics(t *testing.T) {
	datasets := &fakeDatasetStore{datasets: []model.Dataset{
		{ID: 1, DatasetName: "big-low", Source: "Finance", SizeMB: 500, Rows: 100, Sensitivity: "Low", Status: model.DatasetStatusActive},
		{ID: 2, DatasetName: "big-pii", Source: "HR", SizeMB: 400, Rows: 90000, Sensitivity: "PII", Status: model.DatasetStatusActive},
		{ID: 3, DatasetName: "small", Source: "Finance", SizeMB: 10, Rows: 50, Sensitivity: "Medium", Status: model.DatasetStatusArchived},
	}}
	svc := NewInsightsService(&fakeTicketStore{}, &fakeIncidentStore{}, datasets)

	m, err := svc.DatasetMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, m.Total)
	assert.InDelta(t, 910, m.TotalSizeMB, 0.001)
	assert.Equal(t, 2, m.Active)
	assert.Equal(t, 1, m.HighSensitivity)
	assert.Equal(t, map[string]int{"Finance": 2, "HR": 1}, m.BySource)

	require.NotEmpty(t, m.TopBySize)
	assert.Equal(t, "big-low", m.TopBySize[0].DatasetName)
	require.NotEmpty(t, m.TopByRows)
	assert.Equal(t, "big-pii", m.TopByRows[0].DatasetName)

	// Median size is 400; only "big-low" is above it with Low/Medium sensitivity.
	require.Len(t, m.ArchiveCandidates, 1)
	assert.Equal(t, "big-low", m.ArchiveCandidates[0].DatasetName)
}

func TestInsightsService_DatasetMetrics_TopListCap(t *testing.T) {
	store := &fakeDatasetStore{}
	for i := 1; i <= 15; i++ {
		store.datasets = append(store.datasets, model.Dataset{
			ID: int64(i), DatasetName: "d", SizeMB: float64(i), Rows: int64(i),
			Sensitivity: "Low", Status: model.DatasetStatusActive,
		})
	}
	svc := NewInsightsService(&fakeTicketStore{}, &fakeIncidentStore{}, store)

	m, err := svc.DatasetMetrics(context.Background())
	require.NoError(t, err)

	assert.Len(t, m.TopBySize, 10)
	assert.Len(t, m.TopByRows, 10)
	assert.InDelta(t, 15, m.TopBySize[0].SizeMB, 0.001)
}
