package application

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkarag/opsboard/internal/domain/model"
	"github.com/pkarag/opsboard/internal/domain/port/driven"
)

// topListLimit caps the "largest datasets" rankings.
const topListLimit = 10

// TicketMetrics aggregates the ticket store for the dashboard.
type TicketMetrics struct {
	Total        int            `json:"total"`
	Open         int            `json:"open"`
	HighPriority int            `json:"high_priority"`
	ByStatus     map[string]int `json:"by_status"`
	ByPriority   map[string]int `json:"by_priority"`
}

// DailyCount is one day of a trend series.
type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// IncidentMetrics aggregates the incident store for the dashboard.
type IncidentMetrics struct {
	Total                int                `json:"total"`
	Open                 int                `json:"open"`
	Resolved             int                `json:"resolved"`
	Phishing             int                `json:"phishing"`
	BySeverity           map[string]int     `json:"by_severity"`
	ByType               map[string]int     `json:"by_type"`
	PhishingDaily        []DailyCount       `json:"phishing_daily"`
	AvgResolutionMinutes map[string]float64 `json:"avg_resolution_minutes"`
}

// DatasetMetrics aggregates the dataset store for the dashboard.
type DatasetMetrics struct {
	Total             int             `json:"total"`
	TotalSizeMB       float64         `json:"total_size_mb"`
	Active            int             `json:"active"`
	HighSensitivity   int             `json:"high_sensitivity"`
	TopBySize         []model.Dataset `json:"top_by_size"`
	TopByRows         []model.Dataset `json:"top_by_rows"`
	BySource          map[string]int  `json:"by_source"`
	ArchiveCandidates []model.Dataset `json:"archive_candidates"`
}

// InsightsService computes dashboard metrics by folding over the stores.
// All aggregation happens in memory; the stores are small flat tables.
type InsightsService struct {
	tickets   driven.TicketStore
	incidents driven.IncidentStore
	datasets  driven.DatasetStore
}

// NewInsightsService creates an InsightsService over the three record stores.
func NewInsightsService(tickets driven.TicketStore, incidents driven.IncidentStore, datasets driven.DatasetStore) *InsightsService {
	return &InsightsService{tickets: tickets, incidents: incidents, datasets: datasets}
}

// TicketMetrics computes ticket counts by status and priority.
func (s *InsightsService) TicketMetrics(ctx context.Context) (*TicketMetrics, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ticket metrics: %w", err)
	}

	m := &TicketMetrics{
		Total:      len(tickets),
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
	}
	for _, t := range tickets {
		m.ByStatus[t.Status]++
		m.ByPriority[t.Priority]++
		if t.Status == model.TicketStatusOpen {
			m.Open++
		}
		if t.Priority == model.TicketPriorityHigh {
			m.HighPriority++
		}
	}

	return m, nil
}

// IncidentMetrics computes incident counts, the phishing daily trend and
// average resolution time per incident type.
func (s *InsightsService) IncidentMetrics(ctx context.Context) (*IncidentMetrics, error) {
	incidents, err := s.incidents.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("incident metrics: %w", err)
	}

	m := &IncidentMetrics{
		Total:                len(incidents),
		BySeverity:           make(map[string]int),
		ByType:               make(map[string]int),
		AvgResolutionMinutes: make(map[string]float64),
	}

	phishingByDay := make(map[string]int)
	resolutionTotals := make(map[string]float64)
	resolutionCounts := make(map[string]int)

	for _, inc := range incidents {
		m.BySeverity[inc.Severity]++
		m.ByType[inc.IncidentType]++

		switch inc.Status {
		case model.IncidentStatusOpen:
			m.Open++
		case model.IncidentStatusResolved:
			m.Resolved++
		}

		if strings.EqualFold(inc.IncidentType, "Phishing") {
			m.Phishing++
			phishingByDay[inc.DetectedAt.UTC().Format("2006-01-02")]++
		}

		// Resolution time only over resolved incidents with a sane interval.
		if inc.ResolvedAt != nil && inc.ResolvedAt.After(inc.DetectedAt) {
			minutes := inc.ResolvedAt.Sub(inc.DetectedAt).Minutes()
			resolutionTotals[inc.IncidentType] += minutes
			resolutionCounts[inc.IncidentType]++
		}
	}

	days := make([]string, 0, len(phishingByDay))
	for day := range phishingByDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		m.PhishingDaily = append(m.PhishingDaily, DailyCount{Day: day, Count: phishingByDay[day]})
	}

	for typ, total := range resolutionTotals {
		m.AvgResolutionMinutes[typ] = total / float64(resolutionCounts[typ])
	}

	return m, nil
}

// highSensitivityLabels are the sensitivity values counted as sensitive,
// matched case-insensitively.
var highSensitivityLabels = map[string]bool{
	"high":         true,
	"confidential": true,
	"pii":          true,
	"restricted":   true,
}

// DatasetMetrics computes dataset totals, top-N rankings by size and rows,
// counts by source and the archive candidate list.
func (s *InsightsService) DatasetMetrics(ctx context.Context) (*DatasetMetrics, error) {
	datasets, err := s.datasets.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("dataset metrics: %w", err)
	}

	m := &DatasetMetrics{
		Total:    len(datasets),
		BySource: make(map[string]int),
	}

	for _, d := range datasets {
		m.TotalSizeMB += d.SizeMB
		m.BySource[d.Source]++
		if d.Status == model.DatasetStatusActive {
			m.Active++
		}
		if highSensitivityLabels[strings.ToLower(d.Sensitivity)] {
			m.HighSensitivity++
		}
	}

	m.TopBySize = topDatasets(datasets, func(a, b model.Dataset) bool { return a.SizeMB > b.SizeMB })
	m.TopByRows = topDatasets(datasets, func(a, b model.Dataset) bool { return a.Rows > b.Rows })
	m.ArchiveCandidates = archiveCandidates(datasets)

	return m, nil
}

// topDatasets returns up to topListLimit datasets sorted by the given
// ordering, without mutating the input slice.
func topDatasets(datasets []model.Dataset, less func(a, b model.Dataset) bool) []model.Dataset {
	sorted := make([]model.Dataset, len(datasets))
	copy(sorted, datasets)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })

	if len(sorted) > topListLimit {
		sorted = sorted[:topListLimit]
	}
	return sorted
}

// archiveCandidates selects datasets larger than the median size whose
// sensitivity is Low or Medium.
func archiveCandidates(datasets []model.Dataset) []model.Dataset {
	if len(datasets) == 0 {
		return nil
	}

	sizes := make([]float64, len(datasets))
	for i, d := range datasets {
		sizes[i] = d.SizeMB
	}
	sort.Float64s(sizes)

	var median float64
	mid := len(sizes) / 2
	if len(sizes)%2 == 0 {
		median = (sizes[mid-1] + sizes[mid]) / 2
	} else {
		median = sizes[mid]
	}

	var candidates []model.Dataset
	for _, d := range datasets {
		sensitivity := strings.ToLower(d.Sensitivity)
		if d.SizeMB > median && (sensitivity == "low" || sensitivity == "medium") {
			candidates = append(candidates, d)
		}
	}
	return candidates
}
