package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pkarag/opsboard/internal/domain/port/driven"
)

// ErrEmptyQuestion is returned by Ask when the question is blank.
var ErrEmptyQuestion = errors.New("question must not be empty")

// AdvisorService builds a ticket-data summary and forwards questions to the
// advisor port.
type AdvisorService struct {
	tickets driven.TicketStore
	advisor driven.Advisor
}

// NewAdvisorService creates an AdvisorService over the ticket store and the
// advisor port.
func NewAdvisorService(tickets driven.TicketStore, advisor driven.Advisor) *AdvisorService {
	return &AdvisorService{tickets: tickets, advisor: advisor}
}

// Summary renders the current ticket data as a short text block for the
// language model.
func (s *AdvisorService) Summary(ctx context.Context) (string, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("summarize tickets: %w", err)
	}

	if len(tickets) == 0 {
		return "There are no tickets currently in the system.", nil
	}

	byStatus := make(map[string]int)
	byPriority := make(map[string]int)
	for _, t := range tickets {
		byStatus[t.Status]++
		byPriority[t.Priority]++
	}

	return fmt.Sprintf("There are %d tickets. Status counts: %s. Priority counts: %s.",
		len(tickets), formatCounts(byStatus), formatCounts(byPriority)), nil
}

// Ask validates the question, builds the summary and forwards both to the
// advisor. Advisor errors come back unwrapped enough for errors.Is checks
// against driven.ErrAdvisorNotConfigured.
func (s *AdvisorService) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}

	summary, err := s.Summary(ctx)
	if err != nil {
		return "", err
	}

	answer, err := s.advisor.Ask(ctx, question, summary)
	if err != nil {
		return "", fmt.Errorf("ask advisor: %w", err)
	}

	return answer, nil
}

// formatCounts renders a count map as "k1=v1, k2=v2" with sorted keys so the
// summary is deterministic.
func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
