package driven

import (
	"context"
	"errors"
)

// ErrAdvisorNotConfigured is returned by Advisor operations when
// OPSBOARD_OPENAI_API_KEY has not been configured.
var ErrAdvisorNotConfigured = errors.New("advisor not configured: set OPSBOARD_OPENAI_API_KEY")

// Advisor forwards a natural-language question together with a textual data
// summary to an external language model and returns its free-text answer.
// Single request/response exchange; no retry or backoff policy.
type Advisor interface {
	Ask(ctx context.Context, question, summary string) (string, error)
}
