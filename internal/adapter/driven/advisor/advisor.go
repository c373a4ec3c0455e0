// Package advisor implements the Advisor port against the OpenAI chat
// completions API. The client is optional: when no API key is configured
// every call fails with driven.ErrAdvisorNotConfigured so the rest of the
// service keeps working without LLM access.
package advisor

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkarag/opsboard/internal/domain/port/driven"
)

// systemPrompt frames the model as a ticket-analysis assistant. Kept short
// to leave the token budget to the summary and the answer.
const systemPrompt = "You are an assistant that analyses IT support tickets. " +
	"Use the provided data summary to give clear, concise, practical advice " +
	"about trends, risks, workload and possible improvements."

const (
	defaultTemperature = 0.3
	maxAnswerTokens    = 400
)

// Compile-time interface satisfaction check.
var _ driven.Advisor = (*Client)(nil)

// Client talks to the OpenAI chat completions endpoint.
type Client struct {
	client     openai.Client
	model      string
	configured bool
}

// New creates an advisor client. An empty apiKey yields an unconfigured
// client whose Ask always returns driven.ErrAdvisorNotConfigured. Extra
// request options (base URL overrides in tests) are appended after the key.
func New(apiKey, model string, opts ...option.RequestOption) *Client {
	if apiKey == "" {
		return &Client{}
	}

	clientOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)

	return &Client{
		client:     openai.NewClient(clientOpts...),
		model:      model,
		configured: true,
	}
}

// Configured reports whether an API key was provided at construction.
func (c *Client) Configured() bool {
	return c.configured
}

// Ask sends the question and data summary in a single chat completion
// request and returns the model's text answer.
func (c *Client) Ask(ctx context.Context, question, summary string) (string, error) {
	if !c.configured {
		return "", driven.ErrAdvisorNotConfigured
	}

	userContent := fmt.Sprintf("Data summary: %s\n\nUser question: %s", summary, question)

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userContent),
		},
		Temperature: openai.Float(defaultTemperature),
		MaxTokens:   openai.Int(maxAnswerTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}

	return completion.Choices[0].Message.Content, nil
}
