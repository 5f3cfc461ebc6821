package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

var (
	// ErrResponseTooLarge is returned when an answer exceeds the size cap.
	ErrResponseTooLarge = errors.New("oracle response exceeds size limit")
	// ErrTruncated is returned when the model stopped at the token limit.
	ErrTruncated = errors.New("oracle response truncated at token limit")
	// ErrEmptyResponse is returned when the answer has no text content.
	ErrEmptyResponse = errors.New("oracle response has no text content")
)

// Runner provides simple text-in/text-out Claude API calls.
// It is the oracle used by the decomposition and planning orchestrators.
type Runner struct {
	client *Client
}

// NewRunner creates a new API runner.
func NewRunner(client *Client) *Runner {
	return &Runner{client: client}
}

// Complete sends one system + user prompt and returns the text answer.
// Exactly one HTTP round-trip is made.
func (r *Runner) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := r.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
		Model:     r.client.Model(),
		MaxTokens: r.client.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("API call failed: %w", err)
	}

	r.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var result strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			if result.Len()+len(variant.Text) > r.client.maxResponseBytes {
				return "", fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, r.client.maxResponseBytes)
			}
			result.WriteString(variant.Text)
		}
	}

	if resp.StopReason == anthropic.StopReasonMaxTokens {
		return result.String(), ErrTruncated
	}
	if strings.TrimSpace(result.String()) == "" {
		return "", ErrEmptyResponse
	}

	return result.String(), nil
}
