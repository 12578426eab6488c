// Package llm wraps the hosted language models used to answer questions,
// pick videos, summarize transcripts and write suggestions.
package llm

import (
	"context"
	"strings"
)

// Provider is a single-turn text generator.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request is one prompt with its sampling settings.
type Request struct {
	// System sets the model's role and tone. Optional.
	System string

	// Prompt is the user turn.
	Prompt string

	// Temperature controls randomness, 0.0 - 1.0.
	Temperature float64

	// MaxTokens caps the reply length. Zero leaves it to the provider.
	MaxTokens int
}

// Response holds the model's output.
type Response struct {
	Text  string
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Complete runs req and returns the trimmed text. A reply with no text is
// reported as ErrEmptyResponse.
func Complete(ctx context.Context, p Provider, req Request) (string, error) {
	resp, err := p.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
