package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// NewProvider builds the configured provider chain:
// caller → fallback → retry → timeout → concurrency limit → logging → base.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	primary, err := newChain(ctx, cfg, cfg.Provider, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Fallback == "" {
		return primary, nil
	}

	secondary, err := newChain(ctx, cfg, cfg.Fallback, logger)
	if err != nil {
		return nil, err
	}
	return WithFallback(primary, secondary, logger), nil
}

func newChain(ctx context.Context, cfg Config, name string, logger *slog.Logger) (Provider, error) {
	base, err := newBase(ctx, cfg, name)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", name, err)
	}
	if name == "mock" {
		return base, nil
	}

	p := WithLogging(base, logger)
	p = WithConcurrencyLimit(p, cfg.ConcurrentRequests)
	p = WithTimeout(p, cfg.Timeout)
	return WithRetry(p, cfg.Retry), nil
}

func newBase(ctx context.Context, cfg Config, name string) (Provider, error) {
	model := cfg.modelFor(name)

	switch name {
	case "groq":
		baseURL := GroqBaseURL
		if cfg.BaseURL != "" && name == cfg.Provider {
			baseURL = cfg.BaseURL
		}
		return NewOpenAIProvider(OpenAIConfig{APIKey: cfg.GroqAPIKey, Model: model, BaseURL: baseURL})
	case "openai":
		var baseURL string
		if name == cfg.Provider {
			baseURL = cfg.BaseURL
		}
		return NewOpenAIProvider(OpenAIConfig{APIKey: cfg.OpenAIAPIKey, Model: model, BaseURL: baseURL})
	case "gemini":
		return NewGeminiProvider(ctx, GeminiConfig{APIKey: cfg.GeminiAPIKey, Model: model})
	case "vertex":
		return NewVertexProvider(ctx, VertexConfig{Project: cfg.VertexProject, Location: cfg.VertexLocation, Model: model})
	case "anthropic":
		return NewAnthropicProvider(AnthropicConfig{APIKey: cfg.AnthropicAPIKey, Model: model})
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", name)
	}
}
