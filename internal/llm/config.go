package llm

import (
	"fmt"
	"time"
)

// Config holds all language-model configuration.
type Config struct {
	// Provider selects the primary model backend.
	// Values: "groq", "openai", "gemini", "vertex", "anthropic", "mock"
	Provider string

	// Fallback optionally names a second backend tried once after the
	// primary has exhausted its retries.
	Fallback string

	// Model overrides the primary provider's default model.
	Model string

	// BaseURL overrides the endpoint of the groq/openai providers.
	BaseURL string

	GroqAPIKey      string
	OpenAIAPIKey    string
	GeminiAPIKey    string
	AnthropicAPIKey string
	VertexProject   string
	VertexLocation  string

	// ConcurrentRequests caps in-flight calls per backend.
	ConcurrentRequests int

	// Timeout bounds a single attempt.
	Timeout time.Duration

	Retry RetryConfig
}

var defaultModels = map[string]string{
	"groq":      "llama-scout",
	"openai":    "gpt-4o-mini",
	"gemini":    "gemini-flash",
	"vertex":    "gemini-flash",
	"anthropic": "claude-haiku",
	"mock":      "mock",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:           "groq",
		ConcurrentRequests: 4,
		Timeout:            60 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// Validate checks that the selected providers have their credentials set.
func (c Config) Validate() error {
	if err := c.validateProvider(c.Provider); err != nil {
		return err
	}
	if c.Fallback == "" {
		return nil
	}
	if c.Fallback == c.Provider {
		return fmt.Errorf("LLM_FALLBACK_PROVIDER must differ from LLM_PROVIDER")
	}
	return c.validateProvider(c.Fallback)
}

func (c Config) validateProvider(name string) error {
	switch name {
	case "groq":
		if c.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required for the groq provider")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case "vertex":
		if c.VertexProject == "" {
			return fmt.Errorf("VERTEX_PROJECT is required for the vertex provider")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", name)
	}
	return nil
}

// modelFor returns the model to use for the named provider. The Model
// override only applies to the primary.
func (c Config) modelFor(name string) string {
	if name == c.Provider && c.Model != "" {
		return c.Model
	}
	return defaultModels[name]
}
