package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"sciencegpt-backend/internal/llm"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Sessions
	SessionSecret string
	SessionTTL    time.Duration

	// Redis (optional; in-memory cache and fan-out when empty)
	RedisURL string

	// Rate limiting
	ChatRatePerMinute int

	// Response cache
	FactCacheTTL time.Duration

	// Language model
	LLM llm.Config

	// YouTube
	YouTubeAPIKey string

	// Translation
	Translator            string
	GoogleTranslateAPIKey string

	// Frontend
	FrontendURL string
}

// Load reads the server configuration. SESSION_SECRET is required.
func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                  getEnvOrDefault("PORT", "8080"),
		Env:                   getEnvOrDefault("ENV", "development"),
		SessionSecret:         mustGetEnv("SESSION_SECRET"),
		SessionTTL:            getEnvAsDurationOrDefault("SESSION_TTL", 2*time.Hour),
		RedisURL:              getEnvOrDefault("REDIS_URL", ""),
		ChatRatePerMinute:     getEnvAsIntOrDefault("CHAT_RATE_LIMIT_PER_MINUTE", 10),
		FactCacheTTL:          getEnvAsDurationOrDefault("FACT_CACHE_TTL", 24*time.Hour),
		LLM:                   loadLLM(),
		YouTubeAPIKey:         getEnvOrDefault("YOUTUBE_API_KEY", ""),
		GoogleTranslateAPIKey: getEnvOrDefault("GOOGLE_TRANSLATE_API_KEY", ""),
		FrontendURL:           getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}
	cfg.Translator = getEnvOrDefault("TRANSLATOR", defaultTranslator(cfg.GoogleTranslateAPIKey))

	return cfg
}

// LoadPipeline reads only what the question pipeline needs. The CLI uses
// it, so no session secret is required.
func LoadPipeline() *Config {
	godotenv.Load()

	cfg := &Config{
		Env:                   getEnvOrDefault("ENV", "development"),
		FactCacheTTL:          getEnvAsDurationOrDefault("FACT_CACHE_TTL", 24*time.Hour),
		LLM:                   loadLLM(),
		YouTubeAPIKey:         getEnvOrDefault("YOUTUBE_API_KEY", ""),
		GoogleTranslateAPIKey: getEnvOrDefault("GOOGLE_TRANSLATE_API_KEY", ""),
	}
	cfg.Translator = getEnvOrDefault("TRANSLATOR", defaultTranslator(cfg.GoogleTranslateAPIKey))

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func defaultTranslator(googleKey string) string {
	if googleKey != "" {
		return "google"
	}
	return "llm"
}

func loadLLM() llm.Config {
	cfg := llm.DefaultConfig()

	cfg.Provider = getEnvOrDefault("LLM_PROVIDER", cfg.Provider)
	cfg.Fallback = getEnvOrDefault("LLM_FALLBACK_PROVIDER", "")
	cfg.Model = getEnvOrDefault("LLM_MODEL", "")
	cfg.BaseURL = getEnvOrDefault("LLM_BASE_URL", "")
	cfg.GroqAPIKey = getEnvOrDefault("GROQ_API_KEY", "")
	cfg.OpenAIAPIKey = getEnvOrDefault("OPENAI_API_KEY", "")
	cfg.GeminiAPIKey = getEnvOrDefault("GEMINI_API_KEY", "")
	cfg.AnthropicAPIKey = getEnvOrDefault("ANTHROPIC_API_KEY", "")
	cfg.VertexProject = getEnvOrDefault("VERTEX_PROJECT", "")
	cfg.VertexLocation = getEnvOrDefault("VERTEX_LOCATION", "")
	cfg.ConcurrentRequests = getEnvAsIntOrDefault("LLM_CONCURRENT_REQUESTS", cfg.ConcurrentRequests)
	cfg.Timeout = getEnvAsDurationOrDefault("LLM_TIMEOUT", cfg.Timeout)
	cfg.Retry.MaxAttempts = getEnvAsIntOrDefault("LLM_MAX_ATTEMPTS", cfg.Retry.MaxAttempts)

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvAsDurationOrDefault accepts Go durations ("90m") or plain seconds.
func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(val); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}
