package config

import (
	"os"
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("NONEXISTENT_REQUIRED_VAR")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("TEST_REQUIRED", "value123")
	defer os.Unsetenv("TEST_REQUIRED")

	result := mustGetEnv("TEST_REQUIRED")
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}

func TestGetEnvAsDurationOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		defaultVal time.Duration
		expected   time.Duration
	}{
		{"parses duration", "90m", time.Hour, 90 * time.Minute},
		{"parses seconds", "30", time.Hour, 30 * time.Second},
		{"uses default for empty", "", time.Hour, time.Hour},
		{"uses default for garbage", "soon", time.Hour, time.Hour},
		{"uses default for negative", "-5m", time.Hour, time.Hour},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tc.envValue)

			result := getEnvAsDurationOrDefault("TEST_DURATION", tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, result)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("FACT_CACHE_TTL", "")
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("LLM_MAX_ATTEMPTS", "3")
	t.Setenv("GOOGLE_TRANSLATE_API_KEY", "")
	t.Setenv("TRANSLATOR", "")

	cfg := Load()
	if cfg.SessionSecret != "secret" {
		t.Errorf("Expected session secret to be loaded, got %q", cfg.SessionSecret)
	}
	if cfg.SessionTTL != 45*time.Minute {
		t.Errorf("Expected 45m session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.FactCacheTTL != 24*time.Hour {
		t.Errorf("Expected default 24h fact TTL, got %s", cfg.FactCacheTTL)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("Expected anthropic provider, got %q", cfg.LLM.Provider)
	}
	if cfg.LLM.Retry.MaxAttempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", cfg.LLM.Retry.MaxAttempts)
	}
	if cfg.Translator != "llm" {
		t.Errorf("Expected llm translator without a Google key, got %q", cfg.Translator)
	}
}

func TestLoad_GoogleTranslatorWhenKeySet(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("GOOGLE_TRANSLATE_API_KEY", "key")
	t.Setenv("TRANSLATOR", "")

	if got := Load().Translator; got != "google" {
		t.Errorf("Expected google translator, got %q", got)
	}
}

func TestLoadPipeline_NoSecretRequired(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("LLM_PROVIDER", "mock")

	cfg := LoadPipeline()
	if cfg.LLM.Provider != "mock" {
		t.Errorf("Expected mock provider, got %q", cfg.LLM.Provider)
	}
}
