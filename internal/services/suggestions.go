package services

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"sciencegpt-backend/internal/cache"
	"sciencegpt-backend/internal/llm"
	"sciencegpt-backend/internal/models"
	"sciencegpt-backend/internal/session"
)

const (
	maxSuggestions         = 4
	suggestionsTemp        = 0.7
	suggestionsMaxTokens   = 500
	suggestionsCachePrefix = "suggestions:"
)

// FallbackSuggestions are shown when the model cannot produce questions.
var FallbackSuggestions = []string{
	"What is the structure of an atom?",
	"How do plants make their food?",
	"What causes the seasons to change?",
	"Why is water important for living things?",
}

var listPrefixRegex = regexp.MustCompile(`^(?:[-*•]+|\(?\d+[.):]|[Qq]\d+[.):])\s*`)

// SuggestionGenerator produces starter questions for the applied settings.
type SuggestionGenerator struct {
	provider llm.Provider
	logger   *slog.Logger
}

func NewSuggestionGenerator(provider llm.Provider, logger *slog.Logger) *SuggestionGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SuggestionGenerator{provider: provider, logger: logger}
}

// Suggestions returns the cached list while the settings key is unchanged
// and the session has not marked suggestions stale. Suggestions do not
// expire on their own.
func (g *SuggestionGenerator) Suggestions(ctx context.Context, sess *session.Session, s models.Settings) []string {
	key := cache.SettingsKey(s.Grade, s.Subject, s.Language, s.Topic)
	cacheKey := suggestionsCachePrefix + key

	lastKey, stale := sess.SuggestionState()
	if key == lastKey && !stale {
		if cached, ok := g.cached(ctx, sess, cacheKey); ok {
			return cached
		}
	}

	suggestions, err := g.generate(ctx, s)
	if err != nil {
		g.logger.WarnContext(ctx, "suggestion generation failed, using fallback",
			"session_id", sess.ID, "error", err)
		return append([]string{}, FallbackSuggestions...)
	}

	if err := sess.Cache.Put(ctx, cacheKey, suggestions); err != nil {
		g.logger.WarnContext(ctx, "failed to cache suggestions", "session_id", sess.ID, "error", err)
	}
	sess.SuggestionsGenerated(key)
	return suggestions
}

func (g *SuggestionGenerator) cached(ctx context.Context, sess *session.Session, key string) ([]string, bool) {
	entry, ok, err := sess.Cache.Get(ctx, key)
	if err != nil {
		g.logger.WarnContext(ctx, "suggestion cache read failed", "session_id", sess.ID, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var out []string
	if err := entry.Decode(&out); err != nil || len(out) == 0 {
		return nil, false
	}
	return out, true
}

func (g *SuggestionGenerator) generate(ctx context.Context, s models.Settings) ([]string, error) {
	if g.provider == nil {
		return nil, llm.ErrEmptyResponse
	}
	out, err := llm.Complete(llm.WithPurpose(ctx, "suggestions"), g.provider, llm.Request{
		System:      curriculumSystem,
		Prompt:      buildSuggestionsPrompt(s),
		Temperature: suggestionsTemp,
		MaxTokens:   suggestionsMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	suggestions := parseSuggestions(out)
	if len(suggestions) == 0 {
		return nil, llm.ErrEmptyResponse
	}
	return suggestions, nil
}

// parseSuggestions keeps up to four non-blank lines with list markers
// removed.
func parseSuggestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(listPrefixRegex.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
