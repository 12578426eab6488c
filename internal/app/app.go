// Package app assembles the question pipeline from configuration. The HTTP
// server and the CLI share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"

	"sciencegpt-backend/internal/config"
	"sciencegpt-backend/internal/curriculum"
	"sciencegpt-backend/internal/llm"
	"sciencegpt-backend/internal/services"
)

// Pipeline holds the generators built for one process.
type Pipeline struct {
	Provider    llm.Provider
	Answers     *services.AnswerGenerator
	Suggestions *services.SuggestionGenerator
	Facts       *services.FactGenerator
}

// NewPipeline wires the provider, translator and video services. Missing
// optional keys disable their stage instead of failing.
func NewPipeline(ctx context.Context, cfg *config.Config, catalog *curriculum.Catalog, publisher services.Publisher, logger *slog.Logger) (*Pipeline, error) {
	provider, err := llm.NewProvider(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("language model: %w", err)
	}

	translator, err := newTranslator(ctx, cfg, provider)
	if err != nil {
		return nil, err
	}
	if translator == nil {
		logger.Warn("translation disabled; answers will be returned in English")
	}

	var index services.VideoIndex
	if cfg.YouTubeAPIKey != "" {
		search, err := services.NewYouTubeSearch(ctx, option.WithAPIKey(cfg.YouTubeAPIKey))
		if err != nil {
			return nil, err
		}
		index = search
	} else {
		logger.Warn("YOUTUBE_API_KEY not set; answers will not include videos")
	}

	yt := services.NewYouTubeService(logger)

	answers := services.NewAnswerGenerator(services.AnswerGeneratorConfig{
		Provider:   provider,
		Gateway:    services.NewGateway(translator, catalog, logger),
		Selector:   services.NewVideoSelector(index, provider, logger),
		Summarizer: services.NewVideoSummarizer(yt, yt, provider, logger),
		Publisher:  publisher,
		Logger:     logger,
	})

	return &Pipeline{
		Provider:    provider,
		Answers:     answers,
		Suggestions: services.NewSuggestionGenerator(provider, logger),
		Facts: services.NewFactGenerator(services.FactGeneratorConfig{
			Provider: provider,
			Answers:  answers,
			TTL:      cfg.FactCacheTTL,
			Logger:   logger,
		}),
	}, nil
}

// newTranslator returns nil when translation is switched off.
func newTranslator(ctx context.Context, cfg *config.Config, provider llm.Provider) (services.Translator, error) {
	switch cfg.Translator {
	case "google":
		if cfg.GoogleTranslateAPIKey == "" {
			return nil, errors.New("TRANSLATOR=google requires GOOGLE_TRANSLATE_API_KEY")
		}
		t, err := services.NewGoogleTranslator(ctx, option.WithAPIKey(cfg.GoogleTranslateAPIKey))
		if err != nil {
			return nil, err
		}
		return t, nil
	case "llm":
		return services.NewLLMTranslator(provider), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown TRANSLATOR %q (want google, llm or none)", cfg.Translator)
	}
}
