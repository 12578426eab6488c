package services

import (
	"context"
	"log/slog"

	"sciencegpt-backend/internal/llm"
	"sciencegpt-backend/internal/models"
)

const (
	answerTemp      = 0.6
	answerMaxTokens = 1000
)

// AnswerRequest is one student question together with the settings it was
// asked under.
type AnswerRequest struct {
	SessionID string
	RequestID string
	Question  string
	Settings  models.Settings
}

// AnswerGenerator runs the question pipeline: translate to English, answer,
// translate back, then attach a video and its summary.
type AnswerGenerator struct {
	provider   llm.Provider
	gateway    *Gateway
	selector   *VideoSelector
	summarizer *VideoSummarizer
	publisher  Publisher
	logger     *slog.Logger
}

type AnswerGeneratorConfig struct {
	Provider   llm.Provider
	Gateway    *Gateway
	Selector   *VideoSelector
	Summarizer *VideoSummarizer
	Publisher  Publisher
	Logger     *slog.Logger
}

func NewAnswerGenerator(cfg AnswerGeneratorConfig) *AnswerGenerator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gateway := cfg.Gateway
	if gateway == nil {
		gateway = NewGateway(nil, nil, logger)
	}
	return &AnswerGenerator{
		provider:   cfg.Provider,
		gateway:    gateway,
		selector:   cfg.Selector,
		summarizer: cfg.Summarizer,
		publisher:  cfg.Publisher,
		logger:     logger,
	}
}

func apologyText(subject string) string {
	return "I apologize, but I'm having trouble answering your question right now. " +
		"Please try again or ask a different question about " + subject + "."
}

// Generate always returns an answer. Upstream failures degrade to the
// apology text, an untranslated answer or a missing video.
func (g *AnswerGenerator) Generate(ctx context.Context, req AnswerRequest) models.Answer {
	s := req.Settings
	progress := &progressReporter{pub: g.publisher, sessionID: req.SessionID, requestID: req.RequestID}
	translating := s.Language != models.PivotLanguage

	question := req.Question
	if translating {
		progress.stage(ctx, StepTranslatingQuestion)
		// On failure the original question goes to the model as-is.
		question, _ = g.gateway.ToPivot(ctx, req.Question, s.Language)
	}

	progress.stage(ctx, StepGeneratingAnswer)
	english := g.answer(ctx, question, s)

	ans := models.Answer{Text: english, Language: models.PivotLanguage}
	if translating {
		progress.stage(ctx, StepTranslatingAnswer)
		original := english
		ans.OriginalUntranslatedText = &original

		translated, err := g.gateway.FromPivot(ctx, english, s.Language)
		if err != nil {
			ans.TranslationFallback = true
		} else {
			ans.Text = translated
			ans.Language = s.Language
		}
	}

	if g.selector != nil {
		progress.stage(ctx, StepSearchingVideo)
		if video := g.selector.Select(ctx, question, s.Grade, s.Subject, s.Topic); video != nil {
			url := WatchURL(video.ID)
			title := video.Title
			ans.VideoURL = &url
			ans.VideoTitle = &title

			if g.summarizer != nil {
				progress.stage(ctx, StepSummarizingVideo)
				ans.VideoSummary = g.summarizer.Summarize(ctx, video.ID, video.Description)
			}
		}
	}

	progress.done(ctx)
	return ans
}

func (g *AnswerGenerator) answer(ctx context.Context, question string, s models.Settings) string {
	if g.provider == nil {
		return apologyText(s.Subject)
	}
	text, err := llm.Complete(llm.WithPurpose(ctx, "answer"), g.provider, llm.Request{
		System:      buildAnswerSystem(s),
		Prompt:      buildAnswerPrompt(question, s),
		Temperature: answerTemp,
		MaxTokens:   answerMaxTokens,
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "answer generation failed", "error", err)
		return apologyText(s.Subject)
	}
	return text
}
