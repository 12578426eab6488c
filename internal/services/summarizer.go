package services

import (
	"context"
	"log/slog"
	"strings"

	"sciencegpt-backend/internal/llm"
)

const (
	summaryContentRunes = 2000
	summaryTemp         = 0.5
	summaryMaxTokens    = 150
)

// NoSummaryText is returned when a video has neither a transcript nor a
// description to summarize.
const NoSummaryText = "No summary could be generated for this video."

// VideoSummarizer turns a transcript or description into a short summary.
type VideoSummarizer struct {
	transcripts TranscriptSource
	metadata    VideoMetadata
	provider    llm.Provider
	logger      *slog.Logger
}

func NewVideoSummarizer(transcripts TranscriptSource, metadata VideoMetadata, provider llm.Provider, logger *slog.Logger) *VideoSummarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &VideoSummarizer{
		transcripts: transcripts,
		metadata:    metadata,
		provider:    provider,
		logger:      logger,
	}
}

// Summarize returns nil when the model could not produce a summary.
func (s *VideoSummarizer) Summarize(ctx context.Context, videoID, fallbackDescription string) *string {
	content := s.content(ctx, videoID, fallbackDescription)
	if content == "" {
		text := NoSummaryText
		return &text
	}
	if s.provider == nil {
		return nil
	}

	out, err := llm.Complete(llm.WithPurpose(ctx, "video_summary"), s.provider, llm.Request{
		System:      summarySystem,
		Prompt:      buildSummaryPrompt(truncateRunes(content, summaryContentRunes)),
		Temperature: summaryTemp,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "video summary failed", "video_id", videoID, "error", err)
		return nil
	}
	return &out
}

func (s *VideoSummarizer) content(ctx context.Context, videoID, fallbackDescription string) string {
	if s.transcripts != nil {
		text, err := s.transcripts.Transcript(ctx, videoID, EnglishTranscriptLanguages)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		if err != nil {
			s.logger.DebugContext(ctx, "no transcript, using description", "video_id", videoID, "error", err)
		}
	}

	if desc := strings.TrimSpace(fallbackDescription); desc != "" {
		return desc
	}

	if s.metadata != nil {
		desc, err := s.metadata.Description(ctx, videoID)
		if err != nil {
			s.logger.DebugContext(ctx, "video metadata lookup failed", "video_id", videoID, "error", err)
			return ""
		}
		return strings.TrimSpace(desc)
	}
	return ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
