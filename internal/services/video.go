package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sciencegpt-backend/internal/llm"
	"sciencegpt-backend/internal/models"
)

const (
	videoSearchResults = 5
	videoIDLength      = 11
	selectionTemp      = 0.2
	selectionMaxTokens = 50
)

// VideoSelector finds one educational video for a question.
type VideoSelector struct {
	index    VideoIndex
	provider llm.Provider
	logger   *slog.Logger
}

// NewVideoSelector accepts a nil index, which disables video search.
func NewVideoSelector(index VideoIndex, provider llm.Provider, logger *slog.Logger) *VideoSelector {
	if logger == nil {
		logger = slog.Default()
	}
	return &VideoSelector{index: index, provider: provider, logger: logger}
}

func videoQuery(question string, grade int, subject, topic string) string {
	return fmt.Sprintf("educational video for grade %d %s%s: %s",
		grade, subject, topicClause(" ", topic), question)
}

// Select returns the best candidate or nil when there is none. The model
// only ranks; when it cannot, the first search result wins.
func (s *VideoSelector) Select(ctx context.Context, question string, grade int, subject, topic string) *models.VideoCandidate {
	if s.index == nil {
		return nil
	}

	candidates, err := s.index.Search(ctx, videoQuery(question, grade, subject, topic), videoSearchResults)
	if err != nil {
		s.logger.WarnContext(ctx, "video search failed", "error", err)
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 || s.provider == nil {
		return &candidates[0]
	}

	out, err := llm.Complete(llm.WithPurpose(ctx, "video_select"), s.provider, llm.Request{
		System:      selectionSystem,
		Prompt:      buildSelectionPrompt(question, grade, candidates),
		Temperature: selectionTemp,
		MaxTokens:   selectionMaxTokens,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "video selection failed, using first result", "error", err)
		return &candidates[0]
	}

	if c := matchCandidate(out, candidates); c != nil {
		return c
	}
	s.logger.DebugContext(ctx, "model returned no known video id, using first result", "response", out)
	return &candidates[0]
}

// matchCandidate returns the candidate the model named. A token that is
// exactly an id wins; otherwise the id appearing earliest in text, which
// catches ids glued to other characters ("video_<id>").
func matchCandidate(text string, candidates []models.VideoCandidate) *models.VideoCandidate {
	tokens := strings.FieldsFunc(text, func(r rune) bool { return !isVideoIDRune(r) })
	for _, tok := range tokens {
		if len(tok) != videoIDLength {
			continue
		}
		for i := range candidates {
			if candidates[i].ID == tok {
				return &candidates[i]
			}
		}
	}

	var found *models.VideoCandidate
	first := len(text)
	for i := range candidates {
		if candidates[i].ID == "" {
			continue
		}
		if at := strings.Index(text, candidates[i].ID); at >= 0 && at < first {
			found, first = &candidates[i], at
		}
	}
	return found
}

func isVideoIDRune(r rune) bool {
	return r >= 'a' && r <= 'z' ||
		r >= 'A' && r <= 'Z' ||
		r >= '0' && r <= '9' ||
		r == '_' || r == '-'
}
