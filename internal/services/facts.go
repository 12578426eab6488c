package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"sciencegpt-backend/internal/cache"
	"sciencegpt-backend/internal/llm"
	"sciencegpt-backend/internal/models"
	"sciencegpt-backend/internal/session"
)

const (
	factTemp        = 0.8
	factMaxTokens   = 300
	factCachePrefix = "fact:"

	DefaultFactTTL = 24 * time.Hour
)

const (
	fallbackFact        = "The human brain contains approximately 86 billion neurons!"
	fallbackExplanation = "Each neuron can connect to thousands of other neurons, creating an incredibly complex network that allows us to think, learn, and remember."
)

var emphasisReplacer = strings.NewReplacer("**", "", "__", "")

// FactGenerator produces the fact of the day and its follow-ups.
type FactGenerator struct {
	provider llm.Provider
	answers  *AnswerGenerator
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

type FactGeneratorConfig struct {
	Provider llm.Provider
	Answers  *AnswerGenerator
	TTL      time.Duration
	Now      func() time.Time
	Logger   *slog.Logger
}

func NewFactGenerator(cfg FactGeneratorConfig) *FactGenerator {
	g := &FactGenerator{
		provider: cfg.Provider,
		answers:  cfg.Answers,
		ttl:      cfg.TTL,
		now:      cfg.Now,
		logger:   cfg.Logger,
	}
	if g.ttl <= 0 {
		g.ttl = DefaultFactTTL
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// FallbackFact is the fact served when generation fails.
func FallbackFact(now time.Time) models.Fact {
	return models.Fact{Fact: fallbackFact, Explanation: fallbackExplanation, Timestamp: now}
}

// FactOfDay serves the cached fact while it is younger than the TTL and the
// session has not marked facts stale. Facts are always English.
func (g *FactGenerator) FactOfDay(ctx context.Context, sess *session.Session, grade int, subject, topic string) models.Fact {
	key := factCachePrefix + cache.SettingsKey(grade, subject, models.PivotLanguage, topic)

	if !sess.FactsStale() {
		if fact, ok := g.cached(ctx, sess, key); ok {
			return fact
		}
	}

	fact, err := g.generate(ctx, grade, subject, topic)
	if err != nil {
		g.logger.WarnContext(ctx, "fact generation failed, using fallback", "session_id", sess.ID, "error", err)
		return FallbackFact(g.now())
	}

	if err := sess.Cache.Put(ctx, key, fact); err != nil {
		g.logger.WarnContext(ctx, "failed to cache fact", "session_id", sess.ID, "error", err)
	}
	sess.FactGenerated()
	return fact
}

func (g *FactGenerator) cached(ctx context.Context, sess *session.Session, key string) (models.Fact, bool) {
	valid, err := sess.Cache.IsValid(ctx, key, g.ttl)
	if err != nil {
		g.logger.WarnContext(ctx, "fact cache check failed", "session_id", sess.ID, "error", err)
		return models.Fact{}, false
	}
	if !valid {
		return models.Fact{}, false
	}

	entry, ok, err := sess.Cache.Get(ctx, key)
	if err != nil || !ok {
		return models.Fact{}, false
	}
	var fact models.Fact
	if err := entry.Decode(&fact); err != nil || fact.Fact == "" {
		return models.Fact{}, false
	}
	return fact, true
}

func (g *FactGenerator) generate(ctx context.Context, grade int, subject, topic string) (models.Fact, error) {
	if g.provider == nil {
		return models.Fact{}, llm.ErrEmptyResponse
	}
	out, err := llm.Complete(llm.WithPurpose(ctx, "fact"), g.provider, llm.Request{
		System:      factSystem,
		Prompt:      buildFactPrompt(grade, subject, topic),
		Temperature: factTemp,
		MaxTokens:   factMaxTokens,
	})
	if err != nil {
		return models.Fact{}, err
	}

	fact, explanation := parseFact(out)
	if fact == "" {
		return models.Fact{}, llm.ErrEmptyResponse
	}
	return models.Fact{Fact: fact, Explanation: explanation, Timestamp: g.now()}, nil
}

// parseFact reads "Fact:" and "Explanation:" labels in any case, ignoring
// markdown emphasis. Each label takes the lines after it up to the other
// label. Without an explanation label the lines after the fact are the
// explanation; without any label the first line is the fact.
func parseFact(text string) (fact, explanation string) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(emphasisReplacer.Replace(line), " \t*_#")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", ""
	}

	factAt := labelIndex(lines, "fact:")
	explAt := labelIndex(lines, "explanation:")

	switch {
	case factAt < 0 && explAt < 0:
		return lines[0], strings.Join(lines[1:], " ")
	case explAt < 0:
		rest := lines[factAt+1:]
		fact, _ = cutLabel(lines[factAt], "fact:")
		if fact == "" && len(rest) > 0 {
			fact, rest = rest[0], rest[1:]
		}
		return fact, strings.Join(rest, " ")
	case factAt < 0:
		if explAt > 0 {
			fact = lines[0]
		}
		return fact, section(lines, explAt, "explanation:", -1)
	default:
		return section(lines, factAt, "fact:", explAt), section(lines, explAt, "explanation:", factAt)
	}
}

func labelIndex(lines []string, label string) int {
	for i, line := range lines {
		if _, ok := cutLabel(line, label); ok {
			return i
		}
	}
	return -1
}

// section joins the labelled line at with the lines after it, stopping at
// index stop.
func section(lines []string, at int, label string, stop int) string {
	var parts []string
	if first, _ := cutLabel(lines[at], label); first != "" {
		parts = append(parts, first)
	}
	for i := at + 1; i < len(lines) && i != stop; i++ {
		parts = append(parts, lines[i])
	}
	return strings.Join(parts, " ")
}

func cutLabel(line, label string) (string, bool) {
	if len(line) < len(label) || !strings.EqualFold(line[:len(label)], label) {
		return "", false
	}
	return strings.Trim(line[len(label):], " \t*_"), true
}

// MoreAboutFact answers a request for more detail on a fact.
func (g *FactGenerator) MoreAboutFact(ctx context.Context, req AnswerRequest, fact string) models.Answer {
	req.Question = buildMoreInfoQuestion(fact)
	return g.answers.Generate(ctx, req)
}

// RelatedQuestions asks for three follow-up questions based on a fact.
func (g *FactGenerator) RelatedQuestions(ctx context.Context, req AnswerRequest, fact string) models.Answer {
	req.Question = buildRelatedQuestionsQuestion(fact)
	return g.answers.Generate(ctx, req)
}
