package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	translate "google.golang.org/api/translate/v2"

	"sciencegpt-backend/internal/curriculum"
	"sciencegpt-backend/internal/llm"
	"sciencegpt-backend/internal/models"
)

var (
	ErrTranslatorDisabled  = errors.New("translation is disabled")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Translator converts text between two languages.
type Translator interface {
	Translate(ctx context.Context, text string, from, to curriculum.Language) (string, error)
}

// LanguageResolver maps a language name to its ISO code.
type LanguageResolver interface {
	LanguageCode(name string) (string, bool)
}

// Gateway round-trips text through the pivot language. Translation is best
// effort: on failure the input comes back unchanged together with the error.
type Gateway struct {
	translator Translator
	languages  LanguageResolver
	logger     *slog.Logger
}

// NewGateway accepts a nil translator, in which case every non-pivot call
// fails with ErrTranslatorDisabled.
func NewGateway(t Translator, languages LanguageResolver, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{translator: t, languages: languages, logger: logger}
}

// ToPivot translates text written in source into English.
func (g *Gateway) ToPivot(ctx context.Context, text, source string) (string, error) {
	return g.translate(ctx, text, source, models.PivotLanguage)
}

// FromPivot translates English text into target.
func (g *Gateway) FromPivot(ctx context.Context, text, target string) (string, error) {
	return g.translate(ctx, text, models.PivotLanguage, target)
}

func (g *Gateway) translate(ctx context.Context, text, from, to string) (string, error) {
	if from == to || text == "" {
		return text, nil
	}
	if g.translator == nil {
		return text, ErrTranslatorDisabled
	}

	src, err := g.language(from)
	if err != nil {
		return text, err
	}
	dst, err := g.language(to)
	if err != nil {
		return text, err
	}

	out, err := g.translator.Translate(ctx, text, src, dst)
	if err != nil {
		g.logger.WarnContext(ctx, "translation failed, using original text",
			"from", from, "to", to, "error", err)
		return text, fmt.Errorf("translate %s to %s: %w", from, to, err)
	}
	return out, nil
}

func (g *Gateway) language(name string) (curriculum.Language, error) {
	code, ok := g.languages.LanguageCode(name)
	if !ok {
		return curriculum.Language{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
	}
	return curriculum.Language{Name: name, Code: code}, nil
}

// GoogleTranslator uses the Cloud Translation v2 API.
type GoogleTranslator struct {
	svc *translate.Service
}

func NewGoogleTranslator(ctx context.Context, opts ...option.ClientOption) (*GoogleTranslator, error) {
	svc, err := translate.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create translate client: %w", err)
	}
	return &GoogleTranslator{svc: svc}, nil
}

func (t *GoogleTranslator) Translate(ctx context.Context, text string, from, to curriculum.Language) (string, error) {
	resp, err := t.svc.Translations.List([]string{text}, to.Code).
		Source(from.Code).
		Format("text").
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("translate API %d: %s", apiErr.Code, apiErr.Message)
		}
		return "", err
	}
	if len(resp.Translations) == 0 || resp.Translations[0].TranslatedText == "" {
		return "", errors.New("translate API returned no text")
	}
	return html.UnescapeString(resp.Translations[0].TranslatedText), nil
}

// LLMTranslator asks the language model to translate.
type LLMTranslator struct {
	llm llm.Provider
}

func NewLLMTranslator(p llm.Provider) *LLMTranslator {
	return &LLMTranslator{llm: p}
}

func (t *LLMTranslator) Translate(ctx context.Context, text string, from, to curriculum.Language) (string, error) {
	return llm.Complete(llm.WithPurpose(ctx, "translate"), t.llm, llm.Request{
		Prompt:      buildTranslatePrompt(text, from.Name, to.Name),
		Temperature: 0.1,
		MaxTokens:   2000,
	})
}
