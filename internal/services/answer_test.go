package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sciencegpt-backend/internal/llm"
	"sciencegpt-backend/internal/models"
)

func newAnswerGenerator(mock llm.Provider, tr Translator, index VideoIndex, pub Publisher) *AnswerGenerator {
	return NewAnswerGenerator(AnswerGeneratorConfig{
		Provider:   mock,
		Gateway:    newTestGateway(tr),
		Selector:   NewVideoSelector(index, mock, nil),
		Summarizer: NewVideoSummarizer(&fakeTranscripts{text: "transcript"}, nil, mock, nil),
		Publisher:  pub,
	})
}

func TestAnswerGenerator_English(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Because of Rayleigh scattering."})
	tr := &fakeTranslator{}
	g := newAnswerGenerator(mock, tr, &fakeIndex{}, nil)

	ans := g.Generate(t.Context(), AnswerRequest{
		Question: "Why is the sky blue?",
		Settings: settingsFor(5, "Physics", "English", models.AllTopics),
	})

	assert.Equal(t, "Because of Rayleigh scattering.", ans.Text)
	assert.Equal(t, "English", ans.Language)
	assert.Nil(t, ans.OriginalUntranslatedText)
	assert.False(t, ans.TranslationFallback)
	assert.Empty(t, tr.calls)

	req := mock.Calls[0]
	assert.Contains(t, req.Prompt, "Student Question: Why is the sky blue?")
	assert.NotContains(t, req.Prompt, "with focus on")
	assert.Equal(t, 0.6, req.Temperature)
	assert.Equal(t, 1000, req.MaxTokens)
}

func TestAnswerGenerator_TopicClause(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "answer"})
	g := newAnswerGenerator(mock, nil, nil, nil)

	g.Generate(t.Context(), AnswerRequest{
		Question: "What is a lens?",
		Settings: settingsFor(8, "Physics", "English", "Light"),
	})
	assert.Contains(t, mock.Calls[0].Prompt, "Relates to Physics with focus on Light")
}

func TestAnswerGenerator_TranslatesBothWays(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Plants use sunlight."})
	tr := &fakeTranslator{}
	g := newAnswerGenerator(mock, tr, &fakeIndex{}, nil)

	ans := g.Generate(t.Context(), AnswerRequest{
		Question: "पौधे भोजन कैसे बनाते हैं?",
		Settings: settingsFor(7, "Biology", "Hindi", models.AllTopics),
	})

	assert.Equal(t, []string{"hi>en", "en>hi"}, tr.calls)
	assert.Contains(t, mock.Calls[0].Prompt, "en:पौधे भोजन कैसे बनाते हैं?")
	assert.Equal(t, "hi:Plants use sunlight.", ans.Text)
	assert.Equal(t, "Hindi", ans.Language)
	require.NotNil(t, ans.OriginalUntranslatedText)
	assert.Equal(t, "Plants use sunlight.", *ans.OriginalUntranslatedText)
	assert.False(t, ans.TranslationFallback)
}

func TestAnswerGenerator_BackTranslationFallback(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Plants use sunlight."})
	tr := &fakeTranslator{failTo: map[string]error{"ta": errors.New("translate API 503")}}
	g := newAnswerGenerator(mock, tr, &fakeIndex{}, nil)

	ans := g.Generate(t.Context(), AnswerRequest{
		Question: "question",
		Settings: settingsFor(7, "Biology", "Tamil", models.AllTopics),
	})

	assert.True(t, ans.TranslationFallback)
	assert.Equal(t, "Plants use sunlight.", ans.Text)
	assert.Equal(t, "English", ans.Language)
	require.NotNil(t, ans.OriginalUntranslatedText)
	assert.Equal(t, "Plants use sunlight.", *ans.OriginalUntranslatedText)
}

func TestAnswerGenerator_QuestionTranslationFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "answer"})
	tr := &fakeTranslator{failTo: map[string]error{"en": errors.New("down")}}
	g := newAnswerGenerator(mock, tr, &fakeIndex{}, nil)

	g.Generate(t.Context(), AnswerRequest{
		Question: "प्रश्न",
		Settings: settingsFor(7, "Biology", "Hindi", models.AllTopics),
	})
	assert.Contains(t, mock.Calls[0].Prompt, "Student Question: प्रश्न\n")
}

func TestAnswerGenerator_NoTranslator(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "answer"})
	g := newAnswerGenerator(mock, nil, &fakeIndex{}, nil)

	ans := g.Generate(t.Context(), AnswerRequest{
		Question: "q",
		Settings: settingsFor(7, "Biology", "Marathi", models.AllTopics),
	})
	assert.True(t, ans.TranslationFallback)
	assert.Equal(t, "answer", ans.Text)
}

func TestAnswerGenerator_SkyIsBlueWithFailingUpstreams(t *testing.T) {
	failing := &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: failing},
		llm.MockResponse{Err: failing},
		llm.MockResponse{Err: failing},
	)

	for _, index := range []*fakeIndex{{}, {err: errors.New("search down")}} {
		g := newAnswerGenerator(mock, nil, index, nil)
		ans := g.Generate(t.Context(), AnswerRequest{
			Question: "Why is the sky blue?",
			Settings: settingsFor(5, "Physics", "English", models.AllTopics),
		})

		assert.NotEmpty(t, ans.Text)
		assert.Equal(t, apologyText("Physics"), ans.Text)
		assert.Contains(t, ans.Text, "ask a different question about Physics.")
		assert.Nil(t, ans.VideoURL)
		assert.Nil(t, ans.VideoSummary)
		assert.False(t, ans.TranslationFallback)
	}
}

func TestAnswerGenerator_AttachesVideo(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Because of Rayleigh scattering."},
		llm.MockResponse{Text: "bbbbbbbbbbb"},
		llm.MockResponse{Text: "A short video summary."},
	)
	g := newAnswerGenerator(mock, nil, &fakeIndex{results: testCandidates}, nil)

	ans := g.Generate(t.Context(), AnswerRequest{
		Question: "Why is the sky blue?",
		Settings: settingsFor(5, "Physics", "English", models.AllTopics),
	})

	require.NotNil(t, ans.VideoURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=bbbbbbbbbbb", *ans.VideoURL)
	require.NotNil(t, ans.VideoTitle)
	assert.Equal(t, "Light and colour", *ans.VideoTitle)
	require.NotNil(t, ans.VideoSummary)
	assert.Equal(t, "A short video summary.", *ans.VideoSummary)
	assert.Equal(t, 3, mock.CallCount())
}

func TestAnswerGenerator_SummaryFailureKeepsVideo(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "answer"},
		llm.MockResponse{Text: "aaaaaaaaaaa"},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	g := newAnswerGenerator(mock, nil, &fakeIndex{results: testCandidates}, nil)

	ans := g.Generate(t.Context(), AnswerRequest{
		Question: "q",
		Settings: settingsFor(5, "Physics", "English", models.AllTopics),
	})
	assert.Equal(t, "answer", ans.Text)
	assert.NotNil(t, ans.VideoURL)
	assert.Nil(t, ans.VideoSummary)
}

func TestAnswerGenerator_PublishesProgress(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "answer"},
		llm.MockResponse{Text: "aaaaaaaaaaa"},
		llm.MockResponse{Text: "summary"},
	)
	pub := &recordingPublisher{}
	g := newAnswerGenerator(mock, &fakeTranslator{}, &fakeIndex{results: testCandidates}, pub)

	g.Generate(t.Context(), AnswerRequest{
		SessionID: "sess-1",
		RequestID: "req-1",
		Question:  "q",
		Settings:  settingsFor(5, "Physics", "Hindi", models.AllTopics),
	})

	assert.Equal(t, []string{
		StepTranslatingQuestion,
		StepGeneratingAnswer,
		StepTranslatingAnswer,
		StepSearchingVideo,
		StepSummarizingVideo,
		StepCompleted,
	}, pub.steps())

	last := pub.msgs[len(pub.msgs)-1]
	assert.Equal(t, models.WSTypeCompleted, last.Type)
	update := last.Payload.(models.StageUpdate)
	assert.Equal(t, "req-1", update.RequestID)
	assert.Equal(t, 6, update.Step)
}

func TestAnswerGenerator_NoSessionNoEvents(t *testing.T) {
	pub := &recordingPublisher{}
	g := newAnswerGenerator(llm.NewMockProvider(llm.MockResponse{Text: "a"}), nil, nil, pub)

	g.Generate(t.Context(), AnswerRequest{Question: "q", Settings: settingsFor(5, "Physics", "English", models.AllTopics)})
	assert.Empty(t, pub.msgs)
}
