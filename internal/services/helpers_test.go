package services

import (
	"context"
	"sync"
	"time"

	"sciencegpt-backend/internal/cache"
	"sciencegpt-backend/internal/curriculum"
	"sciencegpt-backend/internal/models"
	"sciencegpt-backend/internal/session"
)

type fakeIndex struct {
	results []models.VideoCandidate
	err     error
	queries []string
	max     int
}

func (f *fakeIndex) Search(_ context.Context, query string, maxResults int) ([]models.VideoCandidate, error) {
	f.queries = append(f.queries, query)
	f.max = maxResults
	return f.results, f.err
}

type fakeTranscripts struct {
	text  string
	err   error
	langs []string
}

func (f *fakeTranscripts) Transcript(_ context.Context, _ string, langs []string) (string, error) {
	f.langs = langs
	return f.text, f.err
}

type fakeMetadata struct {
	desc  string
	err   error
	calls int
}

func (f *fakeMetadata) Description(context.Context, string) (string, error) {
	f.calls++
	return f.desc, f.err
}

// fakeTranslator prefixes text with the target language code.
type fakeTranslator struct {
	failTo map[string]error
	calls  []string
}

func (f *fakeTranslator) Translate(_ context.Context, text string, from, to curriculum.Language) (string, error) {
	f.calls = append(f.calls, from.Code+">"+to.Code)
	if err := f.failTo[to.Code]; err != nil {
		return "", err
	}
	return to.Code + ":" + text, nil
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []models.WSMessage
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, msg models.WSMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) steps() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, m := range p.msgs {
		out = append(out, m.Payload.(models.StageUpdate).StepName)
	}
	return out
}

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
}

func settingsFor(grade int, subject, language, topic string) models.Settings {
	return models.Settings{Grade: grade, Subject: subject, Language: language, Topic: topic}
}

func newTestSession(clock *testClock, s models.Settings) *session.Session {
	return session.New("sess-1", s, cache.NewMemoryStore(clock.Now), clock.Now())
}

func newTestGateway(t Translator) *Gateway {
	return NewGateway(t, curriculum.MustLoad(), nil)
}
