package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sciencegpt-backend/internal/cache"
	"sciencegpt-backend/internal/models"
)

var defaultSettings = models.Settings{Grade: 8, Subject: "Biology", Language: "English", Topic: "All Topics"}

func newTestSession() *Session {
	return New("s1", defaultSettings, cache.NewMemoryStore(nil), time.Now())
}

func TestTryAcquire(t *testing.T) {
	s := newTestSession()

	require.True(t, s.TryAcquire())
	assert.False(t, s.TryAcquire(), "second request must be rejected while busy")
	s.Release()
	assert.True(t, s.TryAcquire())
}

func TestTryAcquire_Concurrent(t *testing.T) {
	s := newTestSession()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.TryAcquire() {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestApplySettings(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	require.NoError(t, s.Cache.Put(ctx, "k", "v"))
	s.SuggestionsGenerated("k")
	s.FactGenerated()

	changed, err := s.ApplySettings(ctx, defaultSettings)
	require.NoError(t, err)
	assert.False(t, changed)
	_, stale := s.SuggestionState()
	assert.False(t, stale)

	next := defaultSettings
	next.Language = "Hindi"
	changed, err = s.ApplySettings(ctx, next)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, next, s.Settings())

	key, stale := s.SuggestionState()
	assert.Empty(t, key)
	assert.True(t, stale)
	assert.True(t, s.FactsStale())

	_, ok, _ := s.Cache.Get(ctx, "k")
	assert.False(t, ok, "cache is dropped on change")
}

func TestStaleFlagsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()

	next := defaultSettings
	next.Grade = 6
	_, err := s.ApplySettings(ctx, next)
	require.NoError(t, err)

	s.SuggestionsGenerated("abc")
	_, stale := s.SuggestionState()
	assert.False(t, stale)
	assert.True(t, s.FactsStale(), "regenerating suggestions must not clear the facts flag")

	s.FactGenerated()
	assert.False(t, s.FactsStale())
}

func TestTranscript(t *testing.T) {
	s := newTestSession()
	s.AppendMessages(
		models.ChatMessage{Role: models.RoleUser, Content: "hi"},
		models.ChatMessage{Role: models.RoleAssistant, Content: "hello"},
	)

	got := s.Transcript()
	require.Len(t, got, 2)
	got[0].Content = "mutated"
	assert.Equal(t, "hi", s.Transcript()[0].Content)

	s.ClearTranscript()
	assert.Empty(t, s.Transcript())
}

func TestUpdateGame(t *testing.T) {
	s := newTestSession()

	g := s.UpdateGame(func(g *models.GameState) {
		g.Points += 10
		g.Badges = append(g.Badges, "first_question")
	})
	assert.Equal(t, 10, g.Points)

	g.Badges[0] = "mutated"
	assert.Equal(t, []string{"first_question"}, s.Game().Badges)
}
