// Package session holds everything one student's browser session owns:
// applied settings, chat transcript, game state, progress and its cache.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"sciencegpt-backend/internal/cache"
	"sciencegpt-backend/internal/models"
	"sciencegpt-backend/internal/progress"
)

type Session struct {
	ID        string
	CreatedAt time.Time
	Cache     cache.Store
	Progress  *progress.Tracker

	busy atomic.Bool

	mu               sync.Mutex
	settings         models.Settings
	transcript       []models.ChatMessage
	game             models.GameState
	suggestionKey    string
	suggestionsStale bool
	factsStale       bool
	lastSeen         time.Time
}

func New(id string, settings models.Settings, store cache.Store, now time.Time) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
		Cache:     store,
		Progress:  progress.NewTracker(nil),
		settings:  settings,
		game:      models.GameState{Badges: []string{}},
		lastSeen:  now,
	}
}

// TryAcquire marks the session busy. It returns false if another request
// already holds it.
func (s *Session) TryAcquire() bool {
	return s.busy.CompareAndSwap(false, true)
}

func (s *Session) Release() {
	s.busy.Store(false)
}

func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// ApplySettings stores next and reports whether it differs from the
// current settings. A change marks both suggestions and facts stale and
// drops every cached entry.
func (s *Session) ApplySettings(ctx context.Context, next models.Settings) (bool, error) {
	s.mu.Lock()
	if s.settings == next {
		s.mu.Unlock()
		return false, nil
	}
	s.settings = next
	s.suggestionKey = ""
	s.suggestionsStale = true
	s.factsStale = true
	s.mu.Unlock()

	return true, s.Cache.InvalidateAll(ctx)
}

// SuggestionState returns the key the cached suggestions were built for and
// whether they must be rebuilt regardless.
func (s *Session) SuggestionState() (key string, stale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suggestionKey, s.suggestionsStale
}

// SuggestionsGenerated records a fresh suggestion list for key.
func (s *Session) SuggestionsGenerated(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestionKey = key
	s.suggestionsStale = false
}

func (s *Session) FactsStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.factsStale
}

// FactGenerated clears the facts-stale flag.
func (s *Session) FactGenerated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factsStale = false
}

// Transcript returns a copy of the chat history.
func (s *Session) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage{}, s.transcript...)
}

func (s *Session) AppendMessages(msgs ...models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, msgs...)
}

func (s *Session) ClearTranscript() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
}

// Game returns a copy of the game state.
func (s *Session) Game() models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.game
	g.Badges = append([]string{}, s.game.Badges...)
	return g
}

// UpdateGame runs fn on the game state under the session lock and returns
// the resulting copy.
func (s *Session) UpdateGame(fn func(*models.GameState)) models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.game)
	g := s.game
	g.Badges = append([]string{}, s.game.Badges...)
	return g
}
