package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"sciencegpt-backend/internal/cache"
	"sciencegpt-backend/internal/models"
)

const janitorInterval = 5 * time.Minute

// StoreFactory creates the cache a new session will own.
type StoreFactory func(sessionID string) cache.Store

// MemoryStores gives every session its own in-process cache.
func MemoryStores(now cache.Clock) StoreFactory {
	return func(string) cache.Store {
		return cache.NewMemoryStore(now)
	}
}

// Manager owns the live sessions and expires idle ones.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	stores   StoreFactory
	defaults func() models.Settings
	ttl      time.Duration
	onExpire func(sessionID string)
	now      func() time.Time
	logger   *slog.Logger
	stopChan chan struct{}
	stopOnce sync.Once
}

type ManagerConfig struct {
	Stores   StoreFactory
	Defaults func() models.Settings
	TTL      time.Duration
	// OnExpire runs for each session the janitor removes, after its cache
	// is dropped. The server closes the session's sockets here.
	OnExpire func(sessionID string)
	Now      func() time.Time
	Logger   *slog.Logger
}

func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		stores:   cfg.Stores,
		defaults: cfg.Defaults,
		ttl:      cfg.TTL,
		onExpire: cfg.OnExpire,
		now:      cfg.Now,
		logger:   cfg.Logger,
		stopChan: make(chan struct{}),
	}
	if m.stores == nil {
		m.stores = MemoryStores(nil)
	}
	if m.defaults == nil {
		m.defaults = func() models.Settings { return models.Settings{} }
	}
	if m.ttl <= 0 {
		m.ttl = 2 * time.Hour
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Create starts a session with default settings and opens its first study
// session.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	s := New(id, m.defaults(), m.stores(id), m.now())
	s.Progress.StartStudySession()

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Info("session created", "session_id", id)
	return s
}

// Get returns a live session and refreshes its idle timer.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := m.now()
	if now.Sub(s.LastSeen()) > m.ttl {
		return nil, false
	}
	s.Touch(now)
	return s, true
}

// Delete ends a session and drops its cache namespace.
func (m *Manager) Delete(ctx context.Context, id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	m.drop(ctx, s)
	return true
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) drop(ctx context.Context, s *Session) {
	s.Progress.EndStudySession()
	if err := s.Cache.InvalidateAll(ctx); err != nil {
		m.logger.Warn("failed to clear session cache", "session_id", s.ID, "error", err)
	}
}

// Sweep removes sessions idle longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep(ctx context.Context) int {
	now := m.now()

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) > m.ttl {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		m.drop(ctx, s)
		if m.onExpire != nil {
			m.onExpire(s.ID)
		}
	}
	if len(expired) > 0 {
		m.logger.Info("expired idle sessions", "count", len(expired))
	}
	return len(expired)
}

func (m *Manager) Start() {
	go func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-m.stopChan:
				return
			case <-ticker.C:
				m.Sweep(context.Background())
			}
		}
	}()
	m.logger.Info("session janitor started", "ttl", m.ttl.String())
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}
