package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"civiclens/internal/geocode"
	"civiclens/internal/letter"
	"civiclens/internal/storage"
)

// Manager creates and tracks wizard sessions. Each session gets its
// own debounced geocode resolver; the letter pipeline and the record
// store are shared.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	geocoder geocode.Geocoder
	debounce time.Duration
	pipeline *letter.Pipeline
	store    *storage.Store
	notifier Notifier
}

// NewManager wires a session factory from the shared components.
// notifier may be nil.
func NewManager(geocoder geocode.Geocoder, debounce time.Duration,
	pipeline *letter.Pipeline, store *storage.Store, notifier Notifier) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		geocoder: geocoder,
		debounce: debounce,
		pipeline: pipeline,
		store:    store,
		notifier: notifier,
	}
}

// Create starts a fresh session at the problem-selection step.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:       uuid.NewString(),
		step:     StepProblemSelection,
		resolver: geocode.NewResolver(m.geocoder, m.debounce),
		pipeline: m.pipeline,
		store:    m.store,
		notifier: m.notifier,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up a live session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close tears down a session and releases its resolver.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
