// Package session keeps one movie controller per connected client.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/amaumene/gomovies/internal/cache"
	"github.com/amaumene/gomovies/internal/controller"
	apperrors "github.com/amaumene/gomovies/internal/errors"
	"github.com/amaumene/gomovies/pkg/logger"
)

// Session is a client's query state.
type Session struct {
	ID         string
	Controller *controller.Controller
	CreatedAt  time.Time
}

// Factory builds the controller for a new session.
type Factory func() *controller.Controller

// Manager holds sessions in an LRU with an idle TTL. Sessions that fall out
// by capacity or expiry have their controller closed.
type Manager struct {
	sessions *cache.LRUCache[*Session]
	factory  Factory
	logger   logger.Logger
}

func NewManager(factory Factory, maxSessions int, ttl time.Duration, log logger.Logger) *Manager {
	m := &Manager{
		sessions: cache.New[*Session](maxSessions, ttl),
		factory:  factory,
		logger:   log,
	}
	m.sessions.OnEvict(func(id string, s *Session) {
		m.logger.Debugf("[Session] closing session %s", id)
		s.Controller.Close()
	})
	return m
}

// Create starts a new session and loads its first page.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:         uuid.NewString(),
		Controller: m.factory(),
		CreatedAt:  time.Now(),
	}
	m.sessions.Set(s.ID, s)
	s.Controller.Start()

	m.logger.Infof("[Session] created session %s (%d active)", s.ID, m.sessions.Len())
	return s
}

// Get returns the session and extends its lifetime.
func (m *Manager) Get(id string) (*Session, error) {
	s, ok := m.sessions.Get(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	m.sessions.Touch(id)
	return s, nil
}

// Delete closes the session. Unknown ids are ignored.
func (m *Manager) Delete(id string) {
	m.sessions.Delete(id)
}

// CleanExpired closes every idle session and returns how many there were.
func (m *Manager) CleanExpired() int {
	return m.sessions.CleanExpired()
}

func (m *Manager) Len() int {
	return m.sessions.Len()
}

// Close ends every session.
func (m *Manager) Close() {
	m.sessions.Clear()
}
