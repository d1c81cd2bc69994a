// Package session keys one admin data store per authenticated Telegram user.
// A store is constructed on first authenticated touch, reused for the rest of
// the session, and torn down (canceling its in-flight sync) when the session
// idles out or the service shuts down.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/isroiljohn-creator/posbonbot/internal/metrics"
	"github.com/isroiljohn-creator/posbonbot/internal/store"
	"github.com/isroiljohn-creator/posbonbot/pkg/telegram"
)

const defaultIdleTTL = 30 * time.Minute

// Factory builds the session's store; injected so tests can substitute the
// API client and seed data.
type Factory func(identity telegram.Identity) *store.Store

type entry struct {
	store    *store.Store
	lastSeen time.Time
}

type Manager struct {
	factory Factory
	idleTTL time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*entry
	closed   bool
}

func NewManager(factory Factory, idleTTL time.Duration, logger *zap.Logger) *Manager {
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		factory:  factory,
		idleTTL:  idleTTL,
		logger:   logger,
		sessions: make(map[int64]*entry),
	}
}

// Acquire returns the user's live store, creating and starting one on first
// touch.
func (m *Manager) Acquire(identity telegram.Identity) *store.Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	if existing, ok := m.sessions[identity.UserID]; ok {
		existing.lastSeen = time.Now()
		return existing.store
	}

	st := m.factory(identity)
	st.Start()
	m.sessions[identity.UserID] = &entry{
		store:    st,
		lastSeen: time.Now(),
	}
	metrics.SetActiveSessions(len(m.sessions))

	m.logger.Info("admin session created", zap.Int64("telegram_id", identity.UserID))
	return st
}

// Get returns the user's store without creating one.
func (m *Manager) Get(telegramID int64) (*store.Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.sessions[telegramID]
	if !ok {
		return nil, false
	}
	existing.lastSeen = time.Now()
	return existing.store, true
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// SweepIdle closes sessions untouched for longer than the idle TTL. Run from
// the scheduler.
func (m *Manager) SweepIdle() {
	cutoff := time.Now().Add(-m.idleTTL)

	m.mu.Lock()
	expired := make([]*entry, 0)
	for id, item := range m.sessions {
		if item.lastSeen.Before(cutoff) {
			expired = append(expired, item)
			delete(m.sessions, id)
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	for _, item := range expired {
		item.store.Close()
	}
	if len(expired) > 0 {
		metrics.SetActiveSessions(remaining)
		m.logger.Info("idle admin sessions swept", zap.Int("count", len(expired)))
	}
}

// Close tears down every session.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	all := make([]*entry, 0, len(m.sessions))
	for id, item := range m.sessions {
		all = append(all, item)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, item := range all {
		item.store.Close()
	}
	metrics.SetActiveSessions(0)
}
