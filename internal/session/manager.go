// Package session keys staging state by operator session instead of
// process-wide globals, so two operators scanning at the same time do not
// step on each other's print queues.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// emptyQueueLabel is echoed back before anything has been scanned
const emptyQueueLabel = "Список пуст"

// LastScan is the most recent scan echoed back to the operator, so the
// scan form can keep the previously chosen tag preselected.
type LastScan struct {
	TagSize       string `json:"tagSize"`
	TagIsDiscount bool   `json:"tagIsDiscount"`
	Product       string `json:"product"`
}

// DefaultLastScan returns the last-scan echo for a fresh session
func DefaultLastScan() LastScan {
	return LastScan{
		TagSize:       "big",
		TagIsDiscount: false,
		Product:       emptyQueueLabel,
	}
}

type state struct {
	lastScan LastScan
	lastSeen time.Time
}

// Manager tracks live operator sessions in memory. Staging rows live in
// the database keyed by session ID; only the per-session scan echo and the
// liveness timestamp live here.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*state
	now      func() time.Time
}

// NewManager creates an empty session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*state),
		now:      time.Now,
	}
}

// Ensure returns a valid session ID, creating a new session when the
// given ID is unknown, expired, or not a UUID. The second return value
// reports whether a new session was created.
func (m *Manager) Ensure(id string) (string, bool) {
	if id != "" {
		if _, err := uuid.Parse(id); err == nil {
			m.mu.Lock()
			if s, ok := m.sessions[id]; ok {
				s.lastSeen = m.now()
				m.mu.Unlock()
				return id, false
			}
			// Unknown but well-formed ID (e.g. server restarted): adopt it
			// so the operator keeps their staging rows.
			m.sessions[id] = &state{lastScan: DefaultLastScan(), lastSeen: m.now()}
			m.mu.Unlock()
			return id, false
		}
	}

	newID := uuid.New().String()
	m.mu.Lock()
	m.sessions[newID] = &state{lastScan: DefaultLastScan(), lastSeen: m.now()}
	m.mu.Unlock()
	return newID, true
}

// LastScan returns the scan echo for a session
func (m *Manager) LastScan(id string) LastScan {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s.lastScan
	}
	return DefaultLastScan()
}

// SetLastScan records the scan echo for a session
func (m *Manager) SetLastScan(id string, scan LastScan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.lastScan = scan
		s.lastSeen = m.now()
	}
}

// ResetLastScan restores the default scan echo (queue reset)
func (m *Manager) ResetLastScan(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.lastScan = DefaultLastScan()
		s.lastSeen = m.now()
	}
}

// Touch marks a session as recently used
func (m *Manager) Touch(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.lastSeen = m.now()
	}
}

// Expired returns the IDs of sessions idle longer than ttl
func (m *Manager) Expired(ttl time.Duration) []string {
	cutoff := m.now().Add(-ttl)
	m.mu.RLock()
	defer m.mu.RUnlock()

	var expired []string
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	return expired
}

// Remove drops the given sessions
func (m *Manager) Remove(ids []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.sessions, id)
	}
}

// IDs returns the IDs of all tracked sessions
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
