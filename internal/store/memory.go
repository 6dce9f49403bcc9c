package store

import (
	"sync"
	"time"
)

// maxNotifications bounds the in-memory notification history.
const maxNotifications = 50

// MemoryStore is an in-memory implementation of [Store].
//
// MemoryStore holds the latest cycle result, running counters, and a
// bounded history of delivered notifications. Nothing is persisted; a
// restart resets the monitor to its initial state by design.
type MemoryStore struct {
	mu            sync.RWMutex
	startedAt     time.Time
	lastCycle     *CycleResult
	cycles        int64
	failures      int64
	notifications []Notification
}

// NewMemoryStore creates a new in-memory [Store] implementation.
//
// The store is immediately ready for use. No cleanup is required when done.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{startedAt: time.Now()}
}

// RecordCycle stores a [CycleResult] and updates counters.
func (m *MemoryStore) RecordCycle(result CycleResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := result
	m.lastCycle = &cp
	m.cycles++
	if result.Error != nil {
		m.failures++
	}
}

// RecordNotification prepends a notification to the bounded history.
func (m *MemoryStore) RecordNotification(n Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notifications = append([]Notification{n}, m.notifications...)
	if len(m.notifications) > maxNotifications {
		m.notifications = m.notifications[:maxNotifications]
	}
}

// Snapshot returns a copy of the current monitor state.
//
// The returned value is a snapshot; modifications do not affect the store.
func (m *MemoryStore) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		State:     "unknown",
		StartedAt: m.startedAt,
		Cycles:    m.cycles,
		Failures:  m.failures,
	}

	if m.lastCycle != nil {
		cp := *m.lastCycle
		snap.LastCycle = &cp
		snap.State = cp.State
		snap.Cursor = cp.Cursor
		snap.LastError = cp.Error
	}

	snap.Notifications = make([]Notification, len(m.notifications))
	copy(snap.Notifications, m.notifications)

	return snap
}
