package history

import (
	"log/slog"
	"sync"
)

// Manager is the sole mutator of the session snapshot. Every append is
// written through to the FileStore before the call returns; a failed save is
// logged and the in-memory state stays authoritative for the running
// process.
type Manager struct {
	store    *FileStore
	maxTurns int
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*ring
}

func NewManager(store *FileStore, maxTurns int, logger *slog.Logger) *Manager {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		store:    store,
		maxTurns: maxTurns,
		logger:   logger,
		sessions: make(map[string]*ring),
	}
	if store != nil {
		for userID, turns := range store.Load() {
			r := newRing(maxTurns)
			r.fill(turns)
			m.sessions[userID] = r
		}
	}
	return m
}

// Append records one turn for userID, evicting the oldest turn once the
// bound is reached, then persists the whole snapshot.
func (m *Manager) Append(userID, role, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.sessions[userID]
	if !ok {
		r = newRing(m.maxTurns)
		m.sessions[userID] = r
	}
	r.append(Turn{Role: role, Content: content})

	if m.store == nil {
		return
	}
	if err := m.store.Save(m.snapshotLocked()); err != nil {
		m.logger.Warn("history_save_error", "path", m.store.Path(), "error", err.Error())
	}
}

// Read returns userID's turns oldest first. Unknown users get an empty
// slice. The result is a copy; callers may keep it across appends.
func (m *Manager) Read(userID string) []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.sessions[userID]
	if !ok {
		return nil
	}
	return r.slice()
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := make(Snapshot, len(m.sessions))
	for userID, r := range m.sessions {
		snap[userID] = r.slice()
	}
	return snap
}
