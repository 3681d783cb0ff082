package session

import (
	"sync"
)

// Store is an in-memory session registry with per-session exclusion.
// The outer lock only guards the map; each entry carries its own mutex so
// a slow turn in one conversation never blocks another conversation.
// Suitable for single-node deployments; the seam for an external store is
// this type's method set.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	session *Session
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
	}
}

// Acquire returns the session for the id, creating it on first use, with
// its per-session lock held. The returned release func must be called when
// the turn is done. While held, no other goroutine can process a turn for
// the same session.
func (st *Store) Acquire(id string) (*Session, func()) {
	e := st.entryFor(id)
	e.mu.Lock()
	return e.session, e.mu.Unlock
}

func (st *Store) entryFor(id string) *entry {
	st.mu.RLock()
	e, ok := st.entries[id]
	st.mu.RUnlock()
	if ok {
		return e
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if e, ok = st.entries[id]; ok {
		return e
	}
	e = &entry{session: newSession(id)}
	st.entries[id] = e
	return e
}

// Snapshot returns a deep copy of the session state, or false if the
// session does not exist. Never creates a session.
func (st *Store) Snapshot(id string) (Snapshot, bool) {
	st.mu.RLock()
	e, ok := st.entries[id]
	st.mu.RUnlock()
	if !ok {
		return Snapshot{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.snapshot(), true
}

// Len returns the number of sessions in the store.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.entries)
}
