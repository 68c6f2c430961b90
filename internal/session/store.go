package session

import "sync"

// Store owns the mapping from user id to conversational state. Entries
// are created lazily and survive for the process lifetime unless removed.
//
// All mutations to one session run inside a per-user critical section:
// duplicate deliveries for the same user serialize, while unrelated
// users proceed fully concurrently.
type Store struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

type entry struct {
	mu sync.Mutex
	s  *Session
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{entries: make(map[int64]*entry)}
}

func (st *Store) entryFor(userID int64) *entry {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.entries[userID]
	if !ok {
		e = &entry{s: New(userID)}
		st.entries[userID] = e
	}
	return e
}

// Do runs fn with exclusive access to the user's session, creating it
// with defaults if absent. No await inside fn may re-enter Do for the
// same user.
func (st *Store) Do(userID int64, fn func(*Session) error) error {
	e := st.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.s)
}

// Reset returns the user's session to defaults, keeping the entry.
func (st *Store) Reset(userID int64) {
	_ = st.Do(userID, func(s *Session) error {
		s.Reset()
		return nil
	})
}

// Remove drops the user's session entirely. An in-flight handler holding
// the old entry finishes against the detached session.
func (st *Store) Remove(userID int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.entries, userID)
}

// Len returns the number of tracked sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}
