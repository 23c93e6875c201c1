package handlers

import "sync"

// SessionStore remembers the last selected category per conversation so a
// bare Regenerate token can be replayed without re-selecting. Last write
// wins. Entries live for the process lifetime; at bot-scale conversation
// counts the map stays small enough that no eviction is needed.
type SessionStore struct {
	mu   sync.RWMutex
	last map[int64]string
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{last: make(map[int64]string)}
}

// Set records the last selected category key for a conversation.
func (s *SessionStore) Set(chatID int64, categoryKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[chatID] = categoryKey
}

// Get returns the last selected category key for a conversation and
// whether one exists.
func (s *SessionStore) Get(chatID int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.last[chatID]
	return key, ok
}
