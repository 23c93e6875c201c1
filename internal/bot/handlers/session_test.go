package handlers

import (
	"sync"
	"testing"
)

func TestSessionStoreSetGet(t *testing.T) {
	t.Parallel()

	s := NewSessionStore()

	if _, ok := s.Get(1); ok {
		t.Error("expected no session for unseen chat")
	}

	s.Set(1, "spam")
	if key, ok := s.Get(1); !ok || key != "spam" {
		t.Errorf("Get(1) = %q, %v; expected spam, true", key, ok)
	}
}

func TestSessionStoreLastWriteWins(t *testing.T) {
	t.Parallel()

	s := NewSessionStore()
	s.Set(1, "spam")
	s.Set(1, "malware")

	if key, _ := s.Get(1); key != "malware" {
		t.Errorf("expected last write to win, got %q", key)
	}
}

func TestSessionStoreIsolatesConversations(t *testing.T) {
	t.Parallel()

	s := NewSessionStore()
	s.Set(1, "spam")
	s.Set(2, "harassment")

	if key, _ := s.Get(1); key != "spam" {
		t.Errorf("chat 1 = %q, expected spam", key)
	}
	if key, _ := s.Get(2); key != "harassment" {
		t.Errorf("chat 2 = %q, expected harassment", key)
	}
}

func TestSessionStoreConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewSessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			s.Set(n%5, "spam")
			s.Get(n % 5)
		}(int64(i))
	}
	wg.Wait()

	if key, ok := s.Get(0); !ok || key != "spam" {
		t.Errorf("Get(0) = %q, %v after concurrent writes", key, ok)
	}
}
