package session

import (
	"context"
	"sync"
	"time"
)

// Store keeps sessions in process memory keyed by chat key. Messages for one
// key are handled one at a time, so the lock only guards the map itself, not
// individual sessions.
//
// The original system never expired sessions; ttl = 0 preserves that. A
// positive ttl evicts sessions idle longer than ttl on sweep.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a session store. ttl = 0 disables eviction.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock overrides the time source, mainly for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// GetOrCreate returns the session for key, creating a fresh one in
// SelectDirection when none exists, and marks it seen.
func (s *Store) GetOrCreate(key string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		sess = &Session{Key: key, State: StateSelectDirection}
		s.sessions[key] = sess
	}
	sess.LastSeen = s.now()
	return sess
}

// Reset discards any existing session for key and returns a fresh one. Used
// by the entry command.
func (s *Store) Reset(key string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{Key: key, State: StateSelectDirection, LastSeen: s.now()}
	s.sessions[key] = sess
	return sess
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle longer than the ttl and reports how many were
// removed. A zero ttl makes it a no-op.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	evicted := 0
	for key, sess := range s.sessions {
		if sess.LastSeen.Before(cutoff) {
			delete(s.sessions, key)
			evicted++
		}
	}
	return evicted
}

// Run sweeps periodically until ctx is done. Callers with a zero ttl need not
// start it.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep()
		}
	}
}
