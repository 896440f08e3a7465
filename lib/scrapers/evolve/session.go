package evolve

import "sync"

// SessionStore owns the current cookie header value. It is the single
// place session state gets mutated: the fetch path reads it, the
// challenge path replaces it and authentication failures clear it.
type SessionStore struct {
	mu     sync.Mutex
	cookie string
}

// NewSessionStore seeds the store with the operator supplied cookie
// string. An empty seed is allowed, every fetch will then fail fast
// until a cookie is supplied.
func NewSessionStore(initial string) *SessionStore {
	return &SessionStore{cookie: initial}
}

func (s *SessionStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cookie
}

// Invalidate clears the session so the next fetch starts from an
// unauthenticated state instead of repeating a doomed request.
func (s *SessionStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookie = ""
}

// Replace swaps in a new cookie string wholesale.
func (s *SessionStore) Replace(cookie string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookie = cookie
}
