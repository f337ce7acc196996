package client

import "sync"

// State of a Session.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
)

func (s State) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Session holds the bearer token. It moves to StateAuthenticated on the
// first successful login and never goes back.
type Session struct {
	mu    sync.RWMutex
	token string
}

func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *Session) State() State {
	if _, ok := s.Token(); ok {
		return StateAuthenticated
	}
	return StateUnauthenticated
}

func (s *Session) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}
