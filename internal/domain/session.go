package domain

import (
	"strings"
	"sync"
)

// Session is the in-memory state shared by the steps of one demo session:
// the API base URL, the bearer token and the result log.
type Session struct {
	ID string

	mu      sync.RWMutex
	baseURL string
	token   string
	log     *ResultLog
}

// NewSession creates a session with an empty token.
func NewSession(id, baseURL string, log *ResultLog) *Session {
	if log == nil {
		log = NewResultLog(DefaultLogCapacity)
	}
	return &Session{
		ID:      id,
		baseURL: strings.TrimSpace(baseURL),
		log:     log,
	}
}

func (s *Session) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL
}

func (s *Session) SetBaseURL(u string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = strings.TrimSpace(u)
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// SetToken stores tok. An empty token never replaces the current one.
func (s *Session) SetToken(tok string) bool {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = tok
	return true
}

// Log returns the session result log.
func (s *Session) Log() *ResultLog {
	return s.log
}

// Clear forgets the token and empties the log. The base URL is kept.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	s.log.Clear()
}
