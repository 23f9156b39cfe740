package conversation

import (
	"sync"

	"github.com/google/uuid"
)

// Session owns the transcript and the credential of one interactive run.
// Nothing it holds is ever written to disk.
type Session struct {
	ID    string
	Store *Store

	mu         sync.RWMutex
	credential Credential
	closed     bool
}

func NewSession(greeting string) *Session {
	s := &Session{
		ID:    uuid.NewString(),
		Store: NewStore(greeting),
	}
	s.Store.Initialize()
	return s
}

func (s *Session) SetCredential(c Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.credential = c
}

func (s *Session) Credential() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Close forgets the credential and the transcript.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.credential = ""
	s.Store.reset()
}
