package conversation

import (
	"errors"
	"sync"
)

var (
	ErrInvalidRole  = errors.New("turn role is invalid")
	ErrEmptyContent = errors.New("turn content is empty")
)

// Store is the append-only transcript of one session. The interaction loop is
// its only writer; front ends may read it concurrently while a turn is being
// answered.
type Store struct {
	mu       sync.RWMutex
	greeting string
	turns    []Turn
}

func NewStore(greeting string) *Store {
	return &Store{greeting: greeting}
}

// Initialize seeds the greeting turn. Calling it on a seeded store is a no-op.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.turns != nil {
		return
	}
	s.turns = make([]Turn, 1, 16)
	s.turns[0] = AssistantTurn(s.greeting)
}

func (s *Store) Append(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, t)
}

// All returns a chronological copy of the transcript.
func (s *Store) All() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Last returns the newest turn, if any.
func (s *Store) Last() (Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.turns) == 0 {
		return Turn{}, false
	}
	return s.turns[len(s.turns)-1], true
}

// reset drops every turn. Only Session.Close calls it.
func (s *Store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}
