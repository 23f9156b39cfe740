package conversation

import (
	"fmt"
	"sync"
	"testing"
)

const testGreeting = "Hello! I can search the web, Wikipedia, and Arxiv. What would you like to know?"

func TestStoreInitializeIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewStore(testGreeting)
	s.Initialize()
	s.Initialize()

	if got := s.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	first := s.All()[0]
	if first.Role != RoleAssistant || first.Content != testGreeting {
		t.Fatalf("unexpected greeting turn: %#v", first)
	}
}

func TestStoreInitializeKeepsExistingTurns(t *testing.T) {
	t.Parallel()

	s := NewStore(testGreeting)
	s.Initialize()
	s.Append(UserTurn("What is 2+2?"))
	s.Initialize()

	if got := s.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
}

func TestStoreAppendPreservesOrder(t *testing.T) {
	t.Parallel()

	s := NewStore(testGreeting)
	s.Initialize()
	const n = 5
	for i := 0; i < n; i++ {
		s.Append(UserTurn(fmt.Sprintf("q%d", i)))
		s.Append(AssistantTurn(fmt.Sprintf("a%d", i)))
	}

	turns := s.All()
	if len(turns) != 2*n+1 {
		t.Fatalf("len = %d, want %d", len(turns), 2*n+1)
	}
	for i := 0; i < n; i++ {
		u, a := turns[1+2*i], turns[2+2*i]
		if u.Role != RoleUser || u.Content != fmt.Sprintf("q%d", i) {
			t.Fatalf("turn %d = %#v", 1+2*i, u)
		}
		if a.Role != RoleAssistant || a.Content != fmt.Sprintf("a%d", i) {
			t.Fatalf("turn %d = %#v", 2+2*i, a)
		}
	}
}

func TestStoreAllReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewStore(testGreeting)
	s.Initialize()

	view := s.All()
	view[0].Content = "mutated"

	if got := s.All()[0].Content; got != testGreeting {
		t.Fatalf("store mutated through All(): %q", got)
	}
}

func TestStoreLast(t *testing.T) {
	t.Parallel()

	s := NewStore(testGreeting)
	if _, ok := s.Last(); ok {
		t.Fatal("expected no last turn before Initialize")
	}
	s.Initialize()
	s.Append(UserTurn("hi"))

	last, ok := s.Last()
	if !ok || last.Role != RoleUser || last.Content != "hi" {
		t.Fatalf("Last() = %#v, %v", last, ok)
	}
}

func TestStoreConcurrentReadersDuringAppend(t *testing.T) {
	t.Parallel()

	s := NewStore(testGreeting)
	s.Initialize()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.All()
			}
		}()
	}
	for j := 0; j < 100; j++ {
		s.Append(UserTurn("x"))
	}
	wg.Wait()

	if got := s.Len(); got != 101 {
		t.Fatalf("Len() = %d, want 101", got)
	}
}

func TestTurnValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		turn Turn
		ok   bool
	}{
		{name: "user", turn: UserTurn("hello"), ok: true},
		{name: "assistant", turn: AssistantTurn("hi"), ok: true},
		{name: "blank", turn: UserTurn("   "), ok: false},
		{name: "bad role", turn: Turn{Role: "system", Content: "x"}, ok: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.turn.Validate()
			if tc.ok && err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
