package prompt

import (
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
)

func TestLoadPromptSet(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()
	if err := set.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	for _, name := range []string{"duckduckgo_search", "wikipedia", "arxiv"} {
		if !strings.Contains(set.System, name) {
			t.Fatalf("system prompt does not mention tool %q", name)
		}
	}
	if !strings.HasPrefix(set.Greeting, "Hello!") {
		t.Fatalf("unexpected greeting: %q", set.Greeting)
	}
}

func TestPromptSetValidateMissing(t *testing.T) {
	t.Parallel()

	err := PromptSet{System: "x"}.Validate()
	if !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("expected ErrPromptMissing, got %v", err)
	}
}
