package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
)

var (
	//go:embed template/system.txt
	systemRaw string

	//go:embed template/greeting.txt
	greetingRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	System   string
	Greeting string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		System:   strings.TrimSpace(systemRaw),
		Greeting: strings.TrimSpace(greetingRaw),
	}
}

func (p PromptSet) Validate() error {
	if p.System == "" {
		return fmt.Errorf("%w: system", contractx.ErrPromptMissing)
	}
	if p.Greeting == "" {
		return fmt.Errorf("%w: greeting", contractx.ErrPromptMissing)
	}
	return nil
}
