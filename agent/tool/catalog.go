package tool

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
)

const (
	ToolArxiv      = "arxiv"
	ToolWikipedia  = "wikipedia"
	ToolDuckDuckGo = "duckduckgo_search"
)

// BuildDefault returns the three retrieval adapters in their fixed order.
func BuildDefault(cfg Config) ([]contractx.ToolAdapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return []contractx.ToolAdapter{
		NewArxiv(cfg),
		NewWikipedia(cfg),
		NewDuckDuckGo(cfg),
	}, nil
}

// Names lists adapter names in order.
func Names(adapters []contractx.ToolAdapter) []string {
	out := make([]string, 0, len(adapters))
	for _, a := range adapters {
		if a == nil {
			continue
		}
		out = append(out, a.Name())
	}
	return out
}

var errEmptyQuery = fmt.Errorf("%w: query is empty", contractx.ErrValidation)

func toolFailure(tool string, err error) error {
	return fmt.Errorf("%w: tool=%s: %w", contractx.ErrToolFailure, tool, err)
}
