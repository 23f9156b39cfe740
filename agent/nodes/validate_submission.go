package turnnode

import (
	"strings"

	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
)

// ValidateSubmission drops whitespace-only input before anything else runs.
func ValidateSubmission(in GraphInput) (*GraphState, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, contractx.ErrEmptySubmission
	}
	return &GraphState{Text: in.Text}, nil
}
