package contract

import (
	"time"

	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
)

type Reply struct {
	Turn        convx.Turn       `json:"turn"`
	Invocations []ToolInvocation `json:"invocations,omitempty"`
}

// ToolInvocation records one tool call made while answering a turn.
type ToolInvocation struct {
	Tool     string        `json:"tool"`
	Query    string        `json:"query"`
	Chars    int           `json:"chars"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

func (i ToolInvocation) Failed() bool {
	return i.Error != ""
}
