package turnnode

import (
	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
)

type GraphInput struct {
	Text string
}

type GraphOutput struct {
	Reply contractx.Reply
}

// GraphState is threaded through the per-turn pipeline.
type GraphState struct {
	Text       string
	Credential convx.Credential
	UserTurn   convx.Turn
	Reply      contractx.Reply
}
