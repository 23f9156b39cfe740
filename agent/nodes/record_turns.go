package turnnode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
)

func RecordUserTurn(in *GraphState, store *convx.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	turn := convx.UserTurn(in.Text)
	if err := turn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", contractx.ErrValidation, err)
	}
	store.Append(turn)
	in.UserTurn = turn
	return in, nil
}

// RecordAssistantTurn appends the reply only when it is a well-formed
// assistant turn, so a bad reply never reaches the transcript.
func RecordAssistantTurn(in *GraphState, store *convx.Store) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	turn := in.Reply.Turn
	if turn.Role != convx.RoleAssistant {
		return GraphOutput{}, fmt.Errorf("%w: reply role is %q", contractx.ErrSchemaViolation, turn.Role)
	}
	if err := turn.Validate(); err != nil {
		return GraphOutput{}, fmt.Errorf("%w: %w", contractx.ErrSchemaViolation, err)
	}
	store.Append(turn)
	return GraphOutput{Reply: in.Reply}, nil
}
