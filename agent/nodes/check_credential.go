package turnnode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
)

func CheckCredential(in *GraphState, session *convx.Session) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if session == nil || session.Closed() {
		return nil, fmt.Errorf("%w: session is closed", contractx.ErrValidation)
	}

	cred := session.Credential()
	if cred.Empty() {
		return nil, contractx.ErrMissingCredential
	}
	in.Credential = cred
	return in, nil
}
