package chat

type Outcome int

const (
	// OutcomeIgnored means the submission was blank and nothing happened.
	OutcomeIgnored Outcome = iota
	OutcomeMissingCredential
	OutcomeFailed
	OutcomeAnswered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeMissingCredential:
		return "missing_credential"
	case OutcomeFailed:
		return "failed"
	case OutcomeAnswered:
		return "answered"
	default:
		return "unknown"
	}
}

// State is the position of the loop in its turn cycle.
type State int32

const (
	StateAwaitingInput State = iota
	StateCredentialCheck
	StateDispatch
	StateRender
)

func (s State) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting_input"
	case StateCredentialCheck:
		return "credential_check"
	case StateDispatch:
		return "dispatch"
	case StateRender:
		return "render"
	default:
		return "unknown"
	}
}
