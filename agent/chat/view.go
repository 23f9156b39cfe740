package chat

import (
	"context"

	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
)

const (
	MissingCredentialWarning = "Please enter your Groq API key before asking a question."
	BusyLabel                = "Searching and thinking..."
)

// View renders loop events. Calls arrive from the loop goroutine, one turn at
// a time.
type View interface {
	ShowTurn(turn convx.Turn)
	ShowToolUsage(calls []contractx.ToolInvocation)
	Warn(msg string)
	Fail(err error)
	// Busy shows the working indicator until the returned func is called.
	Busy(label string) (release func())
}

// Input yields one submission per call and blocks until one arrives.
// It returns io.EOF when the user is done.
type Input interface {
	Next(ctx context.Context) (string, error)
}

// FailureMessage is the inline text shown for a failed turn.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + err.Error()
}

type nopView struct{}

func (nopView) ShowTurn(convx.Turn)                      {}
func (nopView) ShowToolUsage([]contractx.ToolInvocation) {}
func (nopView) Warn(string)                              {}
func (nopView) Fail(error)                               {}
func (nopView) Busy(string) func()                       { return func() {} }
