package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tanpawarit/Chative-Search-Assistant/agent/chat"
	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
)

type (
	turnMsg  struct{ turn convx.Turn }
	warnMsg  struct{ text string }
	failMsg  struct{ err error }
	busyMsg  struct{ label string }
	idleMsg  struct{}
	usageMsg struct{ calls []contractx.ToolInvocation }
)

// programView forwards loop events into the bubbletea event queue.
type programView struct {
	send func(tea.Msg)
}

var _ chat.View = programView{}

func (v programView) ShowTurn(t convx.Turn) { v.send(turnMsg{turn: t}) }

func (v programView) ShowToolUsage(calls []contractx.ToolInvocation) {
	v.send(usageMsg{calls: append([]contractx.ToolInvocation(nil), calls...)})
}

func (v programView) Warn(text string) { v.send(warnMsg{text: text}) }

func (v programView) Fail(err error) { v.send(failMsg{err: err}) }

func (v programView) Busy(label string) func() {
	v.send(busyMsg{label: label})
	return func() { v.send(idleMsg{}) }
}
