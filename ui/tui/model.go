package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/tanpawarit/Chative-Search-Assistant/agent/chat"
	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
)

const (
	appTitle     = "Chative Search Engine"
	sidebarWidth = 34
)

type focus int

const (
	focusChat focus = iota
	focusKey
)

type entryKind int

const (
	entryTurn entryKind = iota
	entryWarning
	entryError
	entryUsage
)

type entry struct {
	kind entryKind
	turn convx.Turn
	text string
}

type model struct {
	ctx       context.Context
	session   *convx.Session
	submit    chan<- string
	cancel    func() bool
	modelName string

	chatInput textinput.Model
	keyInput  textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	renderer  *glamour.TermRenderer
	styles    styles

	entries   []entry
	focus     focus
	busy      bool
	busyLabel string
	// pending is set between Enter and the loop's first reaction, so a second
	// Enter cannot queue another submission.
	pending bool
	width   int
	height  int
	ready   bool
}

func newModel(ctx context.Context, session *convx.Session, submit chan<- string, cancel func() bool, modelName string) model {
	ci := textinput.New()
	ci.Placeholder = "Ask me anything..."
	ci.Prompt = "› "
	ci.CharLimit = 4000
	ci.Focus()

	ki := textinput.New()
	ki.Placeholder = "gsk_..."
	ki.Prompt = ""
	ki.EchoMode = textinput.EchoPassword
	ki.EchoCharacter = '•'
	ki.CharLimit = 256
	ki.Width = sidebarWidth - 6
	ki.SetValue(session.Credential().Reveal())

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		ctx:       ctx,
		session:   session,
		submit:    submit,
		cancel:    cancel,
		modelName: modelName,
		chatInput: ci,
		keyInput:  ki,
		viewport:  viewport.New(80, 20),
		spinner:   sp,
		styles:    newStyles(),
	}
	for _, t := range session.Store.All() {
		m.entries = append(m.entries, entry{kind: entryTurn, turn: t})
	}
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.refresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case turnMsg:
		if msg.turn.Role == convx.RoleUser {
			m.pending = false
			m.chatInput.SetValue("")
		}
		m.entries = append(m.entries, entry{kind: entryTurn, turn: msg.turn})
		m.refresh()

	case usageMsg:
		m.entries = append(m.entries, entry{kind: entryUsage, text: formatUsage(msg.calls)})
		m.refresh()

	case warnMsg:
		// The draft stays in the input so the user can resend it once the
		// key is set.
		m.pending = false
		m.entries = append(m.entries, entry{kind: entryWarning, text: msg.text})
		m.refresh()

	case failMsg:
		m.pending = false
		m.entries = append(m.entries, entry{kind: entryError, text: chat.FailureMessage(msg.err)})
		m.refresh()

	case busyMsg:
		m.busy = true
		m.busyLabel = msg.label

	case idleMsg:
		m.busy = false
		m.busyLabel = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.busy && m.cancel != nil {
				m.cancel()
			}
			return m, nil
		case "tab", "shift+tab":
			m.toggleFocus()
			return m, nil
		case "pgup":
			m.viewport.HalfViewUp()
			return m, nil
		case "pgdown":
			m.viewport.HalfViewDown()
			return m, nil
		case "enter":
			if m.focus == focusKey {
				m.applyKey()
				m.toggleFocus()
				return m, nil
			}
			if cmd := m.submitDraft(); cmd != nil {
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)
		}

		var cmd tea.Cmd
		if m.focus == focusKey {
			m.keyInput, cmd = m.keyInput.Update(msg)
		} else {
			m.chatInput, cmd = m.chatInput.Update(msg)
		}
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// applyKey copies the masked field into the session. The key lives only in the
// session and the input widget.
func (m *model) applyKey() {
	m.session.SetCredential(convx.Credential(strings.TrimSpace(m.keyInput.Value())))
}

func (m *model) submitDraft() tea.Cmd {
	if m.busy || m.pending {
		return nil
	}
	text := m.chatInput.Value()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	m.applyKey()
	m.pending = true

	ctx, ch := m.ctx, m.submit
	return func() tea.Msg {
		select {
		case ch <- text:
		case <-ctx.Done():
		}
		return nil
	}
}

func (m *model) toggleFocus() {
	if m.focus == focusChat {
		m.focus = focusKey
		m.chatInput.Blur()
		m.keyInput.Focus()
		return
	}
	m.focus = focusChat
	m.keyInput.Blur()
	m.chatInput.Focus()
}

func (m *model) resize() {
	mainWidth := m.width - sidebarWidth - 2
	if mainWidth < 20 {
		mainWidth = 20
	}
	// title + input box + status line
	height := m.height - 6
	if height < 3 {
		height = 3
	}
	m.viewport.Width = mainWidth
	m.viewport.Height = height
	m.chatInput.Width = mainWidth - 6

	m.renderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(mainWidth-4),
	)
	m.ready = true
}

func (m *model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m model) renderTranscript() string {
	var b strings.Builder
	for _, e := range m.entries {
		switch e.kind {
		case entryTurn:
			if e.turn.Role == convx.RoleUser {
				b.WriteString(m.styles.user.Render("You"))
				b.WriteString("\n")
				b.WriteString(e.turn.Content)
				b.WriteString("\n\n")
				continue
			}
			b.WriteString(m.styles.assistant.Render("Assistant"))
			b.WriteString("\n")
			b.WriteString(m.renderMarkdown(e.turn.Content))
			b.WriteString("\n")
		case entryWarning:
			b.WriteString(m.styles.warning.Render(e.text))
			b.WriteString("\n\n")
		case entryError:
			b.WriteString(m.styles.errorText.Render(e.text))
			b.WriteString("\n\n")
		case entryUsage:
			b.WriteString(m.styles.muted.Render(e.text))
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func (m model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content + "\n"
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return out
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	inputStyle := m.styles.inputBox
	if m.focus == focusChat {
		inputStyle = m.styles.focused
	}
	status := m.styles.muted.Render("enter send · tab settings · pgup/pgdown scroll · ctrl+c quit")
	if m.busy {
		status = m.spinner.View() + " " + m.busyLabel + m.styles.muted.Render("  (esc to cancel)")
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.title.Render(appTitle),
		m.viewport.View(),
		inputStyle.Width(m.viewport.Width-2).Render(m.chatInput.View()),
		status,
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, main, m.renderSidebar())
}

func (m model) renderSidebar() string {
	keyStyle := m.styles.inputBox
	if m.focus == focusKey {
		keyStyle = m.styles.focused
	}

	lines := []string{
		m.styles.sideTitle.Render("Settings"),
		"",
		m.styles.label.Render("Groq API Key"),
		keyStyle.Width(sidebarWidth - 4).Render(m.keyInput.View()),
	}
	if strings.TrimSpace(m.keyInput.Value()) == "" {
		lines = append(lines, m.styles.warning.Width(sidebarWidth-4).Render(chat.MissingCredentialWarning))
	}
	if m.modelName != "" {
		lines = append(lines, "", m.styles.label.Render("Model"), m.modelName)
	}
	lines = append(lines, "", m.styles.label.Render(fmt.Sprintf("Session %s", shortID(m.session.ID))))

	return m.styles.sidebar.
		Width(sidebarWidth).
		Height(max(m.height-2, 1)).
		Render(strings.Join(lines, "\n"))
}

func formatUsage(calls []contractx.ToolInvocation) string {
	parts := make([]string, 0, len(calls))
	for _, c := range calls {
		status := fmt.Sprintf("%d chars, %s", c.Chars, c.Duration.Round(10*time.Millisecond))
		if c.Failed() {
			status = "failed"
		}
		parts = append(parts, fmt.Sprintf("%s(%q) %s", c.Tool, c.Query, status))
	}
	return "Tools used: " + strings.Join(parts, "; ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
