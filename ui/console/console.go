package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/tanpawarit/Chative-Search-Assistant/agent/chat"
	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
)

const (
	keyCommand  = "/key"
	quitCommand = "/quit"
)

var (
	userTag      = lipgloss.NewStyle().Foreground(lipgloss.Color("#01cdfe")).Bold(true)
	assistantTag = lipgloss.NewStyle().Foreground(lipgloss.Color("#f55036")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#facc15")).Bold(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
)

// View prints loop events as tagged lines.
type View struct {
	mu  sync.Mutex
	out io.Writer
	// EchoUser reprints user turns; off for interactive terminals where the
	// user already sees what they typed.
	EchoUser bool
}

var _ chat.View = (*View)(nil)

func NewView(out io.Writer) *View {
	return &View{out: out}
}

func (v *View) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}

func (v *View) ShowTurn(t convx.Turn) {
	switch t.Role {
	case convx.RoleUser:
		if v.EchoUser {
			v.printf("%s %s\n", userTag.Render("you>"), t.Content)
		}
	default:
		v.printf("%s %s\n\n", assistantTag.Render("assistant>"), t.Content)
	}
}

func (v *View) ShowToolUsage(calls []contractx.ToolInvocation) {
	names := make([]string, 0, len(calls))
	for _, c := range calls {
		n := c.Tool
		if c.Failed() {
			n += " (failed)"
		}
		names = append(names, n)
	}
	v.printf("%s\n\n", mutedStyle.Render("tools used: "+strings.Join(names, ", ")))
}

func (v *View) Warn(msg string) {
	v.printf("%s\n", warnStyle.Render(msg))
}

func (v *View) Fail(err error) {
	v.printf("%s\n\n", errStyle.Render(chat.FailureMessage(err)))
}

func (v *View) Busy(label string) func() {
	start := time.Now()
	v.printf("%s\n", mutedStyle.Render(label))
	return func() {
		v.printf("%s\n", mutedStyle.Render(fmt.Sprintf("(%s)", time.Since(start).Round(100*time.Millisecond))))
	}
}

// KeyReader reads the API key without echo when possible.
type KeyReader func(prompt string) (string, error)

// TerminalKeyReader reads a masked key from the terminal behind f. It reports
// ok=false when f is not a terminal.
func TerminalKeyReader(f *os.File, out io.Writer) (KeyReader, bool) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, false
	}
	return func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read key: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}, true
}

// Input reads one question per line. "/key" re-prompts for the API key and
// "/quit" ends the session.
type Input struct {
	session *convx.Session
	readKey KeyReader
	out     io.Writer
	prompt  string

	once  sync.Once
	lines chan lineResult
	in    io.Reader
}

type lineResult struct {
	text string
	err  error
}

func NewInput(in io.Reader, out io.Writer, session *convx.Session, readKey KeyReader) *Input {
	return &Input{
		session: session,
		readKey: readKey,
		out:     out,
		in:      in,
		lines:   make(chan lineResult),
	}
}

// WithPrompt prints p before each read.
func (i *Input) WithPrompt(p string) *Input {
	i.prompt = p
	return i
}

func (i *Input) start() {
	go func() {
		defer close(i.lines)
		sc := bufio.NewScanner(i.in)
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for sc.Scan() {
			i.lines <- lineResult{text: sc.Text()}
		}
		if err := sc.Err(); err != nil {
			i.lines <- lineResult{err: err}
		}
	}()
}

func (i *Input) Next(ctx context.Context) (string, error) {
	i.once.Do(i.start)
	for {
		if i.prompt != "" {
			fmt.Fprint(i.out, userTag.Render(i.prompt))
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case r, ok := <-i.lines:
			if !ok {
				return "", io.EOF
			}
			if r.err != nil {
				return "", r.err
			}
			switch strings.TrimSpace(r.text) {
			case quitCommand:
				return "", io.EOF
			case keyCommand:
				i.promptKey()
				continue
			}
			return r.text, nil
		}
	}
}

func (i *Input) promptKey() {
	if i.readKey == nil {
		fmt.Fprintln(i.out, warnStyle.Render("API key entry needs an interactive terminal; set GROQ_API_KEY instead."))
		return
	}
	key, err := i.readKey("Groq API Key: ")
	if err != nil {
		fmt.Fprintln(i.out, errStyle.Render(chat.FailureMessage(err)))
		return
	}
	i.session.SetCredential(convx.Credential(key))
}
