package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/tanpawarit/Chative-Search-Assistant/agent/chat"
)

type Options struct {
	ModelName string
	AltScreen bool
}

// Run shows the chat UI and drives the loop until the user quits. The session
// is closed on return.
func Run(ctx context.Context, loop *chat.Loop, opts Options) error {
	session := loop.Session()
	defer session.Close()

	g, gctx := errgroup.WithContext(ctx)
	loopCtx, stopLoop := context.WithCancel(gctx)
	defer stopLoop()

	submissions := make(chan string)
	m := newModel(loopCtx, session, submissions, loop.CancelTurn, opts.ModelName)

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, progOpts...)

	g.Go(func() error {
		defer stopLoop()
		if _, err := p.Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return loop.Run(loopCtx, chat.NewChannelInput(submissions), programView{send: p.Send})
	})

	return g.Wait()
}
