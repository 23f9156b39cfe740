package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
	turnnode "github.com/tanpawarit/Chative-Search-Assistant/agent/nodes"
)

// ErrTurnCanceled is reported when the user aborts an in-flight turn.
var ErrTurnCanceled = errors.New("turn canceled")

type Option func(*Loop)

// WithTurnTimeout bounds each orchestrator call. Zero disables the bound.
func WithTurnTimeout(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// Loop drives one session through AwaitingInput, CredentialCheck, Dispatch and
// Render. At most one turn is in flight at a time.
type Loop struct {
	session *convx.Session
	builder contractx.OrchestratorBuilder
	tools   []contractx.ToolAdapter
	timeout time.Duration

	runner compose.Runnable[turnnode.GraphInput, turnnode.GraphOutput]
	logger zerolog.Logger

	turnMu sync.Mutex
	state  atomic.Int32

	cancelMu sync.Mutex
	cancel   context.CancelCauseFunc
}

func New(
	session *convx.Session,
	builder contractx.OrchestratorBuilder,
	tools []contractx.ToolAdapter,
	opts ...Option,
) (*Loop, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}
	if builder == nil {
		return nil, errors.New("orchestrator builder is required")
	}

	l := &Loop{
		session: session,
		builder: builder,
		tools:   append([]contractx.ToolAdapter(nil), tools...),
		logger:  log.With().Str("session_id", session.ID).Logger(),
	}
	for _, opt := range opts {
		opt(l)
	}

	runner, err := l.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	l.runner = runner
	return l, nil
}

func (l *Loop) Session() *convx.Session { return l.session }

func (l *Loop) State() State {
	return State(l.state.Load())
}

func (l *Loop) setState(s State) {
	l.state.Store(int32(s))
}

// Run reads submissions until the input is exhausted or ctx ends. A failing
// turn never stops the loop.
func (l *Loop) Run(ctx context.Context, in Input, view View) error {
	l.logger.Info().Msg("interaction loop started")
	defer l.logger.Info().Msg("interaction loop stopped")

	for {
		l.setState(StateAwaitingInput)
		text, err := in.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		l.Submit(ctx, text, view)
	}
}

// Submit processes one submission to completion and reports what happened.
func (l *Loop) Submit(ctx context.Context, text string, view View) Outcome {
	l.turnMu.Lock()
	defer l.turnMu.Unlock()
	defer l.setState(StateAwaitingInput)

	if view == nil {
		view = nopView{}
	}
	run := &turnRun{view: view}
	start := time.Now()

	out, err := l.runner.Invoke(withTurnRun(ctx, run), turnnode.GraphInput{Text: text})
	if err == nil {
		view.ShowTurn(out.Reply.Turn)
		if len(out.Reply.Invocations) > 0 {
			view.ShowToolUsage(out.Reply.Invocations)
		}
		l.logger.Info().
			Dur("elapsed", time.Since(start)).
			Int("tool_calls", len(out.Reply.Invocations)).
			Int("turns", l.session.Store.Len()).
			Msg("turn answered")
		return OutcomeAnswered
	}

	cause := run.err
	if cause == nil {
		cause = err
	}

	switch {
	case !run.userRecorded && errors.Is(cause, contractx.ErrEmptySubmission):
		return OutcomeIgnored
	case !run.userRecorded && errors.Is(cause, contractx.ErrMissingCredential):
		view.Warn(MissingCredentialWarning)
		l.logger.Info().Msg("turn rejected: missing credential")
		return OutcomeMissingCredential
	default:
		view.Fail(cause)
		l.logger.Warn().
			Err(cause).
			Dur("elapsed", time.Since(start)).
			Int("turns", l.session.Store.Len()).
			Msg("turn failed")
		return OutcomeFailed
	}
}

// CancelTurn aborts the in-flight orchestrator call, if any.
func (l *Loop) CancelTurn() bool {
	l.cancelMu.Lock()
	defer l.cancelMu.Unlock()
	if l.cancel == nil {
		return false
	}
	l.cancel(ErrTurnCanceled)
	return true
}

func (l *Loop) turnContext(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)
	var stopTimer context.CancelFunc = func() {}
	if l.timeout > 0 {
		ctx, stopTimer = context.WithTimeoutCause(ctx, l.timeout, fmt.Errorf("turn exceeded %s", l.timeout))
	}

	l.cancelMu.Lock()
	l.cancel = cancel
	l.cancelMu.Unlock()

	return ctx, func() {
		l.cancelMu.Lock()
		l.cancel = nil
		l.cancelMu.Unlock()
		stopTimer()
		cancel(nil)
	}
}
