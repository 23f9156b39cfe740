package chat

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	turnnode "github.com/tanpawarit/Chative-Search-Assistant/agent/nodes"
)

type turnRunKey struct{}

// turnRun carries the per-submission view and the first node error, so the
// loop can classify failures without depending on how the graph wraps them.
type turnRun struct {
	view         View
	err          error
	userRecorded bool
}

func withTurnRun(ctx context.Context, run *turnRun) context.Context {
	return context.WithValue(ctx, turnRunKey{}, run)
}

func turnRunFrom(ctx context.Context) *turnRun {
	run, _ := ctx.Value(turnRunKey{}).(*turnRun)
	if run == nil {
		return &turnRun{view: nopView{}}
	}
	return run
}

func (r *turnRun) fail(err error) error {
	if err != nil && r.err == nil {
		r.err = err
	}
	return err
}

func (l *Loop) compileTurnGraph(ctx context.Context) (compose.Runnable[turnnode.GraphInput, turnnode.GraphOutput], error) {
	graph := compose.NewGraph[turnnode.GraphInput, turnnode.GraphOutput]()

	if err := graph.AddLambdaNode("validate_submission",
		compose.InvokableLambda(func(ctx context.Context, in turnnode.GraphInput) (*turnnode.GraphState, error) {
			st, err := turnnode.ValidateSubmission(in)
			return st, turnRunFrom(ctx).fail(err)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_submission: %w", err)
	}

	if err := graph.AddLambdaNode("check_credential",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.GraphState) (*turnnode.GraphState, error) {
			l.setState(StateCredentialCheck)
			st, err := turnnode.CheckCredential(in, l.session)
			return st, turnRunFrom(ctx).fail(err)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node check_credential: %w", err)
	}

	if err := graph.AddLambdaNode("record_user_turn",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.GraphState) (*turnnode.GraphState, error) {
			l.setState(StateDispatch)
			run := turnRunFrom(ctx)
			st, err := turnnode.RecordUserTurn(in, l.session.Store)
			if err != nil {
				return nil, run.fail(err)
			}
			run.userRecorded = true
			run.view.ShowTurn(st.UserTurn)
			return st, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record_user_turn: %w", err)
	}

	if err := graph.AddLambdaNode("invoke_orchestrator",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.GraphState) (*turnnode.GraphState, error) {
			run := turnRunFrom(ctx)
			release := run.view.Busy(BusyLabel)
			defer release()

			turnCtx, done := l.turnContext(ctx)
			defer done()

			st, err := turnnode.InvokeOrchestrator(turnCtx, in, l.builder, l.session.Store, l.tools)
			return st, run.fail(err)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node invoke_orchestrator: %w", err)
	}

	if err := graph.AddLambdaNode("record_assistant_turn",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.GraphState) (turnnode.GraphOutput, error) {
			l.setState(StateRender)
			out, err := turnnode.RecordAssistantTurn(in, l.session.Store)
			return out, turnRunFrom(ctx).fail(err)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record_assistant_turn: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_submission"},
		{"validate_submission", "check_credential"},
		{"check_credential", "record_user_turn"},
		{"record_user_turn", "invoke_orchestrator"},
		{"invoke_orchestrator", "record_assistant_turn"},
		{"record_assistant_turn", compose.END},
	}
	for _, e := range edges {
		if err := graph.AddEdge(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", e[0], e[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("chat.turn_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile turn graph: %w", err)
	}
	return runner, nil
}
