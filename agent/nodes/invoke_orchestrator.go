package turnnode

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/panics"

	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
)

// InvokeOrchestrator binds an orchestrator to the turn credential and asks it
// for one reply over the full transcript. A panic inside the backend is
// returned as an error.
func InvokeOrchestrator(
	ctx context.Context,
	in *GraphState,
	builder contractx.OrchestratorBuilder,
	store *convx.Store,
	tools []contractx.ToolAdapter,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if builder == nil {
		return nil, fmt.Errorf("%w: orchestrator builder is required", contractx.ErrValidation)
	}

	var (
		reply contractx.Reply
		err   error
	)
	var pc panics.Catcher
	pc.Try(func() {
		var o contractx.Orchestrator
		o, err = builder.Build(ctx, in.Credential)
		if err != nil {
			return
		}
		reply, err = o.Respond(ctx, store.All(), tools)
	})
	if r := pc.Recovered(); r != nil {
		return nil, fmt.Errorf("%w: %w", contractx.ErrModelInvoke, r.AsError())
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", contractx.ErrModelInvoke, context.Cause(ctx))
	}
	if err != nil {
		return nil, err
	}

	in.Reply = reply
	return in, nil
}
