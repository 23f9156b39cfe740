package contract

import (
	"context"

	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
)

// ToolAdapter is a query-in/text-out wrapper around one lookup service.
// Implementations carry no per-call mutable state.
type ToolAdapter interface {
	Name() string
	Description() string
	Run(ctx context.Context, query string) (string, error)
}

// Orchestrator turns a transcript into exactly one new assistant turn,
// consulting any of the given tools as many times as it sees fit.
type Orchestrator interface {
	Respond(ctx context.Context, turns []convx.Turn, tools []ToolAdapter) (Reply, error)
}

// OrchestratorBuilder binds an Orchestrator to the session credential.
type OrchestratorBuilder interface {
	Build(ctx context.Context, credential convx.Credential) (Orchestrator, error)
}

// OrchestratorBuilderFunc adapts a plain function to OrchestratorBuilder.
type OrchestratorBuilderFunc func(ctx context.Context, credential convx.Credential) (Orchestrator, error)

func (f OrchestratorBuilderFunc) Build(ctx context.Context, credential convx.Credential) (Orchestrator, error) {
	return f(ctx, credential)
}
