package orchestrator

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
	"github.com/tanpawarit/Chative-Search-Assistant/agent/llm"
	"github.com/tanpawarit/Chative-Search-Assistant/agent/prompt"
	groqx "github.com/tanpawarit/Chative-Search-Assistant/pkg/groq"
)

// ModelFactory creates the chat model for one credential-bound provider config.
type ModelFactory func(ctx context.Context, cfg groqx.Config) (einomodel.ToolCallingChatModel, error)

func groqModel(ctx context.Context, cfg groqx.Config) (einomodel.ToolCallingChatModel, error) {
	return cfg.New(ctx)
}

type Option func(*Builder)

// WithModelFactory replaces the Groq chat model constructor.
func WithModelFactory(f ModelFactory) Option {
	return func(b *Builder) {
		if f != nil {
			b.newModel = f
		}
	}
}

// Builder creates an Orchestrator bound to a session credential. It keeps no
// reference to the credential after Build returns.
type Builder struct {
	llm      llm.Config
	system   string
	newModel ModelFactory
}

var _ contractx.OrchestratorBuilder = (*Builder)(nil)

func NewBuilder(cfg llm.Config, prompts prompt.PromptSet, opts ...Option) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := prompts.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		llm:      cfg,
		system:   prompts.System,
		newModel: groqModel,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Builder) Build(ctx context.Context, credential convx.Credential) (contractx.Orchestrator, error) {
	if credential.Empty() {
		return nil, contractx.ErrMissingCredential
	}
	m, err := b.newModel(ctx, b.llm.GroqFor(credential))
	if err != nil {
		return nil, fmt.Errorf("%w: create chat model: %w", contractx.ErrModelInvoke, err)
	}
	return newOrchestrator(m, b.system, b.llm.MaxSteps)
}
