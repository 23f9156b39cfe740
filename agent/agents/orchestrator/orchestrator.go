package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
)

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Orchestrator answers one turn with a react agent over the bound chat model.
type Orchestrator struct {
	model    einomodel.ToolCallingChatModel
	system   string
	maxSteps int
}

var _ contractx.Orchestrator = (*Orchestrator)(nil)

func newOrchestrator(m einomodel.ToolCallingChatModel, system string, maxSteps int) (*Orchestrator, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(system) == "" {
		return nil, fmt.Errorf("%w: system", contractx.ErrPromptMissing)
	}
	return &Orchestrator{model: m, system: system, maxSteps: maxSteps}, nil
}

func (o *Orchestrator) Respond(ctx context.Context, turns []convx.Turn, adapters []contractx.ToolAdapter) (contractx.Reply, error) {
	input, err := toMessages(turns)
	if err != nil {
		return contractx.Reply{}, err
	}

	rec := &recorder{}
	tools := make([]tool.BaseTool, 0, len(adapters))
	for _, a := range adapters {
		if a == nil {
			continue
		}
		tools = append(tools, newBridge(a, rec))
	}

	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: o.model,
		ToolsConfig:      compose.ToolsNodeConfig{Tools: tools},
		MaxStep:          o.maxSteps,
		MessageModifier: func(ctx context.Context, msgs []*schema.Message) []*schema.Message {
			out := make([]*schema.Message, 0, len(msgs)+1)
			out = append(out, schema.SystemMessage(o.system))
			return append(out, msgs...)
		},
	})
	if err != nil {
		return contractx.Reply{}, fmt.Errorf("%w: build agent: %w", contractx.ErrModelInvoke, err)
	}

	msg, err := agent.Generate(ctx, input)
	if err != nil {
		if errors.Is(err, contractx.ErrToolFailure) || errors.Is(err, contractx.ErrSchemaViolation) {
			return contractx.Reply{Invocations: rec.list()}, err
		}
		return contractx.Reply{Invocations: rec.list()}, fmt.Errorf("%w: %w", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return contractx.Reply{Invocations: rec.list()}, fmt.Errorf("%w: empty agent response", contractx.ErrSchemaViolation)
	}

	content := strings.TrimSpace(thinkBlock.ReplaceAllString(msg.Content, ""))
	if content == "" {
		return contractx.Reply{Invocations: rec.list()}, fmt.Errorf("%w: assistant message is empty", contractx.ErrSchemaViolation)
	}

	invocations := rec.list()
	log.Debug().
		Int("turns", len(turns)).
		Int("tool_calls", len(invocations)).
		Int("answer_chars", len(content)).
		Msg("orchestrator answered turn")

	return contractx.Reply{
		Turn:        convx.AssistantTurn(content),
		Invocations: invocations,
	}, nil
}

func toMessages(turns []convx.Turn) ([]*schema.Message, error) {
	if len(turns) == 0 {
		return nil, fmt.Errorf("%w: conversation is empty", contractx.ErrValidation)
	}
	if last := turns[len(turns)-1]; last.Role != convx.RoleUser {
		return nil, fmt.Errorf("%w: last turn must be from the user, got %q", contractx.ErrValidation, last.Role)
	}

	msgs := make([]*schema.Message, 0, len(turns))
	for i, t := range turns {
		switch t.Role {
		case convx.RoleUser:
			msgs = append(msgs, schema.UserMessage(t.Content))
		case convx.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(t.Content, nil))
		default:
			return nil, fmt.Errorf("%w: turn %d has role %q", contractx.ErrValidation, i, t.Role)
		}
	}
	return msgs, nil
}
