package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"

	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
)

const queryArgsSchema = `{
  "type": "object",
  "properties": {
    "query": {"type": "string", "minLength": 1}
  },
  "required": ["query"]
}`

var queryArgs = gojsonschema.NewStringLoader(queryArgsSchema)

type recorder struct {
	mu    sync.Mutex
	calls []contractx.ToolInvocation
}

func (r *recorder) add(inv contractx.ToolInvocation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, inv)
}

func (r *recorder) list() []contractx.ToolInvocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]contractx.ToolInvocation(nil), r.calls...)
}

// bridge exposes a ToolAdapter to the agent as an invokable tool taking
// {"query": string}.
type bridge struct {
	adapter contractx.ToolAdapter
	rec     *recorder
}

var _ tool.InvokableTool = (*bridge)(nil)

func newBridge(a contractx.ToolAdapter, rec *recorder) *bridge {
	return &bridge{adapter: a, rec: rec}
}

func (b *bridge) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: b.adapter.Name(),
		Desc: b.adapter.Description(),
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {
				Type:     schema.String,
				Desc:     "search query",
				Required: true,
			},
		}),
	}, nil
}

func (b *bridge) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	name := b.adapter.Name()
	query, err := parseQuery(argumentsInJSON)
	if err != nil {
		b.rec.add(contractx.ToolInvocation{Tool: name, Error: err.Error()})
		return "", fmt.Errorf("%w: tool=%s: %w", contractx.ErrSchemaViolation, name, err)
	}

	start := time.Now()
	out, err := b.adapter.Run(ctx, query)
	inv := contractx.ToolInvocation{
		Tool:     name,
		Query:    query,
		Chars:    len([]rune(out)),
		Duration: time.Since(start),
	}
	if err != nil {
		inv.Error = err.Error()
		b.rec.add(inv)
		log.Warn().Err(err).Str("tool", name).Msg("tool adapter failed")
		return "", fmt.Errorf("%w: tool=%s: %w", contractx.ErrToolFailure, name, err)
	}
	b.rec.add(inv)

	log.Debug().Str("tool", name).Int("chars", inv.Chars).Dur("duration", inv.Duration).Msg("tool adapter returned")
	return out, nil
}

func parseQuery(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("arguments are empty")
	}

	result, err := gojsonschema.Validate(queryArgs, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return "", fmt.Errorf("invalid arguments: %s", strings.Join(msgs, "; "))
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return "", fmt.Errorf("decode arguments: %w", err)
	}
	return args.Query, nil
}
