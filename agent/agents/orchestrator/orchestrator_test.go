package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
	"github.com/tanpawarit/Chative-Search-Assistant/agent/llm"
	"github.com/tanpawarit/Chative-Search-Assistant/agent/prompt"
	groqx "github.com/tanpawarit/Chative-Search-Assistant/pkg/groq"
)

type fakeToolCallingModel struct {
	mu        sync.Mutex
	responses []*schema.Message
	err       error
	idx       int
	inputs    [][]*schema.Message
	bound     []*schema.ToolInfo
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, append([]*schema.Message(nil), input...))
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bound = tools
	return f, nil
}

type fakeAdapter struct {
	name string
	out  string
	err  error

	mu      sync.Mutex
	queries []string
}

func (f *fakeAdapter) Name() string        { return f.name }
func (f *fakeAdapter) Description() string { return "looks things up in " + f.name }

func (f *fakeAdapter) Run(ctx context.Context, query string) (string, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

func toolCall(id, name, args string) schema.ToolCall {
	return schema.ToolCall{
		ID:   id,
		Type: "function",
		Function: schema.FunctionCall{
			Name:      name,
			Arguments: args,
		},
	}
}

func testLLMConfig() llm.Config {
	return llm.Config{
		BaseURL:            groqx.DefaultBaseURL,
		Model:              "qwen/qwen3-32b",
		MaxCompletionToken: 2000,
		Temperature:        0.5,
		MaxSteps:           12,
	}
}

func newTestBuilder(t *testing.T, fake *fakeToolCallingModel) *Builder {
	t.Helper()
	b, err := NewBuilder(testLLMConfig(), prompt.PromptSet{System: "system prompt", Greeting: "hi"},
		WithModelFactory(func(ctx context.Context, cfg groqx.Config) (einomodel.ToolCallingChatModel, error) {
			return fake, nil
		}),
	)
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	return b
}

func newTestOrchestrator(t *testing.T, fake *fakeToolCallingModel) contractx.Orchestrator {
	t.Helper()
	o, err := newTestBuilder(t, fake).Build(context.Background(), convx.Credential("gsk_test"))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return o
}

func transcript(question string) []convx.Turn {
	return []convx.Turn{
		convx.AssistantTurn("Hello! How can I help?"),
		convx.UserTurn(question),
	}
}

func TestBuildRequiresCredential(t *testing.T) {
	t.Parallel()

	called := false
	b, err := NewBuilder(testLLMConfig(), prompt.LoadPromptSet(),
		WithModelFactory(func(ctx context.Context, cfg groqx.Config) (einomodel.ToolCallingChatModel, error) {
			called = true
			return &fakeToolCallingModel{}, nil
		}),
	)
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}

	_, err = b.Build(context.Background(), convx.Credential(""))
	if !errors.Is(err, contractx.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if called {
		t.Fatal("model factory must not run without a credential")
	}
}

func TestBuildPassesCredentialToFactory(t *testing.T) {
	t.Parallel()

	var got groqx.Config
	b, err := NewBuilder(testLLMConfig(), prompt.LoadPromptSet(),
		WithModelFactory(func(ctx context.Context, cfg groqx.Config) (einomodel.ToolCallingChatModel, error) {
			got = cfg
			return &fakeToolCallingModel{}, nil
		}),
	)
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}

	if _, err := b.Build(context.Background(), convx.Credential("gsk_secret")); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got.APIKey != "gsk_secret" {
		t.Fatalf("factory got api key %q", got.APIKey)
	}
	if got.Model != "qwen/qwen3-32b" {
		t.Fatalf("factory got model %q", got.Model)
	}
	if got.MaxCompletionToken == nil || *got.MaxCompletionToken != 2000 {
		t.Fatalf("unexpected max completion token: %v", got.MaxCompletionToken)
	}
}

func TestBuildWrapsFactoryError(t *testing.T) {
	t.Parallel()

	b, err := NewBuilder(testLLMConfig(), prompt.LoadPromptSet(),
		WithModelFactory(func(ctx context.Context, cfg groqx.Config) (einomodel.ToolCallingChatModel, error) {
			return nil, errors.New("boom")
		}),
	)
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}

	_, err = b.Build(context.Background(), convx.Credential("gsk_test"))
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestNewBuilderRejectsMissingPrompt(t *testing.T) {
	t.Parallel()

	_, err := NewBuilder(testLLMConfig(), prompt.PromptSet{Greeting: "hi"})
	if !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("expected ErrPromptMissing, got %v", err)
	}
}

func TestRespondWithToolCall(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			schema.AssistantMessage("", []schema.ToolCall{toolCall("call_1", "wikipedia", `{"query":"Go programming language"}`)}),
			schema.AssistantMessage("Go is a language designed at Google.", nil),
		},
	}
	wiki := &fakeAdapter{name: "wikipedia", out: "Page: Go\nSummary: Go is a language."}
	arxiv := &fakeAdapter{name: "arxiv", out: "unused"}

	o := newTestOrchestrator(t, fake)
	reply, err := o.Respond(context.Background(), transcript("what is go?"), []contractx.ToolAdapter{arxiv, wiki})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	if reply.Turn.Role != convx.RoleAssistant {
		t.Fatalf("unexpected role: %s", reply.Turn.Role)
	}
	if reply.Turn.Content != "Go is a language designed at Google." {
		t.Fatalf("unexpected content: %q", reply.Turn.Content)
	}
	if len(wiki.queries) != 1 || wiki.queries[0] != "Go programming language" {
		t.Fatalf("unexpected wikipedia queries: %#v", wiki.queries)
	}
	if len(arxiv.queries) != 0 {
		t.Fatalf("arxiv should not be called: %#v", arxiv.queries)
	}
	if len(reply.Invocations) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(reply.Invocations))
	}
	inv := reply.Invocations[0]
	if inv.Tool != "wikipedia" || inv.Query != "Go programming language" || inv.Failed() {
		t.Fatalf("unexpected invocation: %#v", inv)
	}
	if inv.Chars != len([]rune(wiki.out)) {
		t.Fatalf("unexpected chars: %d", inv.Chars)
	}

	if len(fake.bound) != 2 || fake.bound[0].Name != "arxiv" || fake.bound[1].Name != "wikipedia" {
		t.Fatalf("unexpected bound tools: %#v", fake.bound)
	}
	if len(fake.inputs) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(fake.inputs))
	}
	first := fake.inputs[0]
	if len(first) != 3 || first[0].Role != schema.System || first[0].Content != "system prompt" {
		t.Fatalf("system prompt not prepended: %#v", first)
	}
	if first[2].Role != schema.User || first[2].Content != "what is go?" {
		t.Fatalf("unexpected last input: %#v", first[2])
	}
	second := fake.inputs[1]
	last := second[len(second)-1]
	if last.Role != schema.Tool || !strings.Contains(last.Content, "Go is a language.") {
		t.Fatalf("tool result not fed back: %#v", last)
	}
}

func TestRespondWithoutTools(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			schema.AssistantMessage("Paris.", nil),
		},
	}
	o := newTestOrchestrator(t, fake)

	reply, err := o.Respond(context.Background(), transcript("capital of France?"), []contractx.ToolAdapter{&fakeAdapter{name: "wikipedia"}})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if reply.Turn.Content != "Paris." {
		t.Fatalf("unexpected content: %q", reply.Turn.Content)
	}
	if len(reply.Invocations) != 0 {
		t.Fatalf("expected no invocations, got %#v", reply.Invocations)
	}
}

func TestRespondStripsReasoningTrace(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			schema.AssistantMessage("<think>\nlet me think\n</think>\n\nParis.", nil),
		},
	}
	o := newTestOrchestrator(t, fake)

	reply, err := o.Respond(context.Background(), transcript("capital of France?"), []contractx.ToolAdapter{&fakeAdapter{name: "wikipedia"}})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if reply.Turn.Content != "Paris." {
		t.Fatalf("unexpected content: %q", reply.Turn.Content)
	}
}

func TestRespondEmptyAnswerIsSchemaViolation(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			schema.AssistantMessage("   ", nil),
		},
	}
	o := newTestOrchestrator(t, fake)

	_, err := o.Respond(context.Background(), transcript("hello"), []contractx.ToolAdapter{&fakeAdapter{name: "wikipedia"}})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestRespondModelError(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{err: errors.New("401 invalid api key")}
	o := newTestOrchestrator(t, fake)

	_, err := o.Respond(context.Background(), transcript("hello"), []contractx.ToolAdapter{&fakeAdapter{name: "wikipedia"}})
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
	if !strings.Contains(err.Error(), "401 invalid api key") {
		t.Fatalf("cause missing from error: %v", err)
	}
}

func TestRespondToolFailureFailsTurn(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			schema.AssistantMessage("", []schema.ToolCall{toolCall("call_1", "duckduckgo_search", `{"query":"news"}`)}),
			schema.AssistantMessage("should not be reached", nil),
		},
	}
	ddg := &fakeAdapter{name: "duckduckgo_search", err: errors.New("rate limited")}
	o := newTestOrchestrator(t, fake)

	reply, err := o.Respond(context.Background(), transcript("news?"), []contractx.ToolAdapter{ddg})
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("cause missing from error: %v", err)
	}
	if len(reply.Invocations) != 1 || !reply.Invocations[0].Failed() {
		t.Fatalf("expected one failed invocation, got %#v", reply.Invocations)
	}
}

func TestRespondRejectsInvalidToolArguments(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			schema.AssistantMessage("", []schema.ToolCall{toolCall("call_1", "arxiv", `{"q":"attention"}`)}),
		},
	}
	arxiv := &fakeAdapter{name: "arxiv", out: "x"}
	o := newTestOrchestrator(t, fake)

	_, err := o.Respond(context.Background(), transcript("papers?"), []contractx.ToolAdapter{arxiv})
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if len(arxiv.queries) != 0 {
		t.Fatalf("adapter must not run with invalid args: %#v", arxiv.queries)
	}
}

func TestRespondRequiresTrailingUserTurn(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, &fakeToolCallingModel{})

	_, err := o.Respond(context.Background(), []convx.Turn{convx.AssistantTurn("hi")}, nil)
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	_, err = o.Respond(context.Background(), nil, nil)
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty transcript, got %v", err)
	}
}

func TestParseQuery(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "valid", raw: `{"query":"golang"}`, want: "golang"},
		{name: "extra fields", raw: `{"query":"golang","lang":"en"}`, want: "golang"},
		{name: "missing", raw: `{"q":"golang"}`, wantErr: true},
		{name: "wrong type", raw: `{"query":42}`, wantErr: true},
		{name: "empty string", raw: `{"query":""}`, wantErr: true},
		{name: "blank", raw: "  ", wantErr: true},
		{name: "not json", raw: "golang", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseQuery(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseQuery() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
