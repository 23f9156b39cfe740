package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/Chative-Search-Assistant/agent/agents/orchestrator"
	"github.com/tanpawarit/Chative-Search-Assistant/agent/chat"
	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
	"github.com/tanpawarit/Chative-Search-Assistant/agent/llm"
	"github.com/tanpawarit/Chative-Search-Assistant/agent/prompt"
	"github.com/tanpawarit/Chative-Search-Assistant/agent/tool"
	configx "github.com/tanpawarit/Chative-Search-Assistant/pkg/config"
	logx "github.com/tanpawarit/Chative-Search-Assistant/pkg/logger"
	"github.com/tanpawarit/Chative-Search-Assistant/ui/console"
)

const defaultLogFile = "chative-search.log"

type AppConfig struct {
	GroqAPIKey  string        `envconfig:"GROQ_API_KEY"`
	TurnTimeout time.Duration `envconfig:"TURN_TIMEOUT" default:"2m"`
}

// runtime is everything one command invocation needs to run a session.
type runtime struct {
	app     AppConfig
	llm     llm.Config
	prompts prompt.PromptSet
	tools   []contractx.ToolAdapter
	builder contractx.OrchestratorBuilder
	logs    io.Closer
}

// stdinKeyReader is swapped in tests so they never block on a terminal.
var stdinKeyReader = func(out io.Writer) (console.KeyReader, bool) {
	return console.TerminalKeyReader(os.Stdin, out)
}

// newBuilder is swapped in tests to avoid calling the provider.
var newBuilder = func(cfg llm.Config, prompts prompt.PromptSet) (contractx.OrchestratorBuilder, error) {
	return orchestrator.NewBuilder(cfg, prompts)
}

func loadRuntime(flags *rootFlags) (*runtime, error) {
	logCfg, err := configx.New[logx.Config]("LOG")
	if err != nil {
		return nil, fmt.Errorf("load log config: %w", err)
	}
	if flags.verbose {
		logCfg.Debug = true
	}
	// Logs never share the terminal with the conversation.
	if strings.TrimSpace(logCfg.File) == "" {
		logCfg.File = filepath.Join(os.TempDir(), defaultLogFile)
	}
	closer, err := logx.Init(*logCfg)
	if err != nil {
		return nil, err
	}

	rt, err := buildRuntime()
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	rt.logs = closer
	return rt, nil
}

func buildRuntime() (*runtime, error) {
	app, err := configx.New[AppConfig]("")
	if err != nil {
		return nil, fmt.Errorf("load app config: %w", err)
	}
	llmCfg, err := configx.New[llm.Config]("LLM")
	if err != nil {
		return nil, fmt.Errorf("load llm config: %w", err)
	}
	toolCfg, err := configx.New[tool.Config]("TOOLS")
	if err != nil {
		return nil, fmt.Errorf("load tools config: %w", err)
	}

	prompts := prompt.LoadPromptSet()
	tools, err := tool.BuildDefault(*toolCfg)
	if err != nil {
		return nil, err
	}
	builder, err := newBuilder(*llmCfg, prompts)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("model", llmCfg.Model).
		Strs("tools", tool.Names(tools)).
		Dur("turn_timeout", app.TurnTimeout).
		Msg("runtime ready")

	return &runtime{
		app:     *app,
		llm:     *llmCfg,
		prompts: prompts,
		tools:   tools,
		builder: builder,
	}, nil
}

func (r *runtime) Close() error {
	if r.logs == nil {
		return nil
	}
	return r.logs.Close()
}

// newSession starts a session seeded with the greeting and, when present, the
// key from the environment.
func (r *runtime) newSession() *convx.Session {
	s := convx.NewSession(r.prompts.Greeting)
	if key := convx.Credential(r.app.GroqAPIKey); !key.Empty() {
		s.SetCredential(key)
	}
	log.Info().Str("session_id", s.ID).Object("credential", s.Credential()).Msg("session started")
	return s
}

func (r *runtime) newLoop(s *convx.Session) (*chat.Loop, error) {
	return chat.New(s, r.builder, r.tools, chat.WithTurnTimeout(r.app.TurnTimeout))
}
