package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configx "github.com/tanpawarit/Chative-Search-Assistant/pkg/config"
)

var (
	version = "dev"
	commit  = "unknown"
)

type rootFlags struct {
	envFile string
	verbose bool
}

// NewRootCmd builds the command tree. Without a subcommand it opens the chat UI.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "chative-search",
		Short: "Conversational search assistant backed by Groq",
		Long: `Chative Search answers questions with a Groq-hosted model that can consult
DuckDuckGo, Wikipedia and arXiv while it thinks.

The API key is taken from the Settings panel (or GROQ_API_KEY) and lives only
for the current session.

Quick Start:
  chative-search                 # interactive chat
  chative-search chat --plain    # line-oriented chat
  chative-search ask "what is RAG?"
  chative-search models`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configx.SetEnvFile(flags.envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, flags, false)
		},
	}

	root.PersistentFlags().StringVar(&flags.envFile, "env", "", "Path to a .env file (default ./.env when present)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newChatCmd(flags),
		newAskCmd(flags),
		newModelsCmd(flags),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
