package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tanpawarit/Chative-Search-Assistant/agent/chat"
	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
	"github.com/tanpawarit/Chative-Search-Assistant/ui/console"
)

var errNoAnswer = errors.New("no answer")

func newAskCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question and print the answer",
		Long: `Ask one question, print the answer and exit. The key is read from
GROQ_API_KEY, or prompted for without echo when stdin is a terminal.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(flags)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runAsk(cmd, rt, strings.Join(args, " "))
		},
	}
}

func runAsk(cmd *cobra.Command, rt *runtime, question string) error {
	session := rt.newSession()
	defer session.Close()

	out := cmd.OutOrStdout()
	if session.Credential().Empty() {
		if readKey, ok := stdinKeyReader(cmd.ErrOrStderr()); ok {
			key, err := readKey("Groq API Key: ")
			if err != nil {
				return err
			}
			session.SetCredential(convx.Credential(key))
		}
	}

	loop, err := rt.newLoop(session)
	if err != nil {
		return err
	}

	switch outcome := loop.Submit(cmd.Context(), question, console.NewView(out)); outcome {
	case chat.OutcomeAnswered:
		return nil
	case chat.OutcomeMissingCredential:
		return contractx.ErrMissingCredential
	case chat.OutcomeIgnored:
		return contractx.ErrEmptySubmission
	default:
		return errNoAnswer
	}
}
