package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
	"github.com/tanpawarit/Chative-Search-Assistant/ui/console"
	"github.com/tanpawarit/Chative-Search-Assistant/ui/tui"
)

func newChatCmd(flags *rootFlags) *cobra.Command {
	var plain bool

	c := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session. The full-screen UI is used by default;
--plain reads one question per line from stdin instead. In plain mode type
/key to enter the API key and /quit to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, flags, plain)
		},
	}
	c.Flags().BoolVar(&plain, "plain", false, "Use a line-oriented terminal instead of the full-screen UI")
	return c
}

func runChat(cmd *cobra.Command, flags *rootFlags, plain bool) error {
	rt, err := loadRuntime(flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	session := rt.newSession()
	loop, err := rt.newLoop(session)
	if err != nil {
		return err
	}

	if !plain {
		return tui.Run(cmd.Context(), loop, tui.Options{ModelName: rt.llm.Model, AltScreen: true})
	}
	defer session.Close()

	out := cmd.OutOrStdout()
	view := console.NewView(out)
	readKey, interactive := stdinKeyReader(out)
	if interactive && session.Credential().Empty() {
		if key, err := readKey("Groq API Key: "); err == nil {
			session.SetCredential(convx.Credential(key))
		}
	}
	if !interactive {
		view.EchoUser = true
	}

	fmt.Fprintln(out, session.Store.All()[0].Content)
	fmt.Fprintln(out)
	input := console.NewInput(cmd.InOrStdin(), out, session, readKey)
	if interactive {
		input.WithPrompt("you> ")
	}
	return loop.Run(cmd.Context(), input, view)
}
