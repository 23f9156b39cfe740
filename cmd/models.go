package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
	groqx "github.com/tanpawarit/Chative-Search-Assistant/pkg/groq"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))
	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

func newModelsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models available to the API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(flags)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runModels(cmd, rt)
		},
	}
}

func runModels(cmd *cobra.Command, rt *runtime) error {
	key := convx.Credential(rt.app.GroqAPIKey)
	if key.Empty() {
		return fmt.Errorf("%w: set GROQ_API_KEY", contractx.ErrMissingCredential)
	}

	models, err := groqx.ListModels(cmd.Context(), rt.llm.GroqFor(key))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%d models", len(models))))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tOWNER\tCREATED")
	for _, m := range models {
		id := m.ID
		if m.ID == rt.llm.Model {
			id = activeStyle.Render(m.ID + " *")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", id, m.OwnedBy, m.Created.Format("2006-01-02"))
	}
	return w.Flush()
}
