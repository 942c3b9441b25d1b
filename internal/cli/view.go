package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"relaymap/pkg/graphio"
)

// viewCommand creates the interactive graph viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <graph.json>",
		Short: "Inspect a relay graph interactively",
		Long: `View opens a graph JSON file in an interactive terminal browser. Nodes
are listed with their kind and location; selecting a node expands it to
show its coordinates and connected edges.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graphio.ReadFile(args[0])
			if err != nil {
				return err
			}

			model := NewGraphViewModel(g)
			p := tea.NewProgram(model, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}
