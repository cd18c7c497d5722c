package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tablescape/foodweb/pkg/layout"
)

// exploreCommand creates the explore command for interactive terminal use.
func (c *CLI) exploreCommand() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "explore [dataset]",
		Short: "Explore the diagram interactively in the terminal",
		Long: `Explore the diagram interactively in the terminal.

The dataset may be a local JSON file or an http(s) URL. The view starts
collapsed to the environment root; press enter to walk the journey one
stage at a time, select a node to open its mind-map focus view, and
toggle categories and view modes as you go.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := c.resolveSource(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = c.Config.Seed
			}

			g, err := c.loadGraph(cmd.Context(), source)
			if err != nil {
				return fmt.Errorf("load dataset %s: %w", source, err)
			}

			engine := layout.New(c.Config.Frame(), uint64(seed))
			model := newExploreModel(g, engine)

			p := tea.NewProgram(model, tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", int64(layout.DefaultSeed), "layout seed for factor scatter")

	return cmd
}
