package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tablescape/foodweb/pkg/errors"
	"github.com/tablescape/foodweb/pkg/foodgraph"
)

// validateCommand creates the validate command for checking datasets.
func (c *CLI) validateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [dataset]",
		Short: "Check a dataset for schema problems",
		Long: `Check a dataset for schema problems.

Validation runs the same load path the other commands use: fetch, JSON
parse, shape check, and link resolution. It reports counts and warns
about links whose endpoints do not resolve to any node.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := c.resolveSource(args)
			if err != nil {
				return err
			}
			return c.runValidate(cmd.Context(), source)
		},
	}
	return cmd
}

// runValidate loads the dataset and reports what the loader found.
func (c *CLI) runValidate(ctx context.Context, source string) error {
	ds, err := foodgraph.Load(ctx, source)
	if err != nil {
		printError("Validation failed")
		printDetail("%s", errors.UserMessage(err))
		printDetail("code: %s", errors.GetCode(err))
		return err
	}

	g := foodgraph.BuildGraph(ds)

	printSuccess("Dataset is valid")
	printStats(len(g.Nodes), len(g.Links), false)

	if dupes := len(ds.Nodes) - len(g.Nodes); dupes > 0 {
		printWarning("%d duplicate node id(s); the last definition wins", dupes)
	}
	if g.Dropped > 0 {
		printWarning("%d link(s) reference unknown nodes and will not render", g.Dropped)
	}

	byGroup := make(map[string]int)
	for _, n := range g.Nodes {
		byGroup[n.DisplayGroup()]++
	}
	for _, group := range append(append([]string{}, foodgraph.Groups...), foodgraph.GroupUncategorized) {
		if count := byGroup[group]; count > 0 {
			printDetail("%-22s %d", group, count)
		}
	}

	printNextStep("Explore it", fmt.Sprintf("foodweb explore %s", source))
	return nil
}
