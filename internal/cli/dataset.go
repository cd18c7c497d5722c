package cli

import (
	"context"
	"fmt"

	"github.com/tablescape/foodweb/pkg/errors"
	"github.com/tablescape/foodweb/pkg/foodgraph"
)

// resolveSource picks the dataset source from the positional argument or the
// config file default.
func (c *CLI) resolveSource(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if c.Config.Dataset != "" {
		return c.Config.Dataset, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "no dataset given: pass a path or URL, or set dataset in the config file")
}

// loadGraph fetches, decodes, and indexes a dataset with progress feedback.
// The load is a single attempt; any failure surfaces immediately.
func (c *CLI) loadGraph(ctx context.Context, source string) (*foodgraph.Graph, error) {
	prog := newProgress(c.Logger)

	spinner := newLoadSpinner(ctx, source)
	spinner.Start()

	ds, err := foodgraph.Load(ctx, source)
	if err != nil {
		spinner.StopWithError("Load failed")
		return nil, err
	}
	spinner.Stop()

	g := foodgraph.BuildGraph(ds)
	if g.Dropped > 0 {
		c.Logger.Warn("dropped links with unresolvable endpoints", "count", g.Dropped)
	}
	prog.done(fmt.Sprintf("Loaded %d nodes, %d links", len(g.Nodes), len(g.Links)))
	return g, nil
}
