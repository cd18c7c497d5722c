package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablescape/foodweb/pkg/cache"
	"github.com/tablescape/foodweb/pkg/disclosure"
	"github.com/tablescape/foodweb/pkg/errors"
	"github.com/tablescape/foodweb/pkg/foodgraph"
	"github.com/tablescape/foodweb/pkg/layout"
	"github.com/tablescape/foodweb/pkg/observability"
	"github.com/tablescape/foodweb/pkg/render"
)

// Output formats for the render command.
const (
	FormatSVG = "svg"
	FormatDOT = "dot"
)

// renderCommand creates the render command for one-shot exports.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		phaseStr   string
		focusID    string
		modeStr    string
		categories string
		noNonCore  bool
		regenFocus bool
		graphviz   bool
		noCache    bool
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "render [dataset]",
		Short: "Export the diagram as SVG or DOT",
		Long: `Export the diagram as SVG or DOT.

The exported view is a snapshot of one disclosure state: pick a phase
with --phase, focus a node with --focus, and filter with --categories.
Rendering is deterministic, so results are cached locally keyed by the
dataset content and the requested state.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := c.resolveSource(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = c.Config.Seed
			}

			st, err := buildRenderState(phaseStr, focusID, modeStr, categories, noNonCore, regenFocus)
			if err != nil {
				return err
			}

			return c.runRender(cmd.Context(), renderParams{
				source:   source,
				output:   output,
				formats:  parseFormats(formatsStr),
				state:    st,
				graphviz: graphviz,
				noCache:  noCache,
				seed:     uint64(seed),
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot (comma-separated)")
	cmd.Flags().StringVar(&phaseStr, "phase", "full", "disclosure phase: collapsed, stage1-stage6, full")
	cmd.Flags().StringVar(&focusID, "focus", "", "focus the view on a node")
	cmd.Flags().StringVar(&modeStr, "mode", string(disclosure.ModeDefault), "view mode: default, regen, negative")
	cmd.Flags().StringVar(&categories, "categories", "", "show only these categories (comma-separated)")
	cmd.Flags().BoolVar(&noNonCore, "core-only", false, "hide all non-core nodes")
	cmd.Flags().BoolVar(&regenFocus, "regen-highlight", false, "highlight regenerative variants")
	cmd.Flags().BoolVar(&graphviz, "graphviz", false, "produce the SVG via graphviz instead of the native renderer")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Int64Var(&seed, "seed", int64(layout.DefaultSeed), "layout seed for factor scatter")

	return cmd
}

// renderParams bundles everything runRender needs.
type renderParams struct {
	source   string
	output   string
	formats  []string
	state    disclosure.State
	graphviz bool
	noCache  bool
	seed     uint64
}

// runRender loads the dataset, renders each requested format, and writes
// the artifacts.
func (c *CLI) runRender(ctx context.Context, p renderParams) error {
	if err := validateFormats(p.formats); err != nil {
		return err
	}

	g, err := c.loadGraph(ctx, p.source)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", p.source, err)
	}
	if p.state.FocusID != "" {
		if _, ok := g.Node(p.state.FocusID); !ok {
			return errors.New(errors.ErrCodeNodeNotFound, "unknown focus node %q", p.state.FocusID)
		}
	}

	store, err := newCache(p.noCache, c.Config.CacheDir)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	datasetHash, err := datasetHash(g)
	if err != nil {
		return err
	}
	fingerprint := renderFingerprint(p, c.Config)

	engine := layout.New(c.Config.Frame(), p.seed)
	for _, format := range p.formats {
		key := cache.ArtifactKey(datasetHash, format+graphvizSuffix(p.graphviz), fingerprint)

		artifact, hit, err := store.Get(ctx, key)
		if err != nil {
			c.Logger.Debug("cache read failed", "error", err)
		}
		if !hit {
			artifact, err = c.renderArtifact(ctx, g, engine, p, format)
			if err != nil {
				return err
			}
			if err := store.Set(ctx, key, artifact, 0); err != nil {
				c.Logger.Debug("cache write failed", "error", err)
			}
		}

		path := outputPath(p.output, p.source, format, len(p.formats) > 1)
		if err := os.WriteFile(path, artifact, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}

		printSuccess("Rendered %s", format)
		printStats(len(g.Nodes), len(g.Links), hit)
		printFile(path)
	}

	return nil
}

// renderArtifact produces one artifact in the given format.
func (c *CLI) renderArtifact(ctx context.Context, g *foodgraph.Graph, engine *layout.Engine, p renderParams, format string) (artifact []byte, err error) {
	start := time.Now()
	defer func() {
		observability.View().OnRender(ctx, format, len(artifact), time.Since(start), err)
	}()

	layout.ReleaseAll(g)
	layoutStart := time.Now()
	engine.Journey(g)
	observability.View().OnLayout(ctx, "journey", len(g.Nodes), time.Since(layoutStart))

	if format == FormatDOT {
		return []byte(render.ToDOT(g, p.state)), nil
	}

	if p.graphviz {
		svg, err := render.DOTToSVG(ctx, render.ToDOT(g, p.state))
		if err != nil {
			return nil, fmt.Errorf("graphviz render: %w", err)
		}
		return svg, nil
	}

	opts := []render.SVGOption{
		render.WithFrame(engine.Frame()),
		render.WithLegend(),
	}
	if p.state.FocusID != "" {
		f, err := engine.Focus(g, p.state.FocusID, p.state.Mode == disclosure.ModeNegative)
		if err != nil {
			return nil, err
		}
		opts = append(opts, render.WithFocus(f))
	}
	return render.SVG(g, p.state, opts...), nil
}

// =============================================================================
// State Construction
// =============================================================================

// buildRenderState assembles a disclosure state from the render flags.
func buildRenderState(phaseStr, focusID, modeStr, categories string, noNonCore, regenFocus bool) (disclosure.State, error) {
	st := disclosure.NewState()

	phase, err := parsePhase(phaseStr)
	if err != nil {
		return st, err
	}
	st.Phase = phase
	st.FocusID = focusID

	mode := disclosure.Mode(modeStr)
	if !disclosure.ValidMode(mode) {
		return st, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", modeStr)
	}
	st.Mode = mode
	st.ShowNonCore = !noNonCore
	st.RegenFocus = regenFocus

	if categories != "" {
		for g := range st.Categories {
			st.Categories[g] = false
		}
		for _, name := range strings.Split(categories, ",") {
			group := strings.TrimSpace(name)
			if _, ok := st.Categories[group]; !ok {
				return st, errors.New(errors.ErrCodeInvalidInput, "unknown category %q", group)
			}
			st.Categories[group] = true
		}
	}

	return st, nil
}

// parsePhase parses a phase name: collapsed, stage1..stage6, full.
func parsePhase(s string) (disclosure.Phase, error) {
	switch s {
	case "collapsed":
		return disclosure.Collapsed, nil
	case "full":
		return disclosure.Full, nil
	}
	if strings.HasPrefix(s, "stage") {
		var n int
		if _, err := fmt.Sscanf(s, "stage%d", &n); err == nil && n >= 1 && n <= disclosure.StageCount {
			return disclosure.Phase(n), nil
		}
	}
	return disclosure.Collapsed, errors.New(errors.ErrCodeInvalidStage, "unknown phase %q (want collapsed, stage1-stage%d, or full)", s, disclosure.StageCount)
}

// =============================================================================
// Cache Keys
// =============================================================================

// datasetHash hashes the canonical dataset content.
func datasetHash(g *foodgraph.Graph) (string, error) {
	data, err := foodgraph.MarshalDataset(&foodgraph.Dataset{Nodes: derefNodes(g.Nodes), Links: derefLinks(g.Links)})
	if err != nil {
		return "", fmt.Errorf("hash dataset: %w", err)
	}
	return cache.Hash(data), nil
}

func derefNodes(in []*foodgraph.Node) []foodgraph.Node {
	out := make([]foodgraph.Node, len(in))
	for i, n := range in {
		out[i] = *n
	}
	return out
}

func derefLinks(in []*foodgraph.Link) []foodgraph.Link {
	out := make([]foodgraph.Link, len(in))
	for i, l := range in {
		out[i] = *l
	}
	return out
}

// renderFingerprint captures everything besides the dataset that changes
// the rendered output.
func renderFingerprint(p renderParams, cfg *Config) map[string]any {
	enabled := make([]string, 0, len(p.state.Categories))
	for g, on := range p.state.Categories {
		if on {
			enabled = append(enabled, g)
		}
	}
	sort.Strings(enabled)

	return map[string]any{
		"phase":      p.state.Phase.String(),
		"focus":      p.state.FocusID,
		"mode":       string(p.state.Mode),
		"categories": enabled,
		"nonCore":    p.state.ShowNonCore,
		"regen":      p.state.RegenFocus,
		"width":      cfg.Width,
		"height":     cfg.Height,
		"seed":       p.seed,
	}
}

func graphvizSuffix(graphviz bool) string {
	if graphviz {
		return "+graphviz"
	}
	return ""
}

// =============================================================================
// Formats & Paths
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// validateFormats checks that every requested format is supported.
func validateFormats(formats []string) error {
	for _, f := range formats {
		switch f {
		case FormatSVG, FormatDOT:
		default:
			return errors.New(errors.ErrCodeUnsupported, "unknown format %q (want svg or dot)", f)
		}
	}
	return nil
}

// outputPath derives the output file path for one format.
func outputPath(output, source, format string, multi bool) string {
	if output != "" {
		if !multi {
			return output
		}
		return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
	}

	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "foodweb"
	}
	return base + "." + format
}
