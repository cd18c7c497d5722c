package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/tablescape/foodweb/pkg/disclosure"
	"github.com/tablescape/foodweb/pkg/foodgraph"
)

// ToDOT converts the visible subgraph to Graphviz DOT format. Hidden
// nodes and links with a hidden endpoint are omitted entirely, matching
// the SVG sink's visibility rules.
func ToDOT(g *foodgraph.Graph, st disclosure.State) string {
	visible := st.VisibleNodes(g)

	var buf bytes.Buffer
	buf.WriteString("digraph foodweb {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=12, fixedsize=true, width=1.0];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		if _, ok := visible[n.ID]; !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q, fontcolor=white];\n",
			n.ID, n.Label, NodeColor(n))
	}

	buf.WriteString("\n")
	for _, l := range st.VisibleLinks(g) {
		style := StyleFor(l.Type)
		dotStyle := "solid"
		if style.Dash != "" {
			dotStyle = "dashed"
		}
		fmt.Fprintf(&buf, "  %q -> %q [color=%q, style=%s];\n",
			l.SourceID, l.TargetID, style.Color, dotStyle)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// DOTToSVG renders a DOT graph to SVG using Graphviz.
func DOTToSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
