package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/tablescape/foodweb/pkg/disclosure"
	"github.com/tablescape/foodweb/pkg/foodgraph"
	"github.com/tablescape/foodweb/pkg/layout"
)

const nodeRadius = 26.0

const interactionCSS = `
    .node circle { transition: stroke-width 0.2s ease, opacity 0.4s ease; cursor: pointer; }
    .node.highlight circle { stroke-width: 4; }
    .node text { pointer-events: none; }
    .link { transition: opacity 0.4s ease; }
    .leaf text { font-style: italic; }`

// panZoomJS implements clamped pan/zoom over the scene group. The scale
// bounds match the original viewport: 0.2x to 5x.
const panZoomJS = `
    const scene = document.getElementById('scene');
    let scale = 1, tx = 0, ty = 0, dragging = false, px = 0, py = 0;
    const apply = () => scene.setAttribute('transform',
      'translate(' + tx + ',' + ty + ') scale(' + scale + ')');
    document.documentElement.addEventListener('wheel', e => {
      e.preventDefault();
      scale = Math.min(5, Math.max(0.2, scale * (e.deltaY < 0 ? 1.1 : 0.9)));
      apply();
    }, { passive: false });
    document.documentElement.addEventListener('pointerdown', e => {
      dragging = true; px = e.clientX; py = e.clientY;
    });
    document.documentElement.addEventListener('pointermove', e => {
      if (!dragging) return;
      tx += e.clientX - px; ty += e.clientY - py;
      px = e.clientX; py = e.clientY;
      apply();
    });
    document.documentElement.addEventListener('pointerup', () => { dragging = false; });
    document.querySelectorAll('.node').forEach(el => {
      el.addEventListener('mouseenter', () => el.classList.add('highlight'));
      el.addEventListener('mouseleave', () => el.classList.remove('highlight'));
    });`

// =============================================================================
// Options
// =============================================================================

// SVGOption configures the SVG sink.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	frame  layout.Frame
	focus  *layout.FocusLayout
	legend bool
	script bool
}

// WithFrame sets the frame dimensions.
func WithFrame(f layout.Frame) SVGOption { return func(r *svgRenderer) { r.frame = f } }

// WithFocus supplies the focus layout so example leaves and deduplicated
// connectors render instead of the raw link set.
func WithFocus(f *layout.FocusLayout) SVGOption { return func(r *svgRenderer) { r.focus = f } }

// WithLegend draws the category legend.
func WithLegend() SVGOption { return func(r *svgRenderer) { r.legend = true } }

// WithInteraction embeds the hover/pan-zoom script. Disable for static
// export or for embedding in a page that wires its own handlers.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.script = true } }

// =============================================================================
// SVG Sink
// =============================================================================

// SVG renders the current state of the graph. It is a pure projection:
// positions come from the nodes, visibility and styling from the state.
func SVG(g *foodgraph.Graph, st disclosure.State, opts ...SVGOption) []byte {
	r := svgRenderer{frame: layout.DefaultFrame()}
	for _, opt := range opts {
		opt(&r)
	}

	visible := st.VisibleNodes(g)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.frame.Width, r.frame.Height, r.frame.Width, r.frame.Height)

	renderDefs(&buf)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)
	buf.WriteString(`  <g id="scene">` + "\n")

	if r.focus != nil && st.Focused() {
		renderFocusLinks(&buf, r.focus)
	} else {
		renderLinks(&buf, g, st)
	}
	renderNodes(&buf, g, st, visible)
	if r.focus != nil && st.Focused() {
		renderLeaves(&buf, r.focus)
	}

	buf.WriteString("  </g>\n")

	if r.legend {
		renderLegend(&buf, st)
	}
	if r.script {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", panZoomJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	for _, m := range markerStyles() {
		fmt.Fprintf(buf,
			"    <marker id=%q markerWidth=\"10\" markerHeight=\"8\" refX=\"9\" refY=\"4\" orient=\"auto\">"+
				"<path d=\"M0,0 L10,4 L0,8 z\" fill=%q/></marker>\n",
			m.ID, m.Color)
	}
	buf.WriteString("  </defs>\n")
}

// renderLinks draws the standard link set: straight lines, per-type
// strokes, arrowheads, endpoints trimmed to the node radius.
func renderLinks(buf *bytes.Buffer, g *foodgraph.Graph, st disclosure.State) {
	for _, l := range st.VisibleLinks(g) {
		style := StyleFor(l.Type)
		writeLine(buf, l.Source.X, l.Source.Y, l.Target.X, l.Target.Y, style, disclosure.LinkOpacity(l.Type))
	}
}

// renderFocusLinks draws deduplicated connectors radiating from the
// focus node.
func renderFocusLinks(buf *bytes.Buffer, f *layout.FocusLayout) {
	for _, c := range f.Connectors {
		style := StyleFor(c.Type)
		writeLine(buf, c.A.X, c.A.Y, c.B.X, c.B.Y, style, disclosure.LinkOpacity(c.Type))
	}
}

func writeLine(buf *bytes.Buffer, x1, y1, x2, y2 float64, style LinkStyle, opacity float64) {
	fmt.Fprintf(buf, `    <line class="link" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke=%q stroke-width="%.1f" opacity="%.2f"`,
		x1, y1, x2, y2, style.Color, style.Width, opacity)
	if style.Dash != "" {
		fmt.Fprintf(buf, ` stroke-dasharray=%q`, style.Dash)
	}
	if style.Marker != "" {
		fmt.Fprintf(buf, ` marker-end="url(#%s)"`, style.Marker)
	}
	buf.WriteString("/>\n")
}

func renderNodes(buf *bytes.Buffer, g *foodgraph.Graph, st disclosure.State, visible map[string]struct{}) {
	for _, n := range g.Nodes {
		if _, ok := visible[n.ID]; !ok {
			continue
		}
		opacity := 1.0
		if st.Dimmed(g, n) {
			opacity = disclosure.OpacityDimmed
		}
		stroke := "#ffffff"
		if st.RegenFocus && n.RegenModified {
			stroke = "#76ff03"
		}

		fmt.Fprintf(buf, `    <g class="node" id="node-%s" opacity="%.2f">`+"\n", html.EscapeString(n.ID), opacity)
		fmt.Fprintf(buf, `      <circle cx="%.1f" cy="%.1f" r="%.0f" fill=%q stroke=%q stroke-width="2"/>`+"\n",
			n.X, n.Y, nodeRadius, NodeColor(n), stroke)
		if n.Icon != "" {
			fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-size="20">%s</text>`+"\n",
				n.X, n.Y, html.EscapeString(n.Icon))
		}
		fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" font-size="12" fill="#333">%s</text>`+"\n",
			n.X, n.Y+nodeRadius+14, html.EscapeString(n.Label))
		buf.WriteString("    </g>\n")
	}
}

// renderLeaves draws the example labels of the focus view. The middle
// leaf of three gets a straight connector, the rest a quadratic curve.
func renderLeaves(buf *bytes.Buffer, f *layout.FocusLayout) {
	for _, leaf := range f.Leaves {
		if leaf.Straight {
			fmt.Fprintf(buf, `    <line class="link" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#90a4ae" stroke-width="1" opacity="0.7"/>`+"\n",
				leaf.Parent.X, leaf.Parent.Y, leaf.X, leaf.Y)
		} else {
			mx := (leaf.Parent.X + leaf.X) / 2
			my := (leaf.Parent.Y+leaf.Y)/2 - 18
			fmt.Fprintf(buf, `    <path class="link" d="M%.1f,%.1f Q%.1f,%.1f %.1f,%.1f" fill="none" stroke="#90a4ae" stroke-width="1" opacity="0.7"/>`+"\n",
				leaf.Parent.X, leaf.Parent.Y, mx, my, leaf.X, leaf.Y)
		}
		fmt.Fprintf(buf, `    <g class="leaf"><text x="%.1f" y="%.1f" text-anchor="middle" font-size="11" fill="#607d8b">%s</text></g>`+"\n",
			leaf.X, leaf.Y, html.EscapeString(leaf.Label))
	}
}

func renderLegend(buf *bytes.Buffer, st disclosure.State) {
	buf.WriteString(`  <g id="legend" transform="translate(16,16)">` + "\n")
	for i, group := range foodgraph.Groups {
		y := float64(i) * 22
		opacity := 1.0
		if !st.Categories[group] {
			opacity = 0.3
		}
		fmt.Fprintf(buf, `    <g opacity="%.1f"><rect x="0" y="%.0f" width="14" height="14" rx="3" fill=%q/>`+
			`<text x="20" y="%.0f" font-size="12" fill="#333">%s</text></g>`+"\n",
			opacity, y, GroupColor(group), y+11, html.EscapeString(group))
	}
	buf.WriteString("  </g>\n")
}
