package render

import (
	"strings"
	"testing"

	"github.com/tablescape/foodweb/pkg/disclosure"
	"github.com/tablescape/foodweb/pkg/foodgraph"
	"github.com/tablescape/foodweb/pkg/layout"
)

func renderGraph() *foodgraph.Graph {
	ds := &foodgraph.Dataset{
		Nodes: []foodgraph.Node{
			{ID: "environment", Group: foodgraph.GroupFactor, Label: "Environment", Icon: "🌍"},
			{ID: "production", Group: foodgraph.GroupCoreFlow, Label: "Production"},
			{ID: "processing", Group: foodgraph.GroupCoreFlow, Label: "Processing", Color: "#123456"},
			{ID: "inputs", Group: foodgraph.GroupSubsystem, Label: "Inputs"},
		},
		Links: []foodgraph.Link{
			{SourceID: "environment", TargetID: "production", Type: foodgraph.LinkInfluence},
			{SourceID: "production", TargetID: "processing", Type: foodgraph.LinkFlow},
			{SourceID: "processing", TargetID: "production", Type: foodgraph.LinkFlow},
			{SourceID: "inputs", TargetID: "production", Type: foodgraph.LinkFlow},
			{SourceID: "inputs", TargetID: "ghost", Type: foodgraph.LinkFlow},
		},
	}
	return foodgraph.BuildGraph(ds)
}

func fullState() disclosure.State {
	s := disclosure.NewState()
	s.Phase = disclosure.Full
	return s
}

func TestSVGProjectsVisibility(t *testing.T) {
	g := renderGraph()
	eng := layout.New(layout.Frame{Width: 1000, Height: 700}, layout.DefaultSeed)
	eng.Journey(g)

	svg := string(SVG(g, fullState(), WithFrame(eng.Frame())))

	for _, id := range []string{"node-environment", "node-production", "node-processing", "node-inputs"} {
		if !strings.Contains(svg, id) {
			t.Errorf("missing %s", id)
		}
	}
	if !strings.Contains(svg, `fill="#123456"`) {
		t.Error("per-node color override not applied")
	}
	if !strings.Contains(svg, "🌍") {
		t.Error("icon glyph missing")
	}
	if strings.Contains(svg, "ghost") {
		t.Error("dangling link endpoint leaked into the SVG")
	}
}

func TestSVGCollapsedHidesAllButRoot(t *testing.T) {
	g := renderGraph()
	layout.New(layout.DefaultFrame(), layout.DefaultSeed).Journey(g)

	svg := string(SVG(g, disclosure.NewState()))

	if !strings.Contains(svg, "node-environment") {
		t.Error("root missing from collapsed view")
	}
	for _, id := range []string{"node-production", "node-processing", "node-inputs"} {
		if strings.Contains(svg, id) {
			t.Errorf("%s rendered while collapsed", id)
		}
	}
	if strings.Contains(svg, `<line class="link"`) {
		t.Error("no links should render while collapsed")
	}
}

func TestSVGFlowLinksMoreOpaque(t *testing.T) {
	g := renderGraph()
	layout.New(layout.DefaultFrame(), layout.DefaultSeed).Journey(g)

	svg := string(SVG(g, fullState()))

	if !strings.Contains(svg, `opacity="0.90"`) {
		t.Error("flow link opacity missing")
	}
	if !strings.Contains(svg, `opacity="0.45"`) {
		t.Error("non-flow link opacity missing")
	}
}

func TestSVGFocusDeduplicatesConnectors(t *testing.T) {
	g := renderGraph()
	eng := layout.New(layout.Frame{Width: 1000, Height: 700}, layout.DefaultSeed)
	eng.Journey(g)

	st := fullState()
	st.FocusID = "production"
	f, err := eng.Focus(g, "production", false)
	if err != nil {
		t.Fatal(err)
	}

	svg := string(SVG(g, st, WithFocus(f), WithFrame(eng.Frame())))

	// production↔processing has two opposite flow links; the focus view
	// must render a single connector for the pair.
	lines := strings.Count(svg, `<line class="link"`)
	if lines != len(f.Connectors) {
		t.Errorf("rendered %d connectors, want %d", lines, len(f.Connectors))
	}
	if len(f.Connectors) != 3 {
		t.Errorf("connectors = %d, want 3 (deduped)", len(f.Connectors))
	}
}

func TestSVGLegendAndInteraction(t *testing.T) {
	g := renderGraph()
	layout.New(layout.DefaultFrame(), layout.DefaultSeed).Journey(g)

	svg := string(SVG(g, fullState(), WithLegend(), WithInteraction()))

	if !strings.Contains(svg, `id="legend"`) {
		t.Error("legend missing")
	}
	if !strings.Contains(svg, "Math.min(5, Math.max(0.2") {
		t.Error("pan/zoom scale clamp missing")
	}

	plain := string(SVG(g, fullState()))
	if strings.Contains(plain, "<script") {
		t.Error("script embedded without WithInteraction")
	}
}

func TestSVGDimsByMode(t *testing.T) {
	g := renderGraph()
	layout.New(layout.DefaultFrame(), layout.DefaultSeed).Journey(g)

	st := fullState()
	st.Mode = disclosure.ModeRegen
	svg := string(SVG(g, st))

	// No node is regen-modified, so all render dimmed.
	if !strings.Contains(svg, `opacity="0.15"`) {
		t.Error("regen mode should dim unmodified nodes")
	}
}

func TestOverridePalette(t *testing.T) {
	orig := groupColors[foodgraph.GroupCoreFlow]
	defer func() { groupColors[foodgraph.GroupCoreFlow] = orig }()

	OverridePalette(map[string]string{
		foodgraph.GroupCoreFlow: "#004400",
		"plastics":              "#ff0000", // unknown groups ignored
		foodgraph.GroupFactor:   "",        // empty values ignored
	})

	n := &foodgraph.Node{ID: "production", Group: foodgraph.GroupCoreFlow}
	if got := NodeColor(n); got != "#004400" {
		t.Errorf("NodeColor = %q, want override", got)
	}
	if _, ok := groupColors["plastics"]; ok {
		t.Error("unknown group added to the palette")
	}
	if GroupColor(foodgraph.GroupFactor) == "" {
		t.Error("empty override must not clear a color")
	}
}

func TestToDOT(t *testing.T) {
	g := renderGraph()
	layout.New(layout.DefaultFrame(), layout.DefaultSeed).Journey(g)

	dot := ToDOT(g, fullState())

	if !strings.Contains(dot, `"production" -> "processing"`) {
		t.Error("flow edge missing from DOT")
	}
	if strings.Contains(dot, "ghost") {
		t.Error("dangling link leaked into DOT")
	}

	collapsed := ToDOT(g, disclosure.NewState())
	if strings.Contains(collapsed, "production") {
		t.Error("collapsed DOT must only carry the root")
	}
}
