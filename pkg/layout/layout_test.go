package layout

import (
	"testing"

	"github.com/tablescape/foodweb/pkg/foodgraph"
)

func journeyDataset() *foodgraph.Dataset {
	return &foodgraph.Dataset{
		Nodes: []foodgraph.Node{
			{ID: "environment", Group: foodgraph.GroupFactor, Label: "Environment"},
			{ID: "production", Group: foodgraph.GroupCoreFlow, Label: "Production"},
			{ID: "processing", Group: foodgraph.GroupCoreFlow, Label: "Processing"},
			{ID: "consumption", Group: foodgraph.GroupCoreFlow, Label: "Consumption"},
			{ID: "inputs", Group: foodgraph.GroupSubsystem, Label: "Inputs"},
			{ID: "climate", Group: foodgraph.GroupFactor, Label: "Climate"},
			{ID: "labour", Group: foodgraph.GroupFactor, Label: "Labour"},
			{ID: "stray", Group: foodgraph.GroupCommunity, Label: "Stray"},
		},
		Links: []foodgraph.Link{
			{SourceID: "environment", TargetID: "production", Type: foodgraph.LinkInfluence},
			{SourceID: "inputs", TargetID: "production", Type: foodgraph.LinkFlow, Examples: []string{"seed", "feed", "fuel"}},
			{SourceID: "production", TargetID: "processing", Type: foodgraph.LinkFlow},
			{SourceID: "processing", TargetID: "consumption", Type: foodgraph.LinkFlow},
			{SourceID: "climate", TargetID: "production", Type: foodgraph.LinkInfluence},
		},
	}
}

func TestJourneyLayout(t *testing.T) {
	g := foodgraph.BuildGraph(journeyDataset())
	e := New(Frame{Width: 1200, Height: 800}, DefaultSeed)
	e.Journey(g)

	env, _ := g.Node("environment")
	prod, _ := g.Node("production")
	proc, _ := g.Node("processing")
	cons, _ := g.Node("consumption")

	// Pipeline order is left to right on the mid-height axis.
	if !(env.X < prod.X && prod.X < proc.X && proc.X < cons.X) {
		t.Errorf("pipeline not ordered: %v %v %v %v", env.X, prod.X, proc.X, cons.X)
	}
	for _, n := range []*foodgraph.Node{env, prod, proc, cons} {
		if n.Y != 400 {
			t.Errorf("%s off axis: y = %v", n.ID, n.Y)
		}
	}

	// Auxiliary node hangs above its anchor.
	inputs, _ := g.Node("inputs")
	if inputs.X != prod.X || inputs.Y >= prod.Y {
		t.Errorf("inputs at %v,%v; want above production %v,%v", inputs.X, inputs.Y, prod.X, prod.Y)
	}

	// Factor nodes sit above the axis.
	for _, id := range []string{"climate", "labour"} {
		n, _ := g.Node(id)
		if n.Y >= 400 {
			t.Errorf("factor %s below axis: y = %v", id, n.Y)
		}
	}

	// Unmatched nodes land inside the margin region.
	stray, _ := g.Node("stray")
	if stray.X < axisMargin || stray.X > 1200-axisMargin || stray.Y < axisMargin || stray.Y > 800-axisMargin {
		t.Errorf("stray out of bounds: %v,%v", stray.X, stray.Y)
	}
}

func TestJourneyDeterministic(t *testing.T) {
	g1 := foodgraph.BuildGraph(journeyDataset())
	g2 := foodgraph.BuildGraph(journeyDataset())
	e := New(Frame{Width: 1200, Height: 800}, 7)
	e.Journey(g1)
	e.Journey(g2)

	for i := range g1.Nodes {
		a, b := g1.Nodes[i], g2.Nodes[i]
		if a.X != b.X || a.Y != b.Y {
			t.Errorf("%s: %v,%v vs %v,%v", a.ID, a.X, a.Y, b.X, b.Y)
		}
	}
}

func TestJourneyPreservesPins(t *testing.T) {
	g := foodgraph.BuildGraph(journeyDataset())
	e := New(Frame{Width: 1200, Height: 800}, DefaultSeed)
	e.Journey(g)

	prod, _ := g.Node("production")
	prod.Pin(55, 66)

	// Resize then recompute: the pinned node must not move or un-pin.
	e.Resize(Frame{Width: 900, Height: 600})
	e.Journey(g)

	if !prod.Pinned() {
		t.Fatal("recompute un-pinned the node")
	}
	if prod.X != 55 || prod.Y != 66 {
		t.Errorf("pinned node moved to %v,%v", prod.X, prod.Y)
	}
}

func TestFocusLayout(t *testing.T) {
	g := foodgraph.BuildGraph(journeyDataset())
	e := New(Frame{Width: 1200, Height: 800}, DefaultSeed)
	e.Journey(g)

	f, err := e.Focus(g, "production", false)
	if err != nil {
		t.Fatalf("Focus error: %v", err)
	}

	// Focus pinned at frame center.
	if !f.Focus.Pinned() || f.Focus.X != 600 || f.Focus.Y != 400 {
		t.Errorf("focus at %v,%v pinned=%v", f.Focus.X, f.Focus.Y, f.Focus.Pinned())
	}

	// Factors left, others right, all pinned.
	for _, n := range f.Left {
		if n.DisplayGroup() != foodgraph.GroupFactor {
			t.Errorf("left column has non-factor %s", n.ID)
		}
		if !n.Pinned() || n.X >= 600 {
			t.Errorf("left neighbor %s at x=%v pinned=%v", n.ID, n.X, n.Pinned())
		}
	}
	for _, n := range f.Right {
		if n.DisplayGroup() == foodgraph.GroupFactor {
			t.Errorf("right column has factor %s", n.ID)
		}
		if !n.Pinned() || n.X <= 600 {
			t.Errorf("right neighbor %s at x=%v pinned=%v", n.ID, n.X, n.Pinned())
		}
	}

	if len(f.Left) != 2 { // environment, climate
		t.Errorf("left = %d, want 2", len(f.Left))
	}
	if len(f.Right) != 2 { // inputs, processing
		t.Errorf("right = %d, want 2", len(f.Right))
	}

	// Three examples on the inputs link: exactly the middle one straight.
	var straight, curved int
	for _, leaf := range f.Leaves {
		if leaf.Parent == nil {
			t.Fatal("leaf without parent")
		}
		if leaf.Straight {
			straight++
		} else {
			curved++
		}
	}
	if straight != 1 || curved != 2 {
		t.Errorf("leaves straight=%d curved=%d, want 1 straight of 3", straight, curved)
	}
}

func TestFocusUnknownNode(t *testing.T) {
	g := foodgraph.BuildGraph(journeyDataset())
	e := New(DefaultFrame(), DefaultSeed)
	if _, err := e.Focus(g, "ghost", false); err == nil {
		t.Fatal("expected error for unknown focus id")
	}
}

func TestFocusNoNeighbors(t *testing.T) {
	// A root-only dataset: clicking the single node must not panic and
	// must still pin it at center.
	ds := &foodgraph.Dataset{
		Nodes: []foodgraph.Node{
			{ID: "environment", Group: foodgraph.GroupFactor, Label: "Environment"},
		},
		Links: []foodgraph.Link{
			{SourceID: "environment", TargetID: "ghost", Type: foodgraph.LinkFlow},
		},
	}
	g := foodgraph.BuildGraph(ds)
	e := New(DefaultFrame(), DefaultSeed)

	f, err := e.Focus(g, "environment", false)
	if err != nil {
		t.Fatalf("Focus error: %v", err)
	}
	if len(f.Left)+len(f.Right) != 0 || len(f.Connectors) != 0 {
		t.Errorf("expected empty focus view, got %d/%d neighbors", len(f.Left), len(f.Right))
	}
	if !f.Focus.Pinned() {
		t.Error("focus node should be pinned")
	}
}

func TestFocusNegativeMode(t *testing.T) {
	ds := journeyDataset()
	ds.Links = append(ds.Links, foodgraph.Link{
		SourceID: "production", TargetID: "stray", Type: foodgraph.LinkProblem,
	})
	g := foodgraph.BuildGraph(ds)
	e := New(DefaultFrame(), DefaultSeed)

	def, err := e.Focus(g, "production", false)
	if err != nil {
		t.Fatal(err)
	}
	if def.Visible("stray") {
		t.Error("problem link should not join the default focus view")
	}

	neg, err := e.Focus(g, "production", true)
	if err != nil {
		t.Fatal(err)
	}
	if !neg.Visible("stray") {
		t.Error("problem link should join the negative focus view")
	}
}

func TestReleaseAll(t *testing.T) {
	g := foodgraph.BuildGraph(journeyDataset())
	for _, n := range g.Nodes {
		n.Pin(1, 2)
	}

	ReleaseAll(g, "production")

	for _, n := range g.Nodes {
		if n.ID == "production" {
			if !n.Pinned() {
				t.Error("kept node was released")
			}
			continue
		}
		if n.Pinned() {
			t.Errorf("%s still pinned", n.ID)
		}
	}
}
