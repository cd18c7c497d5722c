package layout

import (
	"math"

	"github.com/tablescape/foodweb/pkg/foodgraph"
)

// PipelineOrder is the fixed left-to-right sequence of pipeline stages
// along the journey axis.
var PipelineOrder = []string{
	"environment",
	"production",
	"packhouses",
	"processing",
	"distribution",
	"wholesalers",
	"supermarkets_grocers",
	"consumption",
}

// auxAnchor places an auxiliary node relative to a pipeline stage.
type auxAnchor struct {
	anchor string
	dx, dy float64
}

// auxAnchors offsets the known auxiliary nodes above/below the axis.
var auxAnchors = map[string]auxAnchor{
	"inputs":                {anchor: "production", dy: -auxOffsetY},
	"imports":               {anchor: "distribution", dy: -auxOffsetY},
	"exports":               {anchor: "packhouses", dy: -auxOffsetY},
	"supporting_industries": {anchor: "processing", dy: auxOffsetY},
	"waste_collection":      {anchor: "consumption", dx: -40, dy: auxOffsetY},
	"waste_processing":      {anchor: "consumption", dx: 60, dy: auxOffsetY + 40},
	"organics_recycling":    {anchor: "processing", dx: -30, dy: auxOffsetY + 60},
}

// Journey computes the default stage-axis layout:
// pipeline stages evenly spaced on the mid-height axis, auxiliary nodes
// offset from their anchor, factor nodes on an arc above the axis, and
// seeded-random placement for everything unmatched. Nodes holding a
// pinned position are left where they are.
func (e *Engine) Journey(g *foodgraph.Graph) {
	w, h := e.frame.Width, e.frame.Height
	axisY := h / 2

	placed := make(map[string]struct{}, len(g.Nodes))
	place := func(n *foodgraph.Node, x, y float64) {
		placed[n.ID] = struct{}{}
		if n.Pinned() {
			return
		}
		n.X, n.Y = x, y
	}

	// Pipeline stages present in the graph, keeping the fixed order.
	var stages []*foodgraph.Node
	for _, id := range PipelineOrder {
		if n, ok := g.Node(id); ok {
			stages = append(stages, n)
		}
	}
	span := w - 2*axisMargin
	for i, n := range stages {
		x := axisMargin
		if len(stages) > 1 {
			x += span * float64(i) / float64(len(stages)-1)
		}
		place(n, x, axisY)
	}

	// Auxiliary nodes hang off their anchor stage.
	for id, aux := range auxAnchors {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		anchor, ok := g.Node(aux.anchor)
		if !ok {
			continue
		}
		place(n, anchor.X+aux.dx, anchor.Y+aux.dy)
	}

	// Factor nodes spread along an arc above the axis.
	var factors []*foodgraph.Node
	for _, n := range g.Nodes {
		if _, done := placed[n.ID]; done {
			continue
		}
		if n.DisplayGroup() == foodgraph.GroupFactor {
			factors = append(factors, n)
		}
	}
	cx := w / 2
	cy := axisY - arcLift
	radius := math.Min(w, h) * 0.38
	for i, n := range factors {
		t := 0.5
		if len(factors) > 1 {
			t = float64(i) / float64(len(factors)-1)
		}
		angle := math.Pi * (0.15 + 0.7*t)
		place(n, cx+radius*math.Cos(math.Pi-angle), cy-radius*math.Sin(angle))
	}

	// Everything else: bounded random placement, seeded for determinism.
	rng := e.rng()
	for _, n := range g.Nodes {
		if _, done := placed[n.ID]; done {
			continue
		}
		x := axisMargin + rng.Float64()*(w-2*axisMargin)
		y := axisMargin + rng.Float64()*(h-2*axisMargin)
		place(n, x, y)
	}
}
