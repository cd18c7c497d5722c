package layout

import (
	"math"

	"github.com/tablescape/foodweb/pkg/errors"
	"github.com/tablescape/foodweb/pkg/foodgraph"
)

const (
	// columnGap is the horizontal distance from the focus node to each
	// neighbor column.
	columnGap = 280.0

	// rowSpacing is the vertical distance between stacked neighbors.
	rowSpacing = 95.0

	// leafRadius is the distance from a neighbor to its example leaves.
	leafRadius = 110.0
)

// FocusLinkTypes are the link types traversed by the focus view.
// Problem links join in when negative view mode is active.
var FocusLinkTypes = []string{
	foodgraph.LinkFlow,
	foodgraph.LinkInfluence,
	foodgraph.LinkWaste,
}

// Leaf is a synthetic label node spawned from a link's examples list.
// Leaves exist only in the focus layout; they are not graph nodes.
type Leaf struct {
	Label  string
	X, Y   float64
	Parent *foodgraph.Node

	// Straight selects a straight connector instead of a curved one.
	// Set only for the exact middle leaf of three.
	Straight bool
}

// FocusLayout is the computed mind-map view around one selected node.
type FocusLayout struct {
	Focus      *foodgraph.Node
	Left       []*foodgraph.Node // factor-group neighbors
	Right      []*foodgraph.Node // everything else
	Connectors []foodgraph.Connector
	Leaves     []Leaf
}

// Visible reports whether id participates in the focus view.
func (f *FocusLayout) Visible(id string) bool {
	if f.Focus.ID == id {
		return true
	}
	for _, n := range f.Left {
		if n.ID == id {
			return true
		}
	}
	for _, n := range f.Right {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Focus computes the mind-map layout centered on focusID.
// The focus node and all its neighbors are pinned in place; they stay
// put through any journey recompute triggered by a resize. A node with
// zero qualifying neighbors yields a layout of just the pinned focus.
func (e *Engine) Focus(g *foodgraph.Graph, focusID string, negative bool) (*FocusLayout, error) {
	focus, ok := g.Node(focusID)
	if !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "unknown node %q", focusID)
	}

	types := FocusLinkTypes
	if negative {
		types = append(append([]string{}, FocusLinkTypes...), foodgraph.LinkProblem)
	}

	cx, cy := e.Center()
	focus.Pin(cx, cy)

	out := &FocusLayout{Focus: focus}
	out.Connectors = g.Connectors(focusID, types...)

	seen := map[string]struct{}{focusID: {}}
	for _, c := range out.Connectors {
		n := c.A
		if n.ID == focusID {
			n = c.B
		}
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		if n.DisplayGroup() == foodgraph.GroupFactor {
			out.Left = append(out.Left, n)
		} else {
			out.Right = append(out.Right, n)
		}
	}

	stack(out.Left, cx-columnGap, cy)
	stack(out.Right, cx+columnGap, cy)

	out.Leaves = e.spawnLeaves(out, focusID)
	return out, nil
}

// stack pins nodes in a vertical column centered on cy.
func stack(nodes []*foodgraph.Node, x, cy float64) {
	if len(nodes) == 0 {
		return
	}
	start := cy - rowSpacing*float64(len(nodes)-1)/2
	for i, n := range nodes {
		n.Pin(x, start+rowSpacing*float64(i))
	}
}

// spawnLeaves arranges each connector's examples on a small arc around
// the neighbor, on the side facing away from the focus node.
func (e *Engine) spawnLeaves(f *FocusLayout, focusID string) []Leaf {
	var leaves []Leaf
	for _, c := range f.Connectors {
		if len(c.Link.Examples) == 0 {
			continue
		}
		parent := c.A
		if parent.ID == focusID {
			parent = c.B
		}
		if parent.ID == focusID {
			// Self-link: no sensible leaf anchor.
			continue
		}

		outward := 1.0
		if parent.X < f.Focus.X {
			outward = -1.0
		}

		n := len(c.Link.Examples)
		for i, label := range c.Link.Examples {
			t := 0.5
			if n > 1 {
				t = float64(i) / float64(n-1)
			}
			angle := (t - 0.5) * math.Pi / 2.5
			leaves = append(leaves, Leaf{
				Label:    label,
				Parent:   parent,
				X:        parent.X + outward*leafRadius*math.Cos(angle),
				Y:        parent.Y + leafRadius*math.Sin(angle),
				Straight: n == 3 && i == 1,
			})
		}
	}
	return leaves
}
