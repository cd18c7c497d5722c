package disclosure

import (
	"github.com/tablescape/foodweb/pkg/foodgraph"
	"github.com/tablescape/foodweb/pkg/layout"
)

// Link opacity by visibility and type. Flow links render more opaquely
// than the other types.
const (
	OpacityHidden   = 0.0
	OpacityFlowLink = 0.9
	OpacityLink     = 0.45
	OpacityDimmed   = 0.15
)

// VisibleNodes computes the authoritative visible-node set for the
// current state: the disclosure phase set, intersected with the category
// checkboxes and the non-core toggle. Render layers must query this, not
// re-derive visibility from what happens to be drawn.
func (s State) VisibleNodes(g *foodgraph.Graph) map[string]struct{} {
	base := s.phaseSet(g)

	visible := make(map[string]struct{}, len(base))
	for id := range base {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		if !s.admits(n) {
			continue
		}
		visible[id] = struct{}{}
	}
	return visible
}

// admits applies the category AND non-core rules to one node.
func (s State) admits(n *foodgraph.Node) bool {
	group := n.DisplayGroup()
	if !s.Categories[group] {
		return false
	}
	if !s.ShowNonCore && group != foodgraph.GroupCoreFlow {
		return false
	}
	return true
}

// phaseSet returns the node set admitted by the disclosure phase alone.
func (s State) phaseSet(g *foodgraph.Graph) map[string]struct{} {
	if s.Focused() {
		return s.focusSet(g)
	}

	switch {
	case s.Phase == Collapsed:
		set := make(map[string]struct{}, 1)
		if _, ok := g.Node(foodgraph.EnvironmentID); ok {
			set[foodgraph.EnvironmentID] = struct{}{}
		}
		return set

	case s.Phase == Full:
		set := make(map[string]struct{}, len(g.Nodes))
		for _, n := range g.Nodes {
			set[n.ID] = struct{}{}
		}
		return set

	default:
		// Stage visible set = fixed core list ∪ one-hop neighbors.
		return g.Expand(StageCore(s.Phase.Stage()))
	}
}

// focusSet is the focus node plus its qualifying one-hop neighbors.
func (s State) focusSet(g *foodgraph.Graph) map[string]struct{} {
	set := make(map[string]struct{})
	if _, ok := g.Node(s.FocusID); !ok {
		return set
	}
	set[s.FocusID] = struct{}{}
	for _, n := range g.Neighbors(s.FocusID, s.FocusLinkTypes()...) {
		set[n.ID] = struct{}{}
	}
	return set
}

// FocusLinkTypes returns the link types the focus view traverses under
// the current mode: flow/influence/waste, plus problem in negative mode.
func (s State) FocusLinkTypes() []string {
	types := layout.FocusLinkTypes
	if s.Mode == ModeNegative {
		types = append(append([]string{}, types...), foodgraph.LinkProblem)
	}
	return types
}

// VisibleLinks returns the links whose endpoints are both visible, in
// graph order. Dropped links were never indexed, so they cannot appear.
func (s State) VisibleLinks(g *foodgraph.Graph) []*foodgraph.Link {
	nodes := s.VisibleNodes(g)
	var out []*foodgraph.Link
	for _, l := range g.Links {
		if _, ok := nodes[l.SourceID]; !ok {
			continue
		}
		if _, ok := nodes[l.TargetID]; !ok {
			continue
		}
		out = append(out, l)
	}
	return out
}

// LinkOpacity returns the render opacity for a visible link.
func LinkOpacity(linkType string) float64 {
	if linkType == foodgraph.LinkFlow {
		return OpacityFlowLink
	}
	return OpacityLink
}

// Dimmed reports whether a node should render dimmed under the current
// view mode: regen mode dims nodes without a regenerative variant,
// negative mode dims everything not touched by a problem link.
func (s State) Dimmed(g *foodgraph.Graph, n *foodgraph.Node) bool {
	switch s.Mode {
	case ModeRegen:
		return !n.RegenModified
	case ModeNegative:
		return len(g.LinksOf(n.ID, foodgraph.LinkProblem)) == 0
	}
	return false
}
