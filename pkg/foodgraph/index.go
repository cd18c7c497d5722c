package foodgraph

import (
	"cmp"
	"slices"
)

// =============================================================================
// Graph - Indexed Dataset
// =============================================================================

// Graph is the indexed, queryable form of a Dataset. Nodes and links are
// created once here and never created or destroyed afterwards; only their
// transient visual attributes mutate during a session.
type Graph struct {
	// Nodes in dataset order, one entry per id. When the dataset carries
	// a duplicate id, the last occurrence silently wins.
	Nodes []*Node

	// Links whose endpoints both resolved. Order follows the dataset.
	Links []*Link

	// Dropped counts links excluded for an unresolvable endpoint.
	Dropped int

	byID map[string]*Node
}

// BuildGraph indexes a dataset in one pass: id→node map, then link
// endpoint resolution. Links with a missing endpoint are dropped from the
// renderable set and never traversed by neighbor queries.
func BuildGraph(ds *Dataset) *Graph {
	g := &Graph{byID: make(map[string]*Node, len(ds.Nodes))}

	pos := make(map[string]int, len(ds.Nodes))
	for i := range ds.Nodes {
		n := ds.Nodes[i]
		if at, seen := pos[n.ID]; seen {
			// Last one wins, keeping the original slot.
			*g.Nodes[at] = n
			continue
		}
		node := &Node{}
		*node = n
		pos[n.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, node)
		g.byID[n.ID] = node
	}

	for i := range ds.Links {
		l := ds.Links[i]
		src, okS := g.byID[l.SourceID]
		dst, okD := g.byID[l.TargetID]
		if !okS || !okD {
			g.Dropped++
			continue
		}
		link := &Link{}
		*link = l
		link.Source, link.Target = src, dst
		g.Links = append(g.Links, link)
	}

	return g
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// IDs returns all node ids in graph order.
func (g *Graph) IDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// =============================================================================
// Neighbor Queries
// =============================================================================

// Neighbors returns the one-hop neighbors of id, in link order, without
// duplicates. When types are given, only links of those types are
// traversed. Dropped links never contribute neighbors.
func (g *Graph) Neighbors(id string, types ...string) []*Node {
	want := typeSet(types)

	var out []*Node
	seen := make(map[string]struct{})
	for _, l := range g.Links {
		if !l.Touches(id) {
			continue
		}
		if want != nil {
			if _, ok := want[l.Type]; !ok {
				continue
			}
		}
		other := l.Other(id)
		if other == nil || other.ID == id {
			continue
		}
		if _, dup := seen[other.ID]; dup {
			continue
		}
		seen[other.ID] = struct{}{}
		out = append(out, other)
	}
	return out
}

// LinksOf returns the resolved links touching id, optionally filtered by type.
func (g *Graph) LinksOf(id string, types ...string) []*Link {
	want := typeSet(types)

	var out []*Link
	for _, l := range g.Links {
		if !l.Touches(id) {
			continue
		}
		if want != nil {
			if _, ok := want[l.Type]; !ok {
				continue
			}
		}
		out = append(out, l)
	}
	return out
}

// Expand returns ids ∪ every node one hop away from ids, as a set.
// This is the stage-visibility rule: a journey stage shows its core list
// plus everything directly connected to it.
func (g *Graph) Expand(ids []string) map[string]struct{} {
	visible := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := g.byID[id]; !ok {
			continue
		}
		visible[id] = struct{}{}
		for _, n := range g.Neighbors(id) {
			visible[n.ID] = struct{}{}
		}
	}
	return visible
}

// =============================================================================
// Focus Connectors
// =============================================================================

// Connector is one rendered line in the focus view. Endpoints are ordered
// so A.ID <= B.ID, making the (A, B, Type) triple a dedup key: two
// opposite-direction links of the same type between the same pair render
// as a single connector.
type Connector struct {
	A, B *Node
	Type string
	Link *Link // first link encountered for this key
}

// Connectors returns the deduplicated connectors touching focusID,
// restricted to the given link types. Order is deterministic: sorted by
// (A.ID, B.ID, Type).
func (g *Graph) Connectors(focusID string, types ...string) []Connector {
	want := typeSet(types)

	type key struct {
		a, b, typ string
	}
	seen := make(map[key]struct{})
	var out []Connector

	for _, l := range g.Links {
		if !l.Touches(focusID) {
			continue
		}
		if want != nil {
			if _, ok := want[l.Type]; !ok {
				continue
			}
		}
		a, b := l.Source, l.Target
		if a.ID > b.ID {
			a, b = b, a
		}
		k := key{a.ID, b.ID, l.Type}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, Connector{A: a, B: b, Type: l.Type, Link: l})
	}

	slices.SortFunc(out, func(x, y Connector) int {
		if c := cmp.Compare(x.A.ID, y.A.ID); c != 0 {
			return c
		}
		if c := cmp.Compare(x.B.ID, y.B.ID); c != 0 {
			return c
		}
		return cmp.Compare(x.Type, y.Type)
	})
	return out
}

func typeSet(types []string) map[string]struct{} {
	if len(types) == 0 {
		return nil
	}
	m := make(map[string]struct{}, len(types))
	for _, t := range types {
		m[t] = struct{}{}
	}
	return m
}
