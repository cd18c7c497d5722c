package render

import "github.com/tablescape/foodweb/pkg/foodgraph"

// =============================================================================
// Node Styling
// =============================================================================

// groupColors is the category palette. A node's own Color field, when
// set, overrides its category color.
var groupColors = map[string]string{
	foodgraph.GroupCoreFlow:      "#2e7d32",
	foodgraph.GroupSubsystem:     "#546e7a",
	foodgraph.GroupCommunity:     "#ef6c00",
	foodgraph.GroupPolicy:        "#1565c0",
	foodgraph.GroupHealth:        "#8e24aa",
	foodgraph.GroupEconomic:      "#f9a825",
	foodgraph.GroupFactor:        "#00838f",
	foodgraph.GroupMonitoring:    "#6d4c41",
	foodgraph.GroupUncategorized: "#9e9e9e",
}

// OverridePalette replaces category colors with the given values,
// keyed by group name. Unknown groups are ignored. Call once at
// startup, before any rendering.
func OverridePalette(colors map[string]string) {
	for group, color := range colors {
		if color == "" {
			continue
		}
		if _, ok := groupColors[group]; ok {
			groupColors[group] = color
		}
	}
}

// NodeColor returns the fill color for a node: its override if present,
// otherwise its category color.
func NodeColor(n *foodgraph.Node) string {
	if n.Color != "" {
		return n.Color
	}
	return groupColors[n.DisplayGroup()]
}

// GroupColor returns the palette color for a category.
func GroupColor(group string) string {
	if c, ok := groupColors[foodgraph.CanonicalGroup(group)]; ok {
		return c
	}
	return groupColors[foodgraph.GroupUncategorized]
}

// =============================================================================
// Link Styling
// =============================================================================

// LinkStyle is the per-type stroke treatment for a link.
type LinkStyle struct {
	Color  string
	Width  float64
	Dash   string // SVG dash pattern, empty for solid
	Marker string // arrowhead marker id, empty for none
}

var linkStyles = map[string]LinkStyle{
	foodgraph.LinkFlow:               {Color: "#2e7d32", Width: 2.5, Marker: "arrow-flow"},
	foodgraph.LinkInfluence:          {Color: "#00838f", Width: 1.5, Dash: "6 4", Marker: "arrow-influence"},
	foodgraph.LinkWaste:              {Color: "#6d4c41", Width: 1.8, Dash: "2 3", Marker: "arrow-waste"},
	foodgraph.LinkProblem:            {Color: "#c62828", Width: 1.8, Dash: "4 3", Marker: "arrow-problem"},
	foodgraph.LinkRecycle:            {Color: "#558b2f", Width: 1.8, Dash: "8 3 2 3", Marker: "arrow-recycle"},
	foodgraph.LinkHealthImpact:       {Color: "#8e24aa", Width: 1.5, Dash: "5 4"},
	foodgraph.LinkEconomicIncentive:  {Color: "#f9a825", Width: 1.5, Dash: "5 4"},
	foodgraph.LinkPolicyIntervention: {Color: "#1565c0", Width: 1.5, Dash: "5 4"},
	foodgraph.LinkMonitoring:         {Color: "#757575", Width: 1.2, Dash: "1 4"},
}

// defaultLinkStyle covers unrecognized link types, which pass validation
// and degrade to a plain gray stroke.
var defaultLinkStyle = LinkStyle{Color: "#9e9e9e", Width: 1.2}

// StyleFor returns the stroke styling for a link type.
func StyleFor(linkType string) LinkStyle {
	if s, ok := linkStyles[linkType]; ok {
		return s
	}
	return defaultLinkStyle
}

// markerStyles lists the arrowhead markers the SVG defs block declares.
func markerStyles() []struct{ ID, Color string } {
	return []struct{ ID, Color string }{
		{"arrow-flow", linkStyles[foodgraph.LinkFlow].Color},
		{"arrow-influence", linkStyles[foodgraph.LinkInfluence].Color},
		{"arrow-waste", linkStyles[foodgraph.LinkWaste].Color},
		{"arrow-problem", linkStyles[foodgraph.LinkProblem].Color},
		{"arrow-recycle", linkStyles[foodgraph.LinkRecycle].Color},
	}
}
