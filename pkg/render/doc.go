// Package render projects graph state onto output formats.
//
// The render layer owns no state: it reads node positions from the graph,
// visibility and styling from the disclosure state, and draws. Two sinks
// exist:
//
//   - SVG: circles, glyphs, labels, typed links with per-type stroke
//     styling and arrowhead markers, a category legend, and embedded
//     CSS/JS for hover highlighting and clamped pan/zoom.
//
//   - DOT: a Graphviz export of the visible subgraph for static overview
//     rendering, convertible to SVG through goccy/go-graphviz.
package render
