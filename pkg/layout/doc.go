// Package layout assigns 2D positions to food-system nodes.
//
// Two strategies exist, selected by the disclosure state:
//
//   - Journey: the default left-to-right pipeline layout. Pipeline stages
//     sit on the horizontal axis in fixed order, auxiliary nodes are offset
//     above/below their anchor stage, factor nodes spread along an arc
//     above the axis, and anything unmatched gets seeded-random placement
//     inside the frame margins.
//
//   - Focus: the mind-map layout around a selected node. The focus node is
//     pinned at frame center, one-hop neighbors stack in a left column
//     (factor group) and a right column (everything else), and per-link
//     examples become leaf labels on a small arc around their neighbor.
//
// Coordinates are owned here and by pkg/disclosure; the render layer only
// reads them. Pinned nodes (Node.FX/FY set) are never moved by a journey
// recompute, which is what keeps a focused node in place across resizes.
package layout
