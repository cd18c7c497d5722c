// Package disclosure governs which nodes and links are visible.
//
// The graph is revealed progressively: from a single collapsed root
// through six named journey stages to the full picture, or focused on a
// single selected node in the mind-map view. The state machine is pure:
// [Transition] maps a state and an event to the next state plus a list of
// effect commands, and owns no rendering. Controllers (the TUI, the HTTP
// server) execute the effects; the render layer projects the state.
//
// Visibility is the AND of three independent rules:
//   - the disclosure phase (collapsed / stage / full / focused)
//   - per-category checkboxes
//   - the non-core toggle
//
// A node renders only when every rule admits it; a link renders only when
// both of its endpoints do.
package disclosure
