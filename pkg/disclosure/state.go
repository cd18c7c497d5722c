package disclosure

import (
	"fmt"

	"github.com/tablescape/foodweb/pkg/foodgraph"
)

// =============================================================================
// Phase, Mode
// =============================================================================

// Phase is the journey disclosure phase. Focus is tracked separately in
// State.FocusID so the base phase survives entering and leaving focus.
type Phase int

const (
	Collapsed Phase = iota // only the root environment node
	Stage1
	Stage2
	Stage3
	Stage4
	Stage5
	Stage6
	Full // all nodes, journey layout
)

// String returns a short name for the phase.
func (p Phase) String() string {
	switch {
	case p == Collapsed:
		return "collapsed"
	case p == Full:
		return "full"
	case p >= Stage1 && p <= Stage6:
		return fmt.Sprintf("stage%d", int(p))
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Stage returns the 1-based journey stage, or 0 when not mid-journey.
func (p Phase) Stage() int {
	if p >= Stage1 && p <= Stage6 {
		return int(p)
	}
	return 0
}

// Mode is the view mode. Modes recolor and dim; they never change which
// disclosure phase is active.
type Mode string

const (
	ModeDefault  Mode = "default"
	ModeRegen    Mode = "regen"
	ModeNegative Mode = "negative"
)

// ValidMode reports whether m is a recognized view mode.
func ValidMode(m Mode) bool {
	switch m {
	case ModeDefault, ModeRegen, ModeNegative:
		return true
	}
	return false
}

// =============================================================================
// State
// =============================================================================

// State is the explicit UI-state object: created at initialization,
// reset on dataset reload, owned by the interaction controller. It
// replaces what the original kept in ambient globals.
type State struct {
	Phase   Phase
	FocusID string // non-empty while the mind-map view is active
	Mode    Mode

	// Categories maps each recognized group (plus "uncategorized") to
	// its checkbox. A node renders only when in-phase AND its category
	// is enabled AND the non-core rule admits it.
	Categories map[string]bool

	// ShowNonCore is the global non-core-node toggle. When false, every
	// node outside the core_flow group is hidden.
	ShowNonCore bool

	// RegenFocus is the global regenerative-focus toggle. It only
	// restyles (highlighting isRegenModified nodes); visibility is
	// untouched.
	RegenFocus bool

	// DragPin holds the focused node's drag-released position so the
	// pin survives a layout replay. Cleared whenever focus changes or
	// ends.
	DragPin DragPin
}

// DragPin is a held drag position for the focused node. Active is false
// when no pin is held.
type DragPin struct {
	Active bool
	X, Y   float64
}

// NewState returns the initial state: collapsed, default mode, every
// category enabled.
func NewState() State {
	cats := make(map[string]bool, len(foodgraph.Groups)+1)
	for _, g := range foodgraph.Groups {
		cats[g] = true
	}
	cats[foodgraph.GroupUncategorized] = true
	return State{
		Phase:       Collapsed,
		Mode:        ModeDefault,
		Categories:  cats,
		ShowNonCore: true,
	}
}

// Focused reports whether the mind-map view is active.
func (s State) Focused() bool { return s.FocusID != "" }

// TriState is the derived state of the "toggle all categories" checkbox.
type TriState int

const (
	Unchecked TriState = iota
	Indeterminate
	Checked
)

// AllCategories derives the tri-state of the toggle-all checkbox from
// the per-category checkboxes.
func (s State) AllCategories() TriState {
	on, off := 0, 0
	for _, enabled := range s.Categories {
		if enabled {
			on++
		} else {
			off++
		}
	}
	switch {
	case off == 0:
		return Checked
	case on == 0:
		return Unchecked
	default:
		return Indeterminate
	}
}

// =============================================================================
// Events
// =============================================================================

// Event is an interaction fed to Transition.
type Event interface{ isEvent() }

// ClickNode selects a node: entering focus, or advancing the journey when
// the collapsed environment root is clicked.
type ClickNode struct{ ID string }

// ClickBackground clears any selection and reverts to the base phase.
type ClickBackground struct{}

// Continue advances the journey one stage, wrapping from Full back to
// Collapsed.
type Continue struct{}

// ToggleCategory flips one category checkbox.
type ToggleCategory struct{ Group string }

// SetAllCategories sets every category checkbox at once.
type SetAllCategories struct{ On bool }

// SetMode switches the view mode.
type SetMode struct{ Mode Mode }

// SetNonCore sets the global non-core-node toggle.
type SetNonCore struct{ Show bool }

// SetRegenFocus sets the global regenerative-focus toggle.
type SetRegenFocus struct{ On bool }

// Resize reports a viewport size change.
type Resize struct{ Width, Height float64 }

// DragEnd reports a node drag released at (X, Y). The pin survives only
// when the dragged node is the currently focused one.
type DragEnd struct {
	ID   string
	X, Y float64
}

func (ClickNode) isEvent()        {}
func (ClickBackground) isEvent()  {}
func (Continue) isEvent()         {}
func (ToggleCategory) isEvent()   {}
func (SetAllCategories) isEvent() {}
func (SetMode) isEvent()          {}
func (SetNonCore) isEvent()       {}
func (SetRegenFocus) isEvent()    {}
func (Resize) isEvent()           {}
func (DragEnd) isEvent()          {}

// =============================================================================
// Effects
// =============================================================================

// Effect is a visual-effect command for the controller to execute.
// Keeping transitions pure and effects explicit keeps the state logic
// testable apart from animation and rendering.
type Effect int

const (
	EffectRecomputeJourney Effect = iota // re-run the journey layout
	EffectRecomputeFocus                 // re-run the focus layout
	EffectAnimateVisibility              // fade nodes/links to current visibility
	EffectRestyle                        // recolor/dim for the view mode
	EffectUpdateDetail                   // refresh the detail panel
	EffectClearSelection                 // drop selection highlight
	EffectRestartIdlePulse               // restart the idle link animation
	EffectReleasePin                     // unpin the drag-released node
)

// =============================================================================
// Transition
// =============================================================================

// Transition applies an event and returns the next state with the visual
// effects the controller should run. It never mutates s.
func Transition(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case Continue:
		return advance(s)

	case ClickNode:
		// Clicking the environment root before any expansion starts the
		// journey; otherwise any click focuses the node.
		if ev.ID == foodgraph.EnvironmentID && s.Phase == Collapsed && !s.Focused() {
			return advance(s)
		}
		if ev.ID != s.FocusID {
			s.DragPin = DragPin{}
		}
		s.FocusID = ev.ID
		return s, []Effect{EffectRecomputeFocus, EffectUpdateDetail, EffectAnimateVisibility}

	case ClickBackground:
		if !s.Focused() {
			return s, []Effect{EffectRestartIdlePulse}
		}
		s.FocusID = ""
		s.DragPin = DragPin{}
		return s, []Effect{
			EffectClearSelection,
			EffectRecomputeJourney,
			EffectAnimateVisibility,
			EffectRestartIdlePulse,
		}

	case ToggleCategory:
		s.Categories = cloneCategories(s.Categories)
		s.Categories[ev.Group] = !s.Categories[ev.Group]
		return s, []Effect{EffectAnimateVisibility}

	case SetAllCategories:
		s.Categories = cloneCategories(s.Categories)
		for g := range s.Categories {
			s.Categories[g] = ev.On
		}
		return s, []Effect{EffectAnimateVisibility}

	case SetMode:
		if !ValidMode(ev.Mode) {
			return s, nil
		}
		s.Mode = ev.Mode
		effects := []Effect{EffectRestyle}
		if s.Focused() {
			// Negative mode changes which links join the focus view.
			effects = append(effects, EffectRecomputeFocus)
		}
		return s, effects

	case SetNonCore:
		s.ShowNonCore = ev.Show
		return s, []Effect{EffectAnimateVisibility}

	case SetRegenFocus:
		s.RegenFocus = ev.On
		return s, []Effect{EffectRestyle}

	case Resize:
		// Journey recompute preserves pins, so a resize mid-focus keeps
		// the focused node and its pinned neighbors in place.
		return s, []Effect{EffectRecomputeJourney}

	case DragEnd:
		if s.Focused() && ev.ID == s.FocusID {
			s.DragPin = DragPin{Active: true, X: ev.X, Y: ev.Y}
			return s, nil
		}
		return s, []Effect{EffectReleasePin}
	}
	return s, nil
}

// advance moves the journey forward one step, wrapping Full → Collapsed.
// Entering a journey phase always leaves focus.
func advance(s State) (State, []Effect) {
	s.FocusID = ""
	s.DragPin = DragPin{}
	if s.Phase == Full {
		s.Phase = Collapsed
	} else {
		s.Phase++
	}
	return s, []Effect{EffectRecomputeJourney, EffectAnimateVisibility}
}

func cloneCategories(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
