package layout

import (
	"math/rand"

	"github.com/tablescape/foodweb/pkg/foodgraph"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 1280.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 800.0

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// axisMargin keeps the pipeline axis off the frame edges.
	axisMargin = 90.0

	// auxOffsetY is the vertical delta for auxiliary nodes.
	auxOffsetY = 150.0

	// arcLift raises the factor arc above the pipeline axis.
	arcLift = 60.0
)

// Frame is the drawable viewport.
type Frame struct {
	Width  float64
	Height float64
}

// DefaultFrame returns the default frame dimensions.
func DefaultFrame() Frame {
	return Frame{Width: DefaultWidth, Height: DefaultHeight}
}

// =============================================================================
// Engine
// =============================================================================

// Engine computes node positions for a frame. Positions are deterministic
// for a given frame size and seed.
type Engine struct {
	frame Frame
	seed  uint64
}

// New creates a layout engine for the given frame and seed.
func New(frame Frame, seed uint64) *Engine {
	if frame.Width <= 0 || frame.Height <= 0 {
		frame = DefaultFrame()
	}
	return &Engine{frame: frame, seed: seed}
}

// Frame returns the engine's current frame.
func (e *Engine) Frame() Frame { return e.frame }

// Resize updates the frame. The caller recomputes the journey layout
// afterwards; pinned nodes keep their positions through the recompute.
func (e *Engine) Resize(frame Frame) {
	if frame.Width > 0 && frame.Height > 0 {
		e.frame = frame
	}
}

// rng returns a fresh deterministic source so repeated layouts of the
// same graph land identically.
func (e *Engine) rng() *rand.Rand {
	return rand.New(rand.NewSource(int64(e.seed)))
}

// Center returns the frame center point.
func (e *Engine) Center() (float64, float64) {
	return e.frame.Width / 2, e.frame.Height / 2
}

// ReleaseAll unpins every node except those listed in keep.
func ReleaseAll(g *foodgraph.Graph, keep ...string) {
	keepSet := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}
	for _, n := range g.Nodes {
		if _, ok := keepSet[n.ID]; ok {
			continue
		}
		n.Unpin()
	}
}
