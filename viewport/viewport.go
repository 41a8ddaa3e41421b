// Package viewport maps between screen pixels and world units for a view
// that can be panned and zoomed. The view is a single translate + uniform
// scale applied to the whole scene; content never moves in world space.
package viewport

import (
	"github.com/milk9111/sheetmap/common"
	"github.com/milk9111/sheetmap/world"
)

// DefaultZoomFactor is the scale change of one wheel notch.
const DefaultZoomFactor = 1.1

// Hard scale limits that apply even without configured bounds. Past them a
// step could not be undone because float64 runs out of precision.
const (
	MinScaleLimit = 1e-12
	MaxScaleLimit = 1e12
)

// Direction is the zoom direction of a wheel step.
type Direction int

const (
	NoZoom Direction = iota
	ZoomIn
	ZoomOut
)

func (d Direction) String() string {
	switch d {
	case ZoomIn:
		return "in"
	case ZoomOut:
		return "out"
	default:
		return "none"
	}
}

// DirectionFromWheel converts an Ebiten vertical wheel delta. Scrolling up
// reports a positive delta and zooms in.
func DirectionFromWheel(dy float64) Direction {
	switch {
	case dy > 0:
		return ZoomIn
	case dy < 0:
		return ZoomOut
	default:
		return NoZoom
	}
}

// State is a snapshot of the view transform: screen = world*Scale + Offset.
type State struct {
	OffsetX float64
	OffsetY float64
	Scale   float64
}

// WorldToScreen applies the transform.
func (s State) WorldToScreen(p world.Point) world.Point {
	return p.Mul(s.Scale).Add(s.offset())
}

// ScreenToWorld applies the inverse transform.
func (s State) ScreenToWorld(p world.Point) world.Point {
	return p.Sub(s.offset()).Div(s.Scale)
}

func (s State) offset() world.Point {
	return world.Point{X: s.OffsetX, Y: s.OffsetY}
}

// Viewport owns the view state. Every change goes through its methods so
// offset and scale are always updated together.
type Viewport struct {
	state   State
	screenW int
	screenH int

	zoomFactor float64
	// 0 means unbounded
	minScale float64
	maxScale float64
}

// Option configures a Viewport.
type Option func(*Viewport)

// WithZoomFactor sets the per-step zoom factor. Values <= 1 are ignored.
func WithZoomFactor(f float64) Option {
	return func(v *Viewport) {
		if f > 1 && common.Finite(f) {
			v.zoomFactor = f
		}
	}
}

// WithScaleBounds limits the scale reachable by zooming. A zero bound leaves
// that side open.
func WithScaleBounds(minScale, maxScale float64) Option {
	return func(v *Viewport) {
		if minScale < 0 {
			minScale = 0
		}
		if maxScale < 0 {
			maxScale = 0
		}
		v.minScale = minScale
		v.maxScale = maxScale
	}
}

// WithState starts the viewport from an explicit transform instead of the
// identity. Non-positive scales are replaced by 1.
func WithState(s State) Option {
	return func(v *Viewport) {
		if s.Scale <= 0 || !common.Finite(s.Scale) {
			s.Scale = 1
		}
		v.state = s
	}
}

// New creates a viewport at scale 1 with no offset.
func New(opts ...Option) *Viewport {
	v := &Viewport{
		state:      State{Scale: 1},
		zoomFactor: DefaultZoomFactor,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Initialize places center in the middle of a screenW x screenH surface at
// scale 1. Call it once, before the first frame is drawn.
func (v *Viewport) Initialize(screenW, screenH int, center world.Point) {
	v.screenW = screenW
	v.screenH = screenH
	v.state = State{
		OffsetX: float64(screenW)/2 - center.X,
		OffsetY: float64(screenH)/2 - center.Y,
		Scale:   1,
	}
}

// State returns a copy of the current transform.
func (v *Viewport) State() State {
	return v.state
}

// Scale returns the current zoom.
func (v *Viewport) Scale() float64 {
	return v.state.Scale
}

// ZoomFactor returns the per-step zoom factor.
func (v *Viewport) ZoomFactor() float64 {
	return v.zoomFactor
}

// ScreenSize returns the last known surface size.
func (v *Viewport) ScreenSize() (int, int) {
	return v.screenW, v.screenH
}

// ScreenToWorld converts a pointer position to world units.
func (v *Viewport) ScreenToWorld(p world.Point) world.Point {
	return v.state.ScreenToWorld(p)
}

// WorldToScreen converts a world position to screen pixels.
func (v *Viewport) WorldToScreen(p world.Point) world.Point {
	return v.state.WorldToScreen(p)
}

// ZoomAtPointer scales the view by one step while keeping the world point
// under pointer fixed on screen. It reports whether the view changed.
func (v *Viewport) ZoomAtPointer(pointer world.Point, dir Direction) bool {
	var next float64
	switch dir {
	case ZoomIn:
		next = v.state.Scale * v.zoomFactor
	case ZoomOut:
		next = v.state.Scale / v.zoomFactor
	default:
		return false
	}
	next = common.Clamp(next, v.scaleFloor(), v.scaleCeil())
	if !common.Finite(next) || next <= 0 || next == v.state.Scale {
		return false
	}

	// Scaling the pointer-to-origin vector in screen space keeps the anchor
	// fixed without going through world units, which overflow at tiny scales.
	rel := pointer.Sub(v.state.offset())
	offset := pointer.Sub(rel.Mul(next / v.state.Scale))
	if !common.Finite(offset.X) || !common.Finite(offset.Y) {
		return false
	}
	v.state = State{OffsetX: offset.X, OffsetY: offset.Y, Scale: next}
	return true
}

func (v *Viewport) scaleFloor() float64 {
	return max(v.minScale, MinScaleLimit)
}

func (v *Viewport) scaleCeil() float64 {
	if v.maxScale <= 0 {
		return MaxScaleLimit
	}
	return min(v.maxScale, MaxScaleLimit)
}

// Pan moves the view by a screen-space delta. Nothing keeps the board in
// sight.
func (v *Viewport) Pan(dx, dy float64) {
	v.state.OffsetX += dx
	v.state.OffsetY += dy
}

// Resize records a new surface size. The transform is left alone.
func (v *Viewport) Resize(screenW, screenH int) {
	if screenW <= 0 || screenH <= 0 {
		return
	}
	v.screenW = screenW
	v.screenH = screenH
}

// VisibleBounds returns the world rectangle currently covered by the
// surface as its top-left and bottom-right corners.
func (v *Viewport) VisibleBounds() (world.Point, world.Point) {
	min := v.state.ScreenToWorld(world.Point{})
	max := v.state.ScreenToWorld(world.Point{X: float64(v.screenW), Y: float64(v.screenH)})
	return min, max
}
