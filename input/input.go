// Package input turns one frame of pointer state into viewport changes.
// Polling the device is left to the caller so this package runs without a
// window.
package input

import (
	"github.com/milk9111/sheetmap/viewport"
	"github.com/milk9111/sheetmap/world"
)

// Frame is the pointer state sampled at the start of an update.
type Frame struct {
	CursorX, CursorY int
	// WheelY is positive when scrolling up.
	WheelY float64
	// Drag is true while a pan button (left or middle) is held.
	Drag bool
}

func (f Frame) Cursor() world.Point {
	return world.Point{X: float64(f.CursorX), Y: float64(f.CursorY)}
}

// Change reports what Apply did to the view.
type Change struct {
	Zoomed bool
	Panned bool
}

// Adapter remembers the drag anchor between frames.
type Adapter struct {
	dragging     bool
	lastX, lastY int
}

func (a *Adapter) Dragging() bool {
	return a.dragging
}

// Apply zooms at the cursor for a wheel step and pans by the cursor movement
// since the last frame while a drag is held. The first frame of a drag only
// records the anchor.
func (a *Adapter) Apply(v *viewport.Viewport, f Frame) Change {
	var ch Change

	if dir := viewport.DirectionFromWheel(f.WheelY); dir != viewport.NoZoom {
		ch.Zoomed = v.ZoomAtPointer(f.Cursor(), dir)
	}

	if !f.Drag {
		a.dragging = false
		return ch
	}
	if !a.dragging {
		a.dragging = true
		a.lastX, a.lastY = f.CursorX, f.CursorY
		return ch
	}
	dx, dy := f.CursorX-a.lastX, f.CursorY-a.lastY
	a.lastX, a.lastY = f.CursorX, f.CursorY
	if dx != 0 || dy != 0 {
		v.Pan(float64(dx), float64(dy))
		ch.Panned = true
	}
	return ch
}
