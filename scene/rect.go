package scene

import (
	"math"

	"github.com/milk9111/sheetmap/world"
)

// Rect is an axis-aligned box in world units.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

func (r Rect) Min() world.Point { return world.Point{X: r.X, Y: r.Y} }

func (r Rect) Max() world.Point { return world.Point{X: r.X + r.Width, Y: r.Y + r.Height} }

// FromCorners builds the rect spanning two corners in any order.
func FromCorners(a, b world.Point) Rect {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Bounds is the smallest rect holding every point. Zero-size sides are
// padded to 1 so axis-aligned lines still intersect.
func Bounds(pts ...world.Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minP, maxP := pts[0], pts[0]
	for _, p := range pts[1:] {
		minP.X = math.Min(minP.X, p.X)
		minP.Y = math.Min(minP.Y, p.Y)
		maxP.X = math.Max(maxP.X, p.X)
		maxP.Y = math.Max(maxP.Y, p.Y)
	}
	r := FromCorners(minP, maxP)
	if r.Width == 0 {
		r.X -= 0.5
		r.Width = 1
	}
	if r.Height == 0 {
		r.Y -= 0.5
		r.Height = 1
	}
	return r
}
