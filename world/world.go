// Package world holds the fixed board space every piece of content is
// positioned in. Nothing here knows about the screen.
package world

import "math"

const (
	Width    = 9000
	Height   = 9000
	GridSize = 100
)

// Point is a position in world units, or in screen pixels when it comes from
// the pointer. The viewport is the only thing that converts between the two.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

func (p Point) Mul(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

func (p Point) Div(s float64) Point { return Point{X: p.X / s, Y: p.Y / s} }

// Center is the middle of the board.
func Center() Point {
	return Point{X: Width / 2, Y: Height / 2}
}

// Segment is a straight line between two world points.
type Segment struct {
	A, B Point
}

// GridLines returns the board grid: vertical lines left to right, then
// horizontal lines top to bottom, one every GridSize units including both
// edges.
func GridLines() []Segment {
	cols := Width / GridSize
	rows := Height / GridSize
	lines := make([]Segment, 0, cols+rows+2)
	for i := 0; i <= cols; i++ {
		x := float64(i * GridSize)
		lines = append(lines, Segment{A: Point{X: x, Y: 0}, B: Point{X: x, Y: Height}})
	}
	for j := 0; j <= rows; j++ {
		y := float64(j * GridSize)
		lines = append(lines, Segment{A: Point{X: 0, Y: y}, B: Point{X: Width, Y: y}})
	}
	return lines
}

// Arc is a ring sector. Angles are in degrees and grow clockwise on screen
// because world Y points down.
type Arc struct {
	Center      Point
	InnerRadius float64
	OuterRadius float64
	Angle       float64
	Rotation    float64
}

// Ring is the decorative quarter ring around the board center.
var Ring = Arc{
	Center:      Center(),
	InnerRadius: 1000,
	OuterRadius: 1200,
	Angle:       90,
	Rotation:    45,
}

// Outline returns the closed border of the sector: the outer edge from
// Rotation to Rotation+Angle, the inner edge back, and the first point again.
// segments is the number of straight pieces per curved edge.
func (a Arc) Outline(segments int) []Point {
	if segments < 1 {
		segments = 1
	}
	pts := make([]Point, 0, 2*(segments+1)+1)
	for i := 0; i <= segments; i++ {
		pts = append(pts, a.at(a.OuterRadius, i, segments))
	}
	for i := segments; i >= 0; i-- {
		pts = append(pts, a.at(a.InnerRadius, i, segments))
	}
	return append(pts, pts[0])
}

func (a Arc) at(radius float64, i, segments int) Point {
	deg := a.Rotation + a.Angle*float64(i)/float64(segments)
	rad := deg * math.Pi / 180
	return Point{
		X: a.Center.X + radius*math.Cos(rad),
		Y: a.Center.Y + radius*math.Sin(rad),
	}
}
