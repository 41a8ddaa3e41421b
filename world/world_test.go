package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridLines(t *testing.T) {
	lines := GridLines()
	require.Len(t, lines, 2*(Width/GridSize+1))

	first := lines[0]
	assert.Equal(t, Segment{A: Point{0, 0}, B: Point{0, Height}}, first)

	lastVertical := lines[Width/GridSize]
	assert.Equal(t, float64(Width), lastVertical.A.X)

	firstHorizontal := lines[Width/GridSize+1]
	assert.Equal(t, Segment{A: Point{0, 0}, B: Point{Width, 0}}, firstHorizontal)

	for i, l := range lines {
		vertical := l.A.X == l.B.X
		horizontal := l.A.Y == l.B.Y
		assert.True(t, vertical != horizontal, "line %d must be axis aligned", i)
	}
}

func TestCenter(t *testing.T) {
	assert.Equal(t, Point{X: 4500, Y: 4500}, Center())
}

func TestRingOutline(t *testing.T) {
	cases := []struct {
		name     string
		segments int
		wantLen  int
	}{
		{"coarse", 1, 5},
		{"fine", 32, 67},
		{"clamped", 0, 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pts := Ring.Outline(c.segments)
			require.Len(t, pts, c.wantLen)
			assert.Equal(t, pts[0], pts[len(pts)-1], "outline must be closed")

			// outer edge starts at 45 degrees
			d := math.Sqrt2 / 2 * Ring.OuterRadius
			assert.InDelta(t, 4500+d, pts[0].X, 1e-9)
			assert.InDelta(t, 4500+d, pts[0].Y, 1e-9)

			for _, p := range pts {
				r := math.Hypot(p.X-Ring.Center.X, p.Y-Ring.Center.Y)
				onOuter := math.Abs(r-Ring.OuterRadius) < 1e-6
				onInner := math.Abs(r-Ring.InnerRadius) < 1e-6
				assert.True(t, onOuter || onInner, "point %v off the ring", p)
				// 45..135 degrees lies below the center with y growing down
				assert.Greater(t, p.Y, Ring.Center.Y)
			}
		})
	}
}

func TestPointArithmetic(t *testing.T) {
	p := Point{X: 3, Y: -4}
	assert.Equal(t, Point{X: 4, Y: -2}, p.Add(Point{X: 1, Y: 2}))
	assert.Equal(t, Point{X: 2, Y: -6}, p.Sub(Point{X: 1, Y: 2}))
	assert.Equal(t, Point{X: 6, Y: -8}, p.Mul(2))
	assert.Equal(t, Point{X: 1.5, Y: -2}, p.Div(2))
}
