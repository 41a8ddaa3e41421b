package scene

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/milk9111/sheetmap/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithStatic(t *testing.T) {
	s := NewWithStatic()
	lines := len(world.GridLines())

	assert.Equal(t, lines, s.Count(KindLine))
	assert.Equal(t, 1, s.Count(KindArc))
	assert.Equal(t, lines+1, s.Len())

	items := s.Items()
	assert.Equal(t, KindArc, items[len(items)-1].Kind, "ring is drawn over the grid")
	assert.Len(t, items[len(items)-1].Path, 2*(ArcSegments+1)+1)
}

func TestInsertionOrderAndIDs(t *testing.T) {
	s := New()
	a := s.AddRect(Rect{X: 1, Y: 2, Width: 3, Height: 4}, color.NRGBA{R: 255, A: 255}, "a")
	b := s.AddImage(Rect{Width: 10, Height: 10}, image.NewRGBA(image.Rect(0, 0, 1, 1)), "b.png")
	c := s.AddRect(Rect{}, color.NRGBA{}, "c")

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []int{a, b, c}, []int{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, "a", items[0].Label)
	assert.Equal(t, "b.png", items[1].Source)
	assert.Equal(t, KindRect, items[2].Kind)
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestSnapshotIsStable(t *testing.T) {
	s := New()
	s.AddRect(Rect{}, color.NRGBA{}, "first")
	snap := s.Items()
	s.AddRect(Rect{}, color.NRGBA{}, "second")

	assert.Len(t, snap, 1)
	assert.Equal(t, 2, s.Len())
}

func TestConcurrentAppends(t *testing.T) {
	s := New()
	const workers, per = 8, 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				s.AddRect(Rect{X: float64(i)}, color.NRGBA{}, "")
				_ = s.Items()
			}
		}()
	}
	wg.Wait()

	items := s.Items()
	require.Len(t, items, workers*per)
	seen := make(map[int]struct{}, len(items))
	for _, it := range items {
		seen[it.ID] = struct{}{}
	}
	assert.Len(t, seen, workers*per)
}

func TestArcPathIsCopied(t *testing.T) {
	path := []world.Point{{X: 0, Y: 0}, {X: 10, Y: 5}}
	s := New()
	s.AddArc(path)
	path[0] = world.Point{X: 99, Y: 99}

	assert.Equal(t, world.Point{}, s.Items()[0].Path[0])
}

func TestRectIntersects(t *testing.T) {
	base := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	cases := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlap", Rect{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{"inside", Rect{X: 2, Y: 2, Width: 1, Height: 1}, true},
		{"touching_edge", Rect{X: 10, Y: 0, Width: 5, Height: 5}, false},
		{"left", Rect{X: -20, Y: 0, Width: 5, Height: 5}, false},
		{"below", Rect{X: 0, Y: 11, Width: 5, Height: 5}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, base.Intersects(c.other))
			assert.Equal(t, c.want, c.other.Intersects(base))
		})
	}
}

func TestBounds(t *testing.T) {
	r := Bounds(world.Point{X: 5, Y: 1}, world.Point{X: -1, Y: 7}, world.Point{X: 2, Y: 3})
	assert.Equal(t, Rect{X: -1, Y: 1, Width: 6, Height: 6}, r)

	vertical := Bounds(world.Point{X: 100, Y: 0}, world.Point{X: 100, Y: 9000})
	assert.Equal(t, 1.0, vertical.Width)
	assert.True(t, vertical.Intersects(Rect{X: 50, Y: 50, Width: 100, Height: 100}))

	assert.Equal(t, Rect{}, Bounds())
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 10, Height: 4}, FromCorners(world.Point{X: 10, Y: 4}, world.Point{}))
}
