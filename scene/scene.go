// Package scene is the list of everything drawn on the board. Items are
// only ever appended; draw order is insertion order.
package scene

import (
	"image"
	"image/color"
	"sync"

	"github.com/milk9111/sheetmap/world"
)

// ArcSegments is the number of straight pieces per curved edge of the ring.
const ArcSegments = 64

type Kind int

const (
	KindLine Kind = iota
	KindArc
	KindRect
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindArc:
		return "arc"
	case KindRect:
		return "rect"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Item is one drawable thing in world coordinates. Which fields are set
// depends on Kind.
type Item struct {
	ID     int
	Kind   Kind
	Bounds Rect

	// KindLine uses the first two points, KindArc the whole closed path.
	Path []world.Point

	// KindRect
	Fill  color.NRGBA
	Label string

	// KindImage
	Image  image.Image
	Source string
}

// Scene is safe for concurrent appends and snapshot reads.
type Scene struct {
	mu     sync.Mutex
	items  []Item
	nextID int
}

func New() *Scene {
	return &Scene{}
}

// NewWithStatic returns a scene that already holds the grid and the ring.
func NewWithStatic() *Scene {
	s := New()
	for _, seg := range world.GridLines() {
		s.AddLine(seg)
	}
	s.AddArc(world.Ring.Outline(ArcSegments))
	return s
}

func (s *Scene) add(it Item) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	it.ID = s.nextID
	s.items = append(s.items, it)
	return it.ID
}

func (s *Scene) AddLine(seg world.Segment) int {
	return s.add(Item{
		Kind:   KindLine,
		Bounds: Bounds(seg.A, seg.B),
		Path:   []world.Point{seg.A, seg.B},
	})
}

func (s *Scene) AddArc(path []world.Point) int {
	cp := make([]world.Point, len(path))
	copy(cp, path)
	return s.add(Item{
		Kind:   KindArc,
		Bounds: Bounds(cp...),
		Path:   cp,
	})
}

func (s *Scene) AddRect(r Rect, fill color.NRGBA, label string) int {
	return s.add(Item{
		Kind:   KindRect,
		Bounds: r,
		Fill:   fill,
		Label:  label,
	})
}

func (s *Scene) AddImage(r Rect, img image.Image, source string) int {
	return s.add(Item{
		Kind:   KindImage,
		Bounds: r,
		Image:  img,
		Source: source,
	})
}

// Items returns a copy of the item list. Later appends do not show up in
// a snapshot already taken.
func (s *Scene) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Count returns how many items of kind k have been added.
func (s *Scene) Count(k Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		if it.Kind == k {
			n++
		}
	}
	return n
}
