// Package render draws a scene through the current view transform.
package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/sheetmap/marker"
	"github.com/milk9111/sheetmap/scene"
	"github.com/milk9111/sheetmap/viewport"
	"github.com/milk9111/sheetmap/world"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	background = color.White
	gridColor  = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	inkColor   = color.Black
)

const (
	gridWidth = 1
	arcWidth  = 2
)

// View is the part of the viewport the renderer reads.
type View interface {
	State() viewport.State
	VisibleBounds() (world.Point, world.Point)
}

// Stats describes the last frame.
type Stats struct {
	Drawn  int
	Culled int
}

type Renderer struct {
	images *Images
	face   *text.GoTextFace
	// label widths in world units, by item id
	labels map[int]float64
}

func New() (*Renderer, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("render: load font: %w", err)
	}
	return &Renderer{
		images: NewImages(),
		face:   &text.GoTextFace{Source: src, Size: marker.LabelSize},
		labels: map[int]float64{},
	}, nil
}

// CachedImages is the number of marker images uploaded to the GPU.
func (r *Renderer) CachedImages() int {
	return r.images.Len()
}

// Reset drops everything cached for the previous scene.
func (r *Renderer) Reset() {
	r.images.Reset()
	clear(r.labels)
}

// Draw clears screen and paints items in order. Items entirely outside the
// view are skipped.
func (r *Renderer) Draw(screen *ebiten.Image, items []scene.Item, view View) Stats {
	screen.Fill(background)

	st := view.State()
	minP, maxP := view.VisibleBounds()
	visible := scene.FromCorners(minP, maxP)

	var stats Stats
	for _, it := range items {
		if !r.extent(it).Intersects(visible) {
			stats.Culled++
			continue
		}
		switch it.Kind {
		case scene.KindLine:
			r.drawPath(screen, it.Path, st, gridWidth, gridColor)
		case scene.KindArc:
			r.drawPath(screen, it.Path, st, arcWidth, inkColor)
		case scene.KindRect:
			r.drawRect(screen, it, st)
		case scene.KindImage:
			r.drawImage(screen, it, st)
		}
		stats.Drawn++
	}
	return stats
}

func (r *Renderer) extent(it scene.Item) scene.Rect {
	if it.Kind != scene.KindRect {
		return it.Bounds
	}
	var lw float64
	if it.Label != "" {
		lw = r.labelWidth(it)
	}
	return marker.Extent(it.Bounds, lw)
}

// labelWidth measures a label once per item.
func (r *Renderer) labelWidth(it scene.Item) float64 {
	if w, ok := r.labels[it.ID]; ok {
		return w
	}
	w, _ := text.Measure(it.Label, r.face, 0)
	r.labels[it.ID] = w
	return w
}

func (r *Renderer) drawPath(screen *ebiten.Image, path []world.Point, st viewport.State, width float64, clr color.Color) {
	sw := float32(width * st.Scale)
	for i := 1; i < len(path); i++ {
		a := st.WorldToScreen(path[i-1])
		b := st.WorldToScreen(path[i])
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), sw, clr, true)
	}
}

func (r *Renderer) drawRect(screen *ebiten.Image, it scene.Item, st viewport.State) {
	p := st.WorldToScreen(it.Bounds.Min())
	w := float32(it.Bounds.Width * st.Scale)
	h := float32(it.Bounds.Height * st.Scale)
	vector.FillRect(screen, float32(p.X), float32(p.Y), w, h, it.Fill, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), w, h, float32(marker.StrokeWidth*st.Scale), inkColor, true)

	if it.Label == "" {
		return
	}
	at := st.WorldToScreen(marker.LabelOrigin(it.Bounds))
	op := &text.DrawOptions{}
	op.GeoM.Scale(st.Scale, st.Scale)
	op.GeoM.Translate(at.X, at.Y)
	op.ColorScale.ScaleWithColor(inkColor)
	text.Draw(screen, it.Label, r.face, op)
}

func (r *Renderer) drawImage(screen *ebiten.Image, it scene.Item, st viewport.State) {
	img := r.images.Get(it.ID, it.Image)
	if img == nil {
		return
	}
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	p := st.WorldToScreen(it.Bounds.Min())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(it.Bounds.Width/float64(iw), it.Bounds.Height/float64(ih))
	op.GeoM.Scale(st.Scale, st.Scale)
	op.GeoM.Translate(p.X, p.Y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}
