// Package marker turns spreadsheet rows into placed markers. Rows without a
// usable position are rejected; every other field has a default.
package marker

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
	"github.com/milk9111/sheetmap/common"
	"github.com/milk9111/sheetmap/feed"
	"github.com/milk9111/sheetmap/scene"
	"github.com/milk9111/sheetmap/world"
)

// Field names used by the feeds.
const (
	FieldX        = "x"
	FieldY        = "y"
	FieldWidth    = "width"
	FieldHeight   = "height"
	FieldColor    = "color"
	FieldName     = "name"
	FieldImageURL = "imageUrl"
)

const (
	DefaultSize  = 100.0
	DefaultColor = "skyblue"

	LabelSize    = 18.0
	LabelPadding = 5.0
	// StrokeWidth is the outline width of a rectangle in world units.
	StrokeWidth = 2.0
)

var skyblue = color.NRGBA{R: 0x87, G: 0xce, B: 0xeb, A: 0xff}

// Rect is a filled, labelled rectangle marker.
type Rect struct {
	X, Y          float64
	Width, Height float64
	Fill          color.NRGBA
	Label         string
}

func (r Rect) Bounds() scene.Rect {
	return scene.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// LabelOrigin is the top-left of the label text, just under the rectangle.
func LabelOrigin(b scene.Rect) world.Point {
	return world.Point{X: b.X + LabelPadding, Y: b.Y + b.Height + LabelPadding}
}

// Extent is the world area a rectangle marker with bounds b can paint: the
// outline overhang plus, when labelWidth > 0, the label box under it.
func Extent(b scene.Rect, labelWidth float64) scene.Rect {
	b.X -= StrokeWidth
	b.Y -= StrokeWidth
	b.Width += 2 * StrokeWidth
	b.Height += 2 * StrokeWidth
	if labelWidth > 0 {
		b.Width = max(b.Width, labelWidth+2*LabelPadding+StrokeWidth)
		b.Height += LabelSize + 2*LabelPadding
	}
	return b
}

// Image is a picture marker. The picture itself is fetched later.
type Image struct {
	X, Y          float64
	Width, Height float64
	Source        string
}

func (m Image) Bounds() scene.Rect {
	return scene.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

// ParseNumber reads an optional numeric field. Blank, malformed, NaN and
// infinite values all count as absent.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !common.Finite(v) {
		return 0, false
	}
	return v, true
}

// OrDefault returns v when ok, def otherwise.
func OrDefault(v float64, ok bool, def float64) float64 {
	if !ok {
		return def
	}
	return v
}

// ParseColor accepts CSS color syntax. Blank or unknown colors are skyblue.
func ParseColor(s string) color.NRGBA {
	s = strings.TrimSpace(s)
	if s == "" {
		return skyblue
	}
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return skyblue
	}
	r, g, b, a := c.RGBA255()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

func position(row feed.Row) (float64, float64, bool) {
	x, okX := ParseNumber(row.Get(FieldX))
	y, okY := ParseNumber(row.Get(FieldY))
	return x, y, okX && okY
}

func size(row feed.Row) (float64, float64) {
	w, okW := ParseNumber(row.Get(FieldWidth))
	h, okH := ParseNumber(row.Get(FieldHeight))
	return OrDefault(w, okW, DefaultSize), OrDefault(h, okH, DefaultSize)
}

// ParseRect validates a rectangle row.
func ParseRect(row feed.Row) (Rect, bool) {
	x, y, ok := position(row)
	if !ok {
		return Rect{}, false
	}
	w, h := size(row)
	return Rect{
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
		Fill:   ParseColor(row.Get(FieldColor)),
		Label:  row.Get(FieldName),
	}, true
}

// ParseImage validates an image row. imageUrl is required.
func ParseImage(row feed.Row) (Image, bool) {
	x, y, ok := position(row)
	if !ok {
		return Image{}, false
	}
	src := row.Get(FieldImageURL)
	if src == "" {
		return Image{}, false
	}
	w, h := size(row)
	return Image{X: x, Y: y, Width: w, Height: h, Source: src}, true
}
