package main

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/sheetmap/loader"
	"github.com/milk9111/sheetmap/world"
)

// hudStatus is everything the status bar shows for one frame.
type hudStatus struct {
	Scale   float64
	Cursor  world.Point
	Loading bool
	Result  *loader.Result
	Message string
}

// HUD is a small status bar in the bottom-left corner.
type HUD struct {
	ui     *ebitenui.UI
	view   *widget.Text
	counts *widget.Text
	status *widget.Text
}

func NewHUD() *HUD {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 170})
	textColor := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	line := func() *widget.Text {
		return widget.NewText(widget.TextOpts.Text("", &face, textColor))
	}
	h := &HUD{view: line(), counts: line(), status: line()}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionEnd,
			}),
		),
	)
	panel.AddChild(h.view)
	panel.AddChild(h.counts)
	panel.AddChild(h.status)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	h.ui = &ebitenui.UI{Container: root}
	return h
}

func (h *HUD) Update(s hudStatus) {
	h.view.Label = fmt.Sprintf("zoom %.2fx   cursor %.0f, %.0f", s.Scale, s.Cursor.X, s.Cursor.Y)
	h.counts.Label = countsLine(s.Result)
	h.status.Label = statusLine(s)
	h.ui.Update()
}

func (h *HUD) Draw(screen *ebiten.Image) {
	h.ui.Draw(screen)
}

func countsLine(res *loader.Result) string {
	if res == nil {
		return "rects -   images -"
	}
	rects := fmt.Sprintf("rects %d", res.Rects.Placed)
	if res.Rects.Skipped > 0 {
		rects += fmt.Sprintf(" (%d skipped)", res.Rects.Skipped)
	}
	images := fmt.Sprintf("images %d", res.Images.Placed)
	if n := res.Images.Skipped + res.Images.Failed; n > 0 {
		images += fmt.Sprintf(" (%d skipped, %d failed)", res.Images.Skipped, res.Images.Failed)
	}
	return rects + "   " + images
}

func statusLine(s hudStatus) string {
	if s.Message != "" {
		return s.Message
	}
	if s.Loading {
		return "loading feeds..."
	}
	if s.Result == nil {
		return "R reload   C copy x,y   Q quit"
	}
	var failed []string
	if s.Result.Rects.Err != nil {
		failed = append(failed, "rects")
	}
	if s.Result.Images.Err != nil {
		failed = append(failed, "images")
	}
	if len(failed) > 0 {
		return "failed: " + strings.Join(failed, ", ")
	}
	return fmt.Sprintf("loaded in %s", s.Result.Duration.Round(time.Millisecond))
}
