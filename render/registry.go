package render

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Images converts decoded marker images to GPU images on first use and
// keeps them by scene item id. Only touch it from the draw goroutine.
type Images struct {
	images map[int]*ebiten.Image
}

func NewImages() *Images {
	return &Images{images: map[int]*ebiten.Image{}}
}

// Get returns the cached image for id, creating it from src when missing.
func (r *Images) Get(id int, src image.Image) *ebiten.Image {
	if img, ok := r.images[id]; ok {
		return img
	}
	if src == nil || src.Bounds().Empty() {
		return nil
	}
	img := ebiten.NewImageFromImage(src)
	r.images[id] = img
	return img
}

func (r *Images) Len() int {
	return len(r.images)
}

// Reset frees every cached image. Call it when the scene is replaced since
// ids restart.
func (r *Images) Reset() {
	for id, img := range r.images {
		img.Deallocate()
		delete(r.images, id)
	}
}
