package feed

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Image fetches src and decodes it. PNG, JPEG, GIF, WebP and BMP are
// understood.
func (f *Fetcher) Image(ctx context.Context, src string) (image.Image, error) {
	b, err := f.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("feed: decode %s: %w", src, err)
	}
	return img, nil
}
