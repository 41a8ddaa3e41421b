package loader

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/milk9111/sheetmap/feed"
	"github.com/milk9111/sheetmap/scene"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	rows    map[string][]feed.Row
	rowErr  map[string]error
	badImgs map[string]bool
	delay   time.Duration

	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeSource) Records(_ context.Context, src string) ([]feed.Record, error) {
	if err := f.rowErr[src]; err != nil {
		return nil, err
	}
	var recs []feed.Record
	for i, row := range f.rows[src] {
		recs = append(recs, feed.Record{Line: i + 2, Row: row})
	}
	return recs, nil
}

func (f *fakeSource) Image(ctx context.Context, src string) (image.Image, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.badImgs[src] {
		return nil, errors.New("decode failed")
	}
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func rectRows() []feed.Row {
	return []feed.Row{
		{"x": "10", "y": "10", "name": "first"},
		{"y": "10"},
		{"x": "20", "y": "20", "name": "second"},
		{"x": "30", "y": "30", "name": "third"},
	}
}

func TestLoadPlacesRectsInOrder(t *testing.T) {
	src := &fakeSource{rows: map[string][]feed.Row{"rects": rectRows()}}
	sc := scene.New()

	res := New(src, Config{Rects: "rects"}, zerolog.Nop()).Load(context.Background(), sc)

	assert.NoError(t, res.Rects.Err)
	assert.Equal(t, 4, res.Rects.Rows)
	assert.Equal(t, 3, res.Rects.Placed)
	assert.Equal(t, 1, res.Rects.Skipped)

	items := sc.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{items[0].Label, items[1].Label, items[2].Label})
	assert.Equal(t, scene.Rect{X: 10, Y: 10, Width: 100, Height: 100}, items[0].Bounds)
}

func TestLoadImages(t *testing.T) {
	src := &fakeSource{
		rows: map[string][]feed.Row{"images": {
			{"x": "1", "y": "1", "imageUrl": "a.png"},
			{"x": "2", "y": "2"},
			{"x": "3", "y": "3", "imageUrl": "broken.png"},
			{"x": "4", "y": "4", "imageUrl": "b.png", "width": "50"},
		}},
		badImgs: map[string]bool{"broken.png": true},
	}
	sc := scene.New()

	res := New(src, Config{Images: "images"}, zerolog.Nop()).Load(context.Background(), sc)

	assert.Equal(t, 2, res.Images.Placed)
	assert.Equal(t, 1, res.Images.Skipped)
	assert.Equal(t, 1, res.Images.Failed)
	assert.Equal(t, 2, sc.Count(scene.KindImage))

	sources := map[string]scene.Rect{}
	for _, it := range sc.Items() {
		sources[it.Source] = it.Bounds
	}
	assert.Equal(t, scene.Rect{X: 4, Y: 4, Width: 50, Height: 100}, sources["b.png"])
	assert.NotContains(t, sources, "broken.png")
}

func TestFeedFailureIsIsolated(t *testing.T) {
	src := &fakeSource{
		rows:   map[string][]feed.Row{"rects": rectRows()},
		rowErr: map[string]error{"images": errors.New("boom")},
	}
	sc := scene.NewWithStatic()
	static := sc.Len()

	res := New(src, Config{Rects: "rects", Images: "images"}, zerolog.Nop()).Load(context.Background(), sc)

	assert.Error(t, res.Images.Err)
	assert.NoError(t, res.Rects.Err)
	assert.Equal(t, static+3, sc.Len())
	assert.Equal(t, 3, sc.Count(scene.KindRect))
}

func TestEmptySourceIsDisabled(t *testing.T) {
	sc := scene.New()
	res := New(&fakeSource{}, Config{}, zerolog.Nop()).Load(context.Background(), sc)
	assert.Equal(t, FeedResult{}, res.Rects)
	assert.Equal(t, FeedResult{}, res.Images)
	assert.Zero(t, sc.Len())
}

func TestImageConcurrencyIsBounded(t *testing.T) {
	var rows []feed.Row
	for i := 0; i < 20; i++ {
		rows = append(rows, feed.Row{"x": "1", "y": "1", "imageUrl": "img.png"})
	}
	src := &fakeSource{rows: map[string][]feed.Row{"images": rows}, delay: 5 * time.Millisecond}
	sc := scene.New()

	res := New(src, Config{Images: "images", ImageConcurrency: 3}, zerolog.Nop()).Load(context.Background(), sc)

	assert.Equal(t, 20, res.Images.Placed)
	assert.LessOrEqual(t, src.peak.Load(), int32(3))
}

func TestCancelStopsImages(t *testing.T) {
	var rows []feed.Row
	for i := 0; i < 10; i++ {
		rows = append(rows, feed.Row{"x": "1", "y": "1", "imageUrl": "slow.png"})
	}
	src := &fakeSource{rows: map[string][]feed.Row{"images": rows}, delay: time.Minute}
	sc := scene.New()

	ctx, cancel := context.WithCancel(context.Background())
	var (
		wg  sync.WaitGroup
		res Result
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		res = New(src, Config{Images: "images", ImageConcurrency: 2}, zerolog.Nop()).Load(ctx, sc)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	wg.Wait()

	assert.Zero(t, res.Images.Placed)
	assert.Zero(t, sc.Count(scene.KindImage))
	assert.Positive(t, res.Images.Failed)
}
