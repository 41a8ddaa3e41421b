// Package loader fills a scene from the rectangle and image feeds.
package loader

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/milk9111/sheetmap/feed"
	"github.com/milk9111/sheetmap/marker"
	"github.com/milk9111/sheetmap/scene"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const DefaultImageConcurrency = 8

// Source is where rows and images come from. *feed.Fetcher implements it.
type Source interface {
	Records(ctx context.Context, src string) ([]feed.Record, error)
	Image(ctx context.Context, src string) (image.Image, error)
}

type Config struct {
	Rects  string
	Images string
	// ImageConcurrency bounds parallel image fetches; <= 0 uses the default.
	ImageConcurrency int
}

// FeedResult summarizes one feed. Failed counts images that could not be
// fetched or decoded and is always 0 for the rectangle feed.
type FeedResult struct {
	Source  string
	Rows    int
	Placed  int
	Skipped int
	Failed  int
	Err     error
}

type Result struct {
	Rects    FeedResult
	Images   FeedResult
	Duration time.Duration
}

type Loader struct {
	src Source
	cfg Config
	log zerolog.Logger
}

func New(src Source, cfg Config, log zerolog.Logger) *Loader {
	if cfg.ImageConcurrency <= 0 {
		cfg.ImageConcurrency = DefaultImageConcurrency
	}
	return &Loader{src: src, cfg: cfg, log: log.With().Str("component", "loader").Logger()}
}

// Load runs both feeds at once and returns when every marker has either
// been placed or given up on. A failing feed never affects the other one.
// Cancelling ctx stops outstanding image work.
func (l *Loader) Load(ctx context.Context, sc *scene.Scene) Result {
	start := time.Now()
	var res Result

	var g errgroup.Group
	g.Go(func() error {
		res.Rects = l.loadRects(ctx, sc)
		return nil
	})
	g.Go(func() error {
		res.Images = l.loadImages(ctx, sc)
		return nil
	})
	_ = g.Wait()

	res.Duration = time.Since(start)
	l.log.Info().
		Int("rects", res.Rects.Placed).
		Int("images", res.Images.Placed).
		Dur("took", res.Duration).
		Msg("load finished")
	return res
}

func (l *Loader) loadRects(ctx context.Context, sc *scene.Scene) FeedResult {
	fr := FeedResult{Source: l.cfg.Rects}
	if fr.Source == "" {
		return fr
	}
	recs, err := l.src.Records(ctx, fr.Source)
	if err != nil {
		l.log.Warn().Err(err).Str("feed", "rects").Msg("feed failed")
		fr.Err = err
		return fr
	}
	fr.Rows = len(recs)
	for _, rec := range recs {
		r, ok := marker.ParseRect(rec.Row)
		if !ok {
			fr.Skipped++
			l.log.Debug().Int("line", rec.Line).Msg("rect row skipped")
			continue
		}
		sc.AddRect(r.Bounds(), r.Fill, r.Label)
		fr.Placed++
	}
	return fr
}

func (l *Loader) loadImages(ctx context.Context, sc *scene.Scene) FeedResult {
	fr := FeedResult{Source: l.cfg.Images}
	if fr.Source == "" {
		return fr
	}
	recs, err := l.src.Records(ctx, fr.Source)
	if err != nil {
		l.log.Warn().Err(err).Str("feed", "images").Msg("feed failed")
		fr.Err = err
		return fr
	}
	fr.Rows = len(recs)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(l.cfg.ImageConcurrency)
	for _, rec := range recs {
		m, ok := marker.ParseImage(rec.Row)
		if !ok {
			fr.Skipped++
			l.log.Debug().Int("line", rec.Line).Msg("image row skipped")
			continue
		}
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			img, err := l.src.Image(ctx, m.Source)
			if err == nil {
				err = ctx.Err()
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fr.Failed++
				l.log.Debug().Err(err).Str("src", m.Source).Msg("image failed")
				return nil
			}
			sc.AddImage(m.Bounds(), img, m.Source)
			fr.Placed++
			return nil
		})
	}
	_ = g.Wait()
	return fr
}
