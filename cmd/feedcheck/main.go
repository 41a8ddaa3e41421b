// Command feedcheck loads the marker feeds without opening a window and
// reports which rows would be placed. Exit status is 1 when a feed or an
// image fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/milk9111/sheetmap/common"
	"github.com/milk9111/sheetmap/config"
	"github.com/milk9111/sheetmap/feed"
	"github.com/milk9111/sheetmap/loader"
	"github.com/milk9111/sheetmap/marker"
	"github.com/milk9111/sheetmap/scene"
)

func main() {
	configPath := flag.String("config", "", "YAML config file; built-in defaults when empty")
	rects := flag.String("rects", "", "rectangle feed: CSV URL or local path")
	images := flag.String("images", "", "image feed: CSV URL or local path")
	verbose := flag.Bool("v", false, "list every skipped row")
	flag.Parse()

	log := common.NewLogger("warn", nil)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if *rects != "" {
		cfg.Feeds.Rects = *rects
	}
	if *images != "" {
		cfg.Feeds.Images = *images
	}

	ok := check(context.Background(), feed.NewFetcher(cfg.Feeds.Timeout), cfg.Feeds, *verbose, os.Stdout, log)
	if !ok {
		os.Exit(1)
	}
}

// check prints a report for both feeds and returns false if anything
// failed to load.
func check(ctx context.Context, f *feed.Fetcher, feeds config.FeedsConfig, verbose bool, out io.Writer, log zerolog.Logger) bool {
	l := loader.New(f, loader.Config{
		Rects:            feeds.Rects,
		Images:           feeds.Images,
		ImageConcurrency: feeds.ImageConcurrency,
	}, log)
	res := l.Load(ctx, scene.New())

	report(out, "rects", res.Rects)
	if verbose && res.Rects.Skipped > 0 {
		listSkipped(ctx, f, out, feeds.Rects, func(r feed.Row) bool {
			_, ok := marker.ParseRect(r)
			return ok
		})
	}
	report(out, "images", res.Images)
	if verbose && res.Images.Skipped > 0 {
		listSkipped(ctx, f, out, feeds.Images, func(r feed.Row) bool {
			_, ok := marker.ParseImage(r)
			return ok
		})
	}

	return res.Rects.Err == nil && res.Images.Err == nil && res.Images.Failed == 0
}

func report(out io.Writer, name string, fr loader.FeedResult) {
	switch {
	case fr.Source == "":
		fmt.Fprintf(out, "%-6s disabled\n", name)
	case fr.Err != nil:
		fmt.Fprintf(out, "%-6s FAILED %v\n", name, fr.Err)
	default:
		fmt.Fprintf(out, "%-6s rows=%d placed=%d skipped=%d failed=%d\n",
			name, fr.Rows, fr.Placed, fr.Skipped, fr.Failed)
	}
}

func listSkipped(ctx context.Context, f *feed.Fetcher, out io.Writer, src string, valid func(feed.Row) bool) {
	recs, err := f.Records(ctx, src)
	if err != nil {
		return
	}
	for _, rec := range recs {
		if valid(rec.Row) {
			continue
		}
		fmt.Fprintf(out, "  line %d: %s\n", rec.Line, formatRow(rec.Row))
	}
}

func formatRow(row feed.Row) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, row[k]))
	}
	return strings.Join(parts, " ")
}
