package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/sheetmap/common"
	"github.com/milk9111/sheetmap/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		boot := common.NewLogger("info", nil)
		boot.Error().Err(err).Msg("sheetmap")
		os.Exit(1)
	}
}

// run returns instead of exiting so every deferred Close gets to run.
func run(args []string) error {
	cfg, debug, err := parseConfig(args)
	if err != nil {
		return err
	}

	var logFile io.Writer
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logFile = f
	}
	logger := common.NewLogger(cfg.Log.Level, logFile)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	game, err := NewGame(cfg, logger, debug)
	if err != nil {
		logger.Error().Err(err).Msg("start")
		return err
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error().Err(err).Msg("run")
		return err
	}
	return nil
}

// parseConfig reads flags from args and layers them over the config file.
func parseConfig(args []string) (config.Config, bool, error) {
	fs := flag.NewFlagSet("sheetmap", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file; built-in defaults when empty")
	rects := fs.String("rects", "", "rectangle feed: CSV URL or local path")
	images := fs.String("images", "", "image feed: CSV URL or local path")
	debug := fs.Bool("debug", false, "debug logging and frame stats")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, false, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return config.Config{}, false, err
	}
	if *rects != "" {
		cfg.Feeds.Rects = *rects
	}
	if *images != "" {
		cfg.Feeds.Images = *images
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, false, err
	}
	return cfg, *debug, nil
}
