// Package config loads the viewer settings. Built-in defaults are embedded;
// a YAML file on disk overrides any subset of them.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window WindowConfig `yaml:"window"`
	Feeds  FeedsConfig  `yaml:"feeds"`
	View   ViewConfig   `yaml:"view"`
	Log    LogConfig    `yaml:"log"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type FeedsConfig struct {
	Rects            string        `yaml:"rects"`
	Images           string        `yaml:"images"`
	Refresh          time.Duration `yaml:"refresh"`
	Timeout          time.Duration `yaml:"timeout"`
	ImageConcurrency int           `yaml:"image_concurrency"`
	Watch            bool          `yaml:"watch"`
}

type ViewConfig struct {
	ZoomFactor float64 `yaml:"zoom_factor"`
	MinScale   float64 `yaml:"min_scale"`
	MaxScale   float64 `yaml:"max_scale"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the embedded configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded default.yaml: %v", err))
	}
	return cfg
}

// Load reads path on top of the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values the viewer cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.View.ZoomFactor <= 1:
		return fmt.Errorf("%w: zoom_factor must be > 1, got %v", ErrInvalid, c.View.ZoomFactor)
	case c.View.MinScale < 0 || c.View.MaxScale < 0:
		return fmt.Errorf("%w: scale bounds must not be negative", ErrInvalid)
	case c.View.MinScale > 0 && c.View.MaxScale > 0 && c.View.MinScale > c.View.MaxScale:
		return fmt.Errorf("%w: min_scale %v > max_scale %v", ErrInvalid, c.View.MinScale, c.View.MaxScale)
	case c.Feeds.Refresh < 0 || c.Feeds.Timeout < 0:
		return fmt.Errorf("%w: durations must not be negative", ErrInvalid)
	case c.Feeds.ImageConcurrency < 0:
		return fmt.Errorf("%w: image_concurrency must not be negative", ErrInvalid)
	}
	return nil
}
