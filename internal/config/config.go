// Package config holds the settings of a presentation session. Settings come
// from defaults, an optional YAML or TOML file and finally command flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type Config struct {
	InputPath   string   `yaml:"input" toml:"input"`
	SearchPaths []string `yaml:"paths" toml:"paths"`
	// Options are passed to the presentation reader, e.g. holding_slide.
	Options []string `yaml:"options" toml:"options"`

	SlideWidth    float64 `yaml:"slide_width" toml:"slide_width"`
	SlideHeight   float64 `yaml:"slide_height" toml:"slide_height"`
	SlideDistance float64 `yaml:"slide_distance" toml:"slide_distance"`

	// TimePerSlide overrides the presentation duration when positive.
	TimePerSlide   float64 `yaml:"time_per_slide" toml:"time_per_slide"`
	MinKeyInterval float64 `yaml:"min_key_interval" toml:"min_key_interval"`
	Loop           bool    `yaml:"loop" toml:"loop"`
	AutoStep       bool    `yaml:"auto" toml:"auto"`

	Width    int    `yaml:"width" toml:"width"`
	Height   int    `yaml:"height" toml:"height"`
	Headless bool   `yaml:"headless" toml:"headless"`
	Hz       int    `yaml:"hz" toml:"hz"`
	Ticks    uint64 `yaml:"ticks" toml:"ticks"`

	Watch          bool   `yaml:"watch" toml:"watch"`
	ShowStats      bool   `yaml:"stats" toml:"stats"`
	OutlineOutput  string `yaml:"outline" toml:"outline"`
	PreloadWorkers int    `yaml:"preload_workers" toml:"preload_workers"`
	LogLevel       string `yaml:"log_level" toml:"log_level"`

	BuildVersion string `yaml:"-" toml:"-"`
}

func Default() *Config {
	return &Config{
		SlideWidth:     0.26 * 1280 / 1024,
		SlideHeight:    0.26,
		SlideDistance:  0.5,
		MinKeyInterval: 0.25,
		Width:          1280,
		Height:         1024,
		Hz:             60,
		LogLevel:       "info",
	}
}

// Load reads a configuration file over the defaults. The format follows the
// extension: .yaml, .yml or .toml.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config %s: unknown format", path)
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ExpandPaths resolves a leading ~ in the input and search paths.
func (c *Config) ExpandPaths() error {
	var err error
	if c.InputPath, err = homedir.Expand(c.InputPath); err != nil {
		return err
	}
	for i, p := range c.SearchPaths {
		if c.SearchPaths[i], err = homedir.Expand(p); err != nil {
			return err
		}
	}
	return nil
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Validate rejects settings the session cannot run with.
func (c *Config) Validate() error {
	if c.SlideWidth <= 0 || c.SlideHeight <= 0 {
		return fmt.Errorf("slide size must be positive, got %gx%g", c.SlideWidth, c.SlideHeight)
	}
	if c.Headless && c.Hz <= 0 {
		return fmt.Errorf("invalid headless hz: %d", c.Hz)
	}
	if c.MinKeyInterval < 0 {
		return fmt.Errorf("min key interval must not be negative, got %g", c.MinKeyInterval)
	}
	return nil
}
