// Package config loads the demo configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window WindowConfig `yaml:"window"`
	Assets AssetsConfig `yaml:"assets"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type AssetsConfig struct {
	// Root is the directory every asset path is resolved against.
	Root string `yaml:"root"`
	// Sprite is the texture loaded for the reloadable sprite.
	Sprite string `yaml:"sprite"`
	// Workers bounds concurrent background loads.
	Workers int64 `yaml:"workers"`
	// Watch reloads the sprite whenever its file changes on disk.
	Watch bool `yaml:"watch"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Reloadable Sprite",
			Width:  1280,
			Height: 720,
		},
		Assets: AssetsConfig{
			Root:    "assets",
			Sprite:  "icon.png",
			Workers: 2,
		},
	}
}

// Load reads the YAML file at filename on top of Default. An empty filename
// returns the defaults.
func Load(filename string) (Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values a running demo depends on.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Assets.Root == "":
		return fmt.Errorf("%w: assets.root is empty", ErrInvalid)
	case c.Assets.Sprite == "" || path.IsAbs(c.Assets.Sprite):
		return fmt.Errorf("%w: assets.sprite %q must be a relative path", ErrInvalid, c.Assets.Sprite)
	case c.Assets.Workers <= 0:
		return fmt.Errorf("%w: assets.workers must be positive", ErrInvalid)
	}
	return nil
}
