// Package config reads the command defaults from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the values every tear command starts from. Flags override
// them.
type Config struct {
	Width      int           `env:"TEAR_WIDTH"       envDefault:"800"`
	Height     int           `env:"TEAR_HEIGHT"      envDefault:"600"`
	FPS        int           `env:"TEAR_FPS"         envDefault:"60"`
	Workers    int           `env:"TEAR_WORKERS"     envDefault:"0"`
	Duration   time.Duration `env:"TEAR_DURATION"    envDefault:"1500ms"`
	IntroDelay time.Duration `env:"TEAR_INTRO_DELAY" envDefault:"250ms"`
	Ease       string        `env:"TEAR_EASE"        envDefault:"power2.out"`
	Preset     string        `env:"TEAR_PRESET"`
	MaxTexture int           `env:"TEAR_MAX_TEXTURE" envDefault:"2048"`
	Addr       string        `env:"TEAR_ADDR"        envDefault:"127.0.0.1:8080"`
	LogLevel   string        `env:"TEAR_LOG_LEVEL"   envDefault:"info"`
}

// Load reads dotenv files (".env" when none are given) and then parses
// the environment. Missing dotenv files are not an error; variables
// already set in the environment win over dotenv values.
func Load(dotenv ...string) (Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no command can run with.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("config: size %dx%d must be positive", c.Width, c.Height)
	case c.FPS <= 0:
		return fmt.Errorf("config: fps %d must be positive", c.FPS)
	case c.Duration < 0:
		return fmt.Errorf("config: duration %s must not be negative", c.Duration)
	case c.MaxTexture < 0:
		return fmt.Errorf("config: max texture %d must not be negative", c.MaxTexture)
	}
	return nil
}

// FrameInterval is the time between frames at FPS.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// Default returns the values Parse yields for an empty environment.
func Default() Config {
	return Config{
		Width:      800,
		Height:     600,
		FPS:        60,
		Duration:   1500 * time.Millisecond,
		IntroDelay: 250 * time.Millisecond,
		Ease:       "power2.out",
		MaxTexture: 2048,
		Addr:       "127.0.0.1:8080",
		LogLevel:   "info",
	}
}
