// Package config loads the magblocks configuration from an optional TOML file.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"magblocks/internal/board"
	"magblocks/internal/splash"
)

// Config is the decoded configuration file.
type Config struct {
	Addr     string        `toml:"addr"`
	BaseURL  string        `toml:"base_url"`
	Surface  SurfaceConfig `toml:"surface"`
	Splash   SplashConfig  `toml:"splash"`
	Sessions SessionConfig `toml:"sessions"`
}

// SurfaceConfig sizes the board surface in pixels.
type SurfaceConfig struct {
	Width     float64 `toml:"width"`
	Height    float64 `toml:"height"`
	BlockSize float64 `toml:"block_size"`
}

// SplashConfig controls the splash overlay.
type SplashConfig struct {
	DurationMS int `toml:"duration_ms"`
}

// SessionConfig controls how long idle boards are kept.
type SessionConfig struct {
	IdleMinutes int `toml:"idle_minutes"`
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr: ":8080",
		Surface: SurfaceConfig{
			Width:     board.DefaultWidth,
			Height:    board.DefaultHeight,
			BlockSize: board.DefaultBlockSize,
		},
		Splash: SplashConfig{
			DurationMS: int(splash.DefaultDuration / time.Millisecond),
		},
		Sessions: SessionConfig{
			IdleMinutes: 60,
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
// The PORT environment variable, when set, replaces the port of Addr.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Addr = withPort(cfg.Addr, port)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no board can be built from.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr is empty", ErrInvalid)
	}
	if c.Surface.BlockSize <= 0 {
		return fmt.Errorf("%w: surface.block_size must be positive", ErrInvalid)
	}
	if c.Surface.Width < c.Surface.BlockSize || c.Surface.Height < c.Surface.BlockSize {
		return fmt.Errorf("%w: surface must be at least one block wide and tall", ErrInvalid)
	}
	if c.Splash.DurationMS < 0 {
		return fmt.Errorf("%w: splash.duration_ms is negative", ErrInvalid)
	}
	if c.Sessions.IdleMinutes < 0 {
		return fmt.Errorf("%w: sessions.idle_minutes is negative", ErrInvalid)
	}
	return nil
}

// BoardSurface converts the surface section.
func (c Config) BoardSurface() board.Surface {
	return board.Surface{
		Width:     c.Surface.Width,
		Height:    c.Surface.Height,
		BlockSize: c.Surface.BlockSize,
	}
}

// SplashDuration returns the splash length; zero means the default.
func (c Config) SplashDuration() time.Duration {
	if c.Splash.DurationMS <= 0 {
		return splash.DefaultDuration
	}
	return time.Duration(c.Splash.DurationMS) * time.Millisecond
}

// IdleTimeout returns how long an unused board survives. Zero disables pruning.
func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.Sessions.IdleMinutes) * time.Minute
}

func withPort(addr, port string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, port)
}
