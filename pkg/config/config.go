// Package config loads and saves forcegraph's TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/forcegraph/config.toml (usually
// ~/.config/forcegraph/config.toml). Every key is optional; missing keys
// keep their defaults, so a file containing only
//
//	[physics]
//	ideal_distance = 200
//
// changes one constant and nothing else. Command-line flags override the
// loaded values.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/sim"
)

// Config holds forcegraph configuration.
type Config struct {
	Canvas  CanvasConfig `toml:"canvas"`
	Physics sim.Params   `toml:"physics"`
	Theme   render.Theme `toml:"theme"`
	Cache   CacheConfig  `toml:"cache"`
	Server  ServerConfig `toml:"server"`
}

// CanvasConfig sets the drawing surface and frame clock.
type CanvasConfig struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	DPR    float64 `toml:"dpr"`
	FPS    int     `toml:"fps"`
	Ticks  int     `toml:"ticks"` // headless simulation length
	Seed   uint64  `toml:"seed"`
}

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"` // "file", "redis", "none"
	Dir      string   `toml:"dir"`     // empty means the XDG cache dir
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// ServerConfig controls `forcegraph serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string ("168h") in TOML.
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:  800,
			Height: 600,
			DPR:    1,
			FPS:    60,
			Ticks:  300,
			Seed:   1,
		},
		Physics: sim.DefaultParams(),
		Theme:   render.DefaultTheme(),
		Cache: CacheConfig{
			Backend:  BackendFile,
			RedisURL: "redis://localhost:6379/0",
			TTL:      Duration{7 * 24 * time.Hour},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if err := errs.ValidatePixelRatio(c.Canvas.DPR); err != nil {
		return err
	}
	if c.Canvas.FPS <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "fps must be positive, got %d", c.Canvas.FPS)
	}
	if c.Canvas.Ticks < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "ticks cannot be negative, got %d", c.Canvas.Ticks)
	}
	if err := c.Physics.Validate(); err != nil {
		return err
	}
	if err := c.Theme.Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	return nil
}

// Dir returns the forcegraph config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "forcegraph")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config at path over the defaults. A missing file is not
// an error and yields the defaults. An empty path means [DefaultPath].
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "read config %s", path)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "config %s", path)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Marshal encodes cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}

// EnsureExists writes the defaults to path if no file exists there. It
// reports whether a file was created.
func EnsureExists(path string) (bool, error) {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := Save(path, Default()); err != nil {
		return false, err
	}
	return true, nil
}
