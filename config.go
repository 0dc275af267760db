// config.go - YAML configuration for the emulator

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultRefreshMS   = 50
	defaultMouseFadeMS = 30000
	defaultFBDevice    = "/dev/fb0"
	defaultTTYDevice   = "/dev/tty0"
	defaultMouseDevice = "/dev/input/mice"
)

// Config is the run-time configuration of one display surface.
type Config struct {
	Backend     string `yaml:"backend"` // auto, fb, x11, window, headless
	Scale       int    `yaml:"scale"`   // 1..4
	Depth       int    `yaml:"depth"`   // 16 or 32
	Mono        bool   `yaml:"mono"`
	RefreshMS   int    `yaml:"refresh_ms"`
	MouseFadeMS int    `yaml:"mouse_fade_ms"`
	Rotate      bool   `yaml:"rotate"` // turn the display 180 degrees
	Fullscreen  bool   `yaml:"fullscreen"`

	FBDevice    string `yaml:"fb_device"`
	TTYDevice   string `yaml:"tty_device"`
	MouseDevice string `yaml:"mouse_device"`

	EarthDay   string `yaml:"earth_day"`
	EarthNight string `yaml:"earth_night"`

	LogLevel string `yaml:"log_level"`
}

// ValidationError names the offending config key.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func DefaultConfig() Config {
	c := Config{}
	c.applyDefaults()
	return c
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "ra8875emu", "config.yaml"), nil
}

// LoadConfig reads path, or the default path when empty. A missing default
// file yields the defaults; a missing explicit file is an error.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	c, err := ParseConfig(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseConfig decodes YAML, rejecting unknown keys, and fills defaults.
func ParseConfig(r io.Reader) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = "auto"
	}
	if c.Scale == 0 {
		c.Scale = 1
	}
	if c.Depth == 0 {
		c.Depth = 32
	}
	if c.RefreshMS == 0 {
		c.RefreshMS = defaultRefreshMS
	}
	if c.MouseFadeMS == 0 {
		c.MouseFadeMS = defaultMouseFadeMS
	}
	if c.FBDevice == "" {
		c.FBDevice = defaultFBDevice
	}
	if c.TTYDevice == "" {
		c.TTYDevice = defaultTTYDevice
	}
	if c.MouseDevice == "" {
		c.MouseDevice = defaultMouseDevice
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) Validate() error {
	switch c.Backend {
	case "auto", "fb", "x11", "window", "headless":
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: auto, fb, x11, window, headless")}
	}
	if _, ok := Resolutions[c.Scale]; !ok {
		return &ValidationError{Path: "scale", Err: fmt.Errorf("scale must be 1, 2, 3 or 4")}
	}
	if c.Depth != 16 && c.Depth != 32 {
		return &ValidationError{Path: "depth", Err: fmt.Errorf("depth must be 16 or 32")}
	}
	if c.RefreshMS < 0 {
		return &ValidationError{Path: "refresh_ms", Err: fmt.Errorf("refresh_ms must be >= 0")}
	}
	if c.MouseFadeMS < 0 {
		return &ValidationError{Path: "mouse_fade_ms", Err: fmt.Errorf("mouse_fade_ms must be >= 0")}
	}
	if (c.EarthDay == "") != (c.EarthNight == "") {
		return &ValidationError{Path: "earth_day", Err: fmt.Errorf("earth_day and earth_night must be set together")}
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}
	return nil
}

func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshMS) * time.Millisecond
}

func (c Config) MouseFade() time.Duration {
	return time.Duration(c.MouseFadeMS) * time.Millisecond
}

func (c Config) PixelDepth() PixelDepth {
	if c.Depth == 16 {
		return Depth16
	}
	return Depth32
}

// ErrNoDisplay is returned for backend auto when neither an X display nor
// a framebuffer device is available. headless is never chosen implicitly.
var ErrNoDisplay = errors.New("no X display and no framebuffer device")

// ResolveBackend turns "auto" into a concrete compiled backend: x11 when a
// display is reachable, else the framebuffer when its device exists.
func (c Config) ResolveBackend() (string, error) {
	if c.Backend != "auto" {
		return c.Backend, nil
	}
	if os.Getenv("DISPLAY") != "" {
		for _, b := range []string{"x11", "window"} {
			if backendCompiled(b) {
				return b, nil
			}
		}
	}
	if backendCompiled("fb") {
		if _, err := os.Stat(c.FBDevice); err == nil {
			return "fb", nil
		}
	}
	return "", fmt.Errorf("backend auto, fb_device %s: %w", c.FBDevice, ErrNoDisplay)
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log_level must be one of: debug, info, warn, error")
}
