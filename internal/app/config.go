package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/hellogpu/internal/shader"
	"gopkg.in/yaml.v3"
)

// ConfigFilename is the optional config file looked up next to the
// executable.
const ConfigFilename = "app.yml"

// maxConfigSize caps the config file size.
const maxConfigSize = 1 << 20

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("app: invalid config")

// Config holds window, metadata and runtime settings of a program.
type Config struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
	ID      string `yaml:"id"`

	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Resources is the shader directory. Relative paths are resolved
	// against the base path; empty means "resources" there.
	Resources string `yaml:"resources"`

	// ShaderFormat forces one shader format: naga, spirv, wgsl, or auto
	// (empty) to follow the backend.
	ShaderFormat string `yaml:"shader_format"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// skipped is the optional config file error held back until the
	// logger is installed.
	skipped error
}

// DefaultConfig returns a 640x480 configuration with version "1.0".
func DefaultConfig(title, id string) Config {
	return Config{
		Title:    title,
		Version:  "1.0",
		ID:       id,
		Width:    640,
		Height:   480,
		LogLevel: "info",
	}
}

// Load overlays the YAML file at path onto c. Keys missing from the file
// keep their current values.
func (c *Config) Load(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("app: config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return fmt.Errorf("app: config %s: %d bytes exceeds %d", path, info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("app: config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("app: parse config %s: %w", path, err)
	}
	return nil
}

// LoadOptional is Load for a file that may be absent. A missing file is
// not an error. An unreadable or malformed one leaves c untouched and its
// error is returned for the caller to report.
func (c *Config) LoadOptional(path string) error {
	loaded := *c
	if err := loaded.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	*c = loaded
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if _, err := shader.ParseFormat(c.ShaderFormat); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// FormatOverride returns the forced shader format, or FormatInvalid when
// the backend decides.
func (c Config) FormatOverride() shader.Format {
	f, _ := shader.ParseFormat(c.ShaderFormat)
	return f
}

// Level returns the configured log level, defaulting to info.
func (c Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ResourceDir returns the absolute shader directory for base.
func (c Config) ResourceDir(base string) string {
	dir := c.Resources
	if dir == "" {
		dir = "resources"
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

// ParseLevel parses a log level name. The empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("app: unknown log level %q", s)
	}
}

// BasePath returns the directory holding the running executable, falling
// back to the working directory.
func BasePath() string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
