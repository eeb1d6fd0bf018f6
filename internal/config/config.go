package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-marksnap"
	"github.com/alnah/go-marksnap/internal/fileutil"
	"github.com/alnah/go-marksnap/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppName names the per-user config and data directories.
const AppName = "marksnap"

// Field length limits.
const (
	MaxPathLength  = 4096
	MaxAddrLength  = 255
	MaxModelLength = 100
	MaxThemeLength = 64 << 10 // inline CSS is allowed
)

// Bounds for numeric settings.
const (
	MaxWorkers = 32
	MaxDelay   = 10 * time.Second
	MaxTimeout = 10 * time.Minute
)

// Config holds all configuration for exporting and serving.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Store   StoreConfig   `yaml:"store"`
	Assets  AssetsConfig  `yaml:"assets"`
	Canvas  CanvasConfig  `yaml:"canvas"`
	Theme   ThemeConfig   `yaml:"theme"`
	Export  ExportConfig  `yaml:"export"`
	Server  ServerConfig  `yaml:"server"`
	Enhance EnhanceConfig `yaml:"enhance"`
}

// OutputConfig defines where images are written.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Empty = current directory
}

// StoreConfig defines session persistence.
type StoreConfig struct {
	Path string `yaml:"path"` // SQLite file; empty = user data dir
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// CanvasConfig sets the canvas for batch exports of files.
type CanvasConfig struct {
	Mode  string `yaml:"mode"`  // auto, mobile, tablet, desktop, custom
	Width int    `yaml:"width"` // used when mode is custom
}

// ThemeConfig sets the theme for batch exports of files.
type ThemeConfig struct {
	Name string `yaml:"name"` // preset name, CSS file path, or inline CSS
}

// ExportConfig tunes the export pipeline.
type ExportConfig struct {
	Delay      string  `yaml:"delay"`      // pause between images, e.g. "300ms"
	PixelRatio float64 `yaml:"pixelRatio"` // device scale factor (default 2)
	Timeout    string  `yaml:"timeout"`    // per-image capture timeout, e.g. "30s"
	Workers    int     `yaml:"workers"`    // batch parallelism; 0 = auto
}

// ServerConfig defines the HTTP shell.
type ServerConfig struct {
	Addr    string `yaml:"addr"`    // listen address (default 127.0.0.1:8080)
	Metrics bool   `yaml:"metrics"` // expose /metrics
}

// EnhanceConfig defines text enhancement.
type EnhanceConfig struct {
	Model string `yaml:"model"` // Gemini model name
}

// Validate checks lengths and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name, value string
		max         int
	}{
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"store.path", c.Store.Path, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"theme.name", c.Theme.Name, MaxThemeLength},
		{"server.addr", c.Server.Addr, MaxAddrLength},
		{"enhance.model", c.Enhance.Model, MaxModelLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Canvas.Mode != "" {
		if _, err := marksnap.ParseCanvasMode(c.Canvas.Mode); err != nil {
			return fmt.Errorf("%w: canvas.mode: %v", ErrInvalidValue, err)
		}
	}
	if c.Canvas.Width < 0 {
		return fmt.Errorf("%w: canvas.width: must not be negative, got %d", ErrInvalidValue, c.Canvas.Width)
	}

	if _, err := parseDuration("export.delay", c.Export.Delay, MaxDelay); err != nil {
		return err
	}
	if _, err := parseDuration("export.timeout", c.Export.Timeout, MaxTimeout); err != nil {
		return err
	}
	if c.Export.PixelRatio < 0 || c.Export.PixelRatio > marksnap.MaxPixelRatio {
		return fmt.Errorf("%w: export.pixelRatio: must be between 0 and %g, got %g", ErrInvalidValue, marksnap.MaxPixelRatio, c.Export.PixelRatio)
	}
	if c.Export.Workers < 0 || c.Export.Workers > MaxWorkers {
		return fmt.Errorf("%w: export.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Export.Workers)
	}

	return nil
}

// DelayDuration returns export.delay, or the default when unset.
// Call Validate first; invalid values also yield the default.
func (c *Config) DelayDuration() time.Duration {
	d, err := parseDuration("export.delay", c.Export.Delay, MaxDelay)
	if err != nil || c.Export.Delay == "" {
		return marksnap.DefaultExportDelay
	}
	return d
}

// TimeoutDuration returns export.timeout, or zero when unset.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := parseDuration("export.timeout", c.Export.Timeout, MaxTimeout)
	if err != nil {
		return 0
	}
	return d
}

// parseDuration parses an optional duration field bounded by max.
func parseDuration(field, value string, max time.Duration) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
	}
	if d < 0 || d > max {
		return 0, fmt.Errorf("%w: %s: must be between 0 and %s, got %s", ErrInvalidValue, field, max, d)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration where every field falls back to the
// library defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// DefaultStorePath returns the SQLite path used when store.path is empty:
// <user config dir>/marksnap/marksnap.db, or ./marksnap.db if that dir is unknown.
func DefaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return AppName + ".db"
	}
	return filepath.Join(dir, AppName, AppName+".db")
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/marksnap/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
