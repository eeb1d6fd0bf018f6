package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-marksnap/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string // MARKSNAP_CONFIG: config file path
	OutputDir  string // MARKSNAP_OUTPUT_DIR: where images are written
	StorePath  string // MARKSNAP_STORE: SQLite session file

	// Tier 2 - Rendering
	Theme     string // MARKSNAP_THEME: preset name, CSS path, or CSS text
	Canvas    string // MARKSNAP_CANVAS: canvas mode
	Width     int    // MARKSNAP_WIDTH: custom canvas width
	AssetPath string // MARKSNAP_ASSET_PATH: custom asset directory

	// Tier 3 - Export tuning and serving
	Timeout    string  // MARKSNAP_TIMEOUT: per-image capture timeout
	Delay      string  // MARKSNAP_DELAY: pause between images
	PixelRatio float64 // MARKSNAP_PIXEL_RATIO: device scale factor
	Workers    int     // MARKSNAP_WORKERS: parallel workers
	Addr       string  // MARKSNAP_ADDR: serve listen address
	Model      string  // MARKSNAP_ENHANCE_MODEL: Gemini model
}

// knownEnvVars lists valid MARKSNAP_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MARKSNAP_CONFIG":         true,
	"MARKSNAP_OUTPUT_DIR":     true,
	"MARKSNAP_STORE":          true,
	"MARKSNAP_THEME":          true,
	"MARKSNAP_CANVAS":         true,
	"MARKSNAP_WIDTH":          true,
	"MARKSNAP_ASSET_PATH":     true,
	"MARKSNAP_TIMEOUT":        true,
	"MARKSNAP_DELAY":          true,
	"MARKSNAP_PIXEL_RATIO":    true,
	"MARKSNAP_WORKERS":        true,
	"MARKSNAP_ADDR":           true,
	"MARKSNAP_ENHANCE_MODEL":  true,
	"MARKSNAP_GEMINI_API_KEY": true,
	"MARKSNAP_CONTAINER":      true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MARKSNAP_CONFIG"),
		OutputDir:  os.Getenv("MARKSNAP_OUTPUT_DIR"),
		StorePath:  os.Getenv("MARKSNAP_STORE"),
		Theme:      os.Getenv("MARKSNAP_THEME"),
		Canvas:     os.Getenv("MARKSNAP_CANVAS"),
		AssetPath:  os.Getenv("MARKSNAP_ASSET_PATH"),
		Addr:       os.Getenv("MARKSNAP_ADDR"),
		Model:      os.Getenv("MARKSNAP_ENHANCE_MODEL"),
	}

	if v := os.Getenv("MARKSNAP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = v
		}
	}
	if v := os.Getenv("MARKSNAP_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.Delay = v
		}
	}
	if v := os.Getenv("MARKSNAP_WIDTH"); v != "" {
		if w, err := strconv.Atoi(v); err == nil && w > 0 {
			cfg.Width = w
		}
	}
	if v := os.Getenv("MARKSNAP_PIXEL_RATIO"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil && r > 0 {
			cfg.PixelRatio = r
		}
	}
	if v := os.Getenv("MARKSNAP_WORKERS"); v != "" {
		if w, err := strconv.Atoi(v); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MARKSNAP_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MARKSNAP_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by each command's merge step).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString(&cfg.Output.Dir, env.OutputDir)
	setString(&cfg.Store.Path, env.StorePath)
	setString(&cfg.Theme.Name, env.Theme)
	setString(&cfg.Canvas.Mode, env.Canvas)
	setString(&cfg.Assets.BasePath, env.AssetPath)
	setString(&cfg.Export.Timeout, env.Timeout)
	setString(&cfg.Export.Delay, env.Delay)
	setString(&cfg.Server.Addr, env.Addr)
	setString(&cfg.Enhance.Model, env.Model)

	if env.Width > 0 && cfg.Canvas.Width == 0 {
		cfg.Canvas.Width = env.Width
	}
	if env.PixelRatio > 0 && cfg.Export.PixelRatio == 0 {
		cfg.Export.PixelRatio = env.PixelRatio
	}
	if env.Workers > 0 && cfg.Export.Workers == 0 {
		cfg.Export.Workers = env.Workers
	}
}

// setString fills dst with value when dst is empty.
func setString(dst *string, value string) {
	if value != "" && *dst == "" {
		*dst = value
	}
}
