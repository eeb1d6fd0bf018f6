package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-marksnap"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.DelayDuration() != marksnap.DefaultExportDelay {
		t.Errorf("DelayDuration() = %v, want %v", cfg.DelayDuration(), marksnap.DefaultExportDelay)
	}
	if cfg.TimeoutDuration() != 0 {
		t.Errorf("TimeoutDuration() = %v, want 0", cfg.TimeoutDuration())
	}
}

func TestValidateFieldLength(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", value: "", maxLength: 10},
		{name: "value at limit is valid", value: "1234567890", maxLength: 10},
		{name: "value over limit returns error", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				if err != nil && !strings.Contains(err.Error(), "test.field") {
					t.Errorf("error %q should name the field", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "valid full config", cfg: Config{
			Output: OutputConfig{Dir: "out"},
			Canvas: CanvasConfig{Mode: "custom", Width: 640},
			Export: ExportConfig{Delay: "150ms", PixelRatio: 3, Timeout: "45s", Workers: 4},
			Server: ServerConfig{Addr: ":9090", Metrics: true},
		}},
		{name: "canvas mode is case-insensitive", cfg: Config{Canvas: CanvasConfig{Mode: "Tablet"}}},
		{name: "unknown canvas mode", cfg: Config{Canvas: CanvasConfig{Mode: "poster"}}, wantErr: ErrInvalidValue},
		{name: "negative width", cfg: Config{Canvas: CanvasConfig{Width: -1}}, wantErr: ErrInvalidValue},
		{name: "bad delay", cfg: Config{Export: ExportConfig{Delay: "soon"}}, wantErr: ErrInvalidValue},
		{name: "delay too long", cfg: Config{Export: ExportConfig{Delay: "1m"}}, wantErr: ErrInvalidValue},
		{name: "negative timeout", cfg: Config{Export: ExportConfig{Timeout: "-1s"}}, wantErr: ErrInvalidValue},
		{name: "pixel ratio too high", cfg: Config{Export: ExportConfig{PixelRatio: 8}}, wantErr: ErrInvalidValue},
		{name: "too many workers", cfg: Config{Export: ExportConfig{Workers: MaxWorkers + 1}}, wantErr: ErrInvalidValue},
		{name: "model too long", cfg: Config{Enhance: EnhanceConfig{Model: strings.Repeat("m", MaxModelLength+1)}}, wantErr: ErrFieldTooLong},
		{name: "addr too long", cfg: Config{Server: ServerConfig{Addr: strings.Repeat("a", MaxAddrLength+1)}}, wantErr: ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := Config{Export: ExportConfig{Delay: "0s", Timeout: "45s"}}

	if got := cfg.DelayDuration(); got != 0 {
		t.Errorf("DelayDuration() = %v, want 0 (explicit zero is kept)", got)
	}
	if got := cfg.TimeoutDuration(); got != 45*time.Second {
		t.Errorf("TimeoutDuration() = %v, want 45s", got)
	}

	bad := Config{Export: ExportConfig{Delay: "nope"}}
	if got := bad.DelayDuration(); got != marksnap.DefaultExportDelay {
		t.Errorf("invalid DelayDuration() = %v, want default", got)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("valid file", func(t *testing.T) {
		path := write("valid.yaml", `
output:
  dir: ./images
store:
  path: ./state.db
canvas:
  mode: mobile
theme:
  name: dracula
export:
  delay: 100ms
  pixelRatio: 1.5
  workers: 2
server:
  addr: 127.0.0.1:9000
  metrics: true
enhance:
  model: gemini-test
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Output.Dir != "./images" || cfg.Store.Path != "./state.db" {
			t.Errorf("paths = %q, %q", cfg.Output.Dir, cfg.Store.Path)
		}
		if cfg.Canvas.Mode != "mobile" || cfg.Theme.Name != "dracula" {
			t.Errorf("canvas/theme = %q, %q", cfg.Canvas.Mode, cfg.Theme.Name)
		}
		if cfg.DelayDuration() != 100*time.Millisecond || cfg.Export.PixelRatio != 1.5 || cfg.Export.Workers != 2 {
			t.Errorf("export = %+v", cfg.Export)
		}
		if !cfg.Server.Metrics || cfg.Server.Addr != "127.0.0.1:9000" {
			t.Errorf("server = %+v", cfg.Server)
		}
		if cfg.Enhance.Model != "gemini-test" {
			t.Errorf("enhance.model = %q", cfg.Enhance.Model)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		path := write("unknown.yaml", "output:\n  directory: x\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		path := write("invalid.yaml", "canvas:\n  mode: poster\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("LoadConfig() error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("LoadConfig() error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("unknown name lists tried paths", func(t *testing.T) {
		_, err := LoadConfig("definitely-not-a-config")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "definitely-not-a-config.yaml") {
			t.Errorf("error %q should list tried paths", err)
		}
	})
}

func TestDefaultStorePath(t *testing.T) {
	got := DefaultStorePath()
	if !strings.HasSuffix(got, "marksnap.db") {
		t.Errorf("DefaultStorePath() = %q, want a marksnap.db file", got)
	}
}
