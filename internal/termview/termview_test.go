package termview

import (
	"strings"
	"testing"

	"github.com/charmbracelet/glamour/styles"

	"github.com/alnah/go-marksnap"
)

func TestPreviewer_Render(t *testing.T) {
	t.Parallel()

	p, err := New(marksnap.ThemeConfig{}, WithStyle(styles.AsciiStyle), WithColumns(60))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := p.Render("# Intro\n\nHello **world**.\n\n===\n\nNo heading here.", marksnap.ResolveWidth(marksnap.CanvasMobile, 0))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{"1/2  Intro", "2/2  Segment 2", "Hello", "No heading here.", "2 segment(s), canvas 375px"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() output missing %q:\n%s", want, out)
		}
	}
}

func TestPreviewer_Render_Empty(t *testing.T) {
	t.Parallel()

	p, err := New(marksnap.ThemeConfig{}, WithStyle(styles.NoTTYStyle))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out, err := p.Render("===\n", marksnap.ResolveWidth(marksnap.CanvasAuto, 0))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "empty document") {
		t.Errorf("Render() = %q, want empty-document notice", out)
	}
}

func TestPreviewer_Render_NoBorder(t *testing.T) {
	t.Parallel()

	p, err := New(marksnap.ThemeConfig{}, WithStyle(styles.AsciiStyle), WithBorder(false))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out, err := p.Render("plain", marksnap.ResolveWidth(marksnap.CanvasDesktop, 0))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(out, "╭") {
		t.Error("border should be disabled")
	}
}

func TestNew_InvalidStyle(t *testing.T) {
	t.Parallel()

	if _, err := New(marksnap.ThemeConfig{}, WithStyle("neon")); err == nil {
		t.Error("New() expected error for unknown style")
	}
}

func TestColumns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		width marksnap.CanvasWidth
		want  int
	}{
		{marksnap.CanvasWidth{Pixels: 100}, MinColumns},
		{marksnap.CanvasWidth{Pixels: 375}, 41},
		{marksnap.CanvasWidth{Pixels: 768}, 85},
		{marksnap.CanvasWidth{Pixels: 2000}, MaxColumns},
	}
	for _, tt := range tests {
		if got := Columns(tt.width); got != tt.want {
			t.Errorf("Columns(%d) = %d, want %d", tt.width.Pixels, got, tt.want)
		}
	}
}

func TestStyleForTheme(t *testing.T) {
	t.Parallel()

	preset := func(id string) marksnap.ThemeConfig {
		cfg, err := marksnap.ThemeConfig{}.WithPreset(id)
		if err != nil {
			t.Fatalf("WithPreset(%q) error = %v", id, err)
		}
		return cfg
	}

	tests := []struct {
		name  string
		theme marksnap.ThemeConfig
		want  string
	}{
		{name: "default", theme: marksnap.ThemeConfig{}, want: styles.LightStyle},
		{name: "github dark", theme: preset("github-dark"), want: styles.DarkStyle},
		{name: "dracula", theme: preset("dracula"), want: styles.DraculaStyle},
		{name: "custom css", theme: marksnap.ThemeConfig{CustomCSS: "p{}"}, want: styles.LightStyle},
	}
	for _, tt := range tests {
		if got := StyleForTheme(tt.theme); got != tt.want {
			t.Errorf("%s: StyleForTheme() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
