// Package termview previews segments in the terminal.
//
// Each segment is rendered with glamour and framed with lipgloss, roughly
// sized to the canvas width, so a document can be checked without a browser.
package termview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/alnah/go-marksnap"
)

// Column bounds for the word-wrap width.
const (
	MinColumns = 30
	MaxColumns = 120

	// pixelsPerColumn approximates a monospace cell at 16px body text.
	pixelsPerColumn = 9
)

// Styles accepted by WithStyle.
var Styles = []string{styles.DarkStyle, styles.LightStyle, styles.TokyoNightStyle, styles.DraculaStyle, styles.NoTTYStyle, styles.AsciiStyle}

var (
	brandColor = lipgloss.Color("#0969da")
	dimColor   = lipgloss.Color("#8b949e")

	headerStyle = lipgloss.NewStyle().Foreground(brandColor).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(dimColor)
)

// Previewer renders segments for the terminal.
type Previewer struct {
	style   string
	columns int // 0 derives the width from the canvas
	border  bool
}

// Option configures a Previewer.
type Option func(*Previewer)

// WithStyle selects a glamour standard style by name.
func WithStyle(name string) Option {
	return func(p *Previewer) {
		if name != "" {
			p.style = name
		}
	}
}

// WithColumns fixes the wrap width instead of deriving it from the canvas.
func WithColumns(n int) Option {
	return func(p *Previewer) {
		if n > 0 {
			p.columns = n
		}
	}
}

// WithBorder toggles the frame around each segment.
func WithBorder(on bool) Option {
	return func(p *Previewer) {
		p.border = on
	}
}

// New creates a Previewer. The default style follows the theme: dark presets
// get the dark style, everything else the light one.
func New(theme marksnap.ThemeConfig, opts ...Option) (*Previewer, error) {
	p := &Previewer{style: StyleForTheme(theme), border: true}
	for _, opt := range opts {
		opt(p)
	}
	if !validStyle(p.style) {
		return nil, fmt.Errorf("unknown preview style %q (valid: %s)", p.style, strings.Join(Styles, ", "))
	}
	return p, nil
}

// Render previews every segment of doc at the given canvas width.
func (p *Previewer) Render(doc string, width marksnap.CanvasWidth) (string, error) {
	segments := marksnap.Split(doc)
	if len(segments) == 0 {
		return footerStyle.Render("(empty document: nothing to export)") + "\n", nil
	}

	cols := p.columns
	if cols == 0 {
		cols = Columns(width)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(p.style),
		glamour.WithWordWrap(cols),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	var sb strings.Builder
	for i, seg := range segments {
		body, err := r.Render(seg)
		if err != nil {
			return "", fmt.Errorf("rendering segment %d: %w", i+1, err)
		}

		title, ok := marksnap.FirstHeading(seg)
		if !ok {
			title = fmt.Sprintf("Segment %d", i+1)
		}
		header := headerStyle.Render(fmt.Sprintf("%d/%d  %s", i+1, len(segments), title))

		block := strings.TrimRight(body, "\n")
		if p.border {
			block = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(dimColor).
				Width(cols + 2).
				Render(block)
		}

		sb.WriteString(header)
		sb.WriteString("\n")
		sb.WriteString(block)
		sb.WriteString("\n\n")
	}
	sb.WriteString(footerStyle.Render(fmt.Sprintf("%d segment(s), canvas %s", len(segments), width)))
	sb.WriteString("\n")
	return sb.String(), nil
}

// Columns maps a canvas width to a wrap width in terminal cells.
func Columns(width marksnap.CanvasWidth) int {
	cols := width.Pixels / pixelsPerColumn
	if cols < MinColumns {
		return MinColumns
	}
	if cols > MaxColumns {
		return MaxColumns
	}
	return cols
}

// darkPresets are the presets with a dark background.
var darkPresets = []string{"github-dark", "dracula", "cyberpunk"}

// StyleForTheme picks a glamour style matching the theme's background.
func StyleForTheme(theme marksnap.ThemeConfig) string {
	css := marksnap.ResolveThemeCSS(theme)
	for _, id := range darkPresets {
		preset, err := marksnap.LookupPreset(id)
		if err == nil && css == preset.CSS {
			if id == "dracula" {
				return styles.DraculaStyle
			}
			return styles.DarkStyle
		}
	}
	return styles.LightStyle
}

func validStyle(name string) bool {
	for _, s := range Styles {
		if s == name {
			return true
		}
	}
	return false
}
