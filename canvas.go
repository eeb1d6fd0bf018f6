package marksnap

import (
	"fmt"
	"strings"
)

// CanvasMode selects the width of every rendered surface.
type CanvasMode string

// Canvas modes.
const (
	CanvasAuto    CanvasMode = "auto"
	CanvasMobile  CanvasMode = "mobile"
	CanvasTablet  CanvasMode = "tablet"
	CanvasDesktop CanvasMode = "desktop"
	CanvasCustom  CanvasMode = "custom"
)

// Canvas widths in CSS pixels.
const (
	MobileWidth        = 375
	TabletWidth        = 768
	DesktopWidth       = 1024
	AutoMaxWidth       = 896 // 56rem
	MinCustomWidth     = 300
	MaxCustomWidth     = 2000
	DefaultCustomWidth = 800
)

// DefaultCanvasMode is the mode used when none is configured.
const DefaultCanvasMode = CanvasAuto

// CanvasModes returns every valid mode in display order.
func CanvasModes() []CanvasMode {
	return []CanvasMode{CanvasAuto, CanvasMobile, CanvasTablet, CanvasDesktop, CanvasCustom}
}

// ParseCanvasMode validates s (case-insensitive, surrounding space ignored).
func ParseCanvasMode(s string) (CanvasMode, error) {
	mode := CanvasMode(strings.ToLower(strings.TrimSpace(s)))
	if !mode.Valid() {
		return "", fmt.Errorf("%w: %q (valid: auto, mobile, tablet, desktop, custom)", ErrInvalidCanvasMode, s)
	}
	return mode, nil
}

// Valid reports whether m is one of the known modes.
func (m CanvasMode) Valid() bool {
	switch m {
	case CanvasAuto, CanvasMobile, CanvasTablet, CanvasDesktop, CanvasCustom:
		return true
	}
	return false
}

// CanvasWidth is the resolved surface width.
// Fluid widths fill the available space up to Pixels.
type CanvasWidth struct {
	Pixels int
	Fluid  bool
}

// Style returns the inline CSS applied to the surface container.
func (w CanvasWidth) Style() string {
	if w.Fluid {
		return fmt.Sprintf("width: 100%%; max-width: %dpx;", w.Pixels)
	}
	return fmt.Sprintf("width: %dpx; max-width: none;", w.Pixels)
}

// Viewport returns the browser viewport width needed to lay the surface out.
func (w CanvasWidth) Viewport() int {
	return w.Pixels
}

// String renders the width for logs and terminal output.
func (w CanvasWidth) String() string {
	if w.Fluid {
		return fmt.Sprintf("fluid (max %dpx)", w.Pixels)
	}
	return fmt.Sprintf("%dpx", w.Pixels)
}

// ResolveWidth maps a canvas mode to a width. Unknown modes behave like auto.
// Custom widths are clamped to [MinCustomWidth, MaxCustomWidth].
func ResolveWidth(mode CanvasMode, custom int) CanvasWidth {
	switch mode {
	case CanvasMobile:
		return CanvasWidth{Pixels: MobileWidth}
	case CanvasTablet:
		return CanvasWidth{Pixels: TabletWidth}
	case CanvasDesktop:
		return CanvasWidth{Pixels: DesktopWidth}
	case CanvasCustom:
		return CanvasWidth{Pixels: ClampWidth(custom)}
	default:
		return CanvasWidth{Pixels: AutoMaxWidth, Fluid: true}
	}
}

// ClampWidth bounds a custom width to the supported range.
func ClampWidth(px int) int {
	if px < MinCustomWidth {
		return MinCustomWidth
	}
	if px > MaxCustomWidth {
		return MaxCustomWidth
	}
	return px
}
