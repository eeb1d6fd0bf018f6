package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrSurfaceRender indicates the surface template failed to render.
var ErrSurfaceRender = errors.New("surface template rendering failed")

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized so it cannot close the style element.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	if ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so user CSS cannot break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// SurfaceData holds one rendered segment for the surface template.
type SurfaceData struct {
	Title          string
	Index          int // 1-based, for display and element IDs
	Total          int
	ContainerStyle string // inline CSS for the sized canvas container
	Body           string // goldmark output, already sanitized by goldmark
}

// SurfaceInjector wraps a rendered segment into a standalone HTML page.
type SurfaceInjector interface {
	InjectSurface(ctx context.Context, data *SurfaceData) (string, error)
}

// SurfaceInjection renders the surface page template.
type SurfaceInjection struct {
	tmpl *template.Template
}

// NewSurfaceInjection creates a SurfaceInjection from template content.
// Returns error if the template cannot be parsed.
func NewSurfaceInjection(tmplContent string) (*SurfaceInjection, error) {
	tmpl, err := template.New("surface").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing surface template: %w", err)
	}
	return &SurfaceInjection{tmpl: tmpl}, nil
}

// surfaceView is what the template sees. Body and ContainerStyle are typed so
// html/template does not escape them a second time.
type surfaceView struct {
	Title          string
	Index          int
	Total          int
	ContainerStyle template.CSS
	Body           template.HTML
}

// InjectSurface renders the page for a single segment.
func (s *SurfaceInjection) InjectSurface(ctx context.Context, data *SurfaceData) (string, error) {
	if data == nil {
		return "", fmt.Errorf("%w: nil surface data", ErrSurfaceRender)
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	view := surfaceView{
		Title:          data.Title,
		Index:          data.Index,
		Total:          data.Total,
		ContainerStyle: template.CSS(data.ContainerStyle), // #nosec G203 -- built from numeric widths
		Body:           template.HTML(data.Body),          // #nosec G203 -- goldmark output without WithUnsafe
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSurfaceRender, err)
	}
	return buf.String(), nil
}
