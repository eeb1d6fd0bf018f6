package marksnap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alnah/go-marksnap/internal/assets"
	"github.com/alnah/go-marksnap/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pipeline.SurfaceInjector      = (*pipeline.SurfaceInjection)(nil)
	_ rasterizer                    = (*rodRasterizer)(nil)
)

// Input is one document to render or export.
type Input struct {
	Markdown    string
	SourceDir   string // directory for relative image paths
	Mode        CanvasMode
	CustomWidth int
	Theme       ThemeConfig
}

// RenderResult holds the segments of a document and their surfaces.
type RenderResult struct {
	Segments []string
	Surfaces []*Surface
}

// Converter orchestrates segmentation, rendering and export.
// Create with NewConverter, and Close when done to release the browser.
type Converter struct {
	cfg        converterConfig
	loader     assets.AssetLoader
	renderer   *Renderer
	rasterizer rasterizer
	exporter   *Exporter
}

// NewConverter creates a Converter with default configuration.
// Returns an error if the asset path or pixel ratio is invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:    defaultTimeout,
			pixelRatio: DefaultPixelRatio,
			delay:      DefaultExportDelay,
			observer:   nopObserver{},
			now:        time.Now,
		},
		loader: assets.NewEmbeddedLoader(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.logger == nil {
		c.cfg.logger = slog.Default()
	}
	if c.cfg.notifier == nil {
		logger := c.cfg.logger
		c.cfg.notifier = NotifierFunc(func(msg string) { logger.Warn(msg) })
	}

	if c.cfg.pixelRatio <= 0 || c.cfg.pixelRatio > MaxPixelRatio {
		return nil, fmt.Errorf("%w: %g (must be in (0, %g])", ErrInvalidPixelRatio, c.cfg.pixelRatio, MaxPixelRatio)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.loader = resolver
	}

	// Tests may have injected a renderer already.
	if c.renderer == nil {
		renderer, err := NewRenderer(c.loader)
		if err != nil {
			return nil, err
		}
		c.renderer = renderer
	}

	if c.rasterizer == nil {
		c.rasterizer = newRodRasterizer(c.cfg.timeout)
	}

	c.exporter = &Exporter{
		rasterizer: c.rasterizer,
		pixelRatio: c.cfg.pixelRatio,
		delay:      c.cfg.delay,
		notifier:   c.cfg.notifier,
		observer:   c.cfg.observer,
		logger:     c.cfg.logger,
		now:        c.cfg.now,
	}

	return c, nil
}

// Render splits the document and renders every segment.
// Recovers from internal panics so they surface as errors.
func (c *Converter) Render(ctx context.Context, input Input) (result *RenderResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	segments := Split(input.Markdown)
	surfaces, err := c.renderer.Render(ctx, segments, input.renderOptions())
	if err != nil {
		return nil, err
	}
	return &RenderResult{Segments: segments, Surfaces: surfaces}, nil
}

// Export renders the document and saves one PNG per segment to sink.
// An empty document is a no-op. See Exporter.Export for failure semantics.
func (c *Converter) Export(ctx context.Context, input Input, sink Sink) (result *ExportResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if c.exporter.Busy() {
		return nil, ErrExportInProgress
	}

	rendered, err := c.Render(ctx, input)
	if err != nil {
		return nil, err
	}
	return c.exporter.Export(ctx, sink, rendered.Segments, rendered.Surfaces)
}

// Busy reports whether an export is running on this converter.
func (c *Converter) Busy() bool {
	return c.exporter.Busy()
}

// Themes lists the theme names available to this converter.
func (c *Converter) Themes() ([]string, error) {
	names, err := c.loader.ListThemes()
	if err != nil {
		return nil, convertAssetError(err)
	}
	return names, nil
}

// LoadTheme resolves a theme name, path or CSS text through the converter's assets.
func (c *Converter) LoadTheme(input string) (string, error) {
	return ResolveThemeInput(input, c.loader)
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.rasterizer != nil {
		return c.rasterizer.Close()
	}
	return nil
}

func (in Input) renderOptions() RenderOptions {
	mode := in.Mode
	if mode == "" {
		mode = DefaultCanvasMode
	}
	return RenderOptions{
		Mode:        mode,
		CustomWidth: in.CustomWidth,
		Theme:       in.Theme,
		SourceDir:   in.SourceDir,
	}
}
