package marksnap

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-marksnap/internal/fileutil"
	"github.com/alnah/go-marksnap/internal/process"
)

// rasterizer abstracts surface to PNG conversion to allow different backends.
type rasterizer interface {
	Rasterize(ctx context.Context, s *Surface, opts *rasterOptions) ([]byte, error)
	Close() error
}

// surfaceRenderer captures a surface loaded from a file, enabling tests
// without a browser.
type surfaceRenderer interface {
	CaptureFromFile(ctx context.Context, filePath string, viewportWidth int, opts *rasterOptions) ([]byte, error)
	Close() error
}

// Compile-time interface checks
var (
	_ rasterizer      = (*rodRasterizer)(nil)
	_ surfaceRenderer = (*rodRenderer)(nil)
)

// rasterOptions holds options for one capture.
type rasterOptions struct {
	PixelRatio float64
}

const (
	// surfaceSelector is the element captured from each surface page.
	surfaceSelector = ".markdown-body"

	// initialViewportHeight is the viewport height before the surface is measured.
	initialViewportHeight = 600
)

// rodRenderer implements surfaceRenderer using go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodRenderer struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// newRodRenderer creates a rodRenderer with the given timeout.
func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Pre-installed browser (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = browser
	r.launcher = l
	return nil
}

// Close releases browser resources, killing the whole Chrome process group.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		pid := r.launcher.PID()
		r.launcher.Kill()
		if pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher = nil
	}
	return err
}

// CaptureFromFile opens a surface file in headless Chrome and returns a PNG
// of the surface element on a transparent background.
func (r *rodRenderer) CaptureFromFile(ctx context.Context, filePath string, viewportWidth int, opts *rasterOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(timeout)

	scale := pixelRatioOrDefault(opts)
	if err := setViewport(page, viewportWidth, initialViewportHeight, scale); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	// Transparent default background lets the theme decide what is painted.
	transparent := 0.0
	if err := (proto.EmulationSetDefaultBackgroundColorOverride{
		Color: &proto.DOMRGBA{A: &transparent},
	}).Call(page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if err := page.Navigate("file://" + filePath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	el, err := page.Element(surfaceSelector)
	if err != nil {
		return nil, fmt.Errorf("%w: locating %s: %v", ErrRasterize, surfaceSelector, err)
	}
	shape, err := el.Shape()
	if err != nil {
		return nil, fmt.Errorf("%w: measuring surface: %v", ErrRasterize, err)
	}
	box := shape.Box()

	// Grow the viewport so the whole surface is laid out and painted.
	height := int(math.Ceil(box.Y + box.Height))
	if height > initialViewportHeight {
		if err := setViewport(page, viewportWidth, height, scale); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRasterize, err)
		}
	}

	png, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      box.X,
			Y:      box.Y,
			Width:  box.Width,
			Height: box.Height,
			Scale:  1,
		},
		CaptureBeyondViewport: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterize, err)
	}

	return png, nil
}

func setViewport(page *rod.Page, width, height int, scale float64) error {
	return page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: scale,
	})
}

func pixelRatioOrDefault(opts *rasterOptions) float64 {
	if opts == nil || opts.PixelRatio <= 0 {
		return DefaultPixelRatio
	}
	return opts.PixelRatio
}

// rodRasterizer converts surfaces to PNG using headless Chrome via go-rod.
type rodRasterizer struct {
	renderer surfaceRenderer
}

// newRodRasterizer creates a rodRasterizer with the production renderer.
func newRodRasterizer(timeout time.Duration) *rodRasterizer {
	return &rodRasterizer{
		renderer: newRodRenderer(timeout),
	}
}

// Rasterize writes the surface page to a temp file and captures it.
func (c *rodRasterizer) Rasterize(ctx context.Context, s *Surface, opts *rasterOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(s.HTML, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.CaptureFromFile(ctx, tmpPath, s.Width.Viewport(), opts)
}

// Close releases browser resources.
func (c *rodRasterizer) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
