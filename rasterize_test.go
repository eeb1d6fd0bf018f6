package marksnap

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

type mockSurfaceRenderer struct {
	path     string
	html     string
	viewport int
	opts     *rasterOptions
	err      error
	closed   bool
}

func (m *mockSurfaceRenderer) CaptureFromFile(ctx context.Context, filePath string, viewportWidth int, opts *rasterOptions) ([]byte, error) {
	m.path = filePath
	m.viewport = viewportWidth
	m.opts = opts
	if data, err := os.ReadFile(filePath); err == nil {
		m.html = string(data)
	}
	if m.err != nil {
		return nil, m.err
	}
	return []byte("\x89PNG"), nil
}

func (m *mockSurfaceRenderer) Close() error {
	m.closed = true
	return nil
}

func TestRodRasterizer_Rasterize(t *testing.T) {
	t.Parallel()

	mock := &mockSurfaceRenderer{}
	r := &rodRasterizer{renderer: mock}
	s := &Surface{HTML: "<html><body>surface</body></html>", Width: CanvasWidth{Pixels: TabletWidth}}

	png, err := r.Rasterize(context.Background(), s, &rasterOptions{PixelRatio: 2})
	if err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}
	if string(png) != "\x89PNG" {
		t.Errorf("Rasterize() = %q", png)
	}
	if mock.html != s.HTML {
		t.Errorf("captured file content = %q, want surface HTML", mock.html)
	}
	if !strings.HasSuffix(mock.path, ".html") {
		t.Errorf("temp file %q should have .html extension", mock.path)
	}
	if mock.viewport != TabletWidth {
		t.Errorf("viewport = %d, want %d", mock.viewport, TabletWidth)
	}
	if _, err := os.Stat(mock.path); !os.IsNotExist(err) {
		t.Error("temp file should be removed after capture")
	}
}

func TestRodRasterizer_Rasterize_Error(t *testing.T) {
	t.Parallel()

	mock := &mockSurfaceRenderer{err: ErrPageLoad}
	r := &rodRasterizer{renderer: mock}

	_, err := r.Rasterize(context.Background(), &Surface{HTML: "x", Width: ResolveWidth(CanvasAuto, 0)}, nil)
	if !errors.Is(err, ErrPageLoad) {
		t.Errorf("Rasterize() error = %v, want ErrPageLoad", err)
	}
	if _, statErr := os.Stat(mock.path); !os.IsNotExist(statErr) {
		t.Error("temp file should be removed after a failed capture")
	}
}

func TestRodRasterizer_Close(t *testing.T) {
	t.Parallel()

	mock := &mockSurfaceRenderer{}
	if err := (&rodRasterizer{renderer: mock}).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !mock.closed {
		t.Error("Close() should close the renderer")
	}
	if err := (&rodRasterizer{}).Close(); err != nil {
		t.Errorf("Close() with no renderer error = %v", err)
	}
}

func TestRodRenderer_CloseWithoutBrowser(t *testing.T) {
	t.Parallel()

	if err := newRodRenderer(0).Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestRodRenderer_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRodRenderer(0).CaptureFromFile(ctx, "/nonexistent.html", 800, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("CaptureFromFile() error = %v, want context.Canceled", err)
	}
}

func TestPixelRatioOrDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		opts *rasterOptions
		want float64
	}{
		{nil, DefaultPixelRatio},
		{&rasterOptions{}, DefaultPixelRatio},
		{&rasterOptions{PixelRatio: 1.5}, 1.5},
	}
	for _, tt := range tests {
		if got := pixelRatioOrDefault(tt.opts); got != tt.want {
			t.Errorf("pixelRatioOrDefault(%+v) = %g, want %g", tt.opts, got, tt.want)
		}
	}
}
