//go:build integration

package marksnap

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"
	"time"
)

const testTimeout = 30 * time.Second

func assertValidPNG(t *testing.T, data []byte) (width, height int) {
	t.Helper()

	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("data does not have PNG magic bytes, got prefix: %q", data[:min(8, len(data))])
	}
	if len(data) < 24 {
		t.Fatalf("PNG data suspiciously small: %d bytes", len(data))
	}
	// IHDR width and height follow the 8-byte signature and chunk header.
	return int(binary.BigEndian.Uint32(data[16:20])), int(binary.BigEndian.Uint32(data[20:24]))
}

func TestConverter_Export_Integration(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	conv, err := NewConverter(WithDelay(0), WithPixelRatio(2))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	defer conv.Close()

	sink := NewMemorySink()
	res, err := conv.Export(ctx, Input{Markdown: DefaultMarkdown, Mode: CanvasMobile}, sink)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(res.Files) != 3 {
		t.Fatalf("exported %d files, want 3", len(res.Files))
	}

	for _, name := range sink.Names() {
		data, _ := sink.File(name)
		w, h := assertValidPNG(t, data)
		if w != MobileWidth*2 {
			t.Errorf("%s width = %d, want %d at 2x", name, w, MobileWidth*2)
		}
		if h < 300*2 {
			t.Errorf("%s height = %d, want at least the minimum surface height", name, h)
		}
	}
}

func TestRodRasterizer_LongSurface_Integration(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	r, err := NewRenderer(nil)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	var md bytes.Buffer
	for i := 0; i < 80; i++ {
		md.WriteString("Paragraph line to make the surface taller than the viewport.\n\n")
	}
	s, err := r.RenderSegment(ctx, 0, 1, md.String(), RenderOptions{Mode: CanvasTablet})
	if err != nil {
		t.Fatalf("RenderSegment() error = %v", err)
	}

	rast := newRodRasterizer(testTimeout)
	defer rast.Close()

	png, err := rast.Rasterize(ctx, s, &rasterOptions{PixelRatio: 1})
	if err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}
	w, h := assertValidPNG(t, png)
	if w != TabletWidth {
		t.Errorf("width = %d, want %d", w, TabletWidth)
	}
	if h <= initialViewportHeight {
		t.Errorf("height = %d, want the full surface beyond the initial viewport", h)
	}
}
