package marksnap

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ExportFailureMessage is shown to the user when an export run aborts.
const ExportFailureMessage = "Failed to generate one or more images. Please try again."

// Export defaults.
const (
	DefaultPixelRatio  = 2.0
	DefaultExportDelay = 300 * time.Millisecond
	MaxPixelRatio      = 4.0
)

// Notifier delivers user-facing messages (the "alert").
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Notify calls f(message).
func (f NotifierFunc) Notify(message string) { f(message) }

// Observer receives export events, e.g. for metrics.
type Observer interface {
	// SegmentExported is called after each segment, with err set on failure.
	SegmentExported(index int, elapsed time.Duration, size int, err error)
	// RunFinished is called once per run that got past the busy check.
	RunFinished(runID string, elapsed time.Duration, files int, err error)
}

type nopObserver struct{}

func (nopObserver) SegmentExported(int, time.Duration, int, error) {}
func (nopObserver) RunFinished(string, time.Duration, int, error)  {}

// ExportedFile describes one saved image.
type ExportedFile struct {
	Index    int    // 0-based segment index
	Name     string // file name, e.g. "intro-2.png"
	Location string // where the sink stored it
	Size     int    // PNG size in bytes
}

// ExportResult summarizes an export run. On failure it holds the files saved
// before the error.
type ExportResult struct {
	RunID    string
	BaseName string
	Files    []ExportedFile
	Skipped  []int // segment indexes without a surface
}

// Exporter rasterizes surfaces one at a time and hands them to a Sink.
// It refuses to start while another export is running.
type Exporter struct {
	rasterizer rasterizer
	pixelRatio float64
	delay      time.Duration
	notifier   Notifier
	observer   Observer
	logger     *slog.Logger
	now        func() time.Time
	busy       atomic.Bool
}

// Busy reports whether an export is running.
func (e *Exporter) Busy() bool {
	return e.busy.Load()
}

// Export saves one PNG per segment, in order.
//
// Segments without a matching surface are skipped. The first failure stops
// the run: the notifier is told once, files already saved are kept, and the
// partial result is returned with the error.
func (e *Exporter) Export(ctx context.Context, sink Sink, segments []string, surfaces []*Surface) (*ExportResult, error) {
	if len(surfaces) == 0 {
		return &ExportResult{}, nil
	}

	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	defer e.busy.Store(false)

	res := &ExportResult{
		RunID:    uuid.NewString(),
		BaseName: BaseFilename(segments, e.now()),
	}
	logger := e.logger.With("run", res.RunID)
	started := time.Now()
	n := len(segments)

	logger.Info("export started", "segments", n, "base", res.BaseName)

	for i := 0; i < n; i++ {
		if i >= len(surfaces) || surfaces[i] == nil {
			res.Skipped = append(res.Skipped, i)
			continue
		}

		file, err := e.exportSegment(ctx, sink, surfaces[i], SegmentFilename(res.BaseName, i, n))
		if err != nil {
			err = fmt.Errorf("exporting segment %d: %w", i+1, err)
			logger.Error("export failed", "segment", i+1, "error", err)
			e.notifier.Notify(ExportFailureMessage)
			e.observer.RunFinished(res.RunID, time.Since(started), len(res.Files), err)
			return res, err
		}
		file.Index = i
		res.Files = append(res.Files, file)
		logger.Debug("segment exported", "segment", i+1, "file", file.Location, "bytes", file.Size)

		if i < n-1 {
			if err := sleepContext(ctx, e.delay); err != nil {
				logger.Error("export failed", "segment", i+1, "error", err)
				e.notifier.Notify(ExportFailureMessage)
				e.observer.RunFinished(res.RunID, time.Since(started), len(res.Files), err)
				return res, err
			}
		}
	}

	e.observer.RunFinished(res.RunID, time.Since(started), len(res.Files), nil)
	logger.Info("export finished", "files", len(res.Files), "elapsed", time.Since(started))
	return res, nil
}

func (e *Exporter) exportSegment(ctx context.Context, sink Sink, s *Surface, name string) (ExportedFile, error) {
	start := time.Now()

	png, err := e.rasterizer.Rasterize(ctx, s, &rasterOptions{PixelRatio: e.pixelRatio})
	if err != nil {
		e.observer.SegmentExported(s.Index, time.Since(start), 0, err)
		return ExportedFile{}, err
	}

	location, err := sink.Save(ctx, name, png)
	if err != nil {
		e.observer.SegmentExported(s.Index, time.Since(start), 0, err)
		return ExportedFile{}, err
	}

	e.observer.SegmentExported(s.Index, time.Since(start), len(png), nil)
	return ExportedFile{Name: name, Location: location, Size: len(png)}, nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
