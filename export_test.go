package marksnap

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

func testSurfaces(titles ...string) []*Surface {
	surfaces := make([]*Surface, len(titles))
	for i, title := range titles {
		surfaces[i] = &Surface{Index: i, Total: len(titles), Title: title, Width: ResolveWidth(CanvasAuto, 0)}
	}
	return surfaces
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		segments  []string
		wantNames []string
	}{
		{
			name:      "single segment has no suffix",
			segments:  []string{"# Hello World\nbody"},
			wantNames: []string{"hello_world.png"},
		},
		{
			name:      "multiple segments are numbered from one",
			segments:  []string{"# Intro\na", "b", "# Ignored\nc"},
			wantNames: []string{"intro-1.png", "intro-2.png", "intro-3.png"},
		},
		{
			name:      "no heading uses timestamp",
			segments:  []string{"plain", "text"},
			wantNames: []string{"marksnap-1700000000000-1.png", "marksnap-1700000000000-2.png"},
		},
		{
			name:      "heading only in a later segment is ignored",
			segments:  []string{"plain", "# Later"},
			wantNames: []string{"marksnap-1700000000000-1.png", "marksnap-1700000000000-2.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &mockRasterizer{}
			sink := NewMemorySink()
			e := newTestExporter(r, &recordingNotifier{}, &recordingObserver{})

			surfaces := make([]*Surface, len(tt.segments))
			for i, seg := range tt.segments {
				surfaces[i] = &Surface{Index: i, Total: len(tt.segments), Markdown: seg, Title: segmentTitle(seg, i)}
			}

			res, err := e.Export(context.Background(), sink, tt.segments, surfaces)
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			if got := sink.Names(); !reflect.DeepEqual(got, tt.wantNames) {
				t.Errorf("saved names = %v, want %v", got, tt.wantNames)
			}
			if len(res.Files) != len(tt.wantNames) {
				t.Errorf("len(Files) = %d, want %d", len(res.Files), len(tt.wantNames))
			}
			if res.RunID == "" {
				t.Error("RunID should be set")
			}
			if e.Busy() {
				t.Error("Busy() should be false after Export returns")
			}
		})
	}
}

func TestExporter_Export_PreservesOrder(t *testing.T) {
	t.Parallel()

	r := &mockRasterizer{}
	e := newTestExporter(r, &recordingNotifier{}, &recordingObserver{})
	surfaces := testSurfaces("a", "b", "c", "d")

	if _, err := e.Export(context.Background(), NewMemorySink(), []string{"a", "b", "c", "d"}, surfaces); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if r.maxPar != 1 {
		t.Errorf("rasterizations overlapped: max in flight = %d, want 1", r.maxPar)
	}
	for i, s := range r.calls {
		if s != surfaces[i] {
			t.Errorf("call %d rasterized surface %d", i, s.Index)
		}
	}
	for i, o := range r.opts {
		if o.PixelRatio != DefaultPixelRatio {
			t.Errorf("call %d pixel ratio = %g, want %g", i, o.PixelRatio, DefaultPixelRatio)
		}
	}
}

func TestExporter_Export_Empty(t *testing.T) {
	t.Parallel()

	r := &mockRasterizer{}
	n := &recordingNotifier{}
	o := &recordingObserver{}
	e := newTestExporter(r, n, o)

	res, err := e.Export(context.Background(), NewMemorySink(), nil, nil)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(res.Files) != 0 || r.callCount() != 0 || n.count() != 0 || len(o.runs) != 0 {
		t.Errorf("empty export should do nothing: files=%d calls=%d notes=%d runs=%d",
			len(res.Files), r.callCount(), n.count(), len(o.runs))
	}
}

func TestExporter_Export_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	r := &mockRasterizer{failAt: 2}
	n := &recordingNotifier{}
	o := &recordingObserver{}
	sink := NewMemorySink()
	e := newTestExporter(r, n, o)

	segments := []string{"# Deck\na", "b", "c"}
	res, err := e.Export(context.Background(), sink, segments, testSurfaces("a", "b", "c"))
	if !errors.Is(err, ErrRasterize) {
		t.Fatalf("Export() error = %v, want ErrRasterize", err)
	}

	if r.callCount() != 2 {
		t.Errorf("rasterize calls = %d, want 2 (no further segments after failure)", r.callCount())
	}
	if got := sink.Names(); !reflect.DeepEqual(got, []string{"deck-1.png"}) {
		t.Errorf("saved names = %v, want only the first file kept", got)
	}
	if res == nil || len(res.Files) != 1 {
		t.Fatalf("partial result = %+v, want one file", res)
	}
	if n.count() != 1 || n.messages[0] != ExportFailureMessage {
		t.Errorf("notifications = %v, want exactly one failure message", n.messages)
	}
	if len(o.runs) != 1 || o.runs[0] == nil {
		t.Errorf("observer runs = %v, want one failed run", o.runs)
	}
	if e.Busy() {
		t.Error("Busy() should be false after a failed export")
	}
}

func TestExporter_Export_SinkFailure(t *testing.T) {
	t.Parallel()

	n := &recordingNotifier{}
	sink := &failingSink{inner: NewMemorySink(), failOn: "x-1.png"}
	e := newTestExporter(&mockRasterizer{}, n, &recordingObserver{})

	_, err := e.Export(context.Background(), sink, []string{"# x", "y"}, testSurfaces("x", "y"))
	if err == nil {
		t.Fatal("Export() expected error when the sink fails")
	}
	if len(sink.inner.Names()) != 0 {
		t.Errorf("saved names = %v, want none", sink.inner.Names())
	}
	if n.count() != 1 {
		t.Errorf("notifications = %d, want 1", n.count())
	}
}

func TestExporter_Export_SkipsMissingSurfaces(t *testing.T) {
	t.Parallel()

	r := &mockRasterizer{}
	sink := NewMemorySink()
	e := newTestExporter(r, &recordingNotifier{}, &recordingObserver{})

	segments := []string{"# Doc\na", "b", "c", "d"}
	surfaces := testSurfaces("a", "b", "c")
	surfaces[1] = nil

	res, err := e.Export(context.Background(), sink, segments, surfaces)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	// Numbering follows segment positions, not saved-file count.
	want := []string{"doc-1.png", "doc-3.png"}
	if got := sink.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("saved names = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(res.Skipped, []int{1, 3}) {
		t.Errorf("Skipped = %v, want [1 3]", res.Skipped)
	}
}

func TestExporter_Export_Busy(t *testing.T) {
	t.Parallel()

	r := &mockRasterizer{hold: 50 * time.Millisecond}
	e := newTestExporter(r, &recordingNotifier{}, &recordingObserver{})

	started := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		close(started)
		_, _ = e.Export(context.Background(), NewMemorySink(), []string{"a", "b"}, testSurfaces("a", "b"))
	}()

	<-started
	deadline := time.Now().Add(time.Second)
	for !e.Busy() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	_, err := e.Export(context.Background(), NewMemorySink(), []string{"c"}, testSurfaces("c"))
	if !errors.Is(err, ErrExportInProgress) {
		t.Errorf("concurrent Export() error = %v, want ErrExportInProgress", err)
	}

	wg.Wait()
	if r.callCount() != 2 {
		t.Errorf("rasterize calls = %d, want 2 (rejected run must not rasterize)", r.callCount())
	}
}

func TestExporter_Export_DelayBetweenSegments(t *testing.T) {
	t.Parallel()

	e := newTestExporter(&mockRasterizer{}, &recordingNotifier{}, &recordingObserver{})
	e.delay = 20 * time.Millisecond

	start := time.Now()
	if _, err := e.Export(context.Background(), NewMemorySink(), []string{"a", "b", "c"}, testSurfaces("a", "b", "c")); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("Export() took %v, want at least two delays", elapsed)
	}
}

func TestExporter_Export_CancelledDuringDelay(t *testing.T) {
	t.Parallel()

	r := &mockRasterizer{}
	n := &recordingNotifier{}
	e := newTestExporter(r, n, &recordingObserver{})
	e.delay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res, err := e.Export(ctx, NewMemorySink(), []string{"a", "b"}, testSurfaces("a", "b"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Export() error = %v, want context.DeadlineExceeded", err)
	}
	if r.callCount() != 1 || len(res.Files) != 1 {
		t.Errorf("calls = %d, files = %d, want 1 and 1", r.callCount(), len(res.Files))
	}
	if n.count() != 1 {
		t.Errorf("notifications = %d, want 1", n.count())
	}
}

func TestExporter_Export_ObserverEvents(t *testing.T) {
	t.Parallel()

	o := &recordingObserver{}
	e := newTestExporter(&mockRasterizer{}, &recordingNotifier{}, o)

	if _, err := e.Export(context.Background(), NewMemorySink(), []string{"a", "b"}, testSurfaces("a", "b")); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(o.segments) != 2 || o.segments[0] != nil || o.segments[1] != nil {
		t.Errorf("segment events = %v, want two successes", o.segments)
	}
	if len(o.runs) != 1 || o.runs[0] != nil {
		t.Errorf("run events = %v, want one success", o.runs)
	}
}

func TestSleepContext(t *testing.T) {
	t.Parallel()

	if err := sleepContext(context.Background(), 0); err != nil {
		t.Errorf("sleepContext(0) error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("sleepContext(cancelled) error = %v, want context.Canceled", err)
	}
}
