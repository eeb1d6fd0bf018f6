package marksnap

// Notes:
// - Mocks here stand in for the browser, sinks, notifier, observer and store
//   so export and session logic run without Chrome or a database.
// - withRasterizer/withRenderer are test-only options for dependency injection.

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var zeroTime = time.UnixMilli(0)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockRasterizer struct {
	mu       sync.Mutex
	calls    []*Surface
	opts     []*rasterOptions
	failAt   int // 1-based call number that fails, 0 for never
	err      error
	closed   bool
	inFlight int
	maxPar   int
	hold     time.Duration
}

func (m *mockRasterizer) Rasterize(ctx context.Context, s *Surface, opts *rasterOptions) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, s)
	m.opts = append(m.opts, opts)
	n := len(m.calls)
	m.inFlight++
	if m.inFlight > m.maxPar {
		m.maxPar = m.inFlight
	}
	m.mu.Unlock()

	if m.hold > 0 {
		time.Sleep(m.hold)
	}

	m.mu.Lock()
	m.inFlight--
	m.mu.Unlock()

	if m.failAt > 0 && n == m.failAt {
		if m.err != nil {
			return nil, m.err
		}
		return nil, ErrRasterize
	}
	return []byte("\x89PNG segment " + s.Title), nil
}

func (m *mockRasterizer) Close() error {
	m.closed = true
	return nil
}

func (m *mockRasterizer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type failingSink struct {
	inner  *MemorySink
	failOn string
}

func (f *failingSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	if name == f.failOn {
		return "", errors.New("disk full")
	}
	return f.inner.Save(ctx, name, data)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

type recordingObserver struct {
	mu       sync.Mutex
	segments []error
	runs     []error
}

func (r *recordingObserver) SegmentExported(index int, elapsed time.Duration, size int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.segments = append(r.segments, err)
}

func (r *recordingObserver) RunFinished(runID string, elapsed time.Duration, files int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, err)
}

// mockStore is an in-memory Store that records writes.
type mockStore struct {
	mu     sync.Mutex
	data   map[string]string
	writes []string
	getErr error
	setErr error
}

func newMockStore(seed map[string]string) *mockStore {
	data := make(map[string]string, len(seed))
	for k, v := range seed {
		data[k] = v
	}
	return &mockStore{data: data}
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.writes = append(m.writes, key)
	return nil
}

func (m *mockStore) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *mockStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

// ---------------------------------------------------------------------------
// Test Options
// ---------------------------------------------------------------------------

func withRasterizer(r rasterizer) Option {
	return func(c *Converter) {
		c.rasterizer = r
	}
}

func withRenderer(r *Renderer) Option {
	return func(c *Converter) {
		c.renderer = r
	}
}

// newTestExporter builds an Exporter with no delay and recording collaborators.
func newTestExporter(r rasterizer, n Notifier, o Observer) *Exporter {
	return &Exporter{
		rasterizer: r,
		pixelRatio: DefaultPixelRatio,
		notifier:   n,
		observer:   o,
		logger:     discardLogger(),
		now:        func() time.Time { return time.UnixMilli(1700000000000) },
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
