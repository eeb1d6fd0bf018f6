package main

// Notes:
// - This file contains mocks and helpers shared by the command tests.
// - No browser is started anywhere in this package's unit tests: the
//   converter and pool factories are replaced through Environment.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-marksnap"
	"github.com/alnah/go-marksnap/internal/store"
)

// ---------------------------------------------------------------------------
// Mock Implementations - Converter, pool, and store
// ---------------------------------------------------------------------------

// mockConverter records exports and writes one fake image per segment.
type mockConverter struct {
	mu      sync.Mutex
	inputs  []marksnap.Input
	err     error
	closed  bool
	partial int // images saved before err, when err is set
}

var _ docConverter = (*mockConverter)(nil)

func (m *mockConverter) Render(_ context.Context, input marksnap.Input) (*marksnap.RenderResult, error) {
	return &marksnap.RenderResult{Segments: marksnap.Split(input.Markdown)}, nil
}

func (m *mockConverter) Export(ctx context.Context, input marksnap.Input, sink marksnap.Sink) (*marksnap.ExportResult, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()

	segments := marksnap.Split(input.Markdown)
	n := len(segments)
	if m.err != nil {
		n = m.partial
	}

	res := &marksnap.ExportResult{RunID: "test-run", BaseName: "doc"}
	for i := 0; i < n; i++ {
		name := "doc-" + string(rune('1'+i)) + ".png"
		loc, err := sink.Save(ctx, name, []byte("png"))
		if err != nil {
			return res, err
		}
		res.Files = append(res.Files, marksnap.ExportedFile{Index: i, Name: name, Location: loc, Size: 3})
	}
	return res, m.err
}

func (m *mockConverter) Busy() bool { return false }

func (m *mockConverter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConverter) exported() []marksnap.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]marksnap.Input(nil), m.inputs...)
}

// mockPool hands out one shared mockConverter.
type mockPool struct {
	conv       *mockConverter
	size       int
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
	closed   bool
}

var _ Pool = (*mockPool)(nil)

func (p *mockPool) Acquire(_ context.Context) (exporter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.mu.Lock()
	p.acquired++
	p.mu.Unlock()
	return p.conv, nil
}

func (p *mockPool) Release(exporter) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *mockPool) Size() int { return p.size }

func (p *mockPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// memStore is an in-memory session store that tracks Close.
type memStore struct {
	*store.Memory
	closed bool
}

func (m *memStore) Close() error {
	m.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// Test Environment
// ---------------------------------------------------------------------------

// testEnv bundles an Environment with its captured output and fakes.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	conv   *mockConverter
	pool   *mockPool
	store  *memStore
}

var errStoreUnavailable = errors.New("store unavailable")

// newTestEnv returns an environment whose factories return fakes.
// The same store is returned on every open, so state survives between
// commands of one test.
func newTestEnv(stdin string) *testEnv {
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		conv:   &mockConverter{},
		store:  &memStore{Memory: store.NewMemory()},
	}
	te.pool = &mockPool{conv: te.conv, size: 2}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.UnixMilli(1700000000000) },
		Stdin:  strings.NewReader(stdin),
		Stdout: te.stdout,
		Stderr: te.stderr,
		NewConverter: func(...marksnap.Option) (docConverter, error) {
			return te.conv, nil
		},
		NewPool: func(n int, _ ...marksnap.Option) Pool {
			te.pool.size = n
			return te.pool
		},
		OpenStore: func(string) (sessionStore, error) {
			return te.store, nil
		},
	}
	return te
}

// failingStoreEnv returns an environment whose store never opens.
func failingStoreEnv() *testEnv {
	te := newTestEnv("")
	te.OpenStore = func(string) (sessionStore, error) {
		return nil, errStoreUnavailable
	}
	return te
}
