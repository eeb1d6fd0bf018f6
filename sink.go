package marksnap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/alnah/go-marksnap/internal/fileutil"
)

// Sink receives exported images. It plays the role of the download step:
// once Save returns, the image belongs to the user.
type Sink interface {
	// Save stores data under name and returns where it ended up.
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// File permissions for exported images.
const (
	DirPermissions  = 0o750
	FilePermissions = 0o644
)

// DirSink writes images into a directory, creating it on first use.
type DirSink struct {
	Dir string
}

// NewDirSink creates a DirSink writing to dir ("." when empty).
func NewDirSink(dir string) *DirSink {
	if dir == "" {
		dir = "."
	}
	return &DirSink{Dir: dir}
}

// Save writes data to Dir/name atomically, replacing any existing file.
func (d *DirSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("%w: invalid file name %q", ErrSinkWrite, name)
	}

	if err := os.MkdirAll(d.Dir, DirPermissions); err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", ErrSinkWrite, d.Dir, err)
	}

	path := filepath.Join(d.Dir, name)
	if err := fileutil.WriteFileAtomic(path, data, FilePermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSinkWrite, err)
	}
	return path, nil
}

// MemorySink keeps images in memory. Safe for concurrent use.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
	order []string
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// Save stores a copy of data under name.
func (m *MemorySink) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.files[name]; !exists {
		m.order = append(m.order, name)
	}
	m.files[name] = append([]byte(nil), data...)
	return name, nil
}

// Names returns saved names in the order they were first saved.
func (m *MemorySink) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// File returns the bytes saved under name.
func (m *MemorySink) File(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	return data, ok
}

// SortedNames returns saved names alphabetically.
func (m *MemorySink) SortedNames() []string {
	names := m.Names()
	sort.Strings(names)
	return names
}

// Compile-time interface checks.
var (
	_ Sink = (*DirSink)(nil)
	_ Sink = (*MemorySink)(nil)
)
