package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alnah/go-marksnap"
	"github.com/alnah/go-marksnap/internal/store"
)

// docConverter is what the commands need from a marksnap.Converter.
type docConverter interface {
	Render(ctx context.Context, input marksnap.Input) (*marksnap.RenderResult, error)
	Export(ctx context.Context, input marksnap.Input, sink marksnap.Sink) (*marksnap.ExportResult, error)
	Busy() bool
	Close() error
}

// Compile-time interface implementation check.
var _ docConverter = (*marksnap.Converter)(nil)

// sessionStore is a marksnap.Store that must be closed.
type sessionStore interface {
	marksnap.Store
	Close() error
}

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and the factories that start browsers or open files.
type Environment struct {
	Now          func() time.Time
	Stdin        io.Reader
	Stdout       io.Writer
	Stderr       io.Writer
	NewConverter func(opts ...marksnap.Option) (docConverter, error)
	NewPool      func(n int, opts ...marksnap.Option) Pool
	OpenStore    func(path string) (sessionStore, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewConverter: func(opts ...marksnap.Option) (docConverter, error) {
			conv, err := marksnap.NewConverter(opts...)
			if err != nil {
				return nil, err
			}
			return conv, nil
		},
		NewPool: func(n int, opts ...marksnap.Option) Pool {
			return &poolAdapter{pool: marksnap.NewConverterPool(n, opts...)}
		},
		OpenStore: func(path string) (sessionStore, error) {
			st, err := store.OpenSQLite(path)
			if err != nil {
				return nil, err
			}
			return st, nil
		},
	}
}
