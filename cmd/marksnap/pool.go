package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-marksnap"
)

// exporter converts one document into images.
type exporter interface {
	Export(ctx context.Context, input marksnap.Input, sink marksnap.Sink) (*marksnap.ExportResult, error)
}

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (exporter, error)
	Release(exporter)
	Size() int
	Close() error
}

// poolAdapter exposes a *marksnap.ConverterPool as a Pool.
type poolAdapter struct {
	pool *marksnap.ConverterPool
}

var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire(ctx context.Context) (exporter, error) {
	conv, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release panics when handed an exporter this pool did not create.
func (a *poolAdapter) Release(e exporter) {
	conv, ok := e.(*marksnap.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", e))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
