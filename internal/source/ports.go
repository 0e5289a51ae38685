package source

import (
	"context"

	"autosales/internal/core"
)

// DatasetLoader produces the full historical sales table once at startup.
type DatasetLoader interface {
	Load(ctx context.Context) ([]core.SalesRecord, error)
}

// LoaderFunc adapts a plain function to DatasetLoader.
type LoaderFunc func(ctx context.Context) ([]core.SalesRecord, error)

func (f LoaderFunc) Load(ctx context.Context) ([]core.SalesRecord, error) { return f(ctx) }

// Named reports a human readable description of where a loader reads from.
type Named interface {
	Source() string
}
