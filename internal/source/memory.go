package source

import (
	"context"
	"slices"
	"sync"

	"autosales/internal/core"
)

// MemoryLoader serves a fixed table, used by tests and as an injectable seed.
type MemoryLoader struct {
	mu      sync.Mutex
	records []core.SalesRecord
	err     error
	calls   int
}

var _ DatasetLoader = (*MemoryLoader)(nil)

func NewMemoryLoader(records []core.SalesRecord) *MemoryLoader {
	return &MemoryLoader{records: slices.Clone(records)}
}

// FailWith makes every subsequent Load return err.
func (m *MemoryLoader) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryLoader) Load(ctx context.Context) ([]core.SalesRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.records), nil
}

// Calls reports how many times Load ran.
func (m *MemoryLoader) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
