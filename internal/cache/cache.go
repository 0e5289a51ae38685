package cache

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"autosales/internal/log"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Size returns the current number of items in the cache
	Size() int
}

// Cleaner interface for caches that support cleanup
type Cleaner interface {
	CleanExpired() int
}

// Manager runs expired-entry cleanup for registered caches on a cron schedule
type Manager struct {
	mu      sync.Mutex
	caches  []Cleaner
	cron    *cron.Cron
	started bool
}

// NewManager creates a new cache manager
func NewManager() *Manager {
	return &Manager{
		cron: cron.New(),
	}
}

// Register adds a cache to the manager for cleanup
func (m *Manager) Register(cache Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, cache)
}

// CleanupNow removes expired entries from every registered cache and
// returns the number of removed entries.
func (m *Manager) CleanupNow() int {
	m.mu.Lock()
	caches := append([]Cleaner(nil), m.caches...)
	m.mu.Unlock()

	total := 0
	for _, c := range caches {
		total += c.CleanExpired()
	}
	return total
}

// StartCleanup schedules periodic cleanup. spec is a standard cron
// expression or a descriptor such as "@every 10m".
func (m *Manager) StartCleanup(spec string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return nil
	}

	_, err := m.cron.AddFunc(spec, func() {
		if removed := m.CleanupNow(); removed > 0 {
			slog.Debug("Cache cleanup completed",
				log.FieldComponent, log.ComponentCache,
				log.FieldOperation, log.OpCleanup,
				"entries_removed", removed)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule cache cleanup %q: %w", spec, err)
	}
	m.cron.Start()
	m.started = true
	return nil
}

// Stop gracefully stops the cleanup schedule, waiting for a running cleanup
func (m *Manager) Stop() {
	m.mu.Lock()
	started := m.started
	m.started = false
	m.mu.Unlock()

	if started {
		<-m.cron.Stop().Done()
	}
}
