package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"autosales/internal/amqp"
	"autosales/internal/core"
	"autosales/internal/storage"
)

// ViewStatStore persists per-selection counters.
type ViewStatStore interface {
	IncrementViewStat(ctx context.Context, sel core.Selection, placeholder bool, at time.Time) error
	ViewStats(ctx context.Context) ([]storage.ViewStatSummary, error)
}

// ViewStatsWorker turns dashboard view events into stored counters.
type ViewStatsWorker struct {
	store   ViewStatStore
	handled atomic.Int64
}

func NewViewStatsWorker(store ViewStatStore) *ViewStatsWorker {
	return &ViewStatsWorker{store: store}
}

// HandleViewEvent records a single view event from AMQP.
func (w *ViewStatsWorker) HandleViewEvent(ctx context.Context, msg *amqp.ViewEvent) error {
	if err := w.store.IncrementViewStat(ctx, msg.Selection(), msg.Placeholder, msg.Timestamp); err != nil {
		return fmt.Errorf("record view stat: %w", err)
	}
	w.handled.Add(1)

	slog.DebugContext(ctx, "View event recorded",
		"component", "worker",
		"report", msg.Report,
		"year", msg.Year,
		"placeholder", msg.Placeholder,
		"cache_hit", msg.CacheHit)
	return nil
}

// Handled reports how many events were stored by this worker.
func (w *ViewStatsWorker) Handled() int64 {
	return w.handled.Load()
}

// StartupSummary logs the most viewed selections at worker startup.
func (w *ViewStatsWorker) StartupSummary(ctx context.Context, limit int) error {
	stats, err := w.store.ViewStats(ctx)
	if err != nil {
		return fmt.Errorf("read view stats: %w", err)
	}
	if len(stats) == 0 {
		slog.InfoContext(ctx, "No view stats recorded yet", "component", "worker")
		return nil
	}

	var total int64
	for _, s := range stats {
		total += s.Views
	}
	slog.InfoContext(ctx, "View stats on startup",
		"component", "worker",
		"selections", len(stats),
		"total_views", total)

	if limit > len(stats) {
		limit = len(stats)
	}
	for _, s := range stats[:limit] {
		slog.InfoContext(ctx, "Top selection",
			"component", "worker",
			"report", s.Report,
			"year", s.Year,
			"views", s.Views,
			"placeholder_views", s.PlaceholderViews,
			"last_viewed_at", s.LastViewedAt)
	}
	return nil
}
