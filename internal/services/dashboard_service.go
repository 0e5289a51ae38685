package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"autosales/internal/amqp"
	"autosales/internal/cache"
	"autosales/internal/core"
	"autosales/internal/log"
	"autosales/internal/source"
)

// eventQueueSize bounds the view events waiting for the broker. Events
// arriving while the queue is full are dropped.
const eventQueueSize = 256

// EventPublisher receives one event per served selection.
type EventPublisher interface {
	PublishViewEvent(ctx context.Context, event *amqp.ViewEvent) error
}

// DashboardService answers control changes against the loaded dataset.
type DashboardService struct {
	dataset   *core.Dataset
	results   *cache.LRUCache[core.Result]
	group     singleflight.Group
	publisher EventPublisher
	logger    *log.Logger
	events    *log.StructuredLogger

	computations atomic.Int64
	published    atomic.Int64
	publishErrs  atomic.Int64
	dropped      atomic.Int64

	queue     chan *amqp.ViewEvent
	stop      chan struct{}
	drained   chan struct{}
	stopOnce  sync.Once
	stopped   atomic.Bool
	runCtx    context.Context
	cancelRun context.CancelFunc
}

// Stats is a snapshot of the service counters exposed on /metrics.
type Stats struct {
	Records       int
	Years         int
	Computations  int64
	Cache         cache.Stats
	EventsSent    int64
	EventFailures int64 // includes dropped events
	EventsDropped int64
}

// NewDashboardService wires the dataset with a result cache. publisher may be nil.
func NewDashboardService(ds *core.Dataset, results *cache.LRUCache[core.Result], publisher EventPublisher, logger *log.Logger) *DashboardService {
	if ds == nil {
		ds = core.NewDataset(nil)
	}
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.WithComponent(log.ComponentDashboard)
	s := &DashboardService{
		dataset:   ds,
		results:   results,
		publisher: publisher,
		logger:    logger,
		events:    log.NewStructuredLogger(logger),
	}
	if publisher != nil {
		s.queue = make(chan *amqp.ViewEvent, eventQueueSize)
		s.stop = make(chan struct{})
		s.drained = make(chan struct{})
		s.runCtx, s.cancelRun = context.WithCancel(context.Background())
		go s.runPublisher()
	}
	return s
}

// LoadDataset runs the loader once and builds the immutable dataset.
func LoadDataset(ctx context.Context, loader source.DatasetLoader, backend string, logger *log.Logger) (*core.Dataset, error) {
	if logger == nil {
		logger = log.Nop()
	}
	start := time.Now()
	records, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("load dataset: no records")
	}
	ds := core.NewDataset(records)

	name := backend
	if n, ok := loader.(source.Named); ok {
		name = n.Source()
	}
	log.NewStructuredLogger(logger).LogDatasetLoaded(ctx, backend, name, ds.Len(), len(ds.Years()))
	logger.DebugContext(ctx, "Dataset load timing", "elapsed", time.Since(start))
	return ds, nil
}

func (s *DashboardService) Years() []int {
	return s.dataset.Years()
}

func (s *DashboardService) DefaultYear() (int, bool) {
	return s.dataset.DefaultYear()
}

func (s *DashboardService) VehicleTypes() []string {
	return s.dataset.VehicleTypes()
}

// YearControl reports whether the year dropdown is usable for mode.
func (s *DashboardService) YearControl(mode core.ReportMode) core.YearControl {
	return core.SelectorState(mode)
}

// Ready reports whether a non-empty dataset is loaded.
func (s *DashboardService) Ready() bool {
	return s.dataset.Len() > 0
}

// Charts computes the report for sel. The returned Result is owned by the
// caller; the bool reports whether it came from the cache.
func (s *DashboardService) Charts(ctx context.Context, sel core.Selection) (core.Result, bool) {
	sel = s.normalize(sel)
	key := sel.CacheKey()

	if s.results != nil {
		if cached, ok := s.results.Get(key); ok {
			s.finish(ctx, sel, cached, true)
			return cached.Clone(), true
		}
	}

	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		s.computations.Add(1)
		res := core.Compute(s.dataset, sel)
		if s.results != nil {
			s.results.Set(key, res)
		}
		return res, nil
	})
	res := v.(core.Result)
	s.finish(ctx, sel, res, false)
	return res.Clone(), false
}

// normalize also drops yearly years the dataset does not have; they all
// render the same placeholder.
func (s *DashboardService) normalize(sel core.Selection) core.Selection {
	sel = sel.Normalize()
	if sel.Report == core.Yearly && sel.HasYear() && !s.dataset.HasYear(sel.Year) {
		sel.Year = core.NoYear
	}
	return sel
}

func (s *DashboardService) finish(ctx context.Context, sel core.Selection, res core.Result, cacheHit bool) {
	s.events.LogChartsComputed(ctx, string(sel.Report), sel.Year, len(res.Charts), res.IsPlaceholder(), cacheHit)
	s.publish(ctx, amqp.NewViewEvent(sel, res, cacheHit))
}

// publish queues the event without blocking; a broker outage never
// reaches the page.
func (s *DashboardService) publish(ctx context.Context, event *amqp.ViewEvent) {
	if s.publisher == nil {
		return
	}
	if !s.stopped.Load() {
		select {
		case s.queue <- event:
			return
		default:
		}
	}
	s.dropped.Add(1)
	s.publishErrs.Add(1)
	s.logger.DebugContext(ctx, "View event dropped",
		log.FieldOperation, log.OpPublish,
		log.FieldReport, event.Report,
		log.FieldYear, event.Year)
}

// runPublisher is the only goroutine talking to the publisher. After stop
// it flushes whatever is still queued and exits.
func (s *DashboardService) runPublisher() {
	defer close(s.drained)
	for {
		select {
		case event := <-s.queue:
			s.send(event)
		case <-s.stop:
			for {
				select {
				case event := <-s.queue:
					s.send(event)
				default:
					return
				}
			}
		}
	}
}

func (s *DashboardService) send(event *amqp.ViewEvent) {
	if err := s.publisher.PublishViewEvent(s.runCtx, event); err != nil {
		s.publishErrs.Add(1)
		s.logger.Warn("Failed to publish view event",
			log.FieldOperation, log.OpPublish,
			log.FieldReport, event.Report,
			log.FieldYear, event.Year,
			log.FieldError, err,
			"error_type", log.ErrorType(err))
		return
	}
	s.published.Add(1)
}

// Stats returns counters for the metrics endpoint.
func (s *DashboardService) Stats() Stats {
	st := Stats{
		Records:       s.dataset.Len(),
		Years:         len(s.dataset.Years()),
		Computations:  s.computations.Load(),
		EventsSent:    s.published.Load(),
		EventFailures: s.publishErrs.Load(),
		EventsDropped: s.dropped.Load(),
	}
	if s.results != nil {
		st.Cache = s.results.Stats()
	}
	return st
}

// Close flushes queued view events. If ctx ends first the publish in
// progress is cancelled and the remaining events are abandoned.
func (s *DashboardService) Close(ctx context.Context) error {
	if s.publisher == nil {
		return nil
	}
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		close(s.stop)
	})
	select {
	case <-s.drained:
		s.cancelRun()
		return nil
	case <-ctx.Done():
		s.cancelRun()
		return fmt.Errorf("wait for pending events: %w", ctx.Err())
	}
}
