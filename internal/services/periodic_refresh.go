package services

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"
	"github.com/google/uuid"

	"github.com/dpup/trailfire/server/internal/config"
	"github.com/dpup/trailfire/server/internal/metrics"
)

// PeriodicRefreshService is the single background writer of fire reports. It
// fetches fires once per cycle and rebuilds every trail's report, retrying
// after a shorter delay when the fetch fails.
type PeriodicRefreshService struct {
	tracker *FireTracker
	source  FireSource
	config  config.FiresConfig

	// Background refresh control
	mutex    sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
	running  bool
}

// NewPeriodicRefreshService creates a new periodic refresh service
func NewPeriodicRefreshService(tracker *FireTracker, source FireSource, cfg config.FiresConfig) *PeriodicRefreshService {
	return &PeriodicRefreshService{
		tracker: tracker,
		source:  source,
		config:  cfg,
	}
}

// Start runs the first cycle immediately and then one per refresh interval
func (p *PeriodicRefreshService) Start(ctx context.Context) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.running {
		return nil
	}
	if p.config.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %v", p.config.RefreshInterval)
	}

	ctx = logging.EnsureLogger(ctx)
	p.running = true
	p.stopChan = make(chan struct{})
	p.done = make(chan struct{})

	logging.Infow(ctx, "Starting periodic fire refresh",
		"interval", p.config.RefreshInterval, "retry_delay", p.config.RetryDelay)
	go p.refreshLoop(ctx, p.stopChan, p.done)
	return nil
}

// Stop halts the loop and waits for any in-flight cycle to finish
func (p *PeriodicRefreshService) Stop() {
	p.mutex.Lock()
	if !p.running {
		p.mutex.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	done := p.done
	p.mutex.Unlock()

	<-done
}

// IsRunning returns whether periodic refresh is active
func (p *PeriodicRefreshService) IsRunning() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.running
}

func (p *PeriodicRefreshService) refreshLoop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		wait := p.config.RefreshInterval
		if err := p.RunOnce(ctx); err != nil && p.config.RetryDelay > 0 {
			wait = p.config.RetryDelay
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			logging.Infow(ctx, "Periodic refresh stopping due to context cancellation")
			return
		case <-stop:
			timer.Stop()
			logging.Infow(ctx, "Periodic refresh stopping due to stop signal")
			return
		case <-timer.C:
		}
	}
}

// RunOnce performs a single fetch and refresh cycle. A fetch failure returns
// an error wrapping ErrDataFetch and leaves every cached report untouched.
func (p *PeriodicRefreshService) RunOnce(ctx context.Context) (err error) {
	ctx = logging.EnsureLogger(ctx)
	cycleID := uuid.NewString()
	start := time.Now()

	defer func() {
		// A panic in one cycle must not kill the worker
		if r := recover(); r != nil {
			stack, _ := errors.ParseStack(debug.Stack())
			skipFrames := 3
			numFrames := 5
			logging.Errorw(ctx, "Periodic refresh: recovered from panic",
				"cycle_id", cycleID, "error", r, "error.stack_trace", stack.MinimalStack(skipFrames, numFrames))
			metrics.RefreshCyclesTotal.WithLabelValues("panic").Inc()
			err = fmt.Errorf("refresh cycle %s panicked: %v", cycleID, r)
		}
	}()

	fetchCtx := ctx
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	raw, fetchErr := p.source.FetchFires(fetchCtx)
	if fetchErr != nil {
		metrics.RefreshCyclesTotal.WithLabelValues("fetch_error").Inc()
		logging.Warnw(ctx, "Fire data fetch failed, keeping cached reports",
			"cycle_id", cycleID, "error", fetchErr, "retry_in", p.config.RetryDelay)
		return fmt.Errorf("%w: %w", ErrDataFetch, fetchErr)
	}
	metrics.FiresFetched.Set(float64(len(raw)))

	results := p.tracker.RefreshAll(ctx, raw)
	failed := 0
	for _, ok := range results {
		if !ok {
			failed++
		}
	}

	stats := p.tracker.CacheStats()
	metrics.CachedReports.WithLabelValues("fresh").Set(float64(stats.FreshEntries))
	metrics.CachedReports.WithLabelValues("stale").Set(float64(stats.StaleEntries))
	metrics.RefreshCyclesTotal.WithLabelValues("ok").Inc()
	metrics.RefreshDurationSeconds.Observe(time.Since(start).Seconds())
	logging.Infow(ctx, "Refresh cycle complete",
		"cycle_id", cycleID, "fires", len(raw), "trails", len(results), "failed", failed, "duration", time.Since(start))
	return nil
}
