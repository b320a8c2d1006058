package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/trailfire/server/internal/cache"
	"github.com/dpup/trailfire/server/internal/config"
	"github.com/dpup/trailfire/server/internal/lib/fire"
	"github.com/dpup/trailfire/server/internal/lib/proximity"
	"github.com/dpup/trailfire/server/internal/lib/report"
	"github.com/dpup/trailfire/server/internal/lib/trail"
	"github.com/dpup/trailfire/server/internal/lib/zone"
	"github.com/dpup/trailfire/server/internal/metrics"
)

var (
	// ErrUnknownTrail is returned for a trail code that is not configured
	ErrUnknownTrail = errors.New("unknown trail")

	// ErrDataFetch wraps any failure to retrieve fire data. The cache is left
	// untouched and the fetch is retried.
	ErrDataFetch = errors.New("fire data fetch failed")
)

// FireSource supplies the current raw fire perimeters
type FireSource interface {
	FetchFires(ctx context.Context) ([]fire.RawFireRecord, error)
}

// FireSourceFunc adapts a function to FireSource
type FireSourceFunc func(ctx context.Context) ([]fire.RawFireRecord, error)

// FetchFires calls f
func (f FireSourceFunc) FetchFires(ctx context.Context) ([]fire.RawFireRecord, error) {
	return f(ctx)
}

// TrackedTrail bundles a trail with everything derived from it once at startup
type TrackedTrail struct {
	Trail   *trail.Trail
	Markers *trail.MileMarkerTable
	Zone    *zone.Buffer
	Borders fire.Borders
}

// NewTrackedTrail derives the mile markers and proximity zone for a trail and
// keeps only the borders of the trail's states
func NewTrackedTrail(t *trail.Trail, borders fire.Borders, radiusMiles float64) (*TrackedTrail, error) {
	buffer, err := zone.NewBuffer(t, radiusMiles)
	if err != nil {
		return nil, fmt.Errorf("failed to build proximity zone for %s: %w", t.Code(), err)
	}
	return &TrackedTrail{
		Trail:   t,
		Markers: trail.MileMarkers(t),
		Zone:    buffer,
		Borders: borders.Select(t.States()),
	}, nil
}

// TrailStatus summarises the cached report for a trail
type TrailStatus struct {
	Code        string
	Name        string
	Available   bool
	HasReport   bool
	LastUpdated time.Time

	// Stale reports are past one refresh interval; Overdue ones have missed
	// at least one refresh
	Stale   bool
	Overdue bool

	Crossing  int
	Proximate int
}

// FireTracker owns the per-trail report cache. Refresh is the only writer;
// GetReport never blocks on analysis.
type FireTracker struct {
	trails      map[string]*TrackedTrail
	unavailable map[string]string
	order       []string
	reports     *cache.Cache[string]
	analyses    *cache.Cache[*proximity.Analysis]
	config      config.FiresConfig
}

// NewFireTracker creates a tracker serving the apology text until each trail's
// first successful refresh
func NewFireTracker(trails []*TrackedTrail, cfg config.FiresConfig) *FireTracker {
	f := &FireTracker{
		trails:      make(map[string]*TrackedTrail, len(trails)),
		unavailable: make(map[string]string),
		reports:     cache.New(report.ApologyText),
		analyses:    cache.New[*proximity.Analysis](nil),
		config:      cfg,
	}
	for _, t := range trails {
		f.track(t)
	}
	return f
}

func (f *FireTracker) track(t *TrackedTrail) {
	code := t.Trail.Code()
	if _, exists := f.trails[code]; !exists {
		f.order = append(f.order, code)
	}
	f.trails[code] = t
}

// MarkUnavailable registers a configured trail that could not be loaded. It
// is listed and answered with the apology text but never analysed.
func (f *FireTracker) MarkUnavailable(code, name string) {
	if _, loaded := f.trails[code]; loaded {
		return
	}
	if _, exists := f.unavailable[code]; !exists {
		f.order = append(f.order, code)
	}
	f.unavailable[code] = name
}

// Tracks reports whether code is a configured trail, loaded or not
func (f *FireTracker) Tracks(code string) bool {
	if _, ok := f.trails[code]; ok {
		return true
	}
	_, ok := f.unavailable[code]
	return ok
}

// Codes returns the tracked trail codes in configured order
func (f *FireTracker) Codes() []string {
	return slices.Clone(f.order)
}

// Trail returns a tracked trail by code
func (f *FireTracker) Trail(code string) (*TrackedTrail, bool) {
	t, ok := f.trails[code]
	return t, ok
}

// GetReport returns the cached report text for a trail. Before the first
// successful refresh, and for unknown codes, this is the apology text.
func (f *FireTracker) GetReport(code string) string {
	text, _ := f.reports.Get(code)
	return text
}

// Analysis returns the last successful analysis for a trail
func (f *FireTracker) Analysis(code string) (*proximity.Analysis, bool) {
	a, ok := f.analyses.Get(code)
	return a, ok && a != nil
}

// Refresh recomputes one trail's report from raw fire records. It reports
// whether the cache was updated; on failure the previous text is kept.
func (f *FireTracker) Refresh(ctx context.Context, code string, raw []fire.RawFireRecord) bool {
	ctx = logging.EnsureLogger(ctx)
	fires := f.normalize(ctx, raw)
	return f.refresh(ctx, code, fires, len(raw))
}

// RefreshAll recomputes every trail from one fetch
func (f *FireTracker) RefreshAll(ctx context.Context, raw []fire.RawFireRecord) map[string]bool {
	ctx = logging.EnsureLogger(ctx)
	fires := f.normalize(ctx, raw)
	results := make(map[string]bool, len(f.order))
	for _, code := range f.order {
		results[code] = f.refresh(ctx, code, fires, len(raw))
	}
	return results
}

func (f *FireTracker) normalize(ctx context.Context, raw []fire.RawFireRecord) []fire.FirePolygon {
	fires, errs := fire.NormalizeAll(raw)
	for _, err := range errs {
		logging.Warnw(ctx, "Skipping fire", "error", err)
	}
	metrics.MalformedFiresTotal.Add(float64(len(errs)))
	return fires
}

func (f *FireTracker) refresh(ctx context.Context, code string, fires []fire.FirePolygon, considered int) bool {
	if _, ok := f.unavailable[code]; ok {
		metrics.TrailRefreshTotal.WithLabelValues(code, "unavailable").Inc()
		return false
	}

	analysis, text, err := f.analyze(ctx, code, fires, considered)
	if err != nil {
		metrics.TrailRefreshTotal.WithLabelValues(code, "error").Inc()
		logging.Errorw(ctx, "Fire report refresh failed, keeping previous report",
			"trail", code, "error", err)
		return false
	}

	f.reports.Set(code, text, f.config.RefreshInterval, "wildfire")
	f.analyses.Set(code, analysis, f.config.RefreshInterval, "wildfire")

	crossing := analysis.Count(proximity.Crossing)
	proximate := analysis.Count(proximity.Proximate)
	metrics.TrailRefreshTotal.WithLabelValues(code, "ok").Inc()
	metrics.TrailFires.WithLabelValues(code, "crossing").Set(float64(crossing))
	metrics.TrailFires.WithLabelValues(code, "proximate").Set(float64(proximate))
	logging.Infow(ctx, "Fire report refreshed",
		"trail", code, "crossing", crossing, "proximate", proximate, "considered", considered)
	return true
}

func (f *FireTracker) analyze(ctx context.Context, code string, fires []fire.FirePolygon, considered int) (*proximity.Analysis, string, error) {
	t, ok := f.trails[code]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownTrail, code)
	}

	nearby := fire.Filter(t.Zone, t.Borders, fires)
	results, err := proximity.Classify(ctx, t.Trail, t.Markers, nearby, proximity.Options{
		TrailSampleCap: f.config.TrailSampleCap,
		FireSampleCap:  f.config.FireSampleCap,
		Workers:        f.config.Workers,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to classify fires: %w", err)
	}

	text, err := report.CreateReport(code, t.Zone.RadiusMiles(), results)
	if err != nil {
		return nil, "", err
	}

	return &proximity.Analysis{
		Trail:      t.Trail,
		Markers:    t.Markers,
		ZoneBound:  t.Zone.Bound(),
		Results:    results,
		Considered: considered,
		CreatedAt:  time.Now(),
	}, text, nil
}

// Status lists every tracked trail in configured order
func (f *FireTracker) Status() []TrailStatus {
	statuses := make([]TrailStatus, 0, len(f.order))
	for _, code := range f.order {
		entry, found := f.reports.GetWithMetadata(code)
		status := TrailStatus{
			Code:      code,
			HasReport: found,
			Stale:     f.reports.IsStale(code),
			Overdue:   f.reports.IsVeryStale(code),
		}
		if t, ok := f.trails[code]; ok {
			status.Name = t.Trail.Name()
			status.Available = true
		} else {
			status.Name = f.unavailable[code]
		}
		if found {
			status.LastUpdated = entry.CreatedAt
		}
		if a, ok := f.Analysis(code); ok {
			status.Crossing = a.Count(proximity.Crossing)
			status.Proximate = a.Count(proximity.Proximate)
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// CacheStats summarises the report cache
func (f *FireTracker) CacheStats() cache.Stats {
	return f.reports.Stats()
}
