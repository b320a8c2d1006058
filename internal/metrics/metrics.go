package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RefreshCyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trailfire_refresh_cycles_total",
		Help: "Refresh cycles by outcome (ok, fetch_error, panic)",
	}, []string{"outcome"})
	TrailRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trailfire_trail_refresh_total",
		Help: "Per-trail report refreshes by outcome (ok, error)",
	}, []string{"trail", "outcome"})
	RefreshDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trailfire_refresh_duration_seconds",
		Help:    "Time to fetch fires and rebuild every report",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	})
	FiresFetched = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "trailfire_fires_fetched",
		Help: "Fire perimeters returned by the last successful fetch",
	})
	MalformedFiresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trailfire_malformed_fires_total",
		Help: "Fire perimeters skipped for degenerate geometry",
	})
	TrailFires = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "trailfire_trail_fires",
		Help: "Fires near each trail in the current report by class",
	}, []string{"trail", "class"})
	CachedReports = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "trailfire_cached_reports",
		Help: "Cached trail reports by freshness (fresh, stale)",
	}, []string{"state"})
	SMSRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trailfire_sms_requests_total",
		Help: "Inbound SMS messages by outcome (report, help)",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(RefreshCyclesTotal)
	prometheus.MustRegister(TrailRefreshTotal)
	prometheus.MustRegister(RefreshDurationSeconds)
	prometheus.MustRegister(FiresFetched)
	prometheus.MustRegister(MalformedFiresTotal)
	prometheus.MustRegister(TrailFires)
	prometheus.MustRegister(CachedReports)
	prometheus.MustRegister(SMSRequestsTotal)
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
