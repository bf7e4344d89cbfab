package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.Metrics on Prometheus.
type Recorder struct {
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	upstream      *prometheus.CounterVec
	upstreamLat   *prometheus.HistogramVec
	categoryLive  *prometheus.GaugeVec
	categoryItems *prometheus.GaugeVec
	sinkErrors    *prometheus.CounterVec
	staleDropped  prometheus.Counter
}

// New registers the FinDash collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		cycles: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findash_refresh_cycles_total",
				Help: "Refresh cycles by outcome (settled, exhausted, superseded)",
			},
			[]string{"outcome"},
		),
		cycleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "findash_refresh_cycle_duration_seconds",
			Help:    "Wall time from seeding to settle",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 6, 8},
		}),
		upstream: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findash_upstream_requests_total",
				Help: "Live fetches by source and result kind (ok or an error kind)",
			},
			[]string{"source", "result"},
		),
		upstreamLat: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "findash_upstream_duration_seconds",
				Help:    "Live fetch latency by source",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		categoryLive: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "findash_category_live",
				Help: "1 when the category was adopted from a live source in the last settled cycle",
			},
			[]string{"category"},
		),
		categoryItems: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "findash_category_items",
				Help: "Items per category in the current snapshot",
			},
			[]string{"category"},
		),
		sinkErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findash_sink_errors_total",
				Help: "Snapshot sink failures by sink",
			},
			[]string{"sink"},
		),
		staleDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "findash_stale_results_dropped_total",
			Help: "Live results discarded because their cycle was no longer current",
		}),
	}
}

func (r *Recorder) RecordCycle(outcome string, seconds float64) {
	r.cycles.WithLabelValues(outcome).Inc()
	r.cycleDuration.Observe(seconds)
}

func (r *Recorder) RecordUpstream(source, result string, seconds float64) {
	r.upstream.WithLabelValues(source, result).Inc()
	r.upstreamLat.WithLabelValues(source).Observe(seconds)
}

func (r *Recorder) RecordCategory(category string, live bool, items int) {
	v := 0.0
	if live {
		v = 1
	}
	r.categoryLive.WithLabelValues(category).Set(v)
	r.categoryItems.WithLabelValues(category).Set(float64(items))
}

func (r *Recorder) RecordSinkError(sink string) {
	r.sinkErrors.WithLabelValues(sink).Inc()
}

func (r *Recorder) RecordStaleDropped() {
	r.staleDropped.Inc()
}
