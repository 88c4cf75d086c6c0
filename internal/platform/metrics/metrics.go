package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the validation engine. All methods are
// nil-safe so callers can run without metrics wired.
type Metrics struct {
	// Latency of external lookups by source ("company", "previous_bsdas")
	LookupLatency *prometheus.HistogramVec

	// Parse outcomes by entry point and result
	ParseOutcome *prometheus.CounterVec

	// Overall parse latency including lookups
	ParseLatency prometheus.Histogram
}

// New creates a Metrics instance with all engine metrics registered on the
// default registry.
func New() *Metrics {
	return &Metrics{
		LookupLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trackdechets_validation_lookup_duration_seconds",
			Help:    "Duration of external lookups by source",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"source"}),

		ParseOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trackdechets_validation_parse_total",
			Help: "Total parse outcomes by entry point and result",
		}, []string{"entrypoint", "result"}),

		ParseLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trackdechets_validation_parse_duration_seconds",
			Help:    "Duration of a full parse including external lookups",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// ObserveLookupLatency records the duration of one external lookup.
func (m *Metrics) ObserveLookupLatency(source string, d time.Duration) {
	if m != nil {
		m.LookupLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// CountParse records the outcome of one parse call.
func (m *Metrics) CountParse(entrypoint, result string) {
	if m != nil {
		m.ParseOutcome.WithLabelValues(entrypoint, result).Inc()
	}
}

// ObserveParseLatency records the duration of a full parse call.
func (m *Metrics) ObserveParseLatency(d time.Duration) {
	if m != nil {
		m.ParseLatency.Observe(d.Seconds())
	}
}
