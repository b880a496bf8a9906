package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	verdicts      *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	lastPrice     *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
	chunkFailures prometheus.Counter
}

// New registers collectors on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers collectors on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		verdicts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finverdict_verdicts_total",
				Help: "Verdicts produced by overall signal",
			},
			[]string{"symbol", "signal"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finverdict_errors_total",
				Help: "Collaborator and pipeline errors by kind",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finverdict_last_price",
				Help: "Last analyzed price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finverdict_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
			[]string{"operation"},
		),
		chunkFailures: f.NewCounter(
			prometheus.CounterOpts{
				Name: "finverdict_classifier_chunk_failures_total",
				Help: "Classifier chunks replaced by neutral defaults",
			},
		),
	}
}

func (r *Recorder) RecordVerdict(symbol, signal string) {
	r.verdicts.WithLabelValues(symbol, signal).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordChunkFailure() {
	r.chunkFailures.Inc()
}
