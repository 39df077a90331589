package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hn_ingest"

const (
	OutcomeFound  = "found"
	OutcomeAbsent = "absent"
	OutcomeError  = "error"
)

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	ticks               prometheus.Counter
	tickDuration        prometheus.Histogram
	batchSize           prometheus.Histogram
	highWaterMark       prometheus.Gauge
	consecutiveFailures prometheus.Gauge
	maxIDFailures       prometheus.Counter
	itemsFetched        *prometheus.CounterVec
	fetchRetries        prometheus.Counter
	itemsFiltered       prometheus.Counter
	documentsWritten    *prometheus.CounterVec
	sinkErrors          *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Number of completed poll ticks.",
		}),
		tickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Duration of a poll tick including fetch, normalize and emit.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		batchSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of item IDs returned by the tracker per tick.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		highWaterMark: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "high_water_mark",
			Help:      "Largest item ID handed out by the tracker.",
		}),
		consecutiveFailures: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "max_id_consecutive_failures",
			Help:      "Consecutive ticks whose max item lookup failed after retries.",
		}),
		maxIDFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "max_id_failures_total",
			Help:      "Max item lookups that failed after retries.",
		}),
		itemsFetched: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_fetched_total",
			Help:      "Item lookups by outcome.",
		}, []string{"outcome"}),
		fetchRetries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_retries_total",
			Help:      "Retried item lookups.",
		}),
		itemsFiltered: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_filtered_total",
			Help:      "Items dropped by the item type filter.",
		}),
		documentsWritten: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_written_total",
			Help:      "Documents written per sink.",
		}, []string{"sink"}),
		sinkErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Failed document writes per sink.",
		}, []string{"sink"}),
	}
}

func (m *Metrics) TickCompleted(d time.Duration, batchSize int) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.tickDuration.Observe(d.Seconds())
	m.batchSize.Observe(float64(batchSize))
}

func (m *Metrics) SetHighWaterMark(id int64) {
	if m == nil {
		return
	}
	m.highWaterMark.Set(float64(id))
}

func (m *Metrics) MaxIDFailed(consecutive int) {
	if m == nil {
		return
	}
	m.maxIDFailures.Inc()
	m.consecutiveFailures.Set(float64(consecutive))
}

func (m *Metrics) MaxIDRecovered() {
	if m == nil {
		return
	}
	m.consecutiveFailures.Set(0)
}

func (m *Metrics) ItemFetched(outcome string) {
	if m == nil {
		return
	}
	m.itemsFetched.WithLabelValues(outcome).Inc()
}

func (m *Metrics) FetchRetried() {
	if m == nil {
		return
	}
	m.fetchRetries.Inc()
}

func (m *Metrics) ItemFiltered() {
	if m == nil {
		return
	}
	m.itemsFiltered.Inc()
}

func (m *Metrics) DocumentWritten(sink string) {
	if m == nil {
		return
	}
	m.documentsWritten.WithLabelValues(sink).Inc()
}

func (m *Metrics) SinkFailed(sink string) {
	if m == nil {
		return
	}
	m.sinkErrors.WithLabelValues(sink).Inc()
}
