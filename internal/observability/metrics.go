package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dtr_datecode"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Code operations.
	CodesEncoded     *prometheus.CounterVec   // labels: kind
	CodesDecoded     *prometheus.CounterVec   // labels: kind, outcome={success,error}
	DecodeCandidates *prometheus.HistogramVec // labels: kind
	DecodeDuration   *prometheus.HistogramVec // labels: kind
	DecodeCache      *prometheus.CounterVec   // labels: result={hit,miss}

	// Pipeline.
	MessagesConsumed        prometheus.Counter
	MessagesProduced        prometheus.Counter
	TransformErrors         prometheus.Counter
	MessagesRejected        prometheus.Counter
	PipelineRunning         prometheus.Gauge
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// HTTP API.
	HTTPRequests        *prometheus.CounterVec   // labels: method, route, status
	HTTPRequestDuration *prometheus.HistogramVec // labels: method, route

	// Announcements.
	Announcements   *prometheus.CounterVec // labels: outcome={success,error}
	AnnounceEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CodesEncoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codes_encoded_total",
			Help:      "Date codes generated, by conveyance kind.",
		}, []string{"kind"}),
		CodesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codes_decoded_total",
			Help:      "Date codes decoded, by conveyance kind and outcome.",
		}, []string{"kind", "outcome"}),
		DecodeCandidates: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decode_candidates",
			Help:      "Number of candidate dates produced per successful decode.",
			Buckets:   []float64{1, 2, 3, 4, 5, 10, 50, 366},
		}, []string{"kind"}),
		DecodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decode_duration_seconds",
			Help:      "Time spent decoding a single code.",
			Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}, []string{"kind"}),
		DecodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_cache_total",
			Help:      "Decode cache lookups by result.",
		}, []string{"result"}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total messages read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total messages written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total requests that could not be resolved.",
		}),
		MessagesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_rejected_total",
			Help:      "Rejections published for requests that could not be resolved.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Announcements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "announcements_total",
			Help:      "Current-code announcement runs by outcome.",
		}, []string{"outcome"}),
		AnnounceEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "announce_enabled",
			Help:      "1 when hourly announcements are scheduled, 0 otherwise.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.CodesEncoded,
		m.CodesDecoded,
		m.DecodeCandidates,
		m.DecodeDuration,
		m.DecodeCache,
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.MessagesRejected,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.Announcements,
		m.AnnounceEnabled,
	}
}

// ObserveDecode records the outcome of one decode call.
func (m *Metrics) ObserveDecode(kind string, candidates int, seconds float64, err error) {
	if err != nil {
		m.CodesDecoded.WithLabelValues(kind, "error").Inc()
		return
	}
	m.CodesDecoded.WithLabelValues(kind, "success").Inc()
	m.DecodeCandidates.WithLabelValues(kind).Observe(float64(candidates))
	m.DecodeDuration.WithLabelValues(kind).Observe(seconds)
}
