package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config controls metric collection.
type Config struct {
	// Enabled turns collection on. When false every recording method is a
	// no-op and the handler serves an empty registry.
	Enabled bool

	// Namespace prefixes every metric name.
	Namespace string

	// ScanDurationBuckets overrides the default duration histogram buckets.
	ScanDurationBuckets []float64
}

// Collector owns the Prometheus registry and all metric vectors for the
// service. All methods are safe for concurrent use.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	scansTotal    *prometheus.CounterVec
	scanDuration  *prometheus.HistogramVec
	scanRiskScore *prometheus.HistogramVec

	scannerExecutions *prometheus.CounterVec
	scannerDuration   *prometheus.HistogramVec

	batchItemsTotal *prometheus.CounterVec
	batchInFlight   prometheus.Gauge

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// NewCollector creates a collector with its own registry. If registry is
// nil a fresh one is created.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "sentra"
	}
	if len(cfg.ScanDurationBuckets) == 0 {
		// Scanner work is CPU-bound pattern matching: sub-millisecond to
		// low hundreds of milliseconds.
		cfg.ScanDurationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		scansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "scans_total",
				Help:      "Total number of scan requests processed",
			},
			[]string{"phase", "outcome"},
		),

		scanDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "scan_duration_seconds",
				Help:      "Duration of complete scan requests in seconds",
				Buckets:   cfg.ScanDurationBuckets,
			},
			[]string{"phase"},
		),

		scanRiskScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "scan_risk_score",
				Help:      "Distribution of combined risk scores",
				Buckets:   []float64{0.0, 0.1, 0.2, 0.4, 0.6, 0.7, 0.8, 0.9, 1.0},
			},
			[]string{"phase"},
		),

		scannerExecutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "scanner_executions_total",
				Help:      "Total number of individual scanner executions",
			},
			[]string{"scanner", "outcome"},
		),

		scannerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "scanner_duration_seconds",
				Help:      "Duration of individual scanner executions in seconds",
				Buckets:   cfg.ScanDurationBuckets,
			},
			[]string{"scanner"},
		),

		batchItemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "batch_items_total",
				Help:      "Total number of batch items processed",
			},
			[]string{"outcome"},
		),

		batchInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "batch_in_flight",
				Help:      "Number of batch items currently executing",
			},
		),

		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of scan result cache hits",
			},
		),

		cacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of scan result cache misses",
			},
		),
	}

	if cfg.Enabled {
		registry.MustRegister(
			c.scansTotal,
			c.scanDuration,
			c.scanRiskScore,
			c.scannerExecutions,
			c.scannerDuration,
			c.batchItemsTotal,
			c.batchInFlight,
			c.cacheHits,
			c.cacheMisses,
		)
	}

	return c
}

// RecordScan records a completed scan request. outcome is one of "valid",
// "invalid", or "error".
func (c *Collector) RecordScan(phase, outcome string, duration time.Duration, riskScore float64) {
	if !c.config.Enabled {
		return
	}
	c.scansTotal.WithLabelValues(phase, outcome).Inc()
	c.scanDuration.WithLabelValues(phase).Observe(duration.Seconds())
	c.scanRiskScore.WithLabelValues(phase).Observe(riskScore)
}

// RecordScannerExecution records one scanner run within a scan.
func (c *Collector) RecordScannerExecution(scanner, outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.scannerExecutions.WithLabelValues(scanner, outcome).Inc()
	c.scannerDuration.WithLabelValues(scanner).Observe(duration.Seconds())
}

// RecordBatchItem records the outcome of one batch item.
func (c *Collector) RecordBatchItem(outcome string) {
	if !c.config.Enabled {
		return
	}
	c.batchItemsTotal.WithLabelValues(outcome).Inc()
}

// BatchItemStarted increments the in-flight gauge.
func (c *Collector) BatchItemStarted() {
	if !c.config.Enabled {
		return
	}
	c.batchInFlight.Inc()
}

// BatchItemFinished decrements the in-flight gauge.
func (c *Collector) BatchItemFinished() {
	if !c.config.Enabled {
		return
	}
	c.batchInFlight.Dec()
}

// RecordCacheHit increments the cache hit counter.
func (c *Collector) RecordCacheHit() {
	if !c.config.Enabled {
		return
	}
	c.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func (c *Collector) RecordCacheMiss() {
	if !c.config.Enabled {
		return
	}
	c.cacheMisses.Inc()
}

// Registry exposes the underlying registry for tests and custom handlers.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler serving the metrics in Prometheus
// exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
