package metrics

import (
	"github.com/jusunglee/hypua"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Web server metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hypua_http_requests_total",
		Help: "Total HTTP requests by route, method, and status code",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hypua_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"route", "method"})

	RateLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hypua_rate_limit_hits_total",
		Help: "Total rate limit rejections",
	})
)

// Conversion metrics.
var (
	ConversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hypua_conversions_total",
		Help: "Texts converted by source and whether they changed",
	}, []string{"source", "changed"})

	ConvertedBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hypua_converted_bytes_total",
		Help: "Input bytes passed through the converter by source",
	}, []string{"source"})

	LegacyRunesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hypua_legacy_runes_total",
		Help: "PUA-range runes seen by result",
	}, []string{"result"})
)

// Document archive metrics.
var (
	DocumentsStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hypua_documents_stored_total",
		Help: "Document archive writes by result",
	}, []string{"result"})
)

// Database pool metrics (gauges updated periodically).
var (
	DBPoolTotalConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hypua_db_pool_total_conns",
		Help: "Total number of connections in the pool",
	})

	DBPoolIdleConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hypua_db_pool_idle_conns",
		Help: "Number of idle connections in the pool",
	})

	DBPoolAcquiredConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hypua_db_pool_acquired_conns",
		Help: "Number of acquired connections in the pool",
	})

	DBPoolMaxConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hypua_db_pool_max_conns",
		Help: "Max connections configured for the pool",
	})
)

// ObserveConversion records one converted text.
func ObserveConversion(source string, inputLen int, st hypua.Stats) {
	changed := "false"
	if st.Changed() {
		changed = "true"
	}
	ConversionsTotal.WithLabelValues(source, changed).Inc()
	ConvertedBytes.WithLabelValues(source).Add(float64(inputLen))
	LegacyRunesTotal.WithLabelValues("resolved").Add(float64(st.Resolved))
	LegacyRunesTotal.WithLabelValues("unmapped").Add(float64(st.Unmapped))
}
