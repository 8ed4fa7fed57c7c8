package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outlook_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outlook_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "outlook_http_active_requests",
			Help: "HTTP requests currently being served",
		},
	)

	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outlook_provider_calls_total",
			Help: "Historical data provider calls by outcome",
		},
		[]string{"provider", "status"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outlook_provider_latency_seconds",
			Help:    "Historical data provider latency in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"provider"},
	)

	RecordsParsed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "outlook_records_parsed",
			Help:    "Daily records parsed per provider payload",
			Buckets: prometheus.ExponentialBuckets(1000, 2, 6),
		},
	)

	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outlook_analyses_total",
			Help: "Analyses by outcome",
		},
		[]string{"outcome"},
	)

	EnhancementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outlook_enhancements_total",
			Help: "Enhancement relay calls by outcome",
		},
		[]string{"outcome"},
	)
)
