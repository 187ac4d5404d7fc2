package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(urlChecksTotal, reputationLatencyMs)
}

var (
	urlChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "url_checks_total",
			Help: "URL reputation lookups by verdict and source.",
		},
		[]string{"verdict", "source"},
	)

	reputationLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reputation_latency_ms",
			Help:    "URL reputation call latency in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"source", "success"},
	)
)

func IncURLCheck(verdict, source string) {
	urlChecksTotal.WithLabelValues(norm(verdict), norm(source)).Inc()
}

func ObserveReputationLatency(source string, latencyMs int, success bool) {
	reputationLatencyMs.WithLabelValues(norm(source), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}
