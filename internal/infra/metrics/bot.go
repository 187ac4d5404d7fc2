package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(tgUpdatesTotal, tgRateLimited) }

var (
	tgUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tg_updates_total",
			Help: "Telegram updates processed by type and outcome.",
		},
		[]string{"type", "outcome"}, // type="command|message|callback"
	)

	tgRateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tg_rate_limited_total",
			Help: "Updates rejected by the per-user rate limiter.",
		},
	)
)

func IncUpdate(updateType, outcome string) {
	tgUpdatesTotal.WithLabelValues(norm(updateType), norm(outcome)).Inc()
}

func IncRateLimited() { tgRateLimited.Inc() }
