package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the GET /picks handler
	PicksRequestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "picks_request_latency_seconds",
		Help:    "Latency of the personalized picks handler",
		Buckets: prometheus.DefBuckets,
	}, []string{"category"})

	// Requests to GET /picks by outcome
	PicksRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "picks_requests_total",
		Help: "Total number of personalized picks requests by outcome",
	}, []string{"category", "outcome"})

	// Admin generation triggers by outcome
	GenerationTriggers = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "picks_generation_triggers_total",
		Help: "Generation runs triggered through the admin API",
	}, []string{"category", "outcome"})
)

func Init() {
	prometheus.MustRegister(
		PicksRequestLatency,
		PicksRequests,
		GenerationTriggers,
	)
}
