package retrieval

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RetrievalFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retrieval_fallback_total",
			Help: "Count of requests served from the unfiltered pool because no pick matched the user's risk levels.",
		},
		[]string{"category", "betting_style"},
	)

	ProfileDefaultsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "retrieval_profile_defaults_total",
			Help: "Count of requests served with the default profile after a lookup failure.",
		},
	)
)

func init() {
	prometheus.MustRegister(RetrievalFallbackTotal, ProfileDefaultsTotal)
}
