package generator

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GeneratedPicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generated_picks_total",
			Help: "Count of picks persisted by category and risk_level.",
		},
		[]string{"category", "risk_level"},
	)

	DroppedPicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dropped_picks_total",
			Help: "Count of tool-layer picks dropped before persistence by category and reason.",
		},
		[]string{"category", "reason"},
	)

	GenerationRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_runs_total",
			Help: "Count of generation runs by category and status.",
		},
		[]string{"category", "status"},
	)

	ToolLayerAttemptsHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tool_layer_attempts",
			Help:    "Tool-layer attempts needed per generation run.",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
		[]string{"category"},
	)
)

func init() {
	prometheus.MustRegister(GeneratedPicksTotal, DroppedPicksTotal, GenerationRunsTotal, ToolLayerAttemptsHistogram)
}
