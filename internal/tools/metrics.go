package tools

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// toolCalls counts tool invocations.
	//
	// Labels:
	//   - tool: registered tool name
	//   - status: "ok" or "error"
	toolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dishquery",
			Name:      "tool_calls_total",
			Help:      "Tool invocations by tool and outcome.",
		},
		[]string{"tool", "status"},
	)

	toolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dishquery",
			Name:      "tool_call_duration_seconds",
			Help:      "Tool invocation latency, including file reads.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"tool"},
	)
)
