package resolve

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// fallbacks counts resolutions that missed the exact pass.
//
// Labels:
//   - outcome: "hit", "miss" or "disabled"
var fallbacks = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "dishquery",
		Subsystem: "resolver",
		Name:      "fallbacks_total",
		Help:      "Resolutions that fell through the exact pass, by outcome.",
	},
	[]string{"outcome"},
)
