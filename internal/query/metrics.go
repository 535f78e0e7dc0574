package query

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var queryAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "dishquery",
		Name:      "query_attempts_total",
		Help:      "Query attempts by outcome; failed attempts are retried.",
	},
	[]string{"status"},
)
