package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
)

var (
	chainEventsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "keysafe",
			Subsystem: "chain",
			Name:      "events_total",
			Help:      "Number of chain events folded per event type.",
		},
		[]string{"event"},
	)
	keyOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "keysafe",
			Subsystem: "keymanager",
			Name:      "operations_total",
			Help:      "Number of key-manager operations per outcome.",
		},
		[]string{"operation", "outcome"},
	)
)

func observeKeyOperation(operation string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case ports.IsCanceled(err):
		outcome = "canceled"
	default:
		outcome = "error"
	}
	keyOperationsCounter.WithLabelValues(operation, outcome).Inc()
}
