package core

import "github.com/prometheus/client_golang/prometheus"

var (
	connectedUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "linerelay_connected_users",
		Help: "Number of currently logged-in users",
	})

	eventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "linerelay_events_total",
		Help: "Total events processed by the dispatcher, by type",
	}, []string{"type"})

	eventDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linerelay_event_processing_seconds",
		Help:    "Time the dispatcher spends on each event type",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})

	deliveredLines = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "linerelay_delivered_lines_total",
		Help: "Outbound lines written to client connections",
	})

	droppedLines = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "linerelay_dropped_lines_total",
		Help: "Outbound lines dropped because a user's queue was full",
	})

	deliveryFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "linerelay_delivery_failures_total",
		Help: "Delivery goroutines that exited on a write failure",
	})
)

func init() {
	prometheus.MustRegister(connectedUsers)
	prometheus.MustRegister(eventsTotal)
	prometheus.MustRegister(eventDuration)
	prometheus.MustRegister(deliveredLines)
	prometheus.MustRegister(droppedLines)
	prometheus.MustRegister(deliveryFailures)
}
