package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics is the Prometheus instrumentation surface. Each application holds
// its own registry, so constructing a second application (tests do this per
// case) never trips duplicate registration; when metrics are disabled the
// counters still count but /metrics is not mounted.
type metrics struct {
	enabled  bool
	registry *prometheus.Registry

	ordersCreated *prometheus.CounterVec
	ordersExpired prometheus.Counter
	seatsLocked   prometheus.Counter
	lockConflicts prometheus.Counter
	seatEvents    prometheus.Counter
	paymentEvents *prometheus.CounterVec
}

func newMetrics(enabled bool) *metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(registry)

	return &metrics{
		enabled:  enabled,
		registry: registry,

		ordersCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Orders created per sales channel",
			},
			[]string{"channel"},
		),

		ordersExpired: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_expired_total",
				Help: "Pending orders flipped to expired by the sweep",
			},
		),

		seatsLocked: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "seats_locked_total",
				Help: "Seats locked through the lock-seats endpoint",
			},
		),

		lockConflicts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "seat_lock_conflicts_total",
				Help: "Lock attempts rejected because a seat was already held",
			},
		),

		seatEvents: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "seat_availability_events_total",
				Help: "Seat availability events received on the realtime feed",
			},
		),

		paymentEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_events_total",
				Help: "Payment webhook events per resulting status",
			},
			[]string{"status"},
		),
	}
}
