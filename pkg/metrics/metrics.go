package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OrdersPlaced counts successfully committed order placements.
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "clothstore",
		Name:      "orders_placed_total",
		Help:      "Number of orders successfully placed.",
	})

	// CartMutations counts cart writes by operation.
	CartMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clothstore",
		Name:      "cart_mutations_total",
		Help:      "Number of cart store mutations by operation.",
	}, []string{"op"})

	// OutboxDispatched counts outbox events by dispatch result.
	OutboxDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clothstore",
		Name:      "outbox_dispatched_total",
		Help:      "Number of outbox events processed by result.",
	}, []string{"result"})
)

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
