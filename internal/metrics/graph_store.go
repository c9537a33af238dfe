package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	graphStoreOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "graph_store",
		Name:      "operations_total",
		Help:      "Count of graph store operations.",
	}, []string{"operation", "coin", "network", "status"})
	graphStoreOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "graph_store",
		Name:      "operation_duration_seconds",
		Help:      "Duration of graph store operations.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"operation", "coin", "network", "status"})
)

// GraphStore tracks metrics for graph store operations.
type GraphStore struct {
	coin    string
	network string
}

// NewGraphStore creates a GraphStore metrics collector.
func NewGraphStore(coin model.Coin, network model.Network) *GraphStore {
	c, n := labels(coin, network)
	return &GraphStore{coin: c, network: n}
}

// Observe records duration and status of a store operation.
func (m GraphStore) Observe(operation string, err error, started time.Time) {
	s := status(err)
	graphStoreOperationsTotal.WithLabelValues(operation, m.coin, m.network, s).Inc()
	graphStoreOperationDuration.WithLabelValues(operation, m.coin, m.network, s).Observe(time.Since(started).Seconds())
}
