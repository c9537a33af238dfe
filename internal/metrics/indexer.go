package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	indexBlockTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "index_block_total",
		Help:      "Count of blocks written to the graph.",
	}, []string{"coin", "network", "status"})

	indexBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "index_block_duration_seconds",
		Help:      "Duration of writing one block to the graph.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "status"})

	indexSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "skipped_blocks_total",
		Help:      "Count of blocks that were already indexed.",
	}, []string{"coin", "network"})

	indexTipHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "tip_height",
		Help:      "Height of the last indexed block.",
	}, []string{"coin", "network"})

	rollbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rollback",
		Name:      "rollbacks_total",
		Help:      "Count of rollbacks and reorganizations.",
	}, []string{"coin", "network", "status"})

	rollbackDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rollback",
		Name:      "duration_seconds",
		Help:      "Duration of rollbacks including resync.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "status"})

	rollbackDepth = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rollback",
		Name:      "depth_blocks",
		Help:      "Number of blocks deleted per rollback.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
	}, []string{"coin", "network"})

	rollbackState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "rollback",
		Name:      "state",
		Help:      "1 for the current rollback state, 0 otherwise.",
	}, []string{"coin", "network", "state"})
)

var rollbackStates = []string{"synced", "rolling_back", "resyncing"}

// Indexer tracks metrics for the graph indexer.
type Indexer struct {
	coin    string
	network string
}

// NewIndexer constructs an Indexer with defaults.
func NewIndexer(coin model.Coin, network model.Network) *Indexer {
	c, n := labels(coin, network)
	return &Indexer{coin: c, network: n}
}

// ObserveIndexBlock records one indexed block.
func (m Indexer) ObserveIndexBlock(err error, height int64, started time.Time) {
	s := status(err)
	indexBlockTotal.WithLabelValues(m.coin, m.network, s).Inc()
	indexBlockDuration.WithLabelValues(m.coin, m.network, s).Observe(time.Since(started).Seconds())
	if err == nil {
		indexTipHeight.WithLabelValues(m.coin, m.network).Set(float64(height))
	}
}

// ObserveSkippedBlock records a block that was already present.
func (m Indexer) ObserveSkippedBlock() {
	indexSkippedTotal.WithLabelValues(m.coin, m.network).Inc()
}

// Rollback tracks metrics for the rollback manager.
type Rollback struct {
	coin    string
	network string
}

// NewRollback constructs a Rollback with defaults.
func NewRollback(coin model.Coin, network model.Network) *Rollback {
	c, n := labels(coin, network)
	return &Rollback{coin: c, network: n}
}

// ObserveRollback records a finished rollback and the blocks it removed.
func (m Rollback) ObserveRollback(err error, depth int, started time.Time) {
	s := status(err)
	rollbackTotal.WithLabelValues(m.coin, m.network, s).Inc()
	rollbackDuration.WithLabelValues(m.coin, m.network, s).Observe(time.Since(started).Seconds())
	rollbackDepth.WithLabelValues(m.coin, m.network).Observe(float64(depth))
}

// ObserveState marks state as the current one.
func (m Rollback) ObserveState(state string) {
	for _, known := range rollbackStates {
		v := 0.0
		if known == state {
			v = 1
		}
		rollbackState.WithLabelValues(m.coin, m.network, known).Set(v)
	}
}
