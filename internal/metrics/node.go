package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	nodeEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "node",
		Name:      "events_total",
		Help:      "Count of events parsed from node output.",
	}, []string{"kind", "coin", "network"})

	nodeIgnoredLinesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "node",
		Name:      "ignored_lines_total",
		Help:      "Count of node output lines without a known notice.",
	}, []string{"coin", "network"})

	nodeExitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "node",
		Name:      "exits_total",
		Help:      "Count of node process exits.",
	}, []string{"coin", "network", "status"})

	nodeUptime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "node",
		Name:      "uptime_seconds",
		Help:      "Lifetime of node processes.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"coin", "network", "status"})

	scannerFilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "block_scanner",
		Name:      "files_total",
		Help:      "Count of decoded block files.",
	}, []string{"coin", "network", "status"})

	scannerFileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "block_scanner",
		Name:      "file_duration_seconds",
		Help:      "Duration of decoding one block file.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "status"})

	scannerBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "block_scanner",
		Name:      "blocks_total",
		Help:      "Count of blocks decoded from block files.",
	}, []string{"coin", "network"})

	scannerDecodeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "block_scanner",
		Name:      "decode_errors_total",
		Help:      "Count of block records skipped as undecodable.",
	}, []string{"coin", "network"})
)

// Node tracks metrics for the node monitor.
type Node struct {
	coin    string
	network string
}

// NewNode constructs a Node with defaults.
func NewNode(coin model.Coin, network model.Network) *Node {
	c, n := labels(coin, network)
	return &Node{coin: c, network: n}
}

// ObserveEvent records a parsed event.
func (m Node) ObserveEvent(kind string) {
	nodeEventsTotal.WithLabelValues(kind, m.coin, m.network).Inc()
}

// ObserveIgnoredLine records an output line without an event.
func (m Node) ObserveIgnoredLine() {
	nodeIgnoredLinesTotal.WithLabelValues(m.coin, m.network).Inc()
}

// ObserveExit records a node process exit.
func (m Node) ObserveExit(err error, uptime time.Duration) {
	s := status(err)
	nodeExitsTotal.WithLabelValues(m.coin, m.network, s).Inc()
	nodeUptime.WithLabelValues(m.coin, m.network, s).Observe(uptime.Seconds())
}

// BlockScanner tracks metrics for block file decoding.
type BlockScanner struct {
	coin    string
	network string
}

// NewBlockScanner constructs a BlockScanner with defaults.
func NewBlockScanner(coin model.Coin, network model.Network) *BlockScanner {
	c, n := labels(coin, network)
	return &BlockScanner{coin: c, network: n}
}

// ObserveFile records one decoded file.
func (m BlockScanner) ObserveFile(err error, blocks int, started time.Time) {
	s := status(err)
	scannerFilesTotal.WithLabelValues(m.coin, m.network, s).Inc()
	scannerFileDuration.WithLabelValues(m.coin, m.network, s).Observe(time.Since(started).Seconds())
	scannerBlocksTotal.WithLabelValues(m.coin, m.network).Add(float64(blocks))
}

// ObserveDecodeError records a skipped block record.
func (m BlockScanner) ObserveDecodeError() {
	scannerDecodeErrorsTotal.WithLabelValues(m.coin, m.network).Inc()
}
