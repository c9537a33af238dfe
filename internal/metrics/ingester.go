package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	replayBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "replay",
		Name:      "blocks_total",
		Help:      "Count of blocks indexed by the file replay.",
	}, []string{"coin", "network", "status"})

	replayBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "replay",
		Name:      "block_duration_seconds",
		Help:      "Duration of indexing one replayed block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "status"})

	replaySkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "replay",
		Name:      "skipped_blocks_total",
		Help:      "Count of replayed blocks found already indexed.",
	}, []string{"coin", "network"})

	replayDivergenceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "replay",
		Name:      "divergences_total",
		Help:      "Count of replays that found the graph off the file chain.",
	}, []string{"coin", "network"})

	replayHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "replay",
		Name:      "height",
		Help:      "Height of the last replayed block.",
	}, []string{"coin", "network"})

	liveEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "live_sync",
		Name:      "events_total",
		Help:      "Count of node events applied by live sync.",
	}, []string{"kind", "coin", "network", "status"})

	liveEventDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "live_sync",
		Name:      "event_duration_seconds",
		Help:      "Duration of applying a node event.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind", "coin", "network", "status"})

	liveTipHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "live_sync",
		Name:      "tip_height",
		Help:      "Height of the last tip announced by the node and applied.",
	}, []string{"coin", "network"})
)

// Replay tracks metrics for the bulk file replay.
type Replay struct {
	coin    string
	network string
}

// NewReplay constructs a Replay with defaults.
func NewReplay(coin model.Coin, network model.Network) *Replay {
	c, n := labels(coin, network)
	return &Replay{coin: c, network: n}
}

// ObserveReplayBlock records one replayed block.
func (m Replay) ObserveReplayBlock(err error, height int64, started time.Time) {
	s := status(err)
	replayBlocksTotal.WithLabelValues(m.coin, m.network, s).Inc()
	replayBlockDuration.WithLabelValues(m.coin, m.network, s).Observe(time.Since(started).Seconds())
	if err == nil {
		replayHeight.WithLabelValues(m.coin, m.network).Set(float64(height))
	}
}

// ObserveReplaySkipped records a block that was already indexed.
func (m Replay) ObserveReplaySkipped() {
	replaySkippedTotal.WithLabelValues(m.coin, m.network).Inc()
}

// ObserveDivergence records a rollback triggered by the replay.
func (m Replay) ObserveDivergence() {
	replayDivergenceTotal.WithLabelValues(m.coin, m.network).Inc()
}

// LiveSync tracks metrics for the live sync loop.
type LiveSync struct {
	coin    string
	network string
}

// NewLiveSync constructs a LiveSync with defaults.
func NewLiveSync(coin model.Coin, network model.Network) *LiveSync {
	c, n := labels(coin, network)
	return &LiveSync{coin: c, network: n}
}

// ObserveEvent records one applied node event.
func (m LiveSync) ObserveEvent(kind string, err error, started time.Time) {
	s := status(err)
	liveEventsTotal.WithLabelValues(kind, m.coin, m.network, s).Inc()
	liveEventDuration.WithLabelValues(kind, m.coin, m.network, s).Observe(time.Since(started).Seconds())
}

// ObserveTip records the applied tip height.
func (m LiveSync) ObserveTip(height int64) {
	liveTipHeight.WithLabelValues(m.coin, m.network).Set(float64(height))
}
