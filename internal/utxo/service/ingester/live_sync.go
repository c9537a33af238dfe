package ingester

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/node"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
	"go.uber.org/zap"
)

// LiveSyncService applies node events to the graph one block at a time.
type LiveSyncService struct {
	logger   *zap.Logger
	indexer  GraphIndexer
	rollback Rollback
	source   BlockSource
	files    FileTracker
	metrics  LiveSyncMetrics
}

// NewLiveSyncService builds a LiveSyncService. files may be nil when blocks
// are not read from block files.
func NewLiveSyncService(
	indexer GraphIndexer,
	rollback Rollback,
	source BlockSource,
	files FileTracker,
	metrics LiveSyncMetrics,
	coin model.Coin,
	network model.Network,
	logger *zap.Logger,
) (*LiveSyncService, error) {
	logger = logger.With(
		zap.String("coin", string(coin)),
		zap.String("network", string(network)),
	)
	if indexer == nil {
		return nil, errors.New("graph indexer is required")
	}
	if rollback == nil {
		return nil, errors.New("rollback is required")
	}
	if source == nil {
		return nil, errors.New("block source is required")
	}
	if metrics == nil {
		return nil, errors.New("live sync metrics is required")
	}
	return &LiveSyncService{
		logger:   logger.Named("live"),
		indexer:  indexer,
		rollback: rollback,
		source:   source,
		files:    files,
		metrics:  metrics,
	}, nil
}

// Run consumes events until ctx is done or events is closed. An event being
// applied when ctx is canceled is finished first.
func (s *LiveSyncService) Run(ctx context.Context, events <-chan node.Event) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.handle(context.WithoutCancel(ctx), event); err != nil {
				return err
			}
		}
	}
}

func (s *LiveSyncService) handle(ctx context.Context, event node.Event) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveEvent(event.Kind(), err, started)
	}()

	switch e := event.(type) {
	case node.FileRotated:
		s.logger.Debug("block file rotated", zap.Int("index", e.Index))
		if s.files != nil {
			s.files.SetFileIndex(e.Index)
		}
		return nil
	case node.NewBestBlock:
		return s.newBest(ctx, e)
	default:
		s.logger.Warn("unknown node event", zap.String("kind", event.Kind()))
		return nil
	}
}

func (s *LiveSyncService) newBest(ctx context.Context, e node.NewBestBlock) error {
	tip, ok, err := s.indexer.Tip(ctx)
	if err != nil {
		return fmt.Errorf("load tip: %w", err)
	}
	if ok && tip.Hash == e.Hash {
		return nil
	}

	if ok && e.Height == tip.Height+1 {
		block, err := s.source.BlockByHash(ctx, e.Hash)
		if err != nil {
			return fmt.Errorf("fetch block %s: %w", e.Hash, err)
		}
		if block.PrevHash == tip.Hash {
			if err := s.indexer.IndexBlock(ctx, block, e.Height); err != nil {
				return err
			}
			s.metrics.ObserveTip(e.Height)
			s.logger.Info("new block", zap.String("hash", e.Hash), zap.Int64("height", e.Height))
			return nil
		}
	}

	s.logger.Info("tip does not extend the indexed chain",
		zap.String("hash", e.Hash),
		zap.Int64("height", e.Height),
		zap.String("tip", tip.Hash),
		zap.Int64("tip_height", tip.Height),
	)
	if err := s.rollback.Reorg(ctx, e.Hash, e.Height); err != nil {
		return fmt.Errorf("reorg to %s: %w", e.Hash, err)
	}
	s.metrics.ObserveTip(e.Height)
	return nil
}
