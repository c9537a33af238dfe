package ingester

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// ReplayService indexes the block files on disk in chain order, resuming
// after the blocks already present in the graph.
type ReplayService struct {
	logger    *zap.Logger
	scanner   BlockScanner
	sequencer *chain.Sequencer
	validator *chain.Validator
	indexer   GraphIndexer
	rollback  Rollback
	metrics   ReplayMetrics
	progress  io.Writer

	best     model.ChainCursor
	caughtUp bool
}

// NewReplayService builds a ReplayService. progress receives the progress bar; nil disables it.
// A window <= 0 selects DefaultWindow and DefaultDrain.
func NewReplayService(
	scanner BlockScanner,
	indexer GraphIndexer,
	rollback Rollback,
	metrics ReplayMetrics,
	genesis string,
	window, drain int,
	progress io.Writer,
	coin model.Coin,
	network model.Network,
	logger *zap.Logger,
) (*ReplayService, error) {
	logger = logger.With(
		zap.String("coin", string(coin)),
		zap.String("network", string(network)),
	)
	if scanner == nil {
		return nil, errors.New("block scanner is required")
	}
	if indexer == nil {
		return nil, errors.New("graph indexer is required")
	}
	if rollback == nil {
		return nil, errors.New("rollback is required")
	}
	if metrics == nil {
		return nil, errors.New("replay metrics is required")
	}
	if window <= 0 {
		window, drain = DefaultWindow, DefaultDrain
	}
	sequencer, err := chain.NewSequencer(window, drain, genesis, logger)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = io.Discard
	}
	return &ReplayService{
		logger:    logger.Named("replay"),
		scanner:   scanner,
		sequencer: sequencer,
		validator: chain.NewValidator(),
		indexer:   indexer,
		rollback:  rollback,
		metrics:   metrics,
		progress:  progress,
	}, nil
}

// Run replays every block file and returns the resulting tip. ok is false
// when neither the files nor the graph hold a block.
func (s *ReplayService) Run(ctx context.Context) (tip model.ChainCursor, ok bool, err error) {
	best, found, err := s.indexer.Tip(ctx)
	if err != nil {
		return tip, false, fmt.Errorf("load tip: %w", err)
	}
	s.best = best
	s.caughtUp = !found
	if found {
		s.logger.Info("resuming", zap.String("best", best.Hash), zap.Int64("height", best.Height))
	}

	bar := progressbar.NewOptions64(
		-1,
		progressbar.OptionSetWriter(s.progress),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription(progressDescription),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("blocks"),
	)

	err = s.scanner.Scan(ctx, func(ctx context.Context, block model.Block) error {
		return s.applyAll(ctx, bar, s.sequencer.Push(block))
	})
	if err != nil {
		return tip, false, err
	}
	if err := s.applyAll(ctx, bar, s.sequencer.Flush()); err != nil {
		return tip, false, err
	}
	if err := bar.Finish(); err != nil {
		s.logger.Debug("finish progress bar", zap.Error(err))
	}

	hash, height := s.validator.Tip()
	if !s.caughtUp {
		s.logger.Warn("block files end before the indexed tip",
			zap.String("files_tip", hash),
			zap.Int64("files_height", height),
			zap.String("best", s.best.Hash),
		)
		return s.best, true, nil
	}
	if height < 0 {
		return tip, false, nil
	}
	s.logger.Info("replay finished", zap.String("tip", hash), zap.Int64("height", height))
	return model.ChainCursor{Hash: hash, Height: height}, true, nil
}

func (s *ReplayService) applyAll(ctx context.Context, bar *progressbar.ProgressBar, blocks []model.Block) error {
	for _, block := range blocks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.apply(context.WithoutCancel(ctx), block); err != nil {
			return err
		}
		if err := bar.Add(1); err != nil {
			s.logger.Debug("update progress bar", zap.Error(err))
		}
	}
	return nil
}

func (s *ReplayService) apply(ctx context.Context, block model.Block) error {
	height, err := s.validator.Accept(block)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	if !s.caughtUp {
		if block.Hash == s.best.Hash {
			if height != s.best.Height {
				s.logger.Warn("indexed tip found at another height",
					zap.String("hash", block.Hash),
					zap.Int64("indexed", s.best.Height),
					zap.Int64("files", height),
				)
			}
			s.logger.Info("caught up with indexed tip", zap.String("hash", block.Hash), zap.Int64("height", height))
			s.caughtUp = true
			s.metrics.ObserveReplaySkipped()
			return nil
		}
		indexed, err := s.indexer.HasBlock(ctx, block.Hash)
		if err != nil {
			return err
		}
		if indexed {
			s.metrics.ObserveReplaySkipped()
			return nil
		}

		ancestor := block.PrevHash
		if height == 0 {
			ancestor = ""
		}
		s.logger.Warn("indexed chain diverges from block files, rolling back",
			zap.String("block", block.Hash),
			zap.Int64("height", height),
			zap.String("ancestor", ancestor),
		)
		s.metrics.ObserveDivergence()
		if err := s.rollback.RollbackTo(ctx, ancestor); err != nil {
			return fmt.Errorf("roll back to %s: %w", ancestor, err)
		}
		s.caughtUp = true
	}

	started := time.Now()
	err = s.indexer.IndexBlock(ctx, block, height)
	s.metrics.ObserveReplayBlock(err, height, started)
	return err
}
