package bitcoin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-graph/pkg/workerpool"
	"go.uber.org/zap"
)

// FileScanner decodes every block file of a blocks directory in file order.
// Files are decoded concurrently, blocks are emitted sequentially.
type FileScanner struct {
	dir       string
	net       wire.BitcoinNet
	decoder   ScriptDecoder
	workers   int
	metrics   ScannerMetrics
	logger    *zap.Logger
	lastIndex int
}

// NewFileScanner builds a scanner over blocksDir for network.
func NewFileScanner(blocksDir string, network model.Network, workers int, metrics ScannerMetrics, logger *zap.Logger) (*FileScanner, error) {
	params, err := ChainParams(network)
	if err != nil {
		return nil, err
	}
	decoder, err := NewScriptDecoder(network)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		return nil, errors.New("scanner metrics is required")
	}
	if workers < 1 {
		workers = 1
	}
	return &FileScanner{
		dir:     blocksDir,
		net:     params.Net,
		decoder: decoder,
		workers: workers,
		metrics: metrics,
		logger:  logger.Named("fileScanner"),
	}, nil
}

// LastIndex returns the index of the last file handed out by Scan.
func (s *FileScanner) LastIndex() int {
	return s.lastIndex
}

// Scan calls emit for every decodable block, in file order. It stops at the
// first error returned by emit.
func (s *FileScanner) Scan(ctx context.Context, emit func(context.Context, model.Block) error) error {
	indices, err := ListBlockFiles(s.dir)
	if err != nil {
		return err
	}
	s.logger.Info("scanning block files", zap.Int("files", len(indices)), zap.String("dir", s.dir))

	for start := 0; start < len(indices); start += s.workers {
		end := min(start+s.workers, len(indices))
		decoded, err := workerpool.Map(ctx, s.workers, indices[start:end], s.decodeFile)
		if err != nil {
			return err
		}
		for i, blocks := range decoded {
			s.lastIndex = indices[start+i]
			for _, block := range blocks {
				if err := emit(ctx, block); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *FileScanner) decodeFile(ctx context.Context, index int) (blocks []model.Block, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveFile(err, len(blocks), started)
	}()
	return DecodeFile(ctx, s.dir, index, s.net, s.decoder, func(derr error) {
		s.metrics.ObserveDecodeError()
		s.logger.Warn("skipping undecodable block", zap.Error(derr))
	})
}

// DecodeFile decodes all blocks of one file. Records failing to decode are
// reported to onDecodeError and skipped.
func DecodeFile(
	ctx context.Context,
	dir string,
	index int,
	net wire.BitcoinNet,
	decoder ScriptDecoder,
	onDecodeError func(error),
) ([]model.Block, error) {
	reader, closer, err := OpenBlockFile(dir, index, net, decoder)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = closer.Close()
	}()

	var blocks []model.Block
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		block, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return blocks, nil
		}
		if errors.Is(err, ErrDecode) {
			if onDecodeError != nil {
				onDecodeError(err)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", BlockFileName(index), err)
		}
		blocks = append(blocks, block)
	}
}
