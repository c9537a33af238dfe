package bitcoin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// ErrBlockNotFound is returned when no source holds the requested block.
var ErrBlockNotFound = errors.New("block not found")

// FileBlockSource looks blocks up by hash in the node's block files, starting
// from the file currently written by the node and moving to older ones.
type FileBlockSource struct {
	dir         string
	net         wire.BitcoinNet
	decoder     ScriptDecoder
	searchDepth int
	cache       *lru.Cache[string, model.Block]
	logger      *zap.Logger

	mu        sync.Mutex
	fileIndex int
}

// NewFileBlockSource creates a source over blocksDir. searchDepth bounds how
// many files are read per lookup.
func NewFileBlockSource(blocksDir string, network model.Network, cacheSize, searchDepth int, logger *zap.Logger) (*FileBlockSource, error) {
	params, err := ChainParams(network)
	if err != nil {
		return nil, err
	}
	decoder, err := NewScriptDecoder(network)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[string, model.Block](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create block cache: %w", err)
	}
	if searchDepth < 1 {
		searchDepth = 1
	}
	return &FileBlockSource{
		dir:         blocksDir,
		net:         params.Net,
		decoder:     decoder,
		searchDepth: searchDepth,
		cache:       cache,
		logger:      logger.Named("fileBlockSource"),
	}, nil
}

// SetFileIndex moves the source to the file the node currently appends to.
func (s *FileBlockSource) SetFileIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index != s.fileIndex {
		s.logger.Info("block file rotated", zap.Int("from", s.fileIndex), zap.Int("to", index))
	}
	s.fileIndex = index
}

// FileIndex returns the current file index.
func (s *FileBlockSource) FileIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileIndex
}

// BlockByHash returns the block with hash.
func (s *FileBlockSource) BlockByHash(ctx context.Context, hash string) (model.Block, error) {
	if block, ok := s.cache.Get(hash); ok {
		return block, nil
	}
	current := s.FileIndex()
	for index := current; index >= 0 && index > current-s.searchDepth; index-- {
		blocks, err := DecodeFile(ctx, s.dir, index, s.net, s.decoder, func(err error) {
			s.logger.Warn("skipping undecodable block", zap.Error(err))
		})
		if err != nil {
			return model.Block{}, err
		}
		for _, block := range blocks {
			s.cache.Add(block.Hash, block)
		}
		if block, ok := s.cache.Get(hash); ok {
			return block, nil
		}
	}
	return model.Block{}, fmt.Errorf("%w: %s in files %d..%d", ErrBlockNotFound, hash, max(current-s.searchDepth+1, 0), current)
}

// RPCBlockSource fetches blocks by hash from the node's RPC interface.
type RPCBlockSource struct {
	rpc     RPCClient
	decoder ScriptDecoder
}

// NewRPCBlockSource creates an RPC backed source.
func NewRPCBlockSource(rpc RPCClient, network model.Network) (*RPCBlockSource, error) {
	decoder, err := NewScriptDecoder(network)
	if err != nil {
		return nil, err
	}
	return &RPCBlockSource{rpc: rpc, decoder: decoder}, nil
}

// BlockByHash returns the block with hash.
func (s *RPCBlockSource) BlockByHash(ctx context.Context, hash string) (model.Block, error) {
	if err := ctx.Err(); err != nil {
		return model.Block{}, err
	}
	h, err := chainhash.NewHashFromStr(hash)
	if err != nil {
		return model.Block{}, fmt.Errorf("parse block hash %q: %w", hash, err)
	}
	msg, err := s.rpc.GetBlock(h)
	if err != nil {
		return model.Block{}, fmt.Errorf("get block %s: %w", hash, err)
	}
	return ConvertBlock(msg, s.decoder), nil
}

// FallbackBlockSource asks each source in order and returns the first block found.
type FallbackBlockSource struct {
	sources []chain.BlockSource
	logger  *zap.Logger
}

// NewFallbackBlockSource chains sources. Nil sources are skipped.
func NewFallbackBlockSource(logger *zap.Logger, sources ...chain.BlockSource) *FallbackBlockSource {
	s := &FallbackBlockSource{logger: logger.Named("fallbackBlockSource")}
	for _, src := range sources {
		if src != nil {
			s.sources = append(s.sources, src)
		}
	}
	return s
}

// BlockByHash returns the block from the first source that has it.
func (s *FallbackBlockSource) BlockByHash(ctx context.Context, hash string) (model.Block, error) {
	var errs []error
	for i, src := range s.sources {
		block, err := src.BlockByHash(ctx, hash)
		if err == nil {
			return block, nil
		}
		if ctx.Err() != nil {
			return model.Block{}, ctx.Err()
		}
		s.logger.Debug("block source miss", zap.Int("source", i), zap.String("hash", hash), zap.Error(err))
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return model.Block{}, fmt.Errorf("%w: %s", ErrBlockNotFound, hash)
	}
	return model.Block{}, errors.Join(errs...)
}
