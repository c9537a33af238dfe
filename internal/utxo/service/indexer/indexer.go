// Package indexer writes the block graph and keeps address aggregates consistent
// while blocks are indexed and rolled back.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
	"go.uber.org/zap"
)

// ErrOutputSpent is returned when a transaction spends an output already consumed in the graph.
var ErrOutputSpent = errors.New("output already spent")

// Indexer upserts blocks into the graph store, one store transaction per block.
type Indexer struct {
	store      graph.Store
	subsidy    Subsidy
	aggregator *Aggregator
	metrics    IndexerMetrics
	logger     *zap.Logger
}

// NewIndexer builds an Indexer writing to store.
func NewIndexer(store graph.Store, subsidy Subsidy, metrics IndexerMetrics, logger *zap.Logger) (*Indexer, error) {
	if store == nil {
		return nil, errors.New("graph store is required")
	}
	if subsidy == nil {
		return nil, errors.New("subsidy is required")
	}
	if metrics == nil {
		return nil, errors.New("indexer metrics is required")
	}
	return &Indexer{
		store:      store,
		subsidy:    subsidy,
		aggregator: NewAggregator(),
		metrics:    metrics,
		logger:     logger.Named("indexer"),
	}, nil
}

// Tip returns the accepted chain tip; ok is false for an empty graph.
func (i *Indexer) Tip(ctx context.Context) (cursor model.ChainCursor, ok bool, err error) {
	err = i.read(ctx, func(tx graph.Tx) error {
		cursor, ok, err = graph.LoadOptional[model.ChainCursor](ctx, tx, graph.KindCursor, cursorName)
		return err
	})
	return cursor, ok, err
}

// HasBlock reports whether the block is indexed.
func (i *Indexer) HasBlock(ctx context.Context, hash string) (ok bool, err error) {
	err = i.read(ctx, func(tx graph.Tx) error {
		ok, err = tx.Exists(ctx, graph.KindBlock, hash)
		return err
	})
	return ok, err
}

// Block returns the stored block vertex.
func (i *Indexer) Block(ctx context.Context, hash string) (block model.BlockVertex, err error) {
	err = i.read(ctx, func(tx graph.Tx) error {
		block, err = graph.Load[model.BlockVertex](ctx, tx, graph.KindBlock, hash)
		return err
	})
	return block, err
}

// WalkTip follows chain edges from genesis and returns the last block reached.
func (i *Indexer) WalkTip(ctx context.Context, genesis string) (cursor model.ChainCursor, ok bool, err error) {
	err = i.read(ctx, func(tx graph.Tx) error {
		exists, err := tx.Exists(ctx, graph.KindBlock, genesis)
		if err != nil || !exists {
			return err
		}
		ok = true
		cursor = model.ChainCursor{Hash: genesis}
		for {
			next, err := tx.Out(ctx, graph.LabelChain, cursor.Hash)
			if err != nil {
				return err
			}
			if len(next) == 0 {
				return nil
			}
			hash, err := graph.Single(next)
			if err != nil {
				return fmt.Errorf("block %s: %w", cursor.Hash, err)
			}
			cursor = model.ChainCursor{Hash: hash, Height: cursor.Height + 1}
		}
	})
	return cursor, ok, err
}

func (i *Indexer) read(ctx context.Context, fn func(tx graph.Tx) error) error {
	tx, err := i.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	return fn(tx)
}

// IndexBlock writes block at height with all transactions, outputs and
// address updates in one store transaction. A block already present is left
// untouched.
func (i *Indexer) IndexBlock(ctx context.Context, block model.Block, height int64) (err error) {
	started := time.Now()
	defer func() {
		i.metrics.ObserveIndexBlock(err, height, started)
	}()

	tx, err := i.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	exists, err := tx.Exists(ctx, graph.KindBlock, block.Hash)
	if err != nil {
		return fmt.Errorf("check block %s: %w", block.Hash, err)
	}
	if exists {
		i.metrics.ObserveSkippedBlock()
		i.logger.Debug("block already indexed", zap.String("hash", block.Hash), zap.Int64("height", height))
		return nil
	}

	if err := i.writeBlock(ctx, tx, block, height); err != nil {
		return fmt.Errorf("index block %s at %d: %w", block.Hash, height, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit block %s: %w", block.Hash, err)
	}
	return nil
}

func (i *Indexer) writeBlock(ctx context.Context, tx graph.Tx, block model.Block, height int64) error {
	reward, err := i.subsidy.Reward(height)
	if err != nil {
		return err
	}
	vertex := model.BlockVertex{
		Hash:           block.Hash,
		PrevHash:       block.PrevHash,
		Height:         height,
		Timestamp:      block.Timestamp,
		TxCount:        len(block.Txs),
		Balance:        reward,
		CoinbaseReward: reward,
	}
	if err := tx.Put(ctx, graph.KindBlock, block.Hash, vertex); err != nil {
		return err
	}
	if height > 0 {
		if err := tx.AddEdge(ctx, graph.LabelChain, block.PrevHash, block.Hash); err != nil {
			return fmt.Errorf("link to previous block: %w", err)
		}
	}

	for pos, t := range block.Txs {
		txVertex, created, err := i.writeTransaction(ctx, tx, block, height, pos, t)
		if err != nil {
			return fmt.Errorf("transaction %s: %w", t.Hash, err)
		}
		if !created {
			continue
		}
		vertex.Balance += txVertex.Balance
		vertex.Fee += txVertex.Fee
	}

	if err := tx.Put(ctx, graph.KindBlock, block.Hash, vertex); err != nil {
		return err
	}
	if err := tx.Put(ctx, graph.KindCursor, cursorName, model.ChainCursor{Hash: block.Hash, Height: height}); err != nil {
		return fmt.Errorf("move cursor: %w", err)
	}
	i.logger.Debug("block indexed",
		zap.String("hash", block.Hash),
		zap.Int64("height", height),
		zap.Int("txs", len(block.Txs)),
		zap.Stringer("fee", btcutil.Amount(vertex.Fee)),
	)
	return nil
}

func (i *Indexer) writeTransaction(
	ctx context.Context,
	tx graph.Tx,
	block model.Block,
	height int64,
	pos int,
	t model.Transaction,
) (model.TransactionVertex, bool, error) {
	exists, err := tx.Exists(ctx, graph.KindTransaction, t.Hash)
	if err != nil {
		return model.TransactionVertex{}, false, err
	}
	if exists {
		// historic duplicate coinbase ids keep their first occurrence
		i.logger.Warn("transaction already indexed", zap.String("tx", t.Hash), zap.String("block", block.Hash))
		return model.TransactionVertex{}, false, nil
	}

	vertex := model.TransactionVertex{
		Hash:        t.Hash,
		BlockHash:   block.Hash,
		Position:    pos,
		InputCount:  len(t.Inputs),
		OutputCount: len(t.Outputs),
		Timestamp:   block.Timestamp,
		IsCoinbase:  t.IsCoinbase,
	}
	if err := tx.Put(ctx, graph.KindTransaction, t.Hash, vertex); err != nil {
		return vertex, false, err
	}
	if err := tx.AddEdge(ctx, graph.LabelHas, block.Hash, t.Hash); err != nil {
		return vertex, false, err
	}

	touched := make(map[string]struct{})
	resolved := true
	var inputSum int64
	if !t.IsCoinbase {
		for _, in := range t.Inputs {
			amount, owner, ok, err := i.spend(ctx, tx, in.Name(), t.Hash, block.Timestamp)
			if err != nil {
				return vertex, false, err
			}
			if !ok {
				resolved = false
				i.logger.Warn("spent output not in graph", zap.String("tx", t.Hash), zap.String("output", in.Name()))
				continue
			}
			inputSum += amount
			touched[owner] = struct{}{}
		}
	}

	var outputSum int64
	for _, out := range t.Outputs {
		name := model.OutputName(t.Hash, out.Index)
		err := tx.Put(ctx, graph.KindOutput, name, model.OutputVertex{
			TxHash:  t.Hash,
			Index:   out.Index,
			Height:  height,
			Balance: out.Value,
		})
		if err != nil {
			return vertex, false, err
		}
		if err := tx.AddEdge(ctx, graph.LabelOutput, t.Hash, name); err != nil {
			return vertex, false, err
		}
		created, same, err := i.aggregator.OnOutputCreated(ctx, tx, out.Address, out.Value, t.Hash, name, block.Timestamp)
		if err != nil {
			return vertex, false, err
		}
		if created {
			vertex.NewAddressCount++
		}
		if same {
			vertex.IsBetweenOneAddress = true
		}
		outputSum += out.Value
		touched[out.Address] = struct{}{}
	}

	vertex.Balance = inputSum
	if !t.IsCoinbase && resolved && inputSum >= outputSum {
		vertex.Fee = inputSum - outputSum
	}
	if err := tx.Put(ctx, graph.KindTransaction, t.Hash, vertex); err != nil {
		return vertex, false, err
	}

	for _, address := range sortedKeys(touched) {
		if err := i.aggregator.RecomputeNeighborCounts(ctx, tx, address); err != nil {
			return vertex, false, err
		}
	}
	return vertex, true, nil
}

// spend marks outputName consumed by txHash. ok is false when the output is unknown.
func (i *Indexer) spend(ctx context.Context, tx graph.Tx, outputName, txHash string, ts time.Time) (int64, string, bool, error) {
	out, ok, err := graph.LoadOptional[model.OutputVertex](ctx, tx, graph.KindOutput, outputName)
	if err != nil || !ok {
		return 0, "", false, err
	}
	if out.IsUsed {
		return 0, "", false, fmt.Errorf("%w: %s", ErrOutputSpent, outputName)
	}
	out.IsUsed = true
	if err := tx.Put(ctx, graph.KindOutput, outputName, out); err != nil {
		return 0, "", false, err
	}
	if err := tx.AddEdge(ctx, graph.LabelInput, outputName, txHash); err != nil {
		return 0, "", false, err
	}
	owner, err := i.aggregator.OnOutputSpent(ctx, tx, outputName, ts)
	if err != nil {
		return 0, "", false, err
	}
	return out.Balance, owner, true, nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
