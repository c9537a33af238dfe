package indexer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
	"go.uber.org/zap"
)

// ErrNoCommonAncestor is returned when a competing branch does not join the
// indexed chain within the allowed depth.
var ErrNoCommonAncestor = errors.New("no common ancestor")

// State is the rollback state of the accepted chain.
type State int

const (
	StateSynced State = iota
	StateRollingBack
	StateResyncing
)

func (s State) String() string {
	switch s {
	case StateSynced:
		return "synced"
	case StateRollingBack:
		return "rolling_back"
	case StateResyncing:
		return "resyncing"
	default:
		return "unknown"
	}
}

// RollbackManager replaces a suffix of the indexed chain with a competing branch.
type RollbackManager struct {
	indexer  *Indexer
	source   chain.BlockSource
	metrics  RollbackMetrics
	logger   *zap.Logger
	maxDepth int
	state    State
}

// NewRollbackManager builds a manager that fetches branch blocks from source.
// maxDepth <= 0 selects the default depth.
func NewRollbackManager(
	indexer *Indexer,
	source chain.BlockSource,
	maxDepth int,
	metrics RollbackMetrics,
	logger *zap.Logger,
) (*RollbackManager, error) {
	if indexer == nil {
		return nil, errors.New("indexer is required")
	}
	if source == nil {
		return nil, errors.New("block source is required")
	}
	if metrics == nil {
		return nil, errors.New("rollback metrics is required")
	}
	if maxDepth <= 0 {
		maxDepth = defaultMaxReorgDepth
	}
	return &RollbackManager{
		indexer:  indexer,
		source:   source,
		metrics:  metrics,
		logger:   logger.Named("rollback"),
		maxDepth: maxDepth,
		state:    StateSynced,
	}, nil
}

// State returns the current state.
func (m *RollbackManager) State() State {
	return m.state
}

func (m *RollbackManager) setState(state State) {
	m.state = state
	m.metrics.ObserveState(state.String())
}

// Reorg makes the block hash at height the indexed tip: the indexed chain is
// unwound to the common ancestor and the new branch indexed on top of it.
func (m *RollbackManager) Reorg(ctx context.Context, hash string, height int64) (err error) {
	started := time.Now()
	depth := 0
	defer func() {
		m.metrics.ObserveRollback(err, depth, started)
	}()

	ancestor, branch, err := m.branch(ctx, hash)
	if err != nil {
		return err
	}
	ancestorHeight := int64(-1)
	if ancestor != "" {
		block, err := m.indexer.Block(ctx, ancestor)
		if err != nil {
			return fmt.Errorf("load ancestor %s: %w", ancestor, err)
		}
		ancestorHeight = block.Height
	}
	if expected := ancestorHeight + int64(len(branch)); expected != height {
		m.logger.Warn("reported height differs from branch height",
			zap.String("hash", hash),
			zap.Int64("reported", height),
			zap.Int64("computed", expected),
		)
	}

	m.setState(StateRollingBack)
	depth, err = m.unwind(ctx, ancestor)
	if err != nil {
		return err
	}

	m.setState(StateResyncing)
	for i := len(branch) - 1; i >= 0; i-- {
		ancestorHeight++
		if err := m.indexer.IndexBlock(ctx, branch[i], ancestorHeight); err != nil {
			return fmt.Errorf("resync block %s: %w", branch[i].Hash, err)
		}
	}
	m.setState(StateSynced)

	m.logger.Info("reorganized",
		zap.String("ancestor", ancestor),
		zap.String("tip", hash),
		zap.Int("removed", depth),
		zap.Int("added", len(branch)),
	)
	return nil
}

// RollbackTo deletes indexed blocks from the tip down to ancestor, which is
// kept. An empty ancestor empties the graph.
func (m *RollbackManager) RollbackTo(ctx context.Context, ancestor string) (err error) {
	started := time.Now()
	depth := 0
	defer func() {
		m.metrics.ObserveRollback(err, depth, started)
	}()

	if ancestor != "" {
		ok, err := m.indexer.HasBlock(ctx, ancestor)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s is not indexed", ErrNoCommonAncestor, ancestor)
		}
	}
	m.setState(StateRollingBack)
	depth, err = m.unwind(ctx, ancestor)
	if err != nil {
		return err
	}
	m.setState(StateSynced)
	return nil
}

// branch walks the blocks of hash back to the first indexed one. The branch
// is returned tip first.
func (m *RollbackManager) branch(ctx context.Context, hash string) (string, []model.Block, error) {
	ok, err := m.indexer.HasBlock(ctx, hash)
	if err != nil {
		return "", nil, err
	}
	if ok {
		return hash, nil, nil
	}

	var branch []model.Block
	current := hash
	for len(branch) < m.maxDepth {
		block, err := m.source.BlockByHash(ctx, current)
		if err != nil {
			return "", nil, fmt.Errorf("fetch branch block %s: %w", current, err)
		}
		branch = append(branch, block)
		if block.IsGenesisCandidate() {
			return "", branch, nil
		}
		ok, err := m.indexer.HasBlock(ctx, block.PrevHash)
		if err != nil {
			return "", nil, err
		}
		if ok {
			return block.PrevHash, branch, nil
		}
		current = block.PrevHash
	}
	return "", nil, fmt.Errorf("%w: %s within %d blocks", ErrNoCommonAncestor, hash, m.maxDepth)
}

// unwind deletes tip blocks until ancestor is the tip.
func (m *RollbackManager) unwind(ctx context.Context, ancestor string) (int, error) {
	depth := 0
	for {
		tip, ok, err := m.indexer.Tip(ctx)
		if err != nil {
			return depth, err
		}
		if !ok {
			if ancestor != "" {
				return depth, fmt.Errorf("%w: graph emptied before reaching %s", ErrNoCommonAncestor, ancestor)
			}
			return depth, nil
		}
		if tip.Hash == ancestor {
			return depth, nil
		}
		if depth >= m.maxDepth {
			return depth, fmt.Errorf("%w: %s deeper than %d blocks", ErrNoCommonAncestor, ancestor, m.maxDepth)
		}
		if err := m.deleteTip(ctx, tip); err != nil {
			return depth, fmt.Errorf("delete block %s at %d: %w", tip.Hash, tip.Height, err)
		}
		depth++
	}
}

// deleteTip removes the tip block with its transactions and outputs in one
// store transaction, undoing their address effects.
func (m *RollbackManager) deleteTip(ctx context.Context, tip model.ChainCursor) error {
	tx, err := m.indexer.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	block, err := graph.Load[model.BlockVertex](ctx, tx, graph.KindBlock, tip.Hash)
	if err != nil {
		return err
	}
	hashes, err := tx.Out(ctx, graph.LabelHas, block.Hash)
	if err != nil {
		return err
	}
	txs := make([]model.TransactionVertex, 0, len(hashes))
	for _, h := range hashes {
		t, err := graph.Load[model.TransactionVertex](ctx, tx, graph.KindTransaction, h)
		if err != nil {
			return err
		}
		txs = append(txs, t)
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].Position > txs[j].Position })

	for _, t := range txs {
		if err := m.revertTransaction(ctx, tx, t); err != nil {
			return fmt.Errorf("revert transaction %s: %w", t.Hash, err)
		}
	}

	if err := tx.Delete(ctx, graph.KindBlock, block.Hash); err != nil {
		return err
	}
	if block.Height == 0 {
		err = tx.Delete(ctx, graph.KindCursor, cursorName)
	} else {
		err = tx.Put(ctx, graph.KindCursor, cursorName, model.ChainCursor{Hash: block.PrevHash, Height: block.Height - 1})
	}
	if err != nil {
		return fmt.Errorf("move cursor: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	m.logger.Debug("block deleted", zap.String("hash", block.Hash), zap.Int64("height", block.Height))
	return nil
}

func (m *RollbackManager) revertTransaction(ctx context.Context, tx graph.Tx, t model.TransactionVertex) error {
	agg := m.indexer.aggregator
	touched := make(map[string]struct{})

	outputs, err := tx.Out(ctx, graph.LabelOutput, t.Hash)
	if err != nil {
		return err
	}
	for _, name := range outputs {
		spenders, err := tx.Out(ctx, graph.LabelInput, name)
		if err != nil {
			return err
		}
		for _, spender := range spenders {
			owner, err := agg.RevertOutputSpent(ctx, tx, name, spender)
			if err != nil {
				return err
			}
			touched[owner] = struct{}{}
		}
		owner, err := agg.RevertOutputCreated(ctx, tx, name, t.Hash)
		if err != nil {
			return err
		}
		touched[owner] = struct{}{}
		if err := tx.Delete(ctx, graph.KindOutput, name); err != nil {
			return err
		}
	}

	spent, err := tx.In(ctx, graph.LabelInput, t.Hash)
	if err != nil {
		return err
	}
	for _, name := range spent {
		owner, err := agg.RevertOutputSpent(ctx, tx, name, t.Hash)
		if err != nil {
			return err
		}
		touched[owner] = struct{}{}
	}

	if err := tx.Delete(ctx, graph.KindTransaction, t.Hash); err != nil {
		return err
	}
	for _, address := range sortedKeys(touched) {
		if err := agg.Settle(ctx, tx, address); err != nil {
			return err
		}
	}
	return nil
}
