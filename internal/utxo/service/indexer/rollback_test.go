package indexer

import (
	"context"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapSource map[string]model.Block

func (s mapSource) BlockByHash(_ context.Context, hash string) (model.Block, error) {
	b, ok := s[hash]
	if !ok {
		return model.Block{}, fmt.Errorf("block %s not found", hash)
	}
	return b, nil
}

func newSource(blocks ...model.Block) mapSource {
	s := make(mapSource, len(blocks))
	for _, b := range blocks {
		s[b.Hash] = b
	}
	return s
}

func newTestRollback(t *testing.T, ctrl *gomock.Controller, idx *Indexer, source mapSource, maxDepth int) *RollbackManager {
	t.Helper()
	metrics := NewMockRollbackMetrics(ctrl)
	metrics.EXPECT().ObserveRollback(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().ObserveState(gomock.Any()).AnyTimes()
	m, err := NewRollbackManager(idx, source, maxDepth, metrics, zap.NewNop())
	require.NoError(t, err)
	return m
}

func TestState_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state State
		want  string
	}{
		{StateSynced, "synced"},
		{StateRollingBack, "rolling_back"},
		{StateResyncing, "resyncing"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.state.String())
	}
}

func TestRollbackManager_RollbackTo_DeletesSingleTouchAddress(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	idx, store := newTestIndexer(t, ctrl)
	m := newTestRollback(t, ctrl, idx, newSource(), 0)
	ctx := context.Background()

	indexAll(t, idx, testChain()[:1], 0)
	vertices, edges := store.Dump()

	indexAll(t, idx, testChain()[1:2], 1)
	require.Equal(t, 2, store.Count(graph.KindAddress))

	require.NoError(t, m.RollbackTo(ctx, "b0"))
	require.Equal(t, StateSynced, m.State())

	gotVertices, gotEdges := store.Dump()
	require.Equal(t, vertices, gotVertices)
	require.Equal(t, edges, gotEdges)

	ok, err := idx.HasBlock(ctx, "b1")
	require.NoError(t, err)
	require.False(t, ok)
	requireBalances(t, store)
}

func TestRollbackManager_RollbackTo_InverseOfIndexing(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	idx, store := newTestIndexer(t, ctrl)
	m := newTestRollback(t, ctrl, idx, newSource(), 0)
	blocks := testChain()

	indexAll(t, idx, blocks, 0)
	vertices, edges := store.Dump()

	require.NoError(t, m.RollbackTo(context.Background(), "b0"))
	requireBalances(t, store)
	indexAll(t, idx, blocks[1:], 1)

	gotVertices, gotEdges := store.Dump()
	require.Equal(t, vertices, gotVertices)
	require.Equal(t, edges, gotEdges)
}

func TestRollbackManager_RollbackTo_Empty(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	idx, store := newTestIndexer(t, ctrl)
	m := newTestRollback(t, ctrl, idx, newSource(), 0)

	indexAll(t, idx, testChain(), 0)
	require.NoError(t, m.RollbackTo(context.Background(), ""))

	vertices, edges := store.Dump()
	require.Empty(t, vertices)
	require.Empty(t, edges)
}

func TestRollbackManager_RollbackTo_UnknownAncestor(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	idx, _ := newTestIndexer(t, ctrl)
	m := newTestRollback(t, ctrl, idx, newSource(), 0)

	indexAll(t, idx, testChain(), 0)
	err := m.RollbackTo(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNoCommonAncestor)
}

func TestRollbackManager_Reorg(t *testing.T) {
	t.Parallel()

	fork := []model.Block{
		block("x1", "b0", 11,
			coinbase("cx1", "D", testReward),
			spend("tx1", []string{"c0:0"}, pay{"D", 50}),
		),
		block("x2", "x1", 12, coinbase("cx2", "D", testReward)),
		block("x3", "x2", 13, coinbase("cx3", "E", testReward)),
	}
	extension := block("b3", "b2", 3, coinbase("c3", "A", testReward))

	tests := []struct {
		name     string
		hash     string
		height   int64
		maxDepth int
		source   mapSource
		wantTip  model.ChainCursor
		gone     []string
		wantErr  error
	}{
		{
			name:    "switches to longer branch",
			hash:    "x3",
			height:  3,
			source:  newSource(fork...),
			wantTip: model.ChainCursor{Hash: "x3", Height: 3},
			gone:    []string{"b1", "b2"},
		},
		{
			name:    "extends current tip",
			hash:    "b3",
			height:  3,
			source:  newSource(extension),
			wantTip: model.ChainCursor{Hash: "b3", Height: 3},
		},
		{
			name:    "rewinds to indexed block",
			hash:    "b1",
			height:  1,
			source:  newSource(),
			wantTip: model.ChainCursor{Hash: "b1", Height: 1},
			gone:    []string{"b2"},
		},
		{
			name:     "no ancestor within depth",
			hash:     "x3",
			height:   3,
			maxDepth: 2,
			source:   newSource(fork...),
			wantTip:  model.ChainCursor{Hash: "b2", Height: 2},
			wantErr:  ErrNoCommonAncestor,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			idx, store := newTestIndexer(t, ctrl)
			m := newTestRollback(t, ctrl, idx, tt.source, tt.maxDepth)
			ctx := context.Background()
			indexAll(t, idx, testChain(), 0)

			err := m.Reorg(ctx, tt.hash, tt.height)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			tip, ok, err := idx.Tip(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, tt.wantTip, tip)
			for _, hash := range tt.gone {
				ok, err := idx.HasBlock(ctx, hash)
				require.NoError(t, err)
				require.False(t, ok, hash)
			}
			require.Equal(t, StateSynced, m.State())
			requireBalances(t, store)
		})
	}
}

func TestRollbackManager_Reorg_ObservesStates(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	idx, _ := newTestIndexer(t, ctrl)
	indexAll(t, idx, testChain(), 0)

	metrics := NewMockRollbackMetrics(ctrl)
	gomock.InOrder(
		metrics.EXPECT().ObserveState("rolling_back"),
		metrics.EXPECT().ObserveState("resyncing"),
		metrics.EXPECT().ObserveState("synced"),
		metrics.EXPECT().ObserveRollback(nil, 2, gomock.Any()),
	)
	source := newSource(
		block("x2", "b0", 12, coinbase("cx2", "D", testReward)),
		block("x3", "x2", 13, coinbase("cx3", "D", testReward)),
		block("x4", "x3", 14, coinbase("cx4", "D", testReward)),
	)
	m, err := NewRollbackManager(idx, source, 0, metrics, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, m.Reorg(context.Background(), "x4", 3))
}
