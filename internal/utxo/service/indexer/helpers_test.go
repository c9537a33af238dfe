package indexer

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/memory"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testReward = 50

func ts(n int) time.Time {
	return time.Unix(int64(1_600_000_000+n*600), 0).UTC()
}

func coinbase(hash, address string, value int64) model.Transaction {
	return model.Transaction{
		Hash:       hash,
		IsCoinbase: true,
		Outputs:    []model.TransactionOutput{{Index: 0, Value: value, Address: address}},
	}
}

type pay struct {
	address string
	value   int64
}

func spend(hash string, inputs []string, outs ...pay) model.Transaction {
	t := model.Transaction{Hash: hash}
	for _, in := range inputs {
		i := strings.LastIndex(in, ":")
		index, err := strconv.ParseUint(in[i+1:], 10, 32)
		if err != nil {
			panic(err)
		}
		t.Inputs = append(t.Inputs, model.TransactionInput{PrevTxHash: in[:i], PrevIndex: uint32(index)})
	}
	for i, out := range outs {
		t.Outputs = append(t.Outputs, model.TransactionOutput{Index: uint32(i), Value: out.value, Address: out.address})
	}
	return t
}

func block(hash, prev string, n int, txs ...model.Transaction) model.Block {
	return model.Block{Hash: hash, PrevHash: prev, Timestamp: ts(n), Txs: txs}
}

// testChain is b0 -> b1 -> b2 moving coins between addresses A, B and C.
func testChain() []model.Block {
	return []model.Block{
		block("b0", "", 0,
			coinbase("c0", "A", testReward),
		),
		block("b1", "b0", 1,
			coinbase("c1", "B", testReward),
			spend("t1", []string{"c0:0"}, pay{"B", 30}, pay{"A", 15}),
		),
		block("b2", "b1", 2,
			coinbase("c2", "C", testReward),
			spend("t2", []string{"t1:0", "c1:0"}, pay{"C", 70}, pay{"B", 10}),
		),
	}
}

func newTestIndexer(t *testing.T, ctrl *gomock.Controller) (*Indexer, *memory.Store) {
	t.Helper()
	subsidy := NewMockSubsidy(ctrl)
	subsidy.EXPECT().Reward(gomock.Any()).Return(int64(testReward), nil).AnyTimes()
	metrics := NewMockIndexerMetrics(ctrl)
	metrics.EXPECT().ObserveIndexBlock(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().ObserveSkippedBlock().AnyTimes()

	store := memory.NewStore()
	idx, err := NewIndexer(store, subsidy, metrics, zap.NewNop())
	require.NoError(t, err)
	return idx, store
}

func indexAll(t *testing.T, idx *Indexer, blocks []model.Block, from int64) {
	t.Helper()
	for i, b := range blocks {
		require.NoError(t, idx.IndexBlock(context.Background(), b, from+int64(i)))
	}
}

func load[T any](t *testing.T, store graph.Store, kind graph.Kind, name string) T {
	t.Helper()
	ctx := context.Background()
	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	v, err := graph.Load[T](ctx, tx, kind, name)
	require.NoError(t, err)
	return v
}

// requireBalances checks that every address balance equals its unspent outputs.
func requireBalances(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	vertices, _ := store.Dump()
	for key := range vertices {
		kind, name, ok := strings.Cut(key, "/")
		if !ok || graph.Kind(kind) != graph.KindAddress {
			continue
		}
		addr, err := graph.Load[model.AddressVertex](ctx, tx, graph.KindAddress, name)
		require.NoError(t, err)
		outputs, err := tx.In(ctx, graph.LabelLocked, name)
		require.NoError(t, err)
		var unspent int64
		for _, o := range outputs {
			out, err := graph.Load[model.OutputVertex](ctx, tx, graph.KindOutput, o)
			require.NoError(t, err)
			if !out.IsUsed {
				unspent += out.Balance
			}
		}
		require.Equal(t, unspent, addr.Balance, "address %s", name)
		require.False(t, addr.LastSeen.Before(addr.FirstSeen), "address %s", name)
	}
}
