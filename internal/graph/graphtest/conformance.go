// Package graphtest holds behaviour checks shared by every graph.Store backend.
package graphtest

import (
	"context"
	"testing"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph"
	"github.com/stretchr/testify/require"
)

type props struct {
	Value int `json:"value"`
}

// Run exercises store through the graph.Tx contract. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) graph.Store) {
	t.Helper()

	t.Run("put get exists", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		tx := begin(t, store)

		ok, err := tx.Exists(ctx, graph.KindBlock, "b0")
		require.NoError(t, err)
		require.False(t, ok)

		require.NoError(t, tx.Put(ctx, graph.KindBlock, "b0", props{Value: 1}))
		require.NoError(t, tx.Put(ctx, graph.KindBlock, "b0", props{Value: 2}))
		ok, err = tx.Exists(ctx, graph.KindBlock, "b0")
		require.NoError(t, err)
		require.True(t, ok)

		got, err := graph.Load[props](ctx, tx, graph.KindBlock, "b0")
		require.NoError(t, err)
		require.Equal(t, 2, got.Value)

		_, err = graph.Load[props](ctx, tx, graph.KindTransaction, "b0")
		require.ErrorIs(t, err, graph.ErrNotFound)
		require.NoError(t, tx.Commit(ctx))
	})

	t.Run("rollback discards changes", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		tx := begin(t, store)
		require.NoError(t, tx.Put(ctx, graph.KindAddress, "a", props{Value: 1}))
		require.NoError(t, tx.Rollback(ctx))

		tx = begin(t, store)
		defer func() { _ = tx.Rollback(ctx) }()
		ok, err := tx.Exists(ctx, graph.KindAddress, "a")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("commit publishes changes", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		tx := begin(t, store)
		require.NoError(t, tx.Put(ctx, graph.KindAddress, "a", props{Value: 7}))
		require.NoError(t, tx.Commit(ctx))
		require.NoError(t, tx.Rollback(ctx))

		tx = begin(t, store)
		defer func() { _ = tx.Rollback(ctx) }()
		got, err := graph.Load[props](ctx, tx, graph.KindAddress, "a")
		require.NoError(t, err)
		require.Equal(t, 7, got.Value)
	})

	t.Run("edges and cascade", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		tx := begin(t, store)
		defer func() { _ = tx.Rollback(ctx) }()

		require.NoError(t, tx.Put(ctx, graph.KindBlock, "b0", props{}))
		require.NoError(t, tx.Put(ctx, graph.KindBlock, "b1", props{}))
		require.NoError(t, tx.Put(ctx, graph.KindTransaction, "t1", props{}))
		require.NoError(t, tx.Put(ctx, graph.KindOutput, "t1:0", props{}))
		require.NoError(t, tx.Put(ctx, graph.KindOutput, "t1:1", props{}))
		require.NoError(t, tx.Put(ctx, graph.KindAddress, "a", props{}))

		require.NoError(t, tx.AddEdge(ctx, graph.LabelChain, "b0", "b1"))
		require.NoError(t, tx.AddEdge(ctx, graph.LabelHas, "b1", "t1"))
		require.NoError(t, tx.AddEdge(ctx, graph.LabelOutput, "t1", "t1:0"))
		require.NoError(t, tx.AddEdge(ctx, graph.LabelOutput, "t1", "t1:1"))
		require.NoError(t, tx.AddEdge(ctx, graph.LabelOutput, "t1", "t1:1"))
		require.NoError(t, tx.AddEdge(ctx, graph.LabelLocked, "t1:0", "a"))
		require.NoError(t, tx.AddEdge(ctx, graph.LabelLocked, "t1:1", "a"))

		require.Error(t, tx.AddEdge(ctx, graph.LabelHas, "b1", "missing"))

		outs, err := tx.Out(ctx, graph.LabelOutput, "t1")
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"t1:0", "t1:1"}, outs)

		owners, err := tx.In(ctx, graph.LabelLocked, "a")
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"t1:0", "t1:1"}, owners)

		prev, err := tx.In(ctx, graph.LabelChain, "b1")
		require.NoError(t, err)
		require.Equal(t, []string{"b0"}, prev)

		require.NoError(t, tx.RemoveEdge(ctx, graph.LabelLocked, "t1:1", "a"))
		owners, err = tx.In(ctx, graph.LabelLocked, "a")
		require.NoError(t, err)
		require.Equal(t, []string{"t1:0"}, owners)

		require.NoError(t, tx.Delete(ctx, graph.KindOutput, "t1:0"))
		owners, err = tx.In(ctx, graph.LabelLocked, "a")
		require.NoError(t, err)
		require.Empty(t, owners)
		outs, err = tx.Out(ctx, graph.LabelOutput, "t1")
		require.NoError(t, err)
		require.Equal(t, []string{"t1:1"}, outs)

		require.NoError(t, tx.Delete(ctx, graph.KindBlock, "b1"))
		next, err := tx.Out(ctx, graph.LabelChain, "b0")
		require.NoError(t, err)
		require.Empty(t, next)
		blocks, err := tx.In(ctx, graph.LabelHas, "t1")
		require.NoError(t, err)
		require.Empty(t, blocks)

		require.ErrorIs(t, tx.Delete(ctx, graph.KindBlock, "b1"), graph.ErrNotFound)
		require.ErrorIs(t, tx.AddEdge(ctx, "bogus", "b0", "b0"), graph.ErrUnknownLabel)
	})
}

func begin(t *testing.T, store graph.Store) graph.Tx {
	t.Helper()
	tx, err := store.Begin(context.Background())
	require.NoError(t, err)
	return tx
}
