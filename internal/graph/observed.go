package graph

import (
	"context"
	"errors"
	"time"
)

type (
	// Metrics records graph store operations.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// ObservedStore reports every store operation to Metrics.
type ObservedStore struct {
	store   Store
	metrics Metrics
}

// NewObservedStore wraps store with metrics reporting.
func NewObservedStore(store Store, metrics Metrics) *ObservedStore {
	return &ObservedStore{store: store, metrics: metrics}
}

func (s *ObservedStore) Begin(ctx context.Context) (tx Tx, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("begin", err, started)
	}()
	inner, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &observedTx{tx: inner, metrics: s.metrics}, nil
}

func (s *ObservedStore) Close() error {
	return s.store.Close()
}

type observedTx struct {
	tx      Tx
	metrics Metrics
}

func (t *observedTx) Exists(ctx context.Context, kind Kind, name string) (ok bool, err error) {
	started := time.Now()
	defer func() {
		t.metrics.Observe("exists", err, started)
	}()
	return t.tx.Exists(ctx, kind, name)
}

func (t *observedTx) Get(ctx context.Context, kind Kind, name string, dst any) (err error) {
	started := time.Now()
	defer func() {
		if errors.Is(err, ErrNotFound) {
			t.metrics.Observe("get", nil, started)
			return
		}
		t.metrics.Observe("get", err, started)
	}()
	return t.tx.Get(ctx, kind, name, dst)
}

func (t *observedTx) Put(ctx context.Context, kind Kind, name string, props any) (err error) {
	started := time.Now()
	defer func() {
		t.metrics.Observe("put", err, started)
	}()
	return t.tx.Put(ctx, kind, name, props)
}

func (t *observedTx) Delete(ctx context.Context, kind Kind, name string) (err error) {
	started := time.Now()
	defer func() {
		t.metrics.Observe("delete", err, started)
	}()
	return t.tx.Delete(ctx, kind, name)
}

func (t *observedTx) AddEdge(ctx context.Context, label Label, from, to string) (err error) {
	started := time.Now()
	defer func() {
		t.metrics.Observe("add_edge", err, started)
	}()
	return t.tx.AddEdge(ctx, label, from, to)
}

func (t *observedTx) RemoveEdge(ctx context.Context, label Label, from, to string) (err error) {
	started := time.Now()
	defer func() {
		t.metrics.Observe("remove_edge", err, started)
	}()
	return t.tx.RemoveEdge(ctx, label, from, to)
}

func (t *observedTx) Out(ctx context.Context, label Label, from string) (names []string, err error) {
	started := time.Now()
	defer func() {
		t.metrics.Observe("out", err, started)
	}()
	return t.tx.Out(ctx, label, from)
}

func (t *observedTx) In(ctx context.Context, label Label, to string) (names []string, err error) {
	started := time.Now()
	defer func() {
		t.metrics.Observe("in", err, started)
	}()
	return t.tx.In(ctx, label, to)
}

func (t *observedTx) Commit(ctx context.Context) (err error) {
	started := time.Now()
	defer func() {
		t.metrics.Observe("commit", err, started)
	}()
	return t.tx.Commit(ctx)
}

func (t *observedTx) Rollback(ctx context.Context) (err error) {
	started := time.Now()
	defer func() {
		t.metrics.Observe("rollback", err, started)
	}()
	return t.tx.Rollback(ctx)
}
