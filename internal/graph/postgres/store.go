// Package postgres stores the graph in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is a graph.Store backed by a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to dsn and applies the schema when migrate is set.
func NewStore(ctx context.Context, dsn string, migrate bool) (*Store, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if migrate {
		if err := MigrateUp(pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &Store{pool: pool}, nil
}

// Begin opens a database transaction.
func (s *Store) Begin(ctx context.Context) (graph.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin postgres tx: %w", err)
	}
	return &pgTx{tx: tx}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Exists(ctx context.Context, kind graph.Kind, name string) (bool, error) {
	var ok bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM graph_vertices WHERE kind = $1 AND name = $2)`,
		string(kind), name,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("exists %s %s: %w", kind, name, err)
	}
	return ok, nil
}

func (t *pgTx) Get(ctx context.Context, kind graph.Kind, name string, dst any) error {
	var raw []byte
	err := t.tx.QueryRow(ctx,
		`SELECT props::text FROM graph_vertices WHERE kind = $1 AND name = $2`,
		string(kind), name,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", graph.ErrNotFound, kind, name)
	}
	if err != nil {
		return fmt.Errorf("get %s %s: %w", kind, name, err)
	}
	return graph.Decode(raw, dst)
}

func (t *pgTx) Put(ctx context.Context, kind graph.Kind, name string, props any) error {
	raw, err := graph.Encode(props)
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(ctx, `
		INSERT INTO graph_vertices (kind, name, props)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (kind, name) DO UPDATE SET props = EXCLUDED.props`,
		string(kind), name, string(raw),
	)
	if err != nil {
		return fmt.Errorf("put %s %s: %w", kind, name, err)
	}
	return nil
}

// Delete relies on ON DELETE CASCADE to drop incident edges.
func (t *pgTx) Delete(ctx context.Context, kind graph.Kind, name string) error {
	tag, err := t.tx.Exec(ctx,
		`DELETE FROM graph_vertices WHERE kind = $1 AND name = $2`,
		string(kind), name,
	)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", graph.ErrNotFound, kind, name)
	}
	return nil
}

func (t *pgTx) AddEdge(ctx context.Context, label graph.Label, from, to string) error {
	fromKind, toKind, err := graph.Endpoints(label)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, `
		INSERT INTO graph_edges (label, src_kind, src, dst_kind, dst)
		SELECT $1, $2, $3, $4, $5
		WHERE EXISTS (SELECT 1 FROM graph_vertices WHERE kind = $2 AND name = $3)
		  AND EXISTS (SELECT 1 FROM graph_vertices WHERE kind = $4 AND name = $5)
		ON CONFLICT (label, src, dst) DO NOTHING`,
		string(label), string(fromKind), from, string(toKind), to,
	)
	if err != nil {
		return fmt.Errorf("add edge %s %s->%s: %w", label, from, to, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	err = t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM graph_edges WHERE label = $1 AND src = $2 AND dst = $3)`,
		string(label), from, to,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("add edge %s %s->%s: %w", label, from, to, err)
	}
	if !exists {
		return fmt.Errorf("%w: edge endpoint %s %s->%s", graph.ErrNotFound, label, from, to)
	}
	return nil
}

func (t *pgTx) RemoveEdge(ctx context.Context, label graph.Label, from, to string) error {
	if _, _, err := graph.Endpoints(label); err != nil {
		return err
	}
	_, err := t.tx.Exec(ctx,
		`DELETE FROM graph_edges WHERE label = $1 AND src = $2 AND dst = $3`,
		string(label), from, to,
	)
	if err != nil {
		return fmt.Errorf("remove edge %s %s->%s: %w", label, from, to, err)
	}
	return nil
}

func (t *pgTx) Out(ctx context.Context, label graph.Label, from string) ([]string, error) {
	return t.names(ctx,
		`SELECT dst FROM graph_edges WHERE label = $1 AND src = $2 ORDER BY dst`,
		label, from,
	)
}

func (t *pgTx) In(ctx context.Context, label graph.Label, to string) ([]string, error) {
	return t.names(ctx,
		`SELECT src FROM graph_edges WHERE label = $1 AND dst = $2 ORDER BY src`,
		label, to,
	)
}

func (t *pgTx) names(ctx context.Context, query string, label graph.Label, name string) ([]string, error) {
	rows, err := t.tx.Query(ctx, query, string(label), name)
	if err != nil {
		return nil, fmt.Errorf("query %s edges of %s: %w", label, name, err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan %s edges of %s: %w", label, name, err)
	}
	return names, nil
}

func (t *pgTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit postgres tx: %w", err)
	}
	return nil
}

func (t *pgTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback postgres tx: %w", err)
	}
	return nil
}
