// Package sqlite stores the graph in an embedded SQLite database through gorm.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type vertexRow struct {
	Kind  string `gorm:"primaryKey"`
	Name  string `gorm:"primaryKey"`
	Props string `gorm:"not null"`
}

func (vertexRow) TableName() string { return "graph_vertices" }

type edgeRow struct {
	Label   string `gorm:"primaryKey;index:idx_graph_edges_dst,priority:1"`
	SrcKind string `gorm:"not null"`
	Src     string `gorm:"primaryKey"`
	DstKind string `gorm:"not null"`
	Dst     string `gorm:"primaryKey;index:idx_graph_edges_dst,priority:2"`
}

func (edgeRow) TableName() string { return "graph_edges" }

// Edge filters served by the primary key (label, src, dst) and idx_graph_edges_dst.
const (
	outgoingEdges = "label = ? AND src = ?"
	incomingEdges = "label = ? AND dst = ?"
)

// Store is a graph.Store on a single SQLite file.
type Store struct {
	db *gorm.DB
}

// NewStore opens (creating if needed) the database at path and migrates the schema.
func NewStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&vertexRow{}, &edgeRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Begin opens a database transaction.
func (s *Store) Begin(ctx context.Context) (graph.Tx, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin sqlite tx: %w", tx.Error)
	}
	return &gormTx{db: tx}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Exists(ctx context.Context, kind graph.Kind, name string) (bool, error) {
	var count int64
	err := t.db.WithContext(ctx).Model(&vertexRow{}).
		Where("kind = ? AND name = ?", string(kind), name).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("exists %s %s: %w", kind, name, err)
	}
	return count > 0, nil
}

func (t *gormTx) Get(ctx context.Context, kind graph.Kind, name string, dst any) error {
	var row vertexRow
	err := t.db.WithContext(ctx).
		Where("kind = ? AND name = ?", string(kind), name).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %s", graph.ErrNotFound, kind, name)
	}
	if err != nil {
		return fmt.Errorf("get %s %s: %w", kind, name, err)
	}
	return graph.Decode([]byte(row.Props), dst)
}

func (t *gormTx) Put(ctx context.Context, kind graph.Kind, name string, props any) error {
	raw, err := graph.Encode(props)
	if err != nil {
		return err
	}
	row := vertexRow{Kind: string(kind), Name: name, Props: string(raw)}
	err = t.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"props"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("put %s %s: %w", kind, name, err)
	}
	return nil
}

func (t *gormTx) Delete(ctx context.Context, kind graph.Kind, name string) error {
	db := t.db.WithContext(ctx)
	for _, label := range graph.Labels() {
		fromKind, toKind, err := graph.Endpoints(label)
		if err != nil {
			return err
		}
		if fromKind == kind {
			if err := db.Where(outgoingEdges, string(label), name).Delete(&edgeRow{}).Error; err != nil {
				return fmt.Errorf("delete %s edges of %s %s: %w", label, kind, name, err)
			}
		}
		if toKind == kind {
			if err := db.Where(incomingEdges, string(label), name).Delete(&edgeRow{}).Error; err != nil {
				return fmt.Errorf("delete %s edges of %s %s: %w", label, kind, name, err)
			}
		}
	}
	res := db.Where("kind = ? AND name = ?", string(kind), name).Delete(&vertexRow{})
	if res.Error != nil {
		return fmt.Errorf("delete %s %s: %w", kind, name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s %s", graph.ErrNotFound, kind, name)
	}
	return nil
}

func (t *gormTx) AddEdge(ctx context.Context, label graph.Label, from, to string) error {
	fromKind, toKind, err := graph.Endpoints(label)
	if err != nil {
		return err
	}
	for _, end := range []struct {
		kind graph.Kind
		name string
	}{{fromKind, from}, {toKind, to}} {
		ok, err := t.Exists(ctx, end.kind, end.name)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: edge endpoint %s %s", graph.ErrNotFound, end.kind, end.name)
		}
	}
	row := edgeRow{Label: string(label), SrcKind: string(fromKind), Src: from, DstKind: string(toKind), Dst: to}
	err = t.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("add edge %s %s->%s: %w", label, from, to, err)
	}
	return nil
}

func (t *gormTx) RemoveEdge(ctx context.Context, label graph.Label, from, to string) error {
	if _, _, err := graph.Endpoints(label); err != nil {
		return err
	}
	err := t.db.WithContext(ctx).
		Where("label = ? AND src = ? AND dst = ?", string(label), from, to).
		Delete(&edgeRow{}).Error
	if err != nil {
		return fmt.Errorf("remove edge %s %s->%s: %w", label, from, to, err)
	}
	return nil
}

func (t *gormTx) Out(ctx context.Context, label graph.Label, from string) ([]string, error) {
	var names []string
	err := t.db.WithContext(ctx).Model(&edgeRow{}).
		Where(outgoingEdges, string(label), from).
		Order("dst").
		Pluck("dst", &names).Error
	if err != nil {
		return nil, fmt.Errorf("out %s of %s: %w", label, from, err)
	}
	return names, nil
}

func (t *gormTx) In(ctx context.Context, label graph.Label, to string) ([]string, error) {
	var names []string
	err := t.db.WithContext(ctx).Model(&edgeRow{}).
		Where(incomingEdges, string(label), to).
		Order("src").
		Pluck("src", &names).Error
	if err != nil {
		return nil, fmt.Errorf("in %s of %s: %w", label, to, err)
	}
	return names, nil
}

func (t *gormTx) Commit(context.Context) error {
	if err := t.db.Commit().Error; err != nil {
		return fmt.Errorf("commit sqlite tx: %w", err)
	}
	return nil
}

func (t *gormTx) Rollback(context.Context) error {
	err := t.db.Rollback().Error
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback sqlite tx: %w", err)
	}
	return nil
}
