// Package graph defines the transactional vertex/edge store used by the indexer.
package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind names a vertex family.
type Kind string

// Label names an edge family.
type Label string

const (
	KindBlock       Kind = "Block"
	KindTransaction Kind = "Transaction"
	KindOutput      Kind = "Output"
	KindAddress     Kind = "Address"
	KindCursor      Kind = "Cursor"
)

const (
	// LabelChain links a block to its successor.
	LabelChain Label = "chain"
	// LabelHas links a block to its transactions.
	LabelHas Label = "has"
	// LabelOutput links a transaction to the outputs it creates.
	LabelOutput Label = "output"
	// LabelInput links an output to the transaction that spends it.
	LabelInput Label = "input"
	// LabelLocked links an output to its owning address.
	LabelLocked Label = "locked"
)

// ErrNotFound is returned by Get when the vertex does not exist.
var ErrNotFound = errors.New("graph: vertex not found")

// ErrUnknownLabel is returned for edges outside the schema.
var ErrUnknownLabel = errors.New("graph: unknown edge label")

// Endpoints returns the tail and head kinds of a label.
func Endpoints(label Label) (from Kind, to Kind, err error) {
	switch label {
	case LabelChain:
		return KindBlock, KindBlock, nil
	case LabelHas:
		return KindBlock, KindTransaction, nil
	case LabelOutput:
		return KindTransaction, KindOutput, nil
	case LabelInput:
		return KindOutput, KindTransaction, nil
	case LabelLocked:
		return KindOutput, KindAddress, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
}

// Labels lists every edge label of the schema.
func Labels() []Label {
	return []Label{LabelChain, LabelHas, LabelOutput, LabelInput, LabelLocked}
}

// Store opens transaction scopes over the graph.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	Close() error
}

// Tx is one unit of work. Nothing is visible to other scopes before Commit.
// Rollback after Commit is a no-op, so callers may always defer it.
type Tx interface {
	Exists(ctx context.Context, kind Kind, name string) (bool, error)
	// Get decodes the vertex properties into dst.
	Get(ctx context.Context, kind Kind, name string, dst any) error
	// Put inserts the vertex or replaces its properties.
	Put(ctx context.Context, kind Kind, name string, props any) error
	// Delete removes the vertex and every incident edge.
	Delete(ctx context.Context, kind Kind, name string) error
	AddEdge(ctx context.Context, label Label, from, to string) error
	RemoveEdge(ctx context.Context, label Label, from, to string) error
	// Out returns the heads of label edges leaving from.
	Out(ctx context.Context, label Label, from string) ([]string, error)
	// In returns the tails of label edges entering to.
	In(ctx context.Context, label Label, to string) ([]string, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Encode serialises vertex properties.
func Encode(props any) ([]byte, error) {
	raw, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("encode properties: %w", err)
	}
	return raw, nil
}

// Decode deserialises vertex properties into dst.
func Decode(raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode properties: %w", err)
	}
	return nil
}

// Load reads a typed vertex.
func Load[T any](ctx context.Context, tx Tx, kind Kind, name string) (T, error) {
	var v T
	err := tx.Get(ctx, kind, name, &v)
	return v, err
}

// LoadOptional reads a typed vertex and reports whether it exists.
func LoadOptional[T any](ctx context.Context, tx Tx, kind Kind, name string) (T, bool, error) {
	v, err := Load[T](ctx, tx, kind, name)
	if errors.Is(err, ErrNotFound) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}

// Single returns the only element of names, or ErrNotFound.
func Single(names []string) (string, error) {
	if len(names) == 0 {
		return "", ErrNotFound
	}
	if len(names) > 1 {
		return "", fmt.Errorf("graph: expected one edge, got %d", len(names))
	}
	return names[0], nil
}
