// Package memory implements graph.Store in process memory.
//
// A transaction reads the committed graph directly and copies it on its
// first write; the copy replaces the shared graph on commit. Every
// writing transaction therefore costs a full copy, which suits tests and
// small dry runs, not a mainnet sync.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph"
)

// ErrClosed is returned when the store or transaction is no longer usable.
var ErrClosed = errors.New("memory store: closed")

type adjacency map[graph.Label]map[string]map[string]struct{}

type state struct {
	vertices map[graph.Kind]map[string][]byte
	out      adjacency
	in       adjacency
}

func newState() *state {
	return &state{
		vertices: make(map[graph.Kind]map[string][]byte),
		out:      make(adjacency),
		in:       make(adjacency),
	}
}

func (s *state) clone() *state {
	c := newState()
	for kind, names := range s.vertices {
		m := make(map[string][]byte, len(names))
		for name, raw := range names {
			m[name] = raw
		}
		c.vertices[kind] = m
	}
	c.out = s.out.clone()
	c.in = s.in.clone()
	return c
}

func (a adjacency) clone() adjacency {
	c := make(adjacency, len(a))
	for label, tails := range a {
		m := make(map[string]map[string]struct{}, len(tails))
		for tail, heads := range tails {
			hs := make(map[string]struct{}, len(heads))
			for head := range heads {
				hs[head] = struct{}{}
			}
			m[tail] = hs
		}
		c[label] = m
	}
	return c
}

func (a adjacency) add(label graph.Label, from, to string) {
	tails, ok := a[label]
	if !ok {
		tails = make(map[string]map[string]struct{})
		a[label] = tails
	}
	heads, ok := tails[from]
	if !ok {
		heads = make(map[string]struct{})
		tails[from] = heads
	}
	heads[to] = struct{}{}
}

func (a adjacency) remove(label graph.Label, from, to string) {
	heads := a[label][from]
	delete(heads, to)
	if len(heads) == 0 {
		delete(a[label], from)
	}
}

func (a adjacency) list(label graph.Label, from string) []string {
	heads := a[label][from]
	names := make([]string, 0, len(heads))
	for name := range heads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store is a graph.Store kept in memory.
type Store struct {
	mu     sync.Mutex
	state  *state
	closed bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// Begin opens a transaction over the current graph.
func (s *Store) Begin(ctx context.Context) (graph.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return &tx{store: s, state: s.state}, nil
}

// Close marks the store unusable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Count returns the number of vertices of kind.
func (s *Store) Count(kind graph.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.vertices[kind])
}

// EdgeCount returns the number of edges with label.
func (s *Store) EdgeCount(label graph.Label) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, heads := range s.state.out[label] {
		n += len(heads)
	}
	return n
}

// Dump returns a copy of every vertex and edge, keyed for comparison in tests.
func (s *Store) Dump() (vertices map[string]string, edges map[string]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vertices = make(map[string]string)
	for kind, names := range s.state.vertices {
		for name, raw := range names {
			vertices[string(kind)+"/"+name] = string(raw)
		}
	}
	edges = make(map[string]struct{})
	for label, tails := range s.state.out {
		for tail, heads := range tails {
			for head := range heads {
				edges[fmt.Sprintf("%s:%s->%s", label, tail, head)] = struct{}{}
			}
		}
	}
	return vertices, edges
}

type tx struct {
	store *Store
	state *state
	dirty bool
	done  bool
}

// write detaches the transaction from the committed graph.
func (t *tx) write() {
	if !t.dirty {
		t.state = t.state.clone()
		t.dirty = true
	}
}

func (t *tx) check(ctx context.Context) error {
	if t.done {
		return ErrClosed
	}
	return ctx.Err()
}

func (t *tx) has(kind graph.Kind, name string) bool {
	_, ok := t.state.vertices[kind][name]
	return ok
}

func (t *tx) Exists(ctx context.Context, kind graph.Kind, name string) (bool, error) {
	if err := t.check(ctx); err != nil {
		return false, err
	}
	return t.has(kind, name), nil
}

func (t *tx) Get(ctx context.Context, kind graph.Kind, name string, dst any) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	raw, ok := t.state.vertices[kind][name]
	if !ok {
		return fmt.Errorf("%w: %s %s", graph.ErrNotFound, kind, name)
	}
	return graph.Decode(raw, dst)
}

func (t *tx) Put(ctx context.Context, kind graph.Kind, name string, props any) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	raw, err := graph.Encode(props)
	if err != nil {
		return err
	}
	t.write()
	names, ok := t.state.vertices[kind]
	if !ok {
		names = make(map[string][]byte)
		t.state.vertices[kind] = names
	}
	names[name] = raw
	return nil
}

func (t *tx) Delete(ctx context.Context, kind graph.Kind, name string) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	if !t.has(kind, name) {
		return fmt.Errorf("%w: %s %s", graph.ErrNotFound, kind, name)
	}
	t.write()
	for _, label := range graph.Labels() {
		from, to, _ := graph.Endpoints(label)
		if from == kind {
			for _, head := range t.state.out.list(label, name) {
				t.state.out.remove(label, name, head)
				t.state.in.remove(label, head, name)
			}
		}
		if to == kind {
			for _, tail := range t.state.in.list(label, name) {
				t.state.in.remove(label, name, tail)
				t.state.out.remove(label, tail, name)
			}
		}
	}
	delete(t.state.vertices[kind], name)
	return nil
}

func (t *tx) AddEdge(ctx context.Context, label graph.Label, from, to string) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	fromKind, toKind, err := graph.Endpoints(label)
	if err != nil {
		return err
	}
	if !t.has(fromKind, from) {
		return fmt.Errorf("%w: %s %s", graph.ErrNotFound, fromKind, from)
	}
	if !t.has(toKind, to) {
		return fmt.Errorf("%w: %s %s", graph.ErrNotFound, toKind, to)
	}
	t.write()
	t.state.out.add(label, from, to)
	t.state.in.add(label, to, from)
	return nil
}

func (t *tx) RemoveEdge(ctx context.Context, label graph.Label, from, to string) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	if _, _, err := graph.Endpoints(label); err != nil {
		return err
	}
	t.write()
	t.state.out.remove(label, from, to)
	t.state.in.remove(label, to, from)
	return nil
}

func (t *tx) Out(ctx context.Context, label graph.Label, from string) ([]string, error) {
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	return t.state.out.list(label, from), nil
}

func (t *tx) In(ctx context.Context, label graph.Label, to string) ([]string, error) {
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	return t.state.in.list(label, to), nil
}

func (t *tx) Commit(ctx context.Context) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.store.closed {
		return ErrClosed
	}
	if t.dirty {
		t.store.state = t.state
	}
	t.done = true
	return nil
}

func (t *tx) Rollback(context.Context) error {
	t.done = true
	return nil
}
