package chain

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const forkMemory = 4096

// Sequencer turns blocks delivered in file order into hash-linked chain order
// using a window of at most window blocks, releasing drain blocks per pass.
type Sequencer struct {
	window  int
	drain   int
	genesis string
	tip     string
	buf     []model.Block
	pending map[string]struct{}
	emitted *lru.Cache[string, struct{}]
	stale   *lru.Cache[string, struct{}]
	logger  *zap.Logger
}

// NewSequencer validates 0 < drain < window. genesis is the hash the first
// released block must carry.
func NewSequencer(window, drain int, genesis string, logger *zap.Logger) (*Sequencer, error) {
	if drain <= 0 || drain >= window {
		return nil, fmt.Errorf("invalid sequencer sizes: window %d, drain %d", window, drain)
	}
	if genesis == "" {
		return nil, errors.New("genesis hash is required")
	}
	emitted, err := lru.New[string, struct{}](max(forkMemory, window))
	if err != nil {
		return nil, err
	}
	stale, err := lru.New[string, struct{}](forkMemory)
	if err != nil {
		return nil, err
	}
	return &Sequencer{
		window:  window,
		drain:   drain,
		genesis: genesis,
		buf:     make([]model.Block, 0, window),
		pending: make(map[string]struct{}, window),
		emitted: emitted,
		stale:   stale,
		logger:  logger.Named("sequencer"),
	}, nil
}

// Push adds block to the window. Once the window is full it is reconciled and
// up to drain blocks whose place on the chain is settled are returned. Blocks
// behind an unresolved fork stay buffered; after twice the window the fork is
// decided by arrival order.
func (s *Sequencer) Push(block model.Block) []model.Block {
	if s.known(block) {
		return nil
	}
	s.buf = append(s.buf, block)
	s.pending[block.Hash] = struct{}{}
	if len(s.buf) < s.window {
		return nil
	}
	return s.take(s.drain, len(s.buf) >= 2*s.window)
}

// Flush reconciles what is left and releases all of it: the hash-linked run
// first, then blocks that do not link, in arrival order.
func (s *Sequencer) Flush() []model.Block {
	if len(s.buf) == 0 {
		return nil
	}
	return s.take(len(s.buf), true)
}

func (s *Sequencer) known(block model.Block) bool {
	_, buffered := s.pending[block.Hash]
	if buffered || s.emitted.Contains(block.Hash) {
		s.logger.Debug("dropping duplicate block", zap.String("hash", block.Hash))
		return true
	}
	if s.isStale(block) {
		s.markStale(block)
		return true
	}
	return false
}

// isStale reports a block whose parent is stale or was released with another child.
func (s *Sequencer) isStale(block model.Block) bool {
	if s.stale.Contains(block.PrevHash) {
		return true
	}
	return s.emitted.Contains(block.PrevHash) && block.PrevHash != s.tip
}

func (s *Sequencer) markStale(block model.Block) {
	s.stale.Add(block.Hash, struct{}{})
	s.logger.Warn("dropping block off the canonical branch",
		zap.String("hash", block.Hash),
		zap.String("prev", block.PrevHash),
	)
}

// take releases at most limit blocks. Unless force is set only the settled
// prefix of the run is released.
func (s *Sequencer) take(limit int, force bool) []model.Block {
	run, settled := s.reconcile()
	n := min(limit, settled)
	if force {
		n = min(limit, len(run))
	}
	out := s.release(run[:n])
	s.dropStale()

	if force && len(out) < limit && len(s.buf) > 0 {
		// nothing links to the tip: hand the rest out so the validator reports the break
		rest := make([]int, min(limit-len(out), len(s.buf)))
		for i := range rest {
			rest[i] = i
		}
		out = append(out, s.release(rest)...)
	}
	return out
}

// release removes the blocks at idx from the buffer, keeping the others in
// arrival order, and returns them in idx order.
func (s *Sequencer) release(idx []int) []model.Block {
	if len(idx) == 0 {
		return nil
	}
	taken := make([]bool, len(s.buf))
	out := make([]model.Block, 0, len(idx))
	for _, i := range idx {
		taken[i] = true
		out = append(out, s.buf[i])
	}
	kept := make([]model.Block, 0, len(s.buf)-len(idx))
	for i, block := range s.buf {
		if !taken[i] {
			kept = append(kept, block)
		}
	}
	s.buf = kept
	for _, block := range out {
		s.emitted.Add(block.Hash, struct{}{})
		delete(s.pending, block.Hash)
	}
	s.tip = out[len(out)-1].Hash
	return out
}

// dropStale removes siblings of released blocks and their descendants.
func (s *Sequencer) dropStale() {
	for changed := true; changed; {
		changed = false
		kept := s.buf[:0]
		for _, block := range s.buf {
			if s.isStale(block) {
				s.markStale(block)
				delete(s.pending, block.Hash)
				changed = true
				continue
			}
			kept = append(kept, block)
		}
		s.buf = kept
	}
}

// reconcile returns the buffer indices of the hash-linked run starting at the
// tip (or genesis). Where a parent has several children the one with the
// longest descent wins, and among equal descents the one whose deepest block
// arrived first. settled counts the run blocks chosen without such a tie.
func (s *Sequencer) reconcile() (run []int, settled int) {
	n := len(s.buf)
	children := make(map[string][]int, n)
	for i, block := range s.buf {
		children[block.PrevHash] = append(children[block.PrevHash], i)
	}

	depth := make([]int, n)
	reached := make([]int, n)
	for i := range depth {
		depth[i] = -1
	}
	var descent func(i int) int
	descent = func(i int) int {
		if depth[i] >= 0 {
			return depth[i]
		}
		best, at := 0, i
		for _, c := range children[s.buf[i].Hash] {
			d := 1 + descent(c)
			if d > best || (d == best && reached[c] < at) {
				best, at = d, reached[c]
			}
		}
		depth[i], reached[i] = best, at
		return best
	}

	var candidates []int
	if s.tip == "" {
		for i, block := range s.buf {
			if block.Hash == s.genesis {
				candidates = append(candidates, i)
			}
		}
	} else {
		candidates = children[s.tip]
	}

	open := true
	for {
		chosen, tied := -1, false
		for _, c := range candidates {
			switch {
			case chosen < 0:
				chosen = c
			case descent(c) > descent(chosen):
				chosen, tied = c, false
			case descent(c) == descent(chosen):
				tied = true
				if reached[c] < reached[chosen] {
					chosen = c
				}
			}
		}
		if chosen < 0 {
			return run, settled
		}
		if tied {
			open = false
		}
		if open {
			settled++
		}
		run = append(run, chosen)
		candidates = children[s.buf[chosen].Hash]
	}
}
