package chain

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
)

// ErrChainBreak matches every *ChainBreakError.
var ErrChainBreak = errors.New("chain break")

// ChainBreakError reports a block that does not extend the accepted tip.
type ChainBreakError struct {
	Hash     string
	PrevHash string
	Tip      string
	Height   int64
}

func (e *ChainBreakError) Error() string {
	return fmt.Sprintf("chain break at height %d: block %s links to %s, tip is %s", e.Height, e.Hash, e.PrevHash, e.Tip)
}

func (e *ChainBreakError) Is(target error) bool { return target == ErrChainBreak }

// Validator tracks the last accepted block and checks that each next block links to it.
type Validator struct {
	tip    string
	height int64
}

// NewValidator returns a validator that accepts any block as height 0.
func NewValidator() *Validator {
	return &Validator{height: -1}
}

// Tip returns the last accepted hash and height; height is -1 before the first block.
func (v *Validator) Tip() (string, int64) {
	return v.tip, v.height
}

// Check fails with *ChainBreakError when block does not extend the tip.
func (v *Validator) Check(block model.Block) error {
	if v.height < 0 {
		return nil
	}
	if block.PrevHash != v.tip {
		return &ChainBreakError{Hash: block.Hash, PrevHash: block.PrevHash, Tip: v.tip, Height: v.height + 1}
	}
	return nil
}

// Accept validates block and makes it the new tip, returning its height.
func (v *Validator) Accept(block model.Block) (int64, error) {
	if err := v.Check(block); err != nil {
		return 0, err
	}
	v.tip = block.Hash
	v.height++
	return v.height, nil
}
