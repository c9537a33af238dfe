// Package model defines domain models for UTXO graph indexing.
package model

import "time"

// Block is a decoded block as delivered by the block decoder.
// Height is unknown until the block is sequenced onto the chain.
type Block struct {
	Hash      string
	PrevHash  string
	Timestamp time.Time
	Txs       []Transaction
}

// IsGenesisCandidate reports whether the block has no predecessor.
func (b Block) IsGenesisCandidate() bool {
	return b.PrevHash == "" || b.PrevHash == zeroHash
}

const zeroHash = "0000000000000000000000000000000000000000000000000000000000000000"
