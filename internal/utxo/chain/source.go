// Package chain orders decoded blocks into the canonical chain and checks their linkage.
package chain

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
)

// BlockSource provides decoded blocks by hash, used to re-fetch a branch during resync.
type BlockSource interface {
	BlockByHash(ctx context.Context, hash string) (model.Block, error)
}
