package bitcoin

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

type (
	// ScriptDecoder resolves output scripts to addresses.
	ScriptDecoder interface {
		Address(pkScript []byte) string
	}

	// RPCClient fetches raw blocks from a node.
	RPCClient interface {
		GetBlock(blockHash *chainhash.Hash) (*wire.MsgBlock, error)
	}

	// ScannerMetrics records block file scanning.
	ScannerMetrics interface {
		ObserveFile(err error, blocks int, started time.Time)
		ObserveDecodeError()
	}
)
