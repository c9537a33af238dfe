package bitcoin

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
)

// scriptDecoder resolves the destination address of an output script.
type scriptDecoder struct {
	params *chaincfg.Params
}

// NewScriptDecoder initializes a decoder using params of the provided network.
func NewScriptDecoder(network model.Network) (ScriptDecoder, error) {
	params, err := ChainParams(network)
	if err != nil {
		return nil, err
	}
	return &scriptDecoder{params: params}, nil
}

// Address returns the single address paid by pkScript, or model.UndecodableAddress
// when the script is malformed, non-standard or pays several keys.
func (d *scriptDecoder) Address(pkScript []byte) string {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, d.params)
	if err != nil || len(addrs) != 1 {
		return model.UndecodableAddress
	}
	return addrs[0].EncodeAddress()
}
