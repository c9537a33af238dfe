package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-graph/pkg/safe"
)

// ChainParams returns consensus parameters of the network.
func ChainParams(network model.Network) (*chaincfg.Params, error) {
	parsed, err := model.ParseNetwork(string(network))
	if err != nil {
		return nil, err
	}
	switch parsed {
	case model.Testnet:
		return &chaincfg.TestNet3Params, nil
	case model.Regtest:
		return &chaincfg.RegressionNetParams, nil
	case model.Signet:
		return &chaincfg.SigNetParams, nil
	default:
		return &chaincfg.MainNetParams, nil
	}
}

// GenesisHash returns the hash of the first block of the network.
func GenesisHash(network model.Network) (string, error) {
	params, err := ChainParams(network)
	if err != nil {
		return "", err
	}
	return params.GenesisHash.String(), nil
}

// Subsidy computes the coinbase subsidy for a block at height.
type Subsidy struct {
	params *chaincfg.Params
}

// NewSubsidy builds a Subsidy for the network.
func NewSubsidy(network model.Network) (*Subsidy, error) {
	params, err := ChainParams(network)
	if err != nil {
		return nil, err
	}
	return &Subsidy{params: params}, nil
}

// Reward returns the subsidy in satoshis.
func (s *Subsidy) Reward(height int64) (int64, error) {
	h, err := safe.Int32(height)
	if err != nil {
		return 0, fmt.Errorf("block height %d: %w", height, err)
	}
	return blockchain.CalcBlockSubsidy(h, s.params), nil
}
