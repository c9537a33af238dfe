package model

import (
	"errors"
	"fmt"
	"strings"
)

// Coin names the chain whose blocks are indexed.
type Coin string

// Network names one of the coin's networks.
type Network string

const BTC Coin = "BTC"

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
	Signet  Network = "signet"
)

// ErrUnsupportedNetwork is returned for network names no chain parameters exist for.
var ErrUnsupportedNetwork = errors.New("unsupported network")

// ParseNetwork maps a network name, including the node's aliases, to a Network.
func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "main", "mainnet", "bitcoin":
		return Mainnet, nil
	case "test", "testnet", "testnet3":
		return Testnet, nil
	case "regtest":
		return Regtest, nil
	case "signet":
		return Signet, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnsupportedNetwork, name)
	}
}
