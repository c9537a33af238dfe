// Package metrics holds the prometheus collectors of every service.
package metrics

import "github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"

const namespace = "blockinsight7000_graph"

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func labels(coin model.Coin, network model.Network) (string, string) {
	if coin == "" {
		coin = "unknown"
	}
	if network == "" {
		network = "unknown"
	}
	return string(coin), string(network)
}
