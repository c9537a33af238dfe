package indexer

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
)

// RecomputeNeighborCounts refreshes the distinct counterpart counts of address.
func (a *Aggregator) RecomputeNeighborCounts(ctx context.Context, tx graph.Tx, address string) error {
	addr, err := graph.Load[model.AddressVertex](ctx, tx, graph.KindAddress, address)
	if err != nil {
		return fmt.Errorf("load address %s: %w", address, err)
	}
	if err := a.countNeighbors(ctx, tx, &addr); err != nil {
		return err
	}
	if err := tx.Put(ctx, graph.KindAddress, address, addr); err != nil {
		return fmt.Errorf("put address %s: %w", address, err)
	}
	return nil
}

// countNeighbors walks two hops from every output locked to addr.
// Inbound neighbors own outputs spent by the transactions that paid addr.
// Outbound neighbors are paid by the transactions that spent from addr.
func (a *Aggregator) countNeighbors(ctx context.Context, tx graph.Tx, addr *model.AddressVertex) error {
	outputs, err := tx.In(ctx, graph.LabelLocked, addr.Address)
	if err != nil {
		return fmt.Errorf("outputs of %s: %w", addr.Address, err)
	}

	inbound := make(map[string]struct{})
	outbound := make(map[string]struct{})
	funding := make(map[string]struct{})
	spending := make(map[string]struct{})
	for _, name := range outputs {
		creators, err := tx.In(ctx, graph.LabelOutput, name)
		if err != nil {
			return fmt.Errorf("creator of %s: %w", name, err)
		}
		for _, t := range creators {
			funding[t] = struct{}{}
		}
		spenders, err := tx.Out(ctx, graph.LabelInput, name)
		if err != nil {
			return fmt.Errorf("spender of %s: %w", name, err)
		}
		for _, t := range spenders {
			spending[t] = struct{}{}
		}
	}

	for txHash := range funding {
		spent, err := tx.In(ctx, graph.LabelInput, txHash)
		if err != nil {
			return fmt.Errorf("inputs of %s: %w", txHash, err)
		}
		if err := a.collectOwners(ctx, tx, spent, addr.Address, inbound); err != nil {
			return err
		}
	}
	for txHash := range spending {
		created, err := tx.Out(ctx, graph.LabelOutput, txHash)
		if err != nil {
			return fmt.Errorf("outputs of %s: %w", txHash, err)
		}
		if err := a.collectOwners(ctx, tx, created, addr.Address, outbound); err != nil {
			return err
		}
	}

	addr.InNeighborCount = len(inbound)
	addr.OutNeighborCount = len(outbound)
	return nil
}

func (a *Aggregator) collectOwners(ctx context.Context, tx graph.Tx, outputs []string, self string, into map[string]struct{}) error {
	for _, name := range outputs {
		owner, err := a.owner(ctx, tx, name)
		if err != nil {
			return err
		}
		if owner != self {
			into[owner] = struct{}{}
		}
	}
	return nil
}
