package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
)

// Aggregator maintains per-address aggregates inside the caller's transaction.
type Aggregator struct{}

// NewAggregator creates an Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// OnOutputCreated credits amount to address, creating the address on first
// sight, and locks outputName to it. created reports a new address;
// sameAddress reports that txHash also spends an output of this address.
func (a *Aggregator) OnOutputCreated(
	ctx context.Context,
	tx graph.Tx,
	address string,
	amount int64,
	txHash string,
	outputName string,
	ts time.Time,
) (created bool, sameAddress bool, err error) {
	addr, ok, err := graph.LoadOptional[model.AddressVertex](ctx, tx, graph.KindAddress, address)
	if err != nil {
		return false, false, fmt.Errorf("load address %s: %w", address, err)
	}
	if !ok {
		addr = model.AddressVertex{
			Address:      address,
			Balance:      amount,
			FirstSeen:    ts,
			LastSeen:     ts,
			InputBalance: amount,
			TxCount:      1,
			InCount:      1,
		}
	} else {
		addr.Balance += amount
		addr.InputBalance += amount
		addr.LastSeen = later(addr.LastSeen, ts)
		addr.TxCount++
		addr.InCount++

		sameAddress, err = a.spendsFrom(ctx, tx, txHash, address)
		if err != nil {
			return false, false, err
		}
		if sameAddress {
			addr.BetweenSameCount++
		}
	}

	if err := tx.Put(ctx, graph.KindAddress, address, addr); err != nil {
		return false, false, fmt.Errorf("put address %s: %w", address, err)
	}
	if err := tx.AddEdge(ctx, graph.LabelLocked, outputName, address); err != nil {
		return false, false, fmt.Errorf("lock output %s to %s: %w", outputName, address, err)
	}
	return !ok, sameAddress, nil
}

// OnOutputSpent debits the owner of outputName and returns the owner.
func (a *Aggregator) OnOutputSpent(ctx context.Context, tx graph.Tx, outputName string, ts time.Time) (string, error) {
	out, owner, addr, err := a.owned(ctx, tx, outputName)
	if err != nil {
		return "", err
	}
	addr.Balance -= out.Balance
	addr.OutputBalance += out.Balance
	addr.LastSeen = later(addr.LastSeen, ts)
	addr.TxCount++
	addr.OutCount++
	if err := tx.Put(ctx, graph.KindAddress, owner, addr); err != nil {
		return "", fmt.Errorf("put address %s: %w", owner, err)
	}
	return owner, nil
}

// RevertOutputSpent undoes OnOutputSpent and the spend itself: the output is
// unmarked and its input edge to spendingTx removed.
func (a *Aggregator) RevertOutputSpent(ctx context.Context, tx graph.Tx, outputName, spendingTx string) (string, error) {
	out, owner, addr, err := a.owned(ctx, tx, outputName)
	if err != nil {
		return "", err
	}
	addr.Balance += out.Balance
	addr.OutputBalance -= out.Balance
	addr.TxCount--
	addr.OutCount--
	if err := tx.Put(ctx, graph.KindAddress, owner, addr); err != nil {
		return "", fmt.Errorf("put address %s: %w", owner, err)
	}

	out.IsUsed = false
	if err := tx.Put(ctx, graph.KindOutput, outputName, out); err != nil {
		return "", fmt.Errorf("put output %s: %w", outputName, err)
	}
	if err := tx.RemoveEdge(ctx, graph.LabelInput, outputName, spendingTx); err != nil {
		return "", fmt.Errorf("unlink input %s: %w", outputName, err)
	}
	return owner, nil
}

// RevertOutputCreated undoes OnOutputCreated for an unspent output. The
// output vertex itself is left to the caller.
func (a *Aggregator) RevertOutputCreated(ctx context.Context, tx graph.Tx, outputName, creatingTx string) (string, error) {
	out, owner, addr, err := a.owned(ctx, tx, outputName)
	if err != nil {
		return "", err
	}
	if out.IsUsed {
		return "", fmt.Errorf("revert output %s: still spent", outputName)
	}
	addr.Balance -= out.Balance
	addr.InputBalance -= out.Balance
	addr.TxCount--
	addr.InCount--

	same, err := a.spendsFrom(ctx, tx, creatingTx, owner)
	if err != nil {
		return "", err
	}
	if same {
		addr.BetweenSameCount--
	}
	if err := tx.Put(ctx, graph.KindAddress, owner, addr); err != nil {
		return "", fmt.Errorf("put address %s: %w", owner, err)
	}
	return owner, nil
}

// Settle finishes rollback work on address: it is deleted when no output is
// locked to it any more, otherwise last-seen and neighbor counts are recomputed.
func (a *Aggregator) Settle(ctx context.Context, tx graph.Tx, address string) error {
	addr, ok, err := graph.LoadOptional[model.AddressVertex](ctx, tx, graph.KindAddress, address)
	if err != nil {
		return fmt.Errorf("load address %s: %w", address, err)
	}
	if !ok {
		return nil
	}
	outputs, err := tx.In(ctx, graph.LabelLocked, address)
	if err != nil {
		return fmt.Errorf("outputs of %s: %w", address, err)
	}
	if len(outputs) == 0 {
		if err := tx.Delete(ctx, graph.KindAddress, address); err != nil {
			return fmt.Errorf("delete address %s: %w", address, err)
		}
		return nil
	}

	lastSeen := addr.FirstSeen
	for _, name := range outputs {
		creators, err := tx.In(ctx, graph.LabelOutput, name)
		if err != nil {
			return fmt.Errorf("creator of %s: %w", name, err)
		}
		spenders, err := tx.Out(ctx, graph.LabelInput, name)
		if err != nil {
			return fmt.Errorf("spender of %s: %w", name, err)
		}
		for _, txHash := range append(creators, spenders...) {
			t, err := graph.Load[model.TransactionVertex](ctx, tx, graph.KindTransaction, txHash)
			if err != nil {
				return fmt.Errorf("load transaction %s: %w", txHash, err)
			}
			lastSeen = later(lastSeen, t.Timestamp)
		}
	}
	addr.LastSeen = lastSeen

	if err := a.countNeighbors(ctx, tx, &addr); err != nil {
		return err
	}
	if err := tx.Put(ctx, graph.KindAddress, address, addr); err != nil {
		return fmt.Errorf("put address %s: %w", address, err)
	}
	return nil
}

// owned loads an output together with its owning address.
func (a *Aggregator) owned(ctx context.Context, tx graph.Tx, outputName string) (model.OutputVertex, string, model.AddressVertex, error) {
	out, err := graph.Load[model.OutputVertex](ctx, tx, graph.KindOutput, outputName)
	if err != nil {
		return out, "", model.AddressVertex{}, fmt.Errorf("load output %s: %w", outputName, err)
	}
	owner, err := a.owner(ctx, tx, outputName)
	if err != nil {
		return out, "", model.AddressVertex{}, err
	}
	addr, err := graph.Load[model.AddressVertex](ctx, tx, graph.KindAddress, owner)
	if err != nil {
		return out, "", model.AddressVertex{}, fmt.Errorf("load address %s: %w", owner, err)
	}
	return out, owner, addr, nil
}

func (a *Aggregator) owner(ctx context.Context, tx graph.Tx, outputName string) (string, error) {
	owners, err := tx.Out(ctx, graph.LabelLocked, outputName)
	if err != nil {
		return "", fmt.Errorf("owner of %s: %w", outputName, err)
	}
	owner, err := graph.Single(owners)
	if err != nil {
		return "", fmt.Errorf("owner of %s: %w", outputName, err)
	}
	return owner, nil
}

// spendsFrom reports whether txHash spends an output locked to address.
func (a *Aggregator) spendsFrom(ctx context.Context, tx graph.Tx, txHash, address string) (bool, error) {
	spent, err := tx.In(ctx, graph.LabelInput, txHash)
	if err != nil {
		return false, fmt.Errorf("inputs of %s: %w", txHash, err)
	}
	for _, name := range spent {
		owner, err := a.owner(ctx, tx, name)
		if err != nil {
			return false, err
		}
		if owner == address {
			return true, nil
		}
	}
	return false, nil
}

func later(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
