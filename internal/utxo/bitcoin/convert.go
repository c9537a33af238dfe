// Package bitcoin decodes Bitcoin block files and node responses into model types.
package bitcoin

import (
	"time"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
)

// ConvertBlock maps a wire block onto model.Block, resolving every output address.
func ConvertBlock(msg *wire.MsgBlock, decoder ScriptDecoder) model.Block {
	block := model.Block{
		Hash:      msg.BlockHash().String(),
		PrevHash:  msg.Header.PrevBlock.String(),
		Timestamp: msg.Header.Timestamp.UTC().Truncate(time.Second),
		Txs:       make([]model.Transaction, 0, len(msg.Transactions)),
	}
	for _, tx := range msg.Transactions {
		block.Txs = append(block.Txs, convertTransaction(tx, decoder))
	}
	return block
}

func convertTransaction(tx *wire.MsgTx, decoder ScriptDecoder) model.Transaction {
	coinbase := blockchain.IsCoinBaseTx(tx)
	out := model.Transaction{
		Hash:       tx.TxHash().String(),
		IsCoinbase: coinbase,
		Outputs:    make([]model.TransactionOutput, 0, len(tx.TxOut)),
	}
	if !coinbase {
		out.Inputs = make([]model.TransactionInput, 0, len(tx.TxIn))
		for _, in := range tx.TxIn {
			out.Inputs = append(out.Inputs, model.TransactionInput{
				PrevTxHash: in.PreviousOutPoint.Hash.String(),
				PrevIndex:  in.PreviousOutPoint.Index,
			})
		}
	}
	for i, txOut := range tx.TxOut {
		out.Outputs = append(out.Outputs, model.TransactionOutput{
			Index:   uint32(i),
			Value:   txOut.Value,
			Address: decoder.Address(txOut.PkScript),
		})
	}
	return out
}
