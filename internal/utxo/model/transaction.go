package model

import (
	"fmt"
)

// UndecodableAddress replaces the destination of outputs whose script yields no address.
const UndecodableAddress = "cannot decode output address"

// Transaction is a decoded transaction.
type Transaction struct {
	Hash       string
	IsCoinbase bool
	Inputs     []TransactionInput
	Outputs    []TransactionOutput
}

// TransactionInput references a previously created output.
type TransactionInput struct {
	PrevTxHash string
	PrevIndex  uint32
}

// TransactionOutput is a value locked to a resolved address.
type TransactionOutput struct {
	Index   uint32
	Value   int64
	Address string
}

// OutputName builds the unique key of an output vertex.
func OutputName(txHash string, index uint32) string {
	return fmt.Sprintf("%s:%d", txHash, index)
}

// Name returns the key of the output this input spends.
func (i TransactionInput) Name() string {
	return OutputName(i.PrevTxHash, i.PrevIndex)
}
