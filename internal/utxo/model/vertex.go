package model

import "time"

// BlockVertex holds the stored properties of a block.
type BlockVertex struct {
	Hash           string    `json:"hash"`
	PrevHash       string    `json:"prev_hash"`
	Height         int64     `json:"height"`
	Timestamp      time.Time `json:"timestamp"`
	TxCount        int       `json:"tx_count"`
	Balance        int64     `json:"balance"`
	CoinbaseReward int64     `json:"coinbase_reward"`
	Fee            int64     `json:"fee"`
}

// TransactionVertex holds the stored properties of a transaction.
type TransactionVertex struct {
	Hash                string    `json:"hash"`
	BlockHash           string    `json:"block_hash"`
	Position            int       `json:"position"`
	InputCount          int       `json:"input_count"`
	OutputCount         int       `json:"output_count"`
	Balance             int64     `json:"balance"`
	Timestamp           time.Time `json:"timestamp"`
	NewAddressCount     int       `json:"new_address_count"`
	IsCoinbase          bool      `json:"is_coinbase"`
	Fee                 int64     `json:"fee"`
	IsBetweenOneAddress bool      `json:"is_between_one_address"`
}

// OutputVertex holds the stored properties of an output.
type OutputVertex struct {
	TxHash  string `json:"tx_hash"`
	Index   uint32 `json:"index"`
	Height  int64  `json:"height"`
	Balance int64  `json:"balance"`
	IsUsed  bool   `json:"is_used"`
}

// AddressVertex holds the aggregates of an address.
type AddressVertex struct {
	Address          string    `json:"address"`
	Balance          int64     `json:"balance"`
	FirstSeen        time.Time `json:"first_seen"`
	LastSeen         time.Time `json:"last_seen"`
	InputBalance     int64     `json:"input_balance"`
	OutputBalance    int64     `json:"output_balance"`
	TxCount          int       `json:"tx_count"`
	InCount          int       `json:"in_count"`
	OutCount         int       `json:"out_count"`
	InNeighborCount  int       `json:"in_neighbor_count"`
	OutNeighborCount int       `json:"out_neighbor_count"`
	BetweenSameCount int       `json:"between_same_count"`
	WalletID         int64     `json:"wallet_id"`
}

// ChainCursor records the accepted chain tip.
type ChainCursor struct {
	Hash   string `json:"hash"`
	Height int64  `json:"height"`
}
