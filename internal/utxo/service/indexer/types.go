package indexer

import (
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Subsidy yields the coinbase reward of a height.
	Subsidy interface {
		Reward(height int64) (int64, error)
	}

	// IndexerMetrics records block indexing.
	IndexerMetrics interface {
		ObserveIndexBlock(err error, height int64, started time.Time)
		ObserveSkippedBlock()
	}

	// RollbackMetrics records rollback activity.
	RollbackMetrics interface {
		ObserveRollback(err error, depth int, started time.Time)
		ObserveState(state string)
	}
)
