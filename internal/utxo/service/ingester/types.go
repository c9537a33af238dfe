package ingester

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	BlockScanner interface {
		Scan(ctx context.Context, emit func(context.Context, model.Block) error) error
	}
	GraphIndexer interface {
		IndexBlock(ctx context.Context, block model.Block, height int64) error
		Tip(ctx context.Context) (model.ChainCursor, bool, error)
		HasBlock(ctx context.Context, hash string) (bool, error)
	}
	Rollback interface {
		Reorg(ctx context.Context, hash string, height int64) error
		RollbackTo(ctx context.Context, ancestor string) error
	}
	BlockSource interface {
		BlockByHash(ctx context.Context, hash string) (model.Block, error)
	}
	FileTracker interface {
		SetFileIndex(index int)
	}

	ReplayMetrics interface {
		ObserveReplayBlock(err error, height int64, started time.Time)
		ObserveReplaySkipped()
		ObserveDivergence()
	}
	LiveSyncMetrics interface {
		ObserveEvent(kind string, err error, started time.Time)
		ObserveTip(height int64)
	}
)
