package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/memory"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/postgres"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/sqlite"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/node"
	rpcclient2 "github.com/goodnatureofminers/blockinsight7000-graph/internal/pkg/btcd/rpcclient"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/service/indexer"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/service/ingester"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	configFileName = "blockchain2graph.conf"
	eventBuffer    = 64
)

type config struct {
	ConfigFile       string        `long:"config" env:"GRAPH_CONFIG" description:"config file, defaults to <configdir>/blockchain2graph.conf"`
	DataDir          string        `long:"datadir" env:"GRAPH_DATADIR" description:"node data directory holding blocks/"`
	ConfigDir        string        `long:"configdir" env:"GRAPH_CONFIGDIR" description:"directory with blockchain2graph.conf and the sqlite database" default:"."`
	BitcoinDir       string        `long:"bitcoindir" env:"GRAPH_BITCOINDIR" description:"directory with the bitcoind binary"`
	Network          model.Network `long:"network" env:"GRAPH_NETWORK" description:"network name" default:"mainnet" choice:"mainnet" choice:"testnet" choice:"regtest" choice:"signet"`
	Store            string        `long:"store" env:"GRAPH_STORE" description:"graph store backend" default:"sqlite" choice:"sqlite" choice:"postgres" choice:"memory"`
	PostgresDSN      string        `long:"postgres-dsn" env:"GRAPH_POSTGRES_DSN" description:"PostgreSQL DSN"`
	SQLitePath       string        `long:"sqlite-path" env:"GRAPH_SQLITE_PATH" description:"SQLite database path, defaults to <configdir>/graph.db"`
	Window           int           `long:"window" env:"GRAPH_WINDOW" description:"blocks buffered before reordering" default:"1126"`
	Drain            int           `long:"drain" env:"GRAPH_DRAIN" description:"ordered blocks indexed per window" default:"100"`
	DecodeWorkers    int           `long:"decode-workers" env:"GRAPH_DECODE_WORKERS" description:"block files decoded in parallel" default:"4"`
	BlockCacheSize   int           `long:"block-cache-size" env:"GRAPH_BLOCK_CACHE_SIZE" description:"blocks kept by the live file source" default:"512"`
	FileSearchDepth  int           `long:"file-search-depth" env:"GRAPH_FILE_SEARCH_DEPTH" description:"block files searched backwards per lookup" default:"2"`
	MaxReorgDepth    int           `long:"max-reorg-depth" env:"GRAPH_MAX_REORG_DEPTH" description:"blocks walked back looking for a fork point" default:"1000"`
	RPCURL           string        `long:"rpc-url" env:"GRAPH_RPC_URL" description:"Bitcoin RPC URL, used when a block is missing from the files"`
	RPCUser          string        `long:"rpc-user" env:"GRAPH_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword      string        `long:"rpc-password" env:"GRAPH_RPC_PASSWORD" description:"Bitcoin RPC password"`
	NodeRestartDelay time.Duration `long:"node-restart-delay" env:"GRAPH_NODE_RESTART_DELAY" description:"delay before restarting an exited node" default:"10s"`
	SkipLive         bool          `long:"skip-live" env:"GRAPH_SKIP_LIVE" description:"stop after replaying the block files"`
	MetricsAddr      string        `long:"metrics-addr" env:"GRAPH_METRICS_ADDR" description:"address for metrics server" default:":2112"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := parseConfig(&cfg, os.Args[1:]); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := validate(cfg); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("graph indexer stopped")
			return
		}
		logger.Fatal("graph indexer failed", zap.Error(err))
	}
}

// parseConfig reads the command line, then the config file, then the command
// line again so that arguments win over file values.
func parseConfig(cfg *config, args []string) error {
	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return err
	}

	path := cfg.ConfigFile
	if path == "" {
		path = filepath.Join(cfg.ConfigDir, configFileName)
	}
	if _, err := os.Stat(path); err != nil {
		if cfg.ConfigFile == "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat config file: %w", err)
	}
	if err := flags.NewIniParser(parser).ParseFile(path); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	_, err := parser.ParseArgs(args)
	return err
}

func validate(cfg config) error {
	if cfg.DataDir == "" {
		return errors.New("datadir is required")
	}
	info, err := os.Stat(filepath.Join(cfg.DataDir, "blocks"))
	if err != nil {
		return fmt.Errorf("blocks directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", filepath.Join(cfg.DataDir, "blocks"))
	}
	if !cfg.SkipLive {
		if cfg.BitcoinDir == "" {
			return errors.New("bitcoindir is required")
		}
		if _, err := os.Stat(filepath.Join(cfg.BitcoinDir, node.BinaryName)); err != nil {
			return fmt.Errorf("node binary: %w", err)
		}
	}
	if cfg.Store == "postgres" && cfg.PostgresDSN == "" {
		return errors.New("postgres-dsn is required for the postgres store")
	}
	if cfg.Drain <= 0 || cfg.Drain >= cfg.Window {
		return fmt.Errorf("drain %d must be positive and below window %d", cfg.Drain, cfg.Window)
	}
	return nil
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	coin := model.BTC
	blocksDir := filepath.Join(cfg.DataDir, "blocks")

	rawStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init graph store: %w", err)
	}
	defer func() {
		if err := rawStore.Close(); err != nil {
			logger.Error("failed to close graph store", zap.Error(err))
		}
	}()
	store := graph.NewObservedStore(rawStore, metrics.NewGraphStore(coin, cfg.Network))

	subsidy, err := bitcoin.NewSubsidy(cfg.Network)
	if err != nil {
		return err
	}
	genesis, err := bitcoin.GenesisHash(cfg.Network)
	if err != nil {
		return err
	}
	idx, err := indexer.NewIndexer(store, subsidy, metrics.NewIndexer(coin, cfg.Network), logger)
	if err != nil {
		return err
	}

	fileSource, err := bitcoin.NewFileBlockSource(blocksDir, cfg.Network, cfg.BlockCacheSize, cfg.FileSearchDepth, logger)
	if err != nil {
		return fmt.Errorf("init block file source: %w", err)
	}
	sources := []chain.BlockSource{fileSource}
	if cfg.RPCURL != "" {
		rpcClient, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
		if err != nil {
			return fmt.Errorf("init rpc client: %w", err)
		}
		defer func() {
			rpcClient.Shutdown()
			rpcClient.WaitForShutdown()
		}()
		rpc := rpcclient2.NewObservedClient(rpcClient, metrics.NewRPCClient(coin, cfg.Network))
		rpcSource, err := bitcoin.NewRPCBlockSource(rpc, cfg.Network)
		if err != nil {
			return err
		}
		sources = append(sources, rpcSource)
	}
	source := bitcoin.NewFallbackBlockSource(logger, sources...)

	rollback, err := indexer.NewRollbackManager(idx, source, cfg.MaxReorgDepth, metrics.NewRollback(coin, cfg.Network), logger)
	if err != nil {
		return err
	}

	scanner, err := bitcoin.NewFileScanner(blocksDir, cfg.Network, cfg.DecodeWorkers, metrics.NewBlockScanner(coin, cfg.Network), logger)
	if err != nil {
		return fmt.Errorf("init block file scanner: %w", err)
	}
	replay, err := ingester.NewReplayService(
		scanner,
		idx,
		rollback,
		metrics.NewReplay(coin, cfg.Network),
		genesis,
		cfg.Window,
		cfg.Drain,
		os.Stderr,
		coin,
		cfg.Network,
		logger,
	)
	if err != nil {
		return err
	}
	tip, ok, err := replay.Run(ctx)
	if err != nil {
		return fmt.Errorf("replay block files: %w", err)
	}
	if ok {
		logger.Info("block files replayed", zap.String("best", tip.Hash), zap.Int64("height", tip.Height))
	}
	fileSource.SetFileIndex(max(scanner.LastIndex(), 0))

	if cfg.SkipLive {
		return nil
	}

	monitor, err := node.NewMonitor(cfg.BitcoinDir, cfg.DataDir, cfg.NodeRestartDelay, metrics.NewNode(coin, cfg.Network), logger)
	if err != nil {
		return fmt.Errorf("init node monitor: %w", err)
	}
	live, err := ingester.NewLiveSyncService(
		idx,
		rollback,
		source,
		fileSource,
		metrics.NewLiveSync(coin, cfg.Network),
		coin,
		cfg.Network,
		logger,
	)
	if err != nil {
		return err
	}

	events := make(chan node.Event, eventBuffer)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		return monitor.Run(gctx, events)
	})
	g.Go(func() error {
		return live.Run(gctx, events)
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg config) (graph.Store, error) {
	switch cfg.Store {
	case "postgres":
		return postgres.NewStore(ctx, cfg.PostgresDSN, true)
	case "memory":
		return memory.NewStore(), nil
	case "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			path = filepath.Join(cfg.ConfigDir, "graph.db")
		}
		return sqlite.NewStore(path)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}
