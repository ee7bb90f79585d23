package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/blockchainintegration/nft-ledger/internal/adapter/chain"
	"github.com/blockchainintegration/nft-ledger/internal/adapter/explorer"
	"github.com/blockchainintegration/nft-ledger/internal/adapter/handler"
	"github.com/blockchainintegration/nft-ledger/internal/adapter/storage"
	"github.com/blockchainintegration/nft-ledger/internal/core/domain"
	"github.com/blockchainintegration/nft-ledger/internal/core/service"
	"github.com/blockchainintegration/nft-ledger/internal/port"
)

const (
	defaultHTTPAddr     = ":8080"
	defaultLedgerFile   = "data/mints.jsonl"
	defaultRPCURL       = "https://ethereum-sepolia-rpc.publicnode.com"
	defaultExplorerURL  = "https://api-sepolia.etherscan.io/api"
	defaultNFT2Contract = "0x1b3edf543fa481beb1a7fa2eca24b00537e74ea6"

	rpcTimeout       = 5 * time.Second
	probeTimeout     = 3 * time.Second
	activityCacheTTL = 60 * time.Second
	nft2MaxSupply    = 100
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// resolveRedisAddr maps the REDIS_ADDR environment value to a probe
// target. Unset probes the local default; "none" disables the cache.
func resolveRedisAddr(v string) (addr string, probe bool) {
	switch v {
	case "":
		return "localhost:6379", true
	case "none":
		return "", false
	default:
		return v, true
	}
}

func main() {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	logger = level.NewFilter(logger, level.AllowInfo())
	if os.Getenv("DEBUG") != "" {
		logger = level.NewFilter(logger, level.AllowAll())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := domain.Registry{
		"customnft2": {
			Name:            "CustomNFT2",
			ContractAddress: envOr("NFT2_CONTRACT_ADDRESS", defaultNFT2Contract),
			CreatorAddress:  envOr("NFT2_CREATOR_ADDRESS", "0x"),
			MaxSupply:       nft2MaxSupply,
			BaseImageURI:    "ipfs://bafybeig5xvfwi2e2bdai6lngjzok2aktxeyqorx6gwpw25mu5p4bjmqtaa/base.svg",
			ExternalURL:     "https://blockchainintegration.dev",
		},
	}

	caps := handler.Capabilities{}

	// Ledger store: MySQL when a DSN is configured and reachable, the
	// JSON-lines file otherwise.
	var store port.LedgerStore
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		db, err := sql.Open("mysql", dsn)
		if err == nil {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(10)
			db.SetConnMaxLifetime(5 * time.Minute)
			pingCtx, pingCancel := context.WithTimeout(ctx, probeTimeout)
			err = db.PingContext(pingCtx)
			pingCancel()
			if err == nil {
				store = storage.NewMySQLAdapter(db)
				caps.Store = "mysql"
				level.Info(logger).Log("msg", "ledger store: mysql")
			} else {
				db.Close()
			}
		}
		if store == nil {
			level.Warn(logger).Log("msg", "mysql configured but unreachable, falling back to file store")
		}
	}
	if store == nil {
		ledgerFile := envOr("LEDGER_FILE", defaultLedgerFile)
		fileStore, err := storage.NewFileAdapter(ledgerFile)
		if err != nil {
			level.Error(logger).Log("msg", "cannot open ledger file", "path", ledgerFile, "err", err)
			os.Exit(1)
		}
		store = fileStore
		caps.Store = "file"
		level.Info(logger).Log("msg", "ledger store: file", "path", ledgerFile)
	}
	defer store.Close()

	// Cache is optional; probe Redis and drop to the nop cache when absent.
	var cache port.CacheRepository = storage.NewNopCache()
	caps.Cache = "none"
	if addr, probe := resolveRedisAddr(os.Getenv("REDIS_ADDR")); probe {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		pingCtx, pingCancel := context.WithTimeout(ctx, probeTimeout)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err == nil {
			cache = storage.NewRedisAdapter(rdb)
			caps.Cache = "redis"
			defer rdb.Close()
			level.Info(logger).Log("msg", "cache: redis", "addr", addr)
		} else {
			rdb.Close()
			level.Warn(logger).Log("msg", "redis unreachable, running without cache", "addr", addr, "err", err)
		}
	}

	rpcURL := envOr("ETH_RPC_URL", defaultRPCURL)
	client, err := chain.Dial(ctx, rpcURL)
	if err != nil {
		level.Error(logger).Log("msg", "cannot dial rpc endpoint", "url", rpcURL, "err", err)
		os.Exit(1)
	}
	defer client.Close()
	reader, err := chain.NewEthReader(client, rpcTimeout)
	if err != nil {
		level.Error(logger).Log("msg", "cannot build chain reader", "err", err)
		os.Exit(1)
	}
	caps.Chain = "rpc"

	explorerClient := explorer.NewEtherscanClient(
		envOr("ETHERSCAN_URL", defaultExplorerURL),
		os.Getenv("ETHERSCAN_API_KEY"),
		rpcTimeout,
	)

	ledger := service.NewLedgerService(registry, store, reader, cache, log.With(logger, "component", "ledger"))
	activity := service.NewActivityService(explorerClient, cache, activityCacheTTL, log.With(logger, "component", "activity"))

	httpHandler := handler.NewHTTPHandler(ledger, activity, caps)
	httpServer := &http.Server{
		Addr:    envOr("HTTP_ADDR", defaultHTTPAddr),
		Handler: httpHandler.Routes(),
	}

	go func() {
		level.Info(logger).Log("msg", "http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			level.Error(logger).Log("msg", "http server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	level.Info(logger).Log("msg", "shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	level.Info(logger).Log("msg", "http server stopped")
}
