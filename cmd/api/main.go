package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/chain"
	"github.com/venkateshn67/warranty-verification/internal/config"
	"github.com/venkateshn67/warranty-verification/internal/infra"
	"github.com/venkateshn67/warranty-verification/internal/keystore"
	"github.com/venkateshn67/warranty-verification/internal/logging"
	"github.com/venkateshn67/warranty-verification/internal/metrics"
	"github.com/venkateshn67/warranty-verification/internal/routes"
	"github.com/venkateshn67/warranty-verification/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	deps := routes.Deps{Cfg: cfg, Logger: logger, Metrics: metrics.New()}

	if cfg.StoreDriver == config.StorePostgres {
		db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.AppName)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		deps.DB = db
	}

	if cfg.StoreDriver == config.StoreSQLite {
		sqlDB, err := infra.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Error("open sqlite", "error", err)
			os.Exit(1)
		}
		defer sqlDB.Close()
		deps.SQLite = sqlDB
	}

	if cfg.RedisURL != "" {
		cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
		deps.Cache = cache
	}

	if cfg.ChainMode == config.ChainMock {
		deps.Chain = blockchain.NewMock()
	} else {
		client, err := chain.NewClient(cfg.AptosNodeURL, chain.Options{
			Timeout:  cfg.ChainTimeout,
			RetryMax: cfg.ChainRetryMax,
			Logger:   logging.Component(logger, "chain"),
		})
		if err != nil {
			logger.Error("build chain client", "error", err)
			os.Exit(1)
		}
		deps.Chain = client
	}

	if len(cfg.WalletKeys) > 0 {
		ks, err := keystore.New(cfg.WalletKeys)
		if err != nil {
			logger.Error("load wallet keys", "error", err)
			os.Exit(1)
		}
		deps.Keystore = ks
	} else {
		logger.Warn("no wallet keys configured; wallet connections will report a missing extension")
	}

	srv, err := server.New(deps)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
