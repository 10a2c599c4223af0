package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/DaviiSA/AppControle/internal/config"
	"github.com/DaviiSA/AppControle/internal/events"
	apphttp "github.com/DaviiSA/AppControle/internal/http"
	"github.com/DaviiSA/AppControle/internal/ledger"
	applog "github.com/DaviiSA/AppControle/internal/log"
	"github.com/DaviiSA/AppControle/internal/services"
	"github.com/DaviiSA/AppControle/internal/storage"
	appsync "github.com/DaviiSA/AppControle/internal/sync"
	"github.com/DaviiSA/AppControle/internal/sync/memory"
	"github.com/DaviiSA/AppControle/internal/sync/script"
	"github.com/DaviiSA/AppControle/internal/sync/sheets"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	kv, err := storage.NewKVStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open local storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer kv.Close()

	seed, err := kv.LoadRecords(context.Background())
	if err != nil {
		logger.Error("Failed to load persisted ledger", "error", err)
		os.Exit(1)
	}
	store := ledger.New(kv, seed)
	logger.Info("Ledger loaded", "records", len(seed))

	var (
		pusher appsync.Pusher
		puller appsync.Puller
	)
	switch cfg.SyncBackend {
	case "sheets":
		cli, err := sheets.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets sync", "error", err)
			os.Exit(1)
		}
		pusher, puller = cli, cli
		logger.Info("Initialized sheets sync backend")
	case "memory":
		remote := memory.New()
		pusher, puller = remote, remote
		logger.Info("Initialized in-memory sync backend")
	default:
		cli := script.New(nil)
		pusher, puller = cli, cli
		logger.Info("Initialized script sync backend")
	}

	syncSvc := services.NewSyncService(store, pusher, puller, kv)

	// Optional ledger-change notification feed
	var publisher apphttp.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Event feed disabled, AMQP unavailable", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("Event feed enabled", "exchange", cfg.AMQPExchange)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, store, syncSvc, publisher, cfg.CardNames)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting appcontrole server", "port", cfg.Port, "sync_backend", cfg.SyncBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
