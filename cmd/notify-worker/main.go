// notify-worker consumes ledger change events and logs them. It exists so
// an operator can tail a single feed of everything that happened to the
// ledger without reading the web server's request logs.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/DaviiSA/AppControle/internal/config"
	"github.com/DaviiSA/AppControle/internal/events"
	applog "github.com/DaviiSA/AppControle/internal/log"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notify worker")
		os.Exit(1)
	}

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting notify-worker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	feedLog := logger.WithComponent(applog.ComponentAMQP)
	err = client.ConsumeRecordEvents(ctx, func(event *events.RecordEvent) error {
		feedLog.InfoContext(ctx, "Ledger changed",
			applog.FieldOperation, event.Action,
			applog.FieldRecordID, event.RecordID,
			applog.FieldRecordDesc, event.Description,
			applog.FieldAmountCents, event.AmountCents,
			applog.FieldRecordType, event.RecordType,
		)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("Consumer stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
