package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"expensetracker/internal/backend"
	"expensetracker/internal/cli"
	"expensetracker/internal/events"
	"expensetracker/internal/log"
	"expensetracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))

	logger.Info("Starting expensetracker-feed")

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.FeedEnabled() {
		logger.Error("AMQP_URL is required to follow the change feed")
		os.Exit(1)
	}
	if cfg.DataBackend != backend.SQLiteBackend.String() {
		logger.Error("The feed worker reads records back from SQLite; set DATA_BACKEND=sqlite",
			log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The worker only reads; the publisher attached by the factory stays unused.
	result := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Cleanup failed", log.FieldError, err)
			}
		}
	}()

	client, err := events.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	feedWorker := worker.NewFeedWorker(result.Expenses, result.Budgets, cfg.CSVExportPath, logger)

	// Catch up on anything written while the worker was down.
	logger.Info("Performing startup export sync...")
	if err := feedWorker.SyncExport(ctx); err != nil {
		logger.Error("Failed startup export sync", log.FieldError, err)
	}

	if err := client.Consume(ctx, feedWorker.HandleRecordChanged); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("expensetracker-feed stopped")
}
