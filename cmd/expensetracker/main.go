package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"expensetracker/internal/cli"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/simulation"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := cli.InitBackend(ctx, logger, cfg)

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			if result.Cleanup == nil {
				return
			}
			if err := result.Cleanup(); err != nil {
				logger.Error("Cleanup failed", log.FieldOperation, log.OpShutdown, log.FieldError, err)
			}
		})
	}
	defer cleanup()

	// The menu blocks on stdin, so an interrupt closes storage and exits here.
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
		cleanup()
		os.Exit(130)
	}()

	expenses := services.NewExpenseService(result.Expenses, result.Publisher, logger)
	budgets := services.NewBudgetService(result.Budgets, result.Publisher, logger)

	app := cli.NewApp(os.Stdin, os.Stdout, expenses, budgets, cli.Options{
		CSVPath: cfg.CSVExportPath,
		Simulation: simulation.Options{
			Writes:         cfg.SimWrites,
			WriteDelay:     cfg.SimWriteDelay,
			Readers:        cfg.SimReaders,
			ReadsPerReader: cfg.SimReadsPerReader,
			ReadDelay:      cfg.SimReadDelay,
		},
	}, logger)

	logger.Info("Expense tracker started",
		log.FieldOperation, log.OpStartup,
		log.FieldBackend, cfg.DataBackend,
		"change_feed", cfg.FeedEnabled())

	if err := app.Run(ctx); err != nil {
		logger.Error("Menu loop stopped", log.FieldError, err)
		cleanup()
		os.Exit(1)
	}
}
