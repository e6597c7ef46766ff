package backend

import (
	"context"
	"errors"
	"fmt"

	"expensetracker/internal/events"
	"expensetracker/internal/log"
	"expensetracker/internal/storage/memory"
	"expensetracker/internal/storage/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Nop()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *BackendResult
		err    error
	)
	switch config.Type {
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		result, err = f.createMemoryBackend(ctx)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	f.attachPublisher(ctx, config, result)
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	db, err := sqlite.Open(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite backend: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		log.FieldBackend, SQLiteBackend.String(),
		log.FieldPath, db.Path())

	return &BackendResult{
		Expenses: db.Expenses,
		Budgets:  db.Budgets,
		Cleanup:  db.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context) (*BackendResult, error) {
	f.logger.InfoContext(ctx, "Initialized memory backend",
		log.FieldBackend, MemoryBackend.String())

	return &BackendResult{
		Expenses: memory.NewExpenses(),
		Budgets:  memory.NewBudgets(),
		Cleanup:  nil, // No cleanup needed for memory backend
	}, nil
}

// attachPublisher connects the change feed when configured. A broker that
// cannot be reached leaves the feed disabled; the tracker keeps working.
func (f *DefaultFactory) attachPublisher(ctx context.Context, config Config, result *BackendResult) {
	result.Publisher = events.NopPublisher{}
	if config.AMQPURL == "" {
		return
	}

	publisher, err := events.NewAMQPClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP publisher, continuing without change feed",
			log.FieldError, err)
		return
	}

	f.logger.InfoContext(ctx, "Initialized AMQP publisher",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	result.Publisher = publisher
	storeCleanup := result.Cleanup
	result.Cleanup = func() error {
		var errs []error
		if err := publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
		if storeCleanup != nil {
			if err := storeCleanup(); err != nil {
				errs = append(errs, fmt.Errorf("storage: %w", err))
			}
		}
		return errors.Join(errs...)
	}
}
