package backend

import (
	"context"
	"fmt"
	"log/slog"

	"obras/internal/amqp"
	"obras/internal/storage"
	"obras/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var result *BackendResult
	switch config.Type {
	case SQLiteBackend:
		r, err := f.createSQLiteBackend(ctx, config)
		if err != nil {
			return nil, err
		}
		result = r
	case MemoryBackend:
		result = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	f.attachPublisher(result, config)
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	if config.SeedDemoData {
		if err := repo.Seed(ctx, memory.DemoSnapshot()); err != nil {
			repo.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"seeded", config.SeedDemoData)

	return &BackendResult{
		Provider: NewSharedProvider(repo),
		Cleanup:  repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) *BackendResult {
	f.logger.Info("Initialized memory backend", "seeded", config.SeedDemoData)
	return &BackendResult{Provider: NewMemoryProvider(config.SeedDemoData)}
}

// attachPublisher connects to the broker when configured. A broker that is
// down at startup only disables events; the dashboard keeps working.
func (f *DefaultFactory) attachPublisher(result *BackendResult, config Config) {
	if config.AMQPURL == "" {
		return
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without report events", "error", err)
		return
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	result.Publisher = client
	previous := result.Cleanup
	result.Cleanup = func() error {
		err := client.Close()
		if previous != nil {
			if perr := previous(); perr != nil && err == nil {
				err = perr
			}
		}
		return err
	}
}
