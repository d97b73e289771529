// Package backend selects and wires the persistence backend at startup.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"contas/internal/amqp"
	"contas/internal/config"
	"contas/internal/services"
	"contas/internal/sheets"
	"contas/internal/storage"
	"contas/internal/store/memory"
)

type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
	Sheets Type = "sheets"
)

func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite, Sheets:
		return true
	default:
		return false
	}
}

// Result bundles the wired service with the cleanup for its resources.
type Result struct {
	Service *services.BillService
	Cleanup func() error
}

type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds the backend named by cfg.DataBackend. The sqlite backend
// optionally pairs with AMQP so local writes are mirrored by the sync worker;
// a broker that is down at startup degrades to local-only with a warning.
func (f *Factory) Create(ctx context.Context, cfg *config.Config) (*Result, error) {
	t := Type(cfg.DataBackend)
	switch t {
	case SQLite:
		return f.createSQLite(cfg)
	case Sheets:
		return f.createSheets(ctx)
	case Memory:
		return f.createMemory()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
}

func (f *Factory) createSQLite(cfg *config.Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	var publisher services.EventPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			publisher = amqpClient
			f.logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	svc := services.NewBillService(repo, publisher).WithCloser(func() error {
		var errs []error
		if amqpClient != nil {
			errs = append(errs, amqpClient.Close())
		}
		errs = append(errs, repo.Close())
		return errors.Join(errs...)
	})

	f.logger.Info("Initialized SQLite backend",
		"db_path", cfg.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	return &Result{Service: svc, Cleanup: svc.Close}, nil
}

func (f *Factory) createSheets(ctx context.Context) (*Result, error) {
	cli, err := sheets.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend")
	svc := services.NewBillService(cli, nil)
	return &Result{Service: svc, Cleanup: svc.Close}, nil
}

func (f *Factory) createMemory() (*Result, error) {
	st := memory.New()

	f.logger.Info("Initialized memory backend")
	svc := services.NewBillService(st, nil)
	return &Result{Service: svc, Cleanup: svc.Close}, nil
}
