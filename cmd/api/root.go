package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/cardealer/service/internal/car"
	"github.com/cardealer/service/internal/config"
	"github.com/cardealer/service/internal/db"
	"github.com/cardealer/service/internal/storage"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "cardealer",
		Short:         "Car dealership inventory service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.cfg = config.Load()
			a.logger = newLogger(a.cfg)
			slog.SetDefault(a.logger)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd(a), newMigrateCmd(a), newSweepCmd(a))
	return root
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func (a *app) newStorage() (storage.Storage, error) {
	switch a.cfg.StorageDriver {
	case "memory":
		a.logger.Warn("using in-memory object storage; images are lost on restart")
		return storage.NewMemoryStorage(), nil
	case "minio":
		return storage.NewMinioStorage(
			a.cfg.StorageEndpoint,
			a.cfg.StorageAccessKey,
			a.cfg.StorageSecretKey,
			a.cfg.StorageUseSSL,
			a.logger,
		)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", a.cfg.StorageDriver)
	}
}

// carService connects to the database and object storage and wires the car service.
// The returned pool must be closed by the caller.
func (a *app) carService(ctx context.Context) (*car.Service, *pgxpool.Pool, error) {
	pool, err := db.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	store, err := a.newStorage()
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("object storage init failed: %w", err)
	}
	if err := store.EnsureBucket(ctx, a.cfg.StorageBucket); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("object storage init failed: %w", err)
	}

	// Wire dependencies: repository → service
	repo := car.NewRepository(pool)
	return car.NewService(repo, store, a.cfg.StorageBucket, a.logger), pool, nil
}
