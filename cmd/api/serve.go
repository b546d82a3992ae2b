package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cardealer/service/internal/car"
	"github.com/cardealer/service/internal/db"
	"github.com/cardealer/service/internal/retention"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the retention sweep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if err := db.Migrate(a.cfg.DatabaseURL); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	svc, pool, err := a.carService(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	handler := car.NewHandler(svc, a.logger)
	sweeper := retention.NewSweeper(svc, a.cfg.RetentionMaxAge, a.cfg.RetentionInterval, a.logger)

	srv := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      newRouter(a.logger, handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("server listening", "port", a.cfg.Port, "env", a.cfg.AppEnv)
		a.logger.Info("swagger UI available", "url", "http://localhost:"+a.cfg.Port+"/swagger/")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.logger.Info("retention sweep scheduled",
			"max_age", a.cfg.RetentionMaxAge.String(),
			"interval", a.cfg.RetentionInterval.String(),
		)
		return sweeper.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("forced shutdown: %w", err)
		}
		a.logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
