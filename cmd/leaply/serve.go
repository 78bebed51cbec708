package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PeterBarbas/leaply-sub001/internal/transport/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the discovery HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, roles, catalog, err := buildDiscovery(ctx)
		if err != nil {
			return err
		}
		defer catalog.Close()

		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           httpapi.Server{Discover: svc, Roles: roles, Logger: logger.Named("http")}.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("shutdown", zap.Error(ctx.Err()))
		return nil
	},
}
