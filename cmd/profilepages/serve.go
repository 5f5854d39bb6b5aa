package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"profilepages/internal/database"
	"profilepages/internal/handlers"
	"profilepages/internal/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, true)
		if err != nil {
			return err
		}
		defer a.Close()

		// Seed development data (no-op if templates already exist).
		if cfg.IsDev() {
			if err := database.Seed(a.db); err != nil {
				return fmt.Errorf("seed database: %w", err)
			}
		}

		r := router.New(router.Handlers{
			Profiles:  handlers.NewProfiles(a.profiles, a.documents, a.bus),
			Templates: handlers.NewTemplates(a.templates, a.syncer, a.bus),
			Documents: handlers.NewDocuments(a.documents, a.pages()),
			Admin:     handlers.NewAdmin(a.reconciler, a.eventLog),
			Public:    handlers.NewPublic(a.documents, a.renderer, a.pages()),
		}, a.lockGate)

		// WriteTimeout must cover a template save, which syncs every page
		// generated from it before responding, and a full reconcile.
		srv := &http.Server{
			Addr:         cfg.Addr(),
			Handler:      r,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Minute,
			IdleTimeout:  120 * time.Second,
		}

		serveErr := make(chan error, 1)
		go func() {
			slog.Info("server starting", "addr", cfg.Addr())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()

		// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-serveErr:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case sig := <-quit:
			slog.Info("shutdown signal received", "signal", sig)
		}

		// Give active requests up to 30 seconds to complete.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		slog.Info("server stopped gracefully")
		return nil
	},
}
