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

	"github.com/tendant/user-role-service/pkg/bootstrap"
	"github.com/tendant/user-role-service/pkg/config"
	"github.com/tendant/user-role-service/pkg/docstore"
	"github.com/tendant/user-role-service/pkg/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("User-role service stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogger(cfg)

	slog.Info("Starting user-role service",
		"version", version,
		"port", cfg.Port,
		"persistence", cfg.Store.Persistence)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := docstore.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			slog.Error("Failed to close document store", "error", err)
		}
	}()

	services, err := router.NewServices(ctx, store, cfg)
	if err != nil {
		return err
	}

	if cfg.SeedData {
		result, err := bootstrap.SeedDemoData(ctx, bootstrap.SeedConfig{
			RoleRepository: services.RoleRepository,
			UserRepository: services.UserRepository,
		})
		if err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		bootstrap.LogSeedSummary(result)
		if !cfg.LogJSON {
			bootstrap.PrintSeedResult(os.Stdout, result)
		}
	}

	routeCfg := router.NewConfig(services, store, cfg)
	routeCfg.StartTime = time.Now()
	routeCfg.Version = version

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router.NewRouter(routeCfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("User-role service ready", "addr", server.Addr, "base_url", cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.LogJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
