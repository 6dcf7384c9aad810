package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ewilliams-labs/cratedig/internal/adapters/rest"
	"github.com/ewilliams-labs/cratedig/internal/app"
	"github.com/ewilliams-labs/cratedig/internal/config"
	"github.com/ewilliams-labs/cratedig/internal/logging"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	// 2. Driven adapters and the core service
	a, err := app.New(cfg, nil)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to wire application")
	}
	defer func() {
		if err := a.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close settings store")
		}
	}()

	// 3. Driving adapter
	handler := rest.NewHandler(a.Discovery, a.Settings)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Server.Addr).Msg("cratedig API listening")
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			logging.Error().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		logging.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Warn().Err(err).Msg("shutdown error")
		}
	}
}
