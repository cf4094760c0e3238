// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main is the entry point for the academic portal API server.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, optional YAML file, PORTAL_* env vars (koanf v2)
//  2. Logging: zerolog, JSON or console format
//  3. Database: MySQL connection pool with a circuit breaker on user lookups
//  4. HTTP server: chi router with the request gatekeeper
//     (rate limiting, JWT authentication, role checks)
//
// The server handles graceful shutdown on SIGINT and SIGTERM: in-flight
// requests get the configured shutdown timeout to complete before the
// listener closes.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rahanss/Administrasi-Akademik/internal/api"
	"github.com/rahanss/Administrasi-Akademik/internal/auth"
	"github.com/rahanss/Administrasi-Akademik/internal/config"
	"github.com/rahanss/Administrasi-Akademik/internal/database"
	"github.com/rahanss/Administrasi-Akademik/internal/logging"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("failed to close database")
		}
	}()

	tokens, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}

	router := api.NewRouter(cfg, db, tokens)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logging.Info().Msg("server stopped")
	return nil
}
