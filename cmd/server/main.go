// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command server runs the RDS dashboard BFF.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rds-dashboard/bff/internal/api"
	"github.com/rds-dashboard/bff/internal/audit"
	"github.com/rds-dashboard/bff/internal/auth"
	"github.com/rds-dashboard/bff/internal/config"
	"github.com/rds-dashboard/bff/internal/logging"
	"github.com/rds-dashboard/bff/internal/origin"
	"github.com/rds-dashboard/bff/internal/routing"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Security.Environment).
		Int("port", cfg.Server.Port).
		Msg("starting RDS dashboard BFF")

	auditStore := audit.NewMemoryStore(origin.AuditCapacity)
	authAudit := audit.NewAuthLogger(auditStore)

	validator, err := origin.NewValidator(cfg.Security.CORSOrigins)
	if err != nil {
		return fmt.Errorf("origin validator: %w", err)
	}

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Security.JWTSecret), cfg.Security.JWTIssuer)
	if err != nil {
		return fmt.Errorf("token verifier: %w", err)
	}
	authMW := auth.NewMiddleware(verifier, auth.WithAuditLogger(authAudit))

	registry, err := routing.NewRegistry(cfg.Services.InternalAPIURL, cfg.Services.BFFAPIURL)
	if err != nil {
		return fmt.Errorf("service registry: %w", err)
	}

	client := routing.NewInternalClient(cfg.Services.InternalAPIKey)
	checker := routing.NewHealthChecker(registry, client)
	lifecycle := routing.NewLifecycle(registry, checker)

	startCtx, cancelStart := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	err = lifecycle.Initialize(startCtx)
	cancelStart()
	if err != nil {
		return fmt.Errorf("routing lifecycle: %w", err)
	}

	router := api.NewRouter(api.Deps{
		Config:    cfg,
		Validator: validator,
		Auth:      authMW,
		Registry:  registry,
		Checker:   checker,
		Client:    client,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown incomplete")
	}
	if err := lifecycle.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("routing shutdown incomplete")
	}

	logging.Info().Msg("shutdown complete")
	return nil
}
