// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

// Renterra server entrypoint. Wires the domain services, mounts the HTTP
// surface, and runs everything under a suture supervisor tree until the
// process receives SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/renterra/renterra/internal/admin"
	"github.com/renterra/renterra/internal/api"
	"github.com/renterra/renterra/internal/audit"
	"github.com/renterra/renterra/internal/auth"
	"github.com/renterra/renterra/internal/authz"
	"github.com/renterra/renterra/internal/booking"
	"github.com/renterra/renterra/internal/cache"
	"github.com/renterra/renterra/internal/car"
	"github.com/renterra/renterra/internal/config"
	"github.com/renterra/renterra/internal/database"
	"github.com/renterra/renterra/internal/emergency"
	"github.com/renterra/renterra/internal/logging"
	"github.com/renterra/renterra/internal/notification"
	"github.com/renterra/renterra/internal/payments"
	"github.com/renterra/renterra/internal/supervisor"
	"github.com/renterra/renterra/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Msg("Starting Renterra")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS is wide open; configure security.cors_origins for production")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.Database.SeedDemo {
		if err := db.SeedDemo(ctx); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed demo data")
		}
	}

	denylist, err := auth.NewDenylist(cfg.Security.DenylistPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open token denylist")
	}
	defer func() {
		if err := denylist.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing token denylist")
		}
	}()

	jwtMgr, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}
	hasher := auth.NewPasswordHasher(cfg.Security.BcryptCost)

	// Notifications flow: domain service -> in-process bus -> dispatcher ->
	// websocket hub. The database row is always written first; the push is
	// best-effort delivery on top of it.
	bus := notification.NewBus(cfg.Notification.BufferSize)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing notification bus")
		}
	}()
	wsHub := websocket.NewHub()
	dispatcher := notification.NewDispatcher(bus, wsHub)

	listings := cache.New("listings", cfg.API.ListingCacheTTL)
	defer listings.Stop()

	if cfg.Gateway.KeySecret == "" {
		logging.Warn().Msg("Payment gateway key secret not configured; captures will fail verification")
	}
	gateway := payments.NewClient(&cfg.Gateway)

	auditStore := audit.NewStore(db)
	auditLogger := audit.NewLogger(auditStore, &cfg.Audit)
	defer func() {
		if err := auditLogger.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing audit logger")
		}
	}()

	handler := api.NewHandler(cfg, db, api.Services{
		Auth:          auth.NewService(db, hasher, jwtMgr, denylist),
		Cars:          car.NewService(db, listings, bus),
		Bookings:      booking.NewService(db, bus),
		Emergencies:   emergency.NewService(db, bus),
		Notifications: notification.NewService(db),
		Payments:      payments.NewService(db, gateway, &cfg.Gateway, bus),
		Admin:         admin.NewService(db, auditStore),
		WSHub:         wsHub,
		AuditLog:      auditLogger,
	})

	enforcer, err := authz.NewEnforcer(nil)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization enforcer")
	}
	authMW := auth.NewMiddleware(jwtMgr, denylist, cfg.Security.LoginRateLimit, cfg.Security.LoginRateWindow)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler, authMW, enforcer),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(supervisor.NewDenylistGCService(denylist, 0))
	tree.AddMessagingService(wsHub)
	tree.AddMessagingService(dispatcher)
	tree.AddAPIService(supervisor.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Renterra stopped gracefully")
}
