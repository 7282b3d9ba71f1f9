// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/AleutianAI/custdesk/cmd/custdesk/config"
	"github.com/AleutianAI/custdesk/pkg/logging"
	"github.com/AleutianAI/custdesk/pkg/ux"
	"github.com/AleutianAI/custdesk/services/customers/api"
	"github.com/AleutianAI/custdesk/services/customers/observability"
	"github.com/AleutianAI/custdesk/services/customers/routes"
	"github.com/AleutianAI/custdesk/services/customers/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server and the
// trace exporter.
const shutdownTimeout = 5 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Global
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	logger := logging.New(cfg.LoggerConfig("custdesk"))
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := newServer(ctx, cfg, logger, observability.InitMetrics(), prometheus.DefaultGatherer)
	if err != nil {
		return err
	}
	defer cleanup()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	ux.Box("custdesk server", strings.Join([]string{
		ux.Field("Listening", "http://"+ln.Addr().String()),
		ux.Field("Health", "/health"),
		ux.Field("Metrics", "/metrics"),
		ux.Field("Tracing", tracingLabel(cfg.Tracing)),
	}, "\n"))

	return serveUntilDone(ctx, srv, ln, logger)
}

// newServer wires the store, service, metrics, tracing and routes into an
// http.Server for cfg.Server.Addr.
//
// # Outputs
//
//   - *http.Server: Not yet listening.
//   - cleanup: Flushes traces and closes the store. Always safe to call
//     once when err is nil.
//   - error: Store, seed or tracing setup failure.
func newServer(ctx context.Context, cfg config.CustdeskConfig, logger *logging.Logger, metrics *observability.CustomerMetrics, gatherer prometheus.Gatherer) (*http.Server, func(), error) {
	repo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closeRepo := func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close customer store", "error", err)
		}
	}

	shutdownTracing := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		shutdownTracing, err = telemetry.Init(ctx, cfg.TelemetryConfig())
		if err != nil {
			closeRepo()
			return nil, nil, fmt.Errorf("init tracing: %w", err)
		}
	}

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	svc := api.NewLocal(repo, logger, api.WithRecorder(metrics))
	routes.SetupRoutes(router, svc, routes.Options{
		PageSize:       cfg.List.PageSize,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Tracing:        cfg.Tracing.Enabled,
		Logger:         logger,
		Metrics:        metrics,
		Gatherer:       gatherer,
	})

	if n, err := repo.Count(ctx); err == nil {
		metrics.SetCustomersStored(n)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	cleanup := func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("shutdown tracing", "error", err)
		}
		closeRepo()
	}
	return srv, cleanup, nil
}

// serveUntilDone serves on ln until ctx is cancelled, then shuts the
// server down gracefully. A clean shutdown returns nil.
func serveUntilDone(ctx context.Context, srv *http.Server, ln net.Listener, logger *logging.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("customer service listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down customer service")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func tracingLabel(t config.TracingConfig) string {
	if !t.Enabled {
		return "off"
	}
	if t.Exporter == telemetry.ExporterOTLP {
		return "otlp " + t.OTLPEndpoint
	}
	return t.Exporter
}
