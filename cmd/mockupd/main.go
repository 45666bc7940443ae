// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the mockup studio server. It loads
// configuration, connects to Valkey, sets up routing, and starts the HTTP
// server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mockupstudio/internal/ai"
	"mockupstudio/internal/cache"
	"mockupstudio/internal/compose"
	"mockupstudio/internal/config"
	"mockupstudio/internal/credentials"
	"mockupstudio/internal/handlers"
	"mockupstudio/internal/middleware"
	"mockupstudio/internal/router"
	"mockupstudio/internal/session"
	"mockupstudio/internal/studio"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text at debug level in development, JSON otherwise.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"model", cfg.GeminiModel,
		"default_key", cfg.GeminiAPIKey != "",
	)

	// Connect to Valkey, which holds manually entered API keys.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	issuer := session.NewIssuer(secureCookies)

	// Manual keys live as long as the client id cookie.
	keys := credentials.NewResolver(cache.NewAPIKeyStore(valkeyClient, issuer.TTL()), cfg.GeminiAPIKey)

	studios := studio.NewManager(studio.Config{
		HistoryLimit:    cfg.HistoryLimit,
		WheelSessionGap: cfg.WheelSessionGap,
		DefaultModel:    cfg.GeminiModel,
		MaxAssets:       cfg.MaxAssets,
		MaxGallery:      cfg.MaxGallery,
		MaxWorkspaces:   cfg.MaxWorkspaces,
	}, cfg.WorkspaceTTL)
	defer studios.Stop()

	models := handlers.GeminiFactory(ai.ProviderConfig{
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.GeminiTimeout,
	})
	api := handlers.NewAPI(studios, keys, models)

	var limiter *middleware.RateLimiter
	if cfg.GenerateRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.GenerateRateLimit, time.Minute)
		defer limiter.Stop()
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(api, issuer, router.Options{
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		Secure:          secureCookies,
		GenerateLimiter: limiter,
	})

	// WriteTimeout must cover a full mockup run: every sub-request may
	// take up to the generation timeout.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: time.Duration(compose.MaxCount)*cfg.GeminiTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
