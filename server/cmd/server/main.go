package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/webpulse/webpulse/server/internal/api"
	"github.com/webpulse/webpulse/server/internal/auth"
	"github.com/webpulse/webpulse/server/internal/config"
	"github.com/webpulse/webpulse/server/internal/dataset"
	"github.com/webpulse/webpulse/server/internal/telemetry"
	"github.com/webpulse/webpulse/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("webpulse-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"dataset_path", cfg.Server.DatasetPath,
		"stream_interval", cfg.Server.StreamInterval,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metrics := telemetry.New()

	// Dataset: built-in default, or a YAML file with hot reload.
	data := dataset.New(dataset.Default())
	if cfg.Server.DatasetPath != "" {
		ds, err := dataset.Load(cfg.Server.DatasetPath)
		if err != nil {
			slog.Error("failed to load dataset", "err", err)
			os.Exit(1)
		}
		data.Replace(ds)
		go func() {
			err := dataset.Watch(ctx, cfg.Server.DatasetPath, data, func() {
				metrics.DatasetReloads.Inc()
			})
			if err != nil {
				slog.Error("dataset watcher stopped", "err", err)
			}
		}()
	}

	// WebSocket hub — broadcasts the traffic payload to clients on a ticker.
	hub := ws.New(data, metrics, cfg.Server.StreamInterval)
	go hub.Run(ctx)

	withAuth := auth.APIKeyMiddleware(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)

	mux := http.NewServeMux()
	mux.Handle("/api/", withAuth(api.New(data, metrics)))
	mux.Handle("/ws/stream", hub)
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: mux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("webpulse-server shutting down")
	srv.Shutdown(context.Background()) //nolint:errcheck
}
