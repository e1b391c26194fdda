package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/webpulse/webpulse/agent/internal/analyze"
	"github.com/webpulse/webpulse/agent/internal/config"
	"github.com/webpulse/webpulse/agent/internal/probe"
	"github.com/webpulse/webpulse/agent/internal/report"
	"github.com/webpulse/webpulse/agent/internal/source"
	"github.com/webpulse/webpulse/pkg/types"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("webpulse-agent starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"source_endpoint", cfg.Agent.SourceEndpoint,
		"interval", cfg.Agent.Interval,
		"fallback_to_mock", cfg.Agent.FallbackToMock,
		"report_format", cfg.Agent.ReportFormat,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Watch config file for hot-reload (logs only; the running analysis
	// keeps its original settings until restart).
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			slog.Info("config hot-reloaded", "source_endpoint", updated.Agent.SourceEndpoint)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	provider := source.New(cfg.Agent)

	var prober *probe.Prober
	if cfg.Agent.Probe.Enabled {
		if cfg.Agent.Probe.Endpoint != "" {
			prober = probe.NewURL(cfg.Agent.Probe.Endpoint)
		} else {
			prober = probe.New(cfg.Agent.SourceEndpoint)
		}
	}

	run := func() error {
		return runOnce(ctx, cfg.Agent, provider, prober)
	}

	// One-shot mode: analyze once and exit with the run's status.
	if cfg.Agent.Interval <= 0 {
		if err := run(); err != nil {
			slog.Error("analysis failed", "err", err)
			os.Exit(1)
		}
		return
	}

	// Interval mode: re-run on a ticker until interrupted. A failed cycle is
	// logged and the next tick tries again.
	if err := run(); err != nil {
		slog.Warn("analysis cycle failed", "err", err)
	}
	ticker := time.NewTicker(cfg.Agent.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("webpulse-agent shutting down")
			return
		case <-ticker.C:
			if err := run(); err != nil {
				slog.Warn("analysis cycle failed", "err", err)
			}
		}
	}
}

// runOnce executes one full analysis cycle: fetch, validate, score,
// recommend, render.
func runOnce(ctx context.Context, cfg config.AgentConfig, provider source.Provider, prober *probe.Prober) error {
	snap, err := fetchSnapshot(ctx, cfg, provider)
	if err != nil {
		return err
	}
	if err := snap.Validate(); err != nil {
		return err
	}

	rep, err := analyze.Run(snap, time.Now().UTC())
	if err != nil {
		return err
	}
	slog.Info("analysis complete",
		"report_id", rep.ID,
		"score", rep.Score.Value,
		"tier", rep.Score.Tier,
		"recommendations", len(rep.Recommendations),
	)

	var pr *probe.Result
	if prober != nil {
		pr, err = prober.Probe(ctx)
		if err != nil {
			// Best-effort: the report renders without the footer.
			slog.Warn("server probe failed", "err", err)
			pr = nil
		}
	}

	out, err := render(cfg.ReportFormat, rep, pr)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// fetchSnapshot pulls the traffic payload plus any configured sections,
// falling back to the mock dataset when allowed and the source is down.
func fetchSnapshot(ctx context.Context, cfg config.AgentConfig, provider source.Provider) (analyze.Snapshot, error) {
	snap, err := collect(ctx, cfg, provider)
	if err == nil {
		return snap, nil
	}
	if !cfg.FallbackToMock || !errors.Is(err, source.ErrSourceUnavailable) {
		return analyze.Snapshot{}, err
	}

	slog.Warn("metrics source unavailable — falling back to mock dataset", "err", err)
	return collect(ctx, cfg, source.NewMock())
}

func collect(ctx context.Context, cfg config.AgentConfig, provider source.Provider) (analyze.Snapshot, error) {
	traffic, err := provider.Traffic(ctx)
	if err != nil {
		return analyze.Snapshot{}, err
	}

	var (
		pages   *types.PagesReport
		sources *types.SourcesReport
	)
	for _, sec := range cfg.Sections {
		switch sec {
		case "pages":
			p, err := provider.TopPages(ctx)
			if err != nil {
				return analyze.Snapshot{}, err
			}
			pages = p
		case "sources":
			s, err := provider.TrafficSources(ctx)
			if err != nil {
				return analyze.Snapshot{}, err
			}
			sources = s
		}
	}
	return analyze.FromPayloads(*traffic, pages, sources), nil
}

func render(format string, rep *analyze.Report, pr *probe.Result) (string, error) {
	if format == "json" {
		return report.RenderJSON(rep, pr)
	}
	return report.RenderText(rep, pr), nil
}
