package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatch_AppliesValidChange(t *testing.T) {
	path := writeConfig(t, "agent:\n  source_endpoint: http://old:8080\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applied := make(chan *Config, 1)
	go Watch(ctx, path, func(cfg *Config) { applied <- cfg }) //nolint:errcheck

	// Give the watcher a moment to register before the first write.
	time.Sleep(50 * time.Millisecond)

	body := "agent:\n  source_endpoint: http://new:9090\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-applied:
		if cfg.Agent.SourceEndpoint != "http://new:9090" {
			t.Errorf("SourceEndpoint = %q, want http://new:9090", cfg.Agent.SourceEndpoint)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("changed config was never applied")
	}
}

func TestWatch_RejectsInvalidChange(t *testing.T) {
	path := writeConfig(t, "agent:\n  source_endpoint: http://old:8080\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applied := make(chan *Config, 1)
	go Watch(ctx, path, func(cfg *Config) { applied <- cfg }) //nolint:errcheck

	time.Sleep(50 * time.Millisecond)

	// Drop the required endpoint — the change must not be applied.
	if err := os.WriteFile(path, []byte("agent: {}\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-applied:
		t.Fatalf("invalid config was applied: %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}

	// The watcher must still be alive for the next valid change.
	body := "agent:\n  source_endpoint: http://recovered:8080\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	select {
	case cfg := <-applied:
		if cfg.Agent.SourceEndpoint != "http://recovered:8080" {
			t.Errorf("SourceEndpoint = %q, want http://recovered:8080", cfg.Agent.SourceEndpoint)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher stopped applying changes after a rejected file")
	}
}
