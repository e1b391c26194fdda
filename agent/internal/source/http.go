package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/webpulse/webpulse/agent/internal/config"
	"github.com/webpulse/webpulse/pkg/types"
)

const (
	// retryDelay is the pause before the single retry attempt.
	retryDelay = 500 * time.Millisecond

	// maxBodyBytes bounds response reads; the payloads are small.
	maxBodyBytes = 1 << 20
)

// endpoints maps each request kind to its API path.
var endpoints = map[Kind]string{
	KindTraffic:        "/api/v1/traffic",
	KindTopPages:       "/api/v1/pages",
	KindTrafficSources: "/api/v1/sources",
}

// httpProvider fetches metrics payloads from the analytics API over HTTP.
// Each fetch is bounded by the configured timeout, retried once, and guarded
// by a circuit breaker so a dead source fails fast in interval mode.
type httpProvider struct {
	base    string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func newHTTPProvider(cfg config.AgentConfig) *httpProvider {
	return &httpProvider{
		base: strings.TrimRight(cfg.SourceEndpoint, "/"),
		client: &http.Client{
			Transport: &authRoundTripper{base: http.DefaultTransport, auth: cfg.Auth},
			Timeout:   cfg.Timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "metrics-source",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("source: breaker state changed",
					"breaker", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

// authRoundTripper injects authentication headers into every outgoing request.
type authRoundTripper struct {
	base http.RoundTripper
	auth config.AuthConfig
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	switch t.auth.Mode {
	case "apikey":
		req = req.Clone(req.Context())
		header := t.auth.Header
		if header == "" {
			header = "X-API-Key"
		}
		req.Header.Set(header, t.auth.Key())
	case "bearer":
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.auth.Token())
	case "basic":
		req = req.Clone(req.Context())
		req.SetBasicAuth(t.auth.Username, t.auth.Password())
	}
	return t.base.RoundTrip(req)
}

func (p *httpProvider) Traffic(ctx context.Context) (*types.Traffic, error) {
	var out types.Traffic
	if err := p.fetch(ctx, KindTraffic, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *httpProvider) TopPages(ctx context.Context) (*types.PagesReport, error) {
	var out types.PagesReport
	if err := p.fetch(ctx, KindTopPages, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *httpProvider) TrafficSources(ctx context.Context) (*types.SourcesReport, error) {
	var out types.SourcesReport
	if err := p.fetch(ctx, KindTrafficSources, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// fetch GETs the endpoint for kind and decodes the JSON body into v.
// One retry after a short delay; any terminal failure is reported as an
// UnavailableError so callers can decide on fallback.
func (p *httpProvider) fetch(ctx context.Context, kind Kind, v interface{}) error {
	url := p.base + endpoints[kind]

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			slog.Warn("source: retrying fetch", "kind", kind, "err", lastErr)
			select {
			case <-ctx.Done():
				return &UnavailableError{Kind: kind, Err: ctx.Err()}
			case <-time.After(retryDelay):
			}
		}

		body, err := p.get(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		if err := json.Unmarshal(body, v); err != nil {
			// Malformed payload is not worth retrying — the source is up
			// but speaking the wrong shape.
			return &UnavailableError{Kind: kind, Err: fmt.Errorf("decode json: %w", err)}
		}
		return nil
	}
	return &UnavailableError{Kind: kind, Err: lastErr}
}

// get performs one breaker-guarded HTTP GET and returns the response body.
func (p *httpProvider) get(ctx context.Context, url string) ([]byte, error) {
	body, err := p.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("http get: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	})
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}
