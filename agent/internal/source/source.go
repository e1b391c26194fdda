package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/webpulse/webpulse/agent/internal/config"
	"github.com/webpulse/webpulse/pkg/types"
)

// Kind enumerates the closed set of supported request types. Each kind maps
// to exactly one Provider operation — there is no free-text dispatch.
type Kind string

const (
	KindTraffic        Kind = "traffic"
	KindTopPages       Kind = "pages"
	KindTrafficSources Kind = "sources"
)

// ParseKind maps a config string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindTraffic, KindTopPages, KindTrafficSources:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("source: unknown request kind %q", s)
	}
}

// ErrSourceUnavailable is the sentinel for any failure to obtain data from
// the Metrics Source: connectivity, non-200 responses, or malformed JSON.
// Use errors.Is to test for it.
var ErrSourceUnavailable = errors.New("metrics source unavailable")

// UnavailableError wraps the underlying cause of a failed fetch.
type UnavailableError struct {
	Kind Kind
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("fetch %s: source unavailable: %v", e.Kind, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is reports ErrSourceUnavailable identity so callers can match the
// sentinel without knowing the concrete type.
func (e *UnavailableError) Is(target error) bool { return target == ErrSourceUnavailable }

// Provider is the Metrics Source contract. Implementations must be safe for
// concurrent use; every method corresponds to one request Kind.
type Provider interface {
	// Traffic returns the site-wide metrics for the reporting window.
	Traffic(ctx context.Context) (*types.Traffic, error)

	// TopPages returns the per-page breakdown, views descending.
	TopPages(ctx context.Context) (*types.PagesReport, error)

	// TrafficSources returns the acquisition breakdown, users descending.
	TrafficSources(ctx context.Context) (*types.SourcesReport, error)
}

// New returns the HTTP-backed Provider for the configured Metrics Source.
func New(cfg config.AgentConfig) Provider {
	return newHTTPProvider(cfg)
}
