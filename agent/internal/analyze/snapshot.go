package analyze

import (
	"fmt"

	"github.com/webpulse/webpulse/pkg/types"
)

// Snapshot is one immutable set of analytics metrics for a fixed reporting
// window. It is assembled by the caller from the Metrics Source payloads and
// validated before any scoring happens.
type Snapshot struct {
	// TotalSessions is a non-negative session count.
	TotalSessions int

	// BounceRate is a fraction in [0, 1]. Callers normalize percentage
	// inputs before building a Snapshot.
	BounceRate float64

	// AvgSessionDuration is the mean session length in seconds.
	AvgSessionDuration float64

	// TopPages is the optional per-page breakdown, views descending.
	// Nil when the source did not provide one.
	TopPages []types.Page

	// Sources is the optional acquisition breakdown, users descending.
	// Nil when the source did not provide one.
	Sources []types.TrafficSource
}

// FromPayloads assembles a Snapshot from the Metrics Source payloads.
// pages and sources are optional breakdowns; nil leaves the corresponding
// field absent.
func FromPayloads(traffic types.Traffic, pages *types.PagesReport, sources *types.SourcesReport) Snapshot {
	snap := Snapshot{
		TotalSessions:      traffic.TotalSessions,
		BounceRate:         traffic.BounceRate,
		AvgSessionDuration: traffic.AvgSessionDuration,
	}
	if pages != nil {
		snap.TopPages = pages.Pages
	}
	if sources != nil {
		snap.Sources = sources.Sources
	}
	return snap
}

// InvalidMetricsError reports a snapshot field outside its declared domain.
// Out-of-range input is rejected, never silently clamped.
type InvalidMetricsError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidMetricsError) Error() string {
	return fmt.Sprintf("invalid metrics: %s = %g (%s)", e.Field, e.Value, e.Reason)
}

// Validate checks every field of the snapshot against its declared domain.
// Both 0.0 and 1.0 are valid bounce rates.
func (s Snapshot) Validate() error {
	if s.BounceRate < 0 || s.BounceRate > 1 {
		return &InvalidMetricsError{
			Field:  "bounce_rate",
			Value:  s.BounceRate,
			Reason: "must be a fraction in [0, 1]",
		}
	}
	if s.TotalSessions < 0 {
		return &InvalidMetricsError{
			Field:  "total_sessions",
			Value:  float64(s.TotalSessions),
			Reason: "must be non-negative",
		}
	}
	if s.AvgSessionDuration < 0 {
		return &InvalidMetricsError{
			Field:  "avg_session_duration",
			Value:  s.AvgSessionDuration,
			Reason: "must be non-negative",
		}
	}
	return nil
}
