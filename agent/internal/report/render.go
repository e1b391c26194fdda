package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/webpulse/webpulse/agent/internal/analyze"
	"github.com/webpulse/webpulse/agent/internal/probe"
)

// RenderJSON encodes the report (and the probe result, when present) as
// indented JSON for machine consumption.
func RenderJSON(rep *analyze.Report, pr *probe.Result) (string, error) {
	payload := struct {
		*analyze.Report
		Server *probe.Result `json:"server,omitempty"`
	}{Report: rep, Server: pr}

	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	return string(b) + "\n", nil
}

// RenderText formats the report as a plain-text summary for the terminal.
// pr is optional; when non-nil a server-health footer is appended.
func RenderText(rep *analyze.Report, pr *probe.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Website Engagement Report\n")
	fmt.Fprintf(&b, "Generated: %s  (id %s)\n\n", rep.GeneratedAt.Format("2006-01-02 15:04:05 MST"), rep.ID)

	fmt.Fprintf(&b, "Engagement score: %d/100 (%s)\n\n", rep.Score.Value, rep.Score.Tier)

	snap := rep.Snapshot
	fmt.Fprintf(&b, "Traffic\n")
	fmt.Fprintf(&b, "  Sessions:         %d\n", snap.TotalSessions)
	fmt.Fprintf(&b, "  Bounce rate:      %s\n", formatPercent(snap.BounceRate))
	fmt.Fprintf(&b, "  Avg session:      %s\n", formatDuration(snap.AvgSessionDuration))

	if len(snap.TopPages) > 0 {
		fmt.Fprintf(&b, "\nTop pages\n")
		tw := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "  PATH\tVIEWS\tAVG TIME\tBOUNCE\n")
		for _, p := range snap.TopPages {
			fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\n",
				p.Path, p.Views, formatDuration(p.AvgTimeSec), formatPercent(p.BounceRate))
		}
		tw.Flush()
	}

	if len(snap.Sources) > 0 {
		fmt.Fprintf(&b, "\nTraffic sources\n")
		tw := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "  SOURCE\tUSERS\tSHARE\n")
		for _, s := range snap.Sources {
			fmt.Fprintf(tw, "  %s\t%d\t%.1f%%\n", s.Source, s.Users, s.Percentage)
		}
		tw.Flush()
	}

	fmt.Fprintf(&b, "\nRecommendations\n")
	for _, rec := range rep.Recommendations {
		fmt.Fprintf(&b, "  [%s] %s\n", strings.ToUpper(rec.Priority), rec.Message)
	}

	if pr != nil {
		fmt.Fprintf(&b, "\nServer health (from /metrics)\n")
		fmt.Fprintf(&b, "  Requests served:  %.0f\n", pr.RequestsTotal)
		fmt.Fprintf(&b, "  Request errors:   %.0f\n", pr.ErrorsTotal)
		fmt.Fprintf(&b, "  Stream clients:   %.0f\n", pr.StreamClients)
		fmt.Fprintf(&b, "  Dataset reloads:  %.0f\n", pr.DatasetReloads)
	}

	return b.String()
}

// formatPercent renders a [0,1] fraction as a percentage with one decimal
// when it carries one.
func formatPercent(f float64) string {
	pct := f * 100
	if pct == float64(int(pct)) {
		return fmt.Sprintf("%.0f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// formatDuration renders seconds as "4m 23s", or "42s" under a minute.
func formatDuration(seconds float64) string {
	total := int(seconds + 0.5)
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}
