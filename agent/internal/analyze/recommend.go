package analyze

import (
	"fmt"
	"sort"
)

// Recommendation priorities, ordered most to least urgent.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityInfo   = "info"
)

// Rule thresholds.
const (
	bounceCritical   = 0.70 // above this, most visitors leave after one page
	bounceElevated   = 0.50
	durationCritical = 60.0  // seconds
	durationShort    = 180.0 // seconds
	lowTraffic       = 500   // sessions
	topSourceShare   = 70.0  // percent of users arriving via one channel
)

// Recommendation is one prioritized, human-readable suggestion tied to the
// metric that triggered it.
type Recommendation struct {
	Priority  string `json:"priority"`
	Message   string `json:"message"`
	Rationale string `json:"rationale"`
}

// rule is one independent check: it either fires with a Recommendation or
// does not. Rules never inspect each other's results.
type rule struct {
	name string
	eval func(snap Snapshot, score Score) (Recommendation, bool)
}

// rules is the fixed evaluation order. Within a priority, output preserves
// this order.
var rules = []rule{
	{"bounce-rate-critical", bounceRateCritical},
	{"bounce-rate-elevated", bounceRateElevated},
	{"session-duration-critical", sessionDurationCritical},
	{"session-duration-short", sessionDurationShort},
	{"traffic-volume-low", trafficVolumeLow},
	{"acquisition-concentrated", acquisitionConcentrated},
	{"score-excellent", scoreExcellent},
}

// Recommend evaluates the rule list against snap and score and returns the
// fired recommendations sorted by priority (high, medium, info), stable
// within each priority. The result is never empty: if nothing fires, a
// single info-level "keep monitoring" entry is returned.
//
// Recommend is a pure function of its inputs.
func Recommend(snap Snapshot, score Score) []Recommendation {
	var out []Recommendation
	for _, r := range rules {
		if rec, ok := r.eval(snap, score); ok {
			out = append(out, rec)
		}
	}

	if len(out) == 0 {
		out = append(out, Recommendation{
			Priority:  PriorityInfo,
			Message:   "Metrics look good, keep monitoring.",
			Rationale: "engagement_score",
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank(out[i].Priority) < priorityRank(out[j].Priority)
	})
	return out
}

// priorityRank orders priorities for sorting; unknown values sink to the end.
func priorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityInfo:
		return 2
	default:
		return 3
	}
}

// --- rules ------------------------------------------------------------------

func bounceRateCritical(snap Snapshot, _ Score) (Recommendation, bool) {
	if snap.BounceRate <= bounceCritical {
		return Recommendation{}, false
	}
	return Recommendation{
		Priority: PriorityHigh,
		Message: fmt.Sprintf(
			"Bounce rate is %.0f%% — most visitors leave after a single page. "+
				"Review landing page relevance, load speed, and mobile rendering.",
			snap.BounceRate*100),
		Rationale: "bounce_rate",
	}, true
}

func bounceRateElevated(snap Snapshot, _ Score) (Recommendation, bool) {
	if snap.BounceRate <= bounceElevated || snap.BounceRate > bounceCritical {
		return Recommendation{}, false
	}
	return Recommendation{
		Priority: PriorityMedium,
		Message: fmt.Sprintf(
			"Bounce rate of %.0f%% has room for improvement. "+
				"A/B test landing pages and strengthen calls to action.",
			snap.BounceRate*100),
		Rationale: "bounce_rate",
	}, true
}

func sessionDurationCritical(snap Snapshot, _ Score) (Recommendation, bool) {
	if snap.AvgSessionDuration >= durationCritical {
		return Recommendation{}, false
	}
	return Recommendation{
		Priority: PriorityHigh,
		Message: fmt.Sprintf(
			"Sessions last only %.0f seconds on average — visitors leave almost "+
				"immediately. Lead with the content they came for.",
			snap.AvgSessionDuration),
		Rationale: "avg_session_duration",
	}, true
}

func sessionDurationShort(snap Snapshot, _ Score) (Recommendation, bool) {
	if snap.AvgSessionDuration < durationCritical || snap.AvgSessionDuration >= durationShort {
		return Recommendation{}, false
	}
	return Recommendation{
		Priority: PriorityMedium,
		Message: "Average session duration is under three minutes. Add related-content " +
			"links and richer media to encourage deeper visits.",
		Rationale: "avg_session_duration",
	}, true
}

func trafficVolumeLow(snap Snapshot, _ Score) (Recommendation, bool) {
	if snap.TotalSessions >= lowTraffic {
		return Recommendation{}, false
	}
	return Recommendation{
		Priority: PriorityMedium,
		Message: fmt.Sprintf(
			"Only %d sessions in the reporting window. Invest in SEO and "+
				"channel marketing to grow traffic.",
			snap.TotalSessions),
		Rationale: "total_sessions",
	}, true
}

// acquisitionConcentrated inspects the optional sources breakdown; it is
// silent when the snapshot carries none.
func acquisitionConcentrated(snap Snapshot, _ Score) (Recommendation, bool) {
	var total, top int
	var name string
	for _, src := range snap.Sources {
		total += src.Users
		if src.Users > top {
			top = src.Users
			name = src.Source
		}
	}
	if total == 0 {
		return Recommendation{}, false
	}

	share := float64(top) / float64(total) * 100
	if share <= topSourceShare {
		return Recommendation{}, false
	}
	return Recommendation{
		Priority: PriorityMedium,
		Message: fmt.Sprintf(
			"%s drives %.0f%% of traffic — one acquisition channel carries the site. "+
				"Diversify into other channels to reduce the exposure.",
			name, share),
		Rationale: "traffic_sources",
	}, true
}

func scoreExcellent(_ Snapshot, score Score) (Recommendation, bool) {
	if score.Tier != TierExcellent {
		return Recommendation{}, false
	}
	return Recommendation{
		Priority:  PriorityInfo,
		Message:   "Metrics look good — engagement is excellent. Keep monitoring and maintain the current strategy.",
		Rationale: "engagement_score",
	}, true
}
