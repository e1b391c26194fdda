package analyze

import "math"

// Constants of the engagement score formula.
const (
	// baseScore is the starting point before penalties and bonuses.
	baseScore = 100.0

	// bouncePenaltyWeight scales the squared bounce rate. Squaring keeps
	// the penalty gentle at healthy bounce levels and steep past ~0.7.
	bouncePenaltyWeight = 100.0

	// durationBonusWeight is the maximum bonus for long sessions.
	durationBonusWeight = 15.0

	// referenceDuration is the session length (seconds) at which the
	// duration bonus saturates.
	referenceDuration = 300.0
)

// Tier labels, ordered worst to best.
const (
	TierPoor      = "poor"
	TierFair      = "fair"
	TierGood      = "good"
	TierExcellent = "excellent"
)

// Thresholds that map a score to a tier.
const (
	ThresholdExcellent = 80
	ThresholdGood      = 60
	ThresholdFair      = 40
)

// Score is the derived engagement summary for one snapshot.
type Score struct {
	// Value is the engagement score in [0, 100].
	Value int

	// Tier is the qualitative bucket derived from Value.
	// One of: "poor", "fair", "good", "excellent".
	Tier string

	// BouncePenalty and DurationBonus are the two contributions applied to
	// the base score, kept for per-dimension breakdowns in reports.
	BouncePenalty float64
	DurationBonus float64
}

// ScoreSnapshot calculates the engagement score for snap.
//
// Formula:
//
//	score = clamp(100 − 100·bounce² + 15·min(duration/300s, 1), 0, 100)
//
// The score is non-increasing in bounce rate for a fixed duration and
// non-decreasing in duration for a fixed bounce rate.
//
// Returns an InvalidMetricsError if snap fails validation; there are no
// other error conditions.
func ScoreSnapshot(snap Snapshot) (Score, error) {
	if err := snap.Validate(); err != nil {
		return Score{}, err
	}

	penalty := bouncePenaltyWeight * snap.BounceRate * snap.BounceRate
	bonus := durationBonusWeight * clamp01(snap.AvgSessionDuration/referenceDuration)

	raw := baseScore - penalty + bonus
	if raw < 0 {
		raw = 0
	}
	if raw > 100 {
		raw = 100
	}

	value := int(math.Round(raw))
	return Score{
		Value:         value,
		Tier:          tierFromValue(value),
		BouncePenalty: penalty,
		DurationBonus: bonus,
	}, nil
}

// tierFromValue maps a numeric score to a named tier.
func tierFromValue(value int) string {
	switch {
	case value >= ThresholdExcellent:
		return TierExcellent
	case value >= ThresholdGood:
		return TierGood
	case value >= ThresholdFair:
		return TierFair
	default:
		return TierPoor
	}
}

// clamp01 restricts v to the range [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
