// Package analyze derives an engagement score and prioritized
// recommendations from one analytics snapshot.
//
// score.go provides the pure ScoreSnapshot function: a 0–100 engagement
// score with a quadratic bounce-rate penalty and a saturating session
// duration bonus, mapped to a tier (poor/fair/good/excellent) by fixed
// thresholds.
//
// recommend.go provides the pure Recommend function: a fixed, ordered list
// of independent threshold rules, each producing at most one prioritized
// recommendation; output is sorted high → medium → info with firing order
// preserved within a priority and is never empty.
//
// Both functions are stateless and safe to call concurrently. Invalid input
// (e.g. a bounce rate outside [0,1]) is rejected with InvalidMetricsError
// before any scoring happens.
package analyze
