package analyze

import (
	"time"

	"github.com/google/uuid"
)

// Report is the structured result of one analysis run, ready to be handed to
// a formatter. Computed fresh per call; never persisted.
type Report struct {
	ID              string           `json:"id"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Snapshot        Snapshot         `json:"snapshot"`
	Score           Score            `json:"score"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Run validates snap, scores it, and evaluates the recommendation rules.
//
// now is passed explicitly so callers (and tests) control the timestamp.
// A validation failure aborts the whole analysis — there is no partial
// report.
func Run(snap Snapshot, now time.Time) (*Report, error) {
	score, err := ScoreSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return &Report{
		ID:              uuid.NewString(),
		GeneratedAt:     now,
		Snapshot:        snap,
		Score:           score,
		Recommendations: Recommend(snap, score),
	}, nil
}
