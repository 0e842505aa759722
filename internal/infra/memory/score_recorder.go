package memory

import (
	"context"
	"sync"

	"waffles-trivia-service/internal/domain"
)

// ScoreRecorder keeps recorded scores in process. Used in demo mode and tests.
type ScoreRecorder struct {
	mu      sync.RWMutex
	records []domain.ScoreRecord
}

func NewScoreRecorder() *ScoreRecorder {
	return &ScoreRecorder{}
}

func (r *ScoreRecorder) Record(_ context.Context, record domain.ScoreRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

// Records returns a copy of everything recorded for quizID, in arrival order.
func (r *ScoreRecorder) Records(quizID string) []domain.ScoreRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ScoreRecord, 0, len(r.records))
	for _, rec := range r.records {
		if rec.QuizID == quizID {
			out = append(out, rec)
		}
	}
	return out
}

// Total sums the recorded score of userID in quizID.
func (r *ScoreRecorder) Total(quizID, userID string) int {
	total := 0
	for _, rec := range r.Records(quizID) {
		if rec.UserID == userID {
			total += rec.Score
		}
	}
	return total
}
