package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"waffles-trivia-service/internal/domain"
)

type answerScore struct {
	bun.BaseModel `bun:"table:answer_scores,alias:s"`

	ID          string    `bun:"id,pk,type:uuid"`
	QuizID      string    `bun:"quiz_id,notnull"`
	UserID      string    `bun:"user_id,notnull"`
	QuestionID  string    `bun:"question_id,notnull"`
	Correct     bool      `bun:"correct,notnull"`
	Score       int       `bun:"score,notnull"`
	Difficulty  string    `bun:"difficulty,notnull"`
	TimeTakenMs float64   `bun:"time_taken_ms,notnull"`
	Streak      int       `bun:"streak,notnull"`
	RecordedAt  time.Time `bun:"recorded_at,notnull"`
}

// ScoreRecorder persists final answer scores to answer_scores.
type ScoreRecorder struct {
	db *bun.DB
}

func NewScoreRecorder(db *bun.DB) *ScoreRecorder {
	return &ScoreRecorder{db: db}
}

// Record inserts one score. A repeated (quiz, user, question) is ignored so
// retries from the transport cannot double count.
func (r *ScoreRecorder) Record(ctx context.Context, rec domain.ScoreRecord) error {
	row := toAnswerScore(rec)
	_, err := r.db.NewInsert().
		Model(&row).
		On("CONFLICT (quiz_id, user_id, question_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}

// Total sums the recorded scores of a user in a quiz.
func (r *ScoreRecorder) Total(ctx context.Context, quizID, userID string) (int, error) {
	var total int
	err := r.db.NewSelect().
		Model((*answerScore)(nil)).
		ColumnExpr("COALESCE(SUM(s.score), 0)").
		Where("s.quiz_id = ?", quizID).
		Where("s.user_id = ?", userID).
		Scan(ctx, &total)
	if err != nil {
		return 0, fmt.Errorf("sum scores: %w", err)
	}
	return total, nil
}

func toAnswerScore(rec domain.ScoreRecord) answerScore {
	recordedAt := rec.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	return answerScore{
		ID:          rec.ID,
		QuizID:      rec.QuizID,
		UserID:      rec.UserID,
		QuestionID:  rec.QuestionID,
		Correct:     rec.Correct,
		Score:       rec.Score,
		Difficulty:  rec.Difficulty.OrDefault().String(),
		TimeTakenMs: rec.TimeTakenMs,
		Streak:      rec.Streak,
		RecordedAt:  recordedAt.UTC(),
	}
}
