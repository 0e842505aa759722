package memory

import (
	"context"
	"testing"

	"waffles-trivia-service/internal/domain"
)

func TestScoreRecorderTotals(t *testing.T) {
	rec := NewScoreRecorder()
	ctx := context.Background()

	_ = rec.Record(ctx, domain.ScoreRecord{QuizID: "quiz-1", UserID: "u1", QuestionID: "q1", Score: 2110})
	_ = rec.Record(ctx, domain.ScoreRecord{QuizID: "quiz-1", UserID: "u1", QuestionID: "q2", Score: 0})
	_ = rec.Record(ctx, domain.ScoreRecord{QuizID: "quiz-1", UserID: "u2", QuestionID: "q1", Score: 500})
	_ = rec.Record(ctx, domain.ScoreRecord{QuizID: "quiz-2", UserID: "u1", QuestionID: "q1", Score: 999})

	if got := len(rec.Records("quiz-1")); got != 3 {
		t.Fatalf("expected 3 records for quiz-1, got %d", got)
	}
	if got := rec.Total("quiz-1", "u1"); got != 2110 {
		t.Fatalf("expected total 2110, got %d", got)
	}
	if got := rec.Total("quiz-2", "u2"); got != 0 {
		t.Fatalf("expected no score, got %d", got)
	}
}
