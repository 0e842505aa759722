package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"waffles-trivia-service/internal/domain"
	"waffles-trivia-service/internal/infra/memory"
	"waffles-trivia-service/internal/scoring"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{
			"quiz-1": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(client, loader, time.Minute)

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader called once, got %d", loader.count())
	}
	if !mr.Exists("quiz:quiz-1:questions") {
		t.Fatalf("expected questions hash in redis")
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get cached quiz: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.count())
	}

	if len(cached.Questions) != 2 || cached.Questions[0].ID != "q1" || cached.Questions[1].ID != "q2" {
		t.Fatalf("expected questions in original order, got %+v", cached.Questions)
	}
	q1 := cached.Questions[0]
	if q1.Difficulty != scoring.DifficultyHard || q1.TimeLimitSec != 15 {
		t.Fatalf("expected scoring fields cached, got %+v", q1)
	}
	if len(q1.Options) != 2 || q1.Options[0].Correct || !q1.Options[1].Correct {
		t.Fatalf("expected both options with o2 correct, got %+v", q1.Options)
	}
	if cached.Questions[1].Difficulty != 0 {
		t.Fatalf("expected unset difficulty to stay unset, got %v", cached.Questions[1].Difficulty)
	}
}

func TestQuizRepositoryTreatsCorruptCacheAsMiss(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	mr.HSet("quiz:quiz-1:questions", "q1", "not-json")

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{"quiz-1": sampleQuiz()}),
	}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute)

	quiz, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.count() != 1 || len(quiz.Questions) != 2 {
		t.Fatalf("expected reload from loader, calls=%d quiz=%+v", loader.count(), quiz)
	}
}

type countingLoader struct {
	memory.QuizLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID: "quiz-1",
		Questions: []domain.Question{
			{
				ID:     "q1",
				Prompt: "What is 2 + 2?",
				Options: []domain.Option{
					{ID: "o1", Text: "3", Correct: false},
					{ID: "o2", Text: "4", Correct: true},
				},
				Difficulty:   scoring.DifficultyHard,
				TimeLimitSec: 15,
			},
			{
				ID:     "q2",
				Prompt: "Capital of France?",
				Options: []domain.Option{
					{ID: "o1", Text: "Paris", Correct: true},
					{ID: "o2", Text: "Lyon", Correct: false},
				},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
