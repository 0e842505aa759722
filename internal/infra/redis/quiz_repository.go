package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"waffles-trivia-service/internal/domain"
	"waffles-trivia-service/internal/scoring"
)

// QuizLoader fetches quiz content from a backing store.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizRepository caches the scoring view of a quiz in Redis and falls back to
// a loader on cache miss. One hash per quiz:
//
//	HSET quiz:{quizID}:questions {questionID} {json cachedQuestion}
//
// Prompts and option texts are not cached; scoring only needs option IDs,
// the correct option, difficulty and time limit.
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

type cachedQuestion struct {
	Order        int                `json:"order"`
	Options      []string           `json:"options"`
	Correct      string             `json:"correct"`
	Difficulty   scoring.Difficulty `json:"difficulty,omitempty"`
	TimeLimitSec float64            `json:"timeLimitSec,omitempty"`
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.fromCache(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.fromCache(ctx, quizID); ok {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		r.store(ctx, quiz)
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *QuizRepository) fromCache(ctx context.Context, quizID string) (domain.Quiz, bool) {
	fields, err := r.client.HGetAll(ctx, r.questionsKey(quizID)).Result()
	if err != nil || len(fields) == 0 {
		return domain.Quiz{}, false
	}
	quiz, err := buildQuizFromCache(quizID, fields)
	if err != nil {
		// Corrupt entries are treated as a miss and overwritten on reload.
		return domain.Quiz{}, false
	}
	return quiz, true
}

// store is best effort; a failed write only costs a reload next time.
func (r *QuizRepository) store(ctx context.Context, quiz domain.Quiz) {
	key := r.questionsKey(quiz.ID)
	pipe := r.client.Pipeline()
	for i, q := range quiz.Questions {
		raw, err := json.Marshal(toCachedQuestion(i, q))
		if err != nil {
			return
		}
		pipe.HSet(ctx, key, q.ID, raw)
	}
	if ttl := r.ttlWithJitter(); ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, _ = pipe.Exec(ctx)
}

func (r *QuizRepository) questionsKey(quizID string) string {
	return "quiz:" + quizID + ":questions"
}

func toCachedQuestion(order int, q domain.Question) cachedQuestion {
	cq := cachedQuestion{
		Order:        order,
		Options:      make([]string, 0, len(q.Options)),
		Difficulty:   q.Difficulty,
		TimeLimitSec: q.TimeLimitSec,
	}
	for _, opt := range q.Options {
		cq.Options = append(cq.Options, opt.ID)
		if opt.Correct && cq.Correct == "" {
			cq.Correct = opt.ID
		}
	}
	return cq
}

func buildQuizFromCache(quizID string, fields map[string]string) (domain.Quiz, error) {
	type ordered struct {
		order    int
		question domain.Question
	}
	items := make([]ordered, 0, len(fields))
	for questionID, raw := range fields {
		var cq cachedQuestion
		if err := json.Unmarshal([]byte(raw), &cq); err != nil {
			return domain.Quiz{}, err
		}
		options := make([]domain.Option, 0, len(cq.Options))
		for _, id := range cq.Options {
			options = append(options, domain.Option{ID: id, Correct: id == cq.Correct})
		}
		items = append(items, ordered{order: cq.Order, question: domain.Question{
			ID:           questionID,
			Options:      options,
			Difficulty:   cq.Difficulty,
			TimeLimitSec: cq.TimeLimitSec,
		}})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].order < items[j].order })

	questions := make([]domain.Question, 0, len(items))
	for _, it := range items {
		questions = append(questions, it.question)
	}
	return domain.Quiz{ID: quizID, Questions: questions}, nil
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
