package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"waffles-trivia-service/internal/domain"
	"waffles-trivia-service/internal/metrics"
	"waffles-trivia-service/internal/scoring"
)

const (
	ScoringModeStandard = "standard"
	ScoringModeLegacy   = "legacy"

	defaultTimeLimitSec = 10
)

// SessionRepository abstracts how game sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(quizID string) *Session
	Get(quizID string) (*Session, bool)
	DeleteIfEmpty(quizID string)
	Count() int
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// ScoreRecorder accepts the final score of every answer.
type ScoreRecorder interface {
	Record(ctx context.Context, record domain.ScoreRecord) error
}

// GameService contains the core trivia use cases.
type GameService struct {
	sessions     SessionRepository
	quizzes      QuizRepository
	recorder     ScoreRecorder
	metrics      *metrics.ScoringMetrics
	logger       zerolog.Logger
	mode         string
	defaultLimit float64
	now          func() time.Time
}

type Option func(*GameService)

func WithRecorder(recorder ScoreRecorder) Option {
	return func(s *GameService) { s.recorder = recorder }
}

func WithMetrics(m *metrics.ScoringMetrics) Option {
	return func(s *GameService) { s.metrics = m }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *GameService) { s.logger = logger }
}

// WithScoringMode selects ScoringModeStandard or ScoringModeLegacy.
func WithScoringMode(mode string) Option {
	return func(s *GameService) {
		if mode == ScoringModeLegacy {
			s.mode = ScoringModeLegacy
		}
	}
}

// WithDefaultTimeLimit applies to questions without their own time limit.
func WithDefaultTimeLimit(sec float64) Option {
	return func(s *GameService) {
		if sec > 0 {
			s.defaultLimit = sec
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *GameService) { s.now = now }
}

func NewGameService(store SessionRepository, quizzes QuizRepository, opts ...Option) *GameService {
	s := &GameService{
		sessions:     store,
		quizzes:      quizzes,
		logger:       zerolog.Nop(),
		mode:         ScoringModeStandard,
		defaultLimit: defaultTimeLimitSec,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return newSession(id)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	return newSessionWithClock(id, now)
}

// Join registers or refreshes a participant in a game session.
func (s *GameService) Join(ctx context.Context, quizID, userID, displayName string) (domain.Leaderboard, error) {
	// Preload quiz into cache; users cannot join unknown quizzes.
	if _, err := s.quizzes.GetQuiz(ctx, quizID); err != nil {
		return domain.Leaderboard{}, err
	}

	session := s.sessions.GetOrCreate(quizID)
	return session.join(userID, displayName), nil
}

// SubmitAnswer scores an answer, applies it to the participant and broadcasts
// the new leaderboard. Invalid scoring input is returned as an error and
// leaves the session untouched.
func (s *GameService) SubmitAnswer(ctx context.Context, quizID, userID string, submission domain.AnswerSubmission) (domain.Leaderboard, domain.AnswerResult, error) {
	session, ok := s.sessions.Get(quizID)
	if !ok {
		return domain.Leaderboard{}, domain.AnswerResult{}, domain.ErrSessionNotFound
	}

	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Leaderboard{}, domain.AnswerResult{}, err
	}

	question, correct, err := checkAnswer(quiz, submission)
	if err != nil {
		return domain.Leaderboard{}, domain.AnswerResult{}, err
	}

	var streakBefore int
	lb, result, err := session.answer(userID, question.ID, correct, func(streak int) (int, *scoring.Breakdown, error) {
		streakBefore = streak
		return s.score(question, submission.TimeTakenMs, correct, streak)
	})
	if err != nil {
		var verr *scoring.ValidationError
		if errors.As(err, &verr) {
			s.metrics.IncValidationFailure(verr.Field)
			s.logger.Warn().Err(err).
				Str("quiz_id", quizID).
				Str("user_id", userID).
				Str("question_id", question.ID).
				Msg("answer rejected by scoring")
		}
		return domain.Leaderboard{}, domain.AnswerResult{}, err
	}

	s.metrics.ObserveAnswer(question.Difficulty, correct, result.Awarded)
	s.logger.Debug().
		Str("quiz_id", quizID).
		Str("user_id", userID).
		Str("question_id", question.ID).
		Bool("correct", correct).
		Int("awarded", result.Awarded).
		Int("total", result.TotalScore).
		Msg("answer scored")

	s.record(ctx, domain.ScoreRecord{
		ID:          uuid.NewString(),
		QuizID:      quizID,
		UserID:      userID,
		QuestionID:  question.ID,
		Correct:     correct,
		Score:       result.Awarded,
		Difficulty:  question.Difficulty.OrDefault(),
		TimeTakenMs: submission.TimeTakenMs,
		Streak:      streakBefore,
		RecordedAt:  s.now(),
	})

	return lb, result, nil
}

// PreviewScore reports what a correct answer to questionID would be worth for
// userID after elapsedMs. It never fails on bad timing; it reports 0 instead.
func (s *GameService) PreviewScore(ctx context.Context, quizID, userID, questionID string, elapsedMs float64) (int, error) {
	session, ok := s.sessions.Get(quizID)
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return 0, err
	}
	question := findQuestion(quiz, questionID)
	if question == nil {
		return 0, domain.ErrQuestionNotFound
	}
	streak, err := session.streak(userID)
	if err != nil {
		return 0, err
	}

	maxTime := s.timeLimit(*question)
	if s.mode == ScoringModeLegacy {
		return scoring.CalculateScoreLegacy(elapsedMs/1000, maxTime), nil
	}
	return scoring.CalculateScoreFast(elapsedMs, maxTime, true, question.Difficulty, streak), nil
}

// ActiveSessions reports how many games currently have a live session.
func (s *GameService) ActiveSessions() int {
	return s.sessions.Count()
}

// Subscribe returns a channel that receives leaderboard updates for a quiz.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, quizID string) (<-chan domain.Leaderboard, func(), error) {
	session, ok := s.sessions.Get(quizID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave removes a participant from the session and drops the session if empty.
func (s *GameService) Leave(_ context.Context, quizID, userID string) {
	session, ok := s.sessions.Get(quizID)
	if !ok {
		return
	}
	session.leave(userID)
	if session.isEmpty() {
		s.sessions.DeleteIfEmpty(quizID)
	}
}

func (s *GameService) score(question domain.Question, timeTakenMs float64, correct bool, streak int) (int, *scoring.Breakdown, error) {
	maxTime := s.timeLimit(question)
	if s.mode == ScoringModeLegacy {
		if !correct {
			return 0, nil, nil
		}
		return scoring.CalculateScoreLegacy(timeTakenMs/1000, maxTime), nil, nil
	}

	res, err := scoring.CalculateScore(scoring.ScoreInput{
		TimeTakenMs:        timeTakenMs,
		MaxTimeSec:         maxTime,
		IsCorrect:          correct,
		Difficulty:         question.Difficulty,
		ConsecutiveCorrect: &streak,
	})
	if err != nil {
		return 0, nil, err
	}
	return res.Score, &res.Breakdown, nil
}

func (s *GameService) timeLimit(question domain.Question) float64 {
	if question.TimeLimitSec > 0 {
		return question.TimeLimitSec
	}
	return s.defaultLimit
}

func (s *GameService) record(ctx context.Context, rec domain.ScoreRecord) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, rec); err != nil {
		s.metrics.IncRecordFailure()
		s.logger.Error().Err(err).
			Str("quiz_id", rec.QuizID).
			Str("user_id", rec.UserID).
			Str("question_id", rec.QuestionID).
			Int("score", rec.Score).
			Msg("failed to record score")
	}
}

// checkAnswer resolves the question and reports whether the selected option is correct.
func checkAnswer(quiz domain.Quiz, submission domain.AnswerSubmission) (domain.Question, bool, error) {
	question := findQuestion(quiz, submission.QuestionID)
	if question == nil {
		return domain.Question{}, false, domain.ErrQuestionNotFound
	}
	for _, opt := range question.Options {
		if opt.ID == submission.OptionID {
			return *question, opt.Correct, nil
		}
	}
	return domain.Question{}, false, domain.ErrOptionNotFound
}

func findQuestion(quiz domain.Quiz, questionID string) *domain.Question {
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == questionID {
			return &quiz.Questions[i]
		}
	}
	return nil
}
