package domain

import (
	"time"

	"waffles-trivia-service/internal/scoring"
)

// Participant represents a player in a game and their running totals.
type Participant struct {
	UserID      string
	DisplayName string
	Score       int
	Streak      int
	BestStreak  int
	Answered    map[string]struct{}
	LastUpdated time.Time
}

// LeaderboardEntry is a snapshot-friendly view of a participant.
type LeaderboardEntry struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	Streak      int    `json:"streak"`
}

// Leaderboard captures the ordered scoreboard for a game session.
type Leaderboard struct {
	QuizID    string             `json:"quizId"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// AnswerSubmission is what a client sends when answering a question.
type AnswerSubmission struct {
	QuestionID  string
	OptionID    string
	TimeTakenMs float64
}

// AnswerResult summarizes the outcome of a submission for a single user.
type AnswerResult struct {
	QuestionID string             `json:"questionId"`
	Correct    bool               `json:"correct"`
	Awarded    int                `json:"awarded"`
	TotalScore int                `json:"totalScore"`
	Streak     int                `json:"streak"`
	Breakdown  *scoring.Breakdown `json:"breakdown,omitempty"`
}

// Option represents a possible answer for a question.
type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID         string             `json:"id"`
	Prompt     string             `json:"prompt"`
	Options    []Option           `json:"options"`
	Difficulty scoring.Difficulty `json:"difficulty,omitempty"`
	// TimeLimitSec falls back to the configured default when zero.
	TimeLimitSec float64 `json:"timeLimitSec,omitempty"`
}

// Quiz is a collection of questions.
type Quiz struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// ScoreRecord is the final integer score for one answer, as persisted.
type ScoreRecord struct {
	ID          string             `json:"id"`
	QuizID      string             `json:"quizId"`
	UserID      string             `json:"userId"`
	QuestionID  string             `json:"questionId"`
	Correct     bool               `json:"correct"`
	Score       int                `json:"score"`
	Difficulty  scoring.Difficulty `json:"difficulty"`
	TimeTakenMs float64            `json:"timeTakenMs"`
	Streak      int                `json:"streak"`
	RecordedAt  time.Time          `json:"recordedAt"`
}
