package scoring

import (
	"errors"
	"fmt"
)

const (
	// MaxTimeBonus is the multiplier earned by an instant answer.
	MaxTimeBonus = 1.0
	// MaxComboBonus caps the streak multiplier; reached at a streak of 5.
	MaxComboBonus = 0.5
	// ComboStep is added per consecutive correct answer.
	ComboStep = 0.1
	// MaxConsecutiveCorrect bounds the streak accepted from callers.
	MaxConsecutiveCorrect = 100
)

// ScoreInput is the raw request for a single answer.
type ScoreInput struct {
	TimeTakenMs float64 `json:"timeTakenMs"`
	MaxTimeSec  float64 `json:"maxTimeSec"`
	IsCorrect   bool    `json:"isCorrect"`
	// Difficulty defaults to MEDIUM when zero.
	Difficulty Difficulty `json:"difficulty,omitempty"`
	// ConsecutiveCorrect defaults to 0 when nil.
	ConsecutiveCorrect *int `json:"consecutiveCorrect,omitempty"`
}

// Params is the sanitized form of a ScoreInput.
type Params struct {
	TimeTakenSec       float64
	MaxTimeSec         float64
	Difficulty         Difficulty
	ConsecutiveCorrect int
}

// Breakdown records how a final score was composed.
type Breakdown struct {
	BasePoints      int     `json:"basePoints"`
	TimeBonus       float64 `json:"timeBonus"`
	ComboBonus      float64 `json:"comboBonus"`
	TotalMultiplier float64 `json:"totalMultiplier"`
	FinalScore      int     `json:"finalScore"`
	TimeTakenSec    float64 `json:"timeTakenSec"`
	WasCorrect      bool    `json:"wasCorrect"`
}

// Result is returned by CalculateScore.
type Result struct {
	Score     int       `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// Range is the inclusive span of scores a correct answer can earn.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ValidationResult carries either sanitized params or the first failure.
type ValidationResult struct {
	Valid  bool
	Params Params
	Err    *ValidationError
}

// ErrInvalidScoreInput matches every *ValidationError via errors.Is.
var ErrInvalidScoreInput = errors.New("invalid score input")

// ValidationError names the offending field and the value received.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s, got %v", e.Field, e.Reason, e.Value)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidScoreInput
}
