package scoring

import "math"

// Validate checks raw input in a fixed order and stops at the first failure.
// Out-of-window times are clamped rather than rejected.
func Validate(in ScoreInput) ValidationResult {
	if !isFinite(in.MaxTimeSec) || in.MaxTimeSec <= 0 {
		return invalid("maxTimeSec", in.MaxTimeSec, "must be a finite number greater than 0")
	}
	if !isFinite(in.TimeTakenMs) || in.TimeTakenMs < 0 {
		return invalid("timeTakenMs", in.TimeTakenMs, "must be a finite, non-negative number")
	}

	difficulty := in.Difficulty
	if difficulty == 0 {
		difficulty = DefaultDifficulty
	} else if !difficulty.Valid() {
		return invalid("difficulty", in.Difficulty, "must be one of EASY, MEDIUM, HARD")
	}

	streak := 0
	if in.ConsecutiveCorrect != nil {
		streak = *in.ConsecutiveCorrect
		if streak < 0 {
			return invalid("consecutiveCorrect", streak, "must be a non-negative integer")
		}
	}

	return ValidationResult{
		Valid: true,
		Params: Params{
			TimeTakenSec:       SanitizeTime(in.TimeTakenMs, in.MaxTimeSec),
			MaxTimeSec:         in.MaxTimeSec,
			Difficulty:         difficulty,
			ConsecutiveCorrect: clampStreak(streak),
		},
	}
}

// IsValidScoreInput is the cheap check used by the fast path. Difficulty and
// streak are not inspected.
func IsValidScoreInput(timeTakenMs, maxTimeSec float64) bool {
	return isFinite(timeTakenMs) && timeTakenMs >= 0 && isFinite(maxTimeSec) && maxTimeSec > 0
}

// SanitizeTime converts milliseconds to seconds clamped into [0, maxTimeSec].
// It assumes IsValidScoreInput already holds.
func SanitizeTime(timeTakenMs, maxTimeSec float64) float64 {
	return clamp(timeTakenMs/1000, 0, maxTimeSec)
}

func invalid(field string, value any, reason string) ValidationResult {
	return ValidationResult{Err: &ValidationError{Field: field, Value: value, Reason: reason}}
}

func clampStreak(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxConsecutiveCorrect {
		return MaxConsecutiveCorrect
	}
	return n
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
