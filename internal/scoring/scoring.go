// Package scoring computes the points awarded for a trivia answer from the
// question difficulty, how quickly it was answered and the player's streak of
// consecutive correct answers.
//
// CalculateScore validates its input and returns a breakdown; it is the only
// function here that can fail. CalculateScoreFast and CalculateScoreLegacy are
// total and degrade to 0 on bad input. Everything is safe for concurrent use.
package scoring

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

const (
	LegacyBaseScore = 300
	LegacySpeedSpan = 2700
)

// CalculateScore scores a single answer. Incorrect answers score 0 without
// their timing being validated. Invalid input on a correct answer returns an
// error wrapping *ValidationError.
func CalculateScore(in ScoreInput) (Result, error) {
	if !in.IsCorrect {
		return incorrectResult(in.TimeTakenMs), nil
	}

	v := Validate(in)
	if !v.Valid {
		return Result{}, fmt.Errorf("invalid score input: %w", v.Err)
	}

	p := v.Params
	base := BasePoints(p.Difficulty)
	timeBonus := CalculateTimeBonus(p.TimeTakenSec, p.MaxTimeSec)
	comboBonus := CalculateComboBonus(p.ConsecutiveCorrect)
	score := ApplyBonuses(base, timeBonus, comboBonus)

	return Result{
		Score:     score,
		Breakdown: CreateBreakdown(base, timeBonus, comboBonus, p.TimeTakenSec, true),
	}, nil
}

// CalculateScoreFast is CalculateScore without validation or breakdown, for
// hot loops. Invalid times score 0; an unset or unknown difficulty scores as
// MEDIUM and the streak is clamped into [0, MaxConsecutiveCorrect].
func CalculateScoreFast(timeTakenMs, maxTimeSec float64, isCorrect bool, difficulty Difficulty, consecutiveCorrect int) int {
	if !isCorrect || !IsValidScoreInput(timeTakenMs, maxTimeSec) {
		return 0
	}
	t := SanitizeTime(timeTakenMs, maxTimeSec)
	return ApplyBonuses(
		BasePoints(difficulty),
		CalculateTimeBonus(t, maxTimeSec),
		CalculateComboBonus(clampStreak(consecutiveCorrect)),
	)
}

// CalculateScoreLegacy is the original linear formula with no difficulty or
// streak: 300 points plus up to 2700 for speed.
//
// Deprecated: use CalculateScore. Kept for clients on the legacy scoring mode.
func CalculateScoreLegacy(timeTakenSec, maxTimeSec float64) int {
	if !isFinite(maxTimeSec) || maxTimeSec <= 0 {
		log.Warn().Float64("max_time_sec", maxTimeSec).Msg("legacy score requested with invalid max time, awarding 0")
		return 0
	}
	// NaN elapsed time counts as the full window.
	t := maxTimeSec
	if !math.IsNaN(timeTakenSec) {
		t = clamp(timeTakenSec, 0, maxTimeSec)
	}
	speedRatio := (maxTimeSec - t) / maxTimeSec
	score := int(math.Round(LegacyBaseScore + speedRatio*LegacySpeedSpan))
	if score < 0 {
		return 0
	}
	return score
}

func incorrectResult(timeTakenMs float64) Result {
	t := 0.0
	if isFinite(timeTakenMs) && timeTakenMs > 0 {
		t = timeTakenMs / 1000
	}
	return Result{Breakdown: CreateBreakdown(0, 0, 0, t, false)}
}
