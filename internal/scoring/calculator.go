package scoring

import "math"

// BasePoints returns the starting value for a tier. Unset or unknown tiers
// score as DefaultDifficulty.
func BasePoints(d Difficulty) int {
	return basePoints[d.OrDefault()]
}

// CalculateTimeBonus decays with the square of the elapsed fraction: half the
// window still earns 75% of MaxTimeBonus.
func CalculateTimeBonus(timeTakenSec, maxTimeSec float64) float64 {
	if maxTimeSec <= 0 {
		return 0
	}
	ratio := timeTakenSec / maxTimeSec
	return clamp(MaxTimeBonus*(1-ratio*ratio), 0, MaxTimeBonus)
}

// CalculateComboBonus adds ComboStep per consecutive correct answer up to
// MaxComboBonus.
func CalculateComboBonus(consecutiveCorrect int) float64 {
	if consecutiveCorrect <= 0 {
		return 0
	}
	return math.Min(float64(consecutiveCorrect)*ComboStep, MaxComboBonus)
}

// ApplyBonuses rounds half away from zero.
func ApplyBonuses(basePoints int, timeBonus, comboBonus float64) int {
	score := math.Round(float64(basePoints) * (1 + timeBonus + comboBonus))
	if score < 0 {
		return 0
	}
	return int(score)
}

// CreateBreakdown assembles a Breakdown; FinalScore is derived with
// ApplyBonuses so it always matches the returned score.
func CreateBreakdown(basePoints int, timeBonus, comboBonus, timeTakenSec float64, wasCorrect bool) Breakdown {
	return Breakdown{
		BasePoints:      basePoints,
		TimeBonus:       timeBonus,
		ComboBonus:      comboBonus,
		TotalMultiplier: 1 + timeBonus + comboBonus,
		FinalScore:      ApplyBonuses(basePoints, timeBonus, comboBonus),
		TimeTakenSec:    timeTakenSec,
		WasCorrect:      wasCorrect,
	}
}

// ScoreRange reports the lowest and highest score a correct answer at d can earn.
func ScoreRange(d Difficulty) Range {
	base := BasePoints(d)
	return Range{
		Min: base,
		Max: ApplyBonuses(base, MaxTimeBonus, MaxComboBonus),
	}
}
