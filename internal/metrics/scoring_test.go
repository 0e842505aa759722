package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"waffles-trivia-service/internal/scoring"
)

func TestScoringMetricsObserve(t *testing.T) {
	m := Scoring()
	require.Same(t, m, Scoring())

	before := testutil.ToFloat64(m.answers.WithLabelValues("HARD", "true"))
	m.ObserveAnswer(scoring.DifficultyHard, true, 3000)
	require.Equal(t, before+1, testutil.ToFloat64(m.answers.WithLabelValues("HARD", "true")))

	unset := testutil.ToFloat64(m.answers.WithLabelValues("MEDIUM", "false"))
	m.ObserveAnswer(0, false, 0)
	require.Equal(t, unset+1, testutil.ToFloat64(m.answers.WithLabelValues("MEDIUM", "false")))

	failures := testutil.ToFloat64(m.validationFailures.WithLabelValues("unknown"))
	m.IncValidationFailure("")
	require.Equal(t, failures+1, testutil.ToFloat64(m.validationFailures.WithLabelValues("unknown")))
}

func TestNilScoringMetricsIsNoop(t *testing.T) {
	var m *ScoringMetrics
	m.ObserveAnswer(scoring.DifficultyEasy, true, 500)
	m.IncValidationFailure("timeTakenMs")
	m.IncRecordFailure()
}
