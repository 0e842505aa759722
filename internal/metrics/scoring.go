package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"waffles-trivia-service/internal/scoring"
)

type ScoringMetrics struct {
	answers            *prometheus.CounterVec
	awarded            *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
	recordFailures     prometheus.Counter
}

var (
	scoringOnce     sync.Once
	scoringRegistry *ScoringMetrics
)

// Scoring returns the process-wide scoring metrics, registering them with the
// default Prometheus registry on first use.
func Scoring() *ScoringMetrics {
	scoringOnce.Do(func() {
		scoringRegistry = &ScoringMetrics{
			answers: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "waffles_answers_total",
				Help: "Answers scored, by difficulty and correctness.",
			}, []string{"difficulty", "correct"}),
			awarded: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "waffles_awarded_points",
				Help:    "Points awarded per correct answer.",
				Buckets: []float64{300, 500, 750, 1000, 1250, 1500, 2000, 2500, 3000, 3750},
			}, []string{"difficulty"}),
			validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "waffles_score_validation_failures_total",
				Help: "Rejected score inputs, by offending field.",
			}, []string{"field"}),
			recordFailures: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "waffles_score_record_failures_total",
				Help: "Scores that could not be handed to the score store.",
			}),
		}
		prometheus.MustRegister(
			scoringRegistry.answers,
			scoringRegistry.awarded,
			scoringRegistry.validationFailures,
			scoringRegistry.recordFailures,
		)
	})
	return scoringRegistry
}

func (m *ScoringMetrics) ObserveAnswer(d scoring.Difficulty, correct bool, awarded int) {
	if m == nil {
		return
	}
	label := difficultyLabel(d)
	m.answers.WithLabelValues(label, strconv.FormatBool(correct)).Inc()
	if correct {
		m.awarded.WithLabelValues(label).Observe(float64(awarded))
	}
}

func (m *ScoringMetrics) IncValidationFailure(field string) {
	if m == nil {
		return
	}
	if field == "" {
		field = "unknown"
	}
	m.validationFailures.WithLabelValues(field).Inc()
}

func (m *ScoringMetrics) IncRecordFailure() {
	if m == nil {
		return
	}
	m.recordFailures.Inc()
}

func difficultyLabel(d scoring.Difficulty) string {
	return d.OrDefault().String()
}
