package http

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"waffles-trivia-service/internal/app"
	"waffles-trivia-service/internal/scoring"
)

type healthResponse struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"activeSessions"`
}

type scoreRangeResponse struct {
	Difficulty scoring.Difficulty `json:"difficulty"`
	BasePoints int                `json:"basePoints"`
	Min        int                `json:"min"`
	Max        int                `json:"max"`
}

// NewRouter exposes the websocket endpoint alongside health, metrics and
// score-range lookups.
func NewRouter(service *app.GameService, logger zerolog.Logger) http.Handler {
	ws := NewWSHandler(service, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", ActiveSessions: service.ActiveSessions()})
	})
	mux.HandleFunc("/scores/range", func(w http.ResponseWriter, r *http.Request) {
		if raw := r.URL.Query().Get("difficulty"); raw != "" {
			d, err := scoring.ParseDifficulty(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorPayload{Message: err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, scoreRange(d))
			return
		}
		out := make([]scoreRangeResponse, 0, len(scoring.Difficulties))
		for _, d := range scoring.Difficulties {
			out = append(out, scoreRange(d))
		}
		writeJSON(w, http.StatusOK, out)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws", ws.ServeWS)
	return mux
}

func scoreRange(d scoring.Difficulty) scoreRangeResponse {
	rng := scoring.ScoreRange(d)
	return scoreRangeResponse{Difficulty: d, BasePoints: scoring.BasePoints(d), Min: rng.Min, Max: rng.Max}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
