package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"waffles-trivia-service/internal/app"
	"waffles-trivia-service/internal/config"
	"waffles-trivia-service/internal/domain"
	"waffles-trivia-service/internal/infra/memory"
	"waffles-trivia-service/internal/infra/postgres"
	redisinfra "waffles-trivia-service/internal/infra/redis"
	"waffles-trivia-service/internal/logger"
	"waffles-trivia-service/internal/metrics"
	"waffles-trivia-service/internal/scoring"
	transport "waffles-trivia-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var (
		pool *pgxpool.Pool
		db   *bun.DB
	)
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		db = postgres.OpenBun(cfg.Postgres.URL)
		defer db.Close()
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	var recorder app.ScoreRecorder = memory.NewScoreRecorder()
	if pool != nil {
		loader = postgres.NewQuizLoader(pool)
		recorder = postgres.NewScoreRecorder(db)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	service := app.NewGameService(store, quizRepo,
		app.WithRecorder(recorder),
		app.WithMetrics(metrics.Scoring()),
		app.WithLogger(log.With().Str("component", "game").Logger()),
		app.WithScoringMode(cfg.ScoringMode()),
		app.WithDefaultTimeLimit(cfg.DefaultTimeLimit()),
	)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service, log.With().Str("component", "ws").Logger()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", finalPort).
			Str("scoring_mode", cfg.ScoringMode()).
			Bool("postgres", pool != nil).
			Bool("redis", redisClient != nil).
			Msg("starting trivia service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("failed to start server")
		}
	}()

	return waitForShutdown(ctx, server, log)
}

func waitForShutdown(ctx context.Context, server *http.Server, log zerolog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes backs demo mode when no database is configured.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID: "quiz-1",
			Questions: []domain.Question{
				{
					ID:     "q1",
					Prompt: "What is 2 + 2?",
					Options: []domain.Option{
						{ID: "o1", Text: "3", Correct: false},
						{ID: "o2", Text: "4", Correct: true},
						{ID: "o3", Text: "5", Correct: false},
					},
					Difficulty:   scoring.DifficultyEasy,
					TimeLimitSec: 10,
				},
				{
					ID:     "q2",
					Prompt: "Which planet has the shortest day?",
					Options: []domain.Option{
						{ID: "o1", Text: "Earth", Correct: false},
						{ID: "o2", Text: "Jupiter", Correct: true},
						{ID: "o3", Text: "Mars", Correct: false},
					},
					Difficulty:   scoring.DifficultyMedium,
					TimeLimitSec: 15,
				},
				{
					ID:     "q3",
					Prompt: "In what year was the Treaty of Westphalia signed?",
					Options: []domain.Option{
						{ID: "o1", Text: "1618", Correct: false},
						{ID: "o2", Text: "1648", Correct: true},
						{ID: "o3", Text: "1713", Correct: false},
					},
					Difficulty:   scoring.DifficultyHard,
					TimeLimitSec: 20,
				},
			},
		},
	}
}
