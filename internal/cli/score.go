package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"waffles-trivia-service/internal/scoring"
)

type scoreOptions struct {
	timeMs     float64
	maxTime    float64
	difficulty string
	streak     int
	incorrect  bool
	fast       bool
	legacy     bool
}

// NewScoreCmd scores a single answer offline, mostly for tuning and support.
func NewScoreCmd() *cobra.Command {
	opts := scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one answer and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.OutOrStdout(), opts, cmd.Flags().Changed("streak"))
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.timeMs, "time-ms", 0, "time taken to answer, in milliseconds")
	flags.Float64Var(&opts.maxTime, "max-time", 10, "question time limit, in seconds")
	flags.StringVar(&opts.difficulty, "difficulty", "", "EASY, MEDIUM or HARD (default MEDIUM)")
	flags.IntVar(&opts.streak, "streak", 0, "consecutive correct answers before this one")
	flags.BoolVar(&opts.incorrect, "incorrect", false, "score the answer as wrong")
	flags.BoolVar(&opts.fast, "fast", false, "use the unvalidated fast path")
	flags.BoolVar(&opts.legacy, "legacy", false, "use the legacy linear formula")
	cmd.MarkFlagsMutuallyExclusive("fast", "legacy")

	cmd.AddCommand(newScoreTableCmd())
	return cmd
}

type scoreOnly struct {
	Score int `json:"score"`
}

func runScore(out io.Writer, opts scoreOptions, streakSet bool) error {
	difficulty, err := scoring.ParseDifficulty(opts.difficulty)
	if err != nil {
		return err
	}

	var result any
	switch {
	case opts.legacy:
		score := 0
		if !opts.incorrect {
			score = scoring.CalculateScoreLegacy(opts.timeMs/1000, opts.maxTime)
		}
		result = scoreOnly{Score: score}
	case opts.fast:
		result = scoreOnly{Score: scoring.CalculateScoreFast(opts.timeMs, opts.maxTime, !opts.incorrect, difficulty, opts.streak)}
	default:
		in := scoring.ScoreInput{
			TimeTakenMs: opts.timeMs,
			MaxTimeSec:  opts.maxTime,
			IsCorrect:   !opts.incorrect,
			Difficulty:  difficulty,
		}
		if streakSet {
			in.ConsecutiveCorrect = &opts.streak
		}
		res, err := scoring.CalculateScore(in)
		if err != nil {
			return err
		}
		result = res
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

type scoreTableOptions struct {
	maxTime float64
	streak  int
	stepMs  float64
}

func newScoreTableCmd() *cobra.Command {
	opts := scoreTableOptions{}
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print scores across the time window for every difficulty",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScoreTable(cmd.OutOrStdout(), opts)
		},
	}
	flags := cmd.Flags()
	flags.Float64Var(&opts.maxTime, "max-time", 10, "question time limit, in seconds")
	flags.IntVar(&opts.streak, "streak", 0, "consecutive correct answers before this one")
	flags.Float64Var(&opts.stepMs, "step-ms", 1000, "elapsed time between rows, in milliseconds")
	return cmd
}

func runScoreTable(out io.Writer, opts scoreTableOptions) error {
	if !scoring.IsValidScoreInput(0, opts.maxTime) {
		return fmt.Errorf("max-time must be greater than 0, got %v", opts.maxTime)
	}
	if opts.stepMs <= 0 {
		return fmt.Errorf("step-ms must be greater than 0, got %v", opts.stepMs)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "ELAPSED_MS\t")
	for _, d := range scoring.Difficulties {
		fmt.Fprintf(w, "%s\t", d)
	}
	fmt.Fprintln(w)

	windowMs := opts.maxTime * 1000
	for elapsed := 0.0; elapsed <= windowMs; elapsed += opts.stepMs {
		fmt.Fprintf(w, "%.0f\t", elapsed)
		for _, d := range scoring.Difficulties {
			fmt.Fprintf(w, "%d\t", scoring.CalculateScoreFast(elapsed, opts.maxTime, true, d, opts.streak))
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
