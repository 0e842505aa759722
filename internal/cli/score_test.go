package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waffles-trivia-service/internal/scoring"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreCommandPrintsBreakdown(t *testing.T) {
	out, err := execute(t, "score", "--time-ms", "3000", "--max-time", "10", "--streak", "2")
	require.NoError(t, err)

	var res scoring.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2110, res.Score)
	assert.Equal(t, 1000, res.Breakdown.BasePoints)
	assert.InDelta(t, 0.91, res.Breakdown.TimeBonus, 1e-9)
	assert.True(t, res.Breakdown.WasCorrect)
}

func TestScoreCommandModes(t *testing.T) {
	out, err := execute(t, "score", "--time-ms", "2000", "--legacy")
	require.NoError(t, err)
	assert.JSONEq(t, `{"score": 2460}`, out)

	out, err = execute(t, "score", "--time-ms", "0", "--difficulty", "hard", "--streak", "7", "--fast")
	require.NoError(t, err)
	assert.JSONEq(t, `{"score": 3750}`, out)

	out, err = execute(t, "score", "--time-ms", "0", "--incorrect")
	require.NoError(t, err)
	var res scoring.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Zero(t, res.Score)
	assert.False(t, res.Breakdown.WasCorrect)
}

func TestScoreCommandErrors(t *testing.T) {
	_, err := execute(t, "score", "--time-ms=-5")
	require.ErrorIs(t, err, scoring.ErrInvalidScoreInput)
	assert.Contains(t, err.Error(), "timeTakenMs")

	_, err = execute(t, "score", "--difficulty", "extreme")
	require.Error(t, err)

	_, err = execute(t, "score", "--fast", "--legacy")
	require.Error(t, err)
}

func TestScoreTable(t *testing.T) {
	out, err := execute(t, "score", "table", "--max-time", "10", "--step-ms", "5000")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"ELAPSED_MS", "EASY", "MEDIUM", "HARD"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"0", "1000", "2000", "3000"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"5000", "875", "1750", "2625"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"10000", "500", "1000", "1500"}, strings.Fields(lines[3]))

	_, err = execute(t, "score", "table", "--step-ms", "0")
	require.Error(t, err)
}
