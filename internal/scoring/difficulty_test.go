package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDifficulty(t *testing.T) {
	cases := map[string]Difficulty{
		"":       0,
		"easy":   DifficultyEasy,
		"MEDIUM": DifficultyMedium,
		" Hard ": DifficultyHard,
	}
	for raw, want := range cases {
		got, err := ParseDifficulty(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseDifficulty("legendary")
	assert.Error(t, err)
}

func TestDifficultyJSON(t *testing.T) {
	var q struct {
		Difficulty Difficulty `json:"difficulty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"difficulty":"hard"}`), &q))
	assert.Equal(t, DifficultyHard, q.Difficulty)

	out, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"difficulty":"HARD"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"difficulty":"impossible"}`), &q))

	_, err = json.Marshal(struct{ D Difficulty }{D: Difficulty(12)})
	assert.Error(t, err)
}

func TestBasePointsTable(t *testing.T) {
	assert.Equal(t, 500, BasePoints(DifficultyEasy))
	assert.Equal(t, 1000, BasePoints(DifficultyMedium))
	assert.Equal(t, 1500, BasePoints(DifficultyHard))
	assert.Equal(t, 1000, BasePoints(0))
	assert.Equal(t, 1000, BasePoints(Difficulty(200)))
}

func TestDifficultyOrDefault(t *testing.T) {
	assert.Equal(t, DifficultyMedium, Difficulty(0).OrDefault())
	assert.Equal(t, DifficultyMedium, Difficulty(8).OrDefault())
	assert.Equal(t, DifficultyEasy, DifficultyEasy.OrDefault())
	assert.False(t, Difficulty(0).Valid())
	assert.Equal(t, "Difficulty(8)", Difficulty(8).String())
}
