package scoring

import (
	"fmt"
	"strings"
)

// Difficulty is the tier of a question. The zero value means the caller did
// not supply one; it scores as DifficultyMedium.
type Difficulty uint8

const (
	DifficultyEasy Difficulty = iota + 1
	DifficultyMedium
	DifficultyHard
)

// DefaultDifficulty is applied when no difficulty was supplied.
const DefaultDifficulty = DifficultyMedium

// Difficulties lists the known tiers in ascending order.
var Difficulties = [...]Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

var basePoints = map[Difficulty]int{
	DifficultyEasy:   500,
	DifficultyMedium: 1000,
	DifficultyHard:   1500,
}

// ParseDifficulty accepts EASY, MEDIUM or HARD in any case. An empty string
// yields the zero value.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "":
		return 0, nil
	case "EASY":
		return DifficultyEasy, nil
	case "MEDIUM":
		return DifficultyMedium, nil
	case "HARD":
		return DifficultyHard, nil
	}
	return 0, fmt.Errorf("unknown difficulty %q", raw)
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	_, ok := basePoints[d]
	return ok
}

// OrDefault returns d, or DefaultDifficulty when d is unset or unknown.
func (d Difficulty) OrDefault() Difficulty {
	if d.Valid() {
		return d
	}
	return DefaultDifficulty
}

func (d Difficulty) String() string {
	switch d {
	case 0:
		return ""
	case DifficultyEasy:
		return "EASY"
	case DifficultyMedium:
		return "MEDIUM"
	case DifficultyHard:
		return "HARD"
	}
	return fmt.Sprintf("Difficulty(%d)", uint8(d))
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if d != 0 && !d.Valid() {
		return nil, fmt.Errorf("unknown difficulty %d", uint8(d))
	}
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
