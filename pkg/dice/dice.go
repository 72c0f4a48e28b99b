// Package dice implements the roll engine for player turns, including the
// karmic bias that dampens long streaks of success or failure per entity.
package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Die is a die size expressed as its face count.
type Die int

const (
	D4   Die = 4
	D6   Die = 6
	D8   Die = 8
	D10  Die = 10
	D12  Die = 12
	D20  Die = 20
	D100 Die = 100
)

var validDice = map[Die]bool{
	D4: true, D6: true, D8: true, D10: true, D12: true, D20: true, D100: true,
}

// ParseDie parses strings like "d20" or "20" into a Die.
func ParseDie(s string) (Die, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "d")
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid die %q", s)
	}
	d := Die(n)
	if !validDice[d] {
		return 0, fmt.Errorf("unsupported die d%d", n)
	}
	return d, nil
}

func (d Die) String() string {
	return fmt.Sprintf("d%d", int(d))
}

// Threshold is the success boundary for streak tracking: a roll is a
// success when it is strictly greater than ceil(faces/2).
func (d Die) Threshold() int {
	return (int(d) + 1) / 2
}

// Result is the outcome of a single roll.
type Result struct {
	Die     Die    `json:"die"`
	Value   int    `json:"value"`
	Success bool   `json:"success"`
	Biased  bool   `json:"biased,omitempty"` // true when karmic bias replaced the base roll
	Streak  int    `json:"streak"`           // streak value after this roll
	Entity  string `json:"entity,omitempty"`
}

func (r Result) String() string {
	return fmt.Sprintf("%s → %d", r.Die, r.Value)
}
