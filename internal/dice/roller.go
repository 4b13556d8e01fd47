package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=mockdice -source=roller.go

import (
	"fmt"
	"strings"

	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
)

// Roller provides an interface for rolling dice
// This allows us to inject different implementations for testing
type Roller interface {
	// Roll rolls Sides-sided dice Repetitions times and sums the kept values
	Roll(input *RollInput) (*RollResult, error)
}

// RollInput describes a single roll request
type RollInput struct {
	Sides        int
	Repetitions  int
	Advantage    bool
	Disadvantage bool
}

// D20 is a plain d20 roll with the given advantage state
func D20(advantage, disadvantage bool) *RollInput {
	return &RollInput{Sides: 20, Repetitions: 1, Advantage: advantage, Disadvantage: disadvantage}
}

// ForGroup rolls every die of a group once
func ForGroup(group DiceGroup) *RollInput {
	return &RollInput{Sides: group.Sides, Repetitions: group.Count}
}

// Draw is one repetition: both draws and the value that was kept
type Draw struct {
	First  int
	Second int
	Kept   int
}

// RollResult is the audit trail of a roll. Critical and Fumble record whether
// the signal fired during the roll; both follow the running total, not the face
// of a single die.
type RollResult struct {
	Sides        int
	Repetitions  int
	Advantage    bool
	Disadvantage bool
	Draws        []Draw
	Total        int
	Critical     bool
	Fumble       bool
}

// Kept returns the kept value of each repetition
func (r *RollResult) Kept() []int {
	out := make([]int, len(r.Draws))
	for i, d := range r.Draws {
		out[i] = d.Kept
	}
	return out
}

func (r *RollResult) String() string {
	compact := strings.ReplaceAll(fmt.Sprintf("%v", r.Kept()), " ", ",")
	return fmt.Sprintf("%dd%d %s = %d", r.Repetitions, r.Sides, compact, r.Total)
}

// RollExpression parses expr and rolls every group in it
func RollExpression(roller Roller, expr string) (int, []*RollResult, error) {
	groups, err := ParseExpression(expr)
	if err != nil {
		return 0, nil, err
	}

	return RollGroups(roller, groups)
}

// RollGroups rolls each group in order and sums the totals
func RollGroups(roller Roller, groups []DiceGroup) (int, []*RollResult, error) {
	total := 0
	results := make([]*RollResult, 0, len(groups))
	for _, group := range groups {
		result, err := roller.Roll(ForGroup(group))
		if err != nil {
			return 0, nil, dnderr.Wrapf(err, "failed to roll %s", group)
		}
		total += result.Total
		results = append(results, result)
	}

	return total, results, nil
}
