// Package dice parses roll expressions and rolls dice with advantage,
// disadvantage and critical/fumble signalling.
package dice

import (
	"fmt"
	"strconv"
	"strings"

	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
)

// DiceGroup is a count of dice of the same size, e.g. 2d6
type DiceGroup struct {
	Count int `json:"count" yaml:"count"`
	Sides int `json:"sides" yaml:"sides"`
}

func (g DiceGroup) String() string {
	return fmt.Sprintf("%dd%d", g.Count, g.Sides)
}

// ParseExpression parses "1d4+2d6" into its dice groups, preserving term order.
// Terms are case-insensitive and may be padded with spaces.
func ParseExpression(expr string) ([]DiceGroup, error) {
	terms := strings.Split(strings.ToLower(expr), "+")

	groups := make([]DiceGroup, 0, len(terms))
	for _, term := range terms {
		group, err := ParseGroup(term)
		if err != nil {
			return nil, dnderr.Wrapf(err, "invalid roll expression %q", expr).
				WithMeta("expression", expr)
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// ParseGroup parses a single <count>d<sides> term
func ParseGroup(term string) (DiceGroup, error) {
	term = strings.ToLower(strings.TrimSpace(term))

	parts := strings.Split(term, "d")
	if len(parts) != 2 {
		return DiceGroup{}, dnderr.MalformedExpressionf("term %q must look like <count>d<sides>", term)
	}

	count, err := strconv.Atoi(parts[0])
	if err != nil {
		return DiceGroup{}, dnderr.MalformedExpressionf("term %q has an invalid dice count", term)
	}

	sides, err := strconv.Atoi(parts[1])
	if err != nil {
		return DiceGroup{}, dnderr.MalformedExpressionf("term %q has an invalid die size", term)
	}

	return DiceGroup{Count: count, Sides: sides}, nil
}

// FormatExpression is the inverse of ParseExpression
func FormatExpression(groups []DiceGroup) string {
	terms := make([]string, len(groups))
	for i, g := range groups {
		terms[i] = g.String()
	}
	return strings.Join(terms, "+")
}
