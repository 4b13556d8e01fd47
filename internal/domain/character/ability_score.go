package character

import (
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
)

// AbilityScores holds the six base stats
type AbilityScores struct {
	Strength     int
	Dexterity    int
	Constitution int
	Intelligence int
	Wisdom       int
	Charisma     int
}

func resolve(attr shared.Attribute) shared.Attribute {
	if parsed, err := shared.ParseAttribute(string(attr)); err == nil {
		return parsed
	}
	return attr
}

// Get returns the score for a stat. Any casing and the legacy aliases resolve.
func (a *AbilityScores) Get(attr shared.Attribute) (int, error) {
	switch resolve(attr) {
	case shared.AttributeStrength:
		return a.Strength, nil
	case shared.AttributeDexterity:
		return a.Dexterity, nil
	case shared.AttributeConstitution:
		return a.Constitution, nil
	case shared.AttributeIntelligence:
		return a.Intelligence, nil
	case shared.AttributeWisdom:
		return a.Wisdom, nil
	case shared.AttributeCharisma:
		return a.Charisma, nil
	}

	return 0, dnderr.InvalidArgumentf("unknown stat %q", attr).
		WithMeta("stat", string(attr))
}

// Set updates the score for a stat
func (a *AbilityScores) Set(attr shared.Attribute, score int) error {
	switch resolve(attr) {
	case shared.AttributeStrength:
		a.Strength = score
	case shared.AttributeDexterity:
		a.Dexterity = score
	case shared.AttributeConstitution:
		a.Constitution = score
	case shared.AttributeIntelligence:
		a.Intelligence = score
	case shared.AttributeWisdom:
		a.Wisdom = score
	case shared.AttributeCharisma:
		a.Charisma = score
	default:
		return dnderr.InvalidArgumentf("unknown stat %q", attr).
			WithMeta("stat", string(attr))
	}

	return nil
}

// Modifier derives the roll modifier from a stat value: floor((score-10)/2).
// Odd scores below 10 round down, so 9 gives -1.
func Modifier(score int) int {
	d := score - 10
	if d < 0 {
		return -((-d + 1) / 2)
	}
	return d / 2
}

// ProficiencyBonus is the level-tiered proficiency bonus. Levels outside
// 1-20 have no bonus.
func ProficiencyBonus(level int) int {
	switch {
	case level < 1:
		return 0
	case level <= 4:
		return 2
	case level <= 8:
		return 3
	case level <= 12:
		return 4
	case level <= 16:
		return 5
	case level <= 20:
		return 6
	default:
		return 0
	}
}
