package character

import "github.com/KirkDiggler/dnd-character-sheet/internal/domain/shared"

// ProficiencyEntry is a skill or saving throw. Modifier is a cache of the
// stat modifier plus proficiency and is rewritten on every update.
type ProficiencyEntry struct {
	Name       string           `json:"name"`
	Stat       shared.Attribute `json:"type,omitempty"`
	Modifier   int              `json:"modifier"`
	Proficient bool             `json:"proficient"`
}

// SkillPerception feeds passive perception
const SkillPerception = "perception"

// DefaultSkills returns the 18 standard skills, none proficient
func DefaultSkills() []*ProficiencyEntry {
	skills := []struct {
		name string
		stat shared.Attribute
	}{
		{"acrobatics", shared.AttributeDexterity},
		{"animalHandling", shared.AttributeWisdom},
		{"arcana", shared.AttributeIntelligence},
		{"athletics", shared.AttributeStrength},
		{"deception", shared.AttributeCharisma},
		{"history", shared.AttributeIntelligence},
		{"insight", shared.AttributeWisdom},
		{"intimidation", shared.AttributeCharisma},
		{"investigation", shared.AttributeIntelligence},
		{"medicine", shared.AttributeWisdom},
		{"nature", shared.AttributeIntelligence},
		{SkillPerception, shared.AttributeWisdom},
		{"performance", shared.AttributeCharisma},
		{"persuasion", shared.AttributeCharisma},
		{"religion", shared.AttributeIntelligence},
		{"sleightOfHand", shared.AttributeDexterity},
		{"stealth", shared.AttributeDexterity},
		{"survival", shared.AttributeWisdom},
	}

	out := make([]*ProficiencyEntry, len(skills))
	for i, s := range skills {
		out[i] = &ProficiencyEntry{Name: s.name, Stat: s.stat}
	}
	return out
}

// DefaultSavingThrows returns one saving throw per stat, named after the stat
func DefaultSavingThrows() []*ProficiencyEntry {
	out := make([]*ProficiencyEntry, len(shared.Attributes))
	for i, attr := range shared.Attributes {
		out[i] = &ProficiencyEntry{Name: string(attr)}
	}
	return out
}

func findEntry(entries []*ProficiencyEntry, name string) *ProficiencyEntry {
	for _, e := range entries {
		if e != nil && e.Name == name {
			return e
		}
	}
	return nil
}

func cloneEntries(entries []*ProficiencyEntry) []*ProficiencyEntry {
	if entries == nil {
		return nil
	}
	out := make([]*ProficiencyEntry, len(entries))
	for i, e := range entries {
		if e == nil {
			continue
		}
		c := *e
		out[i] = &c
	}
	return out
}
