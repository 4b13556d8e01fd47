package character

import (
	"fmt"

	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-character-sheet/internal/events"
)

// UpdateModifiers recomputes each entry's modifier from the character's
// current stats. The stat is the entry's name when useNameAsStat is set,
// otherwise its Stat field. Entries are mutated in place.
func (c *Character) UpdateModifiers(entries []*ProficiencyEntry, useNameAsStat bool) error {
	return updateModifiers(entries, useNameAsStat, &c.Abilities, ProficiencyBonus(c.Level))
}

func updateModifiers(entries []*ProficiencyEntry, useNameAsStat bool, scores *AbilityScores, proficiency int) error {
	for _, entry := range entries {
		if entry == nil {
			continue
		}

		key := string(entry.Stat)
		if useNameAsStat {
			key = entry.Name
		}

		attr, err := shared.ParseAttribute(key)
		if err != nil {
			return dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, fmt.Sprintf("entry %q", entry.Name)).
				WithMeta("entry", entry.Name)
		}

		score, err := scores.Get(attr)
		if err != nil {
			return err
		}

		entry.Modifier = Modifier(score)
		if entry.Proficient {
			entry.Modifier += proficiency
		}
	}

	return nil
}

// Update recomputes every derived value and resets current and temporary
// hit points to max. Nothing is changed when it fails.
func (c *Character) Update() error {
	return c.recompute(true)
}

// Refresh is Update without the hit point reset, for use mid-fight
func (c *Character) Refresh() error {
	return c.recompute(false)
}

// derived is the staging area for a recompute
type derived struct {
	proficiency       int
	skills            []*ProficiencyEntry
	savingThrows      []*ProficiencyEntry
	spellAttack       int
	spellDC           int
	initiative        int
	passivePerception int
	armorClass        int
}

func (c *Character) recompute(resetHP bool) error {
	d := &derived{
		skills:       cloneEntries(c.Skills),
		savingThrows: cloneEntries(c.SavingThrows),
		armorClass:   c.ArmorClass,
	}

	d.proficiency = ProficiencyBonus(c.Level)

	if err := updateModifiers(d.skills, false, &c.Abilities, d.proficiency); err != nil {
		return dnderr.Wrap(err, "failed to update skills")
	}

	if err := updateModifiers(d.savingThrows, true, &c.Abilities, d.proficiency); err != nil {
		return dnderr.Wrap(err, "failed to update saving throws")
	}

	spellStat, err := shared.ParseAttribute(c.ClassSpellModifier)
	if err != nil {
		return dnderr.UnknownSpellStatf("spell casting stat %q is not a known stat", c.ClassSpellModifier).
			WithMeta("stat", c.ClassSpellModifier)
	}
	spellScore, err := c.Abilities.Get(spellStat)
	if err != nil {
		return err
	}
	d.spellAttack = d.proficiency + Modifier(spellScore)
	d.spellDC = 8 + d.spellAttack

	dexMod := Modifier(c.Abilities.Dexterity)
	d.initiative = dexMod

	perception := findEntry(d.skills, SkillPerception)
	if perception == nil {
		return dnderr.MissingSkillEntryf("skill %q is required for passive perception", SkillPerception).
			WithMeta("skill", SkillPerception)
	}
	d.passivePerception = 10 + Modifier(c.Abilities.Wisdom)
	if perception.Proficient {
		d.passivePerception += d.proficiency
	}

	// Armor class from equipped armor is not computed; the stored value is kept.
	if !c.HasArmor() {
		d.armorClass = 10 + dexMod
	}

	// published before the commit so a failed publish leaves the character as it was
	err = c.getPublisher().Emit(&events.CharacterUpdatedEvent{
		BaseEvent:   events.BaseEvent{Type: events.EventTypeCharacterUpdated},
		Character:   c.Name,
		Level:       c.Level,
		Proficiency: d.proficiency,
		HPReset:     resetHP,
	})
	if err != nil {
		return fmt.Errorf("failed to publish update: %w", err)
	}

	c.Proficiency = d.proficiency
	c.Skills = d.skills
	c.SavingThrows = d.savingThrows
	c.SpellAttack = d.spellAttack
	c.SpellDC = d.spellDC
	c.Initiative = d.initiative
	c.PassivePerception = d.passivePerception
	c.ArmorClass = d.armorClass

	if resetHP {
		c.HitPoints.Current = c.HitPoints.Max
		c.HitPoints.Temporary = c.HitPoints.Max
	}

	return nil
}
