package character

import (
	"fmt"

	"github.com/KirkDiggler/dnd-character-sheet/internal/dice"
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/equipment"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-character-sheet/internal/events"
)

// AttackOptions are the per-attack choices
type AttackOptions struct {
	Advantage    bool
	Disadvantage bool

	// AdditionalRolls is an expression such as "1d4+2d6"; every group counts
	AdditionalRolls string
}

// AttackResult holds the totals and every roll made for an attack
type AttackResult struct {
	Weapon           string
	HitRoll          int
	TotalHit         int
	DamageRoll       int
	WeaponDamage     int // damage roll plus stat and weapon modifiers, before proc
	ProcDamage       int
	AdditionalDamage []int
	TotalDamage      int
	Critical         bool

	// DroppedDamageGroups are weapon damage groups past the first, which are not rolled
	DroppedDamageGroups []dice.DiceGroup
	Rolls               []*dice.RollResult
	Recap               string
}

// Attack resolves a weapon attack. The character is not changed.
func (c *Character) Attack(weapon *equipment.Weapon, opts *AttackOptions) (*AttackResult, error) {
	if err := weapon.Validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &AttackOptions{}
	}

	statMod, err := c.StatModifier(weapon.Stat)
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidWeapon, "weapon stat")
	}

	groups, err := dice.ParseExpression(string(weapon.Damage))
	if err != nil {
		return nil, dnderr.Wrapf(err, "weapon %q damage", weapon.Name)
	}

	roller := c.getDiceRoller()
	result := &AttackResult{
		Weapon:              weapon.Name,
		DroppedDamageGroups: groups[1:],
	}

	hit, err := roller.Roll(dice.D20(opts.Advantage, opts.Disadvantage))
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to roll hit")
	}
	result.Rolls = append(result.Rolls, hit)
	result.HitRoll = hit.Total

	result.TotalHit = hit.Total + statMod + weapon.HitModifier
	if weapon.Proficient {
		result.TotalHit += ProficiencyBonus(c.Level)
	}

	damage, err := roller.Roll(dice.ForGroup(groups[0]))
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to roll damage")
	}
	result.Rolls = append(result.Rolls, damage)
	result.DamageRoll = damage.Total

	// natural 20 doubles the dice, not the modifiers
	if hit.Total == 20 {
		result.Critical = true
		result.DamageRoll *= 2
	}

	result.WeaponDamage = result.DamageRoll + statMod + weapon.DamageModifier
	result.TotalDamage = result.WeaponDamage

	if weapon.HasProc() {
		procGroups, err := dice.ParseExpression(string(weapon.Proc))
		if err != nil {
			return nil, dnderr.Wrapf(err, "weapon %q proc", weapon.Name)
		}

		proc, err := roller.Roll(dice.ForGroup(procGroups[0]))
		if err != nil {
			return nil, dnderr.Wrap(err, "failed to roll proc")
		}
		result.Rolls = append(result.Rolls, proc)
		result.ProcDamage = proc.Total
		result.TotalDamage += proc.Total
	}

	if opts.AdditionalRolls != "" {
		_, rolls, err := dice.RollExpression(roller, opts.AdditionalRolls)
		if err != nil {
			return nil, dnderr.Wrap(err, "failed to roll additional damage")
		}
		for _, r := range rolls {
			result.Rolls = append(result.Rolls, r)
			result.AdditionalDamage = append(result.AdditionalDamage, r.Total)
			result.TotalDamage += r.Total
		}
	}

	result.Recap = fmt.Sprintf("%s hit for %d with a grand total of %d damage.",
		weapon.Name, result.TotalHit, result.TotalDamage)
	if len(result.DroppedDamageGroups) > 0 {
		result.Recap += fmt.Sprintf(" Extra damage %s was not rolled.",
			dice.FormatExpression(result.DroppedDamageGroups))
	}

	err = c.getPublisher().Emit(&events.AttackResolvedEvent{
		BaseEvent:   events.BaseEvent{Type: events.EventTypeAttackResolved},
		Character:   c.Name,
		Weapon:      weapon.Name,
		HitRoll:     result.HitRoll,
		TotalHit:    result.TotalHit,
		TotalDamage: result.TotalDamage,
		Critical:    result.Critical,
		Recap:       result.Recap,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish attack: %w", err)
	}

	return result, nil
}
