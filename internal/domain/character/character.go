package character

import (
	"github.com/KirkDiggler/dnd-character-sheet/internal/dice"
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/equipment"
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-character-sheet/internal/events"
)

// HitPoints tracks max, current and temporary hit points
type HitPoints struct {
	Max       int
	Current   int
	Temporary int
}

// Purse holds the five coin counters
type Purse struct {
	Copper   int `json:"copper"`
	Silver   int `json:"silver"`
	Electrum int `json:"electrum"`
	Gold     int `json:"gold"`
	Platinum int `json:"platinum"`
}

// SpellResource is a class resource such as spell slots or ki points
type SpellResource struct {
	Name    string `json:"name"`
	Maximum int    `json:"maximum"`
	Current int    `json:"current"`
}

type Character struct {
	ID         string
	Name       string
	Race       string
	Class      string
	Alignment  string
	Background string
	Level      int

	Abilities AbilityScores
	HitPoints HitPoints
	HitDice   equipment.Expression

	ArmorClass        int
	Proficiency       int
	Initiative        int
	Speed             int
	PassivePerception int
	SpellDC           int
	SpellAttack       int

	// ClassSpellModifier names the stat used for spell casting
	ClassSpellModifier string
	ClassSpellResource SpellResource

	Purse Purse

	SavingThrows []*ProficiencyEntry
	Skills       []*ProficiencyEntry

	Weapons []*equipment.Weapon
	Armors  []*equipment.Armor
	Tools   []string
	Misc    []string
	Scrolls []string
	Potions []string

	// diceRoller is the injected dice roller (defaults to random)
	diceRoller dice.Roller
	publisher  events.Publisher
}

// NewCharacter creates a character with zeroed derived values and the
// default skill and saving throw lists
func NewCharacter() *Character {
	return &Character{
		SavingThrows: DefaultSavingThrows(),
		Skills:       DefaultSkills(),
		diceRoller:   dice.NewRandomRoller(),
		publisher:    events.Nop{},
	}
}

// WithDiceRoller sets a custom dice roller (for testing)
func (c *Character) WithDiceRoller(roller dice.Roller) *Character {
	c.diceRoller = roller
	return c
}

// WithPublisher sets where attack and update events go
func (c *Character) WithPublisher(publisher events.Publisher) *Character {
	c.publisher = publisher
	return c
}

func (c *Character) getDiceRoller() dice.Roller {
	if c.diceRoller == nil {
		c.diceRoller = dice.NewRandomRoller()
	}
	return c.diceRoller
}

func (c *Character) getPublisher() events.Publisher {
	if c.publisher == nil {
		c.publisher = events.Nop{}
	}
	return c.publisher
}

// Stat returns the current value of a stat
func (c *Character) Stat(attr shared.Attribute) (int, error) {
	return c.Abilities.Get(attr)
}

// StatModifier returns the modifier of a stat
func (c *Character) StatModifier(attr shared.Attribute) (int, error) {
	score, err := c.Abilities.Get(attr)
	if err != nil {
		return 0, err
	}
	return Modifier(score), nil
}

// Skill finds a skill entry by name
func (c *Character) Skill(name string) (*ProficiencyEntry, error) {
	if e := findEntry(c.Skills, name); e != nil {
		return e, nil
	}
	return nil, dnderr.MissingSkillEntryf("skill %q not found", name).
		WithMeta("skill", name)
}

// SavingThrow finds a saving throw by stat name
func (c *Character) SavingThrow(name string) (*ProficiencyEntry, error) {
	if e := findEntry(c.SavingThrows, name); e != nil {
		return e, nil
	}
	return nil, dnderr.NotFoundf("saving throw %q not found", name)
}

// Weapon finds a carried weapon by name or key
func (c *Character) Weapon(name string) (*equipment.Weapon, error) {
	key := equipment.KeyFor(name)
	for _, w := range c.Weapons {
		if w != nil && (w.Name == name || w.GetKey() == key) {
			return w, nil
		}
	}
	return nil, dnderr.NotFoundf("weapon %q not carried", name).
		WithMeta("weapon", name)
}

// AddWeapon adds a weapon, replacing any carried weapon with the same key
func (c *Character) AddWeapon(weapon *equipment.Weapon) {
	for i, w := range c.Weapons {
		if w != nil && w.GetKey() == weapon.GetKey() {
			c.Weapons[i] = weapon
			return
		}
	}
	c.Weapons = append(c.Weapons, weapon)
}

// AddArmor adds armor, replacing any carried armor with the same key
func (c *Character) AddArmor(armor *equipment.Armor) {
	for i, a := range c.Armors {
		if a != nil && a.GetKey() == armor.GetKey() {
			c.Armors[i] = armor
			return
		}
	}
	c.Armors = append(c.Armors, armor)
}

// HasArmor reports whether any armor is equipped
func (c *Character) HasArmor() bool {
	return len(c.Armors) > 0
}

// Clone deep-copies the character. The roller and publisher are shared.
func (c *Character) Clone() *Character {
	out := *c
	out.SavingThrows = cloneEntries(c.SavingThrows)
	out.Skills = cloneEntries(c.Skills)

	if c.Weapons != nil {
		out.Weapons = make([]*equipment.Weapon, len(c.Weapons))
		for i, w := range c.Weapons {
			out.Weapons[i] = w.Clone()
		}
	}
	if c.Armors != nil {
		out.Armors = make([]*equipment.Armor, len(c.Armors))
		for i, a := range c.Armors {
			out.Armors[i] = a.Clone()
		}
	}

	out.Tools = cloneStrings(c.Tools)
	out.Misc = cloneStrings(c.Misc)
	out.Scrolls = cloneStrings(c.Scrolls)
	out.Potions = cloneStrings(c.Potions)
	return &out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
