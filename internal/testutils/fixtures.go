package testutils

import (
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/equipment"
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/shared"
)

// CreateTestCharacter creates a level 3 ranger with derived values computed
func CreateTestCharacter(id, name string) *character.Character {
	char := character.NewCharacter()
	char.ID = id
	char.Name = name
	char.Race = "Wood elf"
	char.Class = "Ranger"
	char.Alignment = "Neutral good"
	char.Background = "Outlander"
	char.Level = 3
	char.HitPoints.Max = 28
	char.HitDice = "3d10"
	char.Speed = 35
	char.ClassSpellModifier = "wisdom"
	char.Abilities = character.AbilityScores{
		Strength:     12,
		Dexterity:    17,
		Constitution: 14,
		Intelligence: 10,
		Wisdom:       15,
		Charisma:     8,
	}
	char.Purse.Gold = 12
	char.Purse.Silver = 7
	char.ClassSpellResource = character.SpellResource{Name: "spell slots", Maximum: 3, Current: 3}
	char.Tools = []string{"herbalism kit"}

	for _, entry := range char.Skills {
		switch entry.Name {
		case "perception", "stealth", "survival":
			entry.Proficient = true
		}
	}
	for _, entry := range char.SavingThrows {
		switch entry.Name {
		case "strength", "dexterity":
			entry.Proficient = true
		}
	}

	char.AddWeapon(CreateTestWeapon("Longbow", "dexterity", "1d8"))
	char.AddWeapon(CreateTestWeapon("Shortsword", "dexterity", "1d6"))

	if err := char.Update(); err != nil {
		panic(err)
	}
	return char
}

// CreateTestWeapon creates a proficient weapon with no modifiers
func CreateTestWeapon(name, stat, damage string) *equipment.Weapon {
	return &equipment.Weapon{
		Name:       name,
		Stat:       shared.Attribute(stat),
		Damage:     equipment.Expression(damage),
		Proficient: true,
	}
}

// CreateTestArmor creates light armor with an uncapped dexterity bonus
func CreateTestArmor(name string, baseAC int) *equipment.Armor {
	return &equipment.Armor{
		Name:   name,
		BaseAC: baseAC,
		Bonus:  "dexterity",
	}
}
