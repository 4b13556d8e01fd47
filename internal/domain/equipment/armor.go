package equipment

import "github.com/KirkDiggler/dnd-character-sheet/internal/domain/shared"

// Armor is body armor or a shield. Bonus names the stat added to BaseAC,
// capped at MaxBonus when MaxBonus is positive.
type Armor struct {
	Name     string           `json:"name" yaml:"name"`
	BaseAC   int              `json:"baseAC" yaml:"base_ac"`
	Bonus    shared.Attribute `json:"bonus" yaml:"bonus"`
	Modifier int              `json:"modifier" yaml:"modifier"`
	MaxBonus int              `json:"maxBonus" yaml:"max_bonus"`
}

func (a *Armor) GetEquipmentType() EquipmentType {
	return EquipmentTypeArmor
}

func (a *Armor) GetName() string {
	return a.Name
}

func (a *Armor) GetKey() string {
	return KeyFor(a.Name)
}

// Clone returns a copy the caller may mutate
func (a *Armor) Clone() *Armor {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}
