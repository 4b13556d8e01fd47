package equipment

import (
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
)

// Weapon is an attack-capable item. Stat names the ability whose modifier
// applies to both the hit and damage totals.
type Weapon struct {
	Name           string           `json:"name" yaml:"name"`
	Stat           shared.Attribute `json:"type" yaml:"type"`
	Damage         Expression       `json:"damage" yaml:"damage"`
	DamageModifier int              `json:"damageMod" yaml:"damage_mod"`
	HitModifier    int              `json:"hitMod" yaml:"hit_mod"`
	Proficient     bool             `json:"proficient" yaml:"proficient"`
	Proc           Expression       `json:"proc" yaml:"proc"`
}

// HasProc reports whether the weapon rolls bonus damage on every attack
func (w *Weapon) HasProc() bool {
	return !w.Proc.IsZero()
}

// Validate checks the fields an attack needs
func (w *Weapon) Validate() error {
	if w == nil {
		return dnderr.InvalidWeapon("weapon is required")
	}
	if w.Name == "" {
		return dnderr.InvalidWeapon("weapon name is required")
	}
	if w.Damage.IsZero() {
		return dnderr.InvalidWeaponf("weapon %q has no damage expression", w.Name).
			WithMeta("weapon", w.Name)
	}
	if _, err := shared.ParseAttribute(string(w.Stat)); err != nil {
		return dnderr.InvalidWeaponf("weapon %q has unknown stat %q", w.Name, w.Stat).
			WithMeta("weapon", w.Name)
	}

	return nil
}

func (w *Weapon) GetEquipmentType() EquipmentType {
	return EquipmentTypeWeapon
}

func (w *Weapon) GetName() string {
	return w.Name
}

func (w *Weapon) GetKey() string {
	return KeyFor(w.Name)
}

// Clone returns a copy the caller may mutate
func (w *Weapon) Clone() *Weapon {
	if w == nil {
		return nil
	}
	c := *w
	return &c
}
