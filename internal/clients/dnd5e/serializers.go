package dnd5e

import (
	"strings"

	apiEntities "github.com/fadedpez/dnd5e-api/entities"

	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/equipment"
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/shared"
)

// medium armor caps the dexterity bonus; the API does not report the cap
const mediumArmorMaxBonus = 2

func apiEquipmentInterfaceToEquipment(input interface{}) equipment.Equipment {
	if input == nil {
		return nil
	}

	switch equip := input.(type) {
	case *apiEntities.Weapon:
		return apiWeaponToWeapon(equip)
	case *apiEntities.Armor:
		return apiArmorToArmor(equip)
	default:
		// gear, tools and packs have nothing to attack or defend with
		return nil
	}
}

func apiWeaponToWeapon(input *apiEntities.Weapon) *equipment.Weapon {
	weapon := &equipment.Weapon{
		Name: input.Name,
		Stat: weaponStat(input.WeaponRange, apiPropertyKeys(input.Properties)),
	}
	if input.Damage != nil {
		weapon.Damage = equipment.Expression(strings.ToLower(input.Damage.DamageDice))
	}

	return weapon
}

// weaponStat picks dexterity for ranged and finesse weapons, strength otherwise
func weaponStat(weaponRange string, properties []string) shared.Attribute {
	if strings.EqualFold(weaponRange, "ranged") {
		return shared.AttributeDexterity
	}
	for _, p := range properties {
		if p == "finesse" {
			return shared.AttributeDexterity
		}
	}
	return shared.AttributeStrength
}

func apiPropertyKeys(input []*apiEntities.ReferenceItem) []string {
	keys := make([]string, 0, len(input))
	for _, ref := range input {
		if ref != nil {
			keys = append(keys, strings.ToLower(ref.Key))
		}
	}
	return keys
}

func apiArmorToArmor(input *apiEntities.Armor) *equipment.Armor {
	return armorFromAPI(input.Name, input.ArmorCategory, input.ArmorClass.Base, input.ArmorClass.DexBonus)
}

func armorFromAPI(name, category string, base int, dexBonus bool) *equipment.Armor {
	armor := &equipment.Armor{
		Name:   name,
		BaseAC: base,
	}
	if dexBonus {
		armor.Bonus = shared.AttributeDexterity
		if strings.EqualFold(category, "medium") {
			armor.MaxBonus = mediumArmorMaxBonus
		}
	}

	return armor
}
