package dnd5e

//go:generate mockgen -destination=mock/mock_client.go -package=mockdnd5e . Client

import (
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/equipment"
)

// Client looks up SRD equipment and converts it to sheet weapons and armor
type Client interface {
	// GetEquipment returns a *equipment.Weapon or *equipment.Armor
	GetEquipment(key string) (equipment.Equipment, error)

	// ListEquipment returns the keys of every SRD item
	ListEquipment() ([]string, error)
}
