package equipment

import (
	"encoding/json"
	"strconv"
	"strings"
)

type EquipmentType string

const (
	EquipmentTypeArmor   EquipmentType = "armor"
	EquipmentTypeWeapon  EquipmentType = "weapon"
	EquipmentTypeUnknown EquipmentType = ""
)

// Equipment is anything the catalog can hand out
type Equipment interface {
	GetEquipmentType() EquipmentType
	GetName() string
	GetKey() string
}

// KeyFor turns a display name into a lookup key, "Short sword" -> "short-sword"
func KeyFor(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// Expression is a roll expression as stored on equipment. Older save files
// store a bare 0 for "no expression", so numbers are accepted on decode.
type Expression string

// IsZero reports whether the expression means "nothing to roll"
func (e Expression) IsZero() bool {
	s := strings.TrimSpace(string(e))
	return s == "" || s == "0"
}

func (e *Expression) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = Expression(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*e = Expression(n.String())
	return nil
}
