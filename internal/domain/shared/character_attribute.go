package shared

import (
	"fmt"
	"strings"
)

// Attribute is one of the six base stats
type Attribute string

var Attributes = []Attribute{AttributeStrength, AttributeDexterity, AttributeConstitution, AttributeIntelligence, AttributeWisdom, AttributeCharisma}

const (
	AttributeNone         Attribute = ""
	AttributeStrength     Attribute = "strength"
	AttributeDexterity    Attribute = "dexterity"
	AttributeConstitution Attribute = "constitution"
	AttributeIntelligence Attribute = "intelligence"
	AttributeWisdom       Attribute = "wisdom"
	AttributeCharisma     Attribute = "charisma"
)

// legacy spellings and short forms found in older save files
var attributeAliases = map[string]Attribute{
	"strenght": AttributeStrength,
	"str":      AttributeStrength,
	"dex":      AttributeDexterity,
	"con":      AttributeConstitution,
	"int":      AttributeIntelligence,
	"wis":      AttributeWisdom,
	"cha":      AttributeCharisma,
}

// ParseAttribute resolves a stat name case-insensitively
func ParseAttribute(name string) (Attribute, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, a := range Attributes {
		if string(a) == key {
			return a, nil
		}
	}
	if a, ok := attributeAliases[key]; ok {
		return a, nil
	}

	return AttributeNone, fmt.Errorf("unknown stat %q", name)
}

// Short returns the three letter abbreviation
func (a Attribute) Short() string {
	if len(a) < 3 {
		return strings.ToUpper(string(a))
	}
	return strings.ToUpper(string(a)[:3])
}

func (a Attribute) Valid() bool {
	_, err := ParseAttribute(string(a))
	return err == nil && a != AttributeNone
}
