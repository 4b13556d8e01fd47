package character

import (
	"bytes"
	"encoding/json"

	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/equipment"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
)

// Document is the flat key/value snapshot of a character. Keys follow the
// save file format: hitPointsMax, savingThrows, purse and so on.
type Document map[string]any

// keys written by older save files
var legacyDocumentKeys = map[string]string{
	"strenght":            "strength",
	"classSpellRessource": "classSpellResource",
}

type characterData struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	Race       string `json:"race"`
	Class      string `json:"combatClass"`
	Alignment  string `json:"alignment"`
	Background string `json:"background"`

	HitPointsMax     int                  `json:"hitPointsMax"`
	HitPointsCurrent int                  `json:"hitPointsCurrent"`
	HitPointsTemp    int                  `json:"hitPointsTemp"`
	HitDice          equipment.Expression `json:"hitDice"`

	ArmorClass        int `json:"armorClass"`
	Proficiency       int `json:"proficiency"`
	Initiative        int `json:"initiative"`
	Speed             int `json:"speed"`
	PassivePerception int `json:"passivePerception"`
	SpellDC           int `json:"spellDC"`
	SpellAttack       int `json:"spellAttack"`

	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`

	Purse              Purse         `json:"purse"`
	ClassSpellModifier string        `json:"classSpellModifier"`
	ClassSpellResource SpellResource `json:"classSpellResource"`

	SavingThrows []*ProficiencyEntry `json:"savingThrows"`
	Skills       []*ProficiencyEntry `json:"skills"`

	Weapons []*equipment.Weapon `json:"weapons"`
	Armors  []*equipment.Armor  `json:"armors"`
	Tools   []string            `json:"tools"`
	Misc    []string            `json:"misc"`
	Scrolls []string            `json:"scrolls"`
	Potions []string            `json:"potions"`
}

// Serialize snapshots every field of the character into a Document
func Serialize(c *Character) (Document, error) {
	if c == nil {
		return nil, dnderr.InvalidArgument("character is required")
	}

	data := &characterData{
		ID:                 c.ID,
		Name:               c.Name,
		Level:              c.Level,
		Race:               c.Race,
		Class:              c.Class,
		Alignment:          c.Alignment,
		Background:         c.Background,
		HitPointsMax:       c.HitPoints.Max,
		HitPointsCurrent:   c.HitPoints.Current,
		HitPointsTemp:      c.HitPoints.Temporary,
		HitDice:            c.HitDice,
		ArmorClass:         c.ArmorClass,
		Proficiency:        c.Proficiency,
		Initiative:         c.Initiative,
		Speed:              c.Speed,
		PassivePerception:  c.PassivePerception,
		SpellDC:            c.SpellDC,
		SpellAttack:        c.SpellAttack,
		Strength:           c.Abilities.Strength,
		Dexterity:          c.Abilities.Dexterity,
		Constitution:       c.Abilities.Constitution,
		Intelligence:       c.Abilities.Intelligence,
		Wisdom:             c.Abilities.Wisdom,
		Charisma:           c.Abilities.Charisma,
		Purse:              c.Purse,
		ClassSpellModifier: c.ClassSpellModifier,
		ClassSpellResource: c.ClassSpellResource,
		SavingThrows:       nonNilEntries(c.SavingThrows),
		Skills:             nonNilEntries(c.Skills),
		Weapons:            nonNilWeapons(c.Weapons),
		Armors:             nonNilArmors(c.Armors),
		Tools:              nonNilStrings(c.Tools),
		Misc:               nonNilStrings(c.Misc),
		Scrolls:            nonNilStrings(c.Scrolls),
		Potions:            nonNilStrings(c.Potions),
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInternal, "failed to encode character")
	}

	return decodeDocument(raw)
}

// Deserialize builds a character from a Document. Legacy key spellings are
// accepted. Skill and saving throw lists missing from the document keep
// their defaults.
func Deserialize(doc Document) (*Character, error) {
	if doc == nil {
		return nil, dnderr.InvalidArgument("document is required")
	}

	normalized := make(map[string]any, len(doc))
	for k, v := range doc {
		normalized[k] = v
	}
	for legacy, current := range legacyDocumentKeys {
		if v, ok := normalized[legacy]; ok {
			if _, exists := normalized[current]; !exists {
				normalized[current] = v
			}
			delete(normalized, legacy)
		}
	}

	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "document is not encodable")
	}

	var data characterData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "document has invalid fields")
	}

	if data.Level < 0 {
		return nil, dnderr.InvalidArgumentf("level must not be negative, got %d", data.Level).
			WithMeta("field", "level")
	}
	for field, v := range map[string]int{
		"hitPointsMax":     data.HitPointsMax,
		"hitPointsCurrent": data.HitPointsCurrent,
		"hitPointsTemp":    data.HitPointsTemp,
	} {
		if v < 0 {
			return nil, dnderr.InvalidArgumentf("%s must not be negative, got %d", field, v).
				WithMeta("field", field)
		}
	}

	c := NewCharacter()
	c.ID = data.ID
	c.Name = data.Name
	c.Level = data.Level
	c.Race = data.Race
	c.Class = data.Class
	c.Alignment = data.Alignment
	c.Background = data.Background
	c.HitPoints = HitPoints{
		Max:       data.HitPointsMax,
		Current:   data.HitPointsCurrent,
		Temporary: data.HitPointsTemp,
	}
	c.HitDice = data.HitDice
	c.ArmorClass = data.ArmorClass
	c.Proficiency = data.Proficiency
	c.Initiative = data.Initiative
	c.Speed = data.Speed
	c.PassivePerception = data.PassivePerception
	c.SpellDC = data.SpellDC
	c.SpellAttack = data.SpellAttack
	c.Abilities = AbilityScores{
		Strength:     data.Strength,
		Dexterity:    data.Dexterity,
		Constitution: data.Constitution,
		Intelligence: data.Intelligence,
		Wisdom:       data.Wisdom,
		Charisma:     data.Charisma,
	}
	c.Purse = data.Purse
	c.ClassSpellModifier = data.ClassSpellModifier
	c.ClassSpellResource = data.ClassSpellResource

	if data.SavingThrows != nil {
		c.SavingThrows = nonNilEntries(data.SavingThrows)
	}
	if data.Skills != nil {
		c.Skills = nonNilEntries(data.Skills)
	}
	c.Weapons = nonNilWeapons(data.Weapons)
	c.Armors = nonNilArmors(data.Armors)
	c.Tools = nonNilStrings(data.Tools)
	c.Misc = nonNilStrings(data.Misc)
	c.Scrolls = nonNilStrings(data.Scrolls)
	c.Potions = nonNilStrings(data.Potions)

	return c, nil
}

// MarshalDocument encodes a Document as indented JSON with sorted keys
func MarshalDocument(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "    ")
}

// UnmarshalDocument decodes JSON into a Document, keeping numbers exact
func UnmarshalDocument(raw []byte) (Document, error) {
	return decodeDocument(raw)
}

func decodeDocument(raw []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "failed to decode character document")
	}
	if doc == nil {
		return nil, dnderr.InvalidArgument("character document is empty")
	}

	return doc, nil
}

func nonNilEntries(in []*ProficiencyEntry) []*ProficiencyEntry {
	out := make([]*ProficiencyEntry, 0, len(in))
	for _, e := range in {
		if e != nil {
			c := *e
			out = append(out, &c)
		}
	}
	return out
}

func nonNilWeapons(in []*equipment.Weapon) []*equipment.Weapon {
	out := make([]*equipment.Weapon, 0, len(in))
	for _, w := range in {
		if w != nil {
			out = append(out, w.Clone())
		}
	}
	return out
}

func nonNilArmors(in []*equipment.Armor) []*equipment.Armor {
	out := make([]*equipment.Armor, 0, len(in))
	for _, a := range in {
		if a != nil {
			out = append(out, a.Clone())
		}
	}
	return out
}

func nonNilStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
