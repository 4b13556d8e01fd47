// Package catalog resolves equipment names to weapons and armor, first from a
// YAML file of custom equipment and then, when configured, from the SRD API.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/dnd-character-sheet/internal/clients/dnd5e"
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/equipment"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
)

// File is the on-disk layout of custom equipment
type File struct {
	Weapons []*equipment.Weapon `yaml:"weapons"`
	Armors  []*equipment.Armor  `yaml:"armors"`
}

// Config holds catalog sources. Both are optional.
type Config struct {
	Path   string
	SRD    dnd5e.Client
	Logger *zap.Logger
}

// Catalog is safe for concurrent use
type Catalog struct {
	weapons map[string]*equipment.Weapon
	armors  map[string]*equipment.Armor
	srd     dnd5e.Client
	logger  *zap.Logger

	mu    sync.Mutex
	fetch map[string]equipment.Equipment
}

// New loads the custom equipment file, if any
func New(cfg *Config) (*Catalog, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	file := &File{}
	if cfg.Path != "" {
		data, err := os.ReadFile(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("reading equipment file: %w", err)
		}
		if file, err = Parse(data); err != nil {
			return nil, dnderr.Wrapf(err, "equipment file %s", cfg.Path)
		}
	}

	c, err := FromFile(file)
	if err != nil {
		return nil, err
	}
	c.srd = cfg.SRD
	c.logger = logger

	logger.Debug("equipment catalog loaded",
		zap.Int("weapons", len(c.weapons)),
		zap.Int("armors", len(c.armors)),
		zap.Bool("srd", c.srd != nil))

	return c, nil
}

// Parse decodes and validates a YAML equipment file
func Parse(data []byte) (*File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "invalid equipment yaml")
	}

	seen := make(map[string]bool)
	for _, w := range file.Weapons {
		if err := w.Validate(); err != nil {
			return nil, err
		}
		if seen[w.GetKey()] {
			return nil, dnderr.InvalidArgumentf("equipment %q is defined twice", w.Name)
		}
		seen[w.GetKey()] = true
	}
	for _, a := range file.Armors {
		if a == nil || a.Name == "" {
			return nil, dnderr.InvalidArgument("armor name is required")
		}
		if seen[a.GetKey()] {
			return nil, dnderr.InvalidArgumentf("equipment %q is defined twice", a.Name)
		}
		seen[a.GetKey()] = true
	}

	return &file, nil
}

// FromFile builds a catalog without an SRD fallback
func FromFile(file *File) (*Catalog, error) {
	c := &Catalog{
		weapons: make(map[string]*equipment.Weapon),
		armors:  make(map[string]*equipment.Armor),
		logger:  zap.NewNop(),
		fetch:   make(map[string]equipment.Equipment),
	}
	if file == nil {
		return c, nil
	}

	for _, w := range file.Weapons {
		c.weapons[w.GetKey()] = w
	}
	for _, a := range file.Armors {
		c.armors[a.GetKey()] = a
	}
	return c, nil
}

// Lookup finds a weapon or armor by name. The result is a copy.
func (c *Catalog) Lookup(name string) (equipment.Equipment, error) {
	key := equipment.KeyFor(name)
	if key == "" {
		return nil, dnderr.InvalidArgument("equipment name is required")
	}

	if w, ok := c.weapons[key]; ok {
		return w.Clone(), nil
	}
	if a, ok := c.armors[key]; ok {
		return a.Clone(), nil
	}

	if c.srd == nil {
		return nil, dnderr.NotFoundf("equipment %q is not in the catalog", name).
			WithMeta("key", key)
	}

	equip, err := c.fromSRD(key)
	if err != nil {
		return nil, err
	}
	switch e := equip.(type) {
	case *equipment.Weapon:
		return e.Clone(), nil
	case *equipment.Armor:
		return e.Clone(), nil
	}
	return nil, dnderr.NotFoundf("equipment %q is not a weapon or armor", name)
}

// Weapon finds a weapon by name
func (c *Catalog) Weapon(name string) (*equipment.Weapon, error) {
	equip, err := c.Lookup(name)
	if err != nil {
		return nil, err
	}
	weapon, ok := equip.(*equipment.Weapon)
	if !ok {
		return nil, dnderr.InvalidWeaponf("%q is %s, not a weapon", name, equip.GetEquipmentType())
	}
	return weapon, nil
}

// Keys lists custom equipment followed by SRD equipment, each sorted
func (c *Catalog) Keys() ([]string, error) {
	custom := make([]string, 0, len(c.weapons)+len(c.armors))
	for k := range c.weapons {
		custom = append(custom, k)
	}
	for k := range c.armors {
		custom = append(custom, k)
	}
	sort.Strings(custom)

	if c.srd == nil {
		return custom, nil
	}

	srdKeys, err := c.srd.ListEquipment()
	if err != nil {
		return nil, err
	}
	sort.Strings(srdKeys)
	return append(custom, srdKeys...), nil
}

func (c *Catalog) fromSRD(key string) (equipment.Equipment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if equip, ok := c.fetch[key]; ok {
		return equip, nil
	}

	equip, err := c.srd.GetEquipment(key)
	if err != nil {
		c.logger.Warn("srd lookup failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	c.fetch[key] = equip
	return equip, nil
}
