package character

import (
	"context"

	"go.uber.org/zap"

	"github.com/KirkDiggler/dnd-character-sheet/internal/dice"
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/equipment"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-character-sheet/internal/events"
	characterRepo "github.com/KirkDiggler/dnd-character-sheet/internal/repositories/characters"
	"github.com/KirkDiggler/dnd-character-sheet/internal/uuid"
)

// Repository is an alias for the character repository interface
type Repository = characterRepo.Repository

// Catalog resolves equipment names
type Catalog interface {
	Lookup(name string) (equipment.Equipment, error)
	Weapon(name string) (*equipment.Weapon, error)
	Keys() ([]string, error)
}

// Service defines the character service interface
type Service interface {
	// Create builds a character from the input, computes derived values and stores it
	Create(ctx context.Context, input *CreateInput) (*character.Character, error)

	// Get retrieves a character by ID
	Get(ctx context.Context, id string) (*character.Character, error)

	// List returns every stored character
	List(ctx context.Context) ([]*character.Character, error)

	// Save recomputes derived values without touching hit points and stores the character
	Save(ctx context.Context, char *character.Character) (*character.Character, error)

	// Update recomputes derived values, resets hit points and stores the character
	Update(ctx context.Context, id string) (*character.Character, error)

	// Refresh recomputes derived values and stores the character, hit points untouched
	Refresh(ctx context.Context, id string) (*character.Character, error)

	// Delete removes a character
	Delete(ctx context.Context, id string) error

	// Attack resolves an attack with one of the character's weapons
	Attack(ctx context.Context, input *AttackInput) (*character.AttackResult, error)

	// Roll rolls a free-form expression
	Roll(ctx context.Context, input *RollInput) (*RollOutput, error)

	// Equip adds catalog equipment to a character
	Equip(ctx context.Context, id, name string) (*character.Character, error)

	// Equipment lists the keys Equip accepts
	Equipment(ctx context.Context) ([]string, error)
}

// CreateInput contains the fields prompted for when a character is created
type CreateInput struct {
	Name       string
	Race       string
	Class      string
	Alignment  string
	Background string
	Level      int
	Abilities  character.AbilityScores

	HitPointsMax int
	HitDice      string
	Speed        int

	ClassSpellModifier string
	ClassSpellResource character.SpellResource
	Purse              character.Purse

	// Names of the skills and saving throws the character is proficient in
	ProficientSkills []string
	ProficientSaves  []string
}

// AttackInput names a character and one of its weapons
type AttackInput struct {
	CharacterID     string
	Weapon          string
	Advantage       bool
	Disadvantage    bool
	AdditionalRolls string
}

// RollInput is a free-form roll. Advantage applies to every group.
type RollInput struct {
	Expression   string
	Advantage    bool
	Disadvantage bool
}

// RollOutput holds the sum and the roll of each group
type RollOutput struct {
	Total int
	Rolls []*dice.RollResult
}

type service struct {
	repository    Repository
	uuidGenerator uuid.Generator
	roller        dice.Roller
	publisher     events.Publisher
	catalog       Catalog
	logger        *zap.Logger
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository    Repository     // Required
	UUIDGenerator uuid.Generator // Optional, defaults to google uuid
	Roller        dice.Roller    // Optional, defaults to a random roller
	Publisher     events.Publisher
	Catalog       Catalog // Optional, Equip fails without one
	Logger        *zap.Logger
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}

	svc := &service{
		repository:    cfg.Repository,
		uuidGenerator: cfg.UUIDGenerator,
		roller:        cfg.Roller,
		publisher:     cfg.Publisher,
		catalog:       cfg.Catalog,
		logger:        cfg.Logger,
	}

	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if svc.publisher == nil {
		svc.publisher = events.Nop{}
	}
	if svc.roller == nil {
		svc.roller = dice.NewRoller(&dice.RollerConfig{Publisher: svc.publisher})
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}

	return svc
}

func (s *service) Create(ctx context.Context, input *CreateInput) (*character.Character, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}
	if input.Name == "" {
		return nil, dnderr.InvalidArgument("character name is required")
	}
	if input.Level < 0 {
		return nil, dnderr.InvalidArgumentf("level cannot be negative, got %d", input.Level).
			WithMeta("level", input.Level)
	}
	if input.HitPointsMax < 0 {
		return nil, dnderr.InvalidArgumentf("hit points cannot be negative, got %d", input.HitPointsMax)
	}

	char := s.attach(character.NewCharacter())
	char.ID = s.uuidGenerator.New()
	char.Name = input.Name
	char.Race = input.Race
	char.Class = input.Class
	char.Alignment = input.Alignment
	char.Background = input.Background
	char.Level = input.Level
	char.Abilities = input.Abilities
	char.HitPoints.Max = input.HitPointsMax
	char.HitDice = equipment.Expression(input.HitDice)
	char.Speed = input.Speed
	char.ClassSpellModifier = input.ClassSpellModifier
	char.ClassSpellResource = input.ClassSpellResource
	char.Purse = input.Purse

	for _, name := range input.ProficientSkills {
		skill, err := char.Skill(name)
		if err != nil {
			return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "unknown skill")
		}
		skill.Proficient = true
	}
	for _, name := range input.ProficientSaves {
		save, err := char.SavingThrow(name)
		if err != nil {
			return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "unknown saving throw")
		}
		save.Proficient = true
	}

	if err := char.Update(); err != nil {
		return nil, dnderr.Wrapf(err, "failed to compute derived values for %s", char.Name).
			WithMeta("operation", "Create")
	}

	if err := s.repository.Create(ctx, char); err != nil {
		return nil, dnderr.Wrap(err, "failed to save character").
			WithMeta("character_id", char.ID)
	}

	s.logger.Info("character created",
		zap.String("character_id", char.ID),
		zap.String("name", char.Name),
		zap.Int("level", char.Level))

	return char, nil
}

func (s *service) Get(ctx context.Context, id string) (*character.Character, error) {
	char, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get character '%s'", id).
			WithMeta("character_id", id)
	}
	return s.attach(char), nil
}

func (s *service) List(ctx context.Context) ([]*character.Character, error) {
	chars, err := s.repository.List(ctx)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list characters")
	}
	for _, char := range chars {
		s.attach(char)
	}
	return chars, nil
}

func (s *service) Save(ctx context.Context, char *character.Character) (*character.Character, error) {
	if char == nil {
		return nil, dnderr.InvalidArgument("character cannot be nil")
	}

	s.attach(char)
	if err := char.Refresh(); err != nil {
		return nil, dnderr.Wrapf(err, "failed to compute derived values for %s", char.Name).
			WithMeta("character_id", char.ID)
	}

	if err := s.repository.Update(ctx, char); err != nil {
		return nil, dnderr.Wrap(err, "failed to save character").
			WithMeta("character_id", char.ID)
	}
	return char, nil
}

func (s *service) Update(ctx context.Context, id string) (*character.Character, error) {
	return s.recompute(ctx, id, (*character.Character).Update)
}

func (s *service) Refresh(ctx context.Context, id string) (*character.Character, error) {
	return s.recompute(ctx, id, (*character.Character).Refresh)
}

func (s *service) recompute(ctx context.Context, id string, fn func(*character.Character) error) (*character.Character, error) {
	char, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(char); err != nil {
		return nil, dnderr.Wrapf(err, "failed to compute derived values for %s", char.Name).
			WithMeta("character_id", id)
	}

	if err := s.repository.Update(ctx, char); err != nil {
		return nil, dnderr.Wrap(err, "failed to save character").
			WithMeta("character_id", id)
	}
	return char, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return dnderr.Wrapf(err, "failed to delete character '%s'", id).
			WithMeta("character_id", id)
	}

	s.logger.Info("character deleted", zap.String("character_id", id))
	return nil
}

func (s *service) Attack(ctx context.Context, input *AttackInput) (*character.AttackResult, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}

	char, err := s.Get(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	weapon, err := s.findWeapon(char, input.Weapon)
	if err != nil {
		return nil, err
	}

	result, err := char.Attack(weapon, &character.AttackOptions{
		Advantage:       input.Advantage,
		Disadvantage:    input.Disadvantage,
		AdditionalRolls: input.AdditionalRolls,
	})
	if err != nil {
		return nil, dnderr.Wrapf(err, "%s failed to attack with %s", char.Name, input.Weapon).
			WithMeta("character_id", char.ID)
	}

	if len(result.DroppedDamageGroups) > 0 {
		s.logger.Warn("weapon damage groups past the first were not rolled",
			zap.String("character_id", char.ID),
			zap.String("weapon", weapon.Name),
			zap.String("dropped", dice.FormatExpression(result.DroppedDamageGroups)))
	}

	return result, nil
}

// findWeapon prefers the character's own copy, which carries its modifiers
func (s *service) findWeapon(char *character.Character, name string) (*equipment.Weapon, error) {
	weapon, err := char.Weapon(name)
	if err == nil {
		return weapon, nil
	}
	if !dnderr.IsNotFound(err) || s.catalog == nil {
		return nil, err
	}

	weapon, catalogErr := s.catalog.Weapon(name)
	if catalogErr != nil {
		return nil, dnderr.Wrapf(catalogErr, "%s has no weapon %q", char.Name, name).
			WithMeta("character_id", char.ID)
	}

	s.logger.Debug("attacking with catalog weapon",
		zap.String("character_id", char.ID),
		zap.String("weapon", weapon.Name))
	return weapon, nil
}

func (s *service) Roll(_ context.Context, input *RollInput) (*RollOutput, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}

	groups, err := dice.ParseExpression(input.Expression)
	if err != nil {
		return nil, err
	}

	out := &RollOutput{Rolls: make([]*dice.RollResult, 0, len(groups))}
	for _, group := range groups {
		result, err := s.roller.Roll(&dice.RollInput{
			Sides:        group.Sides,
			Repetitions:  group.Count,
			Advantage:    input.Advantage,
			Disadvantage: input.Disadvantage,
		})
		if err != nil {
			return nil, dnderr.Wrapf(err, "failed to roll %s", group)
		}
		out.Total += result.Total
		out.Rolls = append(out.Rolls, result)
	}

	return out, nil
}

func (s *service) Equip(ctx context.Context, id, name string) (*character.Character, error) {
	if s.catalog == nil {
		return nil, dnderr.Internalf("no equipment catalog configured")
	}

	char, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item, err := s.catalog.Lookup(name)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to find equipment %q", name).
			WithMeta("character_id", id)
	}

	switch e := item.(type) {
	case *equipment.Weapon:
		char.AddWeapon(e)
	case *equipment.Armor:
		char.AddArmor(e)
	default:
		return nil, dnderr.InvalidArgumentf("%q cannot be equipped", name)
	}

	if err := char.Refresh(); err != nil {
		return nil, dnderr.Wrapf(err, "failed to compute derived values for %s", char.Name).
			WithMeta("character_id", id)
	}

	if err := s.repository.Update(ctx, char); err != nil {
		return nil, dnderr.Wrap(err, "failed to save character").
			WithMeta("character_id", id)
	}

	s.logger.Info("equipment added",
		zap.String("character_id", id),
		zap.String("equipment", item.GetName()),
		zap.String("type", string(item.GetEquipmentType())))

	return char, nil
}

func (s *service) attach(char *character.Character) *character.Character {
	return char.WithDiceRoller(s.roller).WithPublisher(s.publisher)
}

func (s *service) Equipment(_ context.Context) ([]string, error) {
	if s.catalog == nil {
		return nil, dnderr.Internalf("no equipment catalog configured")
	}

	keys, err := s.catalog.Keys()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list equipment")
	}
	return keys, nil
}
