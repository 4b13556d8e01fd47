package character_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KirkDiggler/dnd-character-sheet/internal/catalog"
	"github.com/KirkDiggler/dnd-character-sheet/internal/dice"
	mockdice "github.com/KirkDiggler/dnd-character-sheet/internal/dice/mock"
	domain "github.com/KirkDiggler/dnd-character-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/equipment"
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-character-sheet/internal/events"
	mockcharacters "github.com/KirkDiggler/dnd-character-sheet/internal/repositories/characters/mock"
	"github.com/KirkDiggler/dnd-character-sheet/internal/services/character"
	mockuuid "github.com/KirkDiggler/dnd-character-sheet/internal/uuid/mocks"
)

// CharacterServiceTestSuite defines the test suite for character service
type CharacterServiceTestSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	mockRepository *mockcharacters.MockRepository
	mockUUID       *mockuuid.MockGenerator
	source         *mockdice.ManualSource
	recorder       *events.Recorder
	logs           *observer.ObservedLogs
	service        character.Service
	ctx            context.Context
}

func (s *CharacterServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepository = mockcharacters.NewMockRepository(s.ctrl)
	s.mockUUID = mockuuid.NewMockGenerator(s.ctrl)
	s.source = mockdice.NewManualSource()
	s.recorder = events.NewRecorder()
	s.ctx = context.Background()

	bus := events.NewBus(nil)
	bus.Subscribe(s.recorder, events.AllEventTypes...)

	core, logs := observer.New(zapcore.DebugLevel)
	s.logs = logs

	equip, err := catalog.FromFile(&catalog.File{
		Weapons: []*equipment.Weapon{{
			Name:           "Flame tongue",
			Stat:           shared.AttributeStrength,
			Damage:         "1d8",
			DamageModifier: 1,
			HitModifier:    1,
			Proficient:     true,
			Proc:           "2d6",
		}},
		Armors: []*equipment.Armor{{Name: "Chain mail", BaseAC: 16}},
	})
	s.Require().NoError(err)

	s.service = character.NewService(&character.ServiceConfig{
		Repository:    s.mockRepository,
		UUIDGenerator: s.mockUUID,
		Roller:        dice.NewRoller(&dice.RollerConfig{Source: s.source, Publisher: bus}),
		Publisher:     bus,
		Catalog:       equip,
		Logger:        zap.New(core),
	})
}

func (s *CharacterServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestCharacterServiceSuite(t *testing.T) {
	suite.Run(t, new(CharacterServiceTestSuite))
}

func wizardInput() *character.CreateInput {
	return &character.CreateInput{
		Name:      "Elminster",
		Race:      "human",
		Class:     "wizard",
		Alignment: "neutral good",
		Level:     5,
		Abilities: domain.AbilityScores{
			Strength:     8,
			Dexterity:    14,
			Constitution: 12,
			Intelligence: 17,
			Wisdom:       12,
			Charisma:     10,
		},
		HitPointsMax:       27,
		HitDice:            "5d6",
		Speed:              30,
		ClassSpellModifier: "intelligence",
		ClassSpellResource: domain.SpellResource{Name: "spell slots", Maximum: 4, Current: 4},
		Purse:              domain.Purse{Gold: 15},
		ProficientSkills:   []string{"arcana", "perception"},
		ProficientSaves:    []string{"intelligence", "wisdom"},
	}
}

// storedWizard is what Create would have persisted, with a dagger added
func (s *CharacterServiceTestSuite) storedWizard() *domain.Character {
	s.mockUUID.EXPECT().New().Return("wizard-1")
	s.mockRepository.EXPECT().Create(s.ctx, gomock.Any()).Return(nil)

	char, err := s.service.Create(s.ctx, wizardInput())
	s.Require().NoError(err)

	char.AddWeapon(&equipment.Weapon{
		Name:       "Dagger",
		Stat:       shared.AttributeDexterity,
		Damage:     "1d4",
		Proficient: true,
	})
	s.recorder.Reset()
	return char.Clone()
}

func (s *CharacterServiceTestSuite) TestCreate_Success() {
	s.mockUUID.EXPECT().New().Return("wizard-1")

	var saved *domain.Character
	s.mockRepository.EXPECT().Create(s.ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, char *domain.Character) error {
			saved = char
			return nil
		})

	char, err := s.service.Create(s.ctx, wizardInput())
	s.Require().NoError(err)
	s.Same(saved, char)

	s.Equal("wizard-1", char.ID)
	s.Equal(3, char.Proficiency)
	s.Equal(6, char.SpellAttack)
	s.Equal(14, char.SpellDC)
	s.Equal(2, char.Initiative)
	s.Equal(14, char.PassivePerception)
	s.Equal(12, char.ArmorClass)
	s.Equal(domain.HitPoints{Max: 27, Current: 27, Temporary: 27}, char.HitPoints)
	s.Equal(equipment.Expression("5d6"), char.HitDice)

	arcana, err := char.Skill("arcana")
	s.Require().NoError(err)
	s.True(arcana.Proficient)
	s.Equal(6, arcana.Modifier)

	save, err := char.SavingThrow("intelligence")
	s.Require().NoError(err)
	s.Equal(6, save.Modifier)

	s.Len(s.recorder.OfType(events.EventTypeCharacterUpdated), 1)
	s.Equal(1, s.logs.FilterMessage("character created").Len())
}

func (s *CharacterServiceTestSuite) TestCreate_Validation() {
	tests := []struct {
		name  string
		input *character.CreateInput
	}{
		{"nil input", nil},
		{"missing name", &character.CreateInput{ClassSpellModifier: "wisdom"}},
		{"negative level", &character.CreateInput{Name: "x", Level: -1}},
		{"negative hit points", &character.CreateInput{Name: "x", HitPointsMax: -3}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.Create(s.ctx, tt.input)
			s.True(dnderr.IsInvalidArgument(err), "unexpected error: %v", err)
		})
	}
}

func (s *CharacterServiceTestSuite) TestCreate_UnknownSkill() {
	s.mockUUID.EXPECT().New().Return("wizard-1")

	input := wizardInput()
	input.ProficientSkills = []string{"basket weaving"}

	_, err := s.service.Create(s.ctx, input)
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *CharacterServiceTestSuite) TestCreate_UnknownSpellStat() {
	s.mockUUID.EXPECT().New().Return("wizard-1")

	input := wizardInput()
	input.ClassSpellModifier = "luck"

	_, err := s.service.Create(s.ctx, input)
	s.True(dnderr.IsUnknownSpellStat(err))
}

func (s *CharacterServiceTestSuite) TestCreate_RepositoryError() {
	s.mockUUID.EXPECT().New().Return("wizard-1")
	s.mockRepository.EXPECT().Create(s.ctx, gomock.Any()).
		Return(dnderr.AlreadyExistsf("character with ID 'wizard-1' already exists"))

	_, err := s.service.Create(s.ctx, wizardInput())
	s.True(dnderr.IsAlreadyExists(err))
}

func (s *CharacterServiceTestSuite) TestGet_NotFound() {
	s.mockRepository.EXPECT().Get(s.ctx, "missing").
		Return(nil, dnderr.NotFoundf("character with ID 'missing' not found"))

	_, err := s.service.Get(s.ctx, "missing")
	s.True(dnderr.IsNotFound(err))
	s.Equal("missing", dnderr.GetMeta(err)["character_id"])
}

func (s *CharacterServiceTestSuite) TestList() {
	stored := s.storedWizard()
	s.mockRepository.EXPECT().List(s.ctx).Return([]*domain.Character{stored}, nil)

	chars, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Len(chars, 1)

	s.mockRepository.EXPECT().List(s.ctx).Return(nil, errors.New("connection refused"))
	_, err = s.service.List(s.ctx)
	s.Error(err)
}

func (s *CharacterServiceTestSuite) TestUpdate_ResetsHitPoints() {
	stored := s.storedWizard()
	stored.HitPoints.Current = 4
	stored.Abilities.Dexterity = 18

	s.mockRepository.EXPECT().Get(s.ctx, "wizard-1").Return(stored, nil)
	s.mockRepository.EXPECT().Update(s.ctx, stored).Return(nil)

	char, err := s.service.Update(s.ctx, "wizard-1")
	s.Require().NoError(err)
	s.Equal(27, char.HitPoints.Current)
	s.Equal(4, char.Initiative)
	s.Equal(14, char.ArmorClass)

	updates := s.recorder.OfType(events.EventTypeCharacterUpdated)
	s.Require().Len(updates, 1)
	s.True(updates[0].(*events.CharacterUpdatedEvent).HPReset)
}

func (s *CharacterServiceTestSuite) TestRefresh_KeepsHitPoints() {
	stored := s.storedWizard()
	stored.HitPoints.Current = 4
	stored.Level = 9

	s.mockRepository.EXPECT().Get(s.ctx, "wizard-1").Return(stored, nil)
	s.mockRepository.EXPECT().Update(s.ctx, stored).Return(nil)

	char, err := s.service.Refresh(s.ctx, "wizard-1")
	s.Require().NoError(err)
	s.Equal(4, char.HitPoints.Current)
	s.Equal(4, char.Proficiency)
}

func (s *CharacterServiceTestSuite) TestRefresh_FailureIsNotSaved() {
	stored := s.storedWizard()
	stored.ClassSpellModifier = ""

	s.mockRepository.EXPECT().Get(s.ctx, "wizard-1").Return(stored, nil)

	_, err := s.service.Refresh(s.ctx, "wizard-1")
	s.True(dnderr.IsUnknownSpellStat(err))
	s.Equal(6, stored.SpellAttack)
}

func (s *CharacterServiceTestSuite) TestSave() {
	stored := s.storedWizard()
	stored.Abilities.Wisdom = 16

	s.mockRepository.EXPECT().Update(s.ctx, stored).Return(nil)

	char, err := s.service.Save(s.ctx, stored)
	s.Require().NoError(err)
	s.Equal(16, char.PassivePerception)

	_, err = s.service.Save(s.ctx, nil)
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *CharacterServiceTestSuite) TestDelete() {
	s.mockRepository.EXPECT().Delete(s.ctx, "wizard-1").Return(nil)
	s.Require().NoError(s.service.Delete(s.ctx, "wizard-1"))

	s.mockRepository.EXPECT().Delete(s.ctx, "wizard-1").
		Return(dnderr.NotFoundf("character with ID 'wizard-1' not found"))
	s.True(dnderr.IsNotFound(s.service.Delete(s.ctx, "wizard-1")))
}

func (s *CharacterServiceTestSuite) TestAttack_CarriedWeapon() {
	stored := s.storedWizard()
	s.mockRepository.EXPECT().Get(s.ctx, "wizard-1").Return(stored, nil)

	// d20 draws 15 and 2, d4 draws 3 and 1
	s.source.SetRolls([]int{15, 2, 3, 1})

	result, err := s.service.Attack(s.ctx, &character.AttackInput{
		CharacterID: "wizard-1",
		Weapon:      "dagger",
	})
	s.Require().NoError(err)

	s.Equal(15, result.HitRoll)
	s.Equal(20, result.TotalHit)
	s.Equal(5, result.TotalDamage)
	s.Equal("Dagger hit for 20 with a grand total of 5 damage.", result.Recap)
	s.Zero(s.source.Remaining())
	s.Len(s.recorder.OfType(events.EventTypeAttackResolved), 1)
}

func (s *CharacterServiceTestSuite) TestAttack_CatalogWeapon() {
	stored := s.storedWizard()
	s.mockRepository.EXPECT().Get(s.ctx, "wizard-1").Return(stored, nil)

	// d20 10, d8 4, proc 2d6 rolls 3 and 5
	s.source.SetRolls([]int{10, 1, 4, 1, 3, 1, 5, 1})

	result, err := s.service.Attack(s.ctx, &character.AttackInput{
		CharacterID: "wizard-1",
		Weapon:      "Flame tongue",
	})
	s.Require().NoError(err)

	s.Equal(13, result.TotalHit)
	s.Equal(8, result.ProcDamage)
	s.Equal(12, result.TotalDamage)
	s.Equal(1, s.logs.FilterMessage("attacking with catalog weapon").Len())
}

func (s *CharacterServiceTestSuite) TestAttack_UnknownWeapon() {
	stored := s.storedWizard()
	s.mockRepository.EXPECT().Get(s.ctx, "wizard-1").Return(stored, nil)

	_, err := s.service.Attack(s.ctx, &character.AttackInput{
		CharacterID: "wizard-1",
		Weapon:      "Vorpal sword",
	})
	s.True(dnderr.IsNotFound(err))
}

func (s *CharacterServiceTestSuite) TestAttack_DroppedDamageGroupsAreLogged() {
	stored := s.storedWizard()
	stored.AddWeapon(&equipment.Weapon{
		Name:   "Morningstar",
		Stat:   shared.AttributeStrength,
		Damage: "1d8+1d4",
	})
	s.mockRepository.EXPECT().Get(s.ctx, "wizard-1").Return(stored, nil)

	s.source.SetRolls([]int{12, 1, 6, 1})

	result, err := s.service.Attack(s.ctx, &character.AttackInput{
		CharacterID: "wizard-1",
		Weapon:      "Morningstar",
	})
	s.Require().NoError(err)
	s.Equal([]dice.DiceGroup{{Count: 1, Sides: 4}}, result.DroppedDamageGroups)

	warnings := s.logs.FilterLevelExact(zapcore.WarnLevel).All()
	s.Require().Len(warnings, 1)
	s.Equal("1d4", warnings[0].ContextMap()["dropped"])
}

func (s *CharacterServiceTestSuite) TestAttack_NilInput() {
	_, err := s.service.Attack(s.ctx, nil)
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *CharacterServiceTestSuite) TestRoll() {
	// 2d6 with advantage keeps 5 and 6, 1d4 keeps 4
	s.source.SetRolls([]int{2, 5, 6, 1, 1, 4})

	out, err := s.service.Roll(s.ctx, &character.RollInput{
		Expression: "2d6+1d4",
		Advantage:  true,
	})
	s.Require().NoError(err)
	s.Equal(15, out.Total)
	s.Require().Len(out.Rolls, 2)
	s.Equal([]int{5, 6}, out.Rolls[0].Kept())
	s.Len(s.recorder.OfType(events.EventTypeRollOutcome), 3)
}

func (s *CharacterServiceTestSuite) TestRoll_Errors() {
	_, err := s.service.Roll(s.ctx, &character.RollInput{Expression: "2x6"})
	s.True(dnderr.IsMalformedExpression(err))

	_, err = s.service.Roll(s.ctx, &character.RollInput{Expression: "0d6"})
	s.True(dnderr.IsInvalidRollParameters(err))

	_, err = s.service.Roll(s.ctx, nil)
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *CharacterServiceTestSuite) TestEquip_Armor() {
	stored := s.storedWizard()
	s.mockRepository.EXPECT().Get(s.ctx, "wizard-1").Return(stored, nil)
	s.mockRepository.EXPECT().Update(s.ctx, stored).Return(nil)

	char, err := s.service.Equip(s.ctx, "wizard-1", "chain mail")
	s.Require().NoError(err)
	s.True(char.HasArmor())
	s.Equal("Chain mail", char.Armors[0].Name)
	s.Equal(12, char.ArmorClass, "armor class is kept once armor is worn")
}

func (s *CharacterServiceTestSuite) TestEquip_WeaponReplacesSameKey() {
	stored := s.storedWizard()
	stored.AddWeapon(&equipment.Weapon{Name: "Flame Tongue", Stat: shared.AttributeStrength, Damage: "1d6"})
	s.mockRepository.EXPECT().Get(s.ctx, "wizard-1").Return(stored, nil)
	s.mockRepository.EXPECT().Update(s.ctx, stored).Return(nil)

	char, err := s.service.Equip(s.ctx, "wizard-1", "Flame tongue")
	s.Require().NoError(err)
	s.Len(char.Weapons, 2)

	weapon, err := char.Weapon("flame tongue")
	s.Require().NoError(err)
	s.Equal(equipment.Expression("1d8"), weapon.Damage)
}

func (s *CharacterServiceTestSuite) TestEquip_Unknown() {
	stored := s.storedWizard()
	s.mockRepository.EXPECT().Get(s.ctx, "wizard-1").Return(stored, nil)

	_, err := s.service.Equip(s.ctx, "wizard-1", "Bag of holding")
	s.True(dnderr.IsNotFound(err))
}

func (s *CharacterServiceTestSuite) TestEquipment_ListsCatalogKeys() {
	keys, err := s.service.Equipment(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"chain-mail", "flame-tongue"}, keys)

	bare := character.NewService(&character.ServiceConfig{Repository: s.mockRepository})
	_, err = bare.Equipment(s.ctx)
	s.True(dnderr.IsInternal(err))
}
