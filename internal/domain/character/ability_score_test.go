package character_test

import (
	"testing"

	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/character"
	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestModifier(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{1, -5},
		{8, -1},
		{9, -1},
		{10, 0},
		{11, 0},
		{14, 2},
		{15, 2},
		{16, 3},
		{20, 5},
		{30, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, character.Modifier(tt.score), "score %d", tt.score)
	}
}

func TestModifier_IsFloorDivision(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		score := rapid.IntRange(-100, 100).Draw(rt, "score")
		got := character.Modifier(score)

		// floor means 2*got <= score-10 < 2*got+2
		assert.LessOrEqual(rt, 2*got, score-10)
		assert.Greater(rt, 2*got+2, score-10)
		if score%2 == 0 {
			assert.Equal(rt, (score-10)/2, got)
		}
	})
}

func TestProficiencyBonus(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{0, 0},
		{1, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
		{12, 4},
		{13, 5},
		{16, 5},
		{17, 6},
		{20, 6},
		{21, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, character.ProficiencyBonus(tt.level), "level %d", tt.level)
	}
}

func TestProficiencyBonus_Tiers(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		level := rapid.IntRange(-5, 40).Draw(rt, "level")
		got := character.ProficiencyBonus(level)

		if level < 1 || level > 20 {
			assert.Zero(rt, got)
			return
		}
		assert.Equal(rt, 2+(level-1)/4, got)
	})
}

func TestAbilityScores_GetSet(t *testing.T) {
	var scores character.AbilityScores

	for i, attr := range shared.Attributes {
		require.NoError(t, scores.Set(attr, 10+i))
	}
	for i, attr := range shared.Attributes {
		got, err := scores.Get(attr)
		require.NoError(t, err)
		assert.Equal(t, 10+i, got)
	}

	_, err := scores.Get("luck")
	assert.True(t, dnderr.IsInvalidArgument(err))
	assert.True(t, dnderr.IsInvalidArgument(scores.Set("luck", 3)))
}
