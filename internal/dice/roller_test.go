package dice_test

import (
	"errors"
	"testing"

	"github.com/KirkDiggler/dnd-character-sheet/internal/dice"
	mockdice "github.com/KirkDiggler/dnd-character-sheet/internal/dice/mock"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-character-sheet/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScriptedRoller(rolls ...int) (dice.Roller, *mockdice.ManualSource, *events.Recorder) {
	source := mockdice.NewManualSource(rolls...)
	bus := events.NewBus(nil)
	recorder := events.NewRecorder()
	bus.Subscribe(recorder, events.AllEventTypes...)

	return dice.NewRoller(&dice.RollerConfig{Source: source, Publisher: bus}), source, recorder
}

func TestRoller_AdvantageState(t *testing.T) {
	tests := []struct {
		name         string
		advantage    bool
		disadvantage bool
		want         int
	}{
		{name: "advantage keeps the higher draw", advantage: true, want: 17},
		{name: "disadvantage keeps the lower draw", disadvantage: true, want: 5},
		{name: "neither keeps the first draw", want: 5},
		{name: "both cancel out and keep the first draw", advantage: true, disadvantage: true, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller, source, _ := newScriptedRoller(5, 17)

			result, err := roller.Roll(dice.D20(tt.advantage, tt.disadvantage))
			require.NoError(t, err)

			assert.Equal(t, tt.want, result.Total)
			assert.Equal(t, []dice.Draw{{First: 5, Second: 17, Kept: tt.want}}, result.Draws)
			assert.Zero(t, source.Remaining(), "both draws are consumed")
		})
	}
}

func TestRoller_Accumulates(t *testing.T) {
	roller, _, recorder := newScriptedRoller(2, 6, 5, 1, 4, 4)

	result, err := roller.Roll(&dice.RollInput{Sides: 6, Repetitions: 3})
	require.NoError(t, err)

	assert.Equal(t, 11, result.Total) // 2+5+4
	assert.Equal(t, []int{2, 5, 4}, result.Kept())
	assert.Equal(t, "3d6 [2,5,4] = 11", result.String())

	outcomes := recorder.OfType(events.EventTypeRollOutcome)
	require.Len(t, outcomes, 3)
	last := outcomes[2].(*events.RollOutcomeEvent)
	assert.Equal(t, 3, last.Repetition)
	assert.Equal(t, 4, last.First)
	assert.Equal(t, 4, last.Second)
	assert.Equal(t, 11, last.RunningTotal)
}

func TestRoller_InvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		input *dice.RollInput
	}{
		{name: "nil input", input: nil},
		{name: "zero sides", input: &dice.RollInput{Sides: 0, Repetitions: 1}},
		{name: "negative sides", input: &dice.RollInput{Sides: -6, Repetitions: 1}},
		{name: "zero repetitions", input: &dice.RollInput{Sides: 20, Repetitions: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller, source, recorder := newScriptedRoller(10, 10)

			_, err := roller.Roll(tt.input)
			require.Error(t, err)
			assert.True(t, dnderr.IsInvalidRollParameters(err))
			assert.Equal(t, 2, source.Remaining(), "no draw happens before validation")
			assert.Empty(t, recorder.Events())
		})
	}
}

func TestRoller_CriticalAndFumble(t *testing.T) {
	t.Run("natural 20 on a d20", func(t *testing.T) {
		roller, _, recorder := newScriptedRoller(20, 3)

		result, err := roller.Roll(dice.D20(false, false))
		require.NoError(t, err)

		assert.True(t, result.Critical)
		assert.False(t, result.Fumble)
		crits := recorder.OfType(events.EventTypeCritical)
		require.Len(t, crits, 1)
		assert.Equal(t, 20, crits[0].(*events.CriticalEvent).Total)
	})

	t.Run("natural 1 on a d20", func(t *testing.T) {
		roller, _, recorder := newScriptedRoller(1, 9)

		result, err := roller.Roll(dice.D20(false, false))
		require.NoError(t, err)

		assert.True(t, result.Fumble)
		assert.Len(t, recorder.OfType(events.EventTypeFumble), 1)
		assert.Empty(t, recorder.OfType(events.EventTypeCritical))
	})

	t.Run("disadvantage can turn a 20 into a miss", func(t *testing.T) {
		roller, _, recorder := newScriptedRoller(20, 1)

		result, err := roller.Roll(dice.D20(false, true))
		require.NoError(t, err)

		assert.Equal(t, 1, result.Total)
		assert.True(t, result.Fumble)
		assert.False(t, result.Critical)
		assert.Empty(t, recorder.OfType(events.EventTypeCritical))
	})

	t.Run("running total reaching 20 signals a critical", func(t *testing.T) {
		roller, _, recorder := newScriptedRoller(12, 2, 8, 2)

		result, err := roller.Roll(&dice.RollInput{Sides: 20, Repetitions: 2})
		require.NoError(t, err)

		assert.Equal(t, 20, result.Total)
		assert.True(t, result.Critical)
		assert.Len(t, recorder.OfType(events.EventTypeCritical), 1)
	})

	t.Run("other dice never signal", func(t *testing.T) {
		roller, _, recorder := newScriptedRoller(1, 1)

		result, err := roller.Roll(&dice.RollInput{Sides: 6, Repetitions: 1})
		require.NoError(t, err)

		assert.False(t, result.Fumble)
		assert.Empty(t, recorder.OfType(events.EventTypeFumble))
	})
}

func TestRoller_PublisherErrorIsReturned(t *testing.T) {
	bus := events.NewBus(nil)
	bus.Subscribe(events.NewFuncListener("broken", 1, func(events.Event) error {
		return errors.New("ui went away")
	}), events.EventTypeRollOutcome)

	roller := dice.NewRoller(&dice.RollerConfig{
		Source:    mockdice.NewManualSource(4, 4),
		Publisher: bus,
	})

	_, err := roller.Roll(&dice.RollInput{Sides: 6, Repetitions: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui went away")
}

func TestRoller_SeededSourceIsDeterministic(t *testing.T) {
	first := dice.NewRoller(&dice.RollerConfig{Source: dice.NewSeededSource(42)})
	second := dice.NewRoller(&dice.RollerConfig{Source: dice.NewSeededSource(42)})

	for i := 0; i < 50; i++ {
		a, err := first.Roll(&dice.RollInput{Sides: 12, Repetitions: 3, Advantage: true})
		require.NoError(t, err)
		b, err := second.Roll(&dice.RollInput{Sides: 12, Repetitions: 3, Advantage: true})
		require.NoError(t, err)

		assert.Equal(t, a.Draws, b.Draws)
		for _, d := range a.Draws {
			assert.GreaterOrEqual(t, d.Kept, 1)
			assert.LessOrEqual(t, d.Kept, 12)
		}
	}
}

func TestRandomRoller_BasicFunctionality(t *testing.T) {
	roller := dice.NewRandomRoller()

	result, err := roller.Roll(&dice.RollInput{Sides: 6, Repetitions: 2})
	require.NoError(t, err)
	assert.Len(t, result.Draws, 2)
	assert.GreaterOrEqual(t, result.Total, 2)
	assert.LessOrEqual(t, result.Total, 12)
}

func TestRollExpression(t *testing.T) {
	// 1d4 draws (3,_), 2d6 draws (2,_) (5,_)
	roller, _, _ := newScriptedRoller(3, 1, 2, 6, 5, 6)

	total, results, err := dice.RollExpression(roller, "1d4+2d6")
	require.NoError(t, err)

	assert.Equal(t, 10, total)
	require.Len(t, results, 2)
	assert.Equal(t, 3, results[0].Total)
	assert.Equal(t, 7, results[1].Total)
}

func TestRollExpression_Errors(t *testing.T) {
	roller, _, _ := newScriptedRoller()

	_, _, err := dice.RollExpression(roller, "1+d6")
	assert.True(t, dnderr.IsMalformedExpression(err))

	_, _, err = dice.RollExpression(roller, "0d6")
	assert.True(t, dnderr.IsInvalidRollParameters(err))
}
