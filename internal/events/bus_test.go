package events_test

import (
	"errors"
	"testing"

	"github.com/KirkDiggler/dnd-character-sheet/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBus_Priority(t *testing.T) {
	bus := events.NewBus(nil)

	var executionOrder []string
	record := func(id string) func(events.Event) error {
		return func(events.Event) error {
			executionOrder = append(executionOrder, id)
			return nil
		}
	}

	bus.Subscribe(events.NewFuncListener("low", 300, record("low")), events.EventTypeRollOutcome)
	bus.Subscribe(events.NewFuncListener("high", 100, record("high")), events.EventTypeRollOutcome)
	bus.Subscribe(events.NewFuncListener("medium", 200, record("medium")), events.EventTypeRollOutcome)

	err := bus.Emit(events.NewRollOutcomeEvent(20, 1, 5, 17, 5, false, false, 5))
	require.NoError(t, err)

	assert.Equal(t, []string{"high", "medium", "low"}, executionOrder)
}

func TestBus_OnlyMatchingType(t *testing.T) {
	bus := events.NewBus(nil)
	recorder := events.NewRecorder()
	bus.Subscribe(recorder, events.EventTypeCritical)

	require.NoError(t, bus.Emit(events.NewRollOutcomeEvent(20, 1, 20, 3, 20, false, false, 20)))
	require.NoError(t, bus.Emit(events.NewCriticalEvent(20, 20)))

	recorded := recorder.Events()
	require.Len(t, recorded, 1)
	assert.Equal(t, events.EventTypeCritical, recorded[0].GetType())
}

func TestBus_ListenerErrorStopsPropagation(t *testing.T) {
	bus := events.NewBus(nil)
	recorder := events.NewRecorder()

	bus.Subscribe(events.NewFuncListener("broken", 1, func(events.Event) error {
		return errors.New("boom")
	}), events.EventTypeFumble)
	bus.Subscribe(recorder, events.EventTypeFumble)

	err := bus.Emit(events.NewFumbleEvent(20, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listener broken failed")
	assert.Empty(t, recorder.Events())
}

func TestBus_UnsubscribeAndClear(t *testing.T) {
	bus := events.NewBus(nil)
	recorder := events.NewRecorder()
	bus.Subscribe(recorder, events.EventTypeRollOutcome, events.EventTypeCritical)

	bus.Unsubscribe(events.EventTypeRollOutcome, recorder.ID())
	require.NoError(t, bus.Emit(events.NewRollOutcomeEvent(6, 1, 2, 3, 2, false, false, 2)))
	require.NoError(t, bus.Emit(events.NewCriticalEvent(20, 20)))
	assert.Len(t, recorder.Events(), 1)

	bus.Clear()
	require.NoError(t, bus.Emit(events.NewCriticalEvent(20, 20)))
	assert.Len(t, recorder.Events(), 1)
}

func TestRollOutcomeEvent_String(t *testing.T) {
	assert.Equal(t, "Rolled 5 and 17 on a d20 with advantage",
		events.NewRollOutcomeEvent(20, 1, 5, 17, 17, true, false, 17).String())
	assert.Equal(t, "Rolled 5 and 17 on a d20 with disadvantage",
		events.NewRollOutcomeEvent(20, 1, 5, 17, 5, false, true, 5).String())
	assert.Equal(t, "Rolled 5 on a d20",
		events.NewRollOutcomeEvent(20, 1, 5, 17, 5, true, true, 5).String())
}

func TestLogListener(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	bus := events.NewBus(nil)
	bus.Subscribe(events.NewLogListener(zap.New(core)), events.AllEventTypes...)

	require.NoError(t, bus.Emit(events.NewCriticalEvent(20, 20)))
	require.NoError(t, bus.Emit(&events.AttackResolvedEvent{
		BaseEvent:   events.BaseEvent{Type: events.EventTypeAttackResolved},
		Weapon:      "Short sword",
		TotalHit:    26,
		TotalDamage: 11,
		Recap:       "Short sword hit for 26 with a grand total of 11 damage.",
	}))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "critical", entries[0].Message)
	assert.Equal(t, "Short sword hit for 26 with a grand total of 11 damage.", entries[1].Message)
}
