package dice

import (
	"fmt"

	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-character-sheet/internal/events"
)

// RollerConfig holds the dependencies of the dice engine
type RollerConfig struct {
	// Source defaults to a time seeded source
	Source Source
	// Publisher receives roll outcome, critical and fumble events
	Publisher events.Publisher
}

type roller struct {
	source    Source
	publisher events.Publisher
}

// NewRoller creates the dice engine
func NewRoller(cfg *RollerConfig) Roller {
	if cfg == nil {
		cfg = &RollerConfig{}
	}

	r := &roller{
		source:    cfg.Source,
		publisher: cfg.Publisher,
	}
	if r.source == nil {
		r.source = NewRandomSource()
	}
	if r.publisher == nil {
		r.publisher = events.Nop{}
	}

	return r
}

// NewRandomRoller creates a dice engine with a random source and no listeners
func NewRandomRoller() Roller {
	return NewRoller(nil)
}

// Roll draws two values per repetition even when only one is kept, so a
// seeded source produces the same sequence whatever the advantage state.
func (r *roller) Roll(input *RollInput) (*RollResult, error) {
	if input == nil {
		return nil, dnderr.InvalidRollParametersf("roll input is required")
	}
	if input.Sides < 1 {
		return nil, dnderr.InvalidRollParametersf("die size must be at least 1, got %d", input.Sides).
			WithMeta("sides", input.Sides)
	}
	if input.Repetitions < 1 {
		return nil, dnderr.InvalidRollParametersf("repetitions must be at least 1, got %d", input.Repetitions).
			WithMeta("repetitions", input.Repetitions)
	}

	result := &RollResult{
		Sides:        input.Sides,
		Repetitions:  input.Repetitions,
		Advantage:    input.Advantage,
		Disadvantage: input.Disadvantage,
		Draws:        make([]Draw, 0, input.Repetitions),
	}

	for i := 0; i < input.Repetitions; i++ {
		first := r.source.Intn(input.Sides) + 1
		second := r.source.Intn(input.Sides) + 1

		kept := first
		switch {
		case input.Advantage && !input.Disadvantage:
			kept = max(first, second)
		case input.Disadvantage && !input.Advantage:
			kept = min(first, second)
		}

		result.Total += kept
		result.Draws = append(result.Draws, Draw{First: first, Second: second, Kept: kept})

		if err := r.publisher.Emit(events.NewRollOutcomeEvent(
			input.Sides, i+1, first, second, kept,
			input.Advantage, input.Disadvantage, result.Total,
		)); err != nil {
			return nil, fmt.Errorf("failed to publish roll outcome: %w", err)
		}

		if input.Sides != 20 {
			continue
		}

		switch result.Total {
		case 20:
			result.Critical = true
			if err := r.publisher.Emit(events.NewCriticalEvent(input.Sides, result.Total)); err != nil {
				return nil, fmt.Errorf("failed to publish critical: %w", err)
			}
		case 1:
			result.Fumble = true
			if err := r.publisher.Emit(events.NewFumbleEvent(input.Sides, result.Total)); err != nil {
				return nil, fmt.Errorf("failed to publish fumble: %w", err)
			}
		}
	}

	return result, nil
}
