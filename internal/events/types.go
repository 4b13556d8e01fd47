package events

import "fmt"

// EventType represents the type of sheet event
type EventType string

// Event is the base interface for all sheet events
type Event interface {
	GetType() EventType
}

// BaseEvent provides the common implementation for all events
type BaseEvent struct {
	Type EventType
}

func (e *BaseEvent) GetType() EventType { return e.Type }

// RollOutcomeEvent reports a single repetition of a roll
type RollOutcomeEvent struct {
	BaseEvent
	Sides        int
	Repetition   int
	First        int
	Second       int
	Kept         int
	Advantage    bool
	Disadvantage bool
	RunningTotal int
}

// NewRollOutcomeEvent creates a roll outcome event
func NewRollOutcomeEvent(sides, repetition, first, second, kept int, advantage, disadvantage bool, runningTotal int) *RollOutcomeEvent {
	return &RollOutcomeEvent{
		BaseEvent:    BaseEvent{Type: EventTypeRollOutcome},
		Sides:        sides,
		Repetition:   repetition,
		First:        first,
		Second:       second,
		Kept:         kept,
		Advantage:    advantage,
		Disadvantage: disadvantage,
		RunningTotal: runningTotal,
	}
}

func (e *RollOutcomeEvent) String() string {
	switch {
	case e.Advantage && !e.Disadvantage:
		return fmt.Sprintf("Rolled %d and %d on a d%d with advantage", e.First, e.Second, e.Sides)
	case e.Disadvantage && !e.Advantage:
		return fmt.Sprintf("Rolled %d and %d on a d%d with disadvantage", e.First, e.Second, e.Sides)
	default:
		return fmt.Sprintf("Rolled %d on a d%d", e.Kept, e.Sides)
	}
}

// CriticalEvent signals a critical on a d20 roll
type CriticalEvent struct {
	BaseEvent
	Sides int
	Total int
}

// NewCriticalEvent creates a critical event
func NewCriticalEvent(sides, total int) *CriticalEvent {
	return &CriticalEvent{
		BaseEvent: BaseEvent{Type: EventTypeCritical},
		Sides:     sides,
		Total:     total,
	}
}

// FumbleEvent signals a fumble on a d20 roll
type FumbleEvent struct {
	BaseEvent
	Sides int
	Total int
}

// NewFumbleEvent creates a fumble event
func NewFumbleEvent(sides, total int) *FumbleEvent {
	return &FumbleEvent{
		BaseEvent: BaseEvent{Type: EventTypeFumble},
		Sides:     sides,
		Total:     total,
	}
}

// AttackResolvedEvent carries the outcome of a weapon attack
type AttackResolvedEvent struct {
	BaseEvent
	Character   string
	Weapon      string
	HitRoll     int
	TotalHit    int
	TotalDamage int
	Critical    bool
	Recap       string
}

// CharacterUpdatedEvent is emitted after derived values are recomputed
type CharacterUpdatedEvent struct {
	BaseEvent
	Character   string
	Level       int
	Proficiency int
	HPReset     bool
}
