package events

const (
	// EventTypeRollOutcome fires once per repetition of a roll with both draws and the kept value
	EventTypeRollOutcome EventType = "roll.outcome"
	// EventTypeCritical fires when a d20 roll's running total reaches 20
	EventTypeCritical EventType = "roll.critical"
	// EventTypeFumble fires when a d20 roll's running total is 1
	EventTypeFumble EventType = "roll.fumble"

	// EventTypeAttackResolved fires after an attack has been fully resolved
	EventTypeAttackResolved EventType = "attack.resolved"
	// EventTypeCharacterUpdated fires after derived values were recomputed
	EventTypeCharacterUpdated EventType = "character.updated"
)

// AllEventTypes lists every type the sheet emits
var AllEventTypes = []EventType{
	EventTypeRollOutcome,
	EventTypeCritical,
	EventTypeFumble,
	EventTypeAttackResolved,
	EventTypeCharacterUpdated,
}
