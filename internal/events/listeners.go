package events

import (
	"sync"

	"go.uber.org/zap"
)

// FuncListener adapts a function to the EventListener interface
type FuncListener struct {
	id       string
	priority int
	fn       func(Event) error
}

// NewFuncListener creates a listener backed by fn
func NewFuncListener(id string, priority int, fn func(Event) error) *FuncListener {
	return &FuncListener{id: id, priority: priority, fn: fn}
}

func (l *FuncListener) HandleEvent(event Event) error { return l.fn(event) }
func (l *FuncListener) Priority() int                 { return l.priority }
func (l *FuncListener) ID() string                    { return l.id }

// Recorder keeps every event it receives, in order
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) HandleEvent(event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Priority() int { return 1000 }
func (r *Recorder) ID() string    { return "recorder" }

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the recorded events of the given type
func (r *Recorder) OfType(eventType EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Event
	for _, e := range r.events {
		if e.GetType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops all recorded events
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// LogListener writes sheet events to a zap logger
type LogListener struct {
	logger *zap.Logger
}

// NewLogListener creates a listener that logs every event it receives
func NewLogListener(logger *zap.Logger) *LogListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogListener{logger: logger}
}

func (l *LogListener) Priority() int { return 0 }
func (l *LogListener) ID() string    { return "log" }

func (l *LogListener) HandleEvent(event Event) error {
	switch e := event.(type) {
	case *RollOutcomeEvent:
		l.logger.Debug(e.String(),
			zap.Int("sides", e.Sides),
			zap.Int("repetition", e.Repetition),
			zap.Int("first", e.First),
			zap.Int("second", e.Second),
			zap.Int("kept", e.Kept),
			zap.Int("running_total", e.RunningTotal))
	case *CriticalEvent:
		l.logger.Info("critical", zap.Int("total", e.Total))
	case *FumbleEvent:
		l.logger.Info("fumble", zap.Int("total", e.Total))
	case *AttackResolvedEvent:
		l.logger.Info(e.Recap,
			zap.String("character", e.Character),
			zap.String("weapon", e.Weapon),
			zap.Int("hit_roll", e.HitRoll),
			zap.Int("total_hit", e.TotalHit),
			zap.Int("total_damage", e.TotalDamage),
			zap.Bool("critical", e.Critical))
	case *CharacterUpdatedEvent:
		l.logger.Debug("character updated",
			zap.String("character", e.Character),
			zap.Int("level", e.Level),
			zap.Int("proficiency", e.Proficiency),
			zap.Bool("hp_reset", e.HPReset))
	default:
		l.logger.Debug("event", zap.String("type", string(event.GetType())))
	}
	return nil
}
