package session

import (
	"time"

	"divinewithin/internal/core/breath"
	"divinewithin/internal/core/model"
)

// State represents the current Clock mode.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
	StateStopped   State = "stopped"
)

// Terminal reports whether no further transition is possible.
func (state State) Terminal() bool {
	return state == StateCompleted || state == StateStopped
}

// EventType defines the type of Clock event.
type EventType string

const (
	EventStateChange  EventType = "state_change"
	EventProgress     EventType = "progress"
	EventPhaseChanged EventType = "phase_changed"
	EventCompleted    EventType = "completed"
	EventStopped      EventType = "stopped"
)

// Event represents a Clock update for observers.
type Event struct {
	Type      EventType
	State     State
	Remaining time.Duration
	Progress  float64
	Breath    breath.State
	// Session is set on EventCompleted only.
	Session *model.Session
	At      time.Time
}
