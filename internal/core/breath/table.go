package breath

import (
	"errors"
	"fmt"
	"time"

	"divinewithin/internal/core/model"
)

// Phase is one segment of a breathing cycle.
type Phase string

const (
	PhaseInhale    Phase = "inhale"
	PhaseHold      Phase = "hold"
	PhaseExhale    Phase = "exhale"
	PhaseHoldEmpty Phase = "hold_empty"
)

var phaseInstructions = map[Phase]string{
	PhaseInhale:    "Breathe in slowly and deeply",
	PhaseHold:      "Hold your breath gently",
	PhaseExhale:    "Release and let go completely",
	PhaseHoldEmpty: "Rest in the emptiness",
}

// Instruction returns the guidance text for the phase.
func (phase Phase) Instruction() string {
	return phaseInstructions[phase]
}

// Label returns the upper-case title shown while the phase runs.
func (phase Phase) Label() string {
	switch phase {
	case PhaseInhale:
		return "INHALE"
	case PhaseHold:
		return "HOLD"
	case PhaseExhale:
		return "EXHALE"
	case PhaseHoldEmpty:
		return "HOLD EMPTY"
	}
	return string(phase)
}

// Transition describes what follows a phase.
type Transition struct {
	Next     Phase
	Duration time.Duration
	// Cycle marks the transition that closes a full breathing cycle.
	Cycle bool
}

// Pattern is the phase configuration of a single technique.
type Pattern struct {
	Initial         Phase
	InitialDuration time.Duration
	Transitions     map[Phase]Transition
}

// Table maps each technique to its pattern.
type Table map[model.Technique]Pattern

// ErrUnknownTechnique indicates a technique without a pattern.
var ErrUnknownTechnique = errors.New("unknown breathing technique")

// ErrInvalidPattern indicates a pattern the engine cannot run forever.
var ErrInvalidPattern = errors.New("invalid breathing pattern")

// DefaultTable returns the built-in techniques.
func DefaultTable() Table {
	return Table{
		model.TechniqueBox: alternating(PhaseInhale, 4*time.Second,
			step(PhaseHold, 4*time.Second),
			step(PhaseExhale, 4*time.Second),
			step(PhaseHoldEmpty, 4*time.Second),
		),
		model.TechniqueCoherent: alternating(PhaseInhale, 5*time.Second,
			step(PhaseExhale, 5*time.Second),
		),
		model.TechniqueWimHof: alternating(PhaseInhale, 2*time.Second,
			step(PhaseExhale, time.Second),
		),
		model.TechniqueAlternate: alternating(PhaseInhale, 4*time.Second,
			step(PhaseExhale, 4*time.Second),
		),
		model.TechniqueFire: alternating(PhaseInhale, time.Second,
			step(PhaseExhale, 500*time.Millisecond),
		),
	}
}

type phaseStep struct {
	phase    Phase
	duration time.Duration
}

func step(phase Phase, duration time.Duration) phaseStep {
	return phaseStep{phase: phase, duration: duration}
}

// alternating builds a pattern that walks the steps in order and closes
// the cycle back on the first phase.
func alternating(first Phase, firstDuration time.Duration, rest ...phaseStep) Pattern {
	transitions := make(map[Phase]Transition, len(rest)+1)
	previous := first
	for _, next := range rest {
		transitions[previous] = Transition{Next: next.phase, Duration: next.duration}
		previous = next.phase
	}
	transitions[previous] = Transition{Next: first, Duration: firstDuration, Cycle: true}
	return Pattern{
		Initial:         first,
		InitialDuration: firstDuration,
		Transitions:     transitions,
	}
}

// Pattern returns the pattern of a technique.
func (table Table) Pattern(technique model.Technique) (Pattern, error) {
	pattern, ok := table[technique]
	if !ok {
		return Pattern{}, fmt.Errorf("%w: %q", ErrUnknownTechnique, technique)
	}
	return pattern, nil
}

// Validate checks every pattern in the table.
func (table Table) Validate() error {
	for technique, pattern := range table {
		if err := pattern.Validate(); err != nil {
			return fmt.Errorf("technique %s: %w", technique, err)
		}
	}
	return nil
}

// Validate checks that the pattern has a successor for every reachable
// phase, positive durations and at least one cycle boundary.
func (pattern Pattern) Validate() error {
	if pattern.InitialDuration <= 0 {
		return fmt.Errorf("%w: initial duration %s", ErrInvalidPattern, pattern.InitialDuration)
	}
	seen := make(map[Phase]bool, len(pattern.Transitions))
	current := pattern.Initial
	for !seen[current] {
		seen[current] = true
		transition, ok := pattern.Transitions[current]
		if !ok {
			return fmt.Errorf("%w: no successor for %s", ErrInvalidPattern, current)
		}
		if transition.Duration <= 0 {
			return fmt.Errorf("%w: %s lasts %s", ErrInvalidPattern, transition.Next, transition.Duration)
		}
		if transition.Cycle && transition.Next != pattern.Initial {
			return fmt.Errorf("%w: cycle closes on %s", ErrInvalidPattern, transition.Next)
		}
		current = transition.Next
	}
	if current != pattern.Initial {
		return fmt.Errorf("%w: sequence never returns to %s", ErrInvalidPattern, pattern.Initial)
	}
	for phase := range seen {
		if pattern.Transitions[phase].Cycle {
			return nil
		}
	}
	return fmt.Errorf("%w: no cycle boundary", ErrInvalidPattern)
}

// Phases lists the phases visited by one cycle in order.
func (pattern Pattern) Phases() []Phase {
	phases := []Phase{pattern.Initial}
	current := pattern.Initial
	for range pattern.Transitions {
		transition := pattern.Transitions[current]
		if transition.Cycle {
			break
		}
		phases = append(phases, transition.Next)
		current = transition.Next
	}
	return phases
}

// DurationOf returns how long a phase of the pattern lasts.
func (pattern Pattern) DurationOf(phase Phase) time.Duration {
	for _, transition := range pattern.Transitions {
		if transition.Next == phase {
			return transition.Duration
		}
	}
	if phase == pattern.Initial {
		return pattern.InitialDuration
	}
	return 0
}

// CycleLength is the total time of one cycle.
func (pattern Pattern) CycleLength() time.Duration {
	var total time.Duration
	for _, phase := range pattern.Phases() {
		total += pattern.DurationOf(phase)
	}
	return total
}
