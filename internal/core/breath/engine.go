package breath

import (
	"time"

	"divinewithin/internal/core/model"
)

// Step is the elapsed time consumed by Advance.
const Step = time.Second

// State is a snapshot of the breathing sub-state-machine.
type State struct {
	Phase     Phase
	Remaining time.Duration
	Cycles    int
}

// DisplaySeconds truncates the remaining phase time toward zero.
func (state State) DisplaySeconds() int {
	if state.Remaining <= 0 {
		return 0
	}
	return int(state.Remaining / time.Second)
}

// Engine advances a technique's phases. It is not safe for concurrent use;
// the owning session clock serializes access.
type Engine struct {
	technique model.Technique
	pattern   Pattern
	state     State
}

// NewEngine seeds an engine from the technique's pattern in table.
func NewEngine(table Table, technique model.Technique) (*Engine, error) {
	pattern, err := table.Pattern(technique)
	if err != nil {
		return nil, err
	}
	if err := pattern.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		technique: technique,
		pattern:   pattern,
		state: State{
			Phase:     pattern.Initial,
			Remaining: pattern.InitialDuration,
		},
	}, nil
}

// Technique returns the technique being driven.
func (engine *Engine) Technique() model.Technique {
	return engine.technique
}

// State returns the current phase state.
func (engine *Engine) State() State {
	return engine.state
}

// Advance consumes one Step and reports whether the phase changed.
func (engine *Engine) Advance() bool {
	return engine.AdvanceBy(Step)
}

// AdvanceBy consumes elapsed time. When the phase runs out the next phase
// starts with its full duration; overshoot is not carried over.
func (engine *Engine) AdvanceBy(elapsed time.Duration) bool {
	if elapsed <= 0 {
		return false
	}
	engine.state.Remaining -= elapsed
	if engine.state.Remaining > 0 {
		return false
	}
	transition := engine.pattern.Transitions[engine.state.Phase]
	engine.state.Phase = transition.Next
	engine.state.Remaining = transition.Duration
	if transition.Cycle {
		engine.state.Cycles++
	}
	return true
}
