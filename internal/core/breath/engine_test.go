package breath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"divinewithin/internal/core/model"
)

func newEngine(t *testing.T, technique model.Technique) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultTable(), technique)
	require.NoError(t, err)
	return engine
}

func advanceTimes(engine *Engine, count int) int {
	transitions := 0
	for i := 0; i < count; i++ {
		if engine.Advance() {
			transitions++
		}
	}
	return transitions
}

func TestBoxCompletesOneCycleInSixteenSeconds(t *testing.T) {
	engine := newEngine(t, model.TechniqueBox)

	transitions := advanceTimes(engine, 16)

	state := engine.State()
	assert.Equal(t, 1, state.Cycles)
	assert.Equal(t, PhaseInhale, state.Phase)
	assert.Equal(t, 4*time.Second, state.Remaining)
	assert.Equal(t, 4, transitions)
}

func TestBoxVisitsAllFourPhases(t *testing.T) {
	engine := newEngine(t, model.TechniqueBox)

	var visited []Phase
	for i := 0; i < 16; i++ {
		if engine.Advance() {
			visited = append(visited, engine.State().Phase)
		}
	}

	assert.Equal(t, []Phase{PhaseHold, PhaseExhale, PhaseHoldEmpty, PhaseInhale}, visited)
}

func TestCoherentCompletesOneCycleInTenSeconds(t *testing.T) {
	engine := newEngine(t, model.TechniqueCoherent)

	advanceTimes(engine, 9)
	assert.Equal(t, 0, engine.State().Cycles)
	assert.Equal(t, PhaseExhale, engine.State().Phase)

	advanceTimes(engine, 1)
	assert.Equal(t, 1, engine.State().Cycles)
	assert.Equal(t, PhaseInhale, engine.State().Phase)
}

func TestCoherentNeverHolds(t *testing.T) {
	engine := newEngine(t, model.TechniqueCoherent)
	for i := 0; i < 100; i++ {
		engine.Advance()
		phase := engine.State().Phase
		require.Contains(t, []Phase{PhaseInhale, PhaseExhale}, phase)
	}
}

func TestWimHofIsAsymmetric(t *testing.T) {
	engine := newEngine(t, model.TechniqueWimHof)

	advanceTimes(engine, 2)
	assert.Equal(t, PhaseExhale, engine.State().Phase)
	assert.Equal(t, time.Second, engine.State().Remaining)

	advanceTimes(engine, 1)
	assert.Equal(t, PhaseInhale, engine.State().Phase)
	assert.Equal(t, 1, engine.State().Cycles)
}

func TestFireTracksSubSecondPhases(t *testing.T) {
	engine := newEngine(t, model.TechniqueFire)

	engine.Advance()
	state := engine.State()
	assert.Equal(t, PhaseExhale, state.Phase)
	assert.Equal(t, 500*time.Millisecond, state.Remaining)
	assert.Equal(t, 0, state.DisplaySeconds())

	engine.Advance()
	state = engine.State()
	assert.Equal(t, PhaseInhale, state.Phase)
	assert.Equal(t, 1, state.Cycles)

	advanceTimes(engine, 8)
	assert.Equal(t, 5, engine.State().Cycles)
}

func TestAdvanceByHalfSteps(t *testing.T) {
	engine := newEngine(t, model.TechniqueFire)

	assert.False(t, engine.AdvanceBy(500*time.Millisecond))
	assert.True(t, engine.AdvanceBy(500*time.Millisecond))
	assert.Equal(t, PhaseExhale, engine.State().Phase)
	assert.True(t, engine.AdvanceBy(500*time.Millisecond))
	assert.Equal(t, 1, engine.State().Cycles)
	assert.False(t, engine.AdvanceBy(0))
}

func TestDisplaySecondsTruncates(t *testing.T) {
	tests := []struct {
		remaining time.Duration
		expected  int
	}{
		{remaining: 4 * time.Second, expected: 4},
		{remaining: 3900 * time.Millisecond, expected: 3},
		{remaining: 500 * time.Millisecond, expected: 0},
		{remaining: -time.Second, expected: 0},
	}
	for _, tt := range tests {
		state := State{Remaining: tt.remaining}
		if got := state.DisplaySeconds(); got != tt.expected {
			t.Fatalf("DisplaySeconds(%s) = %d want %d", tt.remaining, got, tt.expected)
		}
	}
}

func TestNewEngineUnknownTechnique(t *testing.T) {
	_, err := NewEngine(DefaultTable(), model.Technique("holotropic"))
	require.ErrorIs(t, err, ErrUnknownTechnique)
}

func TestEveryTechniqueCyclesForever(t *testing.T) {
	for _, technique := range model.Techniques() {
		t.Run(string(technique), func(t *testing.T) {
			engine := newEngine(t, technique)
			pattern, err := DefaultTable().Pattern(technique)
			require.NoError(t, err)

			// a whole number of cycles always lands back on the initial phase
			ticksPerCycle := 0
			for engine.State().Cycles == 0 {
				engine.Advance()
				ticksPerCycle++
				require.Less(t, ticksPerCycle, 1000)
			}
			advanceTimes(engine, ticksPerCycle*3)
			assert.Equal(t, 4, engine.State().Cycles)
			assert.Equal(t, pattern.Initial, engine.State().Phase)
		})
	}
}
