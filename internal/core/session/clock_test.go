package session

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"divinewithin/internal/core/breath"
	"divinewithin/internal/core/history"
	"divinewithin/internal/core/metronome"
	"divinewithin/internal/core/model"
)

var epoch = time.Date(2026, time.October, 15, 7, 0, 0, 0, time.UTC)

type fakeTime struct {
	now time.Time
}

func (fake *fakeTime) Now() time.Time {
	fake.now = fake.now.Add(time.Second)
	return fake.now
}

func newClock(store *history.Store) *Clock {
	fake := &fakeTime{now: epoch}
	return New(Options{
		Recorder: store,
		Now:      fake.Now,
		NewID:    func() string { return "session-1" },
		Logger:   zerolog.Nop(),
	})
}

func meditation(duration time.Duration) Plan {
	return Plan{Kind: model.KindMeditation, MeditationType: model.MeditationDivine, Duration: duration}
}

func breathwork(technique model.Technique, duration time.Duration) Plan {
	return Plan{Kind: model.KindBreathwork, Technique: technique, Duration: duration}
}

func drain(events <-chan Event) []Event {
	var collected []Event
	for event := range events {
		collected = append(collected, event)
	}
	return collected
}

func ofType(events []Event, eventType EventType) []Event {
	var matched []Event
	for _, event := range events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func TestCompletesAfterExactlyDurationTicks(t *testing.T) {
	store := history.New()
	clock := newClock(store)
	events := clock.Subscribe(128)

	require.NoError(t, clock.Start(meditation(5*time.Second)))
	for i := 0; i < 4; i++ {
		clock.Tick()
		require.Equal(t, StateRunning, clock.State())
	}
	clock.Tick()

	assert.Equal(t, StateCompleted, clock.State())
	completed := ofType(drain(events), EventCompleted)
	require.Len(t, completed, 1)
	session := completed[0].Session
	require.NotNil(t, session)
	assert.Equal(t, "session-1", session.ID)
	assert.Equal(t, 5*time.Second, session.Duration)
	assert.True(t, session.Completed)
	assert.Equal(t, model.MeditationDivine, session.MeditationType)
	assert.True(t, session.CompletedAt.After(session.StartedAt))

	require.Equal(t, 1, store.Len())
	assert.Equal(t, *session, store.All()[0])
}

func TestStartRejectsInvalidDuration(t *testing.T) {
	for _, duration := range []time.Duration{0, -time.Second, 1500 * time.Millisecond, time.Millisecond} {
		clock := newClock(history.New())
		err := clock.Start(meditation(duration))
		require.ErrorIs(t, err, ErrInvalidDuration)
		assert.Equal(t, StateIdle, clock.State())
	}
}

func TestStartRejectsUnknownValues(t *testing.T) {
	clock := newClock(history.New())

	assert.ErrorIs(t, clock.Start(breathwork("holotropic", time.Minute)), ErrUnknownTechnique)
	assert.ErrorIs(t, clock.Start(Plan{Kind: model.KindMeditation, MeditationType: "zen", Duration: time.Minute}), ErrUnknownMeditationType)
	assert.ErrorIs(t, clock.Start(Plan{Kind: "yoga", Duration: time.Minute}), ErrUnknownKind)
	assert.Equal(t, StateIdle, clock.State())
}

func TestStartTwiceIsInvalid(t *testing.T) {
	clock := newClock(history.New())
	require.NoError(t, clock.Start(meditation(time.Minute)))
	assert.ErrorIs(t, clock.Start(meditation(time.Minute)), ErrInvalidTransition)
}

func TestTickAfterStopIsIgnored(t *testing.T) {
	store := history.New()
	clock := newClock(store)
	events := clock.Subscribe(16)
	require.NoError(t, clock.Start(meditation(3*time.Second)))
	clock.Tick()

	require.NoError(t, clock.Stop())
	before := clock.Snapshot()
	clock.Tick()
	clock.Tick()
	clock.Tick()

	assert.Equal(t, before, clock.Snapshot())
	assert.Equal(t, 2*time.Second, before.Remaining)
	collected := drain(events)
	assert.Equal(t, EventStopped, collected[len(collected)-1].Type)
	assert.Empty(t, ofType(collected, EventCompleted))
	assert.Zero(t, store.Len())
}

func TestPausedTicksAreDiscarded(t *testing.T) {
	clock := newClock(history.New())
	require.NoError(t, clock.Start(breathwork(model.TechniqueBox, time.Minute)))
	clock.Tick()

	require.NoError(t, clock.Pause())
	paused := clock.Snapshot()
	for i := 0; i < 10; i++ {
		clock.Tick()
	}
	require.NoError(t, clock.Resume())

	resumed := clock.Snapshot()
	assert.Equal(t, paused.Remaining, resumed.Remaining)
	assert.Equal(t, paused.Breath, resumed.Breath)
	assert.Equal(t, StateRunning, resumed.State)
}

func TestInvalidTransitionsLeaveStateUnchanged(t *testing.T) {
	clock := newClock(history.New())

	assert.ErrorIs(t, clock.Pause(), ErrInvalidTransition)
	assert.ErrorIs(t, clock.Resume(), ErrInvalidTransition)
	assert.ErrorIs(t, clock.Stop(), ErrInvalidTransition)
	assert.Equal(t, StateIdle, clock.State())

	require.NoError(t, clock.Start(meditation(time.Second)))
	assert.ErrorIs(t, clock.Resume(), ErrInvalidTransition)
	assert.Equal(t, StateRunning, clock.State())

	clock.Tick()
	require.Equal(t, StateCompleted, clock.State())
	assert.ErrorIs(t, clock.Pause(), ErrInvalidTransition)
	assert.ErrorIs(t, clock.Stop(), ErrInvalidTransition)
	assert.Equal(t, StateCompleted, clock.State())
}

func TestStopFromPaused(t *testing.T) {
	store := history.New()
	clock := newClock(store)
	require.NoError(t, clock.Start(meditation(time.Minute)))
	require.NoError(t, clock.Pause())
	require.NoError(t, clock.Stop())

	assert.Equal(t, StateStopped, clock.State())
	assert.ErrorIs(t, clock.Resume(), ErrInvalidTransition)
	assert.Zero(t, store.Len())
}

func TestBreathworkEmitsPhaseChanges(t *testing.T) {
	clock := newClock(history.New())
	events := clock.Subscribe(256)
	require.NoError(t, clock.Start(breathwork(model.TechniqueBox, 16*time.Second)))

	for i := 0; i < 16; i++ {
		clock.Tick()
	}

	collected := drain(events)
	phases := ofType(collected, EventPhaseChanged)
	require.Len(t, phases, 3)
	assert.Equal(t, breath.PhaseHold, phases[0].Breath.Phase)
	assert.Equal(t, breath.PhaseExhale, phases[1].Breath.Phase)
	assert.Equal(t, breath.PhaseHoldEmpty, phases[2].Breath.Phase)

	// the countdown completes on the sixteenth tick before the breath
	// consumer sees it
	completed := ofType(collected, EventCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, model.TechniqueBox, completed[0].Session.Technique)
	assert.Empty(t, completed[0].Session.MeditationType)
}

func TestBreathworkCyclesDuringLongSession(t *testing.T) {
	clock := newClock(history.New())
	require.NoError(t, clock.Start(breathwork(model.TechniqueCoherent, time.Minute)))

	for i := 0; i < 10; i++ {
		clock.Tick()
	}

	snapshot := clock.Snapshot()
	assert.Equal(t, 1, snapshot.Breath.Cycles)
	assert.Equal(t, breath.PhaseInhale, snapshot.Breath.Phase)
	assert.Equal(t, 50*time.Second, snapshot.Remaining)
	assert.InDelta(t, 10.0/60.0, snapshot.Progress, 1e-9)
}

func TestFinalEventDisplacesStaleProgress(t *testing.T) {
	clock := newClock(history.New())
	events := clock.Subscribe(1)
	require.NoError(t, clock.Start(meditation(3*time.Second)))
	clock.Tick()
	clock.Tick()
	clock.Tick()

	collected := drain(events)
	require.Len(t, collected, 1)
	assert.Equal(t, EventCompleted, collected[0].Type)
}

func TestSubscribeAfterTerminalIsClosed(t *testing.T) {
	clock := newClock(history.New())
	require.NoError(t, clock.Start(meditation(time.Minute)))
	require.NoError(t, clock.Stop())

	_, open := <-clock.Subscribe(1)
	assert.False(t, open)
}

func TestAttachDrivesClockAndReleasesLease(t *testing.T) {
	store := history.New()
	clock := newClock(store)
	source := metronome.New(metronome.Config{})

	assert.ErrorIs(t, clock.Attach(source), ErrInvalidTransition)
	require.NoError(t, clock.Start(breathwork(model.TechniqueWimHof, 3*time.Second)))
	require.NoError(t, clock.Attach(source))
	assert.ErrorIs(t, clock.Attach(source), ErrInvalidTransition)
	assert.Equal(t, 2, source.Subscribers())

	source.Pulse(epoch)
	source.Pulse(epoch)
	snapshot := clock.Snapshot()
	assert.Equal(t, breath.PhaseExhale, snapshot.Breath.Phase)
	assert.Equal(t, time.Second, snapshot.Remaining)

	source.Pulse(epoch)
	assert.Equal(t, StateCompleted, clock.State())
	assert.Zero(t, source.Subscribers())
	assert.Equal(t, 1, store.Len())

	source.Pulse(epoch)
	assert.Equal(t, 1, store.Len())
}

func TestStopReleasesLease(t *testing.T) {
	clock := newClock(history.New())
	source := metronome.New(metronome.Config{})
	require.NoError(t, clock.Start(meditation(time.Minute)))
	require.NoError(t, clock.Attach(source))

	require.NoError(t, clock.Stop())

	assert.Zero(t, source.Subscribers())
}

func TestPlanValidateHasNoSideEffects(t *testing.T) {
	table := breath.DefaultTable()

	assert.NoError(t, meditation(time.Minute).Validate(table))
	assert.NoError(t, breathwork(model.TechniqueFire, time.Minute).Validate(table))
	assert.ErrorIs(t, meditation(90*time.Millisecond).Validate(table), ErrInvalidDuration)
	assert.ErrorIs(t, breathwork(model.TechniqueBox, time.Minute).Validate(breath.Table{}), ErrUnknownTechnique)
}

func TestBreathworkProgressCarriesCurrentPhase(t *testing.T) {
	clock := newClock(history.New())
	events := clock.Subscribe(256)
	require.NoError(t, clock.Start(breathwork(model.TechniqueBox, time.Minute)))

	for i := 0; i < 5; i++ {
		clock.Tick()
	}
	require.NoError(t, clock.Stop())

	progress := ofType(drain(events), EventProgress)
	require.Len(t, progress, 5)
	seconds := make([]int, 0, len(progress))
	for _, event := range progress {
		seconds = append(seconds, event.Breath.DisplaySeconds())
	}
	assert.Equal(t, []int{3, 2, 1, 4, 3}, seconds)
	assert.Equal(t, breath.PhaseInhale, progress[2].Breath.Phase)
	assert.Equal(t, breath.PhaseHold, progress[3].Breath.Phase)
}
