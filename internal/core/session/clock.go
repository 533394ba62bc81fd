package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"divinewithin/internal/core/breath"
	"divinewithin/internal/core/metronome"
	"divinewithin/internal/core/model"
)

// Recorder receives completed sessions.
type Recorder interface {
	Append(session model.Session)
}

// Plan describes the session to run.
type Plan struct {
	Kind           model.Kind
	MeditationType model.MeditationType
	Technique      model.Technique
	Duration       time.Duration
}

// Options configures a Clock.
type Options struct {
	Table    breath.Table
	Recorder Recorder
	Now      func() time.Time
	NewID    func() string
	Logger   zerolog.Logger
}

// Snapshot is a point-in-time view of a Clock for renderers.
type Snapshot struct {
	ID        string
	State     State
	Plan      Plan
	Remaining time.Duration
	Progress  float64
	Breath    breath.State
}

// Clock drives a single session countdown to zero exactly once. All methods
// are serialized by an internal mutex.
type Clock struct {
	mu        sync.Mutex
	options   Options
	logger    zerolog.Logger
	state     State
	plan      Plan
	id        string
	startedAt time.Time
	remaining time.Duration
	engine    *breath.Engine
	lease     *metronome.Lease
	events    []chan Event
}

// New creates an idle Clock.
func New(options Options) *Clock {
	if options.Table == nil {
		options.Table = breath.DefaultTable()
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.NewID == nil {
		options.NewID = uuid.NewString
	}
	return &Clock{
		options: options,
		logger:  options.Logger.With().Str("component", "session-clock").Logger(),
		state:   StateIdle,
	}
}

// Subscribe registers a new observer channel. Progress and phase events are
// dropped when the observer lags; the final completed or stopped event is
// always delivered, after which the channel is closed.
func (clock *Clock) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	clock.mu.Lock()
	defer clock.mu.Unlock()
	if clock.state.Terminal() {
		close(ch)
		return ch
	}
	clock.events = append(clock.events, ch)
	return ch
}

// Validate checks plan against table without side effects. Durations must
// be a positive whole number of seconds.
func (plan Plan) Validate(table breath.Table) error {
	if plan.Duration <= 0 || plan.Duration%time.Second != 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDuration, plan.Duration)
	}
	switch plan.Kind {
	case model.KindMeditation:
		if !plan.MeditationType.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownMeditationType, plan.MeditationType)
		}
	case model.KindBreathwork:
		pattern, err := table.Pattern(plan.Technique)
		if err != nil {
			return err
		}
		if err := pattern.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, plan.Kind)
	}
	return nil
}

// Start begins the countdown described by plan.
func (clock *Clock) Start(plan Plan) error {
	if err := plan.Validate(clock.options.Table); err != nil {
		return err
	}

	var engine *breath.Engine
	if plan.Kind == model.KindBreathwork {
		var err error
		engine, err = breath.NewEngine(clock.options.Table, plan.Technique)
		if err != nil {
			return err
		}
		plan.MeditationType = ""
	} else {
		plan.Technique = model.TechniqueNone
	}

	clock.mu.Lock()
	defer clock.mu.Unlock()
	if clock.state != StateIdle {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, clock.state)
	}

	now := clock.options.Now()
	clock.plan = plan
	clock.id = clock.options.NewID()
	clock.startedAt = now
	clock.remaining = plan.Duration
	clock.engine = engine
	clock.state = StateRunning

	clock.logger.Info().
		Str("session_id", clock.id).
		Str("kind", string(plan.Kind)).
		Dur("duration", plan.Duration).
		Msg("Session started")

	clock.emitLocked(Event{
		Type:      EventStateChange,
		State:     StateRunning,
		Remaining: clock.remaining,
		Breath:    clock.breathLocked(),
		At:        now,
	})
	return nil
}

// Attach subscribes the countdown and the breath phase to source under one
// lease. The lease is released when the session stops or completes.
func (clock *Clock) Attach(source *metronome.Source) error {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	if clock.state.Terminal() || clock.state == StateIdle {
		return fmt.Errorf("%w: attach from %s", ErrInvalidTransition, clock.state)
	}
	if clock.lease != nil {
		return fmt.Errorf("%w: already attached", ErrInvalidTransition)
	}
	clock.lease = source.Acquire(clock.countdown, clock.breathe)
	return nil
}

// Tick consumes one elapsed second. It is a no-op outside StateRunning.
func (clock *Clock) Tick() {
	now := clock.options.Now()
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.countdownLocked(now)
	clock.breatheLocked(now)
}

// Pause freezes the countdown.
func (clock *Clock) Pause() error {
	return clock.transition(StateRunning, StatePaused, "pause")
}

// Resume unfreezes the countdown.
func (clock *Clock) Resume() error {
	return clock.transition(StatePaused, StateRunning, "resume")
}

// Stop abandons the session. Nothing is recorded.
func (clock *Clock) Stop() error {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	if clock.state != StateRunning && clock.state != StatePaused {
		return fmt.Errorf("%w: stop from %s", ErrInvalidTransition, clock.state)
	}

	clock.state = StateStopped
	clock.logger.Info().
		Str("session_id", clock.id).
		Dur("remaining", clock.remaining).
		Msg("Session stopped")

	clock.finishLocked(Event{
		Type:      EventStopped,
		State:     StateStopped,
		Remaining: clock.remaining,
		Progress:  clock.progressLocked(),
		Breath:    clock.breathLocked(),
		At:        clock.options.Now(),
	})
	return nil
}

// State returns the current state.
func (clock *Clock) State() State {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.state
}

// Snapshot returns the current view of the session.
func (clock *Clock) Snapshot() Snapshot {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return Snapshot{
		ID:        clock.id,
		State:     clock.state,
		Plan:      clock.plan,
		Remaining: clock.remaining,
		Progress:  clock.progressLocked(),
		Breath:    clock.breathLocked(),
	}
}

func (clock *Clock) transition(from, to State, operation string) error {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	if clock.state != from {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, operation, clock.state)
	}
	clock.state = to
	clock.logger.Debug().
		Str("session_id", clock.id).
		Str("state", string(to)).
		Msg("Session state changed")

	clock.emitLocked(Event{
		Type:      EventStateChange,
		State:     to,
		Remaining: clock.remaining,
		Progress:  clock.progressLocked(),
		Breath:    clock.breathLocked(),
		At:        clock.options.Now(),
	})
	return nil
}

func (clock *Clock) countdown(at time.Time) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.countdownLocked(at)
}

func (clock *Clock) breathe(at time.Time) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.breatheLocked(at)
}

func (clock *Clock) countdownLocked(now time.Time) {
	if clock.state != StateRunning {
		return
	}
	clock.remaining -= time.Second
	if clock.remaining <= 0 {
		clock.completeLocked(now)
		return
	}
	// breathwork reports progress once the phase has advanced too
	if clock.engine == nil {
		clock.progressEventLocked(now)
	}
}

func (clock *Clock) breatheLocked(now time.Time) {
	if clock.state != StateRunning || clock.engine == nil {
		return
	}
	if clock.engine.Advance() {
		clock.emitLocked(Event{
			Type:      EventPhaseChanged,
			State:     clock.state,
			Remaining: clock.remaining,
			Progress:  clock.progressLocked(),
			Breath:    clock.engine.State(),
			At:        now,
		})
	}
	clock.progressEventLocked(now)
}

func (clock *Clock) progressEventLocked(now time.Time) {
	clock.emitLocked(Event{
		Type:      EventProgress,
		State:     clock.state,
		Remaining: clock.remaining,
		Progress:  clock.progressLocked(),
		Breath:    clock.breathLocked(),
		At:        now,
	})
}

func (clock *Clock) completeLocked(now time.Time) {
	clock.remaining = 0
	clock.state = StateCompleted

	record := model.Session{
		ID:             clock.id,
		Kind:           clock.plan.Kind,
		MeditationType: clock.plan.MeditationType,
		Technique:      clock.plan.Technique,
		Duration:       clock.plan.Duration,
		StartedAt:      clock.startedAt,
		CompletedAt:    now,
		Completed:      true,
	}
	if clock.options.Recorder != nil {
		clock.options.Recorder.Append(record)
	}

	clock.logger.Info().
		Str("session_id", clock.id).
		Str("kind", string(record.Kind)).
		Int("cycles", clock.breathLocked().Cycles).
		Msg("Session completed")

	clock.finishLocked(Event{
		Type:     EventCompleted,
		State:    StateCompleted,
		Progress: 1,
		Breath:   clock.breathLocked(),
		Session:  &record,
		At:       now,
	})
}

// finishLocked releases the tick lease, delivers the final event to every
// observer and closes their channels.
func (clock *Clock) finishLocked(event Event) {
	clock.lease.Release()
	events := clock.events
	clock.events = nil
	for _, ch := range events {
		deliverFinal(ch, event)
	}
}

func (clock *Clock) progressLocked() float64 {
	total := clock.plan.Duration
	if total <= 0 {
		return 0
	}
	progress := float64(total-clock.remaining) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func (clock *Clock) breathLocked() breath.State {
	if clock.engine == nil {
		return breath.State{}
	}
	return clock.engine.State()
}

func (clock *Clock) emitLocked(event Event) {
	for _, ch := range clock.events {
		select {
		case ch <- event:
		default:
		}
	}
}

// deliverFinal makes room for event by discarding stale buffered events.
// The clock is the only sender, so the loop always terminates.
func deliverFinal(ch chan Event, event Event) {
	for {
		select {
		case ch <- event:
			close(ch)
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
