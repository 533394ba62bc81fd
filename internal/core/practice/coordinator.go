package practice

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"divinewithin/internal/core/breath"
	"divinewithin/internal/core/history"
	"divinewithin/internal/core/metronome"
	"divinewithin/internal/core/model"
	"divinewithin/internal/core/session"
	"divinewithin/internal/core/stats"
	"divinewithin/internal/metrics"
	"divinewithin/internal/platform"
)

// ErrNoActiveSession indicates a control call with no running session.
var ErrNoActiveSession = errors.New("no active session")

// Config contains runtime options for the Coordinator.
type Config struct {
	Table          breath.Table
	StreakCap      int
	Location       *time.Location
	Clock          stats.Clock
	ObserverBuffer int
}

// Coordinator owns the practice history and the single active session.
type Coordinator struct {
	mu      sync.Mutex
	config  Config
	source  *metronome.Source
	cue     platform.Cue
	store   *history.Store
	stats   *stats.Calculator
	active  *session.Clock
	logger  zerolog.Logger
	watches sync.WaitGroup
}

// New creates a Coordinator ticking sessions from source. cue may be nil.
func New(source *metronome.Source, cue platform.Cue, config Config, logger zerolog.Logger) *Coordinator {
	if config.Table == nil {
		config.Table = breath.DefaultTable()
	}
	if config.Clock == nil {
		config.Clock = stats.RealClock{}
	}
	if config.ObserverBuffer <= 0 {
		config.ObserverBuffer = 16
	}
	store := history.New()
	return &Coordinator{
		config: config,
		source: source,
		cue:    cue,
		store:  store,
		stats: stats.New(store, stats.Config{
			StreakCap: config.StreakCap,
			Location:  config.Location,
			Clock:     config.Clock,
		}),
		logger: logger.With().Str("component", "practice").Logger(),
	}
}

// StartMeditation starts a meditation of the given focus.
func (coordinator *Coordinator) StartMeditation(meditationType model.MeditationType, duration time.Duration) (*session.Clock, <-chan session.Event, error) {
	return coordinator.Start(session.Plan{
		Kind:           model.KindMeditation,
		MeditationType: meditationType,
		Duration:       duration,
	})
}

// StartBreathwork starts a breathwork session of the given technique.
func (coordinator *Coordinator) StartBreathwork(technique model.Technique, duration time.Duration) (*session.Clock, <-chan session.Event, error) {
	return coordinator.Start(session.Plan{
		Kind:      model.KindBreathwork,
		Technique: technique,
		Duration:  duration,
	})
}

// Start stops any active session and starts plan. The returned channel
// carries the new session's events. An invalid plan leaves the active
// session running.
func (coordinator *Coordinator) Start(plan session.Plan) (*session.Clock, <-chan session.Event, error) {
	if err := plan.Validate(coordinator.config.Table); err != nil {
		return nil, nil, fmt.Errorf("start %s session: %w", plan.Kind, err)
	}

	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()

	if coordinator.active != nil {
		if err := coordinator.active.Stop(); err == nil {
			coordinator.logger.Info().Msg("Stopped previous session")
		}
		coordinator.active = nil
	}

	clock := session.New(session.Options{
		Table:    coordinator.config.Table,
		Recorder: coordinator.store,
		Now:      coordinator.config.Clock.Now,
		Logger:   coordinator.logger,
	})
	events := clock.Subscribe(coordinator.config.ObserverBuffer)
	watch := clock.Subscribe(coordinator.config.ObserverBuffer)

	if err := clock.Start(plan); err != nil {
		return nil, nil, fmt.Errorf("start %s session: %w", plan.Kind, err)
	}
	if err := clock.Attach(coordinator.source); err != nil {
		_ = clock.Stop()
		return nil, nil, fmt.Errorf("attach %s session: %w", plan.Kind, err)
	}

	coordinator.active = clock
	metrics.SessionsStarted.WithLabelValues(string(plan.Kind)).Inc()
	metrics.ActiveSessions.Set(1)

	coordinator.watches.Add(1)
	go coordinator.watch(plan, watch)

	return clock, events, nil
}

// Pause pauses the active session.
func (coordinator *Coordinator) Pause() error {
	clock, err := coordinator.current()
	if err != nil {
		return err
	}
	return clock.Pause()
}

// Resume resumes the active session.
func (coordinator *Coordinator) Resume() error {
	clock, err := coordinator.current()
	if err != nil {
		return err
	}
	return clock.Resume()
}

// Stop abandons the active session.
func (coordinator *Coordinator) Stop() error {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	if coordinator.active == nil {
		return ErrNoActiveSession
	}
	err := coordinator.active.Stop()
	coordinator.active = nil
	return err
}

// Active returns the active session clock, or nil.
func (coordinator *Coordinator) Active() *session.Clock {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	return coordinator.active
}

// History returns the completed sessions store.
func (coordinator *Coordinator) History() *history.Store {
	return coordinator.store
}

// Stats returns the statistics calculator over the history.
func (coordinator *Coordinator) Stats() *stats.Calculator {
	return coordinator.stats
}

// Close stops the active session and waits for its observers to finish.
func (coordinator *Coordinator) Close() {
	_ = coordinator.Stop()
	coordinator.watches.Wait()
}

func (coordinator *Coordinator) current() (*session.Clock, error) {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	if coordinator.active == nil {
		return nil, ErrNoActiveSession
	}
	return coordinator.active, nil
}

func (coordinator *Coordinator) watch(plan session.Plan, events <-chan session.Event) {
	defer coordinator.watches.Done()

	cycles := 0
	for event := range events {
		switch event.Type {
		case session.EventPhaseChanged:
			if event.Breath.Cycles > cycles {
				metrics.BreathCycles.WithLabelValues(string(plan.Technique)).Add(float64(event.Breath.Cycles - cycles))
				cycles = event.Breath.Cycles
			}
		case session.EventCompleted:
			coordinator.completed(event)
		case session.EventStopped:
			metrics.SessionsStopped.WithLabelValues(string(plan.Kind)).Inc()
			coordinator.release()
		}
	}
}

func (coordinator *Coordinator) completed(event session.Event) {
	record := event.Session
	focus := string(record.MeditationType)
	if record.Kind == model.KindBreathwork {
		focus = string(record.Technique)
	}
	metrics.SessionsCompleted.WithLabelValues(string(record.Kind), focus).Inc()
	metrics.PracticeSeconds.WithLabelValues(string(record.Kind)).Add(record.Duration.Seconds())
	metrics.StreakDays.Set(float64(coordinator.stats.CurrentStreakDays()))

	coordinator.logger.Info().
		Str("session_id", record.ID).
		Str("label", record.Label()).
		Dur("duration", record.Duration).
		Msg("Practice recorded")

	if coordinator.cue != nil {
		coordinator.cue.PlayCompletion()
	}
	coordinator.release()
}

// release clears the active slot once its session has finished.
func (coordinator *Coordinator) release() {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	if coordinator.active != nil && !coordinator.active.State().Terminal() {
		return
	}
	coordinator.active = nil
	metrics.ActiveSessions.Set(0)
}
