package session

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"divinewithin/internal/core/history"
	"divinewithin/internal/core/model"
)

// TestCompletionProperty checks that for any positive duration d, d ticks
// without pause or stop yield exactly one completed session of length d.
func TestCompletionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("d ticks complete a d second session once", prop.ForAll(
		func(seconds int, breathing bool) bool {
			store := history.New()
			clock := newClock(store)
			events := clock.Subscribe(4)

			plan := meditation(time.Duration(seconds) * time.Second)
			if breathing {
				plan = breathwork(model.TechniqueFire, plan.Duration)
			}
			if err := clock.Start(plan); err != nil {
				return false
			}
			for i := 0; i < seconds; i++ {
				if clock.State() != StateRunning {
					return false
				}
				clock.Tick()
			}
			clock.Tick()

			completed := ofType(drain(events), EventCompleted)
			if len(completed) != 1 || store.Len() != 1 {
				return false
			}
			session := completed[0].Session
			return session.Completed &&
				session.Duration == time.Duration(seconds)*time.Second &&
				clock.State() == StateCompleted
		},
		gen.IntRange(1, 900),
		gen.Bool(),
	))

	properties.Property("pausing discards ticks", prop.ForAll(
		func(before, paused int) bool {
			clock := newClock(history.New())
			if err := clock.Start(meditation(time.Hour)); err != nil {
				return false
			}
			for i := 0; i < before; i++ {
				clock.Tick()
			}
			if err := clock.Pause(); err != nil {
				return false
			}
			remaining := clock.Snapshot().Remaining
			for i := 0; i < paused; i++ {
				clock.Tick()
			}
			if err := clock.Resume(); err != nil {
				return false
			}
			return clock.Snapshot().Remaining == remaining &&
				remaining == time.Hour-time.Duration(before)*time.Second
		},
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
