package metronome

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPulseDeliversInRegistrationOrder(t *testing.T) {
	source := New(Config{})
	var order []string
	source.Acquire(
		func(time.Time) { order = append(order, "countdown") },
		func(time.Time) { order = append(order, "phase") },
	)

	source.Pulse(time.Now())
	source.Pulse(time.Now())

	assert.Equal(t, []string{"countdown", "phase", "countdown", "phase"}, order)
	assert.Equal(t, time.Second, source.Interval())
}

func TestReleaseDropsEveryLeaseSubscription(t *testing.T) {
	source := New(Config{})
	var mine, other int
	lease := source.Acquire(
		func(time.Time) { mine++ },
		func(time.Time) { mine++ },
	)
	source.Acquire(func(time.Time) { other++ })
	require.Equal(t, 3, source.Subscribers())

	lease.Release()
	lease.Release()
	source.Pulse(time.Now())

	assert.True(t, lease.Released())
	assert.Equal(t, 0, mine)
	assert.Equal(t, 1, other)
	assert.Equal(t, 1, source.Subscribers())
}

func TestReleaseFromInsideSubscriber(t *testing.T) {
	source := New(Config{})
	calls := 0
	var lease *Lease
	lease = source.Acquire(
		func(time.Time) {
			calls++
			lease.Release()
		},
		func(time.Time) { calls++ },
	)

	source.Pulse(time.Now())
	source.Pulse(time.Now())

	// the second subscriber of the same pulse is skipped once released
	assert.Equal(t, 1, calls)
}

func TestStartDrivesSubscribers(t *testing.T) {
	source := New(Config{Interval: 5 * time.Millisecond})
	var pulses atomic.Int32
	source.Acquire(func(time.Time) { pulses.Add(1) })

	source.Start()
	source.Start()
	defer source.Stop()

	require.Eventually(t, func() bool { return pulses.Load() >= 3 }, time.Second, time.Millisecond)
}

func TestStopHaltsPulses(t *testing.T) {
	source := New(Config{Interval: 2 * time.Millisecond})
	var pulses atomic.Int32
	source.Acquire(func(time.Time) { pulses.Add(1) })

	source.Start()
	require.Eventually(t, func() bool { return pulses.Load() >= 1 }, time.Second, time.Millisecond)
	source.Stop()
	source.Stop()

	time.Sleep(10 * time.Millisecond)
	settled := pulses.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, settled, pulses.Load())
}
