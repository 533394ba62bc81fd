package metronome

import (
	"sync"
	"sync/atomic"
	"time"
)

// Subscriber consumes one elapsed interval.
type Subscriber func(at time.Time)

// Config contains runtime options for Source.
type Config struct {
	Interval time.Duration
}

type entry struct {
	lease      *Lease
	subscriber Subscriber
}

// Source is the periodic trigger shared by every session. Subscribers are
// grouped under leases so a session can drop all of its work at once.
type Source struct {
	mu       sync.Mutex
	interval time.Duration
	entries  []entry
	stopCh   chan struct{}
	running  bool
}

// Lease scopes a group of subscriptions.
type Lease struct {
	source   *Source
	released atomic.Bool
	once     sync.Once
}

// New creates a Source. It does not tick until Start is called.
func New(config Config) *Source {
	if config.Interval <= 0 {
		config.Interval = time.Second
	}
	return &Source{interval: config.Interval}
}

// Interval returns the period between pulses.
func (source *Source) Interval() time.Duration {
	return source.interval
}

// Acquire registers subscribers under a single lease. Subscribers are
// invoked in registration order on every pulse.
func (source *Source) Acquire(subscribers ...Subscriber) *Lease {
	lease := &Lease{source: source}
	source.mu.Lock()
	for _, subscriber := range subscribers {
		if subscriber == nil {
			continue
		}
		source.entries = append(source.entries, entry{lease: lease, subscriber: subscriber})
	}
	source.mu.Unlock()
	return lease
}

// Subscribers returns the number of live subscriptions.
func (source *Source) Subscribers() int {
	source.mu.Lock()
	defer source.mu.Unlock()
	return len(source.entries)
}

// Start launches the ticking loop.
func (source *Source) Start() {
	source.mu.Lock()
	if source.running {
		source.mu.Unlock()
		return
	}
	source.running = true
	source.stopCh = make(chan struct{})
	stopCh := source.stopCh
	source.mu.Unlock()

	go source.run(stopCh)
}

// Stop terminates the ticking loop. Leases stay registered.
func (source *Source) Stop() {
	source.mu.Lock()
	defer source.mu.Unlock()
	if !source.running {
		return
	}
	close(source.stopCh)
	source.running = false
}

// Pulse delivers one interval to every live subscriber. The ticking loop
// calls it; tests and manual drivers may call it directly.
func (source *Source) Pulse(at time.Time) {
	source.mu.Lock()
	entries := append([]entry(nil), source.entries...)
	source.mu.Unlock()

	for _, current := range entries {
		if current.lease.released.Load() {
			continue
		}
		current.subscriber(at)
	}
}

func (source *Source) run(stopCh chan struct{}) {
	ticker := time.NewTicker(source.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case tickTime := <-ticker.C:
			source.Pulse(tickTime)
		}
	}
}

// Release removes every subscription of the lease. It is idempotent and
// safe to call from inside a subscriber.
func (lease *Lease) Release() {
	if lease == nil {
		return
	}
	lease.once.Do(func() {
		lease.released.Store(true)
		source := lease.source
		source.mu.Lock()
		kept := source.entries[:0]
		for _, current := range source.entries {
			if current.lease != lease {
				kept = append(kept, current)
			}
		}
		for i := len(kept); i < len(source.entries); i++ {
			source.entries[i] = entry{}
		}
		source.entries = kept
		source.mu.Unlock()
	})
}

// Released reports whether Release has been called.
func (lease *Lease) Released() bool {
	return lease != nil && lease.released.Load()
}
