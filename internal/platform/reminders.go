package platform

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrReminderInPast indicates a reminder time that has already passed.
var ErrReminderInPast = errors.New("reminder time is in the past")

// Notifier delivers a reminder to the user.
type Notifier interface {
	Notify(title, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, message string)

// Notify calls the function.
func (notifier NotifierFunc) Notify(title, message string) {
	notifier(title, message)
}

// Reminders schedules practice reminders keyed by their fire time.
type Reminders struct {
	mu       sync.Mutex
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time
	timers   map[time.Time]*time.Timer
}

// NewReminders creates a scheduler delivering through notifier.
func NewReminders(notifier Notifier, logger zerolog.Logger) *Reminders {
	return &Reminders{
		notifier: notifier,
		logger:   logger.With().Str("component", "reminders").Logger(),
		now:      time.Now,
		timers:   make(map[time.Time]*time.Timer),
	}
}

// Schedule fires message at the given time. A reminder already scheduled
// for the same time is replaced.
func (reminders *Reminders) Schedule(at time.Time, message string) error {
	return reminders.schedule(at, func() {
		reminders.notifier.Notify("Time to practice", message)
	})
}

// ScheduleDaily fires message every day at hour:minute local time.
func (reminders *Reminders) ScheduleDaily(hour, minute int, message string) (time.Time, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("schedule daily reminder: invalid time %02d:%02d", hour, minute)
	}
	at := NextOccurrence(reminders.now(), hour, minute)
	err := reminders.schedule(at, func() {
		reminders.notifier.Notify("Time to practice", message)
		if _, err := reminders.ScheduleDaily(hour, minute, message); err != nil {
			reminders.logger.Error().Err(err).Msg("Failed to reschedule daily reminder")
		}
	})
	return at, err
}

// Cancel removes the reminder scheduled for at.
func (reminders *Reminders) Cancel(at time.Time) bool {
	at = at.Round(0)
	reminders.mu.Lock()
	defer reminders.mu.Unlock()
	timer, ok := reminders.timers[at]
	if !ok {
		return false
	}
	timer.Stop()
	delete(reminders.timers, at)
	return true
}

// CancelAll removes every pending reminder.
func (reminders *Reminders) CancelAll() {
	reminders.mu.Lock()
	defer reminders.mu.Unlock()
	for at, timer := range reminders.timers {
		timer.Stop()
		delete(reminders.timers, at)
	}
}

// Pending lists the scheduled times in order.
func (reminders *Reminders) Pending() []time.Time {
	reminders.mu.Lock()
	defer reminders.mu.Unlock()
	pending := make([]time.Time, 0, len(reminders.timers))
	for at := range reminders.timers {
		pending = append(pending, at)
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Before(pending[j]) })
	return pending
}

func (reminders *Reminders) schedule(at time.Time, fire func()) error {
	at = at.Round(0)
	delay := at.Sub(reminders.now())
	if delay <= 0 {
		return fmt.Errorf("%w: %s", ErrReminderInPast, at.Format(time.RFC3339))
	}

	reminders.mu.Lock()
	defer reminders.mu.Unlock()
	if existing, ok := reminders.timers[at]; ok {
		existing.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		reminders.mu.Lock()
		if reminders.timers[at] != timer {
			reminders.mu.Unlock()
			return
		}
		delete(reminders.timers, at)
		reminders.mu.Unlock()

		reminders.logger.Debug().Time("at", at).Msg("Reminder fired")
		fire()
	})
	reminders.timers[at] = timer
	reminders.logger.Debug().Time("at", at).Msg("Reminder scheduled")
	return nil
}

// NextOccurrence returns the next hour:minute strictly after now, in now's
// location.
func NextOccurrence(now time.Time, hour, minute int) time.Time {
	year, month, day := now.Date()
	next := time.Date(year, month, day, hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(year, month, day+1, hour, minute, 0, 0, now.Location())
	}
	return next
}
