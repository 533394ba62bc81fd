// Package display formats session state for the tray, windows and terminal.
package display

import (
	"fmt"
	"time"

	"divinewithin/internal/core/breath"
	"divinewithin/internal/core/model"
	"divinewithin/internal/core/session"
)

// FormatRemaining renders a countdown as mm:ss.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining / time.Second)
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// FormatTotal renders accumulated practice time, e.g. "1h 05m" or "12m".
func FormatTotal(total time.Duration) string {
	minutes := int(total / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

// CircleScale is the relative size of the breathing circle for a phase.
func CircleScale(phase breath.Phase) float32 {
	switch phase {
	case breath.PhaseInhale:
		return 1
	case breath.PhaseHold:
		return 1
	case breath.PhaseExhale:
		return 0.5
	case breath.PhaseHoldEmpty:
		return 0.5
	}
	return 0.75
}

// Headline names the session: the technique for breathwork, the meditation
// type otherwise.
func Headline(plan session.Plan) string {
	if plan.Kind == model.KindBreathwork {
		return plan.Technique.DisplayName()
	}
	return plan.MeditationType.DisplayName()
}

// Status is the one-line summary of a snapshot.
func Status(snapshot session.Snapshot) string {
	switch snapshot.State {
	case session.StateIdle:
		return "idle"
	case session.StateCompleted:
		return "session complete"
	case session.StateStopped:
		return "session stopped"
	}
	status := FormatRemaining(snapshot.Remaining) + " left"
	if snapshot.Breath.Phase != "" {
		status = fmt.Sprintf("%s, %s %d", status, snapshot.Breath.Phase.Label(), snapshot.Breath.DisplaySeconds())
	}
	if snapshot.State == session.StatePaused {
		status += " (paused)"
	}
	return status
}
