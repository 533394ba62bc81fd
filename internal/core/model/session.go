package model

import "time"

// Kind identifies the activity a session runs.
type Kind string

const (
	KindMeditation Kind = "meditation"
	KindBreathwork Kind = "breathwork"
)

// Session is the record of a finished activity.
type Session struct {
	ID             string
	Kind           Kind
	MeditationType MeditationType
	Technique      Technique
	Duration       time.Duration
	StartedAt      time.Time
	CompletedAt    time.Time
	Completed      bool
}

// Label returns the focus type or technique name for display.
func (session Session) Label() string {
	if session.Kind == KindBreathwork {
		return session.Technique.DisplayName()
	}
	return session.MeditationType.DisplayName()
}
