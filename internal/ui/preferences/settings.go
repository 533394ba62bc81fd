package preferences

import (
	"time"

	"divinewithin/internal/core/model"
	"divinewithin/internal/core/practice"
	"divinewithin/internal/core/session"
	"divinewithin/internal/core/stats"
)

// Settings defines editable user preferences.
type Settings struct {
	MeditationDuration time.Duration
	MeditationType     model.MeditationType
	BreathworkDuration time.Duration
	Technique          model.Technique

	ReminderEnabled bool
	ReminderHour    int
	ReminderMinute  int

	StreakCapDays int

	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

// DefaultSettings returns default settings for Divine Within.
func DefaultSettings() Settings {
	return Settings{
		MeditationDuration: 10 * time.Minute,
		MeditationType:     model.MeditationDivine,
		BreathworkDuration: 5 * time.Minute,
		Technique:          model.TechniqueBox,
		ReminderEnabled:    false,
		ReminderHour:       7,
		ReminderMinute:     0,
		StreakCapDays:      stats.DefaultStreakCap,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// MeditationPlan builds the default meditation session.
func (settings Settings) MeditationPlan() session.Plan {
	return session.Plan{
		Kind:           model.KindMeditation,
		MeditationType: settings.MeditationType,
		Duration:       settings.MeditationDuration,
	}
}

// BreathworkPlan builds the default breathwork session.
func (settings Settings) BreathworkPlan() session.Plan {
	return session.Plan{
		Kind:      model.KindBreathwork,
		Technique: settings.Technique,
		Duration:  settings.BreathworkDuration,
	}
}

// PracticeConfig converts settings to the coordinator configuration.
func (settings Settings) PracticeConfig() practice.Config {
	return practice.Config{
		StreakCap: settings.StreakCapDays,
		Location:  time.Local,
	}
}
