package stats

import (
	"sort"
	"time"

	"divinewithin/internal/core/model"
)

// DefaultStreakCap bounds the backward day walk of CurrentStreakDays.
const DefaultStreakCap = 365

// Source provides the recorded sessions.
type Source interface {
	All() []model.Session
}

// Config contains options for Calculator.
type Config struct {
	// StreakCap is the maximum number of days CurrentStreakDays walks back.
	StreakCap int
	// Location defines calendar day boundaries. Defaults to time.Local.
	Location *time.Location
	Clock    Clock
}

// Summary aggregates every statistic for display.
type Summary struct {
	MeditationSessions int
	MeditationTime     time.Duration
	BreathworkSessions int
	BreathworkTime     time.Duration
	StreakDays         int
	FavoriteTechnique  model.Technique
}

// Calculator derives statistics from a Source. It never mutates it.
type Calculator struct {
	source Source
	config Config
}

// New creates a Calculator over source.
func New(source Source, config Config) *Calculator {
	if config.StreakCap <= 0 {
		config.StreakCap = DefaultStreakCap
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Clock == nil {
		config.Clock = RealClock{}
	}
	return &Calculator{source: source, config: config}
}

// TotalSeconds sums the planned duration of completed sessions of kind.
func (calculator *Calculator) TotalSeconds(kind model.Kind) int64 {
	return int64(calculator.TotalDuration(kind) / time.Second)
}

// TotalDuration sums the planned duration of completed sessions of kind.
func (calculator *Calculator) TotalDuration(kind model.Kind) time.Duration {
	var total time.Duration
	for _, session := range calculator.completed(kind) {
		total += session.Duration
	}
	return total
}

// SessionCount counts completed sessions of kind.
func (calculator *Calculator) SessionCount(kind model.Kind) int {
	return len(calculator.completed(kind))
}

// CurrentStreakDays counts consecutive calendar days, ending today, holding
// at least one completed meditation.
func (calculator *Calculator) CurrentStreakDays() int {
	meditations := calculator.completed(model.KindMeditation)
	if len(meditations) == 0 {
		return 0
	}

	location := calculator.config.Location
	days := make(map[calendarDay]bool, len(meditations))
	for _, session := range meditations {
		days[dayOf(session.CompletedAt.In(location))] = true
	}

	day := startOfDay(calculator.config.Clock.Now().In(location))
	streak := 0
	for streak < calculator.config.StreakCap && days[dayOf(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// FavoriteTechnique returns the technique with the most completed sessions.
// Ties go to the lexically smallest identifier; an empty history yields
// model.TechniqueNone.
func (calculator *Calculator) FavoriteTechnique() model.Technique {
	counts := make(map[model.Technique]int)
	for _, session := range calculator.completed(model.KindBreathwork) {
		counts[session.Technique]++
	}
	if len(counts) == 0 {
		return model.TechniqueNone
	}

	candidates := make([]model.Technique, 0, len(counts))
	for technique := range counts {
		candidates = append(candidates, technique)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if counts[candidates[i]] != counts[candidates[j]] {
			return counts[candidates[i]] > counts[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	return candidates[0]
}

// Summary computes every statistic.
func (calculator *Calculator) Summary() Summary {
	return Summary{
		MeditationSessions: calculator.SessionCount(model.KindMeditation),
		MeditationTime:     calculator.TotalDuration(model.KindMeditation),
		BreathworkSessions: calculator.SessionCount(model.KindBreathwork),
		BreathworkTime:     calculator.TotalDuration(model.KindBreathwork),
		StreakDays:         calculator.CurrentStreakDays(),
		FavoriteTechnique:  calculator.FavoriteTechnique(),
	}
}

func (calculator *Calculator) completed(kind model.Kind) []model.Session {
	var sessions []model.Session
	for _, session := range calculator.source.All() {
		if session.Completed && session.Kind == kind {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

type calendarDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(moment time.Time) calendarDay {
	year, month, day := moment.Date()
	return calendarDay{year: year, month: month, day: day}
}

func startOfDay(moment time.Time) time.Time {
	year, month, day := moment.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, moment.Location())
}
