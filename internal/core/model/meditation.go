package model

import "fmt"

// MeditationType is the focus of a meditation session.
type MeditationType string

const (
	MeditationDivine         MeditationType = "divine"
	MeditationBreath         MeditationType = "breath"
	MeditationUnity          MeditationType = "unity"
	MeditationHealing        MeditationType = "healing"
	MeditationLovingKindness MeditationType = "loving_kindness"
)

var meditationTypes = []MeditationType{
	MeditationDivine,
	MeditationBreath,
	MeditationUnity,
	MeditationHealing,
	MeditationLovingKindness,
}

var meditationNames = map[MeditationType]string{
	MeditationDivine:         "Divine Connection",
	MeditationBreath:         "Sacred Breath",
	MeditationUnity:          "Unity Awareness",
	MeditationHealing:        "Divine Healing",
	MeditationLovingKindness: "Loving Kindness",
}

var meditationGuidance = map[MeditationType]string{
	MeditationDivine:         "Breathe deeply and remember your divine nature. You are consciousness itself, experiencing life through this sacred form.",
	MeditationBreath:         "Focus on your breath, the bridge between body and spirit. Each breath connects you to the infinite source of life.",
	MeditationUnity:          "Feel your connection to all existence. The boundaries you perceive are illusions, all is one divine consciousness.",
	MeditationHealing:        "Allow divine love to flow through every cell of your being, healing and transforming all that needs attention.",
	MeditationLovingKindness: "Send love to yourself, your loved ones, and all beings everywhere. Love is the essence of your true nature.",
}

// MeditationTypes lists every meditation type in menu order.
func MeditationTypes() []MeditationType {
	return append([]MeditationType(nil), meditationTypes...)
}

// ParseMeditationType resolves an identifier such as "unity".
func ParseMeditationType(value string) (MeditationType, error) {
	candidate := MeditationType(value)
	if !candidate.Valid() {
		return "", fmt.Errorf("unknown meditation type %q", value)
	}
	return candidate, nil
}

// Valid reports whether the type is one of the known focus types.
func (meditation MeditationType) Valid() bool {
	_, ok := meditationNames[meditation]
	return ok
}

// DisplayName returns the human readable name.
func (meditation MeditationType) DisplayName() string {
	if name, ok := meditationNames[meditation]; ok {
		return name
	}
	return string(meditation)
}

// Guidance returns the message shown while the session runs.
func (meditation MeditationType) Guidance() string {
	return meditationGuidance[meditation]
}
