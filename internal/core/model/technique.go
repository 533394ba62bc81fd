package model

import (
	"fmt"
	"strings"
)

// Technique is a named breathing pattern.
type Technique string

const (
	TechniqueBox       Technique = "box"
	TechniqueWimHof    Technique = "wim"
	TechniqueCoherent  Technique = "coherent"
	TechniqueAlternate Technique = "alternate"
	TechniqueFire      Technique = "fire"

	// TechniqueNone is returned when no breathwork has been completed.
	TechniqueNone Technique = ""
)

// RGB is a display colour.
type RGB struct {
	R, G, B uint8
}

type techniqueInfo struct {
	name        string
	description string
	color       RGB
}

var techniques = []Technique{
	TechniqueBox,
	TechniqueWimHof,
	TechniqueCoherent,
	TechniqueAlternate,
	TechniqueFire,
}

var techniqueInfos = map[Technique]techniqueInfo{
	TechniqueBox:       {name: "Box Breathing", description: "4-4-4-4 pattern for calm focus", color: RGB{R: 0, G: 122, B: 255}},
	TechniqueWimHof:    {name: "Wim Hof Method", description: "Energizing cold exposure preparation", color: RGB{R: 255, G: 149, B: 0}},
	TechniqueCoherent:  {name: "Heart Coherence", description: "5-5 pattern for heart-brain harmony", color: RGB{R: 52, G: 199, B: 89}},
	TechniqueAlternate: {name: "Alternate Nostril", description: "Balancing left and right brain hemispheres", color: RGB{R: 175, G: 82, B: 222}},
	TechniqueFire:      {name: "Breath of Fire", description: "Rapid breathing for energy activation", color: RGB{R: 255, G: 59, B: 48}},
}

// Techniques lists every technique in menu order.
func Techniques() []Technique {
	return append([]Technique(nil), techniques...)
}

// ParseTechnique resolves an identifier such as "box".
func ParseTechnique(value string) (Technique, error) {
	candidate := Technique(strings.ToLower(strings.TrimSpace(value)))
	if !candidate.Valid() {
		return TechniqueNone, fmt.Errorf("unknown technique %q", value)
	}
	return candidate, nil
}

// Valid reports whether the technique is known.
func (technique Technique) Valid() bool {
	_, ok := techniqueInfos[technique]
	return ok
}

// DisplayName returns the human readable name, or "None" for TechniqueNone.
func (technique Technique) DisplayName() string {
	if technique == TechniqueNone {
		return "None"
	}
	if info, ok := techniqueInfos[technique]; ok {
		return info.name
	}
	return string(technique)
}

// ShortName is the first word of the display name.
func (technique Technique) ShortName() string {
	fields := strings.Fields(technique.DisplayName())
	if len(fields) == 0 {
		return "None"
	}
	return fields[0]
}

// Description summarises the pattern.
func (technique Technique) Description() string {
	return techniqueInfos[technique].description
}

// Color returns the display colour of the technique.
func (technique Technique) Color() RGB {
	return techniqueInfos[technique].color
}
