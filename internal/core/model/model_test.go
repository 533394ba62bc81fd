package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTechnique(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Technique
		wantErr  bool
	}{
		{name: "box", input: "box", expected: TechniqueBox},
		{name: "mixed case with spaces", input: " Fire ", expected: TechniqueFire},
		{name: "unknown", input: "holotropic", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			technique, err := ParseTechnique(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, TechniqueNone, technique)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, technique)
		})
	}
}

func TestTechniqueShortName(t *testing.T) {
	assert.Equal(t, "Box", TechniqueBox.ShortName())
	assert.Equal(t, "Wim", TechniqueWimHof.ShortName())
	assert.Equal(t, "None", TechniqueNone.ShortName())
}

func TestParseMeditationType(t *testing.T) {
	meditation, err := ParseMeditationType("loving_kindness")
	require.NoError(t, err)
	assert.Equal(t, "Loving Kindness", meditation.DisplayName())
	assert.NotEmpty(t, meditation.Guidance())

	_, err = ParseMeditationType("zen")
	assert.Error(t, err)
}

func TestSessionLabel(t *testing.T) {
	assert.Equal(t, "Heart Coherence", Session{Kind: KindBreathwork, Technique: TechniqueCoherent}.Label())
	assert.Equal(t, "Unity Awareness", Session{Kind: KindMeditation, MeditationType: MeditationUnity}.Label())
}
