package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"divinewithin/internal/core/metronome"
	"divinewithin/internal/core/model"
	"divinewithin/internal/core/practice"
	"divinewithin/internal/core/session"
	"divinewithin/internal/ui/preferences"
	"divinewithin/internal/ui/terminal"
)

func TestMeditationPlanDefaultsAndOverrides(t *testing.T) {
	settings := preferences.DefaultSettings()

	plan, err := meditationPlan(settings, "", 0)
	require.NoError(t, err)
	assert.Equal(t, settings.MeditationPlan(), plan)

	plan, err = meditationPlan(settings, "loving_kindness", 90*time.Second)
	require.NoError(t, err)
	assert.Equal(t, model.MeditationLovingKindness, plan.MeditationType)
	assert.Equal(t, 90*time.Second, plan.Duration)

	_, err = meditationPlan(settings, "zen", 0)
	assert.ErrorIs(t, err, session.ErrUnknownMeditationType)
}

func TestBreathworkPlanDefaultsAndOverrides(t *testing.T) {
	settings := preferences.DefaultSettings()

	plan, err := breathworkPlan(settings, "FIRE", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, model.KindBreathwork, plan.Kind)
	assert.Equal(t, model.TechniqueFire, plan.Technique)
	assert.Equal(t, time.Minute, plan.Duration)

	_, err = breathworkPlan(settings, "holotropic", 0)
	assert.ErrorIs(t, err, session.ErrUnknownTechnique)
}

func TestTechniquesCommandListsEveryTechnique(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"techniques"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	for _, technique := range model.Techniques() {
		assert.Contains(t, out.String(), technique.DisplayName())
	}
	assert.Contains(t, out.String(), "exhale 0.5s")
}

func TestConsumeStopsSessionOnCancel(t *testing.T) {
	color.NoColor = true
	source := metronome.New(metronome.Config{Interval: time.Second})
	coordinator := practice.New(source, nil, practice.Config{}, zerolog.Nop())
	_, events, err := coordinator.StartMeditation(model.MeditationDivine, time.Minute)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	consume(ctx, events, terminal.New(&out), coordinator, zerolog.Nop())
	coordinator.Close()

	assert.Contains(t, out.String(), "Session stopped with 01:00 remaining")
	assert.Equal(t, 0, coordinator.History().Len())
}
