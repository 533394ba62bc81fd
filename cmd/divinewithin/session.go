package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"divinewithin/internal/core/metronome"
	"divinewithin/internal/core/model"
	"divinewithin/internal/core/practice"
	"divinewithin/internal/core/session"
	"divinewithin/internal/metrics"
	"divinewithin/internal/platform"
	"divinewithin/internal/ui/preferences"
	"divinewithin/internal/ui/terminal"
)

var (
	sessionMinutes int
	sessionSeconds int
	meditationFlag string
	techniqueFlag  string
)

var meditateCmd = &cobra.Command{
	Use:   "meditate",
	Short: "Run a meditation session in the terminal",
	Example: `  divinewithin meditate --minutes 10 --type unity
  divinewithin meditate --seconds 90`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, _, err := loadSettings()
		if err != nil {
			return err
		}
		plan, err := meditationPlan(settings, meditationFlag, sessionDuration())
		if err != nil {
			return err
		}
		return runTerminalSession(cmd.OutOrStdout(), settings, plan)
	},
}

var breatheCmd = &cobra.Command{
	Use:   "breathe",
	Short: "Run a breathwork session in the terminal",
	Example: `  divinewithin breathe --technique box --minutes 5
  divinewithin breathe --technique fire --seconds 30`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, _, err := loadSettings()
		if err != nil {
			return err
		}
		plan, err := breathworkPlan(settings, techniqueFlag, sessionDuration())
		if err != nil {
			return err
		}
		return runTerminalSession(cmd.OutOrStdout(), settings, plan)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{meditateCmd, breatheCmd} {
		cmd.Flags().IntVarP(&sessionMinutes, "minutes", "m", 0, "Session length in minutes (defaults to settings)")
		cmd.Flags().IntVar(&sessionSeconds, "seconds", 0, "Additional session seconds")
		rootCmd.AddCommand(cmd)
	}
	meditateCmd.Flags().StringVarP(&meditationFlag, "type", "t", "", "Meditation type: divine, breath, unity, healing, loving_kindness")
	breatheCmd.Flags().StringVarP(&techniqueFlag, "technique", "t", "", "Technique: box, wim, coherent, alternate, fire")
}

func sessionDuration() time.Duration {
	return time.Duration(sessionMinutes)*time.Minute + time.Duration(sessionSeconds)*time.Second
}

// meditationPlan resolves flags against the settings defaults.
func meditationPlan(settings preferences.Settings, meditationType string, duration time.Duration) (session.Plan, error) {
	plan := settings.MeditationPlan()
	if meditationType != "" {
		parsed, err := model.ParseMeditationType(meditationType)
		if err != nil {
			return plan, fmt.Errorf("%w: %v", session.ErrUnknownMeditationType, err)
		}
		plan.MeditationType = parsed
	}
	if duration != 0 {
		plan.Duration = duration
	}
	return plan, nil
}

// breathworkPlan resolves flags against the settings defaults.
func breathworkPlan(settings preferences.Settings, technique string, duration time.Duration) (session.Plan, error) {
	plan := settings.BreathworkPlan()
	if technique != "" {
		parsed, err := model.ParseTechnique(technique)
		if err != nil {
			return plan, fmt.Errorf("%w: %v", session.ErrUnknownTechnique, err)
		}
		plan.Technique = parsed
	}
	if duration != 0 {
		plan.Duration = duration
	}
	return plan, nil
}

// runTerminalSession runs plan to completion or until interrupted.
func runTerminalSession(out io.Writer, settings preferences.Settings, plan session.Plan) error {
	logger := newLogger(settings, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := metronome.New(metronome.Config{Interval: time.Second})
	source.Start()
	defer source.Stop()

	if settings.MetricsAddr != "" {
		metricsServer := metrics.NewServer(settings.MetricsAddr, logger)
		if err := metricsServer.Start(); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		defer func() {
			if err := metricsServer.Stop(); err != nil {
				logger.Error().Err(err).Msg("Error stopping metrics server")
			}
		}()
	}

	gong := platform.NewTerminalGong(out)
	coordinator := practice.New(source, gong, settings.PracticeConfig(), logger)
	renderer := terminal.New(out)

	renderer.Begin(plan)
	_, events, err := coordinator.Start(plan)
	if err != nil {
		return err
	}

	consume(ctx, events, renderer, coordinator, logger)

	coordinator.Close()
	gong.Wait()
	renderer.Summary(coordinator.Stats().Summary())
	return nil
}

// consume renders events until the session ends, stopping it when ctx is
// cancelled.
func consume(ctx context.Context, events <-chan session.Event, renderer *terminal.Renderer, coordinator *practice.Coordinator, logger zerolog.Logger) {
	done := ctx.Done()
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			renderer.Render(event)
		case <-done:
			done = nil
			logger.Debug().Msg("Interrupt received, stopping session")
			if err := coordinator.Stop(); err != nil {
				logger.Warn().Err(err).Msg("Failed to stop session")
			}
		}
	}
}
