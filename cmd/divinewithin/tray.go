package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"divinewithin/internal/core/metronome"
	"divinewithin/internal/core/model"
	"divinewithin/internal/core/practice"
	"divinewithin/internal/core/session"
	"divinewithin/internal/metrics"
	"divinewithin/internal/platform"
	"divinewithin/internal/storage"
	"divinewithin/internal/ui/display"
	"divinewithin/internal/ui/overlay"
	"divinewithin/internal/ui/preferences"
	"divinewithin/internal/ui/tray"
)

const reminderMessage = "Take a few minutes to return to your breath."

// trayApp wires the practice coordinator to the desktop UI.
type trayApp struct {
	fyneApp      fyne.App
	settings     preferences.Settings
	settingsPath string
	logger       zerolog.Logger
	coordinator  *practice.Coordinator
	reminders    *platform.Reminders
	trayManager  *tray.Manager
	sessionView  *overlay.Window
	prefsWindow  *preferences.Window
	clock        *session.Clock
}

func runTray(cmd *cobra.Command, args []string) error {
	settings, path, err := loadSettings()
	if err != nil {
		return err
	}
	logger := newLogger(settings, os.Stderr)

	lock, err := platform.AcquireTrayLock(appName)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	fyneApp := app.NewWithID("com.divinewithin.app")
	fyneApp.SetIcon(theme.RadioButtonCheckedIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	trayWindow := fyneApp.NewWindow("Divine Within")
	trayWindow.SetContent(widget.NewLabel("Divine Within is running in the system tray."))
	trayWindow.SetCloseIntercept(trayWindow.Hide)
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	if settings.MetricsAddr != "" {
		metricsServer := metrics.NewServer(settings.MetricsAddr, logger)
		if err := metricsServer.Start(); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		defer func() {
			_ = metricsServer.Stop()
		}()
	}

	source := metronome.New(metronome.Config{Interval: time.Second})
	source.Start()
	defer source.Stop()

	notify := func(title, message string) {
		fyneApp.SendNotification(fyne.NewNotification(title, message))
	}

	runner := &trayApp{
		fyneApp:      fyneApp,
		settings:     settings,
		settingsPath: path,
		logger:       logger,
		reminders:    platform.NewReminders(platform.NotifierFunc(notify), logger),
	}
	runner.coordinator = practice.New(source, platform.CueFunc(func() {
		notify("Divine Within", "Session complete. Your practice has been recorded.")
	}), settings.PracticeConfig(), logger)
	defer runner.reminders.CancelAll()

	runner.sessionView = overlay.New(fyneApp)
	runner.sessionView.SetOnTogglePause(runner.togglePause)
	runner.sessionView.SetOnStop(runner.stop)
	runner.prefsWindow = preferences.New(fyneApp, settings, runner.saveSettings)
	runner.trayManager = tray.New(desktopApp, tray.Callbacks{
		OnMeditate: func(meditationType model.MeditationType) {
			plan := runner.settings.MeditationPlan()
			plan.MeditationType = meditationType
			runner.start(plan)
		},
		OnBreathe: func(technique model.Technique) {
			plan := runner.settings.BreathworkPlan()
			plan.Technique = technique
			runner.start(plan)
		},
		OnTogglePause: runner.togglePause,
		OnStop:        runner.stop,
		OnShowSession: runner.sessionView.Show,
		OnPreferences: runner.prefsWindow.Show,
		OnQuit: func() {
			runner.coordinator.Close()
			fyneApp.Quit()
		},
	})
	desktopApp.SetSystemTrayIcon(fyneApp.Icon())

	runner.applyReminder()
	runner.refreshStats()

	logger.Info().Str("settings", path).Msg("Divine Within running in the system tray")
	fyneApp.Run()
	return nil
}

func (runner *trayApp) start(plan session.Plan) {
	clock, events, err := runner.coordinator.Start(plan)
	if err != nil {
		runner.logger.Error().Err(err).Msg("Failed to start session")
		return
	}
	runner.clock = clock
	runner.sessionView.Begin(plan)
	runner.trayManager.SetActive(true)

	go func() {
		for event := range events {
			runner.sessionView.Update(event)
			if event.Type == session.EventPhaseChanged {
				continue
			}
			fyne.Do(func() {
				runner.render(clock, event)
			})
		}
	}()
}

// render updates the tray for an event of clock. Events of a replaced
// session are ignored. Runs on the UI goroutine.
func (runner *trayApp) render(clock *session.Clock, event session.Event) {
	if clock != runner.clock {
		return
	}
	switch event.State {
	case session.StateCompleted, session.StateStopped:
		runner.clock = nil
		runner.trayManager.SetActive(false)
		runner.trayManager.SetStatus("ready")
		runner.refreshStats()
		return
	case session.StatePaused:
		runner.trayManager.SetPaused(true)
	case session.StateRunning:
		runner.trayManager.SetPaused(false)
	}

	snapshot := clock.Snapshot()
	runner.trayManager.SetStatus(fmt.Sprintf("%s: %s", display.Headline(snapshot.Plan), display.Status(snapshot)))
}

func (runner *trayApp) togglePause() {
	clock := runner.coordinator.Active()
	if clock == nil {
		return
	}
	var err error
	if clock.State() == session.StatePaused {
		err = runner.coordinator.Resume()
	} else {
		err = runner.coordinator.Pause()
	}
	if err != nil {
		runner.logger.Warn().Err(err).Msg("Failed to toggle pause")
	}
}

func (runner *trayApp) stop() {
	if err := runner.coordinator.Stop(); err != nil && !errors.Is(err, practice.ErrNoActiveSession) {
		runner.logger.Warn().Err(err).Msg("Failed to stop session")
	}
}

func (runner *trayApp) refreshStats() {
	summary := runner.coordinator.Stats().Summary()
	runner.trayManager.SetStats(fmt.Sprintf("Streak %d days, %s meditated, favorite %s",
		summary.StreakDays,
		display.FormatTotal(summary.MeditationTime),
		summary.FavoriteTechnique.ShortName(),
	))
}

func (runner *trayApp) saveSettings(updated preferences.Settings) {
	if updated.StreakCapDays != runner.settings.StreakCapDays {
		runner.logger.Info().Int("streak_cap_days", updated.StreakCapDays).Msg("Streak cap applies after restart")
	}
	runner.settings = updated
	if err := storage.SaveSettings(runner.settingsPath, updated); err != nil {
		runner.logger.Error().Err(err).Msg("Failed to save settings")
	}
	runner.applyReminder()
}

func (runner *trayApp) applyReminder() {
	runner.reminders.CancelAll()
	if !runner.settings.ReminderEnabled {
		return
	}
	at, err := runner.reminders.ScheduleDaily(runner.settings.ReminderHour, runner.settings.ReminderMinute, reminderMessage)
	if err != nil {
		runner.logger.Error().Err(err).Msg("Failed to schedule reminder")
		return
	}
	runner.logger.Info().Time("at", at).Msg("Daily reminder scheduled")
}
