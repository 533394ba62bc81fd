package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"divinewithin/internal/core/model"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnMeditate    func(model.MeditationType)
	OnBreathe     func(model.Technique)
	OnTogglePause func()
	OnStop        func()
	OnShowSession func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	statsItem   *fyne.MenuItem
	meditate    *fyne.MenuItem
	breathe     *fyne.MenuItem
	showItem    *fyne.MenuItem
	pauseItem   *fyne.MenuItem
	stopItem    *fyne.MenuItem
	prefsItem   *fyne.MenuItem
	quitItem    *fyne.MenuItem
	callbacks   Callbacks
	paused      bool
	active      bool
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "ready",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.statsItem = fyne.NewMenuItem("No practice yet", nil)
	manager.statsItem.Disabled = true

	meditations := make([]*fyne.MenuItem, 0, len(model.MeditationTypes()))
	for _, meditationType := range model.MeditationTypes() {
		meditationType := meditationType
		meditations = append(meditations, fyne.NewMenuItem(meditationType.DisplayName(), func() {
			if manager.callbacks.OnMeditate != nil {
				manager.callbacks.OnMeditate(meditationType)
			}
		}))
	}
	manager.meditate = fyne.NewMenuItem("Meditate", nil)
	manager.meditate.ChildMenu = fyne.NewMenu("", meditations...)

	techniques := make([]*fyne.MenuItem, 0, len(model.Techniques()))
	for _, technique := range model.Techniques() {
		technique := technique
		techniques = append(techniques, fyne.NewMenuItem(technique.DisplayName(), func() {
			if manager.callbacks.OnBreathe != nil {
				manager.callbacks.OnBreathe(technique)
			}
		}))
	}
	manager.breathe = fyne.NewMenuItem("Breathwork", nil)
	manager.breathe.ChildMenu = fyne.NewMenu("", techniques...)

	manager.showItem = fyne.NewMenuItem("Show session", func() {
		if manager.callbacks.OnShowSession != nil {
			manager.callbacks.OnShowSession()
		}
	})
	manager.pauseItem = fyne.NewMenuItem("Pause", func() {
		if manager.callbacks.OnTogglePause != nil {
			manager.callbacks.OnTogglePause()
		}
	})
	manager.stopItem = fyne.NewMenuItem("Stop session", func() {
		if manager.callbacks.OnStop != nil {
			manager.callbacks.OnStop()
		}
	})
	manager.prefsItem = fyne.NewMenuItem("Preferences", func() {
		if manager.callbacks.OnPreferences != nil {
			manager.callbacks.OnPreferences()
		}
	})
	manager.quitItem = fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})

	manager.SetActive(false)
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshMenu()
}

// SetStats updates the practice summary line.
func (manager *Manager) SetStats(summary string) {
	manager.statsItem.Label = summary
	manager.refreshMenu()
}

// SetPaused updates pause state.
func (manager *Manager) SetPaused(paused bool) {
	manager.paused = paused
	if paused {
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	manager.refreshMenu()
}

// SetActive toggles the session control items.
func (manager *Manager) SetActive(active bool) {
	manager.active = active
	if !active {
		manager.paused = false
		manager.pauseItem.Label = "Pause"
	}
	manager.showItem.Disabled = !active
	manager.pauseItem.Disabled = !active
	manager.stopItem.Disabled = !active
	manager.refreshMenu()
}

// Menu returns the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	manager.statusItem.Label = manager.statusLabel

	return fyne.NewMenu("Divine Within",
		manager.statusItem,
		manager.statsItem,
		fyne.NewMenuItemSeparator(),
		manager.meditate,
		manager.breathe,
		manager.showItem,
		manager.pauseItem,
		manager.stopItem,
		fyne.NewMenuItemSeparator(),
		manager.prefsItem,
		manager.quitItem,
	)
}

func (manager *Manager) refreshMenu() {
	menu := manager.Menu()
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(menu)
	}
}
