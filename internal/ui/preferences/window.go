package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"divinewithin/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window         fyne.Window
	settings       Settings
	onSave         func(Settings)
	meditationMin  *widget.Entry
	meditationType *widget.Select
	breathworkMin  *widget.Entry
	technique      *widget.Select
	reminder       *widget.Check
	reminderTime   *widget.Entry
	streakCap      *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Divine Within Settings")

	meditationTypes := make([]string, 0, len(model.MeditationTypes()))
	for _, meditationType := range model.MeditationTypes() {
		meditationTypes = append(meditationTypes, meditationType.DisplayName())
	}
	techniques := make([]string, 0, len(model.Techniques()))
	for _, technique := range model.Techniques() {
		techniques = append(techniques, technique.DisplayName())
	}

	prefs := &Window{
		window:         window,
		onSave:         onSave,
		meditationMin:  widget.NewEntry(),
		meditationType: widget.NewSelect(meditationTypes, nil),
		breathworkMin:  widget.NewEntry(),
		technique:      widget.NewSelect(techniques, nil),
		reminder:       widget.NewCheck("Daily practice reminder", nil),
		reminderTime:   widget.NewEntry(),
		streakCap:      widget.NewEntry(),
	}
	prefs.reminderTime.SetPlaceHolder("HH:MM")
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Meditation", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Duration"), prefs.meditationMin, widget.NewLabel("min")),
		prefs.meditationType,
		widget.NewLabelWithStyle("Breathwork", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Duration"), prefs.breathworkMin, widget.NewLabel("min")),
		prefs.technique,
		widget.NewLabelWithStyle("Practice", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.reminder,
		container.NewHBox(widget.NewLabel("Remind at"), prefs.reminderTime),
		container.NewHBox(widget.NewLabel("Count streaks up to"), prefs.streakCap, widget.NewLabel("days")),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 460))
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.meditationMin.SetText(strconv.Itoa(int(settings.MeditationDuration.Minutes())))
	prefs.meditationType.SetSelected(settings.MeditationType.DisplayName())
	prefs.breathworkMin.SetText(strconv.Itoa(int(settings.BreathworkDuration.Minutes())))
	prefs.technique.SetSelected(settings.Technique.DisplayName())
	prefs.reminder.SetChecked(settings.ReminderEnabled)
	prefs.reminderTime.SetText(fmt.Sprintf("%02d:%02d", settings.ReminderHour, settings.ReminderMinute))
	prefs.streakCap.SetText(strconv.Itoa(settings.StreakCapDays))
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.meditationMin.Text); ok {
		settings.MeditationDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.breathworkMin.Text); ok {
		settings.BreathworkDuration = time.Duration(minutes) * time.Minute
	}
	if days, ok := parsePositiveInt(prefs.streakCap.Text); ok {
		settings.StreakCapDays = days
	}
	for _, meditationType := range model.MeditationTypes() {
		if meditationType.DisplayName() == prefs.meditationType.Selected {
			settings.MeditationType = meditationType
		}
	}
	for _, technique := range model.Techniques() {
		if technique.DisplayName() == prefs.technique.Selected {
			settings.Technique = technique
		}
	}

	settings.ReminderEnabled = prefs.reminder.Checked
	var hour, minute int
	if _, err := fmt.Sscanf(prefs.reminderTime.Text, "%d:%d", &hour, &minute); err == nil &&
		hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
		settings.ReminderHour = hour
		settings.ReminderMinute = minute
	}

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
