// Package overlay shows the running session in its own window.
package overlay

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"divinewithin/internal/core/breath"
	"divinewithin/internal/core/model"
	"divinewithin/internal/core/session"
	"divinewithin/internal/ui/display"
)

const (
	windowWidth   = float32(360)
	windowHeight  = float32(440)
	circleMaxSide = float32(180)
)

var (
	textColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	timerColor  = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	circleColor = color.NRGBA{R: 102, G: 126, B: 234, A: 200}
	background  = color.NRGBA{R: 20, G: 16, B: 40, A: 255}
)

// Window manages the session UI.
type Window struct {
	window        fyne.Window
	titleLabel    *canvas.Text
	timerLabel    *canvas.Text
	phaseLabel    *canvas.Text
	cyclesLabel   *canvas.Text
	guidanceLabel *widget.Label
	circle        *canvas.Circle
	circleLayout  *breathingLayout
	pauseButton   *widget.Button
	stopButton    *widget.Button
	onTogglePause func()
	onStop        func()
}

// New creates a hidden session window.
func New(app fyne.App) *Window {
	window := app.NewWindow("Divine Within")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	titleLabel := canvas.NewText("", textColor)
	titleLabel.Alignment = fyne.TextAlignCenter
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 21

	timerLabel := canvas.NewText("--:--", timerColor)
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 32

	phaseLabel := canvas.NewText("", textColor)
	phaseLabel.Alignment = fyne.TextAlignCenter
	phaseLabel.TextSize = 17

	cyclesLabel := canvas.NewText("", textColor)
	cyclesLabel.Alignment = fyne.TextAlignCenter
	cyclesLabel.TextSize = 14

	guidanceLabel := widget.NewLabel("")
	guidanceLabel.Wrapping = fyne.TextWrapWord
	guidanceLabel.Alignment = fyne.TextAlignCenter

	circle := canvas.NewCircle(circleColor)
	circleLayout := &breathingLayout{scale: display.CircleScale("")}

	overlay := &Window{
		window:        window,
		titleLabel:    titleLabel,
		timerLabel:    timerLabel,
		phaseLabel:    phaseLabel,
		cyclesLabel:   cyclesLabel,
		guidanceLabel: guidanceLabel,
		circle:        circle,
		circleLayout:  circleLayout,
	}
	overlay.pauseButton = widget.NewButton("Pause", func() {
		if overlay.onTogglePause != nil {
			overlay.onTogglePause()
		}
	})
	overlay.stopButton = widget.NewButton("Stop", func() {
		if overlay.onStop != nil {
			overlay.onStop()
		}
	})

	content := container.NewVBox(
		titleLabel,
		guidanceLabel,
		container.New(circleLayout, circle),
		phaseLabel,
		cyclesLabel,
		timerLabel,
		container.NewHBox(layout.NewSpacer(), overlay.pauseButton, overlay.stopButton, layout.NewSpacer()),
	)
	window.SetContent(container.NewStack(canvas.NewRectangle(background), container.NewPadded(content)))
	window.Resize(fyne.NewSize(windowWidth, windowHeight))
	window.SetCloseIntercept(window.Hide)

	return overlay
}

// SetOnTogglePause sets the pause/resume handler.
func (overlay *Window) SetOnTogglePause(handler func()) {
	overlay.onTogglePause = handler
}

// SetOnStop sets the stop handler.
func (overlay *Window) SetOnStop(handler func()) {
	overlay.onStop = handler
}

// Begin resets the window for a new session and shows it.
func (overlay *Window) Begin(plan session.Plan) {
	fyne.Do(func() {
		overlay.begin(plan)
		overlay.window.Show()
		overlay.window.RequestFocus()
	})
}

// Update applies a session event.
func (overlay *Window) Update(event session.Event) {
	fyne.Do(func() {
		overlay.render(event)
	})
}

// Show brings the window to front.
func (overlay *Window) Show() {
	overlay.window.Show()
	overlay.window.RequestFocus()
}

// Hide closes the window.
func (overlay *Window) Hide() {
	overlay.window.Hide()
}

func (overlay *Window) begin(plan session.Plan) {
	overlay.timerLabel.Text = display.FormatRemaining(plan.Duration)
	overlay.phaseLabel.Text = ""
	overlay.cyclesLabel.Text = ""
	overlay.pauseButton.SetText("Pause")
	overlay.pauseButton.Enable()
	overlay.stopButton.Enable()

	overlay.titleLabel.Text = display.Headline(plan)
	if plan.Kind == model.KindBreathwork {
		overlay.guidanceLabel.SetText(plan.Technique.Description())
		overlay.circle.Show()
	} else {
		overlay.guidanceLabel.SetText(plan.MeditationType.Guidance())
		overlay.circle.Hide()
	}
	overlay.setScale(display.CircleScale(""))
	overlay.refresh()
}

func (overlay *Window) render(event session.Event) {
	overlay.timerLabel.Text = display.FormatRemaining(event.Remaining)

	if event.Breath.Phase != "" {
		overlay.phaseLabel.Text = fmt.Sprintf("%s %d", event.Breath.Phase.Label(), event.Breath.DisplaySeconds())
		overlay.guidanceLabel.SetText(event.Breath.Phase.Instruction())
		overlay.cyclesLabel.Text = fmt.Sprintf("Cycles: %d", event.Breath.Cycles)
		if event.Type == session.EventPhaseChanged {
			overlay.setScale(display.CircleScale(event.Breath.Phase))
		}
	}

	switch event.State {
	case session.StatePaused:
		overlay.pauseButton.SetText("Resume")
	case session.StateRunning:
		overlay.pauseButton.SetText("Pause")
	case session.StateCompleted:
		overlay.phaseLabel.Text = "Session complete"
		overlay.finish()
	case session.StateStopped:
		overlay.phaseLabel.Text = "Session stopped"
		overlay.finish()
	}
	overlay.refresh()
}

func (overlay *Window) finish() {
	overlay.pauseButton.Disable()
	overlay.stopButton.Disable()
	overlay.setScale(display.CircleScale(breath.PhaseExhale))
}

func (overlay *Window) setScale(scale float32) {
	overlay.circleLayout.scale = scale
	overlay.circle.Refresh()
}

func (overlay *Window) refresh() {
	overlay.titleLabel.Refresh()
	overlay.timerLabel.Refresh()
	overlay.phaseLabel.Refresh()
	overlay.cyclesLabel.Refresh()
}

// breathingLayout centres a square object sized by scale.
type breathingLayout struct {
	scale float32
}

func (layout *breathingLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	side := size.Height
	if size.Width < side {
		side = size.Width
	}
	side *= layout.scale
	for _, object := range objects {
		object.Resize(fyne.NewSize(side, side))
		object.Move(fyne.NewPos((size.Width-side)/2, (size.Height-side)/2))
	}
}

func (layout *breathingLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(circleMaxSide, circleMaxSide)
}
