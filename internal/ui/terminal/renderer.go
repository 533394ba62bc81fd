package terminal

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"divinewithin/internal/core/breath"
	"divinewithin/internal/core/model"
	"divinewithin/internal/core/session"
	"divinewithin/internal/core/stats"
	"divinewithin/internal/ui/display"
)

// Renderer prints session events as lines on a terminal.
type Renderer struct {
	out    io.Writer
	title  *color.Color
	phase  *color.Color
	muted  *color.Color
	done   *color.Color
	warn   *color.Color
	accent *color.Color
}

// New creates a Renderer writing to out.
func New(out io.Writer) *Renderer {
	return &Renderer{
		out:    out,
		title:  color.New(color.FgCyan, color.Bold),
		phase:  color.New(color.FgWhite, color.Bold),
		muted:  color.New(color.FgHiBlack),
		done:   color.New(color.FgGreen, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		accent: color.New(color.FgMagenta),
	}
}

// Begin prints the session heading.
func (renderer *Renderer) Begin(plan session.Plan) {
	switch plan.Kind {
	case model.KindBreathwork:
		renderer.techniqueColor(plan.Technique).Fprintf(renderer.out, "%s", plan.Technique.DisplayName())
		fmt.Fprintf(renderer.out, " for %s\n", display.FormatRemaining(plan.Duration))
		renderer.muted.Fprintln(renderer.out, plan.Technique.Description())
	default:
		renderer.title.Fprintf(renderer.out, "%s", plan.MeditationType.DisplayName())
		fmt.Fprintf(renderer.out, " for %s\n", display.FormatRemaining(plan.Duration))
		renderer.muted.Fprintln(renderer.out, plan.MeditationType.Guidance())
	}
}

// Render prints one event. Progress is printed every tenth second so the
// output stays readable.
func (renderer *Renderer) Render(event session.Event) {
	switch event.Type {
	case session.EventPhaseChanged:
		renderer.phase.Fprintf(renderer.out, "%-10s", event.Breath.Phase.Label())
		renderer.muted.Fprintf(renderer.out, " %s", event.Breath.Phase.Instruction())
		fmt.Fprintf(renderer.out, "  [cycle %d, %s left]\n", event.Breath.Cycles+1, display.FormatRemaining(event.Remaining))
	case session.EventProgress:
		if event.Remaining%(10*time.Second) == 0 {
			renderer.muted.Fprintf(renderer.out, "%s left\n", display.FormatRemaining(event.Remaining))
		}
	case session.EventStateChange:
		if event.State == session.StatePaused {
			renderer.warn.Fprintln(renderer.out, "Paused")
		}
		if event.State == session.StateRunning && event.Breath.Phase != "" {
			renderer.phase.Fprintf(renderer.out, "%-10s", event.Breath.Phase.Label())
			renderer.muted.Fprintf(renderer.out, " %s\n", event.Breath.Phase.Instruction())
		}
	case session.EventCompleted:
		renderer.done.Fprintln(renderer.out, "Session complete. Your practice has been recorded.")
		if event.Breath.Cycles > 0 {
			fmt.Fprintf(renderer.out, "%d breathing cycles\n", event.Breath.Cycles)
		}
	case session.EventStopped:
		renderer.warn.Fprintf(renderer.out, "Session stopped with %s remaining\n", display.FormatRemaining(event.Remaining))
	}
}

// Summary prints accumulated statistics.
func (renderer *Renderer) Summary(summary stats.Summary) {
	renderer.title.Fprintln(renderer.out, "Your practice")
	fmt.Fprintf(renderer.out, "  Meditation  %d sessions, %s\n", summary.MeditationSessions, display.FormatTotal(summary.MeditationTime))
	fmt.Fprintf(renderer.out, "  Breathwork  %d sessions, %s\n", summary.BreathworkSessions, display.FormatTotal(summary.BreathworkTime))
	fmt.Fprintf(renderer.out, "  Streak      %d days\n", summary.StreakDays)
	fmt.Fprintf(renderer.out, "  Favorite    %s\n", summary.FavoriteTechnique.ShortName())
}

// Techniques prints every technique with its phase timing.
func (renderer *Renderer) Techniques(table breath.Table) {
	for _, technique := range model.Techniques() {
		pattern, err := table.Pattern(technique)
		if err != nil {
			continue
		}
		steps := make([]string, 0, 4)
		for _, phase := range pattern.Phases() {
			steps = append(steps, fmt.Sprintf("%s %gs", phase, pattern.DurationOf(phase).Seconds()))
		}
		renderer.techniqueColor(technique).Fprintf(renderer.out, "%-10s", technique)
		fmt.Fprintf(renderer.out, " %-18s %s\n", technique.DisplayName(), strings.Join(steps, " → "))
		renderer.accent.Fprintf(renderer.out, "           %s\n", technique.Description())
	}
}

func (renderer *Renderer) techniqueColor(technique model.Technique) *color.Color {
	rgb := technique.Color()
	return color.RGB(int(rgb.R), int(rgb.G), int(rgb.B)).Add(color.Bold)
}
