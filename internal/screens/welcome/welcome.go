// Package welcome is the splash screen: a canvas paints itself in, then the
// banner appears and any key opens the home screen.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/atelier/internal/router"
	"github.com/abhisek/atelier/internal/screen"
	"github.com/abhisek/atelier/internal/ui/theme"
)

const (
	tickInterval = 80 * time.Millisecond
	paintDur     = 1200 * time.Millisecond
	totalDur     = 1600 * time.Millisecond
)

// painting is the canvas interior, revealed one diagonal stroke at a time.
var painting = []string{
	"░░▒▒▓▓  ◐ ",
	"▒▓  ░░▒▒  ",
	"  ▓▓▒▒░░ ▲",
	"░▒▓   ▒▒░░",
}

const brush = "✎"

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// WelcomeScreen is the splash. It never leaves on its own.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New returns a splash that replaces itself with homeFactory's screen on the
// first key press.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{homeFactory: homeFactory}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return tick() }

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed = min(w.elapsed+tickInterval, totalDur)
		if w.elapsed == totalDur {
			return w, nil
		}
		return w, tick()
	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.homeFactory()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// painted reports how far the canvas has been filled, from 0 to 1.
func (w *WelcomeScreen) painted() float64 {
	return min(float64(w.elapsed)/float64(paintDur), 1)
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{renderEasel(w.painted())}

	if w.elapsed >= totalDur {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
				Render("Find the worldview you are painting toward."),
			"",
			theme.Hint.Render("press any key to continue"),
		)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}

// renderEasel draws the easel with the painting revealed up to the given
// fraction. Cells are uncovered along diagonals from the top-left corner,
// with the brush on the leading stroke.
func renderEasel(fraction float64) string {
	frame := lipgloss.NewStyle().Foreground(theme.Gilt)
	paint := lipgloss.NewStyle().Foreground(theme.Secondary)
	tip := lipgloss.NewStyle().Foreground(theme.Accent)

	cols := len([]rune(painting[0]))
	diagonals := len(painting) + cols - 1
	front := int(fraction * float64(diagonals))

	lines := []string{
		frame.Render("       ╱╲"),
		frame.Render("  ╭───╱──╲───╮"),
	}
	for r, row := range painting {
		var b strings.Builder
		for c, cell := range []rune(row) {
			switch d := r + c; {
			case d < front || fraction >= 1:
				b.WriteString(paint.Render(string(cell)))
			case d == front:
				b.WriteString(tip.Render(brush))
			default:
				b.WriteByte(' ')
			}
		}
		lines = append(lines, frame.Render("  │")+b.String()+frame.Render("│"))
	}
	lines = append(lines,
		frame.Render("  ╰─┬──────┬─╯"),
		frame.Render("   ╱        ╲"),
	)
	return strings.Join(lines, "\n")
}
