package diagnose

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/atelier/internal/assessment"
	"github.com/abhisek/atelier/internal/report"
	"github.com/abhisek/atelier/internal/router"
	"github.com/abhisek/atelier/internal/screen"
	"github.com/abhisek/atelier/internal/ui/components"
	"github.com/abhisek/atelier/internal/ui/layout"
	"github.com/abhisek/atelier/internal/ui/theme"
	"github.com/abhisek/atelier/internal/wizard"
)

// ResultScreen shows the finished analysis.
type ResultScreen struct {
	deps    Deps
	sess    *wizard.Session
	outcome *assessment.Outcome
	offset  int
	saved   string
	saveErr string
}

var (
	_ screen.Screen          = (*ResultScreen)(nil)
	_ screen.KeyHintProvider = (*ResultScreen)(nil)
	_ screen.StatusProvider  = (*ResultScreen)(nil)
)

// NewResult creates the result step for a session in StepResult.
func NewResult(deps Deps, sess *wizard.Session, out *assessment.Outcome) *ResultScreen {
	return &ResultScreen{deps: deps, sess: sess, outcome: out}
}

func (r *ResultScreen) Init() tea.Cmd { return nil }

func (r *ResultScreen) Title() string { return "Your Roadmap" }

func (r *ResultScreen) Status() string { return stepStatus(wizard.StepResult) }

func (r *ResultScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Scroll"}}
	if r.sess.PDFPath == "" && r.saved == "" {
		hints = append(hints, layout.KeyHint{Key: "S", Description: "Save PDF"})
	}
	return append(hints,
		layout.KeyHint{Key: "R", Description: "Start over"},
		layout.KeyHint{Key: "Esc", Description: "Home"},
	)
}

func (r *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportSavedMsg:
		if msg.Err != nil {
			r.saveErr = msg.Err.Error()
		} else {
			r.saved = msg.Path
			r.saveErr = ""
		}
		return r, nil
	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if r.offset > 0 {
				r.offset--
			}
		case "down", "j":
			r.offset++
		case "s":
			return r, r.save()
		case "r":
			r.sess.Reset()
			next := NewQuiz(r.deps, r.sess)
			return r, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	return r, nil
}

// save writes the PDF into the working directory when the pipeline did
// not keep a copy.
func (r *ResultScreen) save() tea.Cmd {
	if r.sess.PDFPath != "" || r.outcome == nil || len(r.outcome.PDF) == 0 {
		return nil
	}
	data := r.outcome.PDF
	return func() tea.Msg {
		dir, err := os.Getwd()
		if err != nil {
			return reportSavedMsg{Err: err}
		}
		path := filepath.Join(dir, report.Filename)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return reportSavedMsg{Err: fmt.Errorf("write report: %w", err)}
		}
		return reportSavedMsg{Path: path}
	}
}

func (r *ResultScreen) body(cw int) string {
	a := r.sess.Analysis
	wrap := lipgloss.NewStyle().Width(cw - 4)

	var sections []string
	if r.sess.Placeholder {
		sections = append(sections, theme.ErrorText.Render(
			"The analysis service was unavailable. This is a sample reading for your creator type."))
	}
	if res := r.sess.Result; res != nil {
		sections = append(sections, components.Card("Creator type", theme.Body.Render(res.Label), cw))
	}

	sections = append(sections, components.Card("Five keywords",
		theme.Body.Render(strings.Join(a.Keywords, "  ·  ")), cw))

	var bars []string
	for _, e := range a.Scores.Entries() {
		bars = append(bars, components.NewProgressBar(
			fmt.Sprintf("%-13s", e.Label), float64(e.Value)/100, true, cw-4).View())
	}
	sections = append(sections, components.Card("Scores", strings.Join(bars, "\n"), cw))

	sections = append(sections,
		components.Card("Current worldview", worldviewText(a.Current.Catchphrase, a.Current.Features, wrap), cw),
		components.Card("Ideal worldview", worldviewText(a.Ideal.Catchphrase, a.Ideal.Features, wrap), cw),
	)

	roadmap := []string{wrap.Render(a.RoadmapAdvice)}
	if len(a.RoadmapSteps) > 0 {
		roadmap = append(roadmap, "")
		for i, step := range a.RoadmapSteps {
			roadmap = append(roadmap, wrap.Render(fmt.Sprintf("%d. %s", i+1, step)))
		}
	}
	sections = append(sections, components.Card("Roadmap", strings.Join(roadmap, "\n"), cw))

	sections = append(sections, r.reportStatus()...)
	return strings.Join(sections, "\n")
}

func worldviewText(catchphrase, features string, wrap lipgloss.Style) string {
	return theme.Subtitle.Render(wrap.Render("“"+catchphrase+"”")) + "\n" + theme.Body.Render(wrap.Render(features))
}

func (r *ResultScreen) reportStatus() []string {
	var lines []string
	switch {
	case r.sess.PDFPath != "":
		lines = append(lines, theme.Hint.Render("Report saved to "+r.sess.PDFPath))
	case r.saved != "":
		lines = append(lines, theme.Hint.Render("Report saved to "+r.saved))
	default:
		lines = append(lines, theme.Hint.Render("Press S to save the PDF report here."))
	}
	if r.saveErr != "" {
		lines = append(lines, theme.ErrorText.Render(r.saveErr))
	}
	if r.outcome != nil {
		if len(r.outcome.Delivered) > 0 {
			lines = append(lines, theme.Hint.Render("Sent to "+strings.Join(r.outcome.Delivered, ", ")))
		}
		if r.outcome.DeliveryErr != nil {
			lines = append(lines, theme.ErrorText.Render("Delivery failed: "+r.outcome.DeliveryErr.Error()))
		}
	}
	return lines
}

func (r *ResultScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	lines := strings.Split(r.body(cw), "\n")

	maxOffset := max(0, len(lines)-height)
	r.offset = min(r.offset, maxOffset)
	visible := lines[r.offset:min(len(lines), r.offset+height)]

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(visible, "\n"))
}
