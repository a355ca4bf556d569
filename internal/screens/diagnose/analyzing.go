package diagnose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/atelier/internal/assessment"
	"github.com/abhisek/atelier/internal/router"
	"github.com/abhisek/atelier/internal/screen"
	"github.com/abhisek/atelier/internal/ui/layout"
	"github.com/abhisek/atelier/internal/ui/theme"
	"github.com/abhisek/atelier/internal/wizard"
)

var errCancelled = errors.New("analysis cancelled")

// AnalyzingScreen runs the assessment pipeline while showing a spinner.
type AnalyzingScreen struct {
	deps    Deps
	sess    *wizard.Session
	inputs  [fieldCount]string
	spinner spinner.Model
	ctx     context.Context
	cancel  context.CancelFunc
}

var (
	_ screen.Screen          = (*AnalyzingScreen)(nil)
	_ screen.KeyHintProvider = (*AnalyzingScreen)(nil)
	_ screen.StatusProvider  = (*AnalyzingScreen)(nil)
	_ screen.BackHandler     = (*AnalyzingScreen)(nil)
)

// NewAnalyzing creates the analyzing step. inputs are the upload form
// values, restored if the run fails.
func NewAnalyzing(deps Deps, sess *wizard.Session, inputs [fieldCount]string) *AnalyzingScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &AnalyzingScreen{
		deps:    deps,
		sess:    sess,
		inputs:  inputs,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (a *AnalyzingScreen) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.run())
}

func (a *AnalyzingScreen) run() tea.Cmd {
	ctx := a.ctx
	svc := a.deps.Assessments
	req := assessment.Request{
		Result:    *a.sess.Result,
		Past:      a.sess.Past,
		Future:    a.sess.Future,
		Recipient: a.inputs[fieldRecipient],
		SubjectID: a.sess.ID,
	}
	return func() tea.Msg {
		out, err := svc.Run(ctx, req)
		return analysisDoneMsg{Outcome: out, Err: err}
	}
}

func (a *AnalyzingScreen) Title() string { return "Analyzing" }

func (a *AnalyzingScreen) Status() string { return stepStatus(wizard.StepAnalyzing) }

func (a *AnalyzingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
}

// Back cancels the running analysis. The screen leaves once the pipeline
// returns.
func (a *AnalyzingScreen) Back() tea.Cmd {
	a.cancel()
	return nil
}

func (a *AnalyzingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case analysisDoneMsg:
		return a, a.finish(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *AnalyzingScreen) finish(msg analysisDoneMsg) tea.Cmd {
	cancelled := a.ctx.Err() != nil
	a.cancel()
	log := a.deps.log().With(zap.String("session", a.sess.ID))

	if msg.Err != nil {
		reason := assessment.Describe(msg.Err)
		if cancelled {
			reason = errCancelled.Error()
		}
		log.Warn("analysis failed", zap.Error(msg.Err), zap.Bool("cancelled", cancelled))
		_ = a.sess.Fail(errors.New(reason))
		next := NewUpload(a.deps, a.sess).withInputs(a.inputs)
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}

	out := msg.Outcome
	_ = a.sess.Complete(out.Analysis, out.ID)
	a.sess.Placeholder = out.Placeholder
	a.sess.PDFPath = out.PDFPath
	log.Info("analysis complete",
		zap.String("assessment", out.ID),
		zap.Bool("placeholder", out.Placeholder))

	next := NewResult(a.deps, a.sess, out)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (a *AnalyzingScreen) View(width, height int) string {
	lines := []string{
		a.spinner.View() + " " + theme.Title.Render("Reading your worldview"),
		"",
		theme.Body.Render(fmt.Sprintf("Comparing %d current and %d ideal images.",
			len(a.sess.Past), len(a.sess.Future))),
		theme.Hint.Render("This usually takes under a minute."),
	}
	if a.ctx.Err() != nil {
		lines = append(lines, "", theme.Hint.Render("Cancelling..."))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(lines, "\n"))
}
