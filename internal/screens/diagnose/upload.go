package diagnose

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/atelier/internal/analysis"
	"github.com/abhisek/atelier/internal/router"
	"github.com/abhisek/atelier/internal/screen"
	"github.com/abhisek/atelier/internal/ui/components"
	"github.com/abhisek/atelier/internal/ui/layout"
	"github.com/abhisek/atelier/internal/ui/theme"
	"github.com/abhisek/atelier/internal/wizard"
)

const (
	fieldPast = iota
	fieldFuture
	fieldRecipient
	fieldCount
)

// UploadScreen collects the image paths for the current and ideal work.
type UploadScreen struct {
	deps   Deps
	sess   *wizard.Session
	inputs [fieldCount]components.TextInput
	focus  int
	errMsg string
}

var (
	_ screen.Screen          = (*UploadScreen)(nil)
	_ screen.KeyHintProvider = (*UploadScreen)(nil)
	_ screen.StatusProvider  = (*UploadScreen)(nil)
)

// NewUpload creates the upload step for sess, which must be in StepUpload.
func NewUpload(deps Deps, sess *wizard.Session) *UploadScreen {
	u := &UploadScreen{deps: deps, sess: sess}
	u.inputs[fieldPast] = components.NewTextInput(
		fmt.Sprintf("Current work (1-%d image paths, comma separated)", analysis.MaxImagesPerSide),
		"~/art/piece1.png, ~/art/piece2.jpg", 60)
	u.inputs[fieldFuture] = components.NewTextInput(
		fmt.Sprintf("Ideal work (1-%d image paths, comma separated)", analysis.MaxImagesPerSide),
		"~/inspiration/goal.png", 60)
	u.inputs[fieldRecipient] = components.NewTextInput(
		"Send the report to (optional: email or tg:<chat-id>)",
		"me@example.com", 60)
	u.inputs[fieldPast].Focus()
	return u
}

// withInputs keeps the values typed before a failed analysis.
func (u *UploadScreen) withInputs(values [fieldCount]string) *UploadScreen {
	for i, v := range values {
		u.inputs[i].SetValue(v)
	}
	return u
}

func (u *UploadScreen) values() [fieldCount]string {
	var out [fieldCount]string
	for i := range u.inputs {
		out[i] = strings.TrimSpace(u.inputs[i].Value())
	}
	return out
}

func (u *UploadScreen) Init() tea.Cmd { return u.inputs[u.focus].Focus() }

func (u *UploadScreen) Title() string { return "Your Work" }

func (u *UploadScreen) Status() string { return stepStatus(wizard.StepUpload) }

func (u *UploadScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Analyze"},
		{Key: "Ctrl+R", Description: "Retake quiz"},
		{Key: "Esc", Description: "Back"},
	}
}

func (u *UploadScreen) setFocus(i int) tea.Cmd {
	u.inputs[u.focus].Blur()
	u.focus = (i + fieldCount) % fieldCount
	return u.inputs[u.focus].Focus()
}

func (u *UploadScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return u, u.setFocus(u.focus + 1)
		case "shift+tab", "up":
			return u, u.setFocus(u.focus - 1)
		case "ctrl+r":
			u.sess.Reset()
			next := NewQuiz(u.deps, u.sess)
			return u, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		case "enter":
			return u, u.submit()
		}
	}

	var cmd tea.Cmd
	u.inputs[u.focus], cmd = u.inputs[u.focus].Update(msg)
	return u, cmd
}

// splitPaths splits a comma separated list, drops empty entries and
// expands a leading ~.
func splitPaths(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(p, "~/"); ok {
			if home, err := os.UserHomeDir(); err == nil {
				p = filepath.Join(home, rest)
			}
		}
		out = append(out, p)
	}
	return out
}

func (u *UploadScreen) submit() tea.Cmd {
	u.errMsg = ""
	vals := u.values()

	past, errPast := analysis.LoadImages(splitPaths(vals[fieldPast]))
	u.inputs[fieldPast].Mark(errPast == nil && len(past) > 0)
	future, errFuture := analysis.LoadImages(splitPaths(vals[fieldFuture]))
	u.inputs[fieldFuture].Mark(errFuture == nil && len(future) > 0)

	recipientOK := vals[fieldRecipient] == "" || u.deps.Assessments.CanDeliver(vals[fieldRecipient])
	if vals[fieldRecipient] != "" {
		u.inputs[fieldRecipient].Mark(recipientOK)
	}

	if err := errors.Join(errPast, errFuture); err != nil {
		u.errMsg = describeImageError(err)
		return nil
	}
	if !recipientOK {
		u.errMsg = fmt.Sprintf("No delivery channel is configured for %q.", vals[fieldRecipient])
		return nil
	}
	if err := u.sess.AttachImages(past, future); err != nil {
		u.errMsg = describeImageError(err)
		return nil
	}
	if err := u.sess.BeginAnalysis(); err != nil {
		u.errMsg = err.Error()
		return nil
	}

	u.deps.log().Info("analysis requested",
		zap.String("session", u.sess.ID),
		zap.Int("past", len(past)),
		zap.Int("future", len(future)),
		zap.Bool("deliver", vals[fieldRecipient] != ""))

	next := NewAnalyzing(u.deps, u.sess, vals)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func describeImageError(err error) string {
	switch {
	case errors.Is(err, analysis.ErrMissingImages):
		return "Add at least one image of your current work and one of your ideal work."
	case errors.Is(err, analysis.ErrTooManyImages):
		return fmt.Sprintf("Use at most %d images on each side.", analysis.MaxImagesPerSide)
	default:
		return err.Error()
	}
}

func (u *UploadScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	if r := u.sess.Result; r != nil {
		sections = append(sections, components.Card("Your creator type",
			theme.Body.Render(r.Label), cw))
	}
	if u.deps.Warning != "" {
		sections = append(sections, theme.Hint.Render(u.deps.Warning))
	}

	var form []string
	for i := range u.inputs {
		form = append(form, u.inputs[i].View())
	}
	sections = append(sections, components.Card("Images", strings.Join(form, "\n\n"), cw))

	if u.sess.Error != "" {
		sections = append(sections, theme.ErrorText.Render(u.sess.Error))
	}
	if u.errMsg != "" {
		sections = append(sections, theme.ErrorText.Render(u.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
