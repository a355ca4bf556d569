package diagnose

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/atelier/internal/quiz"
	"github.com/abhisek/atelier/internal/router"
	"github.com/abhisek/atelier/internal/screen"
	"github.com/abhisek/atelier/internal/ui/components"
	"github.com/abhisek/atelier/internal/ui/layout"
	"github.com/abhisek/atelier/internal/ui/theme"
	"github.com/abhisek/atelier/internal/wizard"
)

// QuizScreen asks the 30 questions one at a time.
type QuizScreen struct {
	deps    Deps
	sess    *wizard.Session
	bank    []quiz.Question
	answers quiz.Answers
	index   int
	choice  components.Choice
	errMsg  string
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.StatusProvider  = (*QuizScreen)(nil)
	_ screen.BackHandler     = (*QuizScreen)(nil)
)

// NewQuiz starts the quiz for sess, which must be in StepQuiz.
func NewQuiz(deps Deps, sess *wizard.Session) *QuizScreen {
	bank := quiz.Bank()
	answers := make(quiz.Answers, len(bank))
	for i := range answers {
		answers[i] = -1
	}
	q := &QuizScreen{deps: deps, sess: sess, bank: bank, answers: answers}
	q.loadChoice()
	return q
}

func (q *QuizScreen) loadChoice() {
	cur := q.bank[q.index]
	q.choice = components.NewChoice(cur.Prompt, cur.Options[:], q.answers[q.index])
}

func (q *QuizScreen) Init() tea.Cmd { return nil }

func (q *QuizScreen) Title() string { return "Creator Quiz" }

func (q *QuizScreen) Status() string { return stepStatus(wizard.StepQuiz) }

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter/A/B", Description: "Answer"},
		{Key: "←", Description: "Previous"},
		{Key: "Esc", Description: "Back"},
	}
}

// Back steps to the previous question, or leaves the quiz from the first.
func (q *QuizScreen) Back() tea.Cmd {
	if q.index > 0 {
		q.index--
		q.loadChoice()
		return nil
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return q, nil
	}
	if kmsg.String() == "left" || kmsg.String() == "backspace" {
		if q.index > 0 {
			q.index--
			q.loadChoice()
		}
		return q, nil
	}

	q.choice, _ = q.choice.Update(kmsg)
	if !q.choice.Answered() {
		return q, nil
	}
	q.answers[q.index] = q.choice.Chosen

	if q.index < len(q.bank)-1 {
		q.index++
		q.loadChoice()
		return q, nil
	}
	return q, q.submit()
}

func (q *QuizScreen) submit() tea.Cmd {
	if err := q.sess.SubmitAnswers(q.answers); err != nil {
		q.errMsg = err.Error()
		return nil
	}
	q.deps.log().Info("quiz submitted",
		zap.String("session", q.sess.ID),
		zap.String("type", string(q.sess.Result.Type)))
	next := NewUpload(q.deps, q.sess)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// Answered returns the number of answered questions.
func (q *QuizScreen) Answered() int {
	n := 0
	for _, a := range q.answers {
		if a >= 0 {
			n++
		}
	}
	return n
}

func (q *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	progress := components.NewProgressBar(
		fmt.Sprintf("Question %d/%d", q.index+1, len(q.bank)),
		float64(q.index)/float64(len(q.bank)), false, cw).View()

	body := lipgloss.NewStyle().Width(cw).Render(q.choice.View())

	sections := []string{progress, "", body}
	if q.errMsg != "" {
		sections = append(sections, theme.ErrorText.Render(q.errMsg))
	}
	sections = append(sections, theme.Hint.Render(
		fmt.Sprintf("%d of %d answered. There are no right answers; go with your first instinct.", q.Answered(), len(q.bank))))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
