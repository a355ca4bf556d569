// Package home is the main menu.
package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/atelier/internal/quiz"
	"github.com/abhisek/atelier/internal/router"
	"github.com/abhisek/atelier/internal/screen"
	"github.com/abhisek/atelier/internal/screens/diagnose"
	"github.com/abhisek/atelier/internal/screens/history"
	"github.com/abhisek/atelier/internal/store"
	"github.com/abhisek/atelier/internal/ui/components"
	"github.com/abhisek/atelier/internal/ui/layout"
	"github.com/abhisek/atelier/internal/wizard"
)

const (
	menuStart = iota
	menuHistory
	menuQuit
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	menu    components.Menu
	repo    store.AssessmentRepo
	warning string
	count   int
	last    *store.AssessmentRecord
	muse    MuseVariant
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. repo may be nil, which disables History.
func New(deps diagnose.Deps, repo store.AssessmentRepo) *HomeScreen {
	h := &HomeScreen{
		repo:    repo,
		warning: deps.Warning,
		muse:    MuseIdle,
	}
	h.refresh()

	items := []components.MenuItem{
		{Label: "START DIAGNOSIS", Hotkey: "s", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: diagnose.NewQuiz(deps, wizard.New())}
			}
		}},
		{Label: "HISTORY", Hotkey: "h", Disabled: repo == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(repo)}
			}
		}},
		{Label: "QUIT", Hotkey: "q", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// refresh reloads the stats bar and the muse from the latest assessment.
func (h *HomeScreen) refresh() {
	if h.repo == nil {
		return
	}
	ctx := context.Background()
	h.count, _ = h.repo.CountAssessments(ctx)
	if recs, err := h.repo.ListAssessments(ctx, store.QueryOpts{Limit: 1}); err == nil && len(recs) > 0 {
		h.last = &recs[0]
		h.muse = museFor(quiz.Type(recs[0].QuizType))
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(router.ResumedMsg); ok {
		h.refresh()
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	if !compact {
		sections = append(sections, renderMuseBox(h.muse, cw))
	}
	if h.warning != "" {
		sections = append(sections, renderWarning(h.warning, cw))
	}

	sections = append(sections, renderStatsBar(h.count, h.last, cw, compact))

	if compact {
		sections = append(sections, renderMenuCompact(h.menu, cw))
	} else {
		sections = append(sections, renderMenu(h.menu, cw))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "S/H/Q", Description: "Shortcut"},
	}
}
