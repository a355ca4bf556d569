// Package history lists stored assessments.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/atelier/internal/analysis"
	"github.com/abhisek/atelier/internal/quiz"
	"github.com/abhisek/atelier/internal/screen"
	"github.com/abhisek/atelier/internal/store"
	"github.com/abhisek/atelier/internal/ui/layout"
	"github.com/abhisek/atelier/internal/ui/theme"
)

// PageSize is the number of assessments loaded.
const PageSize = 50

type historyLoadedMsg struct {
	Records []store.AssessmentRecord
	Total   int
	Err     error
}

// HistoryScreen displays past assessments.
type HistoryScreen struct {
	repo     store.AssessmentRepo
	records  []store.AssessmentRecord
	total    int
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.AssessmentRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		records, err := s.repo.ListAssessments(ctx, store.QueryOpts{Limit: PageSize})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		total, err := s.repo.CountAssessments(ctx)
		if err != nil {
			total = len(records)
		}
		return historyLoadedMsg{Records: records, Total: total}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Records
			s.total = msg.Total
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No assessments yet. Take the diagnosis first!")
	}

	var b strings.Builder
	b.WriteString("\n")
	if s.total > len(s.records) {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render(fmt.Sprintf("Showing the latest %d of %d", len(s.records), s.total))))
		b.WriteString("\n\n")
	}

	for i, rec := range s.records {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		sample := ""
		if rec.Placeholder {
			sample = "  (sample)"
		}
		line := fmt.Sprintf("%s%s  %-34s %3d%%%s",
			prefix, rec.CreatedAt.Local().Format("Jan 02, 2006 15:04"), rec.QuizType, rec.QuizPercent, sample)

		style := lipgloss.NewStyle().Foreground(typeColor(quiz.Type(rec.QuizType)))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, d := range details(rec) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render("    "+d)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// details returns the expanded lines for rec.
func details(rec store.AssessmentRecord) []string {
	lines := []string{"Keywords: " + strings.Join(rec.Keywords, ", ")}

	var a analysis.Analysis
	if err := json.Unmarshal([]byte(rec.AnalysisJSON), &a); err == nil && a.Current.Catchphrase != "" {
		lines = append(lines,
			"Now:  "+a.Current.Catchphrase,
			"Next: "+a.Ideal.Catchphrase)
	}
	if rec.PDFPath != "" {
		lines = append(lines, "Report: "+rec.PDFPath)
	}
	if len(rec.DeliveredTo) > 0 {
		lines = append(lines, "Sent to: "+strings.Join(rec.DeliveredTo, ", "))
	}
	return lines
}

func typeColor(t quiz.Type) color.Color {
	switch t {
	case quiz.TypeIntuitive:
		return theme.Accent
	case quiz.TypeBalancedIntuitive:
		return theme.Gilt
	case quiz.TypeBalancedLogical:
		return theme.Secondary
	case quiz.TypeLogical:
		return theme.Primary
	default:
		return theme.Text
	}
}
