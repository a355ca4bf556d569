package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/atelier/internal/store"
	"github.com/abhisek/atelier/internal/ui/components"
	"github.com/abhisek/atelier/internal/ui/theme"
)

const titleFull = `┌─┐┌┬┐┌─┐┬  ┬┌─┐┬─┐
├─┤ │ ├┤ │  │├┤ ├┬┘
┴ ┴ ┴ └─┘┴─┘┴└─┘┴└─`

const titleCompact = "A · T · E · L · I · E · R"

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 24

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Gilt).
		Bold(true)

	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// renderStatsBar shows the number of assessments and the latest type.
func renderStatsBar(count int, last *store.AssessmentRecord, cw int, compact bool) string {
	countStyle := lipgloss.NewStyle().Foreground(theme.Gilt).Bold(true)
	typeStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	switch {
	case last == nil:
		stats = dimStyle.Render("No assessments yet")
	case compact:
		stats = fmt.Sprintf("%s %s",
			countStyle.Render(fmt.Sprintf("◆%d", count)),
			typeStyle.Render(fmt.Sprintf("%d%%", last.QuizPercent)))
	default:
		stats = fmt.Sprintf("%s  %s",
			countStyle.Render(fmt.Sprintf("◆ %d ASSESSMENTS", count)),
			typeStyle.Render(fmt.Sprintf("LAST: %s", strings.ToUpper(last.QuizType))))
		if len(last.Keywords) > 0 {
			stats += "\n" + dimStyle.Render(strings.Join(last.Keywords, " · "))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func renderMenu(menu components.Menu, cw int) string {
	disabledBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var buttons []string
	for i, item := range menu.Items {
		if item.Disabled {
			buttons = append(buttons, disabledBtn.Render(item.Label))
			continue
		}
		buttons = append(buttons, components.Button(item.Label, i == menu.Selected, buttonWidth))
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact renders menu items as plain lines for small terminals
// where bordered buttons would overflow.
func renderMenuCompact(menu components.Menu, cw int) string {
	var lines []string
	for i, item := range menu.Items {
		label := item.Label
		var line string
		switch {
		case item.Disabled:
			line = lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + label)
		case i == menu.Selected:
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Gilt).
				Bold(true).
				Render(" ▸ " + label + " ")
		default:
			line = lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label)
		}
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderWarning renders a notice such as a missing LLM key.
func renderWarning(msg string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + msg)
}

func renderMuseBox(variant MuseVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMuse(variant))
}
