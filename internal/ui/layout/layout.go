// Package layout draws the chrome around every screen: the header bar, the
// key-hint footer and the size guard.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/atelier/internal/ui/theme"
)

// The wizard needs room for a question card and its four choices.
const (
	MinWidth  = 64
	MinHeight = 22
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("The easel needs more room.\n\nResize to at least %d x %d\n(now %d x %d)",
			MinWidth, MinHeight, width, height))
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border).
	Padding(0, 1)

// RenderHeader draws the brand on the left, title centred and status, such
// as the wizard step, on the right.
func RenderHeader(title, status string, width int) string {
	inner := max(width-bar.GetHorizontalFrameSize(), 0)

	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("◆ atelier")
	right := lipgloss.NewStyle().Foreground(theme.Gilt).Render(status)
	side := max(lipgloss.Width(brand), lipgloss.Width(right))

	middle := lipgloss.NewStyle().
		Width(max(inner-2*side, 0)).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(title)

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(side).Render(brand),
		middle,
		lipgloss.NewStyle().Width(side).Align(lipgloss.Right).Render(right),
	)
	return bar.Width(width).Render(row)
}

// RenderFooter draws the hints, dropping trailing ones that do not fit.
func RenderFooter(hints []KeyHint, width int) string {
	inner := max(width-bar.GetHorizontalFrameSize(), 0)
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	sep := descStyle.Render("  ·  ")

	var line string
	for i, h := range hints {
		part := keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		next := part
		if i > 0 {
			next = line + sep + part
		}
		if lipgloss.Width(next) > inner {
			break
		}
		line = next
	}
	return bar.Width(width).Render(line)
}

// BodyHeight is what remains of height once header and footer are drawn.
func BodyHeight(header, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}

// RenderFrame stacks header, content and footer, padding content to fill
// the space between them.
func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(BodyHeight(header, footer, height)).
		Render(content)
	return strings.Join([]string{header, body, footer}, "\n")
}
