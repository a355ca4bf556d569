package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/atelier/internal/ui/theme"
)

// eighths are the partial block glyphs for a cell filled 1/8 to 7/8.
var eighths = []string{"", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}

// ProgressBar is a one-line gauge. Percent is a fraction in [0, 1]; values
// outside are clamped.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width}
}

func (p ProgressBar) fraction() float64 {
	return min(max(p.Percent, 0), 1)
}

func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(theme.Body.Render(p.Label))
		b.WriteString("  ")
	}

	suffix := ""
	if p.ShowPercent {
		suffix = fmt.Sprintf(" %3d%%", int(p.fraction()*100+0.5))
	}
	cells := max(p.Width-lipgloss.Width(b.String())-len(suffix), 4)

	units := int(p.fraction() * float64(cells*8))
	full, part := units/8, units%8
	bar := strings.Repeat("█", full) + eighths[part]
	used := full
	if part > 0 {
		used++
	}

	b.WriteString(theme.ProgressFilled.Render(bar))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat("░", cells-used)))
	if suffix != "" {
		b.WriteString(theme.Hint.Render(suffix))
	}
	return b.String()
}
