package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/atelier/internal/quiz"
	"github.com/abhisek/atelier/internal/ui/theme"
)

// MuseVariant selects which palette art to display.
type MuseVariant int

const (
	MuseIdle      MuseVariant = iota // No assessment yet
	MuseIntuitive                    // Last result leaned intuitive
	MuseLogical                      // Last result leaned logical
)

const museIdle = `  ╭──────────╮
 ╱  ○   ○   ○ ╲
│  ○     ╭─╮   │
 ╲   ○   ╰─╯  ╱
  ╰──────────╯`

const museIntuitive = `  ╭──────────╮
 ╱  ●  ✦  ●   ╲
│  ◐  ~~╭─╮ ● │
 ╲   ●  ╰─╯ ~ ╱
  ╰──────────╯`

const museLogical = `  ╭──────────╮
 ╱  ■   ■   ■ ╲
│  ■  ┼ ╭─╮ ┼  │
 ╲   ■  ╰─╯   ╱
  ╰──────────╯`

func museFor(t quiz.Type) MuseVariant {
	switch t {
	case quiz.TypeIntuitive, quiz.TypeBalancedIntuitive:
		return MuseIntuitive
	case quiz.TypeLogical, quiz.TypeBalancedLogical:
		return MuseLogical
	default:
		return MuseIdle
	}
}

// RenderMuse returns the palette art for the given variant.
func RenderMuse(v MuseVariant) string {
	art := museIdle
	fg := theme.Primary

	switch v {
	case MuseIntuitive:
		art = museIntuitive
		fg = theme.Accent
	case MuseLogical:
		art = museLogical
		fg = theme.Secondary
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
