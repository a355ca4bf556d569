package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: gallery walls, ink and a gilt accent.
var (
	Primary   = lipgloss.Color("#C084FC") // Lilac
	Secondary = lipgloss.Color("#2DD4BF") // Verdigris
	Accent    = lipgloss.Color("#FB923C") // Terracotta
	Gilt      = lipgloss.Color("#FACC15") // Gold leaf
	Success   = lipgloss.Color("#4ADE80") // Green
	Error     = lipgloss.Color("#FB7185") // Rose
	Text      = lipgloss.Color("#F5F5F4") // Paper
	TextDim   = lipgloss.Color("#A8A29E") // Stone
	BgDark    = lipgloss.Color("#1C1917") // Ink
	BgCard    = lipgloss.Color("#292524") // Charcoal
	Border    = lipgloss.Color("#44403C") // Umber
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Chosen = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Foreground(Gilt)

	ProgressEmpty = lipgloss.NewStyle().
			Foreground(Border)
)
