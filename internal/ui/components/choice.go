package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/atelier/internal/ui/theme"
)

// Choice is a single-answer selector. Unlike a graded question it has no
// correct option; Chosen records what was picked.
type Choice struct {
	Prompt   string
	Options  []string
	Selected int
	Chosen   int // -1 until answered
}

// NewChoice creates a selector with the cursor on preselect, or on the
// first option when preselect is out of range.
func NewChoice(prompt string, options []string, preselect int) Choice {
	c := Choice{Prompt: prompt, Options: options, Chosen: -1}
	if preselect >= 0 && preselect < len(options) {
		c.Selected = preselect
	}
	return c
}

// Update moves the cursor and records a pick on enter, a number key or the
// option letter.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		c.Chosen = c.Selected
	default:
		if i, ok := optionIndex(key); ok && i < len(c.Options) {
			c.Selected = i
			c.Chosen = i
		}
	}
	return c, nil
}

func optionIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	switch k := key[0]; {
	case k >= '1' && k <= '9':
		return int(k - '1'), true
	case k >= 'a' && k <= 'i':
		return int(k - 'a'), true
	}
	return 0, false
}

// Answered reports whether an option was picked.
func (c Choice) Answered() bool {
	return c.Chosen >= 0
}

// View renders the prompt and the options.
func (c Choice) View() string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Prompt) + "\n\n"

	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+i, opt)

		switch {
		case i == c.Selected:
			s += theme.Selected.Render(line)
		case i == c.Chosen:
			s += theme.Chosen.Render(line)
		default:
			s += theme.Unselected.Render(line)
		}
		s += "\n"
	}
	return s
}
