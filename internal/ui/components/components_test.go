package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestChoiceKeys(t *testing.T) {
	c := NewChoice("Pick one", []string{"left", "right"}, -1)
	if c.Selected != 0 || c.Answered() {
		t.Fatalf("fresh choice = %+v", c)
	}

	c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if c.Selected != 1 {
		t.Errorf("down: selected = %d, want 1", c.Selected)
	}
	c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if c.Selected != 1 {
		t.Errorf("down at bottom: selected = %d, want 1", c.Selected)
	}
	c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if c.Chosen != 1 {
		t.Errorf("enter: chosen = %d, want 1", c.Chosen)
	}

	c, _ = c.Update(key('a'))
	if c.Chosen != 0 || c.Selected != 0 {
		t.Errorf("'a': chosen = %d selected = %d", c.Chosen, c.Selected)
	}
	c, _ = c.Update(key('2'))
	if c.Chosen != 1 {
		t.Errorf("'2': chosen = %d", c.Chosen)
	}
	c, _ = c.Update(key('c'))
	if c.Chosen != 1 {
		t.Errorf("'c' is out of range but changed chosen to %d", c.Chosen)
	}
}

func TestChoicePreselect(t *testing.T) {
	if c := NewChoice("q", []string{"x", "y"}, 1); c.Selected != 1 || c.Answered() {
		t.Errorf("preselect 1 = %+v", c)
	}
	if c := NewChoice("q", []string{"x", "y"}, 5); c.Selected != 0 {
		t.Errorf("preselect out of range = %+v", c)
	}
}

func TestChoiceView(t *testing.T) {
	c := NewChoice("Where do ideas come from?", []string{"Doodles", "Lists"}, 0)
	v := c.View()
	for _, want := range []string{"Where do ideas come from?", "A)  Doodles", "B)  Lists", "▸"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
}

func TestTextInputMark(t *testing.T) {
	ti := NewTextInput("Current work", "a.png, b.jpg", 40)
	ti.Focus()
	ti.SetValue("x.png")
	ti.Mark(false)
	if !strings.Contains(ti.View(), "✗") {
		t.Error("expected invalid mark")
	}

	ti, _ = ti.Update(key('y'))
	if strings.Contains(ti.View(), "✗") {
		t.Error("editing should clear the mark")
	}
	if ti.Value() != "x.pngy" {
		t.Errorf("value = %q", ti.Value())
	}
}

func TestProgressBarClamps(t *testing.T) {
	full := lipgloss.Width(NewProgressBar("", 1, false, 20).View())
	over := lipgloss.Width(NewProgressBar("", 1.5, false, 20).View())
	under := lipgloss.Width(NewProgressBar("", -1, false, 20).View())
	if over != full || under != full {
		t.Errorf("widths = %d/%d/%d, want all %d", under, full, over, full)
	}
}

func TestContentWidth(t *testing.T) {
	tests := []struct{ in, want int }{{200, 72}, {70, 64}, {10, 20}}
	for _, tt := range tests {
		if got := ContentWidth(tt.in); got != tt.want {
			t.Errorf("ContentWidth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMenuSkipsDisabled(t *testing.T) {
	var fired string
	act := func(name string) func() tea.Cmd {
		return func() tea.Cmd { fired = name; return nil }
	}
	m := NewMenu([]MenuItem{
		{Label: "OFF", Disabled: true},
		{Label: "ONE", Hotkey: "o", Action: act("one")},
		{Label: "TWO", Disabled: true, Hotkey: "t", Action: act("two")},
		{Label: "THREE", Action: act("three")},
	})
	if m.Selected != 1 {
		t.Fatalf("initial cursor = %d, want 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("down = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("down at bottom = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("up past disabled = %d, want 1", m.Selected)
	}

	m, _ = m.Update(key('t'))
	if fired != "" {
		t.Errorf("disabled hotkey fired %q", fired)
	}
	m, _ = m.Update(key('O'))
	if fired != "one" {
		t.Errorf("hotkey fired %q, want one", fired)
	}
	m.Selected = 3
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if fired != "three" {
		t.Errorf("enter fired %q, want three", fired)
	}
}

func TestProgressBarPartialCell(t *testing.T) {
	v := NewProgressBar("", 0.5, true, 13).View()
	if !strings.Contains(v, "▌") {
		t.Errorf("expected a half cell in %q", v)
	}
	if !strings.Contains(v, " 50%") {
		t.Errorf("expected the percent in %q", v)
	}
	if w := lipgloss.Width(v); w != 13 {
		t.Errorf("width = %d, want 13", w)
	}
}
