package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// Modal box sizing.
const (
	modalMaxWidth  = 88
	modalMarginX   = 4
	modalMarginY   = 2
	modalChromeX   = 6 // border + horizontal padding
	modalChromeY   = 7 // border, padding, title, rule, footer
	modalMinHeight = 3
)

func modalBodySize(width, height int) (int, int) {
	w := min(width-2*modalMarginX, modalMaxWidth) - modalChromeX
	h := height - 2*modalMarginY - modalChromeY
	return max(w, 10), max(h, modalMinHeight)
}

// textModal shows a titled, scrollable block of text.
type textModal struct {
	title string
	body  string
	view  viewport.Model
}

func newTextModal(title, body string, width, height int) *textModal {
	w, h := modalBodySize(width, height)
	m := &textModal{title: title, view: viewport.New(w, h)}
	m.SetBody(body)
	return m
}

// SetBody replaces the content and scrolls back to the top.
func (t *textModal) SetBody(body string) {
	t.body = body
	t.view.SetContent(lipgloss.NewStyle().Width(t.view.Width).Render(body))
	t.view.GotoTop()
}

func (t *textModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Clear, keys.Quit, keys.Confirm) {
			return t, nil, true
		}
	case tea.WindowSizeMsg:
		t.view.Width, t.view.Height = modalBodySize(msg.Width, msg.Height)
		t.view.SetContent(lipgloss.NewStyle().Width(t.view.Width).Render(t.body))
		return t, nil, false
	}
	var cmd tea.Cmd
	t.view, cmd = t.view.Update(msg)
	return t, cmd, false
}

func (t *textModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(t.title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", t.view.Width)))
	b.WriteString("\n")
	b.WriteString(t.view.View())
	b.WriteString("\n")

	hint := "esc close"
	if !(t.view.AtTop() && t.view.AtBottom()) {
		hint = "j/k scroll  " + hint
	}
	b.WriteString(styles.FaintText.Render(hint))
	return placeModal(theme, b.String(), t.view.Width+modalChromeX, width, height)
}

// placeModal frames content and centres it on screen.
func placeModal(theme Theme, content string, boxWidth, width, height int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(boxWidth - 2).
		Render(content)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
