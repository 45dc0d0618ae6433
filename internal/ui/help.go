package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

// helpModal lists the key bindings. Any key closes it.
type helpModal struct {
	sections []helpSection
}

var helpTitles = []string{"Timeline", "Entries", "Overlays", "General"}

func newHelpModal(keys keyMap) helpModal {
	var sections []helpSection
	for i, group := range keys.FullHelp() {
		title := "More"
		if i < len(helpTitles) {
			title = helpTitles[i]
		}
		sections = append(sections, helpSection{title: title, items: helpItems(group)})
	}
	sections = append(sections, helpSection{
		title: "Mouse",
		items: []helpItem{
			{"ctrl+wheel", "Zoom at pointer"},
			{"wheel", "Scroll"},
			{"move", "Hover entry"},
			{"click", "Select entry"},
		},
	})
	return helpModal{sections: sections}
}

func helpItems(bindings []key.Binding) []helpItem {
	items := make([]helpItem, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		items = append(items, helpItem{key: h.Key, desc: h.Desc})
	}
	return items
}

func (h helpModal) Update(msg tea.Msg, _ keyMap) (Modal, tea.Cmd, bool) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return h, nil, true
	}
	return h, nil, false
}

func (h helpModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Warning)).
		Width(12)

	columns := make([]string, 0, 2)
	var col strings.Builder
	for i, section := range h.sections {
		col.WriteString(styles.AccentText.Bold(true).Render(section.title))
		col.WriteString("\n")
		for _, item := range section.items {
			col.WriteString(keyStyle.Render(item.key))
			col.WriteString(styles.Text.Render(item.desc))
			col.WriteString("\n")
		}
		// Two columns: timeline and entries on the left, the rest on the right.
		if i == 1 {
			columns = append(columns, col.String())
			col.Reset()
		} else if i < len(h.sections)-1 {
			col.WriteString("\n")
		}
	}
	columns = append(columns, col.String())

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	left := lipgloss.NewStyle().Width(40).Render(columns[0])
	body := left
	if len(columns) > 1 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, columns[1])
	}
	b.WriteString(body)

	return placeModal(theme, b.String(), min(lipgloss.Width(body)+modalChromeX, max(width, modalChromeX)), width, height)
}
