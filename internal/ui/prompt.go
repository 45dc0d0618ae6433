package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tideline/internal/archive"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptSearch
	promptDate
)

// promptState is the single-line input shown in place of the command bar.
type promptState struct {
	kind     promptKind
	input    textinput.Model
	previous string
}

func newPrompt(kind promptKind, value string) promptState {
	ti := textinput.New()
	ti.CharLimit = 100
	ti.Prompt = ""
	switch kind {
	case promptSearch:
		ti.Placeholder = "tag or description..."
	case promptDate:
		ti.Placeholder = "YYYY-MM-DD"
		ti.CharLimit = 32
	}
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return promptState{kind: kind, input: ti, previous: value}
}

func (p promptState) label() string {
	switch p.kind {
	case promptSearch:
		return "/"
	case promptDate:
		return "Jump to:"
	default:
		return ""
	}
}

// handlePromptKey edits the prompt. Search applies as the user types; the
// date prompt applies on enter.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Clear):
		if m.prompt.kind == promptSearch {
			m.setQuery(m.prompt.previous)
		}
		m.prompt = promptState{}
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		kind, value := m.prompt.kind, strings.TrimSpace(m.prompt.input.Value())
		m.prompt = promptState{}
		switch kind {
		case promptSearch:
			m.setQuery(value)
		case promptDate:
			m.jumpTo(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	if m.prompt.kind == promptSearch {
		m.setQuery(m.prompt.input.Value())
	}
	return m, cmd
}

// setQuery applies free-text search and redraws.
func (m *Model) setQuery(text string) {
	m.query = archive.Query{Text: strings.TrimSpace(text)}
	m.relayout()
}

// jumpTo zooms and scrolls so the date is centred.
func (m *Model) jumpTo(value string) {
	if value == "" {
		return
	}
	t, err := archive.ParseDate(value, m.engine.Location())
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.notice = ""
	m.viewport.FocusDate(m.rng, t)
	m.relayout()
}
