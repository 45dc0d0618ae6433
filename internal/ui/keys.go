package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Clear      key.Binding

	// Zoom and scroll
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	Left      key.Binding
	Right     key.Binding
	PageLeft  key.Binding
	PageRight key.Binding
	Start     key.Binding
	Now       key.Binding
	JumpDate  key.Binding

	// Entries
	NextEntry key.Binding
	PrevEntry key.Binding
	Select    key.Binding
	Search    key.Binding

	// Overlays
	Summary  key.Binding
	Stats    key.Binding
	Problems key.Binding

	// Input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear search and selection"),
		),

		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "Zoom out"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "Scroll back"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "Scroll forward"),
		),
		PageLeft: key.NewBinding(
			key.WithKeys("H", "pgup"),
			key.WithHelp("H", "Page back"),
		),
		PageRight: key.NewBinding(
			key.WithKeys("L", "pgdown"),
			key.WithHelp("L", "Page forward"),
		),
		Start: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to start"),
		),
		Now: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to today"),
		),
		JumpDate: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Jump to date"),
		),

		NextEntry: key.NewBinding(
			key.WithKeys("n", "tab"),
			key.WithHelp("n", "Next entry"),
		),
		PrevEntry: key.NewBinding(
			key.WithKeys("N", "shift+tab"),
			key.WithHelp("N", "Previous entry"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Select entry"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search entries"),
		),

		Summary: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Summarize visible range"),
		),
		Stats: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Archive statistics"),
		),
		Problems: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Problems"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ZoomIn, k.ZoomOut, k.Left, k.Right, k.PageLeft, k.PageRight, k.Start, k.Now, k.JumpDate},
		{k.NextEntry, k.PrevEntry, k.Select, k.Search, k.Clear},
		{k.Summary, k.Stats, k.Problems},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
