package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a named colour set for the timeline and its chrome.
type Theme struct {
	Name string

	Background string // canvas
	Surface    string // header and command bar
	SurfaceAlt string // range bar and tooltip band

	Text     string
	Muted    string
	Faint    string
	Accent   string
	Warning  string
	Danger   string
	Info     string
	Selected string // tooltip background for the selected entry

	Axis       string // axis line and month ticks
	YearMarker string // year labels and ticks
	DayTick    string // day-of-month labels
	Connector  string // hover connector line
	Dimmed     string // entries hidden by an active search
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Header   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		Header:      fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:        fg(t.Info).Bold(true),
		Selected:    fg(t.Background).Background(lipgloss.Color(t.Selected)).Bold(true),
	}
}

// WithBackground puts every style on bgColor so segments never fall back to
// the terminal background. Selected keeps its own.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.WarningText, &out.DangerText, &out.Header, &out.Logo,
	} {
		*st = st.Background(bg)
	}
	return out
}

// palette is the handful of base colours a theme is derived from.
type palette struct {
	deep, shelf, swell  string // background, surface, raised surface
	foam, drift, sand   string // text, muted, faint
	current, sun, coral string // accent, warning and year marker, danger
	glint, trough, haze string // logo, axis, dimmed entries
}

func (p palette) theme(name string) Theme {
	return Theme{
		Name:       name,
		Background: p.deep,
		Surface:    p.shelf,
		SurfaceAlt: p.swell,
		Text:       p.foam,
		Muted:      p.drift,
		Faint:      p.sand,
		Accent:     p.current,
		Warning:    p.sun,
		Danger:     p.coral,
		Info:       p.glint,
		Selected:   p.current,
		Axis:       p.trough,
		YearMarker: p.sun,
		DayTick:    p.sand,
		Connector:  p.current,
		Dimmed:     p.haze,
	}
}

const defaultThemeName = "Tide"

var themeOrder = []string{"Tide", "Kelp", "Paper"}

var themes = map[string]Theme{
	"Tide": palette{
		deep: "#0b1622", shelf: "#112233", swell: "#18304a",
		foam: "#d8e6f0", drift: "#8aa4b8", sand: "#5f7a8f",
		current: "#4fb3d9", sun: "#f2c46d", coral: "#f0716a",
		glint: "#7fe0d4", trough: "#2c4a66", haze: "#2a3d50",
	}.theme("Tide"),
	"Kelp": palette{
		deep: "#0f1512", shelf: "#16201b", swell: "#1f2d26",
		foam: "#dfe8d8", drift: "#9aae95", sand: "#6b7f69",
		current: "#8cc56e", sun: "#e0b85a", coral: "#d9695f",
		glint: "#a7d7a0", trough: "#344a3d", haze: "#2c3a32",
	}.theme("Kelp"),
	"Paper": palette{
		deep: "#f7f4ec", shelf: "#ebe6d9", swell: "#e0d9c8",
		foam: "#2b2a27", drift: "#5e5a52", sand: "#8a8477",
		current: "#2f6f9f", sun: "#b7791f", coral: "#b23a3a",
		glint: "#1f7a6d", trough: "#b9b09c", haze: "#d3ccbb",
	}.theme("Paper"),
}

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[defaultThemeName]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names in cycle order.
func ThemeNames() []string {
	return append([]string(nil), themeOrder...)
}
