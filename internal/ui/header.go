package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/tideline/internal/archive"
)

const (
	zoomHint  = "CTRL + SCROLL TO ZOOM"
	emptyHint = "hover an entry or press n to step through them"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.HasEntries {
		return m.renderLoadingHeader(styles, bg)
	}

	compact := m.width < LayoutCompactWidth
	parts := []string{renderLogo(bg, styles)}

	count := fmt.Sprintf("%d", len(m.snapshot.Entries))
	if m.query.Active() {
		count = fmt.Sprintf("%d/%d", len(m.matches), len(m.snapshot.Entries))
	}
	parts = append(parts,
		bg.Render("Entries:", styles.MutedText)+bg.Space()+bg.Render(count, styles.Text))

	zoom := fmt.Sprintf("%.2fx", m.viewport.Zoom)
	parts = append(parts,
		bg.Render("Zoom:", styles.MutedText)+bg.Space()+
			bg.Render(zoom, styles.AccentText)+bg.Space()+
			bg.Render(m.frame.Regime.Granularity.String(), styles.FaintText))

	if !compact {
		parts = append(parts,
			bg.Render("Clusters:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", len(m.frame.Clusters)), styles.Text))
	}

	if m.query.Active() {
		parts = append(parts, bg.Render("/"+truncate(m.query.Text, 18), styles.AccentText))
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.snapshot.IsOffline() {
		parts = append(parts, bg.Render("OFFLINE", styles.DangerText))
	}
	if m.snapshot.LastError != nil {
		maxErr := ternaryInt(compact, 30, 60)
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), maxErr), styles.DangerText))
	}

	if m.notice != "" {
		parts = append(parts,
			bg.Render("!", styles.WarningText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.notice, 48), styles.WarningText))
	}

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(bg.Join(parts, "  "))
}

// renderLoadingHeader shows the state before the first successful refresh.
func (m Model) renderLoadingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)
	if m.snapshot.LastError == nil {
		return styles.Header.Width(m.width).Render(
			renderLogo(bg, styles) + sep +
				bg.Render("Loading archive...", styles.WarningText.Bold(true)))
	}

	parts := []string{
		renderLogo(bg, styles),
		bg.Render("ARCHIVE "+classifyError(m.snapshot.LastError), styles.DangerText.Bold(true)),
		bg.Render("Retrying...", styles.WarningText.Bold(true)),
	}
	if m.logPath != "" {
		parts = append(parts,
			bg.Render("logs", styles.FaintText)+bg.Space()+
				bg.Render(truncateMiddle(m.logPath, 50), styles.MutedText))
	}
	return styles.Header.Width(m.width).MaxWidth(m.width).Render(bg.Join(parts, "  "))
}

// formatTimestamp formats the last refresh time with a relative hint.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}
	now := m.engine.Now()
	since := now.Sub(m.lastUpdated)
	ts := m.lastUpdated.In(now.Location()).Format("15:04:05")
	switch {
	case since < time.Minute:
		ts += " (now)"
	case since < time.Hour:
		ts += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		ts += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return ts
}

// classifyError returns a short description of a refresh error.
func classifyError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "database is locked"):
		return "LOCKED"
	default:
		return "ERROR"
	}
}

// renderRangeBar shows the dates at the viewport edges and the zoom hint.
func (m Model) renderRangeBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	left := bg.Render(m.frame.LeftLabel, styles.Text.Bold(true))
	right := bg.Render(m.frame.RightLabel, styles.Text.Bold(true))
	hint := bg.Render(zoomHint, styles.FaintText)

	used := lipgloss.Width(left) + lipgloss.Width(right) + lipgloss.Width(hint)
	if used+2 > m.width {
		hint = ""
		used = lipgloss.Width(left) + lipgloss.Width(right)
	}
	gap := max(m.width-used, 0)
	leftGap := gap / 2
	return bg.FillLine(left+bg.Spaces(leftGap)+hint+bg.Spaces(gap-leftGap)+right, m.width)
}

// renderTooltip writes the focused entry under its connector.
func (m Model) renderTooltip() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	if !m.hasAnchor {
		return bg.FillLine(bg.Spaces(1)+bg.Render(emptyHint, styles.FaintText), m.width)
	}
	e, ok := m.byID[m.anchor.NodeID]
	if !ok {
		return bg.FillLine("", m.width)
	}

	text := truncate(describeEntry(e), max(m.width-2, 1))
	width := ansi.StringWidth(text)
	col := columnOf(m.anchor.X)
	start := min(max(col-width/2, 0), max(m.width-width, 0))

	style := styles.Text
	if m.presenter.Selected() == e.ID {
		style = styles.Selected
	}
	return bg.FillLine(bg.Spaces(start)+bg.Render(text, style), m.width)
}

// describeEntry is the one-line tooltip text for an entry.
func describeEntry(e archive.Entry) string {
	parts := []string{e.Date}
	if len(e.Date) > len(archive.DateLayout) {
		parts[0] = e.Date[:len(archive.DateLayout)]
	}
	if len(e.Tags) > 0 {
		names := make([]string, 0, len(e.Tags))
		for _, t := range e.Tags {
			names = append(names, "#"+t.Name)
		}
		parts = append(parts, strings.Join(names, " "))
	}
	if d := strings.TrimSpace(e.Description); d != "" {
		parts = append(parts, d)
	}
	if e.ImageURL != "" {
		parts = append(parts, "[image]")
	}
	return strings.Join(parts, " · ")
}

// renderCommandBar renders the command hints, or the active prompt.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.prompt.kind != promptNone {
		return styles.Header.Width(m.width).Render(
			bg.Render(m.prompt.label(), styles.AccentText.Bold(true)) + bg.Space() + m.prompt.input.View())
	}

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"+/-", "Zoom"},
		{"h/l", "Scroll"},
		{"n/N", "Entry"},
		{"/", "Search"},
		{"d", "Date"},
		{"s", "Summary"},
		{"i", "Stats"},
		{"p", "Problems"},
		{"?", "More"},
	}
	if m.width < LayoutCompactWidth {
		commands = []cmd{{"+/-", "Zoom"}, {"n/N", "Entry"}, {"/", "Search"}, {"?", "More"}}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

func ternaryInt(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}
