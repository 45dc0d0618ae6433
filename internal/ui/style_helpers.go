package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle paints segments onto one background colour. Lipgloss resets the
// background at the end of every rendered segment, so the gaps between
// segments are painted explicitly.
type BgStyle struct {
	fill lipgloss.Style
}

// NewBgStyle returns a painter for bgColor.
func NewBgStyle(bgColor string) BgStyle {
	return BgStyle{fill: lipgloss.NewStyle().Background(lipgloss.Color(bgColor))}
}

// Render draws text in style on the background. Each word is rendered on
// its own so spaces inside text keep the background too.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	styled := style.Background(b.fill.GetBackground())
	var out strings.Builder
	for i, word := range strings.Split(text, " ") {
		if i > 0 {
			out.WriteString(b.Space())
		}
		if word != "" {
			out.WriteString(styled.Render(word))
		}
	}
	return out.String()
}

// Space is one painted space.
func (b BgStyle) Space() string {
	return b.fill.Render(" ")
}

// Spaces is n painted spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return b.fill.Render(strings.Repeat(" ", n))
}

// Sep paints a separator.
func (b BgStyle) Sep(sep string) string {
	return b.fill.Render(sep)
}

// Join joins parts with a painted separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Sep(sep))
}

// FillLine pads content to exactly width cells on the background.
func (b BgStyle) FillLine(content string, width int) string {
	return b.fill.Width(width).MaxWidth(width).Render(content)
}
