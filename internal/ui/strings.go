package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// truncate shortens value to at most limit terminal cells, ending in "..."
// when there is room for it.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	switch {
	case limit <= 0:
		return ""
	case ansi.StringWidth(value) <= limit:
		return value
	case limit <= 3:
		return ansi.Truncate(value, limit, "")
	default:
		return ansi.Truncate(value, limit, "...")
	}
}

// truncateMiddle keeps the start and the end of value, which suits paths.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 5 {
		return string(runes[:limit])
	}
	end := (limit - 1) * 2 / 3
	start := limit - 1 - end
	return string(runes[:start]) + "…" + string(runes[len(runes)-end:])
}

// padRight pads s with spaces to width cells.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
