package ui

import (
	"testing"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Tide", "Kelp", "Paper"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}

	names[0] = "mutated"
	if ThemeNames()[0] != "Tide" {
		t.Fatalf("ThemeNames() returned shared slice")
	}
}

func TestNextTheme(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"Tide", "Kelp"},
		{"Kelp", "Paper"},
		{"Paper", "Tide"},
		{"Unknown", "Tide"},
	}
	for _, tt := range tests {
		if got := NextTheme(tt.current); got != tt.want {
			t.Fatalf("NextTheme(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestGetThemeFallsBackToDefault(t *testing.T) {
	if got := GetTheme("Paper").Name; got != "Paper" {
		t.Fatalf("GetTheme(Paper).Name = %q, want Paper", got)
	}
	if got := GetTheme("Dracula").Name; got != "Tide" {
		t.Fatalf("GetTheme(Dracula).Name = %q, want Tide (fallback)", got)
	}
}

func TestThemesDefineTimelineColors(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		colors := map[string]string{
			"Background": th.Background,
			"Axis":       th.Axis,
			"YearMarker": th.YearMarker,
			"DayTick":    th.DayTick,
			"Connector":  th.Connector,
			"Dimmed":     th.Dimmed,
		}
		for field, value := range colors {
			if len(value) != 7 || value[0] != '#' {
				t.Fatalf("%s.%s = %q, want #RRGGBB", name, field, value)
			}
		}
	}
}
