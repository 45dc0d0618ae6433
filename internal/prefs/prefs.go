// Package prefs remembers viewer choices between sessions in
// ~/.config/tideline/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/tideline/internal/config"
)

// Prefs holds viewer preferences. Zoom is the timeline zoom restored on
// the next launch; zero means the default.
type Prefs struct {
	Theme string  `toml:"theme"`
	Zoom  float64 `toml:"zoom,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/tideline/prefs.toml"
	defaultTheme     = "Tide"
	defaultZoom      = 1.0
	maxZoom          = 100.0
)

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, Zoom: defaultZoom}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// normalize replaces unusable values with defaults.
func (p Prefs) normalize() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	if !(p.Zoom > 0 && p.Zoom <= maxZoom) {
		p.Zoom = defaultZoom
	}
	return p
}

// Load reads preferences from path (empty for the default). A missing,
// unreadable or malformed file yields defaults.
func Load(path string) (Prefs, error) {
	resolved, err := resolve(path)
	if err != nil {
		return Defaults(), nil
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return Defaults(), nil
	}
	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return Defaults(), nil
	}
	return p.normalize(), nil
}

// Save writes p to path (empty for the default), creating directories.
func Save(path string, p Prefs) error {
	resolved, err := resolve(path)
	if err != nil {
		return fmt.Errorf("resolve prefs path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := toml.Marshal(p.normalize())
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
