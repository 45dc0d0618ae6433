package archive

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// NeutralColor is used for entries that carry no tag.
const NeutralColor = "#F2F0EB"

// DateLayout is the calendar-day form of Entry.Date.
const DateLayout = "2006-01-02"

// ErrNotFound reports a missing entry.
var ErrNotFound = errors.New("entry not found")

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Tag labels an entry. Tags are identified by name and colour together.
type Tag struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// Entry is one dated archive record.
type Entry struct {
	ID          string `json:"id" yaml:"id"`
	Date        string `json:"date" yaml:"date"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []Tag  `json:"tags" yaml:"tags"`
	ImageURL    string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// NewEntry carries the user-supplied fields of an entry before an ID is assigned.
type NewEntry struct {
	Date        string `json:"date" yaml:"date"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []Tag  `json:"tags" yaml:"tags"`
	ImageURL    string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// When resolves the entry date in loc. Entries with an empty or unparseable
// date report false and are left off the timeline.
func (e Entry) When(loc *time.Location) (time.Time, bool) {
	t, err := ParseDate(e.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// PrimaryColor returns the colour of the first tag, or NeutralColor.
func (e Entry) PrimaryColor() string {
	if len(e.Tags) == 0 || strings.TrimSpace(e.Tags[0].Color) == "" {
		return NeutralColor
	}
	return e.Tags[0].Color
}

// Clone returns a copy that shares no slices with e.
func (e Entry) Clone() Entry {
	dup := e
	if e.Tags != nil {
		dup.Tags = make([]Tag, len(e.Tags))
		copy(dup.Tags, e.Tags)
	}
	return dup
}

// CloneEntries copies a slice of entries.
func CloneEntries(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]Entry, len(entries))
	for i, e := range entries {
		dup[i] = e.Clone()
	}
	return dup
}

// Validate checks date syntax and tag fields.
func (n NewEntry) Validate() error {
	if d := strings.TrimSpace(n.Date); d != "" {
		if _, err := ParseDate(d, time.UTC); err != nil {
			return err
		}
	}
	for i, tag := range n.Tags {
		if strings.TrimSpace(tag.Name) == "" {
			return fmt.Errorf("tag %d: name is empty", i)
		}
		if !ValidColor(tag.Color) {
			return fmt.Errorf("tag %q: invalid color %q", tag.Name, tag.Color)
		}
	}
	return nil
}

// ValidColor reports whether c is a #RGB or #RRGGBB hex colour.
func ValidColor(c string) bool {
	return colorPattern.MatchString(strings.TrimSpace(c))
}

// ParseDate accepts a calendar day (2006-01-02) interpreted in loc, or an
// RFC 3339 timestamp converted to loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	if t, err := time.ParseInLocation(DateLayout, trimmed, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", trimmed, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("parse date %q: expected YYYY-MM-DD or RFC 3339", value)
}
