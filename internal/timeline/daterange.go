package timeline

import (
	"math"
	"sort"
	"time"

	"github.com/five82/tideline/internal/archive"
)

const (
	// leadDays pads the range before the oldest entry.
	leadDays = 7
	// fallbackMonths is the span shown when nothing is dated.
	fallbackMonths = 3

	// LabelLayout formats range labels.
	LabelLayout = "2006/01"

	day = 24 * time.Hour
)

// DateRange is the time span mapped onto positions [0, 100].
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange derives the range for entries as of now. End is the last
// instant of now's day in loc. Start is the oldest entry minus leadDays, or
// End minus fallbackMonths when nothing is dated or every date lies far
// enough in the future that Start would not precede End.
func NewDateRange(entries []archive.Entry, now time.Time, loc *time.Location) DateRange {
	if loc == nil {
		loc = time.Local
	}
	end := EndOfDay(now.In(loc))

	var oldest time.Time
	found := false
	for _, e := range entries {
		t, ok := e.When(loc)
		if !ok {
			continue
		}
		if !found || t.Before(oldest) {
			oldest = t
			found = true
		}
	}

	start := end.AddDate(0, -fallbackMonths, 0)
	if found {
		start = oldest.AddDate(0, 0, -leadDays)
		if !start.Before(end) {
			start = end.AddDate(0, -fallbackMonths, 0)
		}
	}
	return DateRange{Start: start, End: end}
}

// EndOfDay returns 23:59:59.999999999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location()).Add(-time.Nanosecond)
}

// Degenerate reports whether the range has no positive length.
func (r DateRange) Degenerate() bool {
	return !r.Start.Before(r.End)
}

// Position maps t to [0, 100]. Dates outside the range clamp to the nearest
// edge and a degenerate range maps everything to 0.
func (r DateRange) Position(t time.Time) float64 {
	if r.Degenerate() {
		return 0
	}
	return clamp(secondsBetween(r.Start, t)/r.seconds()*100, 0, 100)
}

// DateAt is the inverse of Position.
func (r DateRange) DateAt(pos float64) time.Time {
	if r.Degenerate() {
		return r.Start
	}
	offset := clamp(pos, 0, 100) / 100 * r.seconds()
	whole := math.Floor(offset)
	nsec := int64(r.Start.Nanosecond()) + int64((offset-whole)*1e9)
	return time.Unix(r.Start.Unix()+int64(whole), nsec).In(r.Start.Location())
}

// TotalDays is the fractional number of days covered.
func (r DateRange) TotalDays() float64 {
	if r.Degenerate() {
		return 0
	}
	return r.seconds() / day.Seconds()
}

func (r DateRange) seconds() float64 {
	return secondsBetween(r.Start, r.End)
}

// secondsBetween is b-a in seconds. time.Duration saturates after about 292
// years, which an archive can exceed.
func secondsBetween(a, b time.Time) float64 {
	return float64(b.Unix()-a.Unix()) + float64(b.Nanosecond()-a.Nanosecond())/1e9
}

// Label renders the year and month at pos.
func (r DateRange) Label(pos float64) string {
	return r.DateAt(pos).Format(LabelLayout)
}

// PositionedEntry is an entry placed on the axis.
type PositionedEntry struct {
	ID       string        `json:"id"`
	Position float64       `json:"position"`
	Date     time.Time     `json:"date"`
	Entry    archive.Entry `json:"-"`
}

// Place positions every dated entry and returns them ordered by position,
// ties broken by ID. Undated entries are dropped.
func Place(entries []archive.Entry, r DateRange, loc *time.Location) []PositionedEntry {
	if loc == nil {
		loc = time.Local
	}
	placed := make([]PositionedEntry, 0, len(entries))
	for _, e := range entries {
		t, ok := e.When(loc)
		if !ok {
			continue
		}
		placed = append(placed, PositionedEntry{
			ID:       e.ID,
			Position: r.Position(t),
			Date:     t,
			Entry:    e,
		})
	}
	sortPositioned(placed)
	return placed
}

func sortPositioned(entries []PositionedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Position != entries[j].Position {
			return entries[i].Position < entries[j].Position
		}
		return entries[i].ID < entries[j].ID
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
