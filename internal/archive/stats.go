package archive

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Stats summarises an archive.
type Stats struct {
	Counts  StatCounts  `json:"counts"`
	Habits  StatHabits  `json:"habits"`
	Tags    StatTags    `json:"tags"`
	Content StatContent `json:"content"`
}

// StatCounts are raw totals.
type StatCounts struct {
	TotalEntries int `json:"total_entries"`
	DefinedTags  int `json:"defined_tags"`
	UsedTags     int `json:"used_tags"`
	OrphanedTags int `json:"orphaned_tags"`
}

// StatHabits describe when entries are logged.
type StatHabits struct {
	MostActiveDay     string         `json:"most_active_day"`
	LongestStreak     int            `json:"longest_streak"`
	CurrentStreak     int            `json:"current_streak"`
	Heatmap           map[string]int `json:"heatmap"`
	WeekendPercentage int            `json:"weekend_percentage"`
}

// TagUsage counts entries carrying one tag.
type TagUsage struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// TagPair counts entries carrying both tags.
type TagPair struct {
	Tags  [2]string `json:"tags"`
	Count int       `json:"count"`
}

// StatTags describe the tag vocabulary.
type StatTags struct {
	MostUsed     []TagUsage `json:"most_used"`
	Orphaned     []Tag      `json:"orphaned"`
	CoOccurrence []TagPair  `json:"co_occurrence"`
	Density      float64    `json:"density"`
	TopColors    []string   `json:"top_colors"`
}

// StatContent describe the written content.
type StatContent struct {
	RichEntries          int      `json:"rich_entries"`
	AvgDescriptionLength float64  `json:"avg_description_length"`
	CommonKeywords       []string `json:"common_keywords"`
}

const (
	topTagCount     = 5
	topPairCount    = 5
	topColorCount   = 3
	topKeywordCount = 3
)

var (
	wordSplitter = regexp.MustCompile("[\\s,.!?()\\[\\]{}\"'`~“”‘’]+")
	stopWords    = map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
		"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
		"with": true, "is": true, "are": true, "was": true, "were": true,
		"it": true, "that": true, "this": true,
	}
)

// ComputeStats derives statistics from entries. catalogue is the full tag
// list; when empty the tags seen on entries stand in for it. now decides
// whether the latest streak is still running.
func ComputeStats(entries []Entry, catalogue []Tag, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.Local
	}
	if len(catalogue) == 0 {
		catalogue = tagsSeen(entries)
	}

	var stats Stats
	stats.Counts.TotalEntries = len(entries)
	stats.Counts.DefinedTags = len(catalogue)

	usage := make(map[string]int)
	colorUsage := make(map[string]int)
	var colorOrder []string
	assignments := 0
	for _, e := range entries {
		assignments += len(e.Tags)
		for _, tag := range e.Tags {
			usage[tagKey(tag)]++
			c := strings.ToLower(tag.Color)
			if colorUsage[c] == 0 {
				colorOrder = append(colorOrder, c)
			}
			colorUsage[c]++
		}
	}
	stats.Counts.UsedTags = len(usage)

	stats.Tags.MostUsed = make([]TagUsage, 0, len(catalogue))
	stats.Tags.Orphaned = []Tag{}
	for _, tag := range catalogue {
		n := usage[tagKey(tag)]
		stats.Tags.MostUsed = append(stats.Tags.MostUsed, TagUsage{Name: tag.Name, Color: tag.Color, Count: n})
		if n == 0 {
			stats.Tags.Orphaned = append(stats.Tags.Orphaned, tag)
		}
	}
	stats.Counts.OrphanedTags = len(stats.Tags.Orphaned)
	sort.SliceStable(stats.Tags.MostUsed, func(i, j int) bool {
		return stats.Tags.MostUsed[i].Count > stats.Tags.MostUsed[j].Count
	})
	if len(stats.Tags.MostUsed) > topTagCount {
		stats.Tags.MostUsed = stats.Tags.MostUsed[:topTagCount]
	}

	sort.SliceStable(colorOrder, func(i, j int) bool {
		return colorUsage[colorOrder[i]] > colorUsage[colorOrder[j]]
	})
	if len(colorOrder) > topColorCount {
		colorOrder = colorOrder[:topColorCount]
	}
	stats.Tags.TopColors = append([]string{}, colorOrder...)
	stats.Tags.CoOccurrence = coOccurrence(entries)
	if len(entries) > 0 {
		stats.Tags.Density = float64(assignments) / float64(len(entries))
	}

	stats.Habits = habits(entries, now, loc)
	stats.Content = content(entries)
	return stats
}

func tagKey(t Tag) string {
	if t.ID != "" {
		return t.ID
	}
	return t.Name + "|" + strings.ToLower(t.Color)
}

func tagsSeen(entries []Entry) []Tag {
	seen := make(map[string]bool)
	var out []Tag
	for _, e := range entries {
		for _, tag := range e.Tags {
			k := tagKey(tag)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, tag)
		}
	}
	return out
}

func coOccurrence(entries []Entry) []TagPair {
	counts := make(map[[2]string]int)
	var order [][2]string
	for _, e := range entries {
		for i := 0; i < len(e.Tags); i++ {
			for j := i + 1; j < len(e.Tags); j++ {
				a, b := e.Tags[i].Name, e.Tags[j].Name
				if b < a {
					a, b = b, a
				}
				key := [2]string{a, b}
				if counts[key] == 0 {
					order = append(order, key)
				}
				counts[key]++
			}
		}
	}
	pairs := make([]TagPair, 0, len(order))
	for _, key := range order {
		pairs = append(pairs, TagPair{Tags: key, Count: counts[key]})
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Count > pairs[j].Count })
	if len(pairs) > topPairCount {
		pairs = pairs[:topPairCount]
	}
	return pairs
}

func habits(entries []Entry, now time.Time, loc *time.Location) StatHabits {
	h := StatHabits{Heatmap: make(map[string]int)}

	var weekdays [7]int
	weekend := 0
	dated := 0
	for _, e := range entries {
		t, ok := e.When(loc)
		if !ok {
			continue
		}
		dated++
		wd := t.Weekday()
		weekdays[wd]++
		if wd == time.Saturday || wd == time.Sunday {
			weekend++
		}
		h.Heatmap[t.Format(DateLayout)]++
	}
	if dated == 0 {
		return h
	}

	best := 0
	for i := 1; i < len(weekdays); i++ {
		if weekdays[i] > weekdays[best] {
			best = i
		}
	}
	h.MostActiveDay = time.Weekday(best).String()
	h.WeekendPercentage = int(math.Round(float64(weekend) / float64(dated) * 100))

	days := make([]string, 0, len(h.Heatmap))
	for day := range h.Heatmap {
		days = append(days, day)
	}
	sort.Strings(days)

	streak := 1
	for i := 1; i < len(days); i++ {
		if dayDiff(days[i-1], days[i]) == 1 {
			streak++
			continue
		}
		h.LongestStreak = max(h.LongestStreak, streak)
		streak = 1
	}
	h.LongestStreak = max(h.LongestStreak, streak)

	if dayDiff(days[len(days)-1], now.In(loc).Format(DateLayout)) <= 1 {
		h.CurrentStreak = streak
	}
	return h
}

// dayDiff returns the number of calendar days from a to b.
func dayDiff(a, b string) int {
	ta, errA := time.Parse(DateLayout, a)
	tb, errB := time.Parse(DateLayout, b)
	if errA != nil || errB != nil {
		return math.MaxInt32
	}
	return int(tb.Sub(ta).Hours() / 24)
}

func content(entries []Entry) StatContent {
	c := StatContent{CommonKeywords: []string{}}
	if len(entries) == 0 {
		return c
	}

	totalLen := 0
	words := make(map[string]int)
	var order []string
	for _, e := range entries {
		if strings.TrimSpace(e.Date) != "" && e.Description != "" && len(e.Tags) > 0 {
			c.RichEntries++
		}
		totalLen += utf8.RuneCountInString(e.Description)
		if e.Description == "" {
			continue
		}
		for _, w := range wordSplitter.Split(strings.ToLower(e.Description), -1) {
			if utf8.RuneCountInString(w) <= 1 || stopWords[w] {
				continue
			}
			if words[w] == 0 {
				order = append(order, w)
			}
			words[w]++
		}
	}
	c.AvgDescriptionLength = float64(totalLen) / float64(len(entries))

	sort.SliceStable(order, func(i, j int) bool { return words[order[i]] > words[order[j]] })
	if len(order) > topKeywordCount {
		order = order[:topKeywordCount]
	}
	c.CommonKeywords = append(c.CommonKeywords, order...)
	return c
}
