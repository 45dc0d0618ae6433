package archive

import (
	"testing"
	"time"
)

func TestComputeStats(t *testing.T) {
	sport := Tag{ID: "s", Name: "sport", Color: "#AA0000"}
	food := Tag{ID: "f", Name: "food", Color: "#00AA00"}
	unused := Tag{ID: "u", Name: "unused", Color: "#0000AA"}

	// 7th Saturday, 8th Sunday, 9th Monday, 12th Thursday.
	entries := []Entry{
		{ID: "1", Date: "2025-06-07", Description: "long swim swim", Tags: []Tag{sport, food}},
		{ID: "2", Date: "2025-06-08", Description: "swim again", Tags: []Tag{sport}},
		{ID: "3", Date: "2025-06-09", Tags: []Tag{food}},
		{ID: "4", Date: "2025-06-12", Description: "pasta", Tags: []Tag{food, sport}},
		{ID: "5", Date: "", Description: "undated"},
	}
	now := time.Date(2025, 6, 13, 10, 0, 0, 0, time.UTC)

	stats := ComputeStats(entries, []Tag{sport, food, unused}, now, time.UTC)

	if stats.Counts.TotalEntries != 5 || stats.Counts.DefinedTags != 3 || stats.Counts.UsedTags != 2 || stats.Counts.OrphanedTags != 1 {
		t.Fatalf("Counts = %+v", stats.Counts)
	}
	if len(stats.Tags.Orphaned) != 1 || stats.Tags.Orphaned[0].Name != "unused" {
		t.Fatalf("Orphaned = %+v, want [unused]", stats.Tags.Orphaned)
	}
	if stats.Tags.MostUsed[0].Name != "sport" || stats.Tags.MostUsed[0].Count != 3 {
		t.Fatalf("MostUsed[0] = %+v, want sport x3", stats.Tags.MostUsed[0])
	}
	if len(stats.Tags.CoOccurrence) != 1 || stats.Tags.CoOccurrence[0].Tags != [2]string{"food", "sport"} || stats.Tags.CoOccurrence[0].Count != 2 {
		t.Fatalf("CoOccurrence = %+v, want food+sport x2", stats.Tags.CoOccurrence)
	}
	if stats.Tags.Density != 6.0/5.0 {
		t.Fatalf("Density = %v, want 1.2", stats.Tags.Density)
	}
	if len(stats.Tags.TopColors) != 2 || stats.Tags.TopColors[0] != "#aa0000" {
		t.Fatalf("TopColors = %v, want lowercased sport colour first", stats.Tags.TopColors)
	}

	if stats.Habits.LongestStreak != 3 {
		t.Fatalf("LongestStreak = %d, want 3", stats.Habits.LongestStreak)
	}
	if stats.Habits.CurrentStreak != 1 {
		t.Fatalf("CurrentStreak = %d, want 1 (last entry yesterday)", stats.Habits.CurrentStreak)
	}
	if stats.Habits.WeekendPercentage != 50 {
		t.Fatalf("WeekendPercentage = %d, want 50", stats.Habits.WeekendPercentage)
	}
	if stats.Habits.MostActiveDay != "Sunday" {
		t.Fatalf("MostActiveDay = %q, want Sunday (first of the tied days)", stats.Habits.MostActiveDay)
	}
	if stats.Habits.Heatmap["2025-06-07"] != 1 || len(stats.Habits.Heatmap) != 4 {
		t.Fatalf("Heatmap = %v", stats.Habits.Heatmap)
	}

	if stats.Content.RichEntries != 3 {
		t.Fatalf("RichEntries = %d, want 3", stats.Content.RichEntries)
	}
	if len(stats.Content.CommonKeywords) == 0 || stats.Content.CommonKeywords[0] != "swim" {
		t.Fatalf("CommonKeywords = %v, want swim first", stats.Content.CommonKeywords)
	}
}

func TestComputeStats_StaleStreakIsNotCurrent(t *testing.T) {
	entries := []Entry{{ID: "1", Date: "2025-01-01"}, {ID: "2", Date: "2025-01-02"}}
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	stats := ComputeStats(entries, nil, now, time.UTC)
	if stats.Habits.LongestStreak != 2 {
		t.Fatalf("LongestStreak = %d, want 2", stats.Habits.LongestStreak)
	}
	if stats.Habits.CurrentStreak != 0 {
		t.Fatalf("CurrentStreak = %d, want 0", stats.Habits.CurrentStreak)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, nil, time.Now(), time.UTC)
	if stats.Counts.TotalEntries != 0 || stats.Habits.MostActiveDay != "" || stats.Content.AvgDescriptionLength != 0 {
		t.Fatalf("empty stats = %+v", stats)
	}
}
