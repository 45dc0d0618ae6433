package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tideline/internal/archive"
	"github.com/five82/tideline/internal/insight"
	"github.com/five82/tideline/internal/logtail"
)

type summaryMsg struct {
	summary insight.Summary
	err     error
}

type statsMsg struct {
	stats archive.Stats
}

type problemsMsg struct {
	lines []logtail.Line
	err   error
}

func summarizeCmd(ctx context.Context, s insight.Summarizer, req insight.Request) tea.Cmd {
	return func() tea.Msg {
		reqCtx, cancel := context.WithTimeout(ctx, SummaryTimeout)
		defer cancel()
		summary, err := s.Summarize(reqCtx, req)
		return summaryMsg{summary: summary, err: err}
	}
}

// tagLister is satisfied by archives that keep a tag catalogue.
type tagLister interface {
	ListTags(ctx context.Context) ([]archive.Tag, error)
}

// statsFetcher is satisfied by remote archives that compute stats server-side.
type statsFetcher interface {
	FetchStats(ctx context.Context) (archive.Stats, error)
}

func statsCmd(ctx context.Context, src archive.Source, entries []archive.Entry, now time.Time, loc *time.Location, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		if fetcher, ok := src.(statsFetcher); ok {
			reqCtx, cancel := context.WithTimeout(ctx, StatsTimeout)
			stats, err := fetcher.FetchStats(reqCtx)
			cancel()
			if err == nil {
				return statsMsg{stats: stats}
			}
			logger.Warn("remote stats unavailable; computing locally", "error", err)
		}

		var catalogue []archive.Tag
		if lister, ok := src.(tagLister); ok {
			reqCtx, cancel := context.WithTimeout(ctx, StatsTimeout)
			tags, err := lister.ListTags(reqCtx)
			cancel()
			if err != nil {
				logger.Warn("tag catalogue unavailable; using tags seen on entries", "error", err)
			} else {
				catalogue = tags
			}
		}
		return statsMsg{stats: archive.ComputeStats(entries, catalogue, now, loc)}
	}
}

func problemsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, ProblemsLineLimit, slog.LevelWarn)
		return problemsMsg{lines: lines, err: err}
	}
}

func formatSummary(msg summaryMsg, loc *time.Location) string {
	if errors.Is(msg.err, insight.ErrNothingToSummarize) {
		return "No dated entries in the visible range."
	}
	if msg.err != nil {
		return fmt.Sprintf("Summary failed: %v", msg.err)
	}
	s := msg.summary
	var b strings.Builder
	fmt.Fprintf(&b, "%s to %s, %d entries\n\n", s.From.In(loc).Format(archive.DateLayout), s.To.In(loc).Format(archive.DateLayout), s.Entries)
	b.WriteString(s.Text)
	fmt.Fprintf(&b, "\n\n%s, %d in / %d out tokens", s.Model, s.InputTokens, s.OutputTokens)
	return b.String()
}

func formatStats(st archive.Stats, theme Theme) string {
	styles := theme.Styles()
	label := func(s string) string { return styles.MutedText.Render(padRight(s, 22)) }
	heading := func(s string) string { return styles.AccentText.Bold(true).Render(s) }

	var b strings.Builder
	b.WriteString(heading("Counts") + "\n")
	fmt.Fprintf(&b, "%s%d\n", label("Entries"), st.Counts.TotalEntries)
	fmt.Fprintf(&b, "%s%d defined, %d used, %d orphaned\n", label("Tags"), st.Counts.DefinedTags, st.Counts.UsedTags, st.Counts.OrphanedTags)

	b.WriteString("\n" + heading("Habits") + "\n")
	fmt.Fprintf(&b, "%s%s\n", label("Most active day"), ternary(st.Habits.MostActiveDay == "", "-", st.Habits.MostActiveDay))
	fmt.Fprintf(&b, "%s%d days\n", label("Longest streak"), st.Habits.LongestStreak)
	fmt.Fprintf(&b, "%s%d days\n", label("Current streak"), st.Habits.CurrentStreak)
	fmt.Fprintf(&b, "%s%d\n", label("Active days"), len(st.Habits.Heatmap))
	fmt.Fprintf(&b, "%s%d%%\n", label("On weekends"), st.Habits.WeekendPercentage)

	b.WriteString("\n" + heading("Tags") + "\n")
	if len(st.Tags.MostUsed) == 0 {
		b.WriteString(styles.FaintText.Render("No tags in use") + "\n")
	}
	for _, t := range st.Tags.MostUsed {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render(string(glyphNode))
		fmt.Fprintf(&b, "%s %s %d\n", swatch, padRight(t.Name, 20), t.Count)
	}
	for _, p := range st.Tags.CoOccurrence {
		fmt.Fprintf(&b, "%s%s + %s (%d)\n", label("Often together"), p.Tags[0], p.Tags[1], p.Count)
	}
	fmt.Fprintf(&b, "%s%.2f per entry\n", label("Density"), st.Tags.Density)
	if len(st.Tags.TopColors) > 0 {
		swatches := make([]string, 0, len(st.Tags.TopColors))
		for _, c := range st.Tags.TopColors {
			swatches = append(swatches, lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(string(glyphNode)+" "+c))
		}
		fmt.Fprintf(&b, "%s%s\n", label("Top colours"), strings.Join(swatches, "  "))
	}

	b.WriteString("\n" + heading("Content") + "\n")
	fmt.Fprintf(&b, "%s%d\n", label("Rich entries"), st.Content.RichEntries)
	fmt.Fprintf(&b, "%s%.0f chars\n", label("Avg description"), st.Content.AvgDescriptionLength)
	if len(st.Content.CommonKeywords) > 0 {
		fmt.Fprintf(&b, "%s%s\n", label("Keywords"), strings.Join(st.Content.CommonKeywords, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatProblems(msg problemsMsg, logPath string, theme Theme) string {
	styles := theme.Styles()
	if msg.err != nil {
		return styles.DangerText.Render(fmt.Sprintf("Error reading %s: %v", logPath, msg.err))
	}
	if len(msg.lines) == 0 {
		return "No warnings or errors in " + logPath
	}
	lines := make([]string, len(msg.lines))
	for i, line := range msg.lines {
		style := styles.WarningText
		if line.Level >= slog.LevelError {
			style = styles.DangerText
		}
		lines[i] = styles.FaintText.Render(fmt.Sprintf("%4d │", i+1)) + " " + style.Render(line.Text)
	}
	return strings.Join(lines, "\n")
}
