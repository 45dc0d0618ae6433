// Package insight writes short natural-language summaries of archive
// periods.
package insight

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/five82/tideline/internal/archive"
	"github.com/five82/tideline/internal/metrics"
)

// ErrNothingToSummarize is returned for requests without dated entries.
var ErrNothingToSummarize = errors.New("no entries to summarize")

// maxPromptEntries bounds the prompt; older entries beyond it are dropped.
const maxPromptEntries = 200

// Request describes the period to summarize.
type Request struct {
	From     time.Time
	To       time.Time
	Entries  []archive.Entry
	Location *time.Location
}

// Summary is the model's answer.
type Summary struct {
	Text         string    `json:"text"`
	Model        string    `json:"model"`
	Entries      int       `json:"entries"`
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
}

// Summarizer turns a period of entries into a summary.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (Summary, error)
}

// Anthropic summarizes with the Anthropic Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropic builds a summarizer. opts are passed to the SDK client, e.g.
// option.WithBaseURL in tests.
func NewAnthropic(apiKey string, opts ...option.RequestOption) *Anthropic {
	all := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Anthropic{
		client:    anthropic.NewClient(all...),
		model:     anthropic.ModelClaudeHaiku4_5,
		maxTokens: 1024,
	}
}

// Summarize implements Summarizer.
func (a *Anthropic) Summarize(ctx context.Context, req Request) (Summary, error) {
	entries := datedEntries(req)
	if len(entries) == 0 {
		return Summary{}, ErrNothingToSummarize
	}

	start := time.Now()
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(req))),
		},
	})
	metrics.RecordAnthropicRequest("messages", time.Since(start), err)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	metrics.RecordAnthropicTokens(message.Usage.InputTokens, message.Usage.OutputTokens)

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if strings.TrimSpace(text) == "" {
		return Summary{}, fmt.Errorf("summarize: empty response")
	}

	return Summary{
		Text:         strings.TrimSpace(text),
		Model:        string(message.Model),
		Entries:      len(entries),
		From:         req.From,
		To:           req.To,
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}, nil
}

type datedEntry struct {
	when  time.Time
	entry archive.Entry
}

// datedEntries keeps entries dated within [From, To], oldest first. A zero
// bound is open.
func datedEntries(req Request) []datedEntry {
	loc := req.Location
	if loc == nil {
		loc = time.Local
	}
	var out []datedEntry
	for _, e := range req.Entries {
		t, ok := e.When(loc)
		if !ok {
			continue
		}
		if !req.From.IsZero() && t.Before(req.From) {
			continue
		}
		if !req.To.IsZero() && t.After(req.To) {
			continue
		}
		out = append(out, datedEntry{when: t, entry: e})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].when.Before(out[j].when) })
	if len(out) > maxPromptEntries {
		out = out[len(out)-maxPromptEntries:]
	}
	return out
}

// BuildPrompt renders the summary prompt for req.
func BuildPrompt(req Request) string {
	entries := datedEntries(req)

	var sb strings.Builder
	sb.WriteString("You are reviewing a personal timeline archive. Summarize the period below in ")
	sb.WriteString("three to five sentences: the main themes, how activity changed over time, and ")
	sb.WriteString("anything that stands out. Refer to tags by name. Do not invent events.\n\n")
	fmt.Fprintf(&sb, "Period: %s to %s\n", formatBound(req.From, entries, true), formatBound(req.To, entries, false))
	fmt.Fprintf(&sb, "Entries (%d):\n", len(entries))
	for _, d := range entries {
		fmt.Fprintf(&sb, "- %s", d.when.Format(archive.DateLayout))
		if len(d.entry.Tags) > 0 {
			names := make([]string, len(d.entry.Tags))
			for i, t := range d.entry.Tags {
				names[i] = t.Name
			}
			fmt.Fprintf(&sb, " [%s]", strings.Join(names, ", "))
		}
		if desc := strings.TrimSpace(d.entry.Description); desc != "" {
			fmt.Fprintf(&sb, " %s", strings.ReplaceAll(desc, "\n", " "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatBound(t time.Time, entries []datedEntry, first bool) string {
	if !t.IsZero() {
		return t.Format(archive.DateLayout)
	}
	if len(entries) == 0 {
		return "?"
	}
	if first {
		return entries[0].when.Format(archive.DateLayout)
	}
	return entries[len(entries)-1].when.Format(archive.DateLayout)
}
