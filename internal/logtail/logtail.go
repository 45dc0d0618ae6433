package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Line is one log line with the level parsed from its tint token.
type Line struct {
	Level slog.Level
	Text  string
}

var levelTokens = map[string]slog.Level{
	"DBG": slog.LevelDebug,
	"INF": slog.LevelInfo,
	"WRN": slog.LevelWarn,
	"ERR": slog.LevelError,
}

// ParseLevel finds the tint level token in text. Lines without one, such as
// wrapped continuations, report false.
func ParseLevel(text string) (slog.Level, bool) {
	fields := strings.Fields(text)
	// date, time, level
	for i := 0; i < len(fields) && i < 3; i++ {
		tok := fields[i]
		if j := strings.IndexAny(tok, "+-"); j > 0 {
			tok = tok[:j]
		}
		if lvl, ok := levelTokens[tok]; ok {
			return lvl, true
		}
	}
	return 0, false
}

// Read returns at most maxLines at or above minLevel from the end of the
// file at path. Lines without a level token inherit the level of the line
// before them. A missing file yields no lines.
func Read(path string, maxLines int, minLevel slog.Level) ([]Line, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]Line, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	level := slog.LevelInfo
	for scanner.Scan() {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		if lvl, ok := ParseLevel(text); ok {
			level = lvl
		}
		if level < minLevel {
			continue
		}
		ring[idx] = Line{Level: level, Text: text}
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]Line, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}
