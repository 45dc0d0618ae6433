// Package logtail reads the tail of the tideline log for display in the TUI.
//
// # Reading Log Files
//
// Read keeps a ring buffer of the last maxLines matching lines, so a large
// log is scanned once with O(maxLines) memory and lines come back in file
// order:
//
//	lines, err := logtail.Read(cfg.LogPath(), 200, slog.LevelWarn)
//
// # Levels
//
// Lines are written by the tint slog handler, which prints a three letter
// level token after the timestamp:
//
//	2025-06-15 12:00:03 WRN archive refresh failed error="dial tcp: refused"
//
// ParseLevel maps DBG, INF, WRN and ERR (with an optional +N/-N offset) back
// to slog levels. Lines without a token belong to the record above them.
//
// A missing file is not an error; the problems overlay simply shows nothing.
package logtail
