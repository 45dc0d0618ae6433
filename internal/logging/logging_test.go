package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/tideline/internal/logtail"
)

func TestNew_WritesTintLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Debug("hidden")
	logger.Info("archive refreshed", "entries", 3)
	logger.Warn("archive refresh failed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record written without verbose: %q", out)
	}
	if !strings.Contains(out, "INF archive refreshed entries=3") {
		t.Fatalf("output = %q, want INF record", out)
	}
	if !strings.Contains(out, "WRN archive refresh failed") {
		t.Fatalf("output = %q, want WRN record", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("output = %q, want no colour for a buffer", out)
	}
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug("poll tick")

	if !strings.Contains(buf.String(), "DBG poll tick") {
		t.Fatalf("output = %q, want DBG record", buf.String())
	}
}

func TestOpenFile_RoundTripsThroughLogtail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tideline.log")

	logger, closer, err := OpenFile(path, false)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	logger.Info("started")
	logger.Error("summary failed", "error", "timeout")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines, err := logtail.Read(path, 10, slog.LevelWarn)
	if err != nil {
		t.Fatalf("logtail.Read returned error: %v", err)
	}
	if len(lines) != 1 || lines[0].Level != slog.LevelError {
		t.Fatalf("lines = %#v, want one ERR line", lines)
	}
}

func TestNew_NoColourOnCharDevice(t *testing.T) {
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Skipf("open %s: %v", os.DevNull, err)
	}
	defer devNull.Close()

	if isTerminal(devNull) {
		t.Fatalf("isTerminal(%s) = true, want false", os.DevNull)
	}
	if isTerminal(&bytes.Buffer{}) {
		t.Fatal("isTerminal(buffer) = true, want false")
	}
}
