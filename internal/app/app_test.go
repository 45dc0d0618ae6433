package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/five82/tideline/internal/archive"
	"github.com/five82/tideline/internal/config"
	"github.com/five82/tideline/internal/logging"
	"github.com/five82/tideline/internal/store"
)

func TestOpenSourceSQLite(t *testing.T) {
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "nested", "archive.db")

	src, closeSource, err := OpenSource(cfg)
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	defer closeSource()

	if _, ok := src.(*store.Store); !ok {
		t.Fatalf("source = %T, want *store.Store", src)
	}

	ctx := context.Background()
	added, err := src.AddEntry(ctx, archive.NewEntry{
		Date: "2025-06-01",
		Tags: []archive.Tag{{Name: "walk", Color: "#336699"}},
	})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	entries, err := src.FetchEntries(ctx)
	if err != nil {
		t.Fatalf("FetchEntries: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != added.ID {
		t.Fatalf("entries = %+v, want the added entry", entries)
	}
}

func TestOpenSourceHTTP(t *testing.T) {
	cfg := config.Default()
	cfg.Source = config.SourceHTTP
	cfg.APIBind = "127.0.0.1:9"

	src, closeSource, err := OpenSource(cfg)
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	if err := closeSource(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, ok := src.(*archive.Client); !ok {
		t.Fatalf("source = %T, want *archive.Client", src)
	}
}

func TestNewSummarizerNeedsAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if s := NewSummarizer(logging.Discard()); s != nil {
		t.Fatalf("NewSummarizer without key = %T, want nil", s)
	}

	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	if s := NewSummarizer(logging.Discard()); s == nil {
		t.Fatalf("NewSummarizer with key = nil")
	}
}
