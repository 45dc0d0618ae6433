package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/tideline/internal/archive"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	entries := []archive.Entry{
		{ID: "a", Date: "2025-06-01", Tags: []archive.Tag{{Name: "walk", Color: "#336699"}}},
		{ID: "b", Date: "2025-06-02"},
	}

	before := time.Now()
	s.Update(entries, nil)

	snap := s.Snapshot()
	if !snap.HasEntries {
		t.Fatalf("HasEntries = false, want true")
	}
	if len(snap.Entries) != 2 || snap.Entries[0].ID != "a" {
		t.Fatalf("snapshot entries = %#v, want 2 entries", snap.Entries)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Neither the caller's slice nor a returned snapshot may alias the store.
	entries[0].ID = "changed"
	snap.Entries[1].ID = "changed"
	snap.Entries[0].Tags[0].Name = "changed"
	snap2 := s.Snapshot()
	if snap2.Entries[0].ID != "a" || snap2.Entries[1].ID != "b" {
		t.Fatalf("Snapshot should clone entries; got %#v", snap2.Entries)
	}
	if snap2.Entries[0].Tags[0].Name != "walk" {
		t.Fatalf("Snapshot should clone tags; got %q want walk", snap2.Entries[0].Tags[0].Name)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]archive.Entry{{ID: "a"}}, nil)

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if !snap.HasEntries || len(snap.Entries) != 1 || snap.Entries[0].ID != "a" {
		t.Fatalf("entries changed on error: got %#v", snap.Entries)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the original error")
	}
}

func TestStore_UsesInjectedClock(t *testing.T) {
	stamp := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := NewStore(func() time.Time { return stamp })

	s.Update(nil, nil)

	snap := s.Snapshot()
	if !snap.LastUpdated.Equal(stamp) {
		t.Fatalf("LastUpdated = %v, want %v", snap.LastUpdated, stamp)
	}
	if !snap.HasEntries || snap.Entries != nil {
		t.Fatalf("empty archive should be loaded with no entries, got %#v", snap)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	tests := []struct {
		err     error
		want    int
		offline bool
	}{
		{errors.New("fail 1"), 1, false},
		{errors.New("fail 2"), 2, true},
		{errors.New("fail 3"), 3, true},
		{nil, 0, false},
	}
	for _, tt := range tests {
		s.Update(nil, tt.err)
		snap = s.Snapshot()
		if snap.ConsecutiveFailures != tt.want {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, tt.want)
		}
		if snap.IsOffline() != tt.offline {
			t.Fatalf("IsOffline() = %v, want %v after %d failures", snap.IsOffline(), tt.offline, tt.want)
		}
	}
}
