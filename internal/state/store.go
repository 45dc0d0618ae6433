package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/tideline/internal/archive"
)

// Snapshot is the latest archive contents available to the UI.
type Snapshot struct {
	Entries             []archive.Entry
	HasEntries          bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive refresh failures
}

// IsOffline returns true when the archive has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	now      func() time.Time
}

// NewStore returns a store stamping updates with now. A zero Store uses
// time.Now.
func NewStore(now func() time.Time) *Store {
	return &Store{now: now}
}

// Update replaces the stored entries. When err is non-nil the previous entries
// are kept but the error is recorded for visibility.
func (s *Store) Update(entries []archive.Entry, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp := time.Now()
	if s.now != nil {
		stamp = s.now()
	}

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = stamp
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Entries = archive.CloneEntries(entries)
	s.snapshot.HasEntries = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = stamp
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Entries = archive.CloneEntries(s.snapshot.Entries)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
