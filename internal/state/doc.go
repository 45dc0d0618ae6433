// Package state holds the archive snapshot shared by the poller and the UI.
//
// # Overview
//
// The poller refreshes the archive in the background and the UI renders on
// its own schedule. Store is the meeting point:
//
//	Poller:                        UI:
//	┌──────────────────┐          ┌──────────────────┐
//	│ FetchEntries()   │          │                  │
//	│      ↓           │          │                  │
//	│ store.Update()   │─────────→│ store.Snapshot() │
//	│      ↓           │ (RWMutex)│      ↓           │
//	│ wait / back off  │          │ timeline.Compose │
//	└──────────────────┘          └──────────────────┘
//
// # Update Semantics
//
//	store.Update(entries, nil)   // replace entries, clear error, reset failures
//	store.Update(nil, err)       // keep entries, record error, count failure
//
// A failed refresh never blanks the timeline: the last good entries stay on
// screen and the header reports the error. After two consecutive failures the
// snapshot reports IsOffline.
//
// # Copying
//
// Update and Snapshot deep-copy entries (including tag slices) so the layout
// engine can sort and bucket a snapshot without racing the poller. Errors are
// re-wrapped so callers never share the stored error value, while errors.Is
// still sees the original.
//
// The zero Store is ready to use and stamps updates with time.Now. NewStore
// accepts a clock function for tests and for callers that inject clockwork.
package state
