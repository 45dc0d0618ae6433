// Package app is the composition root of the tideline viewer.
//
// # Overview
//
// Run wires configuration, logging, the archive source, the layout engine,
// the snapshot store and the terminal UI together, then blocks until the
// user quits or the context is cancelled.
//
// # Startup
//
//  1. Load ~/.config/tideline/config.toml (defaults when missing)
//  2. Load viewer prefs (theme and zoom)
//  3. Open the log file; the terminal belongs to the renderer
//  4. Open the archive: sqlite by default, or a remote tideline API
//  5. Refresh once so the first frame has entries
//  6. Start the Poller and hand everything to ui.Run
//
// # Components
//
//   - app.go: Run, OpenSource, NewSummarizer
//   - poller.go: background refresh loop with exponential backoff
//
// # Polling Behavior
//
// The poller fetches every entry from the source at a configurable interval
// (default 5 seconds) and replaces the state.Store snapshot. Failures keep
// the previous entries, bump the failure count and double the wait up to 30
// seconds. Two failures in a row mark the archive offline in the header.
//
// The UI reads snapshots at its own tick, so a slow archive never blocks
// input.
//
// # Error Handling
//
// Config, prefs, log file and archive open errors are returned from Run.
// Refresh errors are logged and recorded in the store; the viewer keeps
// drawing the last good snapshot.
//
// # Usage Example
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := app.Run(ctx, app.Options{PollEvery: 5}); err != nil {
//		log.Fatal(err)
//	}
package app
