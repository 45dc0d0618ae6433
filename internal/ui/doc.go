// Package ui provides the terminal timeline for tideline.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. The root Model owns a timeline.Viewport and
// a timeline.Presenter and rebuilds a timeline.Frame whenever zoom, scroll,
// hover, search or the archive snapshot changes. The frame is rasterized into
// a scene of terminal cells; the scene also records where each entry was drawn
// and serves as the presenter's GeometryProvider for tooltip anchoring.
//
// # Package Structure
//
//   - app.go: Model, Update/View, key and mouse handling, Run
//   - canvas.go: scene rasterization, hit testing, connector line
//   - header.go: header, range bar, tooltip band and command bar
//   - prompt.go: search and jump-to-date input
//   - modal.go, help.go, overlays.go: summary, statistics, problems and help
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//   - keys.go, layout.go: key bindings and sizing constants
//
// # Coordinates
//
// The engine works in pixels. One column is CellWidthPx wide and one row is
// CellHeightPx tall; the viewport's client width is the terminal width in
// pixels. Pinwheel ring offsets are converted back to cells when drawn, so
// inner rings collapse to a few cells around the axis at this scale.
//
// # Screen Layout
//
//	header        logo, entry count, zoom and regime, refresh status
//	range bar     left label   CTRL + SCROLL TO ZOOM   right label
//	canvas        month/year labels, pinwheels on the axis, day ticks
//	tooltip band  focused entry, centred under its connector
//	command bar   key hints, or the active prompt
//
// # Event Flow
//
//  1. Run starts the program with mouse motion reporting enabled
//  2. A tick fetches the latest state.Store snapshot; the app poller keeps it fresh
//  3. Keys and mouse events move the viewport or the hover and trigger a relayout
//  4. Overlays load their content asynchronously and replace the screen until closed
//  5. Quitting saves the theme and zoom to the prefs file
package ui
