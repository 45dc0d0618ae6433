// Package timeline is the layout engine behind the tideline views.
//
// # Overview
//
// The engine maps an irregularly dated set of entries onto a continuous,
// zoomable horizontal axis, groups nearby entries into period clusters whose
// size follows the zoom, and arranges each cluster as concentric rings
// ("pinwheels"). It is synchronous and pure: every frame is rebuilt from
// (entries, now, zoom, hover) and nothing is patched in place.
//
// # Pipeline
//
//	entries ──> NewDateRange ──> Place ──> Bucket ──> PackRings ──> Frame
//	             (clock, loc)    [0,100]   clusters    offsets       placements,
//	                                                                 labels, markers
//
// # Components
//
//   - daterange.go: DateRange, Position/DateAt, Place
//   - bucket.go: zoom regimes, BucketCount, Bucket, PeriodKey
//   - ring.go: PackRings and per-node offsets
//   - viewport.go: Viewport zoom/scroll state, wheel handling, ScrollToDate,
//     FocusDate, visible labels
//   - hover.go: Presenter (hover/selection) and tooltip anchoring through a
//     GeometryProvider
//   - markers.go: month/year markers and day ticks
//   - frame.go: Engine, Compose and Layout
//
// # Zoom Regimes
//
//	zoom >= 2.0   one cluster per calendar day
//	zoom >= 1.0   ISO weeks, sub-bucketed (x2)
//	zoom >= 0.5   months, sub-bucketed (x2)
//	otherwise     years, sub-bucketed (x1)
//
// Sub-buckets split a period's occupied span into
// floor(BucketCount(zoom) * span/100 * multiplier) equal slices.
//
// # Ring Geometry
//
// Nodes are 24px with 8px gaps. Ring k has radius 15+25k (20+25k when the
// cluster is hovered) and holds floor(2πr/32) nodes, at least three. The
// packer uses the fewest rings that fit, then drops outer rings that are
// under 40% full or no fuller than the ring inside. Rings of the final
// layout never overlap one another; a ring holding more than its capacity
// (Ring.Overfull) can put neighbours closer than one node diameter.
//
// # Coordinates
//
// Positions are percentages of the full range. The Viewport converts them to
// pixels: content width is ClientWidth * 4 * Zoom and ScrollLeft is the
// pixel offset of the left edge. Renderers that draw in terminal cells scale
// cells to pixels before talking to the Viewport.
package timeline
