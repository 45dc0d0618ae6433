package ui

import "time"

// Terminal cells are scaled to the pixel units the timeline engine works in.
const (
	// CellWidthPx is the width of one terminal column in layout pixels.
	CellWidthPx = 8.0

	// CellHeightPx is the height of one terminal row in layout pixels.
	CellHeightPx = 16.0
)

// Screen rows around the canvas.
const (
	// chromeTopRows covers the header and the range bar.
	chromeTopRows = 2

	// chromeBottomRows covers the tooltip band and the command bar.
	chromeBottomRows = 2

	// minCanvasRows keeps room for the marker row, the axis and the tick row.
	minCanvasRows = 3

	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100
)

// Navigation steps.
const (
	keyZoomFactor   = 1.25
	wheelNotchPx    = 100.0
	scrollStepRatio = 0.125
	pageStepRatio   = 0.9
)

// Overlay limits and timing.
const (
	// ProblemsLineLimit is the number of WRN/ERR log lines the problems overlay keeps.
	ProblemsLineLimit = 200

	// SummaryTimeout bounds one summary request.
	SummaryTimeout = 60 * time.Second

	// StatsTimeout bounds the tag catalogue fetch behind the stats overlay.
	StatsTimeout = 5 * time.Second

	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)
