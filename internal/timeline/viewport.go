package timeline

import (
	"math"
	"time"
)

const (
	// MinZoom is the farthest the view zooms out.
	MinZoom = 0.25
	// ContentScale is the content width at zoom 1, in client widths.
	ContentScale = 4.0
	// WheelZoomRate converts wheel delta to zoom delta.
	WheelZoomRate = 0.001

	maxZoomFloor   = 1.0
	maxZoomCeiling = 100.0
	daysPerZoom    = 10.0
	focusDivisor   = 8.0
	minEdgeRatio   = 0.001
)

// ZoomMax scales the zoom ceiling with the range: one step per ten days,
// kept within [1, 100].
func ZoomMax(totalDays float64) float64 {
	return clamp(totalDays/daysPerZoom, maxZoomFloor, maxZoomCeiling)
}

// Viewport is the horizontally scrolling window onto the axis. Widths are in
// pixels (the terminal renderer converts cells to pixels).
type Viewport struct {
	Zoom        float64 `json:"zoom"`
	ScrollLeft  float64 `json:"scroll_left"`
	ClientWidth float64 `json:"client_width"`
	MinZoom     float64 `json:"min_zoom"`
	MaxZoom     float64 `json:"max_zoom"`
}

// WheelEvent is a mouse wheel notch over the timeline. MouseX is relative to
// the viewport's left edge.
type WheelEvent struct {
	DeltaX       float64
	DeltaY       float64
	MouseX       float64
	ZoomModifier bool
}

// Outcome reports what an input event changed.
type Outcome struct {
	Zoomed         bool
	Scrolled       bool
	PreventDefault bool
}

// NewViewport returns a viewport at zoom for r.
func NewViewport(clientWidth, zoom float64, r DateRange) Viewport {
	v := Viewport{
		Zoom:        zoom,
		ClientWidth: math.Max(0, clientWidth),
		MinZoom:     MinZoom,
	}
	v.SetRange(r)
	return v
}

// SetRange updates the zoom ceiling for r and re-clamps zoom and scroll.
func (v *Viewport) SetRange(r DateRange) {
	if v.MinZoom <= 0 {
		v.MinZoom = MinZoom
	}
	v.MaxZoom = ZoomMax(r.TotalDays())
	v.Zoom = clamp(v.Zoom, v.MinZoom, v.MaxZoom)
	v.clampScroll()
}

// SetClientWidth resizes the viewport.
func (v *Viewport) SetClientWidth(w float64) {
	v.ClientWidth = math.Max(0, w)
	v.clampScroll()
}

// ContentWidth is the full scrollable width.
func (v Viewport) ContentWidth() float64 {
	return v.ClientWidth * ContentScale * v.Zoom
}

// MaxScroll is the largest valid ScrollLeft.
func (v Viewport) MaxScroll() float64 {
	return math.Max(0, v.ContentWidth()-v.ClientWidth)
}

// SetZoom clamps zoom silently and keeps the left edge fixed.
func (v *Viewport) SetZoom(zoom float64) bool {
	return v.ZoomAt(zoom, 0)
}

// ZoomAt changes zoom while keeping the content under anchorX in place.
func (v *Viewport) ZoomAt(zoom, anchorX float64) bool {
	next := clamp(zoom, v.MinZoom, v.MaxZoom)
	if next == v.Zoom || v.Zoom <= 0 {
		v.Zoom = next
		v.clampScroll()
		return false
	}
	factor := next / v.Zoom
	v.Zoom = next
	v.ScrollLeft = (v.ScrollLeft+anchorX)*factor - anchorX
	v.clampScroll()
	return true
}

// ScrollBy moves the viewport horizontally.
func (v *Viewport) ScrollBy(dx float64) bool {
	before := v.ScrollLeft
	v.ScrollLeft += dx
	v.clampScroll()
	return v.ScrollLeft != before
}

// HandleWheel applies a wheel event. With the zoom modifier held the wheel
// zooms around the pointer; otherwise it scrolls.
func (v *Viewport) HandleWheel(ev WheelEvent) Outcome {
	if ev.ZoomModifier {
		delta := -ev.DeltaY * WheelZoomRate
		return Outcome{Zoomed: v.ZoomAt(v.Zoom+delta, ev.MouseX), PreventDefault: true}
	}
	return Outcome{Scrolled: v.ScrollBy(ev.DeltaY + ev.DeltaX)}
}

// HandleGesture swallows pinch gestures without changing state.
func (v *Viewport) HandleGesture() Outcome {
	return Outcome{PreventDefault: true}
}

// VisibleSpan returns the positions at the left and right edges.
func (v Viewport) VisibleSpan() (left, right float64) {
	cw := v.ContentWidth()
	if cw <= 0 {
		return 0, 100
	}
	return clamp(v.ScrollLeft/cw*100, 0, 100), clamp((v.ScrollLeft+v.ClientWidth)/cw*100, 0, 100)
}

// VisibleRange returns the dates at the left and right edges.
func (v Viewport) VisibleRange(r DateRange) (left, right time.Time) {
	lp, rp := v.VisibleSpan()
	return r.DateAt(lp), r.DateAt(rp)
}

// VisibleLabels formats VisibleRange as year/month labels.
func (v Viewport) VisibleLabels(r DateRange) (left, right string) {
	lp, rp := v.VisibleSpan()
	return r.Label(lp), r.Label(rp)
}

// VisibleDays is the number of days across the viewport.
func (v Viewport) VisibleDays(r DateRange) float64 {
	cw := v.ContentWidth()
	if cw <= 0 {
		return r.TotalDays()
	}
	return r.TotalDays() * v.ClientWidth / cw
}

// ScrollToDate centres t at the current zoom.
func (v *Viewport) ScrollToDate(r DateRange, t time.Time) {
	v.ScrollLeft = r.Position(t)/100*v.ContentWidth() - v.ClientWidth/2
	v.clampScroll()
}

// FocusDate zooms in far enough that t can be centred, then centres it.
// Dates near either edge need more zoom; zoom never decreases.
func (v *Viewport) FocusDate(r DateRange, t time.Time) {
	ratio := r.Position(t) / 100
	dist := math.Max(math.Min(ratio, 1-ratio), minEdgeRatio)
	target := math.Max(v.Zoom, math.Min(v.MaxZoom, 1/(focusDivisor*dist)))
	v.Zoom = clamp(target, v.MinZoom, v.MaxZoom)
	v.ScrollToDate(r, t)
}

// XOf converts an axis position to a viewport-relative x coordinate.
func (v Viewport) XOf(pos float64) float64 {
	return pos/100*v.ContentWidth() - v.ScrollLeft
}

// PositionAt converts a viewport-relative x coordinate to an axis position.
func (v Viewport) PositionAt(x float64) float64 {
	cw := v.ContentWidth()
	if cw <= 0 {
		return 0
	}
	return clamp((x+v.ScrollLeft)/cw*100, 0, 100)
}

func (v *Viewport) clampScroll() {
	v.ScrollLeft = clamp(v.ScrollLeft, 0, v.MaxScroll())
}
