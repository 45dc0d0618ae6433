package timeline

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/five82/tideline/internal/archive"
)

// Config wires the engine's collaborators.
type Config struct {
	Clock    clockwork.Clock
	Location *time.Location
}

// Validate fills defaults.
func (c *Config) Validate() error {
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	return nil
}

// Engine turns entry snapshots into frames. It holds no per-frame state and
// is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine builds an engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Location is the zone dates are interpreted in.
func (e *Engine) Location() *time.Location {
	return e.cfg.Location
}

// Now reads the engine clock.
func (e *Engine) Now() time.Time {
	return e.cfg.Clock.Now().In(e.cfg.Location)
}

// Range derives the date range for entries as of the engine clock.
func (e *Engine) Range(entries []archive.Entry) DateRange {
	return NewDateRange(entries, e.cfg.Clock.Now(), e.cfg.Location)
}

// Placement is where one entry is drawn.
type Placement struct {
	ID              string  `json:"id"`
	Position        float64 `json:"position"`
	DisplayPosition float64 `json:"display_position"`
	Offset          Point   `json:"offset"`
	ClusterID       string  `json:"cluster_id"`
	Ring            int     `json:"ring"`
	Color           string  `json:"color"`
}

// Frame is the complete read model for one render.
type Frame struct {
	Range          DateRange             `json:"range"`
	Viewport       Viewport              `json:"viewport"`
	ContentWidth   float64               `json:"content_width"`
	Regime         Regime                `json:"regime"`
	BucketCount    int                   `json:"bucket_count"`
	Clusters       []Cluster             `json:"clusters"`
	Layouts        map[string]RingLayout `json:"layouts"`
	Placements     []Placement           `json:"placements"`
	HoveredCluster string                `json:"hovered_cluster,omitempty"`
	LeftLabel      string                `json:"left_label"`
	RightLabel     string                `json:"right_label"`
	VisibleDays    float64               `json:"visible_days"`
	Months         []Marker              `json:"months"`
	Days           []DayTick             `json:"days"`
}

// Placement looks up the placement of entry id.
func (f Frame) Placement(id string) (Placement, bool) {
	for _, p := range f.Placements {
		if p.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// Cluster looks up a cluster by ID.
func (f Frame) Cluster(id string) (Cluster, bool) {
	for _, c := range f.Clusters {
		if c.ID == id {
			return c, true
		}
	}
	return Cluster{}, false
}

// Compose builds a frame for entries over r as seen through vp. The
// hovered cluster, if any, is packed with the enlarged hover radius.
func (e *Engine) Compose(entries []archive.Entry, r DateRange, vp Viewport, hoveredCluster string) Frame {
	vp.SetRange(r)

	placed := Place(entries, r, e.cfg.Location)
	clusters := Bucket(placed, vp.Zoom)

	frame := Frame{
		Range:        r,
		Viewport:     vp,
		ContentWidth: vp.ContentWidth(),
		Regime:       RegimeFor(vp.Zoom),
		BucketCount:  BucketCount(vp.Zoom),
		Clusters:     clusters,
		Layouts:      make(map[string]RingLayout, len(clusters)),
		Placements:   make([]Placement, 0, len(placed)),
		VisibleDays:  vp.VisibleDays(r),
	}
	frame.LeftLabel, frame.RightLabel = vp.VisibleLabels(r)

	for _, c := range clusters {
		hovered := c.ID == hoveredCluster
		if hovered {
			frame.HoveredCluster = c.ID
		}
		layout := PackRings(c.Size(), hovered)
		frame.Layouts[c.ID] = layout
		for i, m := range c.Members {
			ring, _ := layout.RingOf(i)
			frame.Placements = append(frame.Placements, Placement{
				ID:              m.ID,
				Position:        m.Position,
				DisplayPosition: c.Center,
				Offset:          layout.Offset(i),
				ClusterID:       c.ID,
				Ring:            ring,
				Color:           m.Entry.PrimaryColor(),
			})
		}
	}

	from, to := vp.VisibleRange(r)
	frame.Months = MonthMarkers(r, frame.VisibleDays)
	frame.Days = DayTicks(r, from, to, frame.VisibleDays)
	return frame
}

// LayoutRequest asks for a frame without an existing viewport.
type LayoutRequest struct {
	Entries        []archive.Entry
	Zoom           float64
	ScrollLeft     float64
	ClientWidth    float64
	HoveredCluster string
	// Focus, when set, zooms and scrolls so this date is centred.
	Focus *time.Time
}

// Layout derives the range from the engine clock, builds the viewport the
// request describes, and composes the frame.
func (e *Engine) Layout(req LayoutRequest) Frame {
	r := e.Range(req.Entries)
	vp := NewViewport(req.ClientWidth, req.Zoom, r)
	vp.ScrollLeft = req.ScrollLeft
	vp.clampScroll()
	if req.Focus != nil {
		vp.FocusDate(r, *req.Focus)
	}
	return e.Compose(req.Entries, r, vp, req.HoveredCluster)
}
