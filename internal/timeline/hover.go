package timeline

// Rect is a rendered bounding box.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// CenterX is the horizontal middle of the box.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY is the vertical middle of the box.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Contains reports whether (x, y) lies inside the box.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// GeometryProvider reports where a node was actually drawn. Anchors are read
// from rendered geometry because hover scaling and animation move nodes away
// from their logical offsets.
type GeometryProvider interface {
	Bounds(id string) (Rect, bool)
}

// TooltipAnchor places the hover connector and tooltip box.
type TooltipAnchor struct {
	NodeID     string  `json:"node_id"`
	X          float64 `json:"x"`
	LineStartY float64 `json:"line_start_y"`
	LineEndY   float64 `json:"line_end_y"`
}

// Presenter tracks the hovered and selected nodes.
type Presenter struct {
	hoveredNode    string
	hoveredCluster string
	selected       string
}

// Enter marks nodeID in clusterID as hovered.
func (p *Presenter) Enter(nodeID, clusterID string) {
	p.hoveredNode = nodeID
	p.hoveredCluster = clusterID
}

// Leave clears the hover.
func (p *Presenter) Leave() {
	p.hoveredNode = ""
	p.hoveredCluster = ""
}

// Select pins nodeID for the detail view.
func (p *Presenter) Select(nodeID string) {
	p.selected = nodeID
}

// ClearSelection unpins the selected node.
func (p *Presenter) ClearSelection() {
	p.selected = ""
}

// HoveredNode returns the hovered node ID, or "".
func (p *Presenter) HoveredNode() string { return p.hoveredNode }

// HoveredCluster returns the cluster of the hovered node, or "".
func (p *Presenter) HoveredCluster() string { return p.hoveredCluster }

// Selected returns the selected node ID, or "".
func (p *Presenter) Selected() string { return p.selected }

// Focused is the node the tooltip describes: the hovered node, else the
// selected one.
func (p *Presenter) Focused() string {
	if p.hoveredNode != "" {
		return p.hoveredNode
	}
	return p.selected
}

// Tooltip anchors the connector under the focused node's rendered box. The
// line runs from the box bottom to the tooltip pinned bottomMargin above the
// viewport bottom.
func (p *Presenter) Tooltip(geom GeometryProvider, viewportHeight, bottomMargin float64) (TooltipAnchor, bool) {
	id := p.Focused()
	if id == "" || geom == nil {
		return TooltipAnchor{}, false
	}
	box, ok := geom.Bounds(id)
	if !ok {
		return TooltipAnchor{}, false
	}
	start := box.CenterY() + box.H/2
	end := viewportHeight - bottomMargin
	if end < start {
		end = start
	}
	return TooltipAnchor{
		NodeID:     id,
		X:          box.CenterX(),
		LineStartY: start,
		LineEndY:   end,
	}, true
}

// GeometryMap is a GeometryProvider backed by a map.
type GeometryMap map[string]Rect

// Bounds implements GeometryProvider.
func (g GeometryMap) Bounds(id string) (Rect, bool) {
	r, ok := g[id]
	return r, ok
}
