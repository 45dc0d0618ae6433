package ui

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tideline/internal/archive"
	"github.com/five82/tideline/internal/timeline"
)

type cellKind int

const (
	cellEmpty cellKind = iota
	cellAxis
	cellMonth
	cellYear
	cellDay
	cellConnector
	cellNode
)

type nodeState int

const (
	nodeNormal nodeState = iota
	nodeDimmed
	nodeSelected
	nodeHovered
)

// Node glyphs. A hovered node is drawn larger than its neighbours.
const (
	glyphNode     = '●'
	glyphDimmed   = '·'
	glyphSelected = '◆'
	glyphHovered  = '◉'
)

type cell struct {
	ch    rune
	kind  cellKind
	color string
	state nodeState
}

type hit struct {
	id      string
	cluster string
}

// scene is one frame rasterized to terminal cells. It doubles as the
// geometry provider the presenter anchors tooltips on.
type scene struct {
	width   int
	height  int
	axisRow int
	cells   [][]cell
	hits    map[int]hit
	bounds  timeline.GeometryMap
}

type sceneInput struct {
	frame    timeline.Frame
	width    int
	height   int
	hovered  string
	selected string
	query    archive.Query
	matches  map[string]bool
	entries  map[string]archive.Entry
}

func newScene(width, height int) scene {
	width = max(width, 0)
	height = max(height, minCanvasRows)
	s := scene{
		width:   width,
		height:  height,
		axisRow: height / 2,
		cells:   make([][]cell, height),
		hits:    make(map[int]hit),
		bounds:  make(timeline.GeometryMap),
	}
	for r := range s.cells {
		row := make([]cell, width)
		for c := range row {
			row[c] = cell{ch: ' '}
		}
		s.cells[r] = row
	}
	return s
}

// buildScene draws markers, the axis, day ticks and every placement that
// falls inside the canvas.
func buildScene(in sceneInput) scene {
	s := newScene(in.width, in.height)
	if s.width == 0 {
		return s
	}
	vp := in.frame.Viewport

	for c := 0; c < s.width; c++ {
		s.set(c, s.axisRow, cell{ch: '─', kind: cellAxis})
	}

	labelEnd := -1
	for _, m := range in.frame.Months {
		col := columnOf(vp.XOf(m.Position))
		if col < 0 || col >= s.width {
			continue
		}
		kind, tick := cellMonth, '┬'
		if m.Year {
			kind, tick = cellYear, '┼'
		}
		s.set(col, s.axisRow, cell{ch: tick, kind: kind})
		if col > labelEnd {
			labelEnd = s.text(col, 0, m.Label, kind)
		}
	}

	labelEnd = -1
	for _, d := range in.frame.Days {
		col := columnOf(vp.XOf(d.Position))
		if col < 0 || col >= s.width || col <= labelEnd {
			continue
		}
		labelEnd = s.text(col, s.height-1, strconv.Itoa(d.Day), cellDay)
	}

	var hovered, selected []timeline.Placement
	for _, p := range in.frame.Placements {
		switch p.ID {
		case in.hovered:
			hovered = append(hovered, p)
		case in.selected:
			selected = append(selected, p)
		default:
			s.place(p, in, nodeNormal)
		}
	}
	for _, p := range selected {
		s.place(p, in, nodeSelected)
	}
	for _, p := range hovered {
		s.place(p, in, nodeHovered)
	}
	return s
}

func (s *scene) place(p timeline.Placement, in sceneInput, state nodeState) {
	x := in.frame.Viewport.XOf(p.DisplayPosition) + p.Offset.X
	col := columnOf(x)
	row := s.axisRow + int(math.Round(p.Offset.Y/CellHeightPx))
	if col < 0 || col >= s.width || row < 1 || row > s.height-2 {
		return
	}

	color := p.Color
	if in.query.Active() {
		if !in.matches[p.ID] {
			if state == nodeNormal {
				state = nodeDimmed
			}
		} else if e, ok := in.entries[p.ID]; ok {
			if tag, ok := archive.DisplayTag(e, in.query); ok && tag.Color != "" {
				color = tag.Color
			}
		}
	}

	ch := glyphNode
	switch state {
	case nodeDimmed:
		ch = glyphDimmed
	case nodeSelected:
		ch = glyphSelected
	case nodeHovered:
		ch = glyphHovered
	}
	s.set(col, row, cell{ch: ch, kind: cellNode, color: color, state: state})
	s.hits[row*s.width+col] = hit{id: p.ID, cluster: p.ClusterID}
	s.bounds[p.ID] = timeline.Rect{
		X: float64(col) * CellWidthPx,
		Y: float64(row) * CellHeightPx,
		W: CellWidthPx,
		H: CellHeightPx,
	}
}

// Bounds implements timeline.GeometryProvider with the rendered cell boxes.
func (s scene) Bounds(id string) (timeline.Rect, bool) {
	return s.bounds.Bounds(id)
}

// HeightPx is the canvas height in layout pixels.
func (s scene) HeightPx() float64 {
	return float64(s.height) * CellHeightPx
}

// hitAt returns the node drawn at a canvas cell.
func (s scene) hitAt(col, row int) (hit, bool) {
	if col < 0 || col >= s.width || row < 0 || row >= s.height {
		return hit{}, false
	}
	h, ok := s.hits[row*s.width+col]
	return h, ok
}

// drawConnector runs a line from under the anchored node down to the canvas
// bottom, leaving drawn cells alone.
func (s *scene) drawConnector(a timeline.TooltipAnchor) {
	col := columnOf(a.X)
	if col < 0 || col >= s.width {
		return
	}
	start := int(a.LineStartY / CellHeightPx)
	end := int(math.Ceil(a.LineEndY / CellHeightPx))
	for row := max(start, 0); row < end && row < s.height; row++ {
		switch s.cells[row][col].kind {
		case cellEmpty, cellAxis:
			s.set(col, row, cell{ch: '│', kind: cellConnector})
		}
	}
}

func (s *scene) set(col, row int, c cell) {
	if col < 0 || col >= s.width || row < 0 || row >= s.height {
		return
	}
	s.cells[row][col] = c
}

// text writes label from col and returns the last column used.
func (s *scene) text(col, row int, label string, kind cellKind) int {
	last := col - 1
	for _, r := range label {
		if col >= s.width {
			break
		}
		s.set(col, row, cell{ch: r, kind: kind})
		last = col
		col++
	}
	return last
}

// String is the scene without styling.
func (s scene) String() string {
	var b strings.Builder
	for r, row := range s.cells {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			b.WriteRune(c.ch)
		}
	}
	return b.String()
}

// Render styles the scene, batching runs of identically styled cells.
func (s scene) Render(theme Theme) string {
	bg := lipgloss.Color(theme.Background)
	lines := make([]string, 0, s.height)
	for _, row := range s.cells {
		var b strings.Builder
		var run strings.Builder
		var runStyle lipgloss.Style
		runKey := ""
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(runStyle.Render(run.String()))
				run.Reset()
			}
		}
		for _, c := range row {
			k, style := cellStyle(theme, c)
			if k != runKey {
				flush()
				runKey, runStyle = k, style.Background(bg)
			}
			run.WriteRune(c.ch)
		}
		flush()
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func cellStyle(theme Theme, c cell) (string, lipgloss.Style) {
	style := lipgloss.NewStyle()
	switch c.kind {
	case cellAxis:
		return "axis", style.Foreground(lipgloss.Color(theme.Axis))
	case cellMonth:
		return "month", style.Foreground(lipgloss.Color(theme.Muted))
	case cellYear:
		return "year", style.Foreground(lipgloss.Color(theme.YearMarker)).Bold(true)
	case cellDay:
		return "day", style.Foreground(lipgloss.Color(theme.DayTick))
	case cellConnector:
		return "connector", style.Foreground(lipgloss.Color(theme.Connector))
	case cellNode:
		switch c.state {
		case nodeDimmed:
			return "dimmed", style.Foreground(lipgloss.Color(theme.Dimmed))
		case nodeHovered, nodeSelected:
			return "node-bold:" + c.color, style.Foreground(lipgloss.Color(c.color)).Bold(true)
		default:
			return "node:" + c.color, style.Foreground(lipgloss.Color(c.color))
		}
	default:
		return "", style
	}
}

// columnOf converts a viewport-relative x in layout pixels to a column.
func columnOf(x float64) int {
	return int(math.Floor(x / CellWidthPx))
}
