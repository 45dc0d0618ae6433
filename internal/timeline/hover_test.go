package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTooltipAnchorsUnderRenderedNode(t *testing.T) {
	var p Presenter
	geom := GeometryMap{"a": {X: 100, Y: 50, W: 24, H: 24}}
	p.Enter("a", "d:2025-06-10")

	anchor, ok := p.Tooltip(geom, 600, 80)

	require.True(t, ok)
	assert.Equal(t, "a", anchor.NodeID)
	assert.Equal(t, 112.0, anchor.X)
	assert.Equal(t, 74.0, anchor.LineStartY)
	assert.Equal(t, 520.0, anchor.LineEndY)
	assert.Equal(t, "d:2025-06-10", p.HoveredCluster())
}

func TestTooltipLineNeverRunsUpwards(t *testing.T) {
	var p Presenter
	p.Enter("a", "c")

	anchor, ok := p.Tooltip(GeometryMap{"a": {X: 0, Y: 560, W: 24, H: 24}}, 600, 80)

	require.True(t, ok)
	assert.Equal(t, anchor.LineStartY, anchor.LineEndY)
}

func TestTooltipFallsBackToSelection(t *testing.T) {
	var p Presenter
	geom := GeometryMap{"a": {X: 10, Y: 10, W: 4, H: 4}, "b": {X: 40, Y: 10, W: 4, H: 4}}

	_, ok := p.Tooltip(geom, 100, 10)
	assert.False(t, ok)

	p.Select("b")
	p.Enter("a", "c")
	anchor, ok := p.Tooltip(geom, 100, 10)
	require.True(t, ok)
	assert.Equal(t, "a", anchor.NodeID)

	p.Leave()
	assert.Empty(t, p.HoveredCluster())
	anchor, ok = p.Tooltip(geom, 100, 10)
	require.True(t, ok)
	assert.Equal(t, "b", anchor.NodeID)

	p.ClearSelection()
	assert.Empty(t, p.Focused())
}

func TestTooltipWithoutGeometry(t *testing.T) {
	var p Presenter
	p.Enter("missing", "c")

	_, ok := p.Tooltip(GeometryMap{}, 100, 10)
	assert.False(t, ok)

	_, ok = p.Tooltip(nil, 100, 10)
	assert.False(t, ok)
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 5, H: 5}

	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(14.9, 14.9))
	assert.False(t, r.Contains(15, 12))
	assert.False(t, r.Contains(9, 12))
}
