package timeline

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/tideline/internal/archive"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(Config{
		Clock:    clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)),
		Location: time.UTC,
	})
	require.NoError(t, err)
	return engine
}

func TestConfigValidateDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Validate())
	assert.NotNil(t, cfg.Clock)
	assert.Equal(t, time.Local, cfg.Location)
}

func TestLayoutSameDayPinwheel(t *testing.T) {
	engine := newTestEngine(t)
	var entries []archive.Entry
	for i := 0; i < 5; i++ {
		entries = append(entries, archive.Entry{
			ID:   fmt.Sprintf("e%d", i),
			Date: "2025-06-01",
			Tags: []archive.Tag{{Name: "walk", Color: "#336699"}},
		})
	}

	frame := engine.Layout(LayoutRequest{Entries: entries, Zoom: 2.5, ClientWidth: 1000})

	require.Len(t, frame.Clusters, 1)
	cluster := frame.Clusters[0]
	assert.Equal(t, GranularityDay, frame.Regime.Granularity)
	assert.Equal(t, BucketCount(frame.Viewport.Zoom), frame.BucketCount)

	require.Len(t, frame.Placements, 5)
	for j, p := range frame.Placements {
		assert.Equal(t, fmt.Sprintf("e%d", j), p.ID)
		assert.Equal(t, cluster.ID, p.ClusterID)
		assert.Equal(t, cluster.Center, p.DisplayPosition)
		assert.Equal(t, "#336699", p.Color)
		assert.Equal(t, 0, p.Ring)
		angle := float64(j)/5*2*math.Pi - math.Pi/2
		assert.InDelta(t, 15*math.Cos(angle), p.Offset.X, 1e-9)
		assert.InDelta(t, 15*math.Sin(angle), p.Offset.Y, 1e-9)
	}
}

func TestLayoutHoveredClusterUsesLargerRadius(t *testing.T) {
	engine := newTestEngine(t)
	entries := []archive.Entry{
		{ID: "a", Date: "2025-06-01"},
		{ID: "b", Date: "2025-06-01"},
	}
	base := engine.Layout(LayoutRequest{Entries: entries, Zoom: 2.5, ClientWidth: 1000})
	require.Len(t, base.Clusters, 1)

	hovered := engine.Layout(LayoutRequest{
		Entries:        entries,
		Zoom:           2.5,
		ClientWidth:    1000,
		HoveredCluster: base.Clusters[0].ID,
	})

	assert.Equal(t, base.Clusters[0].ID, hovered.HoveredCluster)
	assert.Equal(t, 15.0, base.Layouts[base.Clusters[0].ID].Rings[0].Radius)
	assert.Equal(t, 20.0, hovered.Layouts[base.Clusters[0].ID].Rings[0].Radius)
}

func TestLayoutRangeInvariance(t *testing.T) {
	engine := newTestEngine(t)
	entries := []archive.Entry{
		{ID: "old", Date: "2025-01-01"},
		{ID: "mid", Date: "2025-03-20"},
		{ID: "new", Date: "2025-06-10"},
	}

	before := engine.Layout(LayoutRequest{Entries: entries, Zoom: 1, ClientWidth: 1000})
	withInner := append(append([]archive.Entry{}, entries...), archive.Entry{ID: "extra", Date: "2025-04-01"})
	after := engine.Layout(LayoutRequest{Entries: withInner, Zoom: 1, ClientWidth: 1000})

	assert.Equal(t, before.Range, after.Range)
	for _, id := range []string{"old", "mid", "new"} {
		b, ok := before.Placement(id)
		require.True(t, ok)
		a, ok := after.Placement(id)
		require.True(t, ok)
		assert.Equal(t, b.Position, a.Position, id)
	}
}

func TestLayoutUntaggedEntriesAreNeutral(t *testing.T) {
	engine := newTestEngine(t)

	frame := engine.Layout(LayoutRequest{
		Entries:     []archive.Entry{{ID: "a", Date: "2025-06-01"}, {ID: "undated"}},
		Zoom:        1,
		ClientWidth: 1000,
	})

	require.Len(t, frame.Placements, 1)
	assert.Equal(t, archive.NeutralColor, frame.Placements[0].Color)
	_, ok := frame.Placement("undated")
	assert.False(t, ok)
}

func TestLayoutEmpty(t *testing.T) {
	engine := newTestEngine(t)

	frame := engine.Layout(LayoutRequest{Zoom: 1, ClientWidth: 1000})

	assert.Empty(t, frame.Clusters)
	assert.Empty(t, frame.Placements)
	assert.Equal(t, time.Date(2025, 6, 15, 23, 59, 59, 999999999, time.UTC), frame.Range.End)
	assert.Equal(t, "2025/03", frame.LeftLabel)
}

func TestLayoutFocus(t *testing.T) {
	engine := newTestEngine(t)
	entries := []archive.Entry{{ID: "a", Date: "2024-06-01"}}
	focus := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	frame := engine.Layout(LayoutRequest{Entries: entries, Zoom: 1, ClientWidth: 1000, Focus: &focus})

	assert.Greater(t, frame.Viewport.Zoom, 1.0)
	mid := frame.Viewport.PositionAt(500)
	assert.InDelta(t, frame.Range.Position(focus), mid, 1e-6)
}

func TestComposeClampsViewportToRange(t *testing.T) {
	engine := newTestEngine(t)
	r := DateRange{Start: utcDay(2025, 6, 1), End: utcDay(2025, 6, 21)}
	vp := Viewport{Zoom: 40, ClientWidth: 500}

	frame := engine.Compose(nil, r, vp, "")

	assert.Equal(t, 2.0, frame.Viewport.Zoom)
	assert.Equal(t, 4000.0, frame.ContentWidth)
}

func TestFrameMarshalsToJSON(t *testing.T) {
	engine := newTestEngine(t)
	entries := juneEntries(20)

	frame := engine.Layout(LayoutRequest{Entries: entries, Zoom: 0.3, ClientWidth: 1000})
	require.Equal(t, GranularityYear, frame.Regime.Granularity)

	data, err := json.Marshal(frame)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "year", decoded["regime"].(map[string]any)["granularity"])
	assert.Len(t, decoded["placements"], 20)
}
