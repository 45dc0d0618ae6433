package timeline

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ringCounts(l RingLayout) []int {
	out := make([]int, len(l.Rings))
	for i, r := range l.Rings {
		out[i] = r.Count
	}
	return out
}

func TestRingCapacity(t *testing.T) {
	var plain, hovered []int
	for k := 0; k < MaxRings; k++ {
		plain = append(plain, RingCapacity(k, false))
		hovered = append(hovered, RingCapacity(k, true))
	}

	assert.Equal(t, []int{3, 7, 12, 17, 22, 27, 32, 37}, plain)
	assert.Equal(t, []int{3, 8, 13, 18, 23, 28, 33, 38}, hovered)
}

func TestPackRings(t *testing.T) {
	tests := []struct {
		size    int
		hovered bool
		want    []int
	}{
		{2, false, []int{2}},
		{3, false, []int{3}},
		{5, false, []int{5}},
		{10, false, []int{3, 7}},
		{11, false, []int{3, 8}},
		{20, false, []int{3, 7, 10}},
		{20, true, []int{3, 8, 9}},
		{22, false, []int{3, 7, 12}},
		{40, false, []int{3, 7, 12, 18}},
		{40, true, []int{3, 8, 13, 16}},
		{157, false, []int{3, 7, 12, 17, 22, 27, 32, 37}},
		{157, true, []int{3, 8, 13, 18, 23, 28, 64}},
		{300, false, []int{3, 7, 12, 17, 22, 27, 32, 180}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/hovered=%v", tt.size, tt.hovered), func(t *testing.T) {
			assert.Equal(t, tt.want, ringCounts(PackRings(tt.size, tt.hovered)))
		})
	}
}

func TestPackRingsEmptyAndSingle(t *testing.T) {
	assert.Empty(t, PackRings(0, false).Rings)

	single := PackRings(1, false)
	require.Len(t, single.Rings, 1)
	assert.Equal(t, Point{}, single.Offset(0))
	assert.Equal(t, 0.0, single.Rings[0].Radius)
}

func TestPackRingsFiveNodesOnInnerRing(t *testing.T) {
	l := PackRings(5, false)

	require.Len(t, l.Rings, 1)
	assert.True(t, l.Rings[0].Overfull())
	for j, p := range l.Offsets() {
		angle := float64(j)/5*2*math.Pi - math.Pi/2
		assert.InDelta(t, 15*math.Cos(angle), p.X, 1e-9)
		assert.InDelta(t, 15*math.Sin(angle), p.Y, 1e-9)
	}
	assert.InDelta(t, 0.0, l.Offset(0).X, 1e-9)
	assert.InDelta(t, -15.0, l.Offset(0).Y, 1e-9)
}

func TestPackRingsInvariants(t *testing.T) {
	for _, hovered := range []bool{false, true} {
		prevRings := 0
		for size := 1; size <= 400; size++ {
			l := PackRings(size, hovered)

			sum := 0
			for k, r := range l.Rings {
				sum += r.Count
				assert.Equal(t, k, r.Index)
			}
			require.Equal(t, size, sum, "size %d", size)
			require.GreaterOrEqual(t, len(l.Rings), prevRings, "ring count shrank at size %d", size)
			require.LessOrEqual(t, len(l.Rings), MaxRings)
			prevRings = len(l.Rings)

			if len(l.Rings) > 1 {
				outer := l.Rings[len(l.Rings)-1]
				inner := l.Rings[len(l.Rings)-2]
				assert.Greater(t, outer.Count, inner.Count, "size %d", size)
			}
		}
	}
}

func TestPackRingsNodeSpacing(t *testing.T) {
	for _, size := range []int{2, 3, 7, 10, 20, 40, 90, 157} {
		l := PackRings(size, false)
		offsets := l.Offsets()
		for i := range offsets {
			ri, _ := l.RingOf(i)
			for j := i + 1; j < len(offsets); j++ {
				rj, _ := l.RingOf(j)
				if ri == rj && l.Rings[ri].Overfull() {
					continue
				}
				d := math.Hypot(offsets[i].X-offsets[j].X, offsets[i].Y-offsets[j].Y)
				assert.GreaterOrEqual(t, d+1e-9, NodeDiameter, "size %d nodes %d,%d", size, i, j)
			}
		}
	}
}

func TestRingOf(t *testing.T) {
	l := PackRings(10, false)

	ring, slot := l.RingOf(2)
	assert.Equal(t, 0, ring)
	assert.Equal(t, 2, slot)

	ring, slot = l.RingOf(3)
	assert.Equal(t, 1, ring)
	assert.Equal(t, 0, slot)

	ring, _ = l.RingOf(10)
	assert.Equal(t, -1, ring)
}

func TestHoveredRadiusIsLarger(t *testing.T) {
	assert.Equal(t, 20.0, PackRings(3, true).Rings[0].Radius)
	assert.Equal(t, 15.0, PackRings(3, false).Rings[0].Radius)
	assert.InDelta(t, 40.0+NodeDiameter/2, PackRings(10, false).Extent(), 1e-9)
}
