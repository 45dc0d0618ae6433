package timeline

import "math"

// Ring packer geometry, in pixels.
const (
	NodeDiameter    = 24.0
	NodeGap         = 8.0
	NodeSpacing     = NodeDiameter + NodeGap
	BaseRadius      = 15.0
	HoverBaseRadius = 20.0
	RadiusStep      = 25.0
	MaxRings        = 8
	MinFillRatio    = 0.4
)

// Point is an offset from a cluster center.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Ring is one concentric circle of a pinwheel.
type Ring struct {
	Index    int     `json:"index"`
	Radius   float64 `json:"radius"`
	Capacity int     `json:"capacity"`
	Count    int     `json:"count"`
}

// Overfull reports whether more entries sit on the ring than its
// circumference spaces at NodeSpacing.
func (r Ring) Overfull() bool {
	return r.Count > r.Capacity
}

// RingLayout places the members of one cluster.
type RingLayout struct {
	Rings   []Ring `json:"rings"`
	Hovered bool   `json:"hovered"`
	Size    int    `json:"size"`
}

// RingRadius is the radius of ring k.
func RingRadius(k int, hovered bool) float64 {
	base := BaseRadius
	if hovered {
		base = HoverBaseRadius
	}
	return base + float64(k)*RadiusStep
}

// RingCapacity is how many nodes fit around ring k at NodeSpacing, never
// fewer than three.
func RingCapacity(k int, hovered bool) int {
	c := int(math.Floor(2 * math.Pi * RingRadius(k, hovered) / NodeSpacing))
	if c < 3 {
		return 3
	}
	return c
}

// PackRings distributes size nodes over concentric rings. It starts from
// the fewest rings whose combined capacity holds every node, then drops the
// outer ring while it is under MinFillRatio full or holds no more than the
// ring inside it. Nodes that no longer fit go to the outermost ring.
func PackRings(size int, hovered bool) RingLayout {
	layout := RingLayout{Hovered: hovered, Size: size}
	if size <= 0 {
		return layout
	}
	if size == 1 {
		layout.Rings = []Ring{{Index: 0, Radius: 0, Capacity: 1, Count: 1}}
		return layout
	}

	rings := MaxRings
	total := 0
	for k := 0; k < MaxRings; k++ {
		total += RingCapacity(k, hovered)
		if total >= size {
			rings = k + 1
			break
		}
	}

	layout.Rings = fillRings(size, rings, hovered)
	for len(layout.Rings) > 1 {
		outer := layout.Rings[len(layout.Rings)-1]
		inner := layout.Rings[len(layout.Rings)-2]
		if float64(outer.Count) >= MinFillRatio*float64(outer.Capacity) && outer.Count > inner.Count {
			break
		}
		layout.Rings = fillRings(size, len(layout.Rings)-1, hovered)
	}
	return layout
}

func fillRings(size, rings int, hovered bool) []Ring {
	out := make([]Ring, rings)
	remaining := size
	for k := 0; k < rings; k++ {
		capacity := RingCapacity(k, hovered)
		n := remaining
		if k < rings-1 && n > capacity {
			n = capacity
		}
		out[k] = Ring{Index: k, Radius: RingRadius(k, hovered), Capacity: capacity, Count: n}
		remaining -= n
	}
	return out
}

// RingOf returns the ring index and the slot within it for node i.
func (l RingLayout) RingOf(i int) (ring, slot int) {
	for _, r := range l.Rings {
		if i < r.Count {
			return r.Index, i
		}
		i -= r.Count
	}
	return -1, -1
}

// Offset returns the position of node i relative to the cluster center. A
// single node sits on the center. Slot j of n starts at the top and runs
// clockwise in screen coordinates.
func (l RingLayout) Offset(i int) Point {
	ring, slot := l.RingOf(i)
	if ring < 0 || l.Size == 1 {
		return Point{}
	}
	r := l.Rings[ring]
	angle := float64(slot)/float64(r.Count)*2*math.Pi - math.Pi/2
	return Point{X: math.Cos(angle) * r.Radius, Y: math.Sin(angle) * r.Radius}
}

// Offsets returns every node offset in order.
func (l RingLayout) Offsets() []Point {
	out := make([]Point, l.Size)
	for i := range out {
		out[i] = l.Offset(i)
	}
	return out
}

// Extent is the radius enclosing every node, including the node itself.
func (l RingLayout) Extent() float64 {
	if len(l.Rings) == 0 {
		return 0
	}
	return l.Rings[len(l.Rings)-1].Radius + NodeDiameter/2
}
