package timeline

import (
	"fmt"
	"math"
	"sort"
)

// Granularity is the calendar period entries are grouped by.
type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityWeek
	GranularityMonth
	GranularityYear
)

func (g Granularity) String() string {
	switch g {
	case GranularityDay:
		return "day"
	case GranularityWeek:
		return "week"
	case GranularityMonth:
		return "month"
	default:
		return "year"
	}
}

// MarshalText renders the granularity name in JSON.
func (g Granularity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g Granularity) prefix() string {
	switch g {
	case GranularityDay:
		return "d"
	case GranularityWeek:
		return "w"
	case GranularityMonth:
		return "m"
	default:
		return "y"
	}
}

// Regime is one row of the zoom policy table.
type Regime struct {
	ZoomFloor   float64     `json:"-"`
	Granularity Granularity `json:"granularity"`
	Subdivide   bool        `json:"subdivide"`
	Multiplier  float64     `json:"multiplier"`
}

// Regimes is ordered from the closest zoom outwards; the first row whose
// floor does not exceed the zoom applies. Week and month sub-buckets are
// doubled relative to year.
var Regimes = []Regime{
	{ZoomFloor: 2.0, Granularity: GranularityDay},
	{ZoomFloor: 1.0, Granularity: GranularityWeek, Subdivide: true, Multiplier: 2},
	{ZoomFloor: 0.5, Granularity: GranularityMonth, Subdivide: true, Multiplier: 2},
	{ZoomFloor: math.Inf(-1), Granularity: GranularityYear, Subdivide: true, Multiplier: 1},
}

// RegimeFor selects the policy row for zoom.
func RegimeFor(zoom float64) Regime {
	for _, r := range Regimes {
		if zoom >= r.ZoomFloor {
			return r
		}
	}
	return Regimes[len(Regimes)-1]
}

// BucketCount is the target number of buckets across the full axis at zoom.
func BucketCount(zoom float64) int {
	z := clamp(zoom, 0, 5)
	base := math.Round(1 + 6*math.Log2(1+z) + 2*math.Sqrt(z))
	switch {
	case zoom >= 2.7 && zoom < 3.0:
		return int(math.Max(80, math.Min(80, base)))
	case zoom >= 2.3 && zoom < 2.7:
		return int(math.Max(30, math.Min(60, base)))
	default:
		return int(math.Max(1, math.Min(40, base)))
	}
}

// Cluster groups entries drawn as one pinwheel.
type Cluster struct {
	ID      string            `json:"id"`
	Key     string            `json:"key"`
	Center  float64           `json:"center"`
	Lo      float64           `json:"lo"`
	Hi      float64           `json:"hi"`
	Members []PositionedEntry `json:"members"`
}

// Size is the number of members.
func (c Cluster) Size() int {
	return len(c.Members)
}

// Bucket groups positioned entries into clusters for zoom. Every entry lands
// in exactly one cluster. Clusters are ordered by center, then ID.
func Bucket(entries []PositionedEntry, zoom float64) []Cluster {
	if len(entries) == 0 {
		return nil
	}
	sorted := make([]PositionedEntry, len(entries))
	copy(sorted, entries)
	sortPositioned(sorted)

	regime := RegimeFor(zoom)
	groups, order := groupByPeriod(sorted, regime.Granularity)

	var clusters []Cluster
	for _, key := range order {
		members := groups[key]
		if !regime.Subdivide {
			clusters = append(clusters, newCluster(regime.Granularity.prefix()+":"+key, key, members))
			continue
		}
		clusters = append(clusters, subdivide(key, members, regime, zoom)...)
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].Center != clusters[j].Center {
			return clusters[i].Center < clusters[j].Center
		}
		return clusters[i].ID < clusters[j].ID
	})
	return clusters
}

func groupByPeriod(entries []PositionedEntry, g Granularity) (map[string][]PositionedEntry, []string) {
	groups := make(map[string][]PositionedEntry)
	var order []string
	for _, e := range entries {
		key := PeriodKey(e, g)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}
	return groups, order
}

// PeriodKey is the calendar period of e at granularity g. Weeks follow ISO
// 8601 numbering.
func PeriodKey(e PositionedEntry, g Granularity) string {
	switch g {
	case GranularityDay:
		return e.Date.Format("2006-01-02")
	case GranularityWeek:
		year, week := e.Date.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GranularityMonth:
		return e.Date.Format("2006-01")
	default:
		return e.Date.Format("2006")
	}
}

func subdivide(key string, members []PositionedEntry, regime Regime, zoom float64) []Cluster {
	id := func(i int) string {
		return fmt.Sprintf("%s:%s/%d", regime.Granularity.prefix(), key, i)
	}

	lo, hi := members[0].Position, members[0].Position
	for _, m := range members[1:] {
		lo = math.Min(lo, m.Position)
		hi = math.Max(hi, m.Position)
	}
	span := hi - lo
	if span == 0 {
		return []Cluster{newCluster(id(0), key, members)}
	}

	n := int(math.Floor(float64(BucketCount(zoom)) * (span / 100) * regime.Multiplier))
	if n < 1 {
		n = 1
	}

	buckets := make([][]PositionedEntry, n)
	for _, m := range members {
		idx := int(math.Floor((m.Position - lo) / span * float64(n)))
		if idx > n-1 {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		buckets[idx] = append(buckets[idx], m)
	}

	width := span / float64(n)
	var clusters []Cluster
	for i, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		c := newCluster(id(i), key, bucket)
		edgeHi := lo + float64(i+1)*width
		if i == n-1 {
			edgeHi = hi
		}
		c.Lo = math.Min(c.Lo, lo+float64(i)*width)
		c.Hi = math.Max(c.Hi, edgeHi)
		c.Center = clamp(c.Center, lo, hi)
		clusters = append(clusters, c)
	}
	return clusters
}

func newCluster(id, key string, members []PositionedEntry) Cluster {
	sum := 0.0
	lo, hi := members[0].Position, members[0].Position
	for _, m := range members {
		sum += m.Position
		lo = math.Min(lo, m.Position)
		hi = math.Max(hi, m.Position)
	}
	return Cluster{
		ID:      id,
		Key:     key,
		Center:  clamp(sum/float64(len(members)), lo, hi),
		Lo:      lo,
		Hi:      hi,
		Members: members,
	}
}
