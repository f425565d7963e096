package chart

import (
	"fmt"
	"sort"

	"camera-curve-editor/internal/curve"
	"camera-curve-editor/internal/mathutil"
)

// GraphPoint is one keyframe of a camera track.
//
// VF, when set, makes the segment starting here ease from VF instead of V,
// producing a jump at Y. A and B are the segment's ease shape.
type GraphPoint struct {
	Y  uint32   `json:"y"`
	V  float64  `json:"v"`
	VF *float64 `json:"vf,omitempty"`
	A  *float64 `json:"a,omitempty"`
	B  *float64 `json:"b,omitempty"`
}

// StartValue is the value the segment beginning at p eases from.
func (p GraphPoint) StartValue() float64 {
	if p.VF != nil {
		return *p.VF
	}
	return p.V
}

// Shape returns the ease parameters, defaulting absent ones.
func (p GraphPoint) Shape() (a, b float64) {
	a, b = curve.DefaultA, curve.DefaultB
	if p.A != nil {
		a = *p.A
	}
	if p.B != nil {
		b = *p.B
	}
	return a, b
}

func (p GraphPoint) clone() GraphPoint {
	return GraphPoint{Y: p.Y, V: p.V, VF: clonePtr(p.VF), A: clonePtr(p.A), B: clonePtr(p.B)}
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Float returns a pointer to v, for optional keyframe fields.
func Float(v float64) *float64 {
	return &v
}

// Graph is a keyframe track ordered by strictly increasing Y.
type Graph []GraphPoint

// SegmentCount returns the number of curve segments (adjacent pairs).
func (g Graph) SegmentCount() int {
	if len(g) < 2 {
		return 0
	}
	return len(g) - 1
}

// Segment returns the keyframes bounding segment i.
func (g Graph) Segment(i int) (k0, k1 GraphPoint, ok bool) {
	if i < 0 || i >= g.SegmentCount() {
		return GraphPoint{}, GraphPoint{}, false
	}
	return g[i], g[i+1], true
}

// ValueAt evaluates the track at a fractional tick. Before the first
// keyframe the first value holds; after the last the last start value holds.
// An empty track evaluates to 0.
func (g Graph) ValueAt(tick float64) float64 {
	if len(g) == 0 {
		return 0
	}
	if tick < float64(g[0].Y) {
		return g[0].V
	}

	// First keyframe strictly after tick.
	next := sort.Search(len(g), func(i int) bool {
		return float64(g[i].Y) > tick
	})
	if next >= len(g) {
		return g[len(g)-1].StartValue()
	}

	k0, k1 := g[next-1], g[next]
	start := k0.StartValue()
	x := mathutil.SafeDiv(tick-float64(k0.Y), float64(k1.Y)-float64(k0.Y), 1e-9)
	a, b := k0.Shape()
	return start + (k1.V-start)*curve.Ease(x, a, b)
}

// Normalize sorts keyframes by tick and collapses keyframes sharing a tick,
// keeping the one that appears last. The sort is stable, so the keyframe
// appended most recently wins.
func (g *Graph) Normalize() {
	pts := *g
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Y < pts[j].Y })

	out := pts[:0]
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1].Y == p.Y {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	*g = out
}

// Validate reports the first pair of keyframes breaking strict tick order.
func (g Graph) Validate() error {
	for i := 1; i < len(g); i++ {
		if g[i].Y <= g[i-1].Y {
			return fmt.Errorf("chart: keyframe %d at tick %d does not follow tick %d", i, g[i].Y, g[i-1].Y)
		}
	}
	return nil
}

// Clone returns a deep copy of the track.
func (g Graph) Clone() Graph {
	if g == nil {
		return nil
	}
	out := make(Graph, len(g))
	for i, p := range g {
		out[i] = p.clone()
	}
	return out
}
