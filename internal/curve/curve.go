// Package curve evaluates the two-knob ease shape used between keyframes.
//
// A segment is a quadratic Bézier in normalized segment space running from
// (0,0) to (1,1) with its control point at (a, b). The handle users drag is
// that control point, so a is a time skew and b a value skew. The curve is
// monotonic in x for every a, b in [0,1].
package curve

import (
	"math"

	"camera-curve-editor/internal/mathutil"
)

// DefaultA and DefaultB are used when a keyframe carries no shape.
const (
	DefaultA = 0.5
	DefaultB = 0.5
)

// Ease maps a time fraction x in [0,1] to a value fraction for the shape
// (a, b). Inputs are clamped; a = b = 0.5 is linear.
func Ease(x, a, b float64) float64 {
	x = mathutil.Clamp01(x)
	a = mathutil.Clamp01(a)
	b = mathutil.Clamp01(b)

	t := solveT(x, a)
	return 2*(1-t)*t*b + t*t
}

// solveT inverts x(t) = 2(1-t)t·a + t² for t in [0,1].
func solveT(x, a float64) float64 {
	k := 1 - 2*a
	if math.Abs(k) < 1e-9 {
		return x
	}
	disc := a*a + k*x
	if disc < 0 {
		disc = 0
	}
	return mathutil.Clamp01((math.Sqrt(disc) - a) / k)
}

// Point returns the normalized position of the control handle for (a, b).
func Point(a, b float64) mathutil.Vec2 {
	return mathutil.Vec2{mathutil.Clamp01(a), mathutil.Clamp01(b)}
}

// Lanes is the height of the chart's lane space that pointer positions
// are reported in.
const Lanes = 6.0

// ValueRange is the span of track values drawn across the lane space.
type ValueRange struct {
	Min, Max float64
}

// DefaultRange is the author-facing range of both camera tracks.
var DefaultRange = ValueRange{Min: -3, Max: 3}

// Normalize maps v into [0,1] across the range (unclamped).
func (r ValueRange) Normalize(v float64) float64 {
	return mathutil.SafeDiv(v-r.Min, r.Max-r.Min, 1e-12)
}

// Denormalize is the inverse of Normalize.
func (r ValueRange) Denormalize(n float64) float64 {
	return r.Min + n*(r.Max-r.Min)
}
