// Package screen maps chart coordinates (tick, value) onto a flat 2D
// graph area and back. It is the default control point locator the editor
// hit-tests against.
package screen

import (
	"camera-curve-editor/internal/chart"
	"camera-curve-editor/internal/curve"
	"camera-curve-editor/internal/mathutil"
)

// Linear lays ticks out left to right and lanes bottom to top inside Rect.
type Linear struct {
	Min, Max  mathutil.Vec2
	TickStart float64
	TickEnd   float64
}

const eps = 1e-9

// TickToX returns the x coordinate of a tick.
func (l Linear) TickToX(tick float64) float64 {
	f := mathutil.SafeDiv(tick-l.TickStart, l.TickEnd-l.TickStart, eps)
	return l.Min[0] + f*(l.Max[0]-l.Min[0])
}

// LaneToY returns the y coordinate of a lane position (0 at the bottom).
func (l Linear) LaneToY(lane float64) float64 {
	f := lane / curve.Lanes
	return l.Max[1] - f*(l.Max[1]-l.Min[1])
}

// ValuePos returns the screen position of a track value at a tick.
func (l Linear) ValuePos(tick, value float64, vr curve.ValueRange) mathutil.Vec2 {
	return mathutil.Vec2{l.TickToX(tick), l.LaneToY(vr.Normalize(value) * curve.Lanes)}
}

// Pointer maps a screen position back to a fractional tick and lane.
func (l Linear) Pointer(pos mathutil.Vec2) (tick, lane float64) {
	fx := mathutil.SafeDiv(pos[0]-l.Min[0], l.Max[0]-l.Min[0], eps)
	fy := mathutil.SafeDiv(l.Max[1]-pos[1], l.Max[1]-l.Min[1], eps)
	return l.TickStart + fx*(l.TickEnd-l.TickStart), fy * curve.Lanes
}

// Visible reports whether tick falls inside the mapped window.
func (l Linear) Visible(tick float64) bool {
	return tick >= l.TickStart && tick <= l.TickEnd
}

// ControlPointPos returns where the handle of segment (k0, k1) is drawn.
// The handle sits at the shape's control point: A along the segment's
// time span and B along its value span. Segments with no time span or a
// handle outside the window have no handle.
func (l Linear) ControlPointPos(k0, k1 chart.GraphPoint, vr curve.ValueRange) (mathutil.Vec2, bool) {
	if k1.Y <= k0.Y {
		return mathutil.Vec2{}, false
	}
	a, b := k0.Shape()
	p := curve.Point(a, b)

	tick := float64(k0.Y) + p[0]*float64(k1.Y-k0.Y)
	if !l.Visible(tick) {
		return mathutil.Vec2{}, false
	}
	start := k0.StartValue()
	value := start + p[1]*(k1.V-start)
	return l.ValuePos(tick, value, vr), true
}
