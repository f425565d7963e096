// Package editor implements the camera tool: the ease-curve drag session on
// the displayed track and the radius/angle sliders that add control points.
//
// The tool holds only transient state. Every chart change leaves it as a
// Command handed to a Sink.
package editor

import (
	"math"

	"github.com/rs/zerolog"

	"camera-curve-editor/internal/camera"
	"camera-curve-editor/internal/chart"
	"camera-curve-editor/internal/curve"
	"camera-curve-editor/internal/mathutil"
)

// DefaultHitRadius is the pick distance around a control handle in pixels.
const DefaultHitRadius = 5.0

// sliderEpsilon is the float32 machine epsilon. Slider moves smaller than
// this do not mark a track dirty.
const sliderEpsilon = 1.1920929e-07

const divEps = 1e-9

// ControlPointLocator reports where the handle of a segment is drawn.
type ControlPointLocator interface {
	ControlPointPos(k0, k1 chart.GraphPoint, vr curve.ValueRange) (mathutil.Vec2, bool)
}

// Session is an in-progress handle drag. Segment is fixed for its lifetime.
type Session struct {
	Segment int
	A, B    float64
}

// Handle is a drawable control handle.
type Handle struct {
	Segment int
	Pos     mathutil.Vec2
	Active  bool
}

// Tool is the camera tool state.
type Tool struct {
	display   Path
	session   *Session
	hitRadius float64
	values    curve.ValueRange
	log       zerolog.Logger

	radius, angle           float32
	radiusDirty, angleDirty bool
}

// Option configures a Tool.
type Option func(*Tool)

// WithHitRadius overrides DefaultHitRadius.
func WithHitRadius(r float64) Option {
	return func(t *Tool) { t.hitRadius = r }
}

// WithValueRange overrides the value range tracks are drawn across.
func WithValueRange(vr curve.ValueRange) Option {
	return func(t *Tool) { t.values = vr }
}

// WithLogger sets the tool's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Tool) { t.log = l }
}

// NewTool returns an idle tool displaying the radius track.
func NewTool(opts ...Option) *Tool {
	t := &Tool{
		display:   PathRadius,
		hitRadius: DefaultHitRadius,
		values:    curve.DefaultRange,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// DisplayPath returns the track being shown and edited.
func (t *Tool) DisplayPath() Path { return t.display }

// SetDisplayPath switches the edited track. A drag in progress is dropped
// without a commit since its segment index belongs to the other track.
func (t *Tool) SetDisplayPath(p Path) {
	if p != t.display {
		t.session = nil
	}
	t.display = p
}

// ValueRange returns the range tracks are drawn across.
func (t *Tool) ValueRange() curve.ValueRange { return t.values }

// Graph returns the displayed track of c.
func (t *Tool) Graph(c *chart.Chart) chart.Graph {
	if g := t.display.Field(c); g != nil {
		return *g
	}
	return nil
}

// Session returns a copy of the active drag, or nil when idle.
func (t *Tool) Session() *Session {
	if t.session == nil {
		return nil
	}
	s := *t.session
	return &s
}

// Dragging reports whether a handle drag is in progress.
func (t *Tool) Dragging() bool { return t.session != nil }

// DragStart hit-tests pos against every handle of the displayed track and
// starts a drag on the match. When handles overlap the last segment wins.
func (t *Tool) DragStart(loc ControlPointLocator, c *chart.Chart, pos mathutil.Vec2) bool {
	g := t.Graph(c)
	var hit *Session
	for i := 0; i < g.SegmentCount(); i++ {
		k0, k1, _ := g.Segment(i)
		hp, ok := loc.ControlPointPos(k0, k1, t.values)
		if !ok || hp.Dist(pos) >= t.hitRadius {
			continue
		}
		a, b := k0.Shape()
		hit = &Session{Segment: i, A: a, B: b}
	}
	if hit == nil {
		return false
	}
	t.session = hit
	t.log.Debug().Str("path", t.display.Noun()).Int("segment", hit.Segment).Msg("curve drag start")
	return true
}

// Update moves the active handle to the pointer at a fractional tick and
// lane. Both shape parameters saturate into [0,1].
func (t *Tool) Update(tick, lane float64, c *chart.Chart) {
	if t.session == nil {
		return
	}
	k0, k1, ok := t.Graph(c).Segment(t.session.Segment)
	if !ok {
		return
	}

	t.session.A = mathutil.Clamp01(mathutil.SafeDiv(tick-float64(k0.Y), float64(k1.Y)-float64(k0.Y), divEps))

	start := t.values.Normalize(k0.StartValue())
	end := t.values.Normalize(k1.V)
	t.session.B = mathutil.Clamp01(mathutil.SafeDiv(lane/curve.Lanes-start, end-start, divEps))
}

// DragEnd commits the active drag and returns to idle. The session is
// cleared even when the sink rejects the command.
func (t *Tool) DragEnd(sink Sink) error {
	s := t.session
	t.session = nil
	if s == nil {
		return nil
	}
	cmd := CommitCurveEdit{Path: t.display, Index: s.Segment, A: s.A, B: s.B}
	t.log.Debug().Str("path", t.display.Noun()).Int("segment", s.Segment).
		Float64("a", s.A).Float64("b", s.B).Msg("curve drag end")
	_, err := sink.Push(cmd)
	return err
}

// Cancel drops the active drag without committing.
func (t *Tool) Cancel() {
	t.session = nil
}

// Handles returns the handle of every segment of the displayed track that
// is on screen. The dragged segment uses its live shape.
func (t *Tool) Handles(loc ControlPointLocator, c *chart.Chart) []Handle {
	g := t.Graph(c)
	var out []Handle
	for i := 0; i < g.SegmentCount(); i++ {
		k0, k1, _ := g.Segment(i)
		active := t.session != nil && t.session.Segment == i
		if active {
			k0.A = chart.Float(t.session.A)
			k0.B = chart.Float(t.session.B)
		}
		pos, ok := loc.ControlPointPos(k0, k1, t.values)
		if !ok {
			continue
		}
		out = append(out, Handle{Segment: i, Pos: pos, Active: active})
	}
	return out
}

// PreviewSegment returns the dragged segment's keyframes with the live
// shape applied to k0, for drawing the provisional curve.
func (t *Tool) PreviewSegment(c *chart.Chart) (chart.Graph, bool) {
	if t.session == nil {
		return nil, false
	}
	k0, k1, ok := t.Graph(c).Segment(t.session.Segment)
	if !ok {
		return nil, false
	}
	k0.A = chart.Float(t.session.A)
	k0.B = chart.Float(t.session.B)
	return chart.Graph{k0, k1}, true
}

// Sync loads each clean slider from its track evaluated at the cursor.
func (t *Tool) Sync(c *chart.Chart, cursorTick float64) {
	if !t.radiusDirty {
		t.radius = float32(c.Camera.Cam.Body.Zoom.ValueAt(cursorTick))
	}
	if !t.angleDirty {
		t.angle = float32(c.Camera.Cam.Body.RotationX.ValueAt(cursorTick))
	}
}

// Radius returns the radius slider value.
func (t *Tool) Radius() float32 { return t.radius }

// Angle returns the angle slider value.
func (t *Tool) Angle() float32 { return t.angle }

// RadiusDirty reports whether the radius slider moved off its track value.
func (t *Tool) RadiusDirty() bool { return t.radiusDirty }

// AngleDirty reports whether the angle slider moved off its track value.
func (t *Tool) AngleDirty() bool { return t.angleDirty }

// SetRadius moves the radius slider.
func (t *Tool) SetRadius(v float32) {
	v = clampSlider(v, t.values)
	if math.Abs(float64(t.radius-v)) > sliderEpsilon {
		t.radiusDirty = true
	}
	t.radius = v
}

// SetAngle moves the angle slider.
func (t *Tool) SetAngle(v float32) {
	v = clampSlider(v, t.values)
	if math.Abs(float64(t.angle-v)) > sliderEpsilon {
		t.angleDirty = true
	}
	t.angle = v
}

func clampSlider(v float32, vr curve.ValueRange) float32 {
	lo, hi := float32(vr.Min), float32(vr.Max)
	if math.IsNaN(float64(v)) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Pose is the preview camera for the current slider values.
func (t *Tool) Pose() camera.Pose {
	return camera.Build(t.radius, t.angle)
}

// AddControlPoint emits keyframes at tick for every dirty slider and
// clears both dirty flags. Nothing is emitted when no slider is dirty.
func (t *Tool) AddControlPoint(sink Sink, tick uint32) error {
	var cmd AddControlPoint
	if t.angleDirty {
		cmd.Keyframes = append(cmd.Keyframes, AddKeyframe{Path: PathAngle, Tick: tick, Value: float64(t.angle)})
	}
	if t.radiusDirty {
		cmd.Keyframes = append(cmd.Keyframes, AddKeyframe{Path: PathRadius, Tick: tick, Value: float64(t.radius)})
	}
	t.radiusDirty = false
	t.angleDirty = false

	if len(cmd.Keyframes) == 0 {
		return nil
	}
	t.log.Debug().Uint32("tick", tick).Int("keyframes", len(cmd.Keyframes)).Msg("add control point")
	_, err := sink.Push(cmd)
	return err
}
