package editor

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camera-curve-editor/internal/actions"
	"camera-curve-editor/internal/chart"
	"camera-curve-editor/internal/mathutil"
	"camera-curve-editor/internal/screen"
)

func testScreen() screen.Linear {
	return screen.Linear{
		Min:       mathutil.Vec2{0, 0},
		Max:       mathutil.Vec2{200, 120},
		TickStart: 0,
		TickEnd:   200,
	}
}

func rampChart() *chart.Chart {
	c := &chart.Chart{}
	c.Camera.Cam.Body.Zoom = chart.Graph{{Y: 0, V: 0}, {Y: 100, V: 3}}
	c.Camera.Cam.Body.RotationX = chart.Graph{{Y: 0, V: 1}}
	return c
}

func newStack(c *chart.Chart) *actions.Stack[chart.Chart] {
	return actions.New(c, (*chart.Chart).Clone)
}

type recorder struct {
	pushed []actions.Action[chart.Chart]
	err    error
}

func (r *recorder) Push(a actions.Action[chart.Chart]) (actions.Entry, error) {
	r.pushed = append(r.pushed, a)
	return actions.Entry{Description: a.Description()}, r.err
}

func TestDragMidpoint(t *testing.T) {
	c := rampChart()
	s := newStack(c)
	scr := testScreen()
	tool := NewTool()

	// Default shape puts the handle at tick 50, value 1.5.
	require.True(t, tool.DragStart(scr, s.Current(), scr.ValuePos(50, 1.5, tool.ValueRange())))
	require.True(t, tool.Dragging())

	tool.Update(50, 4.5, s.Current())
	sess := tool.Session()
	require.NotNil(t, sess)
	assert.Equal(t, 0, sess.Segment)
	assert.InDelta(t, 0.5, sess.A, 1e-12)
	assert.InDelta(t, 0.5, sess.B, 1e-12)

	require.NoError(t, tool.DragEnd(s))
	assert.False(t, tool.Dragging())

	g := s.Current().Camera.Cam.Body.Zoom
	a, b := g[0].Shape()
	assert.InDelta(t, 0.5, a, 1e-12)
	assert.InDelta(t, 0.5, b, 1e-12)
	assert.Equal(t, "Edit curve for camera radius.", s.History()[0].Description)
}

func TestDragSkewsShape(t *testing.T) {
	c := rampChart()
	scr := testScreen()
	tool := NewTool()
	require.True(t, tool.DragStart(scr, c, scr.ValuePos(50, 1.5, tool.ValueRange())))

	tool.Update(25, 6, c)
	sess := tool.Session()
	assert.InDelta(t, 0.25, sess.A, 1e-12)
	assert.InDelta(t, 1, sess.B, 1e-12)

	rec := &recorder{}
	require.NoError(t, tool.DragEnd(rec))
	require.Len(t, rec.pushed, 1)
	assert.Equal(t, CommitCurveEdit{Path: PathRadius, Index: 0, A: 0.25, B: 1}, rec.pushed[0])
}

func TestUpdateSaturates(t *testing.T) {
	c := rampChart()
	scr := testScreen()
	tool := NewTool()
	require.True(t, tool.DragStart(scr, c, scr.ValuePos(50, 1.5, tool.ValueRange())))

	inputs := [][2]float64{
		{-1000, -50}, {1000, 50}, {50, -1}, {-3, 7},
		{math.Inf(1), math.Inf(-1)}, {math.NaN(), math.NaN()},
	}
	for _, in := range inputs {
		tool.Update(in[0], in[1], c)
		sess := tool.Session()
		assert.GreaterOrEqual(t, sess.A, 0.0, "a for %v", in)
		assert.LessOrEqual(t, sess.A, 1.0, "a for %v", in)
		assert.GreaterOrEqual(t, sess.B, 0.0, "b for %v", in)
		assert.LessOrEqual(t, sess.B, 1.0, "b for %v", in)
	}
}

func TestFlatSegmentSaturates(t *testing.T) {
	c := &chart.Chart{}
	c.Camera.Cam.Body.Zoom = chart.Graph{{Y: 0, V: 1}, {Y: 100, V: 1}}
	scr := testScreen()
	tool := NewTool()
	require.True(t, tool.DragStart(scr, c, scr.ValuePos(50, 1, tool.ValueRange())))

	tool.Update(50, 5, c)
	assert.Equal(t, 1.0, tool.Session().B)
	tool.Update(50, 1, c)
	assert.Equal(t, 0.0, tool.Session().B)
}

func TestHitOnExactHandle(t *testing.T) {
	c := &chart.Chart{}
	c.Camera.Cam.Body.Zoom = chart.Graph{
		{Y: 0, V: -3},
		{Y: 60, V: 2, A: chart.Float(0.2), B: chart.Float(0.9)},
		{Y: 140, V: -1},
	}
	scr := testScreen()
	tool := NewTool()

	for _, h := range tool.Handles(scr, c) {
		require.True(t, tool.DragStart(scr, c, h.Pos))
		assert.Equal(t, h.Segment, tool.Session().Segment)

		k0 := c.Camera.Cam.Body.Zoom[h.Segment]
		a, b := k0.Shape()
		assert.Equal(t, a, tool.Session().A)
		assert.Equal(t, b, tool.Session().B)
		tool.Cancel()
	}
}

func TestHitRadiusIsStrict(t *testing.T) {
	c := rampChart()
	scr := testScreen()
	tool := NewTool()
	h := scr.ValuePos(50, 1.5, tool.ValueRange())

	assert.False(t, tool.DragStart(scr, c, h.Add(mathutil.Vec2{5, 0})))
	assert.False(t, tool.Dragging())
	assert.True(t, tool.DragStart(scr, c, h.Add(mathutil.Vec2{4.9, 0})))
}

func TestOverlappingHandlesLastWins(t *testing.T) {
	c := &chart.Chart{}
	c.Camera.Cam.Body.Zoom = chart.Graph{{Y: 0, V: 0}, {Y: 2, V: 0}, {Y: 4, V: 0}}
	scr := screen.Linear{Max: mathutil.Vec2{200, 120}, TickEnd: 1000}
	tool := NewTool()

	// Handles at ticks 1 and 3 are 0.4 px apart.
	require.True(t, tool.DragStart(scr, c, scr.ValuePos(2, 0, tool.ValueRange())))
	assert.Equal(t, 1, tool.Session().Segment)
}

func TestDragStartMiss(t *testing.T) {
	c := rampChart()
	tool := NewTool()
	assert.False(t, tool.DragStart(testScreen(), c, mathutil.Vec2{190, 110}))
	assert.Nil(t, tool.Session())

	rec := &recorder{}
	require.NoError(t, tool.DragEnd(rec))
	assert.Empty(t, rec.pushed)
}

func TestDragEndClearsOnSinkError(t *testing.T) {
	c := rampChart()
	scr := testScreen()
	tool := NewTool()
	require.True(t, tool.DragStart(scr, c, scr.ValuePos(50, 1.5, tool.ValueRange())))

	rec := &recorder{err: errors.New("rejected")}
	assert.Error(t, tool.DragEnd(rec))
	assert.False(t, tool.Dragging())
}

func TestUpdateAfterSegmentRemoved(t *testing.T) {
	c := rampChart()
	scr := testScreen()
	tool := NewTool()
	require.True(t, tool.DragStart(scr, c, scr.ValuePos(50, 1.5, tool.ValueRange())))

	c.Camera.Cam.Body.Zoom = chart.Graph{}
	tool.Update(10, 1, c)
	assert.Equal(t, 0.5, tool.Session().A)

	s := newStack(c)
	before := c.Camera.Cam.Body.Zoom.Clone()
	require.NoError(t, tool.DragEnd(s))
	assert.Empty(t, cmp.Diff(before, s.Current().Camera.Cam.Body.Zoom))
}

func TestCommitMissingIndexIsNoop(t *testing.T) {
	c := rampChart()
	s := newStack(c)
	before := c.Clone()

	for _, idx := range []int{-1, 2, 50} {
		_, err := s.Push(CommitCurveEdit{Path: PathRadius, Index: idx, A: 0.1, B: 0.9})
		require.NoError(t, err)
	}
	assert.Empty(t, cmp.Diff(before.Camera.Cam.Body.Zoom, s.Current().Camera.Cam.Body.Zoom))
	assert.Empty(t, cmp.Diff(before.Camera.Cam.Body.RotationX, s.Current().Camera.Cam.Body.RotationX))
}

func TestSwitchingPathDropsDrag(t *testing.T) {
	c := rampChart()
	scr := testScreen()
	tool := NewTool()
	require.True(t, tool.DragStart(scr, c, scr.ValuePos(50, 1.5, tool.ValueRange())))

	tool.SetDisplayPath(PathAngle)
	assert.False(t, tool.Dragging())
	assert.Equal(t, PathAngle, tool.DisplayPath())
	assert.Empty(t, tool.Handles(scr, c))
}

func TestHandlesUseLiveShape(t *testing.T) {
	c := rampChart()
	scr := testScreen()
	tool := NewTool()
	require.True(t, tool.DragStart(scr, c, scr.ValuePos(50, 1.5, tool.ValueRange())))
	tool.Update(25, 6, c)

	hs := tool.Handles(scr, c)
	require.Len(t, hs, 1)
	assert.True(t, hs[0].Active)
	assert.InDelta(t, 25, hs[0].Pos[0], 1e-9)
	assert.InDelta(t, scr.ValuePos(0, 3, tool.ValueRange())[1], hs[0].Pos[1], 1e-9)

	seg, ok := tool.PreviewSegment(c)
	require.True(t, ok)
	a, b := seg[0].Shape()
	assert.Equal(t, 0.25, a)
	assert.Equal(t, 1.0, b)
	// The chart itself is untouched until release.
	assert.Nil(t, c.Camera.Cam.Body.Zoom[0].A)
}

func TestAddControlPointRadiusOnly(t *testing.T) {
	c := rampChart()
	s := newStack(c)
	tool := NewTool()
	tool.Sync(s.Current(), 40)

	tool.SetRadius(-1)
	assert.True(t, tool.RadiusDirty())
	assert.False(t, tool.AngleDirty())

	angleBefore := s.Current().Camera.Cam.Body.RotationX.Clone()
	require.NoError(t, tool.AddControlPoint(s, 40))

	want := chart.Graph{
		{Y: 0, V: 0},
		{Y: 40, V: -1, A: chart.Float(0.5), B: chart.Float(0.5)},
		{Y: 100, V: 3},
	}
	assert.Empty(t, cmp.Diff(want, s.Current().Camera.Cam.Body.Zoom))
	assert.Empty(t, cmp.Diff(angleBefore, s.Current().Camera.Cam.Body.RotationX))
	assert.False(t, tool.RadiusDirty())
	assert.False(t, tool.AngleDirty())
	assert.Equal(t, "Added camera control point.", s.History()[0].Description)
	assert.NoError(t, s.Current().Validate())
}

func TestAddControlPointNothingDirty(t *testing.T) {
	rec := &recorder{}
	tool := NewTool()
	tool.Sync(rampChart(), 40)
	require.NoError(t, tool.AddControlPoint(rec, 40))
	assert.Empty(t, rec.pushed)
}

func TestSliderDirtyTracking(t *testing.T) {
	c := rampChart()
	tool := NewTool()
	tool.Sync(c, 50)
	assert.InDelta(t, 1.5, tool.Radius(), 1e-6)
	assert.Equal(t, float32(1), tool.Angle())

	tool.SetRadius(tool.Radius())
	assert.False(t, tool.RadiusDirty())

	tool.SetAngle(2)
	assert.True(t, tool.AngleDirty())

	// A dirty slider keeps its value across cursor moves.
	tool.Sync(c, 0)
	assert.Equal(t, float32(2), tool.Angle())
	assert.Equal(t, float32(0), tool.Radius())

	tool.SetAngle(10)
	assert.Equal(t, float32(3), tool.Angle())
}

func TestPoseFollowsSliders(t *testing.T) {
	tool := NewTool()
	tool.SetRadius(1)
	tool.SetAngle(-1)
	p := tool.Pose()
	assert.InDelta(t, 1.05, p.Radius, 1e-6)
	assert.InDelta(t, -31, p.Angle, 1e-6)
}

func TestDuplicateTickPolicyDeterministic(t *testing.T) {
	var first chart.Graph
	for run := 0; run < 20; run++ {
		c := rampChart()
		s := newStack(c)
		_, err := s.Push(AddControlPoint{Keyframes: []AddKeyframe{
			{Path: PathRadius, Tick: 10, Value: 1},
			{Path: PathRadius, Tick: 10, Value: 2},
		}})
		require.NoError(t, err)

		g := s.Current().Camera.Cam.Body.Zoom
		require.NoError(t, g.Validate())
		if run == 0 {
			first = g
			continue
		}
		assert.Empty(t, cmp.Diff(first, g))
	}
	require.Len(t, first, 3)
	assert.Equal(t, 2.0, first[1].V)
}

func TestTicksStayIncreasing(t *testing.T) {
	c := rampChart()
	s := newStack(c)
	for _, tick := range []uint32{70, 5, 100, 0, 33, 70} {
		_, err := s.Push(AddControlPoint{Keyframes: []AddKeyframe{
			{Path: PathRadius, Tick: tick, Value: 0.5},
			{Path: PathAngle, Tick: tick, Value: -0.5},
		}})
		require.NoError(t, err)
		require.NoError(t, s.Current().Validate())
	}
	assert.Len(t, s.Current().Camera.Cam.Body.Zoom, 5)
}

func TestPathNames(t *testing.T) {
	assert.Equal(t, "Radius", PathRadius.String())
	assert.Equal(t, "angle", PathAngle.Noun())
	assert.Equal(t, PathAngle, PathRadius.Next())
	assert.Nil(t, Path(7).Field(&chart.Chart{}))
	assert.Equal(t, "Edit curve for camera angle.", CommitCurveEdit{Path: PathAngle}.Description())
}

func TestSliderRejectsNaN(t *testing.T) {
	tool := NewTool()
	tool.SetRadius(float32(math.NaN()))
	assert.Equal(t, float32(-3), tool.Radius())
	assert.True(t, tool.RadiusDirty())

	tool.SetAngle(float32(math.Inf(1)))
	assert.Equal(t, float32(3), tool.Angle())
}
