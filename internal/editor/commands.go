package editor

import (
	"fmt"

	"camera-curve-editor/internal/actions"
	"camera-curve-editor/internal/chart"
	"camera-curve-editor/internal/curve"
)

// Command is a pure description of a chart mutation. Commands are applied
// by the action stack; the editor never touches the chart directly.
type Command interface {
	actions.Action[chart.Chart]
	command()
}

// Sink receives commands, usually an *actions.Stack[chart.Chart].
type Sink interface {
	Push(a actions.Action[chart.Chart]) (actions.Entry, error)
}

// CommitCurveEdit sets the ease shape of the keyframe at Index on Path.
type CommitCurveEdit struct {
	Path  Path
	Index int
	A, B  float64
}

func (CommitCurveEdit) command() {}

func (c CommitCurveEdit) Description() string {
	return fmt.Sprintf("Edit curve for camera %s.", c.Path.Noun())
}

// Apply is a no-op when the keyframe no longer exists, so an edit racing
// a structural change never fails the transaction.
func (c CommitCurveEdit) Apply(doc *chart.Chart) error {
	g := c.Path.Field(doc)
	if g == nil || c.Index < 0 || c.Index >= len(*g) {
		return nil
	}
	(*g)[c.Index].A = chart.Float(c.A)
	(*g)[c.Index].B = chart.Float(c.B)
	return nil
}

// AddKeyframe is one keyframe of an AddControlPoint command.
type AddKeyframe struct {
	Path  Path
	Tick  uint32
	Value float64
}

// AddControlPoint appends keyframes with the default shape and re-sorts
// every touched track.
type AddControlPoint struct {
	Keyframes []AddKeyframe
}

func (AddControlPoint) command() {}

func (AddControlPoint) Description() string {
	return "Added camera control point."
}

func (c AddControlPoint) Apply(doc *chart.Chart) error {
	touched := map[Path]bool{}
	for _, k := range c.Keyframes {
		g := k.Path.Field(doc)
		if g == nil {
			continue
		}
		*g = append(*g, chart.GraphPoint{
			Y: k.Tick,
			V: k.Value,
			A: chart.Float(curve.DefaultA),
			B: chart.Float(curve.DefaultB),
		})
		touched[k.Path] = true
	}
	for _, p := range Paths() {
		if touched[p] {
			p.Field(doc).Normalize()
		}
	}
	return nil
}
