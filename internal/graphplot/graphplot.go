// Package graphplot exports the camera tracks as a chart image: both tracks
// sampled through their ease curves, their keyframes, and the control
// handles of the track being edited.
package graphplot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"camera-curve-editor/internal/chart"
	"camera-curve-editor/internal/editor"
	"camera-curve-editor/internal/mathutil"
	"camera-curve-editor/internal/screen"
)

// DefaultSamples is the number of points each curve is sampled at.
const DefaultSamples = 400

var (
	trackColors = map[editor.Path]color.RGBA{
		editor.PathRadius: {R: 30, G: 120, B: 220, A: 255},
		editor.PathAngle:  {R: 230, G: 120, B: 20, A: 255},
	}
	handleColor = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	activeColor = color.RGBA{R: 220, G: 20, B: 60, A: 255}
)

// Options controls an export.
type Options struct {
	Title   string
	Samples int
	Width   vg.Length
	Height  vg.Length
	// Tool, when set, supplies the edited track and any live drag.
	Tool *editor.Tool
}

// Plot builds the plot for c.
func Plot(c *chart.Chart, opts Options) (*plot.Plot, error) {
	if opts.Samples < 2 {
		opts.Samples = DefaultSamples
	}
	tool := opts.Tool
	if tool == nil {
		tool = editor.NewTool()
	}
	vr := tool.ValueRange()

	start, end := span(c)

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Tick"
	p.Y.Label.Text = "Value"
	p.Y.Min = vr.Min
	p.Y.Max = vr.Max
	p.X.Min = start
	p.X.Max = end
	p.Add(plotter.NewGrid())

	for _, path := range editor.Paths() {
		g := *path.Field(c)
		if len(g) == 0 {
			continue
		}

		line, err := plotter.NewLine(sample(g, start, end, opts.Samples))
		if err != nil {
			return nil, fmt.Errorf("graphplot: %s curve: %w", path.Noun(), err)
		}
		line.Color = trackColors[path]
		line.Width = vg.Points(1.5)
		if path != tool.DisplayPath() {
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		}
		p.Add(line)
		p.Legend.Add(path.String(), line)

		keys := make(plotter.XYs, len(g))
		for i, k := range g {
			keys[i] = plotter.XY{X: float64(k.Y), Y: k.V}
		}
		scatter, err := plotter.NewScatter(keys)
		if err != nil {
			return nil, fmt.Errorf("graphplot: %s keyframes: %w", path.Noun(), err)
		}
		scatter.GlyphStyle.Color = trackColors[path]
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
	}

	if err := addHandles(p, c, tool, start, end); err != nil {
		return nil, err
	}

	if seg, ok := tool.PreviewSegment(c); ok {
		live, err := plotter.NewLine(sample(seg, float64(seg[0].Y), float64(seg[1].Y), opts.Samples/4+2))
		if err != nil {
			return nil, fmt.Errorf("graphplot: live segment: %w", err)
		}
		live.Color = activeColor
		live.Width = vg.Points(2)
		p.Add(live)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// Render saves the plot of c as an image; the format follows path's
// extension.
func Render(c *chart.Chart, path string, opts Options) error {
	p, err := Plot(c, opts)
	if err != nil {
		return err
	}
	if opts.Width <= 0 {
		opts.Width = 10 * vg.Inch
	}
	if opts.Height <= 0 {
		opts.Height = 4 * vg.Inch
	}
	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("graphplot: save %s: %w", path, err)
	}
	return nil
}

// addHandles plots the edited track's control handles in data units. A
// Linear whose rect is the data window itself maps handles to (tick, value).
func addHandles(p *plot.Plot, c *chart.Chart, tool *editor.Tool, start, end float64) error {
	vr := tool.ValueRange()
	dataSpace := screen.Linear{
		Min:       mathutil.Vec2{start, vr.Max},
		Max:       mathutil.Vec2{end, vr.Min},
		TickStart: start,
		TickEnd:   end,
	}

	var idle, active plotter.XYs
	for _, h := range tool.Handles(dataSpace, c) {
		xy := plotter.XY{X: h.Pos[0], Y: h.Pos[1]}
		if h.Active {
			active = append(active, xy)
		} else {
			idle = append(idle, xy)
		}
	}

	for _, set := range []struct {
		pts   plotter.XYs
		color color.Color
	}{{idle, handleColor}, {active, activeColor}} {
		if len(set.pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(set.pts)
		if err != nil {
			return fmt.Errorf("graphplot: handles: %w", err)
		}
		s.GlyphStyle.Color = set.color
		s.GlyphStyle.Shape = draw.BoxGlyph{}
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
	}
	return nil
}

func sample(g chart.Graph, start, end float64, n int) plotter.XYs {
	pts := make(plotter.XYs, n)
	for i := range pts {
		t := start + (end-start)*float64(i)/float64(n-1)
		pts[i] = plotter.XY{X: t, Y: g.ValueAt(t)}
	}
	return pts
}

// span is the tick window covering every keyframe, padded so a single
// keyframe still gets a visible range.
func span(c *chart.Chart) (float64, float64) {
	first, last := -1.0, -1.0
	for _, path := range editor.Paths() {
		g := *path.Field(c)
		if len(g) == 0 {
			continue
		}
		if first < 0 || float64(g[0].Y) < first {
			first = float64(g[0].Y)
		}
		if float64(g[len(g)-1].Y) > last {
			last = float64(g[len(g)-1].Y)
		}
	}
	if first < 0 {
		return 0, 1
	}
	if last-first < 1 {
		last = first + 1
	}
	return first, last
}
