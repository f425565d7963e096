package tui

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"camera-curve-editor/internal/camera"
	"camera-curve-editor/internal/chart"
	"camera-curve-editor/internal/editor"
	"camera-curve-editor/internal/mathutil"
	"camera-curve-editor/internal/preview"
	"camera-curve-editor/internal/raster"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
	dirtyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	panelStyle  = lipgloss.NewStyle().PaddingLeft(2)

	pathStyles = map[editor.Path]lipgloss.Style{
		editor.PathRadius: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		editor.PathAngle:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	}
	otherStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	handleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

type cell struct {
	r     rune
	style *lipgloss.Style
}

type grid struct {
	w, h  int
	top   int
	cells [][]cell
}

func newGrid(w, h, top int) *grid {
	g := &grid{w: w, h: h, top: top, cells: make([][]cell, h)}
	for y := range g.cells {
		g.cells[y] = make([]cell, w)
		for x := range g.cells[y] {
			g.cells[y][x] = cell{r: ' '}
		}
	}
	return g
}

// set writes at absolute screen coordinates.
func (g *grid) set(x, y float64, r rune, s *lipgloss.Style) {
	cx := int(math.Round(x))
	cy := int(math.Round(y)) - g.top
	if cx < 0 || cx >= g.w || cy < 0 || cy >= g.h {
		return
	}
	g.cells[cy][cx] = cell{r: r, style: s}
}

func (g *grid) String() string {
	var b strings.Builder
	for y, row := range g.cells {
		for _, c := range row {
			if c.style == nil {
				b.WriteRune(c.r)
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		if y < len(g.cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) View() string {
	c := m.stack.Current()
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Camera: %s", m.tool.DisplayPath())))
	b.WriteByte('\n')
	b.WriteString(m.renderGraph(c))
	b.WriteByte('\n')
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderPreview(), panelStyle.Render(m.renderSliders())))
	b.WriteByte('\n')
	b.WriteString(statusStyle.Render(m.status))
	b.WriteByte('\n')
	b.WriteString(statusStyle.Render("←/→ cursor  r/R radius  a/A angle  tab line  enter add  u undo  ctrl+r redo  s save  q quit"))
	return b.String()
}

func (m Model) renderGraph(c *chart.Chart) string {
	lin := m.graph()
	g := newGrid(m.width, m.graphRows(), titleRows)
	vr := m.tool.ValueRange()

	cx := lin.TickToX(float64(m.cursor))
	for y := lin.Min[1]; y <= lin.Max[1]; y++ {
		g.set(cx, y, '│', &cursorStyle)
	}

	plot := func(gr chart.Graph, r rune, s *lipgloss.Style, from, to float64) {
		for x := 0; x < m.width; x++ {
			tick, _ := lin.Pointer(mathutil.Vec2{float64(x), 0})
			if tick < from || tick > to {
				continue
			}
			g.set(float64(x), lin.ValuePos(tick, gr.ValueAt(tick), vr)[1], r, s)
		}
	}

	for _, p := range editor.Paths() {
		if p == m.tool.DisplayPath() {
			continue
		}
		plot(*p.Field(c), '·', &otherStyle, math.Inf(-1), math.Inf(1))
	}

	display := m.tool.DisplayPath()
	style := pathStyles[display]
	plot(m.tool.Graph(c), '•', &style, math.Inf(-1), math.Inf(1))
	if seg, ok := m.tool.PreviewSegment(c); ok {
		plot(seg, '•', &activeStyle, float64(seg[0].Y), float64(seg[1].Y))
	}

	for _, k := range m.tool.Graph(c) {
		p := lin.ValuePos(float64(k.Y), k.V, vr)
		g.set(p[0], p[1], '◆', &style)
	}
	for _, h := range m.tool.Handles(m.locator(), c) {
		if h.Active {
			g.set(h.Pos[0], h.Pos[1], '●', &activeStyle)
			continue
		}
		g.set(h.Pos[0], h.Pos[1], '○', &handleStyle)
	}

	return g.String()
}

// renderPreview draws the camera preview with half blocks: each cell shows
// two vertical pixels.
func (m Model) renderPreview() string {
	pose := m.tool.Pose()
	img := renderPreviewImage(pose, previewCols, previewRows*2)

	var b strings.Builder
	for y := 0; y < previewRows; y++ {
		for x := 0; x < previewCols; x++ {
			top := img.NRGBAAt(x, 2*y)
			bottom := img.NRGBAAt(x, 2*y+1)
			s := lipgloss.NewStyle().
				Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", top.R, top.G, top.B))).
				Background(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", bottom.R, bottom.G, bottom.B)))
			b.WriteString(s.Render("▀"))
		}
		if y < previewRows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderPreviewImage(pose camera.Pose, w, h int) *image.NRGBA {
	view := preview.NewView(mathutil.Vec2{float64(w), 0}, pose)
	view.AddTrack()
	rect := preview.Rect{Max: mathutil.Vec2{float64(w), float64(h)}}
	return raster.Render(preview.Project(view.Meshes, pose, rect), w, h, nil)
}

func (m Model) renderSliders() string {
	slider := func(name string, v float32, dirty bool) string {
		line := fmt.Sprintf("%-7s %s %+.2f", name, bar(float64(v), 20), v)
		if dirty {
			return dirtyStyle.Render(line + " *")
		}
		return line
	}
	pose := m.tool.Pose()
	return strings.Join([]string{
		fmt.Sprintf("Tick    %d", m.cursor),
		slider("Radius", m.tool.Radius(), m.tool.RadiusDirty()),
		slider("Angle", m.tool.Angle(), m.tool.AngleDirty()),
		"",
		fmt.Sprintf("Orbit   %.1f°  r=%.2f", pose.Angle, pose.Radius),
		fmt.Sprintf("History %d", len(m.stack.History())),
	}, "\n")
}

// bar draws v in [-3,3] as a slider track of n cells.
func bar(v float64, n int) string {
	pos := int(math.Round(mathutil.Clamp01((v+3)/6) * float64(n-1)))
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i == pos {
			b.WriteRune('█')
		} else {
			b.WriteRune('─')
		}
	}
	b.WriteByte(']')
	return b.String()
}
