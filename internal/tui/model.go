// Package tui hosts the camera tool in a terminal: a curve graph that takes
// mouse drags on control handles, a live preview of the camera over the
// track, and key bindings for the sliders and history.
package tui

import (
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"camera-curve-editor/internal/actions"
	"camera-curve-editor/internal/chart"
	"camera-curve-editor/internal/curve"
	"camera-curve-editor/internal/editor"
	"camera-curve-editor/internal/mathutil"
	"camera-curve-editor/internal/screen"
)

const (
	titleRows   = 1
	previewCols = 32
	previewRows = 9
	footerRows  = 2

	minGraphRows = 4

	sliderStep = 0.1
)

// SaveFunc writes the chart to path.
type SaveFunc func(path string, c *chart.Chart) error

// Options configures a Model.
type Options struct {
	Path     string
	TickSpan float64
	Step     uint32
	Save     SaveFunc
	Logger   zerolog.Logger
}

// Model is the bubbletea model for the editor.
type Model struct {
	stack *actions.Stack[chart.Chart]
	tool  *editor.Tool
	opts  Options

	cursor    uint32
	viewStart float64

	width, height int
	status        string
}

// New creates the model over stack. The tool's drag state and sliders are
// driven by terminal events.
func New(stack *actions.Stack[chart.Chart], tool *editor.Tool, opts Options) Model {
	if opts.TickSpan <= 0 {
		opts.TickSpan = 1920
	}
	if opts.Step == 0 {
		opts.Step = 48
	}
	if opts.Save == nil {
		opts.Save = chart.Save
	}
	m := Model{
		stack:  stack,
		tool:   tool,
		opts:   opts,
		width:  80,
		height: 24,
	}
	m.sync()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Chart returns the current chart.
func (m Model) Chart() *chart.Chart { return m.stack.Current() }

// Cursor returns the cursor tick.
func (m Model) Cursor() uint32 { return m.cursor }

// Status returns the last status message.
func (m Model) Status() string { return m.status }

func (m Model) graphRows() int {
	rows := m.height - titleRows - previewRows - footerRows
	if rows < minGraphRows {
		rows = minGraphRows
	}
	return rows
}

// graph maps the graph area in cell units. Lane 0 is the bottom row.
func (m Model) graph() screen.Linear {
	top := float64(titleRows)
	return screen.Linear{
		Min:       mathutil.Vec2{0, top},
		Max:       mathutil.Vec2{float64(m.width - 1), top + float64(m.graphRows()-1)},
		TickStart: m.viewStart,
		TickEnd:   m.viewStart + m.opts.TickSpan,
	}
}

// cells snaps handles to the cell they are drawn in, so clicking a drawn
// handle hits it exactly.
type cells struct {
	screen.Linear
}

func (c cells) ControlPointPos(k0, k1 chart.GraphPoint, vr curve.ValueRange) (mathutil.Vec2, bool) {
	p, ok := c.Linear.ControlPointPos(k0, k1, vr)
	return mathutil.Vec2{math.Round(p[0]), math.Round(p[1])}, ok
}

func (m Model) locator() cells {
	return cells{m.graph()}
}

func (m *Model) sync() {
	m.tool.Sync(m.stack.Current(), float64(m.cursor))
}

func (m *Model) moveCursor(delta int64) {
	next := int64(m.cursor) + delta
	if next < 0 {
		next = 0
	}
	if next > math.MaxUint32 {
		next = math.MaxUint32
	}
	m.cursor = uint32(next)

	c := float64(m.cursor)
	if c < m.viewStart {
		m.viewStart = c
	}
	if c > m.viewStart+m.opts.TickSpan {
		m.viewStart = c - m.opts.TickSpan
	}
	m.sync()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width < 2 {
			m.width = 2
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "left", "h":
		m.moveCursor(-int64(m.opts.Step))
	case "right", "l":
		m.moveCursor(int64(m.opts.Step))
	case "shift+left", "H":
		m.moveCursor(-int64(m.opts.Step) * 4)
	case "shift+right", "L":
		m.moveCursor(int64(m.opts.Step) * 4)
	case "+", "=":
		m.opts.TickSpan = math.Max(m.opts.TickSpan/2, float64(m.opts.Step))
		m.moveCursor(0)
	case "-":
		m.opts.TickSpan *= 2
		m.moveCursor(0)
	case "r":
		m.tool.SetRadius(m.tool.Radius() - sliderStep)
	case "R":
		m.tool.SetRadius(m.tool.Radius() + sliderStep)
	case "a":
		m.tool.SetAngle(m.tool.Angle() - sliderStep)
	case "A":
		m.tool.SetAngle(m.tool.Angle() + sliderStep)
	case "tab":
		m.tool.SetDisplayPath(m.tool.DisplayPath().Next())
		m.status = "Display line: " + m.tool.DisplayPath().String()
	case "enter":
		if err := m.tool.AddControlPoint(m.stack, m.cursor); err != nil {
			m.status = "Add control point failed: " + err.Error()
			break
		}
		m.status = fmt.Sprintf("Control point at tick %d.", m.cursor)
		m.sync()
	case "esc":
		m.tool.Cancel()
	case "u":
		if e, ok := m.stack.Undo(); ok {
			m.status = "Undo: " + e.Description
		}
		m.sync()
	case "ctrl+r":
		if e, ok := m.stack.Redo(); ok {
			m.status = "Redo: " + e.Description
		}
		m.sync()
	case "s":
		m.save()
	}
	return m, nil
}

func (m *Model) save() {
	if m.opts.Path == "" {
		m.status = "No chart path to save to."
		return
	}
	if err := m.opts.Save(m.opts.Path, m.stack.Current()); err != nil {
		m.opts.Logger.Error().Err(err).Str("path", m.opts.Path).Msg("save failed")
		m.status = "Save failed: " + err.Error()
		return
	}
	m.opts.Logger.Info().Str("path", m.opts.Path).Msg("chart saved")
	m.status = "Saved " + m.opts.Path
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	pos := mathutil.Vec2{float64(msg.X), float64(msg.Y)}
	c := m.stack.Current()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.tool.DragStart(m.locator(), c, pos)
	case tea.MouseActionMotion:
		if !m.tool.Dragging() {
			return
		}
		tick, lane := m.graph().Pointer(pos)
		m.tool.Update(tick, lane, c)
	case tea.MouseActionRelease:
		if !m.tool.Dragging() {
			return
		}
		if err := m.tool.DragEnd(m.stack); err != nil {
			m.status = "Edit failed: " + err.Error()
			return
		}
		m.status = "Edit curve for camera " + m.tool.DisplayPath().Noun() + "."
		m.sync()
	}
}
