package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/boardview/pkg/core/geom"
	"github.com/matzehuels/boardview/pkg/graph"
	"github.com/matzehuels/boardview/pkg/interact"
)

// Defaults for [Options].
const (
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0
	DefaultPanCells   = 4
)

// statusLines is the number of rows below the canvas.
const statusLines = 2

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

const helpText = "arrows pan · +/- zoom · tab select · enter toggle · e/c expand/collapse all · r/R reset · q quit"

// Options configures the viewer.
type Options struct {
	// CellWidth and CellHeight are the screen pixels one terminal cell
	// stands for.
	CellWidth  float64
	CellHeight float64
	// PanCells is how many cells one arrow key pans.
	PanCells int
	// Title is shown in the status line.
	Title string
}

func (o *Options) defaults() {
	if o.CellWidth <= 0 {
		o.CellWidth = DefaultCellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = DefaultCellHeight
	}
	if o.PanCells <= 0 {
		o.PanCells = DefaultPanCells
	}
}

// Model is the bubbletea model of the viewer.
type Model struct {
	ctrl     *interact.Controller
	opts     Options
	frame    graph.Frame
	width    int
	height   int
	selected string
	dragging bool
	status   string

	// canvas is the last rasterised frame. It is redrawn only when the
	// camera transform changes or dirty is set.
	canvas    string
	transform string
	dirty     bool
	redraws   int
}

// New returns a viewer for ctrl. The terminal size is taken from the camera
// viewport until the first window size message arrives.
func New(ctrl *interact.Controller, opts Options) Model {
	opts.defaults()
	cam := ctrl.Camera()
	m := Model{
		ctrl:   ctrl,
		opts:   opts,
		width:  int(cam.ViewportW / opts.CellWidth),
		height: int(cam.ViewportH/opts.CellHeight) + statusLines,
		dirty:  true,
	}
	m.refresh()
	return m
}

// Frame returns the frame currently shown.
func (m Model) Frame() graph.Frame { return m.frame }

// Selected returns the selected module path, or "".
func (m Model) Selected() string { return m.selected }

// SetTransform implements camera.TransformTarget.
func (m *Model) SetTransform(transform string) { m.transform = transform }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.dirty = true
		m.ctrl.Resize(float64(m.width)*m.opts.CellWidth, float64(m.canvasHeight())*m.opts.CellHeight)
	case tea.KeyMsg:
		if quit := m.handleKey(msg.String()); quit {
			return m, tea.Quit
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

func (m *Model) handleKey(key string) bool {
	dx := float64(m.opts.PanCells) * m.opts.CellWidth
	dy := float64(m.opts.PanCells) * m.opts.CellHeight
	m.status = ""

	switch key {
	case "q", "ctrl+c":
		return true
	case "up", "k":
		m.ctrl.Pan(0, dy)
	case "down", "j":
		m.ctrl.Pan(0, -dy)
	case "left", "h":
		m.ctrl.Pan(dx, 0)
	case "right", "l":
		m.ctrl.Pan(-dx, 0)
	case "+", "=":
		if !m.ctrl.ZoomCenter(1) {
			m.status = "zoom limit"
		}
	case "-", "_":
		if !m.ctrl.ZoomCenter(-1) {
			m.status = "zoom limit"
		}
	case "tab":
		m.cycle(1)
	case "shift+tab":
		m.cycle(-1)
	case "enter", " ":
		if m.selected != "" {
			m.ctrl.ToggleExpansion(m.selected)
			m.dirty = true
		}
	case "e":
		m.ctrl.ExpandAll()
		m.dirty = true
	case "c":
		m.ctrl.CollapseAll()
		m.dirty = true
	case "r":
		m.ctrl.ResetView()
	case "R":
		m.dragging = false
		m.ctrl.ResetLayout()
		m.dirty = true
	case "esc":
		if m.ctrl.CancelDrag() {
			m.dragging = false
			m.status = "drag cancelled"
			m.dirty = true
		}
	}
	return false
}

// cycle moves the selection through the visible modules in paint order.
func (m *Model) cycle(step int) {
	n := len(m.frame.Nodes)
	if n == 0 {
		m.selected = ""
		return
	}
	i := -1
	for j, node := range m.frame.Nodes {
		if node.Path == m.selected {
			i = j
			break
		}
	}
	switch {
	case i < 0 && step > 0:
		i = 0
	case i < 0:
		i = n - 1
	default:
		i = ((i+step)%n + n) % n
	}
	m.selected = m.frame.Nodes[i].Path
	m.dirty = true
}

// point maps a terminal cell to the screen pixel at its centre.
func (m *Model) point(x, y int) geom.Point {
	return geom.Point{
		X: (float64(x) + 0.5) * m.opts.CellWidth,
		Y: (float64(y) + 0.5) * m.opts.CellHeight,
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p := m.point(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.ctrl.Wheel(p.X, p.Y, -1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.ctrl.Wheel(p.X, p.Y, 1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if msg.Y >= m.canvasHeight() {
			return
		}
		path, ok := m.ctrl.HitTest(p)
		if !ok {
			m.dirty = m.dirty || m.selected != ""
			m.selected = ""
			return
		}
		m.selected = path
		m.dragging = m.ctrl.BeginDrag(path, p)
		m.dirty = true
	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.dirty = m.ctrl.UpdateDrag(p) || m.dirty
	case msg.Action == tea.MouseActionRelease && m.dragging:
		m.ctrl.EndDrag()
		m.dragging = false
		m.dirty = true
	}
}

// refresh rebuilds the frame, drops a selection that is no longer visible
// and redraws the canvas when the view changed.
func (m *Model) refresh() {
	m.frame = m.ctrl.Frame()
	if _, ok := m.frame.Node(m.selected); !ok && m.selected != "" {
		m.selected = ""
		m.dirty = true
	}
	if m.ctrl.Camera().Apply(m) {
		m.dirty = true
	}
	if !m.dirty {
		return
	}
	c := drawFrame(m.frame, m.width, m.canvasHeight(), m.opts.CellWidth, m.opts.CellHeight, m.selected)
	m.canvas = c.render()
	m.dirty = false
	m.redraws++
}

func (m Model) canvasHeight() int { return max(0, m.height-statusLines) }

// View implements tea.Model.
func (m Model) View() string {
	return m.canvas + "\n" + statusStyle.Render(m.statusLine()) + "\n" + helpStyle.Render(truncate(helpText, m.width))
}

func (m Model) statusLine() string {
	parts := []string{}
	if m.opts.Title != "" {
		parts = append(parts, m.opts.Title)
	}
	parts = append(parts,
		fmt.Sprintf("zoom %.2f", m.frame.Camera.Zoom),
		fmt.Sprintf("%d visible", len(m.frame.Nodes)),
		fmt.Sprintf("%d edges", len(m.frame.Edges)),
	)
	if m.selected != "" {
		parts = append(parts, "selected "+m.selected)
	}
	if path, ok := m.ctrl.Dragging(); ok {
		parts = append(parts, "dragging "+path)
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return truncate(strings.Join(parts, " · "), m.width)
}

func truncate(s string, w int) string {
	r := []rune(s)
	if w <= 0 || len(r) <= w {
		return s
	}
	return string(r[:w])
}

// Run shows the viewer full screen until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, ctrl *interact.Controller, opts Options) error {
	p := tea.NewProgram(New(ctrl, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
