package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/boardview/pkg/core/camera"
	"github.com/matzehuels/boardview/pkg/core/module"
	"github.com/matzehuels/boardview/pkg/graph"
	"github.com/matzehuels/boardview/pkg/interact"
)

func newModel(t *testing.T) (Model, *interact.Controller) {
	t.Helper()
	tree, err := module.New(
		[]string{"A/a1", "A/a2", "B"},
		map[string][]module.Connection{"A/a1": {{Target: "B", Interface: "SPI"}}},
	)
	require.NoError(t, err)
	ctrl := interact.New(tree, camera.Default(), interact.DefaultOptions())
	m := New(ctrl, Options{Title: "test"})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 42})
	return m, ctrl
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// cellOf returns the terminal cell at the centre of the module's box.
func cellOf(t *testing.T, m Model, path string) (int, int) {
	t.Helper()
	n, ok := frameNode(m, path)
	require.True(t, ok, "node %s not visible", path)
	p := m.ctrl.Camera().WorldToScreen(n.Box.Center())
	return int(p.X / m.opts.CellWidth), int(p.Y / m.opts.CellHeight)
}

func TestWindowSizeResizesViewport(t *testing.T) {
	_, ctrl := newModel(t)
	cam := ctrl.Camera()
	assert.Equal(t, 800.0, cam.ViewportW)
	assert.Equal(t, 640.0, cam.ViewportH)
}

func TestSelectAndToggle(t *testing.T) {
	m, _ := newModel(t)
	require.Len(t, m.Frame().Nodes, 2)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "A", m.Selected())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "B", m.Selected())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "A", m.Selected())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	_, ok := frameNode(m, "A/a1")
	assert.True(t, ok, "A/a1 visible after toggle")
	assert.Len(t, m.Frame().Nodes, 4)

	m = update(t, m, runes("c"))
	assert.Len(t, m.Frame().Nodes, 2)
	m = update(t, m, runes("e"))
	assert.Len(t, m.Frame().Nodes, 4)
}

func TestSelectionDroppedWhenHidden(t *testing.T) {
	m, _ := newModel(t)
	m = update(t, m, runes("e"))
	for m.Selected() != "A/a1" {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	m = update(t, m, runes("c"))
	assert.Empty(t, m.Selected())
}

func TestPanAndZoomKeys(t *testing.T) {
	m, ctrl := newModel(t)
	x0, y0 := ctrl.Camera().X, ctrl.Camera().Y

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, x0-32, ctrl.Camera().X)
	m = update(t, m, runes("k"))
	assert.Equal(t, y0+64, ctrl.Camera().Y)

	z := ctrl.Camera().Zoom
	m = update(t, m, runes("+"))
	assert.Greater(t, ctrl.Camera().Zoom, z)
	m = update(t, m, runes("-"))
	assert.InDelta(t, z, ctrl.Camera().Zoom, 1e-9)

	update(t, m, runes("r"))
	assert.Equal(t, 1.0, ctrl.Camera().Zoom)
}

func TestZoomLimitStatus(t *testing.T) {
	m, ctrl := newModel(t)
	for range 100 {
		m = update(t, m, runes("+"))
	}
	assert.LessOrEqual(t, ctrl.Camera().Zoom, ctrl.Camera().MaxZoom)
	assert.Greater(t, ctrl.Camera().Zoom*interact.DefaultZoomStep, ctrl.Camera().MaxZoom)
	assert.Contains(t, m.statusLine(), "zoom limit")
}

func TestWheelZooms(t *testing.T) {
	m, ctrl := newModel(t)
	z := ctrl.Camera().Zoom
	m = update(t, m, tea.MouseMsg{X: 10, Y: 10, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	assert.Greater(t, ctrl.Camera().Zoom, z)
	update(t, m, tea.MouseMsg{X: 10, Y: 10, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	assert.InDelta(t, z, ctrl.Camera().Zoom, 1e-9)
}

func TestMouseDrag(t *testing.T) {
	m, ctrl := newModel(t)
	before, _ := frameNode(m, "B")
	x, y := cellOf(t, m, "B")

	m = update(t, m, tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, "B", m.Selected())
	path, ok := ctrl.Dragging()
	require.True(t, ok)
	assert.Equal(t, "B", path)

	m = update(t, m, tea.MouseMsg{X: x, Y: y + 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m = update(t, m, tea.MouseMsg{X: x, Y: y + 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	_, ok = ctrl.Dragging()
	assert.False(t, ok)

	after, _ := frameNode(m, "B")
	assert.Greater(t, after.Box.Y, before.Box.Y)
}

func TestEscCancelsDrag(t *testing.T) {
	m, ctrl := newModel(t)
	before, _ := frameNode(m, "B")
	x, y := cellOf(t, m, "B")

	m = update(t, m, tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = update(t, m, tea.MouseMsg{X: x + 6, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	moved, _ := frameNode(m, "B")
	assert.NotEqual(t, before.Box, moved.Box)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, ok := ctrl.Dragging()
	assert.False(t, ok)
	after, _ := frameNode(m, "B")
	assert.Equal(t, before.Box, after.Box)
	assert.Contains(t, m.statusLine(), "drag cancelled")
}

func TestClickOnBackgroundClearsSelection(t *testing.T) {
	m, _ := newModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.NotEmpty(t, m.Selected())
	m = update(t, m, tea.MouseMsg{X: 99, Y: 39, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Empty(t, m.Selected())
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(key)
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok)
	}
}

func TestViewShowsStatus(t *testing.T) {
	m, _ := newModel(t)
	out := m.View()
	assert.Contains(t, out, "A +")
	assert.Contains(t, out, "test · zoom 1.00 · 2 visible · 1 edges")
}

func TestCanvasRedrawsOnlyOnChange(t *testing.T) {
	m, ctrl := newModel(t)
	n := m.redraws

	m = update(t, m, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionMotion})
	assert.Equal(t, n, m.redraws, "motion without drag")

	for ctrl.ZoomCenter(1) {
	}
	m = update(t, m, runes("+"))
	assert.Equal(t, "zoom limit", m.status)
	n = m.redraws
	m = update(t, m, runes("+"))
	assert.Equal(t, n, m.redraws, "rejected zoom")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, n+1, m.redraws, "pan")
	assert.Equal(t, ctrl.Camera().Transform(), m.transform)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, n+2, m.redraws, "selection")
	assert.Contains(t, m.View(), "selected A")
}

// frameNode looks up path in m's frame; Frame.Node has a pointer receiver,
// so the returned value must be addressable.
func frameNode(m Model, path string) (graph.NodeView, bool) {
	f := m.Frame()
	return f.Node(path)
}
