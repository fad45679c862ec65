package interact

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/boardview/pkg/core/camera"
	"github.com/matzehuels/boardview/pkg/core/geom"
	"github.com/matzehuels/boardview/pkg/core/module"
	"github.com/matzehuels/boardview/pkg/graph"
	"github.com/matzehuels/boardview/pkg/observability"
)

func newController(t *testing.T, paths []string, conns map[string][]module.Connection) *Controller {
	t.Helper()
	tree, err := module.New(paths, conns)
	if err != nil {
		t.Fatalf("module.New: %v", err)
	}
	return New(tree, camera.Default(), DefaultOptions())
}

func edgePairs(f graph.Frame) []string {
	out := make([]string, len(f.Edges))
	for i, e := range f.Edges {
		out[i] = e.From + "->" + e.To
	}
	return out
}

func center(c *Controller, path string) geom.Point {
	r, _ := c.State().Boxes.Rect(path)
	return c.Camera().WorldToScreen(r.Center())
}

func TestFrameReattributesOnExpand(t *testing.T) {
	c := newController(t,
		[]string{"A/B", "C"},
		map[string][]module.Connection{"A/B": {{Target: "C", Interface: "SPI"}}},
	)

	f := c.Frame()
	if got := edgePairs(f); !slices.Equal(got, []string{"A->C"}) {
		t.Fatalf("collapsed edges = %v", got)
	}
	a0, _ := f.Node("A")
	if a0.ConnectionCount != 1 || !a0.HasChildren || a0.Expanded {
		t.Errorf("A = %+v", a0)
	}

	if !c.ToggleExpansion("A") {
		t.Fatal("ToggleExpansion(A) = false")
	}
	f = c.Frame()
	if got := edgePairs(f); !slices.Equal(got, []string{"A/B->C"}) {
		t.Fatalf("expanded edges = %v", got)
	}
	a1, _ := f.Node("A")
	b, _ := f.Node("A/B")
	if a1.Box.Width <= a0.Box.Width || a1.Box.Height <= a0.Box.Height {
		t.Errorf("A did not grow: %+v -> %+v", a0.Box, a1.Box)
	}
	if b.Box.X < a1.Box.X || b.Box.Right() > a1.Box.Right() || b.Box.Bottom() > a1.Box.Bottom() {
		t.Errorf("A %+v does not bound B %+v", a1.Box, b.Box)
	}
	if a1.ConnectionCount != 0 || b.ConnectionCount != 1 {
		t.Errorf("connection counts A=%d B=%d", a1.ConnectionCount, b.ConnectionCount)
	}
}

func TestFrameAggregatesParallelConnections(t *testing.T) {
	c := newController(t,
		[]string{"X", "Y"},
		map[string][]module.Connection{"X": {{Target: "Y", Interface: "CAN"}, {Target: "Y", Interface: "PWR"}}},
	)
	f := c.Frame()
	if len(f.Edges) != 1 {
		t.Fatalf("edges = %v", edgePairs(f))
	}
	if e := f.Edges[0]; e.Count != 2 || e.Tooltip != "CAN\nPWR" {
		t.Errorf("edge = %+v", e)
	}
}

func TestFrameTransform(t *testing.T) {
	c := newController(t, []string{"A"}, nil)
	c.Pan(10, -20)
	f := c.Frame()
	if f.Transform != "translate(330px, 180px) scale(1)" {
		t.Errorf("Transform = %q", f.Transform)
	}
	if f.Camera.X != 330 || f.Camera.Zoom != 1 {
		t.Errorf("Camera = %+v", f.Camera)
	}
}

func TestDragFollowsPointerInWorldUnits(t *testing.T) {
	tests := []struct {
		name string
		zoom float64
	}{
		{"unzoomed", 1},
		{"zoomed in", 2},
		{"zoomed out", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, []string{"A", "B"}, nil)
			cam := c.Camera()
			cam.Zoom = tt.zoom

			before, _ := c.State().Boxes.Rect("B")
			p := center(c, "B")
			if !c.BeginDrag("B", p) {
				t.Fatal("BeginDrag = false")
			}
			c.UpdateDrag(geom.Point{X: p.X + 100, Y: p.Y + 40})
			c.UpdateDrag(geom.Point{X: p.X + 200, Y: p.Y + 80})
			c.EndDrag()

			after, _ := c.State().Boxes.Rect("B")
			wantDX, wantDY := 200/tt.zoom, 80/tt.zoom
			if math.Abs(after.X-before.X-wantDX) > 1e-9 || math.Abs(after.Y-before.Y-wantDY) > 1e-9 {
				t.Errorf("moved by (%g,%g), want (%g,%g)", after.X-before.X, after.Y-before.Y, wantDX, wantDY)
			}
			if _, ok := c.Dragging(); ok {
				t.Error("drag still active after EndDrag")
			}
		})
	}
}

func TestCancelDragRestoresSubtree(t *testing.T) {
	c := newController(t, []string{"R/A/a1", "R/B"}, nil)
	c.ExpandAll()
	before := c.State().Boxes.Clone()

	p := center(c, "R/A")
	c.BeginDrag("R/A", p)
	c.UpdateDrag(geom.Point{X: p.X + 300, Y: p.Y + 300})
	if got, _ := c.State().Boxes.Rect("R/A/a1"); got == before["R/A/a1"].Rect {
		t.Fatal("descendant did not move during drag")
	}
	if !c.CancelDrag() {
		t.Fatal("CancelDrag = false")
	}
	for p, b := range before {
		if got, _ := c.State().Boxes.Get(p); got != b {
			t.Errorf("box[%s] = %+v, want %+v", p, got, b)
		}
	}
}

func TestDragOpsWithoutDragAreNoops(t *testing.T) {
	c := newController(t, []string{"A"}, nil)
	before := c.State().Boxes.Clone()

	if c.UpdateDrag(geom.Point{X: 5, Y: 5}) || c.EndDrag() || c.CancelDrag() {
		t.Error("drag op without drag reported a change")
	}
	if c.BeginDrag("missing", geom.Point{}) {
		t.Error("BeginDrag on unknown path succeeded")
	}
	if got, _ := c.State().Boxes.Get("A"); got != before["A"] {
		t.Errorf("A changed: %+v", got)
	}
}

func TestHitTestPicksDeepest(t *testing.T) {
	c := newController(t, []string{"A/B", "C"}, nil)
	c.ToggleExpansion("A")

	if got, ok := c.HitTest(center(c, "A/B")); !ok || got != "A/B" {
		t.Errorf("HitTest(B centre) = %q, %v", got, ok)
	}
	a, _ := c.State().Boxes.Rect("A")
	title := c.Camera().WorldToScreen(geom.Point{X: a.X + 2, Y: a.Y + 2})
	if got, _ := c.HitTest(title); got != "A" {
		t.Errorf("HitTest(A title) = %q", got)
	}
	if _, ok := c.HitTest(geom.Point{X: -1e6, Y: -1e6}); ok {
		t.Error("HitTest on empty space found a module")
	}
}

func TestRevealExpandsAncestors(t *testing.T) {
	c := newController(t, []string{"R/A/a1", "R/B"}, nil)

	if !c.Reveal("R/A") {
		t.Fatal("Reveal(R/A) = false")
	}
	f := c.Frame()
	if _, ok := f.Node("R/A/a1"); !ok {
		t.Error("R/A/a1 not visible after Reveal")
	}
	if c.Reveal("R/A") {
		t.Error("second Reveal reported a change")
	}
	if c.Reveal("R/B") {
		t.Error("Reveal of a leaf under an expanded root reported a change")
	}
}

func TestWheelAndZoomBounds(t *testing.T) {
	c := newController(t, []string{"A"}, nil)
	cam := c.Camera()

	if !c.Wheel(100, 100, -1) || cam.Zoom <= 1 {
		t.Errorf("wheel up: zoom = %g", cam.Zoom)
	}
	if !c.Wheel(100, 100, 1) || math.Abs(cam.Zoom-1) > 1e-9 {
		t.Errorf("wheel down: zoom = %g", cam.Zoom)
	}
	if c.Wheel(100, 100, 0) {
		t.Error("zero delta reported a change")
	}

	cam.Zoom = cam.MaxZoom
	before := *cam
	if c.ZoomAt(10, 10, 2) {
		t.Error("zoom beyond max accepted")
	}
	if *cam != before {
		t.Errorf("rejected zoom changed camera: %+v", *cam)
	}

	c.ResetView()
	if !c.ZoomCenter(3) || c.ZoomCenter(0) {
		t.Error("ZoomCenter result wrong")
	}
}

type recorder struct {
	ops      []string
	rejected int
}

func (r *recorder) OnInteraction(op string, _ bool) { r.ops = append(r.ops, op) }
func (r *recorder) OnZoomRejected(float64)          { r.rejected++ }

func TestHooksAreEmitted(t *testing.T) {
	rec := &recorder{}
	observability.SetInteractionHooks(rec)
	defer observability.Reset()

	c := newController(t, []string{"A/B"}, nil)
	c.Pan(1, 1)
	c.ToggleExpansion("A")
	c.Camera().Zoom = c.Camera().MinZoom
	c.ZoomAt(0, 0, 0.5)

	want := []string{"pan", "toggle", "zoom"}
	if !slices.Equal(rec.ops, want) {
		t.Errorf("ops = %v, want %v", rec.ops, want)
	}
	if rec.rejected != 1 {
		t.Errorf("rejected = %d, want 1", rec.rejected)
	}
}
