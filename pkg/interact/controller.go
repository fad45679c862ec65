package interact

import (
	"time"

	"github.com/matzehuels/boardview/pkg/core/camera"
	"github.com/matzehuels/boardview/pkg/core/geom"
	"github.com/matzehuels/boardview/pkg/core/layout"
	"github.com/matzehuels/boardview/pkg/core/module"
	"github.com/matzehuels/boardview/pkg/core/route"
	"github.com/matzehuels/boardview/pkg/core/viewstate"
	"github.com/matzehuels/boardview/pkg/graph"
	"github.com/matzehuels/boardview/pkg/observability"
)

// DefaultZoomStep is the zoom factor of one wheel notch or key press.
const DefaultZoomStep = 1.1

// Options configures a [Controller].
type Options struct {
	Layout   layout.Config
	Route    route.Config
	ZoomStep float64
}

// DefaultOptions returns the default layout, routing and zoom settings.
func DefaultOptions() Options {
	return Options{
		Layout:   layout.DefaultConfig(),
		Route:    route.DefaultConfig(),
		ZoomStep: DefaultZoomStep,
	}
}

// Controller owns the view state of one view and translates UI operations
// into camera, expansion and drag updates.
//
// A Controller is not safe for concurrent use. Callers that share one across
// goroutines serialise access themselves.
type Controller struct {
	tree     *module.Tree
	vs       *viewstate.ViewState
	layout   *layout.Engine
	router   *route.Router
	zoomStep float64
	drag     *dragState
}

// dragState is the bookkeeping of one drag in progress.
type dragState struct {
	path     string
	start    geom.Point // world pointer at BeginDrag
	origin   geom.Point // box top-left at BeginDrag
	snapshot viewstate.BoxMap
}

// New returns a controller for tree viewed through cam, with every module
// collapsed and the roots laid out.
func New(tree *module.Tree, cam *camera.Camera, opts Options) *Controller {
	if opts.ZoomStep <= 1 {
		opts.ZoomStep = DefaultZoomStep
	}
	c := &Controller{
		tree:     tree,
		vs:       viewstate.New(cam),
		layout:   layout.New(tree, opts.Layout),
		router:   route.New(tree, opts.Route),
		zoomStep: opts.ZoomStep,
	}
	c.relayout()
	return c
}

// Tree returns the module tree.
func (c *Controller) Tree() *module.Tree { return c.tree }

// State returns the view state. It remains owned by the controller.
func (c *Controller) State() *viewstate.ViewState { return c.vs }

// Camera returns the view's camera.
func (c *Controller) Camera() *camera.Camera { return c.vs.Camera }

// Engine returns the layout engine.
func (c *Controller) Engine() *layout.Engine { return c.layout }

// =============================================================================
// Camera
// =============================================================================

// Pan moves the camera by (dx, dy) screen pixels.
func (c *Controller) Pan(dx, dy float64) {
	c.vs.Camera.Pan(dx, dy)
	observability.Interaction().OnInteraction("pan", dx != 0 || dy != 0)
}

// ZoomAt zooms by factor keeping the screen point (sx, sy) fixed. A request
// that would leave the zoom bounds changes nothing and returns false.
func (c *Controller) ZoomAt(sx, sy, factor float64) bool {
	ok := c.vs.Camera.ZoomAt(sx, sy, factor)
	if !ok {
		observability.Interaction().OnZoomRejected(factor)
	}
	observability.Interaction().OnInteraction("zoom", ok)
	return ok
}

// Wheel converts a wheel event at (sx, sy) into a zoom: scrolling up
// (negative deltaY) zooms in by one step, scrolling down zooms out.
func (c *Controller) Wheel(sx, sy, deltaY float64) bool {
	switch {
	case deltaY < 0:
		return c.ZoomAt(sx, sy, c.zoomStep)
	case deltaY > 0:
		return c.ZoomAt(sx, sy, 1/c.zoomStep)
	default:
		return false
	}
}

// ZoomCenter zooms by steps notches around the viewport centre. Positive
// steps zoom in.
func (c *Controller) ZoomCenter(steps int) bool {
	if steps == 0 {
		return false
	}
	factor := c.zoomStep
	if steps < 0 {
		factor, steps = 1/c.zoomStep, -steps
	}
	cam := c.vs.Camera
	changed := false
	for range steps {
		if !c.ZoomAt(cam.ViewportW/2, cam.ViewportH/2, factor) {
			break
		}
		changed = true
	}
	return changed
}

// ResetView restores the default zoom and pan.
func (c *Controller) ResetView() {
	c.vs.Camera.Reset()
	observability.Interaction().OnInteraction("reset_view", true)
}

// Resize updates the viewport size in screen pixels.
func (c *Controller) Resize(w, h float64) {
	c.vs.Camera.SetViewport(w, h)
}

// =============================================================================
// Expansion
// =============================================================================

// ToggleExpansion expands or collapses path and returns its new state.
// Leaves and unknown paths are left collapsed.
func (c *Controller) ToggleExpansion(path string) bool {
	before := c.vs.Expanded.Has(path)
	expanded := c.layout.Toggle(c.vs, path)
	observability.Interaction().OnInteraction("toggle", expanded != before)
	return expanded
}

// Reveal expands path and every ancestor of it so that the children of path
// become visible. It reports whether the expansion set changed.
func (c *Controller) Reveal(path string) bool {
	changed := false
	anc := c.tree.Ancestors(path)
	for i := len(anc) - 1; i >= 0; i-- {
		if c.layout.Expand(c.vs, anc[i].Path) {
			changed = true
		}
	}
	if c.layout.Expand(c.vs, path) {
		changed = true
	}
	observability.Interaction().OnInteraction("reveal", changed)
	return changed
}

// ExpandAll expands every module with children.
func (c *Controller) ExpandAll() {
	c.layout.ExpandAll(c.vs)
	observability.Interaction().OnInteraction("expand_all", true)
}

// CollapseAll collapses every module.
func (c *Controller) CollapseAll() {
	c.layout.CollapseAll(c.vs)
	observability.Interaction().OnInteraction("collapse_all", true)
}

// ResetLayout drops every stored and manual box and lays out from scratch.
func (c *Controller) ResetLayout() {
	c.drag = nil
	c.layout.ResetLayout(c.vs)
	observability.Interaction().OnInteraction("reset_layout", true)
}

// =============================================================================
// Picking and dragging
// =============================================================================

// HitTest returns the deepest visible module whose box contains the screen
// point p. Children are painted over their containers, so the last match in
// paint order wins.
func (c *Controller) HitTest(p geom.Point) (string, bool) {
	w := c.vs.Camera.ScreenToWorld(p)
	hit := ""
	for _, m := range c.layout.Visible(c.vs) {
		if r, ok := c.vs.Boxes.Rect(m.Path); ok && r.Contains(w) {
			hit = m.Path
		}
	}
	return hit, hit != ""
}

// BeginDrag starts dragging the visible module path with the pointer at
// screen point p. A drag already in progress is ended first. It returns
// false when path is not visible or has no box.
func (c *Controller) BeginDrag(path string, p geom.Point) bool {
	if c.drag != nil {
		c.EndDrag()
	}
	r, ok := c.vs.Boxes.Rect(path)
	if !ok || !c.layout.IsVisible(c.vs, path) {
		return false
	}
	c.drag = &dragState{
		path:     path,
		start:    c.vs.Camera.ScreenToWorld(p),
		origin:   r.TopLeft(),
		snapshot: c.layout.Snapshot(c.vs, path),
	}
	observability.Interaction().OnInteraction("drag_begin", true)
	return true
}

// UpdateDrag moves the dragged module so it follows the pointer at screen
// point p. Pointer movement is converted to world units, so dragging tracks
// the cursor at any zoom. Without an active drag it does nothing.
func (c *Controller) UpdateDrag(p geom.Point) bool {
	d := c.drag
	if d == nil {
		return false
	}
	delta := c.vs.Camera.ScreenToWorld(p).Sub(d.start)
	to := d.origin.Add(delta)
	return c.layout.Move(c.vs, d.path, to.X, to.Y)
}

// EndDrag drops the dragged module where it is and runs the end-of-drag
// cascade.
func (c *Controller) EndDrag() bool {
	d := c.drag
	if d == nil {
		return false
	}
	c.drag = nil
	c.layout.Cascade(c.vs, d.path)
	observability.Interaction().OnInteraction("drag_end", true)
	return true
}

// CancelDrag puts the dragged module and its subtree back where they were
// when the drag began and runs the same cascade as [Controller.EndDrag].
func (c *Controller) CancelDrag() bool {
	d := c.drag
	if d == nil {
		return false
	}
	c.drag = nil
	c.layout.Restore(c.vs, d.path, d.snapshot)
	c.layout.Cascade(c.vs, d.path)
	observability.Interaction().OnInteraction("drag_cancel", true)
	return true
}

// Dragging returns the path being dragged, if any.
func (c *Controller) Dragging() (string, bool) {
	if c.drag == nil {
		return "", false
	}
	return c.drag.path, true
}

// =============================================================================
// Frame
// =============================================================================

// Frame lays out the visible modules, routes their connections and returns
// the result for rendering. Layout always completes before routing reads
// the boxes.
func (c *Controller) Frame() graph.Frame {
	visible := c.relayout()

	start := time.Now()
	edges, st := c.router.RouteStats(c.vs, visible)
	observability.Layout().OnRoute(len(edges), st.Unresolved, st.SelfLoops, time.Since(start))

	idx := route.NewIndex(visible)
	f := graph.Frame{
		Transform: c.vs.Camera.Transform(),
		Camera:    graph.CameraFrom(c.vs.Camera),
		Nodes:     make([]graph.NodeView, 0, len(visible)),
		Edges:     make([]graph.EdgeView, 0, len(edges)),
	}
	for _, m := range visible {
		b, _ := c.vs.Boxes.Get(m.Path)
		f.Nodes = append(f.Nodes, graph.NodeView{
			Path:            m.Path,
			Name:            m.Name,
			Type:            string(m.Type),
			Level:           m.Level,
			Parent:          m.ParentPath,
			Box:             b.Rect,
			Manual:          b.Manual,
			Expanded:        c.vs.Expanded.Has(m.Path),
			HasChildren:     m.HasChildren(),
			ConnectionCount: len(c.router.Gather(idx, m)),
		})
	}
	for _, e := range edges {
		f.Edges = append(f.Edges, graph.EdgeFrom(e))
	}
	return f
}

func (c *Controller) relayout() []*module.Module {
	start := time.Now()
	c.layout.Layout(c.vs)
	visible := c.layout.Visible(c.vs)
	observability.Layout().OnLayout(len(visible), time.Since(start))
	return visible
}
