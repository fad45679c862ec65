package layout

import (
	"github.com/matzehuels/boardview/pkg/core/geom"
	"github.com/matzehuels/boardview/pkg/core/module"
	"github.com/matzehuels/boardview/pkg/core/viewstate"
)

// =============================================================================
// Expansion
// =============================================================================

// Expand marks path expanded, places any newly visible module that has no
// box yet and resizes the node and its expanded ancestors. Expanding a module
// without children is a no-op, and expanding a hidden module only records the
// flag. It reports whether the expansion set changed.
func (e *Engine) Expand(vs *viewstate.ViewState, path string) bool {
	m, ok := e.tree.Module(path)
	if !ok || !m.HasChildren() || vs.Expanded.Has(path) {
		return false
	}
	vs.Expanded.Add(path)
	if e.IsVisible(vs, path) {
		// Hidden descendants may already be expanded, so the whole visible
		// set is refitted rather than only the chain above path.
		e.Layout(vs)
	}
	return true
}

// Collapse clears path and every descendant from the expansion set, resets
// each cleared descendant to its collapsed footprint and resizes the node and
// its expanded ancestors. It reports whether the expansion set changed.
func (e *Engine) Collapse(vs *viewstate.ViewState, path string) bool {
	if !vs.Expanded.Has(path) {
		return false
	}
	vs.Expanded.Remove(path)
	for _, d := range e.tree.Descendants(path) {
		if !vs.Expanded.Has(d.Path) {
			continue
		}
		vs.Expanded.Remove(d.Path)
		e.shrink(vs, d)
	}
	e.Cascade(vs, path)
	return true
}

// Toggle expands a collapsed module or collapses an expanded one and returns
// the new expansion state. Leaves and unknown paths stay collapsed.
func (e *Engine) Toggle(vs *viewstate.ViewState, path string) bool {
	if vs.Expanded.Has(path) {
		e.Collapse(vs, path)
		return false
	}
	return e.Expand(vs, path)
}

// ExpandAll expands every module that has children and lays out the result.
func (e *Engine) ExpandAll(vs *viewstate.ViewState) {
	e.tree.Walk(func(m *module.Module) bool {
		if m.HasChildren() {
			vs.Expanded.Add(m.Path)
		}
		return true
	})
	e.Layout(vs)
}

// CollapseAll empties the expansion set, returning every formerly expanded
// module to its collapsed footprint.
func (e *Engine) CollapseAll(vs *viewstate.ViewState) {
	for _, p := range vs.Expanded.Paths() {
		vs.Expanded.Remove(p)
		if m, ok := e.tree.Module(p); ok {
			e.shrink(vs, m)
		}
	}
	e.Layout(vs)
}

// =============================================================================
// Cascade
// =============================================================================

// Cascade resizes path and then walks up its ancestors:
//
//   - The node itself is fitted around its visible children when it is
//     expanded, and otherwise returned to its collapsed footprint.
//   - Each expanded ancestor is refitted around its visible children. The
//     walk stops at the first collapsed ancestor or at a root.
//
// A node without a stored box is left alone, and so are its ancestors.
func (e *Engine) Cascade(vs *viewstate.ViewState, path string) {
	m, ok := e.tree.Module(path)
	if !ok {
		return
	}
	if _, ok := vs.Boxes.Get(path); !ok {
		return
	}
	if vs.Expanded.Has(path) {
		e.fit(vs, m)
	} else {
		e.shrink(vs, m)
	}
	e.cascadeAncestors(vs, path)
}

func (e *Engine) cascadeAncestors(vs *viewstate.ViewState, path string) {
	for _, a := range e.tree.Ancestors(path) {
		if !vs.Expanded.Has(a.Path) {
			return
		}
		if _, ok := vs.Boxes.Get(a.Path); !ok {
			return
		}
		e.fit(vs, a)
	}
}

// fit resizes the expanded container m around the union of its children's
// boxes, leaving room for the title bar and padding and never going below
// the minimum container footprint. A container with no laid-out children
// falls back to its collapsed footprint.
func (e *Engine) fit(vs *viewstate.ViewState, m *module.Module) {
	if _, ok := vs.Boxes.Get(m.Path); !ok {
		return
	}
	var rects []geom.Rect
	for _, c := range e.children(vs, m) {
		if r, ok := vs.Boxes.Rect(c.Path); ok {
			rects = append(rects, r)
		}
	}
	u, ok := geom.Bounds(rects)
	if !ok {
		e.shrink(vs, m)
		return
	}
	s := e.containerSize(size{u.Width, u.Height})
	vs.Boxes.SetRect(m.Path, geom.Rect{
		X:      u.X - e.cfg.Padding,
		Y:      u.Y - e.cfg.TitleHeight - e.cfg.Padding,
		Width:  s.w,
		Height: s.h,
	})
}

// shrink returns m to its collapsed footprint, pinned at its top-left.
func (e *Engine) shrink(vs *viewstate.ViewState, m *module.Module) {
	r, ok := vs.Boxes.Rect(m.Path)
	if !ok {
		return
	}
	s := e.defaultSize(m)
	r.Width, r.Height = s.w, s.h
	vs.Boxes.SetRect(m.Path, r)
}

// =============================================================================
// Manual placement
// =============================================================================

// Move places the top-left of path at (x, y) in world coordinates and marks
// the box manual. Every stored descendant box moves by the same delta so the
// subtree stays rigid. This includes hidden descendants, not only visible
// ones, so a later re-expand shows them where the parent now is. Expanded
// ancestors are refitted afterwards; no other box changes. Moving an unlaid
// module is a no-op.
func (e *Engine) Move(vs *viewstate.ViewState, path string, x, y float64) bool {
	b, ok := vs.Boxes.Get(path)
	if !ok {
		return false
	}
	dx, dy := x-b.X, y-b.Y
	b.X, b.Y = x, y
	b.Manual = true
	vs.Boxes.Set(path, b)

	if dx != 0 || dy != 0 {
		for _, d := range e.tree.Descendants(path) {
			if r, ok := vs.Boxes.Rect(d.Path); ok {
				vs.Boxes.SetRect(d.Path, r.Translate(dx, dy))
			}
		}
	}
	e.cascadeAncestors(vs, path)
	return true
}

// Snapshot copies the stored boxes of path and its descendants.
func (e *Engine) Snapshot(vs *viewstate.ViewState, path string) viewstate.BoxMap {
	out := viewstate.BoxMap{}
	if b, ok := vs.Boxes.Get(path); ok {
		out.Set(path, b)
	}
	for _, d := range e.tree.Descendants(path) {
		if b, ok := vs.Boxes.Get(d.Path); ok {
			out.Set(d.Path, b)
		}
	}
	return out
}

// Restore writes a [Engine.Snapshot] of path back, manual flags included,
// and refits the expanded ancestors of path.
func (e *Engine) Restore(vs *viewstate.ViewState, path string, snap viewstate.BoxMap) {
	for p, b := range snap {
		vs.Boxes.Set(p, b)
	}
	e.cascadeAncestors(vs, path)
}
