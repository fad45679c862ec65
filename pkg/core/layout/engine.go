package layout

import (
	"github.com/matzehuels/boardview/pkg/core/geom"
	"github.com/matzehuels/boardview/pkg/core/module"
	"github.com/matzehuels/boardview/pkg/core/viewstate"
)

// Engine computes visibility and boxes for one module tree. It holds no view
// state of its own; every operation reads and writes the [viewstate.ViewState]
// it is given. An Engine is safe for concurrent use on distinct view states.
type Engine struct {
	cfg  Config
	tree *module.Tree
}

// New returns an engine for tree.
func New(tree *module.Tree, cfg Config) *Engine {
	return &Engine{cfg: cfg, tree: tree}
}

// Config returns the engine's dimensions.
func (e *Engine) Config() Config { return e.cfg }

// Tree returns the module tree the engine lays out.
func (e *Engine) Tree() *module.Tree { return e.tree }

// =============================================================================
// Visibility
// =============================================================================

// Visible returns the visible modules in deterministic preorder: every root,
// plus the children of every visible expanded module. A module is never
// visible while an ancestor is collapsed, whatever the expansion set says
// about the module itself.
func (e *Engine) Visible(vs *viewstate.ViewState) []*module.Module {
	var out []*module.Module
	e.tree.WalkPruned(func(m *module.Module) bool {
		out = append(out, m)
		return vs.Expanded.Has(m.Path)
	})
	return out
}

// VisibleSet returns the visible paths as a set.
func (e *Engine) VisibleSet(vs *viewstate.ViewState) map[string]bool {
	visible := e.Visible(vs)
	out := make(map[string]bool, len(visible))
	for _, m := range visible {
		out[m.Path] = true
	}
	return out
}

// IsVisible reports whether path is visible: it exists and every ancestor
// is expanded.
func (e *Engine) IsVisible(vs *viewstate.ViewState, path string) bool {
	if _, ok := e.tree.Module(path); !ok {
		return false
	}
	for _, a := range e.tree.Ancestors(path) {
		if !vs.Expanded.Has(a.Path) {
			return false
		}
	}
	return true
}

// HasVisibleChildren reports whether path is a visible expanded module with
// at least one child.
func (e *Engine) HasVisibleChildren(vs *viewstate.ViewState, path string) bool {
	m, ok := e.tree.Module(path)
	if !ok || !m.HasChildren() || !vs.Expanded.Has(path) {
		return false
	}
	return e.IsVisible(vs, path)
}

// children returns the visible children of a visible module m.
func (e *Engine) children(vs *viewstate.ViewState, m *module.Module) []*module.Module {
	if !vs.Expanded.Has(m.Path) {
		return nil
	}
	return m.Children
}

// =============================================================================
// Layout
// =============================================================================

// Layout brings the box map up to date with the visible set:
//
//  1. A bottom-up size pass computes the footprint each visible module would
//     need for its visible content.
//  2. A top-down pass places every visible module that has no stored box.
//     Roots go on a grid; nested modules go on a grid inside their parent's
//     content area. Stored boxes, manual or automatic, are never overwritten
//     here.
//  3. A bottom-up pass fits every visible expanded container around its
//     visible children.
//
// Boxes of hidden modules are kept so a later re-expansion restores them.
func (e *Engine) Layout(vs *viewstate.ViewState) {
	visible := e.Visible(vs)
	e.place(vs, visible)
	for i := len(visible) - 1; i >= 0; i-- {
		m := visible[i]
		if vs.Expanded.Has(m.Path) {
			e.fit(vs, m)
		}
	}
}

// ResetLayout discards every stored box, manual ones included, and lays the
// visible modules out from scratch.
func (e *Engine) ResetLayout(vs *viewstate.ViewState) {
	vs.Boxes.Reset()
	e.Layout(vs)
}

// place runs the size pass and assigns boxes to unlaid visible modules.
func (e *Engine) place(vs *viewstate.ViewState, visible []*module.Module) {
	sizes := e.sizes(vs, visible)
	sizeOf := func(m *module.Module) size {
		if s, ok := sizes[m.Path]; ok {
			return s
		}
		return e.defaultSize(m)
	}
	cells := func(ms []*module.Module) []size {
		out := make([]size, len(ms))
		for i, m := range ms {
			out[i] = sizeOf(m)
		}
		return out
	}

	roots := e.tree.Roots()
	rootOffsets, _ := grid(cells(roots), e.cfg.Spacing)
	for i, m := range roots {
		if _, ok := vs.Boxes.Get(m.Path); ok {
			continue
		}
		s := sizeOf(m)
		vs.Boxes.Set(m.Path, viewstate.Box{Rect: geom.Rect{
			X:      e.cfg.OriginX + rootOffsets[i].X,
			Y:      e.cfg.OriginY + rootOffsets[i].Y,
			Width:  s.w,
			Height: s.h,
		}})
	}

	// Preorder guarantees a parent is placed before its children.
	for _, parent := range visible {
		kids := e.children(vs, parent)
		if len(kids) == 0 {
			continue
		}
		offsets, _ := grid(cells(kids), e.cfg.ChildSpacing)
		pr, hasParent := vs.Boxes.Rect(parent.Path)
		for i, m := range kids {
			if _, ok := vs.Boxes.Get(m.Path); ok {
				continue
			}
			s := sizeOf(m)
			r := geom.Rect{X: e.cfg.DefaultX, Y: e.cfg.DefaultY, Width: s.w, Height: s.h}
			if hasParent {
				r.X = pr.X + e.cfg.Padding + offsets[i].X
				r.Y = pr.Y + e.cfg.TitleHeight + e.cfg.Padding + offsets[i].Y
			}
			vs.Boxes.Set(m.Path, viewstate.Box{Rect: r})
		}
	}
}

// sizes computes the footprint of each visible module bottom-up. visible is
// in preorder, so walking it backwards sees children before parents.
func (e *Engine) sizes(vs *viewstate.ViewState, visible []*module.Module) map[string]size {
	out := make(map[string]size, len(visible))
	for i := len(visible) - 1; i >= 0; i-- {
		m := visible[i]
		kids := e.children(vs, m)
		if len(kids) == 0 {
			out[m.Path] = e.defaultSize(m)
			continue
		}
		cells := make([]size, len(kids))
		for j, k := range kids {
			s, ok := out[k.Path]
			if !ok {
				s = e.defaultSize(k)
			}
			cells[j] = s
		}
		_, content := grid(cells, e.cfg.ChildSpacing)
		out[m.Path] = e.containerSize(content)
	}
	return out
}

func (e *Engine) containerSize(content size) size {
	return size{
		w: max(content.w+2*e.cfg.Padding, e.cfg.MinContainerWidth),
		h: max(content.h+e.cfg.TitleHeight+2*e.cfg.Padding, e.cfg.MinContainerHeight),
	}
}

// defaultSize is the collapsed footprint of m.
func (e *Engine) defaultSize(m *module.Module) size {
	if m.IsRoot() {
		return size{e.cfg.NodeWidth, e.cfg.NodeHeight}
	}
	return size{e.cfg.ChildWidth, e.cfg.ChildHeight}
}
