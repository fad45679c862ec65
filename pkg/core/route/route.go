package route

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/boardview/pkg/core/module"
	"github.com/matzehuels/boardview/pkg/core/viewstate"
)

// Router turns declared connections into edges between visible modules.
// It keeps no state between calls.
type Router struct {
	cfg  Config
	tree *module.Tree
}

// New returns a router over tree.
func New(tree *module.Tree, cfg Config) *Router {
	if cfg.Resolution == "" {
		cfg.Resolution = ByName
	}
	return &Router{cfg: cfg, tree: tree}
}

// Config returns the router configuration.
func (r *Router) Config() Config { return r.cfg }

// Index is the visible set of one routing pass, prepared for lookups.
type Index struct {
	order  []*module.Module
	set    map[string]bool
	byName map[string]string
}

// NewIndex indexes visible, which must be in visible (preorder) order.
func NewIndex(visible []*module.Module) *Index {
	idx := &Index{
		order:  visible,
		set:    make(map[string]bool, len(visible)),
		byName: make(map[string]string, len(visible)),
	}
	for _, m := range visible {
		idx.set[m.Path] = true
		if _, ok := idx.byName[m.Name]; !ok {
			idx.byName[m.Name] = m.Path
		}
	}
	return idx
}

// Has reports whether path is visible.
func (idx *Index) Has(path string) bool { return idx.set[path] }

// Link is a declared connection together with the module that declared it.
type Link struct {
	Declarer string
	Conn     module.Connection
}

// Stats counts what happened to the declared connections in one pass.
type Stats struct {
	Gathered   int
	Unresolved int
	SelfLoops  int
}

// Gather returns the connections attributed to the visible module m: its
// own, plus those of every descendant that is not visible. The walk does not
// enter visible descendants, which speak for themselves, so every declared
// connection is attributed to exactly one visible module.
//
// Own connections are kept even when m is expanded with visible children. A
// stricter split that used only hidden-descendant connections for open
// containers would silently drop whatever the container itself declares.
func (r *Router) Gather(idx *Index, m *module.Module) []Link {
	var out []Link
	for _, c := range m.Connections {
		out = append(out, Link{Declarer: m.Path, Conn: c})
	}
	r.tree.WalkBelow(m.Path, func(d *module.Module) bool {
		if idx.Has(d.Path) {
			return false
		}
		for _, c := range d.Connections {
			out = append(out, Link{Declarer: d.Path, Conn: c})
		}
		return true
	})
	return out
}

// Resolve maps a target reference declared by declarer to a visible module
// path. It reports false when nothing visible matches; such connections are
// dropped from the current pass.
func (r *Router) Resolve(idx *Index, ref, declarer string) (string, bool) {
	c := module.Connection{Target: ref}
	if r.cfg.Resolution == ByAncestry {
		target := module.Clean(ref)
		if c.IsRelative() {
			target = relative(declarer, ref)
		}
		if p, ok := r.nearestVisible(idx, target); ok {
			return p, true
		}
	} else if !c.IsRelative() {
		if p := module.Clean(ref); idx.Has(p) {
			return p, true
		}
	}
	p, ok := idx.byName[module.Base(ref)]
	return p, ok
}

// nearestVisible returns the closest visible ancestor-or-self of target, if
// target names a module of the tree.
func (r *Router) nearestVisible(idx *Index, target string) (string, bool) {
	if _, ok := r.tree.Module(target); !ok {
		return "", false
	}
	for p := target; p != ""; p = module.Parent(p) {
		if idx.Has(p) {
			return p, true
		}
	}
	return "", false
}

// relative applies a "./" or "../" reference to the declaring module's path.
// It returns "" when the reference climbs above the roots.
func relative(base, ref string) string {
	var segs []string
	if base != "" {
		segs = strings.Split(base, module.Separator)
	}
	for _, s := range strings.Split(ref, module.Separator) {
		switch s {
		case "", ".":
		case "..":
			if len(segs) == 0 {
				return ""
			}
			segs = segs[:len(segs)-1]
		default:
			segs = append(segs, s)
		}
	}
	return strings.Join(segs, module.Separator)
}

// Route gathers, resolves and aggregates the connections of the visible
// modules into edges sorted by (From, To). vs supplies the boxes used for
// anchors; a pair whose boxes are missing yields no edge.
func (r *Router) Route(vs *viewstate.ViewState, visible []*module.Module) []Edge {
	edges, _ := r.RouteStats(vs, visible)
	return edges
}

// RouteStats is [Router.Route] that also reports how many connections were
// dropped.
func (r *Router) RouteStats(vs *viewstate.ViewState, visible []*module.Module) ([]Edge, Stats) {
	type pair struct{ from, to string }

	idx := NewIndex(visible)
	groups := map[pair][]module.Connection{}
	var st Stats

	for _, m := range visible {
		for _, l := range r.Gather(idx, m) {
			st.Gathered++
			to, ok := r.Resolve(idx, l.Conn.Target, l.Declarer)
			switch {
			case !ok:
				st.Unresolved++
			case to == m.Path:
				st.SelfLoops++
			default:
				k := pair{m.Path, to}
				groups[k] = append(groups[k], l.Conn)
			}
		}
	}

	edges := make([]Edge, 0, len(groups))
	for k, members := range groups {
		fr, ok1 := vs.Boxes.Rect(k.from)
		tr, ok2 := vs.Boxes.Rect(k.to)
		if !ok1 || !ok2 {
			continue
		}
		a, b, horizontal := Anchors(fr, tr)
		edges = append(edges, Edge{
			From:       k.from,
			To:         k.to,
			AnchorFrom: a,
			AnchorTo:   b,
			Horizontal: horizontal,
			Count:      len(members),
			Thickness:  r.cfg.Thickness(len(members)),
			Members:    members,
		})
	}
	slices.SortFunc(edges, func(x, y Edge) int {
		return cmp.Or(strings.Compare(x.From, y.From), strings.Compare(x.To, y.To))
	})
	return edges, st
}
