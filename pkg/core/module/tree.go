package module

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidPath is returned by [New] when a path is empty after cleaning
	// or contains a "." or ".." segment.
	ErrInvalidPath = errors.New("invalid module path")

	// ErrUnknownModule is returned by [New] when connections are declared for
	// a path that is not part of the tree.
	ErrUnknownModule = errors.New("unknown module")

	// ErrDuplicatePath is returned by [Tree.Validate] when two distinct
	// modules share a path.
	ErrDuplicatePath = errors.New("duplicate module path")

	// ErrUnknownParent is returned by [Tree.Validate] when a non-root
	// module's parent path does not resolve.
	ErrUnknownParent = errors.New("unknown parent module")

	// ErrInconsistentChild is returned by [Tree.Validate] when the children
	// list and the parent path of a module disagree.
	ErrInconsistentChild = errors.New("inconsistent parent/child link")

	// ErrCycle is returned by [Tree.Validate] when parent links form a cycle
	// or a module is unreachable from the roots.
	ErrCycle = errors.New("module hierarchy contains a cycle")
)

// Tree is the static module hierarchy built once per load.
//
// The zero value is an empty tree. Tree is read-only after construction and
// therefore safe for concurrent readers.
type Tree struct {
	roots []*Module
	index map[string]*Module
}

// New builds a tree from the observed module paths and the connections
// declared per path. Intermediate ancestors missing from paths are created.
// Duplicate paths in the input are merged. Children are sorted by name.
func New(paths []string, conns map[string][]Connection) (*Tree, error) {
	t := &Tree{index: make(map[string]*Module, len(paths))}

	for _, raw := range paths {
		p := Clean(raw)
		if err := checkPath(p); err != nil {
			return nil, fmt.Errorf("%w: %q", err, raw)
		}
		t.ensure(p)
	}

	for raw, cs := range conns {
		m, ok := t.index[Clean(raw)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownModule, raw)
		}
		if len(cs) > 0 {
			m.Connections = slices.Clone(cs)
		}
	}

	byName := func(a, b *Module) int { return strings.Compare(a.Name, b.Name) }
	slices.SortFunc(t.roots, byName)
	for _, m := range t.index {
		slices.SortFunc(m.Children, byName)
	}
	return t, nil
}

func checkPath(p string) error {
	if p == "" {
		return ErrInvalidPath
	}
	for _, s := range strings.Split(p, Separator) {
		if s == "." || s == ".." {
			return ErrInvalidPath
		}
	}
	return nil
}

// ensure returns the module at p, creating it and its ancestors as needed.
func (t *Tree) ensure(p string) *Module {
	if m, ok := t.index[p]; ok {
		return m
	}
	name := Base(p)
	m := &Module{
		Path:       p,
		Name:       name,
		Level:      Depth(p),
		Type:       TypeOf(name),
		ParentPath: Parent(p),
	}
	t.index[p] = m
	if m.ParentPath == "" {
		t.roots = append(t.roots, m)
	} else {
		parent := t.ensure(m.ParentPath)
		parent.Children = append(parent.Children, m)
	}
	return m
}

// Len returns the number of modules in the tree.
func (t *Tree) Len() int { return len(t.index) }

// Roots returns the root modules sorted by name. The slice must not be
// modified.
func (t *Tree) Roots() []*Module { return t.roots }

// Module returns the module at path and true, or nil and false.
func (t *Tree) Module(path string) (*Module, bool) {
	m, ok := t.index[path]
	return m, ok
}

// Walk visits modules in deterministic preorder (roots by name, children by
// name) until fn returns false. Traversal uses an explicit stack and never
// visits a path twice.
func (t *Tree) Walk(fn func(m *Module) bool) {
	walkFrom(t.roots, func(m *Module) (bool, bool) { return fn(m), true })
}

// WalkPruned visits modules in the same order as [Tree.Walk], descending
// below a module only when visit returns true for it.
func (t *Tree) WalkPruned(visit func(m *Module) bool) {
	walkFrom(t.roots, func(m *Module) (bool, bool) { return true, visit(m) })
}

// walkFrom runs an iterative preorder walk over starts. visit returns
// (continue, descend).
func walkFrom(starts []*Module, visit func(m *Module) (bool, bool)) {
	stack := make([]*Module, 0, len(starts))
	for i := len(starts) - 1; i >= 0; i-- {
		stack = append(stack, starts[i])
	}
	seen := make(map[string]bool)

	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[m.Path] {
			continue
		}
		seen[m.Path] = true

		cont, descend := visit(m)
		if !cont {
			return
		}
		if !descend {
			continue
		}
		for i := len(m.Children) - 1; i >= 0; i-- {
			stack = append(stack, m.Children[i])
		}
	}
}

// Descendants returns every module strictly below path, in preorder.
func (t *Tree) Descendants(path string) []*Module {
	m, ok := t.index[path]
	if !ok {
		return nil
	}
	var out []*Module
	walkFrom(m.Children, func(d *Module) (bool, bool) {
		out = append(out, d)
		return true, true
	})
	return out
}

// WalkBelow visits the descendants of path in preorder. visit returns false
// to skip the subtree below the visited module.
func (t *Tree) WalkBelow(path string, visit func(m *Module) bool) {
	m, ok := t.index[path]
	if !ok {
		return
	}
	walkFrom(m.Children, func(d *Module) (bool, bool) { return true, visit(d) })
}

// Ancestors returns the parent chain of path, nearest first. The walk is
// bounded by the tree size.
func (t *Tree) Ancestors(path string) []*Module {
	m, ok := t.index[path]
	if !ok {
		return nil
	}
	var out []*Module
	for i := 0; m.ParentPath != "" && i < len(t.index); i++ {
		p, ok := t.index[m.ParentPath]
		if !ok {
			break
		}
		out = append(out, p)
		m = p
	}
	return out
}

// Paths returns every module path in preorder.
func (t *Tree) Paths() []string {
	out := make([]string, 0, len(t.index))
	t.Walk(func(m *Module) bool {
		out = append(out, m.Path)
		return true
	})
	return out
}

// ConnectionCount returns the total number of declared connections.
func (t *Tree) ConnectionCount() int {
	n := 0
	for _, m := range t.index {
		n += len(m.Connections)
	}
	return n
}

// Validate checks structural integrity:
//
//  1. Every non-root module's parent path resolves.
//  2. Parent paths and children lists agree in both directions.
//  3. No two distinct modules share a path.
//  4. Every module is reachable from a root exactly once (no cycles).
//
// Trees produced by [New] always validate; Validate exists for trees decoded
// from external sources.
func (t *Tree) Validate() error {
	for p, m := range t.index {
		if m.Path != p {
			return fmt.Errorf("%w: %q indexed as %q", ErrDuplicatePath, m.Path, p)
		}
		for _, c := range m.Children {
			if c.ParentPath != m.Path {
				return fmt.Errorf("%w: %q lists %q", ErrInconsistentChild, m.Path, c.Path)
			}
		}
		if m.ParentPath == "" {
			continue
		}
		parent, ok := t.index[m.ParentPath]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownParent, m.ParentPath)
		}
		if !slices.Contains(parent.Children, m) {
			return fmt.Errorf("%w: %q missing from %q", ErrInconsistentChild, m.Path, parent.Path)
		}
	}

	seen := make(map[string]*Module, len(t.index))
	stack := slices.Clone(t.roots)
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if prev, ok := seen[m.Path]; ok {
			if prev != m {
				return fmt.Errorf("%w: %q", ErrDuplicatePath, m.Path)
			}
			return fmt.Errorf("%w: %q reached twice", ErrCycle, m.Path)
		}
		seen[m.Path] = m
		stack = append(stack, m.Children...)
	}
	if len(seen) != len(t.index) {
		return fmt.Errorf("%w: %d of %d modules unreachable", ErrCycle, len(t.index)-len(seen), len(t.index))
	}
	return nil
}
