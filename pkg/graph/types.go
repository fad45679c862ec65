package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/boardview/pkg/core/module"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatDOT, FormatPNG, FormatJSON}

// =============================================================================
// Graph - Module Hierarchy Serialization
// =============================================================================

// Graph is the canonical serialization format for a module tree and its
// declared connections. It is independent of any view state.
//
// The format round-trips: FromTree → MarshalGraph → ReadGraph rebuilds an
// identical tree.
type Graph struct {
	Modules     []Node `json:"modules"`
	Connections []Edge `json:"connections,omitempty"`
}

// Node is one module in a [Graph].
type Node struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Level  int    `json:"level"`
	Parent string `json:"parent,omitempty"`
}

// Edge is one declared connection, keyed by the module that declares it.
// The connection fields are inlined.
type Edge struct {
	From string `json:"from"`
	module.Connection
}

// =============================================================================
// Tree ↔ Graph Conversion
// =============================================================================

// FromTree converts a module tree to its serialization format. Modules are
// listed in tree preorder and connections in declaration order.
func FromTree(t *module.Tree) Graph {
	out := Graph{Modules: make([]Node, 0, t.Len())}
	t.Walk(func(m *module.Module) bool {
		out.Modules = append(out.Modules, Node{
			Path:   m.Path,
			Name:   m.Name,
			Type:   string(m.Type),
			Level:  m.Level,
			Parent: m.ParentPath,
		})
		for _, c := range m.Connections {
			out.Connections = append(out.Connections, Edge{From: m.Path, Connection: cloneConn(c)})
		}
		return true
	})
	return out
}

// ToTree rebuilds a module tree from g. Names, types and levels are derived
// from the paths; the serialized values are checked against them so a
// hand-edited file cannot silently disagree with its own paths.
func ToTree(g Graph) (*module.Tree, error) {
	paths := make([]string, len(g.Modules))
	for i, n := range g.Modules {
		paths[i] = n.Path
	}
	conns := map[string][]module.Connection{}
	for _, e := range g.Connections {
		from := module.Clean(e.From)
		conns[from] = append(conns[from], cloneConn(e.Connection))
	}

	t, err := module.New(paths, conns)
	if err != nil {
		return nil, err
	}
	for _, n := range g.Modules {
		m, _ := t.Module(module.Clean(n.Path))
		if n.Parent != "" && n.Parent != m.ParentPath {
			return nil, fmt.Errorf("module %s: parent %q does not match path", n.Path, n.Parent)
		}
		if n.Name != "" && n.Name != m.Name {
			return nil, fmt.Errorf("module %s: name %q does not match path", n.Path, n.Name)
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Sorted returns a copy of g with modules ordered by path. Connections keep
// their relative order per module.
func (g Graph) Sorted() Graph {
	out := Graph{
		Modules:     slices.Clone(g.Modules),
		Connections: slices.Clone(g.Connections),
	}
	slices.SortFunc(out.Modules, func(a, b Node) int { return strings.Compare(a.Path, b.Path) })
	slices.SortStableFunc(out.Connections, func(a, b Edge) int { return strings.Compare(a.From, b.From) })
	return out
}

func cloneConn(c module.Connection) module.Connection {
	c.Signals = slices.Clone(c.Signals)
	return c
}
