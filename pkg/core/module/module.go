package module

import (
	"strings"
)

// Type is the categorical tag of a module, derived from its name.
type Type string

// Module types.
const (
	TypePCB       Type = "pcb"
	TypeComponent Type = "component"
	TypeSystem    Type = "system"
)

// Connection is one declared link from a module to a target reference.
// Connections are parsed once and never modified.
type Connection struct {
	// Target is a path expression. It is either absolute ("Rover/Power")
	// or relative to the declaring module ("../Power", "./Sensor"), and
	// need not resolve to a visible module.
	Target      string   `json:"target" yaml:"target"`
	Kind        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Interface   string   `json:"interface,omitempty" yaml:"interface,omitempty"`
	Signals     []string `json:"signals,omitempty" yaml:"signals,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// IsRelative reports whether the target starts with a self or ancestor marker.
func (c Connection) IsRelative() bool {
	return c.Target == "." || c.Target == ".." ||
		strings.HasPrefix(c.Target, "./") || strings.HasPrefix(c.Target, "../")
}

// Label returns the text used for this connection in edge tooltips.
func (c Connection) Label() string {
	name := c.Interface
	if name == "" {
		name = c.Kind
	}
	if name == "" {
		name = Base(c.Target)
	}
	if c.Description == "" {
		return name
	}
	return name + ": " + c.Description
}

// Module is one node of the hardware hierarchy.
//
// Structure is fixed once the owning [Tree] is built; expansion state lives
// outside the module in a viewstate.ExpansionSet.
type Module struct {
	Path       string
	Name       string
	Level      int
	Type       Type
	ParentPath string // empty for roots

	Children    []*Module    // sorted by Name
	Connections []Connection // nil if none declared
}

// IsRoot reports whether the module has no parent.
func (m *Module) IsRoot() bool { return m.ParentPath == "" }

// HasChildren reports whether the module owns any child modules.
func (m *Module) HasChildren() bool { return len(m.Children) > 0 }

// TypeOf derives a module type from its name. Names mentioning a board are
// PCBs, names mentioning a system or assembly are systems, and everything
// else is a component.
func TypeOf(name string) Type {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "pcb"), strings.Contains(n, "board"):
		return TypePCB
	case strings.Contains(n, "system"), strings.Contains(n, "assembly"), strings.Contains(n, "chassis"):
		return TypeSystem
	default:
		return TypeComponent
	}
}
