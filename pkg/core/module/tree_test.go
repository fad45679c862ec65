package module

import (
	"errors"
	"slices"
	"testing"
)

func TestNew(t *testing.T) {
	tree, err := New(
		[]string{"Rover/MainBoard/Power", "Rover/Drive", "/Rover/MainBoard/", "Bench"},
		map[string][]Connection{
			"Rover/Drive": {{Target: "Rover/MainBoard/Power", Interface: "VBAT"}},
		},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := tree.Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}

	roots := tree.Roots()
	if len(roots) != 2 || roots[0].Name != "Bench" || roots[1].Name != "Rover" {
		t.Fatalf("roots = %v, want [Bench Rover]", names(roots))
	}

	rover := roots[1]
	if got := names(rover.Children); !slices.Equal(got, []string{"Drive", "MainBoard"}) {
		t.Errorf("Rover children = %v, want [Drive MainBoard]", got)
	}

	power, ok := tree.Module("Rover/MainBoard/Power")
	if !ok {
		t.Fatal("Rover/MainBoard/Power not found")
	}
	if power.Level != 2 || power.ParentPath != "Rover/MainBoard" || power.Name != "Power" {
		t.Errorf("power = %+v", power)
	}

	drive, _ := tree.Module("Rover/Drive")
	if len(drive.Connections) != 1 {
		t.Errorf("Drive connections = %d, want 1", len(drive.Connections))
	}
	if err := tree.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		conns map[string][]Connection
		want  error
	}{
		{"empty path", []string{"  /  "}, nil, ErrInvalidPath},
		{"dot segment", []string{"A/../B"}, nil, ErrInvalidPath},
		{"unknown connection owner", []string{"A"}, map[string][]Connection{"B": {{Target: "A"}}}, ErrUnknownModule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.paths, tt.conns)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		want Type
	}{
		{"MainBoard", TypePCB},
		{"power_pcb", TypePCB},
		{"DriveSystem", TypeSystem},
		{"Arm Assembly", TypeSystem},
		{"Chassis", TypeSystem},
		{"IMU", TypeComponent},
	}
	for _, tt := range tests {
		if got := TypeOf(tt.name); got != tt.want {
			t.Errorf("TypeOf(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestWalkOrder(t *testing.T) {
	tree, err := New([]string{"B/y", "A/z", "A/x/deep", "B"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"A", "A/x", "A/x/deep", "A/z", "B", "B/y"}
	if got := tree.Paths(); !slices.Equal(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}
}

func TestDescendantsAndAncestors(t *testing.T) {
	tree, err := New([]string{"A/B/C", "A/D"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := paths(tree.Descendants("A")); !slices.Equal(got, []string{"A/B", "A/B/C", "A/D"}) {
		t.Errorf("Descendants(A) = %v", got)
	}
	if got := paths(tree.Ancestors("A/B/C")); !slices.Equal(got, []string{"A/B", "A"}) {
		t.Errorf("Ancestors(A/B/C) = %v", got)
	}
	if got := tree.Ancestors("missing"); got != nil {
		t.Errorf("Ancestors(missing) = %v, want nil", got)
	}

	var visited []string
	tree.WalkBelow("A", func(m *Module) bool {
		visited = append(visited, m.Path)
		return m.Path != "A/B"
	})
	if !slices.Equal(visited, []string{"A/B", "A/D"}) {
		t.Errorf("WalkBelow pruned = %v", visited)
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(tree *Tree)
		want    error
	}{
		{
			name: "unknown parent",
			corrupt: func(tree *Tree) {
				a, _ := tree.Module("A")
				b, _ := tree.Module("A/B")
				a.Children = nil
				b.ParentPath = "Z"
			},
			want: ErrUnknownParent,
		},
		{
			name: "child back-reference",
			corrupt: func(tree *Tree) {
				a, _ := tree.Module("A")
				a.Children = nil
			},
			want: ErrInconsistentChild,
		},
		{
			name: "cycle",
			corrupt: func(tree *Tree) {
				a, _ := tree.Module("A")
				c, _ := tree.Module("A/B/C")
				tree.roots = nil
				a.ParentPath = c.Path
				c.Children = append(c.Children, a)
			},
			want: ErrCycle,
		},
		{
			name: "duplicate path",
			corrupt: func(tree *Tree) {
				tree.index["A/B#2"] = &Module{Path: "A/B", Name: "B", ParentPath: "A"}
			},
			want: ErrDuplicatePath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := New([]string{"A/B/C"}, nil)
			if err != nil {
				t.Fatal(err)
			}
			tt.corrupt(tree)
			if err := tree.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConnectionLabel(t *testing.T) {
	tests := []struct {
		conn Connection
		want string
	}{
		{Connection{Target: "A/B", Interface: "I2C", Description: "sensor bus"}, "I2C: sensor bus"},
		{Connection{Target: "A/B", Kind: "power"}, "power"},
		{Connection{Target: "../Motor"}, "Motor"},
	}
	for _, tt := range tests {
		if got := tt.conn.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
	if !(Connection{Target: "../X"}).IsRelative() || (Connection{Target: "A/X"}).IsRelative() {
		t.Error("IsRelative misclassified targets")
	}
}

func names(ms []*Module) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func paths(ms []*Module) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Path
	}
	return out
}
