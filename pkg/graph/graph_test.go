package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/boardview/pkg/core/geom"
	"github.com/matzehuels/boardview/pkg/core/module"
)

func buildTree(t *testing.T) *module.Tree {
	t.Helper()
	tree, err := module.New(
		[]string{"Rover/MainBoard/Power", "Rover/Drive", "Base"},
		map[string][]module.Connection{
			"Rover/Drive": {{Target: "Rover/MainBoard/Power", Kind: "power", Interface: "VBAT", Signals: []string{"VBAT", "GND"}}},
			"Base":        {{Target: "Rover", Interface: "LoRa", Description: "telemetry"}},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestFromTree(t *testing.T) {
	g := FromTree(buildTree(t))

	var paths []string
	for _, n := range g.Modules {
		paths = append(paths, n.Path)
	}
	want := []string{"Base", "Rover", "Rover/Drive", "Rover/MainBoard", "Rover/MainBoard/Power"}
	if !slices.Equal(paths, want) {
		t.Errorf("modules = %v, want %v", paths, want)
	}
	if len(g.Connections) != 2 {
		t.Fatalf("connections = %d, want 2", len(g.Connections))
	}
	if g.Connections[0].From != "Base" || g.Connections[1].Interface != "VBAT" {
		t.Errorf("connections out of order: %+v", g.Connections)
	}
	if g.Modules[3].Type != string(module.TypePCB) {
		t.Errorf("MainBoard type = %q, want pcb", g.Modules[3].Type)
	}
}

func TestGraphRoundTrip(t *testing.T) {
	orig := buildTree(t)

	var buf bytes.Buffer
	if err := WriteGraph(orig, &buf); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}
	if !strings.Contains(buf.String(), `"interface": "VBAT"`) {
		t.Errorf("connection fields not inlined:\n%s", buf.String())
	}

	got, err := ReadGraph(&buf)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if !slices.Equal(got.Paths(), orig.Paths()) {
		t.Errorf("paths = %v, want %v", got.Paths(), orig.Paths())
	}
	if got.ConnectionCount() != orig.ConnectionCount() {
		t.Errorf("connections = %d, want %d", got.ConnectionCount(), orig.ConnectionCount())
	}
	d, _ := got.Module("Rover/Drive")
	if !slices.Equal(d.Connections[0].Signals, []string{"VBAT", "GND"}) {
		t.Errorf("signals = %v", d.Connections[0].Signals)
	}
}

func TestToTreeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   Graph
	}{
		{"invalid path", Graph{Modules: []Node{{Path: "a/../b"}}}},
		{"unknown declarer", Graph{Modules: []Node{{Path: "a"}}, Connections: []Edge{{From: "b"}}}},
		{"parent mismatch", Graph{Modules: []Node{{Path: "a/b", Parent: "c"}}}},
		{"name mismatch", Graph{Modules: []Node{{Path: "a/b", Name: "x"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ToTree(tt.in); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteGraphFile(buildTree(t), path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	got, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if got.Len() != 5 {
		t.Errorf("Len = %d, want 5", got.Len())
	}
	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSorted(t *testing.T) {
	g := Graph{
		Modules:     []Node{{Path: "b"}, {Path: "a"}},
		Connections: []Edge{{From: "b", Connection: module.Connection{Target: "1"}}, {From: "a"}, {From: "b", Connection: module.Connection{Target: "2"}}},
	}
	s := g.Sorted()
	if s.Modules[0].Path != "a" || g.Modules[0].Path != "b" {
		t.Errorf("Sorted modules = %+v, original = %+v", s.Modules, g.Modules)
	}
	if s.Connections[1].Target != "1" || s.Connections[2].Target != "2" {
		t.Errorf("Sorted is not stable: %+v", s.Connections)
	}
}

func sampleFrame() Frame {
	return Frame{
		Transform: "translate(10px, 20px) scale(1)",
		Camera:    CameraView{X: 10, Y: 20, Zoom: 1, MinZoom: 0.1, MaxZoom: 5},
		Nodes: []NodeView{
			{Path: "A", Name: "A", Box: geom.Rect{X: 0, Y: 0, Width: 100, Height: 50}, Expanded: true, HasChildren: true},
			{Path: "A/B", Name: "B", Parent: "A", Level: 1, Box: geom.Rect{X: 10, Y: 30, Width: 40, Height: 10}},
			{Path: "C", Name: "C", Box: geom.Rect{X: 200, Y: 0, Width: 100, Height: 50}},
		},
		Edges: []EdgeView{{From: "A/B", To: "C", Count: 1, Thickness: 2}},
	}
}

func TestFrameHelpers(t *testing.T) {
	f := sampleFrame()
	n, ok := f.Node("A")
	if !ok || !n.IsContainer() {
		t.Errorf("Node(A) = %+v, %v", n, ok)
	}
	if _, ok := f.Node("missing"); ok {
		t.Error("Node(missing) found")
	}
	b, ok := f.Bounds()
	if !ok || b != (geom.Rect{X: 0, Y: 0, Width: 300, Height: 50}) {
		t.Errorf("Bounds = %+v, %v", b, ok)
	}
}

func TestUnmarshalFrame(t *testing.T) {
	data, err := MarshalFrame(sampleFrame())
	if err != nil {
		t.Fatal(err)
	}
	f, err := UnmarshalFrame(data)
	if err != nil {
		t.Fatalf("UnmarshalFrame: %v", err)
	}
	if len(f.Nodes) != 3 || f.Edges[0].To != "C" {
		t.Errorf("frame = %+v", f)
	}

	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{`},
		{"zero zoom", `{"camera": {"zoom": 0}}`},
		{"dangling edge", `{"camera": {"zoom": 1}, "nodes": [{"path": "A"}], "edges": [{"from": "A", "to": "B"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalFrame([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFrameFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.json")
	if err := WriteFrameFile(sampleFrame(), path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	f, err := ReadFrameFile(path)
	if err != nil {
		t.Fatalf("ReadFrameFile: %v", err)
	}
	if f.Transform != sampleFrame().Transform {
		t.Errorf("Transform = %q", f.Transform)
	}
}
