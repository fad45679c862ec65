package loader

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/boardview/pkg/core/module"
	"github.com/matzehuels/boardview/pkg/errors"
)

// writeTree creates dirs (slash paths) under a new root named "Rover" and
// writes the given files.
func writeTree(t *testing.T, dirs []string, files map[string]string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "Rover")
	for _, d := range append([]string{"."}, dirs...) {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestLoad(t *testing.T) {
	root := writeTree(t,
		[]string{"MainBoard/MCU", "Power", "Drive"},
		map[string]string{
			"MainBoard/connections.json": `[{"target": "../Power", "interface": "I2C"}, {"to": "Drive", "type": "pwm"}]`,
			"Power/connections.yaml":     "connections:\n  - target: MainBoard/MCU\n    signals: [VCC, GND]\n",
			"Drive/notes.txt":            "not a connection file",
		},
	)

	res, err := Load(context.Background(), root, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"Rover", "Rover/Drive", "Rover/MainBoard", "Rover/MainBoard/MCU", "Rover/Power"}
	if got := res.Tree.Paths(); !slices.Equal(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}

	mb, _ := res.Tree.Module("Rover/MainBoard")
	if len(mb.Connections) != 2 {
		t.Fatalf("MainBoard connections = %+v", mb.Connections)
	}
	if c := mb.Connections[0]; c.Target != "../Power" || c.Interface != "I2C" || !c.IsRelative() {
		t.Errorf("first connection = %+v", c)
	}
	if c := mb.Connections[1]; c.Target != "Drive" || c.Kind != "pwm" {
		t.Errorf("'to' alias not honoured: %+v", c)
	}

	pw, _ := res.Tree.Module("Rover/Power")
	if len(pw.Connections) != 1 || !slices.Equal(pw.Connections[0].Signals, []string{"VCC", "GND"}) {
		t.Errorf("Power connections = %+v", pw.Connections)
	}
}

func TestLoadSkips(t *testing.T) {
	root := writeTree(t,
		[]string{".git/objects", "build/out", "Sensor", "node_modules/x", "Extra"},
		map[string]string{".gitignore": "build/\n"},
	)

	res, err := Load(context.Background(), root, Options{Skip: []string{"Extra"}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := res.Tree.Paths(); !slices.Equal(got, []string{"Rover", "Rover/Sensor"}) {
		t.Errorf("paths = %v", got)
	}
	if !slices.Equal(res.Skipped, []string{"Extra", "build", "node_modules"}) {
		t.Errorf("skipped = %v", res.Skipped)
	}

	res, err = Load(context.Background(), root, Options{NoGitignore: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Tree.Module("Rover/build/out"); !ok {
		t.Error("NoGitignore still skipped build/")
	}
}

func TestLoadMaxDepth(t *testing.T) {
	root := writeTree(t, []string{"A/B/C"}, nil)
	res, err := Load(context.Background(), root, Options{MaxDepth: 2})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Tree.Paths(); !slices.Equal(got, []string{"Rover", "Rover/A", "Rover/A/B"}) {
		t.Errorf("paths = %v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	bad := writeTree(t, []string{"M"}, map[string]string{"M/connections.json": `{"connections": [`})
	file := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		root string
		code errors.Code
	}{
		{"malformed json", bad, errors.ErrCodeInvalidFormat},
		{"missing root", filepath.Join(t.TempDir(), "nope"), errors.ErrCodeNotFound},
		{"root is a file", file, errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.root, Options{})
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadCanceled(t *testing.T) {
	root := writeTree(t, []string{"A"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, root, Options{}); err == nil {
		t.Error("Load with canceled context succeeded")
	}
}

func TestParseConnections(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    string
		want    []module.Connection
		wantErr bool
	}{
		{"json list", "connections.json", `[{"target":"A"}]`, []module.Connection{{Target: "A"}}, false},
		{"json object", "connections.json", `{"connections":[{"target":"/A/B/","description":"x"}]}`,
			[]module.Connection{{Target: "A/B", Description: "x"}}, false},
		{"empty json", "connections.json", "  ", []module.Connection{}, false},
		{"yaml list", "connections.yml", "- to: ./S\n  interface: SPI\n", []module.Connection{{Target: "./S", Interface: "SPI"}}, false},
		{"missing target", "connections.json", `[{"interface":"SPI"}]`, nil, true},
		{"bad yaml", "connections.yaml", "connections: [", nil, true},
		{"unknown extension", "connections.toml", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConnections(tt.file, []byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i].Target != tt.want[i].Target || got[i].Interface != tt.want[i].Interface ||
					got[i].Description != tt.want[i].Description {
					t.Errorf("[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
