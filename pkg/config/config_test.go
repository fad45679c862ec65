package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/boardview/pkg/core/route"
	"github.com/matzehuels/boardview/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if got, want := DefaultPath(), filepath.Join(dir, "boardview", "config.toml"); got != want {
		t.Fatalf("DefaultPath = %q, want %q", got, want)
	}
	cfg := Default()
	cfg.Server.Addr = ":9999"
	if err := Save(cfg, DefaultPath()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Server.Addr != ":9999" || got.Render.CacheTTL != 24*time.Hour {
		t.Errorf("round trip lost values: %+v", got.Server)
	}
}

func TestLoadOverrides(t *testing.T) {
	p := writeConfig(t, `
[camera]
max_zoom = 8.0
zoom_step = 1.25

[layout]
node_width = 200

[route]
resolution = "ancestry"

[render]
formats = ["svg", "png"]
cache_ttl = "30m"

[loader]
skip = ["docs"]
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Camera.MaxZoom != 8 || cfg.Camera.MinZoom != 0.1 {
		t.Errorf("Camera = %+v", cfg.Camera)
	}
	if cfg.Layout.NodeWidth != 200 || cfg.Layout.NodeHeight != 80 {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	if cfg.Route.Resolution != route.ByAncestry || cfg.Route.MaxThickness != 8 {
		t.Errorf("Route = %+v", cfg.Route)
	}
	if cfg.Render.CacheTTL != 30*time.Minute || len(cfg.Render.Formats) != 2 {
		t.Errorf("Render = %+v", cfg.Render)
	}

	opts := cfg.ControllerOptions()
	if opts.ZoomStep != 1.25 || opts.Layout.NodeWidth != 200 {
		t.Errorf("ControllerOptions = %+v", opts)
	}
	cam, err := cfg.NewCamera()
	if err != nil || cam.MaxZoom != 8 {
		t.Errorf("NewCamera = %+v, %v", cam, err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"syntax", "[camera\n", "parse"},
		{"unknown key", "[camera]\nzoom = 2\n", "unknown keys camera.zoom"},
		{"zoom bounds", "[camera]\nmin_zoom = 2.0\nmax_zoom = 1.0\n", "Camera.MaxZoom"},
		{"format", "[render]\nformats = [\"gif\"]\n", "one of"},
		{"resolution", "[route]\nresolution = \"fuzzy\"\n", "Route.Resolution"},
		{"redis addr", "[render]\nredis_addr = \"nohost\"\n", "RedisAddr"},
		{"zoom step", "[camera]\nzoom_step = 1.0\n", "ZoomStep"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("err = %v, want INVALID_CONFIG", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v", err)
	}
}
