package svg

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/boardview/pkg/core/geom"
	"github.com/matzehuels/boardview/pkg/graph"
)

func testFrame() graph.Frame {
	return graph.Frame{
		Camera: graph.CameraView{X: 320, Y: 200, Zoom: 1.5, ViewportW: 1280, ViewportH: 800},
		Nodes: []graph.NodeView{
			{Path: "Rover", Name: "Rover", Type: "component", Expanded: true, HasChildren: true,
				Box: geom.Rect{X: 0, Y: 0, Width: 340, Height: 160}},
			{Path: "Rover/MainBoard", Name: "MainBoard", Type: "pcb", Level: 1, Parent: "Rover", ConnectionCount: 2,
				Box: geom.Rect{X: 20, Y: 50, Width: 140, Height: 60}},
			{Path: "Base", Name: "Base <1>", Type: "system", HasChildren: true,
				Box: geom.Rect{X: 400, Y: 0, Width: 180, Height: 80}},
		},
		Edges: []graph.EdgeView{{
			From: "Rover/MainBoard", To: "Base",
			AnchorFrom: geom.Point{X: 160, Y: 80}, AnchorTo: geom.Point{X: 400, Y: 40},
			Count: 2, Thickness: 3, Tooltip: "SPI: flash\nI2C",
		}},
	}
}

func TestRenderIsWellFormed(t *testing.T) {
	out := Render(testFrame(), Options{Interactive: true})
	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v\n%s", err, out)
		}
	}
}

func TestRenderCameraTransform(t *testing.T) {
	out := string(Render(testFrame(), Options{}))
	if !strings.Contains(out, `<g id="camera" transform="translate(320 200) scale(1.5)">`) {
		t.Errorf("camera group missing:\n%s", out)
	}
	if !strings.Contains(out, `width="1280" height="800"`) {
		t.Errorf("viewport size missing:\n%s", out)
	}
}

func TestRenderFit(t *testing.T) {
	out := string(Render(testFrame(), Options{Fit: true, Margin: 10}))
	if !strings.Contains(out, `viewBox="0 0 600 180"`) {
		t.Errorf("fit viewBox wrong:\n%s", out)
	}
	if !strings.Contains(out, `transform="translate(10 10)"`) {
		t.Errorf("fit transform wrong:\n%s", out)
	}
}

func TestRenderPaintOrder(t *testing.T) {
	out := string(Render(testFrame(), Options{}))
	container := strings.Index(out, `data-path="Rover"`)
	child := strings.Index(out, `data-path="Rover/MainBoard"`)
	edge := strings.Index(out, `class="edge"`)
	if container < 0 || child < 0 || edge < 0 {
		t.Fatalf("missing elements:\n%s", out)
	}
	if container > child || child > edge {
		t.Errorf("paint order container=%d child=%d edge=%d", container, child, edge)
	}
	if !strings.Contains(out, `class="module module-component container"`) {
		t.Error("container class missing")
	}
}

func TestRenderEdge(t *testing.T) {
	out := string(Render(testFrame(), Options{}))
	for _, want := range []string{
		`<line x1="160" y1="80" x2="400" y2="40"`,
		`stroke-width="3"`,
		`<title>SPI: flash&#xA;I2C</title>`,
		`data-count="2"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestRenderEscapesLabels(t *testing.T) {
	out := string(Render(testFrame(), Options{}))
	if strings.Contains(out, "Base <1>") {
		t.Error("label not escaped")
	}
	if !strings.Contains(out, "Base &lt;1&gt;") {
		t.Error("escaped label missing")
	}
}

func TestRenderEmptyFrame(t *testing.T) {
	out := string(Render(graph.Frame{}, Options{Fit: true}))
	if !strings.Contains(out, `viewBox="0 0 40 40"`) {
		t.Errorf("empty fit:\n%s", out)
	}
	if !strings.Contains(out, `transform="translate(20 20)"`) {
		t.Errorf("empty transform:\n%s", out)
	}
}
