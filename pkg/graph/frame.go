package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/boardview/pkg/core/camera"
	"github.com/matzehuels/boardview/pkg/core/geom"
	"github.com/matzehuels/boardview/pkg/core/route"
)

// =============================================================================
// Frame - Render Pass Snapshot
// =============================================================================

// Frame is everything a renderer needs for one paint: the camera transform,
// the visible modules in paint order and the routed edges. Frames are
// derived from view state and never fed back into it.
type Frame struct {
	Transform string     `json:"transform"`
	Camera    CameraView `json:"camera"`
	Nodes     []NodeView `json:"nodes"`
	Edges     []EdgeView `json:"edges"`
}

// CameraView is the serialized camera state.
type CameraView struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Zoom      float64 `json:"zoom"`
	MinZoom   float64 `json:"min_zoom"`
	MaxZoom   float64 `json:"max_zoom"`
	ViewportW float64 `json:"viewport_width"`
	ViewportH float64 `json:"viewport_height"`
}

// NodeView is one visible module as drawn. Containers precede their
// children, so drawing Nodes in order paints children on top.
type NodeView struct {
	Path            string    `json:"path"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	Level           int       `json:"level"`
	Parent          string    `json:"parent,omitempty"`
	Box             geom.Rect `json:"box"`
	Manual          bool      `json:"manual,omitempty"`
	Expanded        bool      `json:"expanded,omitempty"`
	HasChildren     bool      `json:"has_children,omitempty"`
	ConnectionCount int       `json:"connection_count,omitempty"`
}

// IsContainer reports whether the node is drawn as an open container.
func (n *NodeView) IsContainer() bool { return n.Expanded && n.HasChildren }

// EdgeView is one aggregated edge as drawn.
type EdgeView struct {
	From       string     `json:"from"`
	To         string     `json:"to"`
	AnchorFrom geom.Point `json:"anchor_from"`
	AnchorTo   geom.Point `json:"anchor_to"`
	Horizontal bool       `json:"horizontal,omitempty"`
	Count      int        `json:"count"`
	Thickness  float64    `json:"thickness"`
	Tooltip    string     `json:"tooltip,omitempty"`
	Length     float64    `json:"length"`
	Angle      float64    `json:"angle"`
}

// CameraFrom captures the state of c.
func CameraFrom(c *camera.Camera) CameraView {
	return CameraView{
		X: c.X, Y: c.Y, Zoom: c.Zoom,
		MinZoom: c.MinZoom, MaxZoom: c.MaxZoom,
		ViewportW: c.ViewportW, ViewportH: c.ViewportH,
	}
}

// EdgeFrom converts a routed edge.
func EdgeFrom(e route.Edge) EdgeView {
	return EdgeView{
		From:       e.From,
		To:         e.To,
		AnchorFrom: e.AnchorFrom,
		AnchorTo:   e.AnchorTo,
		Horizontal: e.Horizontal,
		Count:      e.Count,
		Thickness:  e.Thickness,
		Tooltip:    e.Tooltip(),
		Length:     e.Length(),
		Angle:      e.Angle(),
	}
}

// Node returns the node at path.
func (f *Frame) Node(path string) (NodeView, bool) {
	for _, n := range f.Nodes {
		if n.Path == path {
			return n, true
		}
	}
	return NodeView{}, false
}

// Bounds returns the world-space rectangle enclosing every node.
func (f *Frame) Bounds() (geom.Rect, bool) {
	rects := make([]geom.Rect, len(f.Nodes))
	for i, n := range f.Nodes {
		rects[i] = n.Box
	}
	return geom.Bounds(rects)
}

// =============================================================================
// Frame Serialization API
// =============================================================================

// MarshalFrame serializes a Frame to pretty-printed JSON bytes.
func MarshalFrame(f Frame) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// UnmarshalFrame deserializes JSON bytes into a Frame.
// It rejects frames whose camera zoom is not positive or whose edges
// reference nodes the frame does not contain.
func UnmarshalFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("unmarshal frame: %w", err)
	}
	if f.Camera.Zoom <= 0 {
		return Frame{}, fmt.Errorf("frame camera zoom must be positive, got %g", f.Camera.Zoom)
	}
	paths := make(map[string]bool, len(f.Nodes))
	for _, n := range f.Nodes {
		paths[n.Path] = true
	}
	for _, e := range f.Edges {
		if !paths[e.From] || !paths[e.To] {
			return Frame{}, fmt.Errorf("frame edge %s->%s references a missing node", e.From, e.To)
		}
	}
	return f, nil
}

// WriteFrameFile writes a Frame to a JSON file.
func WriteFrameFile(f Frame, path string) error {
	data, err := MarshalFrame(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFrameFile reads a Frame from a JSON file.
func ReadFrameFile(path string) (Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Frame{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalFrame(data)
}
