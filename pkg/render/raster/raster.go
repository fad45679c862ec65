// Package raster draws a [graph.Frame] into a PNG image with fogleman/gg.
//
// The image covers the bounding box of the frame's modules plus a margin,
// multiplied by the scale factor. Paint order matches the SVG renderer:
// modules in frame order, then edges.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"

	"github.com/matzehuels/boardview/pkg/core/geom"
	"github.com/matzehuels/boardview/pkg/fonts"
	"github.com/matzehuels/boardview/pkg/graph"
	"github.com/matzehuels/boardview/pkg/render"
)

const (
	margin = 20.0
	// MaxPixels bounds the image area to keep huge exports from exhausting
	// memory.
	MaxPixels = 64 << 20
)

// ErrTooLarge is returned when the scaled image would exceed [MaxPixels].
var ErrTooLarge = errors.New("raster: image too large")

// RenderPNG rasterises f. A scale of 2 produces a 2x image; non-positive
// scales mean 1.
func RenderPNG(f graph.Frame, scale float64) ([]byte, error) {
	dc, err := Draw(f, scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Draw paints f onto a new context sized to its bounds.
func Draw(f graph.Frame, scale float64) (*gg.Context, error) {
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("raster: invalid scale %v", scale)
	}
	if scale <= 0 {
		scale = 1
	}
	b, ok := f.Bounds()
	if !ok {
		b = geom.Rect{}
	}
	// Sizes stay in float64 until bounded so the int conversion cannot wrap.
	fw := (b.Width + 2*margin) * scale
	fh := (b.Height + 2*margin) * scale
	if math.IsInf(fw, 0) || math.IsInf(fh, 0) || fw*fh > MaxPixels {
		return nil, fmt.Errorf("%w: %.0fx%.0f", ErrTooLarge, fw, fh)
	}
	w, h := int(fw), int(fh)

	dc := gg.NewContext(w, h)
	dc.SetColor(hex(render.BackgroundColor))
	dc.Clear()
	dc.Scale(scale, scale)
	dc.Translate(margin-b.X, margin-b.Y)

	for _, n := range f.Nodes {
		if err := drawNode(dc, n); err != nil {
			return nil, err
		}
	}
	for _, e := range f.Edges {
		drawEdge(dc, e)
	}
	return dc, nil
}

func drawNode(dc *gg.Context, n graph.NodeView) error {
	c := render.ColorsFor(n.Type)
	b := n.Box

	dc.DrawRoundedRectangle(b.X, b.Y, b.Width, b.Height, 6)
	if n.IsContainer() {
		dc.SetColor(hex(render.ContainerFill))
		dc.FillPreserve()
		dc.SetDash(6, 3)
	} else {
		dc.SetColor(hex(c.Fill))
		dc.FillPreserve()
	}
	dc.SetColor(hex(c.Stroke))
	dc.SetLineWidth(1.5)
	dc.Stroke()
	dc.SetDash()

	if n.IsContainer() {
		size := render.FontSize(b.Width, 30, len(n.Name))
		face, err := fonts.BoldFace(size)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		dc.SetColor(hex(c.Text))
		dc.DrawStringAnchored(render.TruncateLabel(n.Name, b.Width-16, size), b.X+8, b.Y+6+size/2, 0, 0.5)
		return nil
	}

	size := render.FontSize(b.Width, b.Height, len(n.Name))
	face, err := fonts.Face(size)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetColor(hex(c.Text))
	ctr := b.Center()
	dc.DrawStringAnchored(render.TruncateLabel(n.Name, b.Width, size), ctr.X, ctr.Y, 0.5, 0.5)
	if n.HasChildren {
		dc.DrawStringAnchored("+", b.Right()-6, b.Y+8, 1, 0.5)
	}
	return nil
}

func drawEdge(dc *gg.Context, e graph.EdgeView) {
	dc.SetColor(hex(render.EdgeColor))
	dc.SetLineWidth(e.Thickness)
	dc.SetLineCap(gg.LineCapRound)
	dc.DrawLine(e.AnchorFrom.X, e.AnchorFrom.Y, e.AnchorTo.X, e.AnchorTo.Y)
	dc.Stroke()
}

// hex parses a #rrggbb colour. Malformed input yields black.
func hex(s string) color.Color {
	s = strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return color.Black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
