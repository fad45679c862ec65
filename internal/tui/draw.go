package tui

import (
	"fmt"

	"github.com/matzehuels/boardview/pkg/core/geom"
	"github.com/matzehuels/boardview/pkg/graph"
	"github.com/matzehuels/boardview/pkg/render"
)

const (
	edgeRune      = '·'
	selectedColor = "#ffd54f"
)

// drawFrame paints f onto a w x h canvas. Nodes are drawn in frame order so
// children cover their containers. Edges and their counts are drawn last
// onto blank cells.
func drawFrame(f graph.Frame, w, h int, cellW, cellH float64, selected string) *canvas {
	c := newCanvas(w, h)
	cam := f.Camera
	toScreen := func(p geom.Point) geom.Point {
		return geom.Point{X: p.X*cam.Zoom + cam.X, Y: p.Y*cam.Zoom + cam.Y}
	}

	for _, n := range f.Nodes {
		tl := toScreen(n.Box.TopLeft())
		br := toScreen(geom.Point{X: n.Box.Right(), Y: n.Box.Bottom()})
		x0, x1 := cellSpan(tl.X, br.X, cellW)
		y0, y1 := cellSpan(tl.Y, br.Y, cellH)
		x1, y1 = max(x1, x0+1), max(y1, y0+1)

		b, fg, bold := leafBorder, render.ColorsFor(n.Type).Stroke, false
		if n.IsContainer() {
			b = containerBorder
		}
		if n.Path == selected {
			b, fg, bold = selectedBorder, selectedColor, true
		}
		c.box(x0, y0, x1, y1, b, fg, bold, nodeLabel(n))
	}

	for _, e := range f.Edges {
		a := toScreen(e.AnchorFrom)
		b := toScreen(e.AnchorTo)
		ax, ay := int(a.X/cellW), int(a.Y/cellH)
		bx, by := int(b.X/cellW), int(b.Y/cellH)
		if e.Count > 1 {
			c.text((ax+bx)/2, (ay+by)/2, fmt.Sprintf("×%d", e.Count), render.EdgeColor)
		}
		c.line(ax, ay, bx, by, edgeRune, render.EdgeColor)
	}
	return c
}

// nodeLabel is the name with a marker for collapsed modules that have
// children and the number of attributed connections.
func nodeLabel(n graph.NodeView) string {
	label := n.Name
	if n.HasChildren && !n.Expanded {
		label += " +"
	}
	if n.ConnectionCount > 0 {
		label += fmt.Sprintf(" [%d]", n.ConnectionCount)
	}
	return label
}
