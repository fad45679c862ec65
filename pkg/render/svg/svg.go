package svg

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/boardview/pkg/core/geom"
	"github.com/matzehuels/boardview/pkg/graph"
	"github.com/matzehuels/boardview/pkg/render"
)

// DefaultMargin is the border added around the modules by [Options.Fit].
const DefaultMargin = 20.0

// Options configures [Render].
type Options struct {
	// Fit ignores the camera and sizes the document to the modules' bounds.
	Fit bool
	// Margin around the bounds when Fit is set. Zero means DefaultMargin.
	Margin float64
	// Interactive adds hover styling for edges and modules.
	Interactive bool
}

const interactionCSS = `
    .edge line { transition: stroke-width 0.15s ease; }
    .edge:hover line { stroke: #263238; }
    .module:hover > rect { stroke-width: 3; }`

// Render returns the SVG document for f.
func Render(f graph.Frame, opts Options) []byte {
	var buf bytes.Buffer

	w, h, transform := f.Camera.ViewportW, f.Camera.ViewportH, svgTransform(f.Camera)
	if opts.Fit {
		w, h, transform = fit(f, opts.Margin)
	}

	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		num(w), num(h), w, h)
	if opts.Interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)
	}
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", render.BackgroundColor)
	fmt.Fprintf(&buf, `  <g id="camera" transform="%s">`+"\n", transform)

	for _, n := range f.Nodes {
		writeNode(&buf, n)
	}
	for _, e := range f.Edges {
		writeEdge(&buf, e)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func svgTransform(c graph.CameraView) string {
	zoom := c.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return fmt.Sprintf("translate(%s %s) scale(%s)", num(c.X), num(c.Y), num(zoom))
}

func fit(f graph.Frame, margin float64) (w, h float64, transform string) {
	if margin <= 0 {
		margin = DefaultMargin
	}
	b, ok := f.Bounds()
	if !ok {
		b = geom.Rect{}
	}
	w, h = b.Width+2*margin, b.Height+2*margin
	return w, h, fmt.Sprintf("translate(%s %s)", num(margin-b.X), num(margin-b.Y))
}

func writeNode(buf *bytes.Buffer, n graph.NodeView) {
	c := render.ColorsFor(n.Type)
	b := n.Box
	classes := []string{"module", "module-" + n.Type}
	if n.IsContainer() {
		classes = append(classes, "container")
	}

	fmt.Fprintf(buf, `    <g class="%s" data-path="%s">`+"\n", strings.Join(classes, " "), render.EscapeXML(n.Path))
	fmt.Fprintf(buf, "      <title>%s</title>\n", render.EscapeXML(nodeTitle(n)))

	if n.IsContainer() {
		fmt.Fprintf(buf, `      <rect x="%s" y="%s" width="%s" height="%s" rx="6" fill="%s" stroke="%s" stroke-width="1.5" stroke-dasharray="6 3"/>`+"\n",
			num(b.X), num(b.Y), num(b.Width), num(b.Height), render.ContainerFill, c.Stroke)
		size := render.FontSize(b.Width, 30, len(n.Name))
		fmt.Fprintf(buf, `      <text x="%s" y="%s" font-family="sans-serif" font-size="%s" font-weight="bold" fill="%s">%s</text>`+"\n",
			num(b.X+8), num(b.Y+size+6), num(size), c.Text,
			render.EscapeXML(render.TruncateLabel(n.Name, b.Width-16, size)))
		buf.WriteString("    </g>\n")
		return
	}

	fmt.Fprintf(buf, `      <rect x="%s" y="%s" width="%s" height="%s" rx="6" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		num(b.X), num(b.Y), num(b.Width), num(b.Height), c.Fill, c.Stroke)
	size := render.FontSize(b.Width, b.Height, len(n.Name))
	ctr := b.Center()
	fmt.Fprintf(buf, `      <text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="%s" fill="%s">%s</text>`+"\n",
		num(ctr.X), num(ctr.Y), num(size), c.Text,
		render.EscapeXML(render.TruncateLabel(n.Name, b.Width, size)))
	if n.HasChildren {
		fmt.Fprintf(buf, `      <text class="expander" x="%s" y="%s" text-anchor="end" font-family="sans-serif" font-size="12" fill="%s">+</text>`+"\n",
			num(b.Right()-6), num(b.Y+14), c.Stroke)
	}
	if n.ConnectionCount > 0 {
		fmt.Fprintf(buf, `      <text class="badge" x="%s" y="%s" font-family="sans-serif" font-size="10" fill="%s">%d</text>`+"\n",
			num(b.X+6), num(b.Bottom()-6), c.Text, n.ConnectionCount)
	}
	buf.WriteString("    </g>\n")
}

func nodeTitle(n graph.NodeView) string {
	s := fmt.Sprintf("%s (%s)", n.Path, n.Type)
	if n.ConnectionCount > 0 {
		s += fmt.Sprintf(", %d connections", n.ConnectionCount)
	}
	return s
}

func writeEdge(buf *bytes.Buffer, e graph.EdgeView) {
	fmt.Fprintf(buf, `    <g class="edge" data-from="%s" data-to="%s" data-count="%d">`+"\n",
		render.EscapeXML(e.From), render.EscapeXML(e.To), e.Count)
	if e.Tooltip != "" {
		fmt.Fprintf(buf, "      <title>%s</title>\n", render.EscapeXML(e.Tooltip))
	}
	fmt.Fprintf(buf, `      <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-linecap="round"/>`+"\n",
		num(e.AnchorFrom.X), num(e.AnchorFrom.Y), num(e.AnchorTo.X), num(e.AnchorTo.Y),
		render.EdgeColor, num(e.Thickness))
	buf.WriteString("    </g>\n")
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
