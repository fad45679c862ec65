package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/boardview/pkg/graph"
	"github.com/matzehuels/boardview/pkg/render"
)

// pointsPerInch converts world units, treated as points, to the inches
// Graphviz uses for node sizes.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the module type and connection count to node labels.
	Detailed bool
}

// ToDOT converts a frame to Graphviz DOT. Positions are taken from the
// frame's boxes with the y axis flipped, since Graphviz grows upwards.
func ToDOT(f graph.Frame, opts Options) string {
	children := make(map[string][]graph.NodeView)
	var roots []graph.NodeView
	for _, n := range f.Nodes {
		if n.Parent == "" {
			roots = append(roots, n)
		} else {
			children[n.Parent] = append(children[n.Parent], n)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fixedsize=true, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [arrowhead=none, color=\"" + render.EdgeColor + "\"];\n")
	buf.WriteString("\n")

	w := dotWriter{buf: &buf, children: children, opts: opts}
	for _, n := range roots {
		w.node(n, 1)
	}

	buf.WriteString("\n")
	for _, e := range f.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf      *bytes.Buffer
	children map[string][]graph.NodeView
	opts     Options
	clusters int
}

func (w *dotWriter) node(n graph.NodeView, depth int) {
	indent := strings.Repeat("  ", depth)
	c := render.ColorsFor(n.Type)

	kids, open := w.children[n.Path]
	if !open || !n.Expanded {
		fmt.Fprintf(w.buf, "%s%q [%s];\n", indent, n.Path, strings.Join(w.leafAttrs(n, c), ", "))
		return
	}

	w.clusters++
	fmt.Fprintf(w.buf, "%ssubgraph cluster_%d {\n", indent, w.clusters)
	fmt.Fprintf(w.buf, "%s  style=\"rounded,dashed\"; color=%q; bgcolor=%q;\n", indent, c.Stroke, render.ContainerFill)
	b := n.Box
	fmt.Fprintf(w.buf, "%s  %q [shape=plaintext, style=\"\", fixedsize=false, label=%q, fontcolor=%q, pos=%q];\n",
		indent, n.Path, n.Name, c.Text, pos(b.X+b.Width/2, b.Y+15))
	for _, k := range kids {
		w.node(k, depth+1)
	}
	fmt.Fprintf(w.buf, "%s}\n", indent)
}

func (w *dotWriter) leafAttrs(n graph.NodeView, c render.Colors) []string {
	b := n.Box
	ctr := b.Center()
	return []string{
		fmt.Sprintf("label=%q", w.label(n)),
		fmt.Sprintf("pos=%q", pos(ctr.X, ctr.Y)),
		"width=" + num(b.Width/pointsPerInch),
		"height=" + num(b.Height/pointsPerInch),
		fmt.Sprintf("fillcolor=%q", c.Fill),
		fmt.Sprintf("color=%q", c.Stroke),
		fmt.Sprintf("fontcolor=%q", c.Text),
	}
}

func (w *dotWriter) label(n graph.NodeView) string {
	if !w.opts.Detailed {
		return n.Name
	}
	parts := []string{n.Name, "type: " + n.Type}
	if n.ConnectionCount > 0 {
		parts = append(parts, fmt.Sprintf("connections: %d", n.ConnectionCount))
	}
	return strings.Join(parts, "\n")
}

func edgeAttrs(e graph.EdgeView) []string {
	attrs := []string{"penwidth=" + num(e.Thickness)}
	if e.Tooltip != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", e.Tooltip))
	}
	if e.Count > 1 {
		attrs = append(attrs, fmt.Sprintf("xlabel=\"%d\"", e.Count))
	}
	return attrs
}

func pos(x, y float64) string {
	return num(x) + "," + num(-y) + "!"
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders DOT source to SVG using the in-process Graphviz build.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to a PNG image.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
