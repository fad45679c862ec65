// Package nodelink renders a frame as a Graphviz node-link diagram.
//
// # Overview
//
// [ToDOT] converts a [graph.Frame] into DOT source for the neato engine.
// Every module keeps the position the layout engine gave it: node positions
// are pinned ("pos" with a trailing "!") and sized to their boxes, so
// Graphviz only draws and never re-lays out the diagram.
//
// Expanded modules become nested cluster_ subgraphs holding their visible
// children plus a plaintext title node, which is what edges declared on the
// container itself attach to. Edge pen widths are the routed thickness and
// the aggregated connection labels become edge tooltips.
//
// # Usage
//
//	dot := nodelink.ToDOT(frame, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering;
// no Graphviz installation is needed.
package nodelink
