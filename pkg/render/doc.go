// Package render holds the styling shared by the frame renderers.
//
// # Overview
//
// Every renderer draws a [graph.Frame]: the visible modules in paint order
// plus the routed edges, both in world units. The subpackages differ only in
// the output they produce:
//
//   - [svg]: a self-contained SVG document with tooltips on edges
//   - [nodelink]: Graphviz DOT with pinned node positions, rendered to SVG
//     in process
//   - [raster]: a PNG drawn with fogleman/gg
//
// This package provides what they share: the fill colour per module type,
// label fitting and XML escaping.
//
//	f := controller.Frame()
//	doc := svg.Render(f, svg.Options{})
//	png, err := raster.RenderPNG(f, 2.0)
//
// [svg]: github.com/matzehuels/boardview/pkg/render/svg
// [nodelink]: github.com/matzehuels/boardview/pkg/render/nodelink
// [raster]: github.com/matzehuels/boardview/pkg/render/raster
package render
