// Package svg renders a [graph.Frame] as a standalone SVG document.
//
// Modules are drawn in frame order, so containers are painted before their
// children. Edges are drawn last as straight lines between their anchors
// with a stroke width equal to the edge thickness; each carries a <title>
// element listing the aggregated connections, which browsers show as a
// tooltip.
//
// By default the camera transform of the frame is applied to a single
// top-level group and the document has the frame's viewport size, so the
// output looks like the interactive view. [Options.Fit] instead frames the
// bounding box of all modules, which suits static exports.
package svg
