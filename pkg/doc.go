// Package pkg holds the libraries behind boardview, a viewer for hardware
// module hierarchies.
//
// A directory tree is read into a module tree, each directory a module and
// each connections file a list of links to other modules. The tree is shown
// as nested boxes: expanding a module lays its children out inside it, and
// connections are drawn between the deepest visible modules on each side.
//
// # Layout
//
//	core/geom       points and rectangles
//	core/module     the immutable module tree and path helpers
//	core/camera     the screen/world transform with bounded zoom
//	core/viewstate  expansion set, stored boxes and manual placements
//	core/layout     grid placement, container sizing and the drag cascade
//	core/route      connection attribution, aggregation and anchors
//	interact        the controller tying camera, layout and routing to input
//	loader          directory walking and connection file parsing
//	graph           frame and tree serialization
//	render/svg      interactive SVG snapshots
//	render/raster   PNG snapshots
//	render/nodelink DOT export and Graphviz rendering
//	pipeline        load, frame and render with caching
//	cache           file and Redis caches for frames and artifacts
//	config          TOML configuration
//	observability   hooks for metrics and tracing
//	errors          coded errors shared by the CLI and the HTTP API
//
// # Quick Start
//
//	res, _ := loader.Load(ctx, "./rover", loader.Options{})
//	c := interact.New(res.Tree, camera.Default(), interact.DefaultOptions())
//	c.ToggleExpansion("rover")
//	frame := c.Frame()
//	out := svg.Render(frame, svg.Options{Fit: true})
package pkg
