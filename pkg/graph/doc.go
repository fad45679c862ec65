// Package graph provides the serialization types for module trees and
// rendered frames.
//
// This package defines the wire format used for JSON files, API responses
// and the render cache.
//
// # Architecture
//
// The package sits at the boundary between the view core and everything
// that consumes it:
//
//   - [Graph]: a module tree with its declared connections, independent of
//     any view
//   - [Frame]: one render pass of one view (camera, visible boxes, edges)
//
// Use [FromTree]/[ToTree] to convert between a [Graph] and a module tree.
// Frames are produced by the interaction controller and consumed by the
// render sinks under pkg/render.
//
// # Graph Serialization
//
//	{
//	  "modules": [{"path": "Rover"}, {"path": "Rover/Drive", "parent": "Rover"}],
//	  "connections": [{"from": "Rover/Drive", "target": "../Power", "interface": "VBAT"}]
//	}
//
// Common operations:
//
//	tree, _ := graph.ReadGraphFile("rover.json")  // File → Tree
//	graph.WriteGraphFile(tree, "out.json")        // Tree → File
//	data, _ := graph.MarshalGraph(tree)           // Tree → []byte
//
// # Frame Serialization
//
//	data, _ := graph.MarshalFrame(frame)
//	frame, err := graph.UnmarshalFrame(data) // validates camera and edges
//
// # Constants
//
// This package is the single source of truth for output format names:
//
//	graph.FormatSVG   // "svg"
//	graph.FormatDOT   // "dot"
//	graph.FormatPNG   // "png"
//	graph.FormatJSON  // "json"
//
// # Concurrency
//
// All functions are safe for concurrent use.
package graph
