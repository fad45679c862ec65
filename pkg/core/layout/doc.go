// Package layout assigns world-space boxes to the visible part of a module
// tree and keeps nested containers sized around their contents.
//
// # Visibility
//
// Roots are always visible. A module's children are visible exactly when
// the module is visible and expanded. [Engine.Visible] returns the visible
// modules in deterministic preorder, which is also the paint order used by
// the renderers.
//
// # Placement
//
// [Engine.Layout] gives every visible module without a stored box a default
// position. Roots are placed on a grid of ceil(sqrt(n)) columns; nested
// modules are placed on the same kind of grid inside their parent's content
// area, below the title bar. Columns and rows widen to the largest cell in
// them, so expanded siblings never overlap on first placement.
//
// Stored boxes are authoritative. Automatic placement never moves a box that
// already exists, which is what keeps manual drags in place across expansion
// changes. [Engine.ResetLayout] is the only way back to the automatic layout.
//
// # Cascade
//
// An expanded container always encloses its visible children plus padding
// and title bar. [Engine.Expand], [Engine.Collapse] and [Engine.Move] keep
// that true by refitting the affected node and its expanded ancestors, from
// the node up to the first collapsed ancestor or root.
//
// # Dragging
//
// [Engine.Move] moves a box and its whole stored subtree by the same delta.
// [Engine.Snapshot] and [Engine.Restore] let a caller cancel a drag in
// progress.
package layout
