// Package interact is the interaction controller of a module view.
//
// A [Controller] owns one [viewstate.ViewState] and is the only thing that
// mutates it. UI surfaces (the terminal viewer, the HTTP API) translate
// their input events into controller calls:
//
//	pan / zoom / wheel      → camera
//	ToggleExpansion         → expansion set, then layout cascade
//	BeginDrag … EndDrag     → box positions, then layout cascade
//
// and call [Controller.Frame] to obtain what to draw. Every call completes
// synchronously; there is no partially updated state between calls.
//
// # Drag lifecycle
//
//	c.BeginDrag(path, pointer)  // snapshot the subtree's boxes
//	c.UpdateDrag(pointer)       // repeatable
//	c.EndDrag()                 // or c.CancelDrag() to restore the snapshot
//
// Update, end and cancel without an active drag are no-ops.
package interact
