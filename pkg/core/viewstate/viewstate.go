// Package viewstate packages all mutable view state into one explicit value.
//
// A [ViewState] holds the camera, the expansion set and the box map. It is
// owned by the interaction controller and passed by reference to the layout
// engine and the router, so the core can be exercised without any rendering
// surface. There is exactly one mutator at a time; ViewState does no locking.
package viewstate

import (
	"maps"
	"slices"

	"github.com/matzehuels/boardview/pkg/core/camera"
	"github.com/matzehuels/boardview/pkg/core/geom"
)

// ViewState is the complete mutable state of one view.
type ViewState struct {
	Camera   *camera.Camera
	Expanded ExpansionSet
	Boxes    BoxMap
}

// New returns an empty view state around cam.
func New(cam *camera.Camera) *ViewState {
	return &ViewState{
		Camera:   cam,
		Expanded: ExpansionSet{},
		Boxes:    BoxMap{},
	}
}

// =============================================================================
// ExpansionSet
// =============================================================================

// ExpansionSet is the set of module paths currently expanded.
type ExpansionSet map[string]struct{}

// Has reports whether path is expanded.
func (s ExpansionSet) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Add marks path expanded.
func (s ExpansionSet) Add(path string) { s[path] = struct{}{} }

// Remove clears path. Removing an absent path is a no-op.
func (s ExpansionSet) Remove(path string) { delete(s, path) }

// Len returns the number of expanded paths.
func (s ExpansionSet) Len() int { return len(s) }

// Paths returns the expanded paths in sorted order.
func (s ExpansionSet) Paths() []string {
	return slices.Sorted(maps.Keys(s))
}

// =============================================================================
// BoxMap
// =============================================================================

// Box is the stored layout of one module path.
type Box struct {
	geom.Rect
	// Manual is set once a drag has written the box. Manual boxes are never
	// overwritten by automatic placement.
	Manual bool `json:"manual,omitempty"`
}

// BoxMap holds path -> Box. A path without an entry is unlaid.
type BoxMap map[string]Box

// Get returns the box for path and whether it exists.
func (m BoxMap) Get(path string) (Box, bool) {
	b, ok := m[path]
	return b, ok
}

// Rect returns the rectangle for path and whether it exists.
func (m BoxMap) Rect(path string) (geom.Rect, bool) {
	b, ok := m[path]
	return b.Rect, ok
}

// Set stores a box for path.
func (m BoxMap) Set(path string, b Box) { m[path] = b }

// SetRect replaces the rectangle of path, preserving its manual flag.
func (m BoxMap) SetRect(path string, r geom.Rect) {
	b := m[path]
	b.Rect = r
	m[path] = b
}

// Delete removes the stored box of path, returning it to the unlaid state.
func (m BoxMap) Delete(path string) { delete(m, path) }

// Reset removes every stored box.
func (m BoxMap) Reset() { clear(m) }

// Clone returns an independent copy of the map.
func (m BoxMap) Clone() BoxMap { return maps.Clone(m) }
