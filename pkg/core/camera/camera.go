// Package camera maintains the affine map between screen space (pointer and
// viewport pixels) and world space (where layout boxes live).
//
// The map is a uniform scale followed by a translation:
//
//	screen = world*zoom + pan
//	world  = (screen - pan) / zoom
//
// Every mutation leaves MinZoom <= Zoom <= MaxZoom. Zoom requests that would
// leave that range are rejected as a whole, so the pan offset never drifts
// when the user keeps scrolling past a bound.
package camera

import (
	"errors"
	"fmt"

	"github.com/matzehuels/boardview/pkg/core/geom"
)

// Default bounds and viewport used by [Default].
const (
	DefaultMinZoom   = 0.1
	DefaultMaxZoom   = 5.0
	DefaultViewportW = 1280.0
	DefaultViewportH = 800.0
)

// ErrInvalidBounds is returned by [New] when the zoom bounds are unusable.
var ErrInvalidBounds = errors.New("camera: invalid zoom bounds")

// Config holds the fixed parameters of a camera.
type Config struct {
	MinZoom   float64 `toml:"min_zoom" json:"min_zoom" validate:"gt=0"`
	MaxZoom   float64 `toml:"max_zoom" json:"max_zoom" validate:"gtefield=MinZoom"`
	ViewportW float64 `toml:"viewport_width" json:"viewport_width" validate:"gte=0"`
	ViewportH float64 `toml:"viewport_height" json:"viewport_height" validate:"gte=0"`
}

// DefaultConfig returns the bounds used when no configuration is supplied.
func DefaultConfig() Config {
	return Config{
		MinZoom:   DefaultMinZoom,
		MaxZoom:   DefaultMaxZoom,
		ViewportW: DefaultViewportW,
		ViewportH: DefaultViewportH,
	}
}

// TransformTarget receives serialized transforms, typically a container
// element of the rendering surface.
type TransformTarget interface {
	SetTransform(transform string)
}

// Camera is the viewport state. The zero value is not usable; use [New].
//
// Camera is not safe for concurrent use.
type Camera struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`

	MinZoom float64 `json:"min_zoom"`
	MaxZoom float64 `json:"max_zoom"`

	ViewportW float64 `json:"viewport_width"`
	ViewportH float64 `json:"viewport_height"`

	applied string
}

// New creates a camera in its reset position.
// Returns ErrInvalidBounds if MinZoom <= 0 or MinZoom > MaxZoom.
func New(cfg Config) (*Camera, error) {
	if cfg.MinZoom <= 0 || cfg.MinZoom > cfg.MaxZoom {
		return nil, fmt.Errorf("%w: min=%g max=%g", ErrInvalidBounds, cfg.MinZoom, cfg.MaxZoom)
	}
	c := &Camera{
		MinZoom:   cfg.MinZoom,
		MaxZoom:   cfg.MaxZoom,
		ViewportW: cfg.ViewportW,
		ViewportH: cfg.ViewportH,
	}
	c.Reset()
	return c, nil
}

// Default returns a camera with [DefaultConfig].
func Default() *Camera {
	c, _ := New(DefaultConfig())
	return c
}

// WorldToScreen maps a world point to screen space.
func (c *Camera) WorldToScreen(p geom.Point) geom.Point {
	return geom.Point{X: p.X*c.Zoom + c.X, Y: p.Y*c.Zoom + c.Y}
}

// ScreenToWorld maps a screen point to world space. It is the exact inverse
// of [Camera.WorldToScreen].
func (c *Camera) ScreenToWorld(p geom.Point) geom.Point {
	return geom.Point{X: (p.X - c.X) / c.Zoom, Y: (p.Y - c.Y) / c.Zoom}
}

// Pan shifts the view by a screen-space delta. Panning is zoom-independent.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx
	c.Y += dy
}

// ZoomAt scales the view by factor around the screen point (sx, sy), keeping
// the world point under it visually fixed.
//
// If the resulting zoom would fall outside [MinZoom, MaxZoom] the camera is
// left untouched and ZoomAt returns false.
func (c *Camera) ZoomAt(sx, sy, factor float64) bool {
	if factor <= 0 {
		return false
	}
	anchor := c.ScreenToWorld(geom.Point{X: sx, Y: sy})

	tentative := c.Zoom * factor
	if clamped := c.clamp(tentative); clamped != tentative {
		return false
	}

	c.Zoom = tentative
	c.X = sx - anchor.X*c.Zoom
	c.Y = sy - anchor.Y*c.Zoom
	return true
}

// Reset restores zoom 1 and anchors the world origin at a quarter of the
// viewport, so reopening a view is reproducible.
func (c *Camera) Reset() {
	c.Zoom = c.clamp(1.0)
	c.X = c.ViewportW / 4
	c.Y = c.ViewportH / 4
}

// SetViewport records the current size of the rendering surface. Only
// [Camera.Reset] reads it.
func (c *Camera) SetViewport(w, h float64) {
	c.ViewportW = w
	c.ViewportH = h
}

// Transform serializes the camera as a CSS/SVG style transform.
func (c *Camera) Transform() string {
	return fmt.Sprintf("translate(%gpx, %gpx) scale(%g)", c.X, c.Y, c.Zoom)
}

// Apply writes the transform to t only when it differs from the last one
// applied, and reports whether a write happened.
func (c *Camera) Apply(t TransformTarget) bool {
	s := c.Transform()
	if s == c.applied {
		return false
	}
	t.SetTransform(s)
	c.applied = s
	return true
}

// State returns a copy of the observable camera state.
func (c *Camera) State() Camera {
	return Camera{
		X: c.X, Y: c.Y, Zoom: c.Zoom,
		MinZoom: c.MinZoom, MaxZoom: c.MaxZoom,
		ViewportW: c.ViewportW, ViewportH: c.ViewportH,
	}
}

func (c *Camera) clamp(z float64) float64 {
	if z < c.MinZoom {
		return c.MinZoom
	}
	if z > c.MaxZoom {
		return c.MaxZoom
	}
	return z
}
