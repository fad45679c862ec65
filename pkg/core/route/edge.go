package route

import (
	"math"
	"strings"

	"github.com/matzehuels/boardview/pkg/core/geom"
	"github.com/matzehuels/boardview/pkg/core/module"
)

// Edge is one rendered line between two visible modules. It aggregates every
// connection that resolved to the same ordered (From, To) pair.
type Edge struct {
	From, To string

	AnchorFrom geom.Point
	AnchorTo   geom.Point
	// Horizontal is set when the line leaves and enters through the left or
	// right sides of the boxes.
	Horizontal bool

	Count     int
	Thickness float64
	Members   []module.Connection
}

// Tooltip joins the labels of every member connection, one per line.
func (e Edge) Tooltip() string {
	lines := make([]string, len(e.Members))
	for i, c := range e.Members {
		lines[i] = c.Label()
	}
	return strings.Join(lines, "\n")
}

// Length is the distance between the anchors.
func (e Edge) Length() float64 { return e.AnchorFrom.Dist(e.AnchorTo) }

// Angle is the direction from AnchorFrom to AnchorTo in degrees, measured
// clockwise from the positive x axis in screen orientation.
func (e Edge) Angle() float64 {
	d := e.AnchorTo.Sub(e.AnchorFrom)
	return math.Atan2(d.Y, d.X) * 180 / math.Pi
}

// Anchors picks the attachment points of a line from one box to another.
//
// The dominant axis of the centre-to-centre delta decides the sides: when
// |dx| > |dy| the line leaves through the left or right side of from and
// enters through the opposite side of to; otherwise it uses top and bottom.
// Each anchor is the midpoint of the chosen side, so lines never attach at a
// corner.
func Anchors(from, to geom.Rect) (a, b geom.Point, horizontal bool) {
	fc, tc := from.Center(), to.Center()
	dx, dy := tc.X-fc.X, tc.Y-fc.Y

	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			a = geom.Point{X: from.Right(), Y: fc.Y}
			b = geom.Point{X: to.X, Y: tc.Y}
		} else {
			a = geom.Point{X: from.X, Y: fc.Y}
			b = geom.Point{X: to.Right(), Y: tc.Y}
		}
		horizontal = true
	} else {
		if dy >= 0 {
			a = geom.Point{X: fc.X, Y: from.Bottom()}
			b = geom.Point{X: tc.X, Y: to.Y}
		} else {
			a = geom.Point{X: fc.X, Y: from.Y}
			b = geom.Point{X: tc.X, Y: to.Bottom()}
		}
	}
	return from.ClampPoint(a), to.ClampPoint(b), horizontal
}
