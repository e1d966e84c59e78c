// Package canvas computes where edges attach to nodes and how they curve.
//
// It is a stateless geometry library: given a node's box, its kind and its
// outgoing branch count it produces anchor points along the node border, and
// given an anchor and a target it produces a cubic Bezier connecting them.
// Everything is recomputed per call; nothing is cached or mutated.
package canvas

import (
	"fmt"
	"math"
)

// Point represents a 2D canvas coordinate. Y grows downward.
type Point struct {
	X, Y float64
}

// Rect is a node's bounding box: top-left corner plus size.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// BottomCenter returns the midpoint of the rect's bottom edge.
func (r Rect) BottomCenter() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// pointAtAngle returns the point at the given radius and angle from center.
// Angles are in degrees with 0 pointing right, 90 up, 180 left, 270 down
// (screen coordinates, Y grows downward).
func pointAtAngle(center Point, radius, angleDeg float64) Point {
	rad := angleDeg * math.Pi / 180
	return Point{
		X: center.X + radius*math.Cos(rad),
		Y: center.Y - radius*math.Sin(rad),
	}
}

// normalizeDeg wraps an angle into [0, 360).
func normalizeDeg(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// checkFinite panics if any value is NaN or infinite. Layout math on
// non-finite geometry would silently produce invisible or overlapping
// elements, so it is treated as a programmer error rather than a
// recoverable condition.
func checkFinite(context string, values ...float64) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(fmt.Sprintf("canvas: non-finite %s value %v", context, v))
		}
	}
}

// clampRect clamps negative dimensions to zero. Positions may be negative
// (nodes can sit left of or above the origin); sizes cannot.
func clampRect(r Rect) Rect {
	checkFinite("node geometry", r.X, r.Y, r.W, r.H)
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}
