package canvas

import (
	"fmt"
	"math"
)

// Curve is a cubic Bezier edge. Start and End are exactly the source anchor
// and target point given to EdgeCurve; only the two control points are
// adjusted to shape the edge.
type Curve struct {
	Start, Control1, Control2, End Point
}

const (
	maxControlDepth  = 80.0 // cap on how deep a curve bulges
	maxLateralOffset = 30.0 // half-width of the parallel-edge spread
)

// EdgeCurve computes the curve from a source anchor to a target point.
//
// parallelCount is the number of edges sharing this (source, target) pair
// and index is this edge's position within that group; both are supplied by
// the caller. A single edge gets no lateral offset. Parallel edges are
// spread symmetrically around zero offset near the target so they stay
// visually distinguishable, without ever moving the endpoints.
func EdgeCurve(source, target Point, parallelCount, index int) Curve {
	checkFinite("curve endpoint", source.X, source.Y, target.X, target.Y)
	if parallelCount < 1 {
		panic(fmt.Sprintf("canvas: parallel count %d, need >= 1", parallelCount))
	}
	if index < 0 || index >= parallelCount {
		panic(fmt.Sprintf("canvas: parallel index %d out of range [0,%d)", index, parallelCount))
	}

	depth := math.Min(math.Abs(target.Y-source.Y)*0.5, maxControlDepth)

	lateral := 0.0
	if parallelCount > 1 {
		step := (2 * maxLateralOffset) / float64(parallelCount-1)
		lateral = -maxLateralOffset + step*float64(index)
	}

	return Curve{
		Start:    source,
		Control1: Point{X: source.X, Y: source.Y + depth},
		Control2: Point{X: target.X + lateral, Y: target.Y - depth},
		End:      target,
	}
}

// At evaluates the curve at parameter t in [0,1].
func (c Curve) At(t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	return Point{
		X: mt3*c.Start.X + 3*mt2*t*c.Control1.X + 3*mt*t2*c.Control2.X + t3*c.End.X,
		Y: mt3*c.Start.Y + 3*mt2*t*c.Control1.Y + 3*mt*t2*c.Control2.Y + t3*c.End.Y,
	}
}

// TangentAt returns the (unnormalised) derivative of the curve at t.
func (c Curve) TangentAt(t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t

	return Point{
		X: 3*mt2*(c.Control1.X-c.Start.X) + 6*mt*t*(c.Control2.X-c.Control1.X) + 3*t2*(c.End.X-c.Control2.X),
		Y: 3*mt2*(c.Control1.Y-c.Start.Y) + 6*mt*t*(c.Control2.Y-c.Control1.Y) + 3*t2*(c.End.Y-c.Control2.Y),
	}
}

// Length approximates the arc length of the curve by sampling.
func (c Curve) Length() float64 {
	const numSamples = 100

	length := 0.0
	prev := c.Start
	for i := 1; i <= numSamples; i++ {
		t := float64(i) / numSamples
		curr := c.At(t)
		length += Distance(prev, curr)
		prev = curr
	}
	return length
}

// Midpoint returns the point at t=0.5, useful for label placement.
func (c Curve) Midpoint() Point {
	return c.At(0.5)
}
