package canvas

import (
	"math"

	"github.com/ha1tch/flow-toolkit/pkg/workflow"
)

// DistributionClass records which placement rule produced an anchor.
type DistributionClass string

const (
	ClassCenter    DistributionClass = "center"
	ClassFanLeft   DistributionClass = "fan-left"
	ClassFanCenter DistributionClass = "fan-center"
	ClassFanRight  DistributionClass = "fan-right"
	ClassArc       DistributionClass = "arc"
)

// AnchorPoint is a connection origin on a node's border. Anchors are
// ephemeral: recomputed on every layout pass, never persisted.
type AnchorPoint struct {
	X, Y     float64
	Angle    float64 // degrees, 0 right / 90 up / 180 left / 270 down
	Class    DistributionClass
	Semantic SemanticType
	Label    string
}

// Point returns the anchor's position.
func (a AnchorPoint) Point() Point {
	return Point{X: a.X, Y: a.Y}
}

// Distribution is the full anchor layout for one node.
type Distribution struct {
	Anchors   []AnchorPoint
	Centroid  Point
	MaxSpread float64 // diagonal of the anchors' bounding box
	Strategy  string
}

// Placement constants. The branch-count thresholds (2, 3, 5, 6) live in the
// rule table below; these control where each strategy puts its anchors.
const (
	downAngle = 270.0 // straight down in screen coordinates

	minSpacing = 40.0 // horizontal gap between a two-way pair

	fanRadius      = 50.0  // arc radius hung below the bottom edge
	fanMaxStepDeg  = 25.0  // widest angular gap between fan anchors
	fanTotalSpread = 100.0 // fan never spreads wider than this

	arcSweepDeg  = 270.0 // wrap-around sweep for crowded nodes
	arcRadiusPad = 30.0  // added to the node's half height
	arcMinRadius = 60.0

	conditionYesFraction = 0.3 // yes anchor, as a fraction of node width
	conditionNoFraction  = 0.7 // no anchor

	overflowRadius    = 50.0  // extra condition branches beyond yes/no
	overflowSpreadDeg = 180.0
	overflowDrop      = 40.0 // arc center distance below the bottom edge
)

// layoutRule pairs a predicate with a placement strategy. Rules are checked
// in order; the first match wins.
type layoutRule struct {
	strategy string
	applies  func(kind workflow.NodeKind, branches int) bool
	place    func(branches int, node Rect) []AnchorPoint
}

var layoutRules = []layoutRule{
	{
		strategy: "condition",
		applies:  func(kind workflow.NodeKind, _ int) bool { return kind == workflow.KindCondition },
		place:    placeCondition,
	},
	{
		strategy: "center",
		applies:  func(_ workflow.NodeKind, branches int) bool { return branches <= 1 },
		place:    placeCenter,
	},
	{
		strategy: "fan",
		applies:  func(_ workflow.NodeKind, branches int) bool { return branches == 2 },
		place:    placePair,
	},
	{
		strategy: "fan",
		applies:  func(_ workflow.NodeKind, branches int) bool { return branches <= 5 },
		place:    placeFan,
	},
	{
		strategy: "arc",
		applies:  func(_ workflow.NodeKind, _ int) bool { return true }, // branches >= 6
		place:    placeArc,
	},
}

// LayoutHandles computes the anchor distribution for a node with the given
// number of outgoing branches. Deterministic: identical inputs always
// produce identical output. Negative branch counts and dimensions are
// clamped to zero; non-finite geometry panics.
//
// Every kind except condition gets exactly branchCount anchors. Condition
// nodes always reserve two anchors tagged yes/no; further branches are
// appended after them.
func LayoutHandles(branchCount int, kind workflow.NodeKind, node Rect) Distribution {
	node = clampRect(node)
	if branchCount < 0 {
		branchCount = 0
	}

	for _, rule := range layoutRules {
		if !rule.applies(kind, branchCount) {
			continue
		}
		anchors := rule.place(branchCount, node)
		return Distribution{
			Anchors:   anchors,
			Centroid:  centroidOf(anchors, node),
			MaxSpread: spreadOf(anchors),
			Strategy:  rule.strategy,
		}
	}

	// The last rule always applies.
	panic("canvas: no layout rule matched")
}

// placeCenter puts a single anchor at the bottom-center of the node.
// Zero branches means nothing to position: the anchor list stays empty.
func placeCenter(branches int, node Rect) []AnchorPoint {
	if branches == 0 {
		return []AnchorPoint{}
	}
	bc := node.BottomCenter()
	return []AnchorPoint{{
		X:        bc.X,
		Y:        bc.Y,
		Angle:    downAngle,
		Class:    ClassCenter,
		Semantic: SemanticDefault,
	}}
}

// placePair puts two anchors on the bottom edge, symmetric about the
// center at a fixed spacing.
func placePair(_ int, node Rect) []AnchorPoint {
	bc := node.BottomCenter()
	return []AnchorPoint{
		{
			X:        bc.X - minSpacing/2,
			Y:        bc.Y,
			Angle:    downAngle,
			Class:    ClassFanLeft,
			Semantic: SemanticDefault,
		},
		{
			X:        bc.X + minSpacing/2,
			Y:        bc.Y,
			Angle:    downAngle,
			Class:    ClassFanRight,
			Semantic: SemanticDefault,
		},
	}
}

// placeFan spreads 3-5 anchors along a shallow arc hung below the node.
// The angular step shrinks as branches grow so the total spread stays
// near fanTotalSpread degrees.
func placeFan(branches int, node Rect) []AnchorPoint {
	center := node.BottomCenter()
	step := math.Min(fanTotalSpread/float64(branches-1), fanMaxStepDeg)
	start := downAngle - step*float64(branches-1)/2

	anchors := make([]AnchorPoint, 0, branches)
	for i := 0; i < branches; i++ {
		angle := start + step*float64(i)
		pt := pointAtAngle(center, fanRadius, angle)

		class := ClassFanCenter
		switch i {
		case 0:
			class = ClassFanLeft
		case branches - 1:
			class = ClassFanRight
		}

		anchors = append(anchors, AnchorPoint{
			X:        pt.X,
			Y:        pt.Y,
			Angle:    normalizeDeg(angle),
			Class:    class,
			Semantic: SemanticDefault,
		})
	}
	return anchors
}

// placeArc spreads six or more anchors across a wide sweep around the node,
// starting straight down and wrapping through the right side. The radius is
// measured from the node's vertical center so the sweep clears the box.
func placeArc(branches int, node Rect) []AnchorPoint {
	center := node.Center()
	radius := math.Max(node.H/2+arcRadiusPad, arcMinRadius)

	anchors := make([]AnchorPoint, 0, branches)
	for i := 0; i < branches; i++ {
		angle := downAngle + arcSweepDeg*float64(i)/float64(branches-1)
		pt := pointAtAngle(center, radius, angle)
		anchors = append(anchors, AnchorPoint{
			X:        pt.X,
			Y:        pt.Y,
			Angle:    normalizeDeg(angle),
			Class:    ClassArc,
			Semantic: SemanticDefault,
		})
	}
	return anchors
}

// placeCondition reserves the fixed yes/no pair on the bottom edge, then
// appends any further branches on an arc below them.
func placeCondition(branches int, node Rect) []AnchorPoint {
	bottom := node.Y + node.H
	yes := Label(SemanticYes)
	no := Label(SemanticNo)

	anchors := []AnchorPoint{
		{
			X:        node.X + conditionYesFraction*node.W,
			Y:        bottom,
			Angle:    downAngle,
			Class:    ClassFanLeft,
			Semantic: SemanticYes,
			Label:    yes.Text,
		},
		{
			X:        node.X + conditionNoFraction*node.W,
			Y:        bottom,
			Angle:    downAngle,
			Class:    ClassFanRight,
			Semantic: SemanticNo,
			Label:    no.Text,
		},
	}

	extra := branches - 2
	if extra <= 0 {
		return anchors
	}

	center := Point{X: node.X + node.W/2, Y: bottom + overflowDrop}
	for i := 0; i < extra; i++ {
		angle := downAngle
		if extra > 1 {
			angle = downAngle - overflowSpreadDeg/2 + overflowSpreadDeg*float64(i)/float64(extra-1)
		}
		pt := pointAtAngle(center, overflowRadius, angle)
		anchors = append(anchors, AnchorPoint{
			X:        pt.X,
			Y:        pt.Y,
			Angle:    normalizeDeg(angle),
			Class:    ClassArc,
			Semantic: SemanticDefault,
		})
	}
	return anchors
}

// centroidOf averages the anchor positions. An empty distribution uses the
// node's bottom-center so the field is always populated.
func centroidOf(anchors []AnchorPoint, node Rect) Point {
	if len(anchors) == 0 {
		return node.BottomCenter()
	}
	var sx, sy float64
	for _, a := range anchors {
		sx += a.X
		sy += a.Y
	}
	n := float64(len(anchors))
	return Point{X: sx / n, Y: sy / n}
}

// spreadOf returns the diagonal of the anchors' bounding box.
func spreadOf(anchors []AnchorPoint) float64 {
	if len(anchors) < 2 {
		return 0
	}
	minX, maxX := anchors[0].X, anchors[0].X
	minY, maxY := anchors[0].Y, anchors[0].Y
	for _, a := range anchors[1:] {
		minX = math.Min(minX, a.X)
		maxX = math.Max(maxX, a.X)
		minY = math.Min(minY, a.Y)
		maxY = math.Max(maxY, a.Y)
	}
	return Distance(Point{X: minX, Y: minY}, Point{X: maxX, Y: maxY})
}
