package canvas

import (
	"math"
	"reflect"
	"testing"

	"github.com/ha1tch/flow-toolkit/pkg/workflow"
)

const eps = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestAnchorCountMatchesBranchCount(t *testing.T) {
	node := Rect{X: 0, Y: 0, W: 220, H: 85}

	for _, kind := range workflow.Kinds {
		if kind == workflow.KindCondition {
			continue
		}
		for branches := 0; branches <= 20; branches++ {
			d := LayoutHandles(branches, kind, node)
			if len(d.Anchors) != branches {
				t.Errorf("%s with %d branches: got %d anchors", kind, branches, len(d.Anchors))
			}
		}
	}
}

func TestZeroBranchesEmptyButPopulated(t *testing.T) {
	node := Rect{X: 10, Y: 20, W: 100, H: 50}
	d := LayoutHandles(0, workflow.KindAction, node)

	if len(d.Anchors) != 0 {
		t.Fatalf("Expected no anchors for 0 branches, got %d", len(d.Anchors))
	}
	if d.Strategy != "center" {
		t.Errorf("Expected center strategy, got %q", d.Strategy)
	}
	// Centroid still populated: bottom-center of the node.
	if !almostEqual(d.Centroid.X, 60) || !almostEqual(d.Centroid.Y, 70) {
		t.Errorf("Centroid expected (60, 70), got (%.2f, %.2f)", d.Centroid.X, d.Centroid.Y)
	}
	if d.MaxSpread != 0 {
		t.Errorf("Expected zero spread, got %.2f", d.MaxSpread)
	}
}

func TestSingleBranchBottomCenter(t *testing.T) {
	// Scenario A from the layout contract.
	d := LayoutHandles(1, workflow.KindAction, Rect{X: 100, Y: 100, W: 220, H: 85})

	if len(d.Anchors) != 1 {
		t.Fatalf("Expected 1 anchor, got %d", len(d.Anchors))
	}
	a := d.Anchors[0]
	if !almostEqual(a.X, 210) || !almostEqual(a.Y, 185) {
		t.Errorf("Anchor expected (210, 185), got (%.2f, %.2f)", a.X, a.Y)
	}
	if !almostEqual(a.Angle, 270) {
		t.Errorf("Angle expected 270, got %.2f", a.Angle)
	}
	if a.Class != ClassCenter {
		t.Errorf("Class expected center, got %q", a.Class)
	}
	if a.Semantic != SemanticDefault {
		t.Errorf("Semantic expected default, got %q", a.Semantic)
	}
	if d.Strategy != "center" {
		t.Errorf("Strategy expected center, got %q", d.Strategy)
	}
}

func TestTwoBranchesFixedSpacing(t *testing.T) {
	node := Rect{X: 0, Y: 0, W: 200, H: 80}
	d := LayoutHandles(2, workflow.KindAction, node)

	if len(d.Anchors) != 2 {
		t.Fatalf("Expected 2 anchors, got %d", len(d.Anchors))
	}
	left, right := d.Anchors[0], d.Anchors[1]

	if !almostEqual(right.X-left.X, minSpacing) {
		t.Errorf("Spacing expected %.0f, got %.2f", minSpacing, right.X-left.X)
	}
	// Symmetric about the node center.
	if !almostEqual((left.X+right.X)/2, 100) {
		t.Errorf("Pair not centred: midpoint %.2f", (left.X+right.X)/2)
	}
	if !almostEqual(left.Y, 80) || !almostEqual(right.Y, 80) {
		t.Errorf("Both anchors should sit on the bottom edge, got y=%.2f and y=%.2f", left.Y, right.Y)
	}
	if left.Class != ClassFanLeft || right.Class != ClassFanRight {
		t.Errorf("Classes expected fan-left/fan-right, got %q/%q", left.Class, right.Class)
	}
	if d.Strategy != "fan" {
		t.Errorf("Strategy expected fan, got %q", d.Strategy)
	}
}

func TestFanAnchorsNonDecreasingX(t *testing.T) {
	node := Rect{X: 50, Y: 50, W: 220, H: 85}

	for branches := 3; branches <= 5; branches++ {
		d := LayoutHandles(branches, workflow.KindSwitch, node)
		if d.Strategy != "fan" {
			t.Errorf("%d branches: expected fan strategy, got %q", branches, d.Strategy)
		}
		for i := 1; i < len(d.Anchors); i++ {
			if d.Anchors[i].X < d.Anchors[i-1].X {
				t.Errorf("%d branches: anchors cross at index %d (%.2f < %.2f)",
					branches, i, d.Anchors[i].X, d.Anchors[i-1].X)
			}
		}
	}
}

func TestFanClassesAndSpreadCap(t *testing.T) {
	node := Rect{X: 0, Y: 0, W: 220, H: 85}
	d := LayoutHandles(5, workflow.KindSwitch, node)

	if d.Anchors[0].Class != ClassFanLeft {
		t.Errorf("First anchor expected fan-left, got %q", d.Anchors[0].Class)
	}
	if d.Anchors[4].Class != ClassFanRight {
		t.Errorf("Last anchor expected fan-right, got %q", d.Anchors[4].Class)
	}
	for i := 1; i < 4; i++ {
		if d.Anchors[i].Class != ClassFanCenter {
			t.Errorf("Interior anchor %d expected fan-center, got %q", i, d.Anchors[i].Class)
		}
	}

	// 5 branches: step = min(100/4, 25) = 25, so the fan spans exactly 100
	// degrees, from 220 to 320.
	if !almostEqual(d.Anchors[0].Angle, 220) {
		t.Errorf("First fan angle expected 220, got %.2f", d.Anchors[0].Angle)
	}
	if !almostEqual(d.Anchors[4].Angle, 320) {
		t.Errorf("Last fan angle expected 320, got %.2f", d.Anchors[4].Angle)
	}
}

func TestArcStrategySweep(t *testing.T) {
	d := LayoutHandles(6, workflow.KindSwitch, Rect{X: 0, Y: 0, W: 220, H: 85})

	if d.Strategy != "arc" {
		t.Fatalf("Expected arc strategy, got %q", d.Strategy)
	}
	if len(d.Anchors) != 6 {
		t.Fatalf("Expected 6 anchors, got %d", len(d.Anchors))
	}

	// Sweep starts straight down and ends pointing left after wrapping
	// through the right side.
	if !almostEqual(d.Anchors[0].Angle, 270) {
		t.Errorf("First arc angle expected 270, got %.2f", d.Anchors[0].Angle)
	}
	if !almostEqual(d.Anchors[5].Angle, 180) {
		t.Errorf("Last arc angle expected 180 (270+270 wrapped), got %.2f", d.Anchors[5].Angle)
	}

	// Radius: max(85/2 + 30, 60) = 72.5, measured from the vertical center.
	center := Point{X: 110, Y: 42.5}
	for i, a := range d.Anchors {
		r := Distance(center, a.Point())
		if math.Abs(r-72.5) > 0.001 {
			t.Errorf("Anchor %d at radius %.3f, expected 72.5", i, r)
		}
		if a.Class != ClassArc {
			t.Errorf("Anchor %d class expected arc, got %q", i, a.Class)
		}
	}

	// First anchor straight below center, last straight left.
	if !almostEqual(d.Anchors[0].X, 110) || !almostEqual(d.Anchors[0].Y, 115) {
		t.Errorf("First arc anchor expected (110, 115), got (%.2f, %.2f)", d.Anchors[0].X, d.Anchors[0].Y)
	}
	if !almostEqual(d.Anchors[5].X, 37.5) || !almostEqual(d.Anchors[5].Y, 42.5) {
		t.Errorf("Last arc anchor expected (37.5, 42.5), got (%.2f, %.2f)", d.Anchors[5].X, d.Anchors[5].Y)
	}
}

func TestArcMinimumRadius(t *testing.T) {
	// Short node: h/2 + 30 = 40 < 60, so the radius floor applies.
	d := LayoutHandles(7, workflow.KindAction, Rect{X: 0, Y: 0, W: 100, H: 20})
	center := Point{X: 50, Y: 10}
	for i, a := range d.Anchors {
		r := Distance(center, a.Point())
		if math.Abs(r-60) > 0.001 {
			t.Errorf("Anchor %d at radius %.3f, expected floor 60", i, r)
		}
	}
}

func TestConditionTwoBranches(t *testing.T) {
	// Scenario B from the layout contract.
	d := LayoutHandles(2, workflow.KindCondition, Rect{X: 0, Y: 0, W: 220, H: 85})

	if d.Strategy != "condition" {
		t.Fatalf("Expected condition strategy, got %q", d.Strategy)
	}
	if len(d.Anchors) != 2 {
		t.Fatalf("Expected 2 anchors, got %d", len(d.Anchors))
	}

	yes, no := d.Anchors[0], d.Anchors[1]
	if yes.Semantic != SemanticYes || no.Semantic != SemanticNo {
		t.Errorf("Semantics expected yes/no, got %q/%q", yes.Semantic, no.Semantic)
	}
	if !almostEqual(yes.X, 66) || !almostEqual(yes.Y, 85) {
		t.Errorf("Yes anchor expected (66, 85), got (%.2f, %.2f)", yes.X, yes.Y)
	}
	if !almostEqual(no.X, 154) || !almostEqual(no.Y, 85) {
		t.Errorf("No anchor expected (154, 85), got (%.2f, %.2f)", no.X, no.Y)
	}
	if yes.Label != "Yes" || no.Label != "No" {
		t.Errorf("Labels expected Yes/No, got %q/%q", yes.Label, no.Label)
	}
}

func TestConditionAlwaysReservesPair(t *testing.T) {
	node := Rect{X: 0, Y: 0, W: 200, H: 80}

	// Even with fewer than two branches the yes/no pair is reserved.
	for _, branches := range []int{0, 1, 2} {
		d := LayoutHandles(branches, workflow.KindCondition, node)
		if len(d.Anchors) != 2 {
			t.Errorf("%d branches: expected 2 reserved anchors, got %d", branches, len(d.Anchors))
		}
	}
}

func TestConditionExtraBranches(t *testing.T) {
	node := Rect{X: 0, Y: 0, W: 200, H: 80}
	d := LayoutHandles(5, workflow.KindCondition, node)

	if len(d.Anchors) != 5 {
		t.Fatalf("Expected 5 anchors, got %d", len(d.Anchors))
	}

	counts := map[SemanticType]int{}
	for _, a := range d.Anchors {
		counts[a.Semantic]++
	}
	if counts[SemanticYes] != 1 || counts[SemanticNo] != 1 {
		t.Errorf("Expected exactly one yes and one no, got %d/%d", counts[SemanticYes], counts[SemanticNo])
	}
	if counts[SemanticDefault] != 3 {
		t.Errorf("Expected 3 default anchors, got %d", counts[SemanticDefault])
	}

	// Extra anchors sit on a radius-50 arc centred 40 below the bottom edge.
	center := Point{X: 100, Y: 120}
	for i, a := range d.Anchors[2:] {
		r := Distance(center, a.Point())
		if math.Abs(r-overflowRadius) > 0.001 {
			t.Errorf("Overflow anchor %d at radius %.3f, expected %.0f", i, r, overflowRadius)
		}
	}

	// 180 degree spread: first extra at the left end, last at the right.
	if !almostEqual(d.Anchors[2].Angle, 180) {
		t.Errorf("First overflow angle expected 180, got %.2f", d.Anchors[2].Angle)
	}
	if !almostEqual(d.Anchors[4].Angle, 0) {
		t.Errorf("Last overflow angle expected 0 (360 wrapped), got %.2f", d.Anchors[4].Angle)
	}
}

func TestConditionSingleExtraBranchStraightDown(t *testing.T) {
	node := Rect{X: 0, Y: 0, W: 200, H: 80}
	d := LayoutHandles(3, workflow.KindCondition, node)

	if len(d.Anchors) != 3 {
		t.Fatalf("Expected 3 anchors, got %d", len(d.Anchors))
	}
	extra := d.Anchors[2]
	if !almostEqual(extra.Angle, 270) {
		t.Errorf("Single overflow anchor expected straight down, got %.2f", extra.Angle)
	}
	if !almostEqual(extra.X, 100) || !almostEqual(extra.Y, 170) {
		t.Errorf("Overflow anchor expected (100, 170), got (%.2f, %.2f)", extra.X, extra.Y)
	}
}

func TestLayoutDeterminism(t *testing.T) {
	node := Rect{X: 13.5, Y: 27.25, W: 220, H: 85}

	for branches := 0; branches <= 12; branches++ {
		a := LayoutHandles(branches, workflow.KindSwitch, node)
		b := LayoutHandles(branches, workflow.KindSwitch, node)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%d branches: repeated layout differs", branches)
		}
	}
}

func TestNegativeInputsClamped(t *testing.T) {
	d := LayoutHandles(-3, workflow.KindAction, Rect{X: 0, Y: 0, W: -10, H: -5})
	if len(d.Anchors) != 0 {
		t.Errorf("Negative branch count should clamp to 0 anchors, got %d", len(d.Anchors))
	}
}

func TestNonFiniteGeometryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic on NaN geometry")
		}
	}()
	LayoutHandles(2, workflow.KindAction, Rect{X: math.NaN(), Y: 0, W: 100, H: 50})
}

func TestMaxSpreadPopulated(t *testing.T) {
	node := Rect{X: 0, Y: 0, W: 220, H: 85}

	for _, branches := range []int{2, 4, 8} {
		d := LayoutHandles(branches, workflow.KindAction, node)
		if d.MaxSpread <= 0 {
			t.Errorf("%d branches: MaxSpread should be positive, got %.2f", branches, d.MaxSpread)
		}

		// Spread equals the diagonal of the anchors' bounding box.
		minX, maxX := d.Anchors[0].X, d.Anchors[0].X
		minY, maxY := d.Anchors[0].Y, d.Anchors[0].Y
		for _, a := range d.Anchors {
			minX = math.Min(minX, a.X)
			maxX = math.Max(maxX, a.X)
			minY = math.Min(minY, a.Y)
			maxY = math.Max(maxY, a.Y)
		}
		want := math.Hypot(maxX-minX, maxY-minY)
		if math.Abs(d.MaxSpread-want) > eps {
			t.Errorf("%d branches: MaxSpread %.4f, expected %.4f", branches, d.MaxSpread, want)
		}
	}
}

func TestCentroidIsAnchorMean(t *testing.T) {
	node := Rect{X: 0, Y: 0, W: 220, H: 85}
	d := LayoutHandles(4, workflow.KindAction, node)

	var sx, sy float64
	for _, a := range d.Anchors {
		sx += a.X
		sy += a.Y
	}
	n := float64(len(d.Anchors))
	if !almostEqual(d.Centroid.X, sx/n) || !almostEqual(d.Centroid.Y, sy/n) {
		t.Errorf("Centroid (%.2f, %.2f) is not the anchor mean (%.2f, %.2f)",
			d.Centroid.X, d.Centroid.Y, sx/n, sy/n)
	}
}
