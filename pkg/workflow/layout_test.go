package workflow

import (
	"path/filepath"
	"testing"
)

func TestLayoutRoundTrip(t *testing.T) {
	w := buildGraph()
	w.Nodes[0].X = 120.5
	w.Nodes[0].Y = 40
	w.Nodes[1].X = 300
	w.Nodes[1].Y = 220

	l := LayoutFromWorkflow(w, 15, -8)

	data, err := EncodeLayout(l)
	if err != nil {
		t.Fatalf("EncodeLayout failed: %v", err)
	}

	parsed, err := ParseLayout(data)
	if err != nil {
		t.Fatalf("ParseLayout failed: %v", err)
	}

	if parsed.Version != 1 {
		t.Errorf("Version expected 1, got %d", parsed.Version)
	}
	if parsed.Editor.CanvasOffsetX != 15 || parsed.Editor.CanvasOffsetY != -8 {
		t.Errorf("Editor offsets lost: (%.1f, %.1f)",
			parsed.Editor.CanvasOffsetX, parsed.Editor.CanvasOffsetY)
	}

	pos, ok := parsed.Nodes["a"]
	if !ok {
		t.Fatal("Node a missing from parsed layout")
	}
	if pos.X != 120.5 || pos.Y != 40 {
		t.Errorf("Position expected (120.5, 40), got (%.1f, %.1f)", pos.X, pos.Y)
	}
}

func TestLayoutApply(t *testing.T) {
	w := buildGraph()
	l := &Layout{
		Version: 1,
		Nodes: map[string]NodePosition{
			"b":       {X: 77, Y: 99, Width: 250, Height: 90},
			"unknown": {X: 1, Y: 2},
		},
	}

	l.Apply(w)

	b, _ := w.Node("b")
	if b.X != 77 || b.Y != 99 || b.Width != 250 || b.Height != 90 {
		t.Errorf("Layout not applied to node b: %+v", b)
	}

	// Nodes without an entry keep their geometry.
	a, _ := w.Node("a")
	if a.X != 0 || a.Width != 220 {
		t.Errorf("Node a should be untouched, got %+v", a)
	}
}

func TestLayoutApplyIgnoresZeroSizes(t *testing.T) {
	w := buildGraph()
	l := &Layout{
		Version: 1,
		Nodes:   map[string]NodePosition{"a": {X: 10, Y: 20}},
	}

	l.Apply(w)

	a, _ := w.Node("a")
	if a.X != 10 || a.Y != 20 {
		t.Errorf("Position should apply, got (%.1f, %.1f)", a.X, a.Y)
	}
	if a.Width != 220 || a.Height != 85 {
		t.Errorf("Zero layout sizes should not clobber node size, got %.1fx%.1f", a.Width, a.Height)
	}
}

func TestLayoutSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.toml")

	w := buildGraph()
	if err := SaveLayout(path, LayoutFromWorkflow(w, 0, 0)); err != nil {
		t.Fatalf("SaveLayout failed: %v", err)
	}

	loaded, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout failed: %v", err)
	}
	if len(loaded.Nodes) != len(w.Nodes) {
		t.Errorf("Expected %d node entries, got %d", len(w.Nodes), len(loaded.Nodes))
	}
}
